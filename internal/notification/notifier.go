// Package notification announces report run outcomes over a webhook or Slack.
package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bizhealth/reportgen/internal/config"
	"github.com/bizhealth/reportgen/internal/model"
	"github.com/bizhealth/reportgen/pkg/logger"
)

// EventType represents the type of notification event
type EventType string

const (
	EventReportCompleted EventType = EventType(config.NotificationEventReportCompleted)
	EventReportDegraded  EventType = EventType(config.NotificationEventReportDegraded)
	EventReportFailed    EventType = EventType(config.NotificationEventReportFailed)
)

const userAgent = "ReportGen-Notifier/1.0"

// Event describes one finished report run
type Event struct {
	Type         EventType `json:"type"`
	RunID        string    `json:"run_id"`
	ReportType   string    `json:"report_type"`
	CompanyName  string    `json:"company_name"`
	HealthScore  float64   `json:"health_score"`
	HealthBand   string    `json:"health_band,omitempty"`
	WarningCount int       `json:"warning_count"`
	ErrorMessage string    `json:"error_message,omitempty"`
	HTMLPath     string    `json:"html_path,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
	Timestamp    time.Time `json:"timestamp"`
}

// EventFromRun builds the event announcing run
func EventFromRun(run *model.ReportRun) *Event {
	event := &Event{
		RunID:        run.RunID,
		ReportType:   run.ReportType,
		CompanyName:  run.CompanyName,
		HealthScore:  run.HealthScore,
		HealthBand:   run.HealthBand,
		WarningCount: run.WarningCount,
		ErrorMessage: run.ErrorMessage,
		HTMLPath:     run.HTMLPath,
		DurationMs:   run.DurationMs,
		Timestamp:    time.Now(),
	}
	switch run.Status {
	case model.RunStatusFailed:
		event.Type = EventReportFailed
	case model.RunStatusDegraded:
		event.Type = EventReportDegraded
	default:
		event.Type = EventReportCompleted
	}
	return event
}

// Notifier is the interface that all notification channels must implement
type Notifier interface {
	// Name returns the name of the notifier (e.g., "webhook", "slack")
	Name() string
	// Send sends a notification for the given event
	Send(ctx context.Context, event *Event) error
}

// Manager filters events by configuration and dispatches them to the
// configured channel
type Manager struct {
	cfg      config.NotificationConfig
	notifier Notifier
}

// NewManager creates a notification manager. A disabled configuration yields
// a manager that drops every event.
func NewManager(cfg config.NotificationConfig) *Manager {
	m := &Manager{cfg: cfg}
	if !cfg.IsEnabled() {
		return m
	}

	switch cfg.Channel {
	case config.NotificationChannelWebhook:
		m.notifier = NewWebhookNotifier(&m.cfg.Webhook)
	case config.NotificationChannelSlack:
		m.notifier = NewSlackNotifier(&m.cfg.Slack)
	default:
		logger.Warn("Unknown notification channel",
			zap.String("channel", string(cfg.Channel)),
		)
	}
	return m
}

// NewManagerWithNotifier creates a manager that sends through n
func NewManagerWithNotifier(cfg config.NotificationConfig, n Notifier) *Manager {
	return &Manager{cfg: cfg, notifier: n}
}

// Enabled reports whether events can be delivered
func (m *Manager) Enabled() bool {
	return m != nil && m.cfg.IsEnabled() && m.notifier != nil
}

// Notify sends event if its type is enabled. A nil or disabled manager
// does nothing.
func (m *Manager) Notify(ctx context.Context, event *Event) error {
	if !m.Enabled() {
		return nil
	}
	if !m.cfg.HasEvent(config.NotificationEvent(event.Type)) {
		logger.Debug("Event type not in notification list, skipping",
			zap.String("event_type", string(event.Type)),
		)
		return nil
	}

	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(m.cfg.Timeout)*time.Second)
		defer cancel()
	}

	if err := m.notifier.Send(ctx, event); err != nil {
		logger.Error("Failed to send notification",
			zap.String("channel", m.notifier.Name()),
			zap.String("event_type", string(event.Type)),
			zap.String(logger.FieldRunID, event.RunID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send notification via %s: %w", m.notifier.Name(), err)
	}

	logger.Info("Notification sent",
		zap.String("channel", m.notifier.Name()),
		zap.String("event_type", string(event.Type)),
		zap.String(logger.FieldRunID, event.RunID),
	)
	return nil
}
