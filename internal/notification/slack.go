package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bizhealth/reportgen/internal/config"
	"github.com/bizhealth/reportgen/pkg/logger"
)

// SlackNotifier sends notifications via Slack incoming webhook
type SlackNotifier struct {
	config *config.SlackNotificationConfig
	client *http.Client
}

// SlackMessage represents a Slack message payload
type SlackMessage struct {
	Channel     string            `json:"channel,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments,omitempty"`
}

// SlackAttachment represents a Slack message attachment
type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Fields    []SlackField `json:"fields,omitempty"`
	Footer    string       `json:"footer,omitempty"`
	Timestamp int64        `json:"ts,omitempty"`
}

// SlackField represents a field in Slack attachment
type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// NewSlackNotifier creates a new Slack notifier
func NewSlackNotifier(cfg *config.SlackNotificationConfig) *SlackNotifier {
	return &SlackNotifier{
		config: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Name returns the notifier name
func (s *SlackNotifier) Name() string {
	return "slack"
}

// Send sends a notification to Slack
func (s *SlackNotifier) Send(ctx context.Context, event *Event) error {
	if s.config.WebhookURL == "" {
		return fmt.Errorf("Slack webhook URL is not configured")
	}

	body, err := json.Marshal(s.buildMessage(event))
	if err != nil {
		return fmt.Errorf("failed to marshal Slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create Slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	logger.Debug("Sending Slack notification",
		zap.String("event_type", string(event.Type)),
	)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send Slack request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	// Slack returns "ok" on success
	if resp.StatusCode != http.StatusOK || string(respBody) != "ok" {
		return fmt.Errorf("Slack returned error: status=%d, body=%s", resp.StatusCode, string(respBody))
	}
	return nil
}

// buildMessage builds a Slack message with one attachment per run
func (s *SlackNotifier) buildMessage(event *Event) *SlackMessage {
	var emoji, color, statusText string
	switch event.Type {
	case EventReportCompleted:
		emoji, color, statusText = ":white_check_mark:", "good", "Completed"
	case EventReportDegraded:
		emoji, color, statusText = ":warning:", "warning", "Completed with warnings"
	default:
		emoji, color, statusText = ":x:", "danger", "Failed"
	}

	fields := []SlackField{
		{Title: "Company", Value: event.CompanyName, Short: true},
		{Title: "Run ID", Value: event.RunID, Short: true},
	}
	if event.Type != EventReportFailed {
		fields = append(fields,
			SlackField{Title: "Health Score", Value: fmt.Sprintf("%.0f %s", event.HealthScore, event.HealthBand), Short: true},
			SlackField{Title: "Duration", Value: fmt.Sprintf("%.2fs", float64(event.DurationMs)/1000), Short: true},
		)
	}
	if event.WarningCount > 0 {
		fields = append(fields, SlackField{Title: "Warnings", Value: fmt.Sprintf("%d", event.WarningCount), Short: true})
	}
	if event.ErrorMessage != "" {
		fields = append(fields, SlackField{Title: "Error", Value: truncateText(event.ErrorMessage, 500)})
	}

	msg := &SlackMessage{
		Text: fmt.Sprintf("%s *Report %s*", emoji, statusText),
		Attachments: []SlackAttachment{
			{
				Color:     color,
				Title:     fmt.Sprintf("%s report: %s", event.ReportType, event.CompanyName),
				Fields:    fields,
				Footer:    "ReportGen Notification",
				Timestamp: event.Timestamp.Unix(),
			},
		},
	}
	if s.config.Channel != "" {
		msg.Channel = s.config.Channel
	}
	return msg
}

// truncateText truncates text to a maximum length
func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen-3] + "..."
}
