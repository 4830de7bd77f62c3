package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizhealth/reportgen/internal/config"
	"github.com/bizhealth/reportgen/internal/model"
)

// recordingNotifier captures sent events
type recordingNotifier struct {
	mu     sync.Mutex
	events []*Event
	err    error
}

func (r *recordingNotifier) Name() string { return "recording" }

func (r *recordingNotifier) Send(_ context.Context, event *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingNotifier) sent() []*Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Event(nil), r.events...)
}

func TestEventFromRun(t *testing.T) {
	tests := []struct {
		status model.RunStatus
		want   EventType
	}{
		{status: model.RunStatusCompleted, want: EventReportCompleted},
		{status: model.RunStatusDegraded, want: EventReportDegraded},
		{status: model.RunStatusFailed, want: EventReportFailed},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			event := EventFromRun(&model.ReportRun{
				RunID:        "run-1",
				ReportType:   "comprehensive",
				CompanyName:  "Acme Co",
				HealthScore:  72,
				Status:       tt.status,
				WarningCount: 2,
				DurationMs:   1500,
			})
			assert.Equal(t, tt.want, event.Type)
			assert.Equal(t, "run-1", event.RunID)
			assert.Equal(t, "Acme Co", event.CompanyName)
			assert.Equal(t, 2, event.WarningCount)
			assert.Equal(t, int64(1500), event.DurationMs)
			assert.False(t, event.Timestamp.IsZero())
		})
	}
}

func TestNewManager(t *testing.T) {
	disabled := NewManager(config.NotificationConfig{Channel: config.NotificationChannelWebhook})
	assert.False(t, disabled.Enabled())

	webhook := NewManager(config.NotificationConfig{
		Enabled: true,
		Channel: config.NotificationChannelWebhook,
		Webhook: config.WebhookNotificationConfig{URL: "http://localhost"},
	})
	require.True(t, webhook.Enabled())
	assert.Equal(t, "webhook", webhook.notifier.Name())

	slack := NewManager(config.NotificationConfig{Enabled: true, Channel: config.NotificationChannelSlack})
	require.True(t, slack.Enabled())
	assert.Equal(t, "slack", slack.notifier.Name())

	unknown := NewManager(config.NotificationConfig{Enabled: true, Channel: "pager"})
	assert.False(t, unknown.Enabled())

	var nilManager *Manager
	assert.False(t, nilManager.Enabled())
	assert.NoError(t, nilManager.Notify(context.Background(), &Event{Type: EventReportFailed}))
}

func TestManager_Notify_FiltersEvents(t *testing.T) {
	rec := &recordingNotifier{}
	m := NewManagerWithNotifier(config.NotificationConfig{Enabled: true}, rec)

	ctx := context.Background()
	require.NoError(t, m.Notify(ctx, &Event{Type: EventReportCompleted, RunID: "a"}))
	require.NoError(t, m.Notify(ctx, &Event{Type: EventReportDegraded, RunID: "b"}))
	require.NoError(t, m.Notify(ctx, &Event{Type: EventReportFailed, RunID: "c"}))

	sent := rec.sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "b", sent[0].RunID)
	assert.Equal(t, "c", sent[1].RunID)
}

func TestManager_Notify_ExplicitEvents(t *testing.T) {
	rec := &recordingNotifier{}
	m := NewManagerWithNotifier(config.NotificationConfig{
		Enabled: true,
		Events:  []config.NotificationEvent{config.NotificationEventReportCompleted},
	}, rec)

	require.NoError(t, m.Notify(context.Background(), &Event{Type: EventReportCompleted}))
	require.NoError(t, m.Notify(context.Background(), &Event{Type: EventReportFailed}))
	assert.Len(t, rec.sent(), 1)
}

func TestManager_Notify_SendError(t *testing.T) {
	rec := &recordingNotifier{err: errors.New("connection refused")}
	m := NewManagerWithNotifier(config.NotificationConfig{Enabled: true, Timeout: 1}, rec)

	err := m.Notify(context.Background(), &Event{Type: EventReportFailed, Timestamp: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "via recording")
	assert.Contains(t, err.Error(), "connection refused")
}
