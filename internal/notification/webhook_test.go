package notification

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizhealth/reportgen/internal/config"
)

func testEvent() *Event {
	return &Event{
		Type:         EventReportDegraded,
		RunID:        "run-42",
		ReportType:   "comprehensive",
		CompanyName:  "Acme Co",
		HealthScore:  64,
		HealthBand:   "fair",
		WarningCount: 1,
		DurationMs:   2500,
		Timestamp:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestWebhookNotifier_Send(t *testing.T) {
	var (
		gotBody      []byte
		gotSignature string
		gotAgent     string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSignature = r.Header.Get(SignatureHeader)
		gotAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewWebhookNotifier(&config.WebhookNotificationConfig{URL: server.URL, Secret: "s3cret"})
	assert.Equal(t, "webhook", n.Name())
	require.NoError(t, n.Send(context.Background(), testEvent()))

	var payload WebhookPayload
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, "report_degraded", payload.EventType)
	assert.Equal(t, "run-42", payload.RunID)
	assert.Equal(t, "Acme Co", payload.CompanyName)
	assert.Equal(t, "2026-03-01T12:00:00Z", payload.Timestamp)

	assert.Equal(t, Sign("s3cret", gotBody), gotSignature)
	assert.Equal(t, userAgent, gotAgent)
}

func TestWebhookNotifier_NoSecretNoSignature(t *testing.T) {
	var hasSignature bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasSignature = r.Header[SignatureHeader]
	}))
	defer server.Close()

	n := NewWebhookNotifier(&config.WebhookNotificationConfig{URL: server.URL})
	require.NoError(t, n.Send(context.Background(), testEvent()))
	assert.False(t, hasSignature)
}

func TestWebhookNotifier_Errors(t *testing.T) {
	err := NewWebhookNotifier(&config.WebhookNotificationConfig{}).Send(context.Background(), testEvent())
	assert.EqualError(t, err, "webhook URL is not configured")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	err = NewWebhookNotifier(&config.WebhookNotificationConfig{URL: server.URL}).Send(context.Background(), testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-success status: 502")
}

func TestSign(t *testing.T) {
	// HMAC-SHA256("key", "The quick brown fox jumps over the lazy dog")
	assert.Equal(t,
		"sha256=f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8",
		Sign("key", []byte("The quick brown fox jumps over the lazy dog")))
}
