package notification

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bizhealth/reportgen/internal/config"
	"github.com/bizhealth/reportgen/pkg/logger"
)

// SignatureHeader carries the HMAC-SHA256 of the payload when a secret is set
const SignatureHeader = "X-ReportGen-Signature"

// WebhookNotifier sends notifications via HTTP webhook
type WebhookNotifier struct {
	config *config.WebhookNotificationConfig
	client *http.Client
}

// WebhookPayload is the JSON payload sent to the webhook endpoint
type WebhookPayload struct {
	EventType    string  `json:"event_type"`
	RunID        string  `json:"run_id"`
	ReportType   string  `json:"report_type"`
	CompanyName  string  `json:"company_name"`
	HealthScore  float64 `json:"health_score"`
	HealthBand   string  `json:"health_band,omitempty"`
	WarningCount int     `json:"warning_count"`
	ErrorMessage string  `json:"error_message,omitempty"`
	HTMLPath     string  `json:"html_path,omitempty"`
	DurationMs   int64   `json:"duration_ms"`
	// Timestamp in RFC3339 format
	Timestamp string `json:"timestamp"`
}

// NewWebhookNotifier creates a new webhook notifier
func NewWebhookNotifier(cfg *config.WebhookNotificationConfig) *WebhookNotifier {
	return &WebhookNotifier{
		config: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Name returns the notifier name
func (w *WebhookNotifier) Name() string {
	return "webhook"
}

// Send posts the event to the configured webhook URL
func (w *WebhookNotifier) Send(ctx context.Context, event *Event) error {
	if w.config.URL == "" {
		return fmt.Errorf("webhook URL is not configured")
	}

	payload := WebhookPayload{
		EventType:    string(event.Type),
		RunID:        event.RunID,
		ReportType:   event.ReportType,
		CompanyName:  event.CompanyName,
		HealthScore:  event.HealthScore,
		HealthBand:   event.HealthBand,
		WarningCount: event.WarningCount,
		ErrorMessage: event.ErrorMessage,
		HTMLPath:     event.HTMLPath,
		DurationMs:   event.DurationMs,
		Timestamp:    event.Timestamp.Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if w.config.Secret != "" {
		req.Header.Set(SignatureHeader, Sign(w.config.Secret, body))
	}

	logger.Debug("Sending webhook notification",
		zap.String("url", w.config.URL),
		zap.String("event_type", string(event.Type)),
	)

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned non-success status: %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// Sign computes the signature header value for payload
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
