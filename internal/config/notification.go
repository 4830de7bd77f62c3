package config

import (
	"fmt"
	"net/url"
)

// NotificationChannel represents the notification delivery channel
type NotificationChannel string

const (
	NotificationChannelWebhook NotificationChannel = "webhook"
	NotificationChannelSlack   NotificationChannel = "slack"
)

// NotificationEvent names a run outcome that can trigger a notification
type NotificationEvent string

const (
	NotificationEventReportCompleted NotificationEvent = "report_completed"
	NotificationEventReportDegraded  NotificationEvent = "report_degraded"
	NotificationEventReportFailed    NotificationEvent = "report_failed"
)

var validNotificationEvents = map[NotificationEvent]bool{
	NotificationEventReportCompleted: true,
	NotificationEventReportDegraded:  true,
	NotificationEventReportFailed:    true,
}

// NotificationConfig configures run outcome notifications
type NotificationConfig struct {
	Enabled bool                `yaml:"enabled"`
	Channel NotificationChannel `yaml:"channel"`
	// Events lists the outcomes to announce; empty means degraded and failed runs
	Events  []NotificationEvent       `yaml:"events"`
	Webhook WebhookNotificationConfig `yaml:"webhook"`
	Slack   SlackNotificationConfig   `yaml:"slack"`
	// Timeout is the delivery deadline in seconds
	Timeout int `yaml:"timeout"`
}

// WebhookNotificationConfig configures a generic JSON webhook
type WebhookNotificationConfig struct {
	URL string `yaml:"url"`
	// Secret signs the payload with HMAC-SHA256 when set
	Secret string `yaml:"secret"`
}

// SlackNotificationConfig configures a Slack incoming webhook
type SlackNotificationConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	Channel    string `yaml:"channel"`
}

// IsEnabled reports whether notifications are turned on
func (c *NotificationConfig) IsEnabled() bool {
	return c != nil && c.Enabled
}

// HasEvent reports whether event should be announced
func (c *NotificationConfig) HasEvent(event NotificationEvent) bool {
	if len(c.Events) == 0 {
		return event == NotificationEventReportDegraded || event == NotificationEventReportFailed
	}
	for _, e := range c.Events {
		if e == event {
			return true
		}
	}
	return false
}

// validate returns the notification problems found
func (c *NotificationConfig) validate() []string {
	if !c.Enabled {
		return nil
	}

	var problems []string
	switch c.Channel {
	case NotificationChannelWebhook:
		if !isHTTPURL(c.Webhook.URL) {
			problems = append(problems, "notification.webhook.url must be an http(s) URL")
		}
	case NotificationChannelSlack:
		if !isHTTPURL(c.Slack.WebhookURL) {
			problems = append(problems, "notification.slack.webhook_url must be an http(s) URL")
		}
	default:
		problems = append(problems, fmt.Sprintf("notification.channel %q must be webhook or slack", c.Channel))
	}

	for _, e := range c.Events {
		if !validNotificationEvents[e] {
			problems = append(problems, fmt.Sprintf("notification.events: unknown event %q", e))
		}
	}
	if c.Timeout < 0 {
		problems = append(problems, "notification.timeout cannot be negative")
	}
	return problems
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
