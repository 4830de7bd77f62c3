// Package config provides configuration management for the application.
// It supports YAML configuration files with environment variable expansion and
// RG_* environment variable overrides.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bizhealth/reportgen/consts"
	"github.com/bizhealth/reportgen/internal/model"
	"github.com/bizhealth/reportgen/pkg/errors"
	"github.com/bizhealth/reportgen/pkg/logger"
	"github.com/bizhealth/reportgen/pkg/telemetry"
)

// Default configuration values
const (
	defaultOutputDir        = "./reports"
	defaultChartConcurrency = 8
	defaultPDFTimeout       = 60
	defaultHistoryDBPath    = "./data/reportgen.db"
	defaultCleanupSchedule  = "0 3 * * *"
	defaultNotifyTimeout    = 10
	defaultServerPort       = 8095
	defaultOTLPEndpoint     = "localhost:4317"
	defaultPrometheusPort   = 9090
)

// DefaultConfigPath is the default path for the configuration file
const DefaultConfigPath = "config/reportgen.yaml"

// Config represents the complete application configuration
type Config struct {
	Output    OutputConfig       `yaml:"output"`
	Brand     model.Brand        `yaml:"brand"`
	Render    RenderConfig       `yaml:"render"`
	Export    ExportConfig       `yaml:"export"`
	History   HistoryConfig      `yaml:"history"`
	Notify    NotificationConfig `yaml:"notification"`
	Server    ServerConfig       `yaml:"server"`
	Logging   logger.Config      `yaml:"logging"`
	Telemetry telemetry.Config   `yaml:"telemetry"`
}

// OutputConfig controls where reports are written
type OutputConfig struct {
	// Dir is the base directory; each run writes into <dir>/<run id>
	Dir string `yaml:"dir"`
	// IncludeTOC renders the table of contents
	IncludeTOC bool `yaml:"include_toc"`
}

// RenderConfig controls the fragment fan-out
type RenderConfig struct {
	// ChartTimeout is the per-chart deadline in seconds (0 = no deadline)
	ChartTimeout int `yaml:"chart_timeout"`
	// ChartConcurrency bounds the number of charts rendered at once
	ChartConcurrency int `yaml:"chart_concurrency"`
}

// ChartTimeoutDuration returns the per-chart deadline as a duration
func (c *RenderConfig) ChartTimeoutDuration() time.Duration {
	return time.Duration(c.ChartTimeout) * time.Second
}

// ExportConfig holds export format configuration
type ExportConfig struct {
	PDF  PDFExportConfig  `yaml:"pdf"`
	Text TextExportConfig `yaml:"text"`
}

// PDFExportConfig configures headless Chrome PDF export
type PDFExportConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Timeout    int    `yaml:"timeout"`     // seconds
	ChromePath string `yaml:"chrome_path"` // empty = chromedp default lookup
}

// TextExportConfig configures plain-text export
type TextExportConfig struct {
	Enabled bool `yaml:"enabled"`
}

// HistoryConfig configures the report run history database
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
	// RetentionDays purges runs older than this many days (0 = keep forever)
	RetentionDays int `yaml:"retention_days"`
	// CleanupSchedule is the cron expression of the purge job
	CleanupSchedule string `yaml:"cleanup_schedule"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	Debug       bool     `yaml:"debug"`
	CORSOrigins []string `yaml:"cors_origins"` // Allowed CORS origins whitelist
}

// Address returns the server address string
func (c *ServerConfig) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:        defaultOutputDir,
			IncludeTOC: true,
		},
		Brand: model.DefaultBrand(),
		Render: RenderConfig{
			ChartTimeout:     0,
			ChartConcurrency: defaultChartConcurrency,
		},
		Export: ExportConfig{
			PDF: PDFExportConfig{
				Enabled: false,
				Timeout: defaultPDFTimeout,
			},
			Text: TextExportConfig{Enabled: false},
		},
		History: HistoryConfig{
			Enabled:         true,
			DBPath:          defaultHistoryDBPath,
			RetentionDays:   0,
			CleanupSchedule: defaultCleanupSchedule,
		},
		Notify: NotificationConfig{
			Enabled: false,
			Channel: NotificationChannelWebhook,
			Timeout: defaultNotifyTimeout,
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        defaultServerPort,
			Debug:       false,
			CORSOrigins: []string{},
		},
		Logging: logger.Config{
			Level:      "info",
			Format:     "text",
			File:       "",
			MaxSize:    100,
			MaxAge:     7,
			MaxBackups: 5,
			Compress:   false,
		},
		Telemetry: telemetry.Config{
			Enabled:     false,
			ServiceName: consts.ServiceName,
			OTLP: telemetry.OTLPConfig{
				Enabled:  false,
				Endpoint: defaultOTLPEndpoint,
				Insecure: true,
			},
			Prometheus: telemetry.PrometheusConfig{
				Enabled: false,
				Port:    defaultPrometheusPort,
			},
		},
	}
}

// Load loads configuration from a YAML file with environment variable expansion.
// Environment variables can override values using RG_ prefix:
//   - RG_OUTPUT_DIR, RG_BRAND_PRIMARY_COLOR, RG_BRAND_ACCENT_COLOR
//   - RG_CHART_TIMEOUT, RG_CHART_CONCURRENCY
//   - RG_PDF_ENABLED, RG_PDF_CHROME_PATH, RG_TEXT_ENABLED
//   - RG_HISTORY_ENABLED, RG_HISTORY_DB_PATH, RG_HISTORY_RETENTION_DAYS
//   - RG_NOTIFY_ENABLED, RG_NOTIFY_WEBHOOK_URL, RG_NOTIFY_WEBHOOK_SECRET, RG_NOTIFY_SLACK_WEBHOOK_URL
//   - RG_SERVER_HOST, RG_SERVER_PORT, RG_SERVER_DEBUG
//   - RG_LOG_LEVEL, RG_LOG_FORMAT, RG_LOG_FILE
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeConfigNotFound, fmt.Sprintf("config file %s not found", path), err)
		}
		return nil, errors.Wrap(errors.ErrCodeConfigParse, "failed to read config", err)
	}

	expanded := expandEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigParse, "failed to parse config", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to defaults otherwise.
// An explicitly named file that is missing is still an error.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	if path == "" || (!explicit && !Exists(path)) {
		cfg := Default()
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	return Load(path)
}

// Exists checks if a configuration file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteDefault writes the default configuration to path
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, []byte(configHeader+string(data)), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// configHeader is the comment header for generated config files
const configHeader = `# ReportGen Configuration
#
# Environment Variable Support:
#   - Use ${VAR_NAME} or ${VAR_NAME:-default} syntax in values
#   - Or use RG_* prefix environment variables to override:
#     RG_OUTPUT_DIR, RG_BRAND_PRIMARY_COLOR, RG_BRAND_ACCENT_COLOR
#     RG_CHART_TIMEOUT, RG_CHART_CONCURRENCY
#     RG_PDF_ENABLED, RG_TEXT_ENABLED, RG_HISTORY_DB_PATH, RG_HISTORY_RETENTION_DAYS
#     RG_NOTIFY_ENABLED, RG_NOTIFY_WEBHOOK_URL, RG_NOTIFY_SLACK_WEBHOOK_URL
#     RG_SERVER_HOST, RG_SERVER_PORT, RG_LOG_LEVEL, RG_LOG_FORMAT
#

`

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
// Only the braced form is matched so literal $ characters survive.
func expandEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1]

		// Support default values: ${VAR_NAME:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]

		if value := os.Getenv(varName); value != "" {
			return value
		}
		if len(parts) > 1 {
			return parts[1]
		}
		return ""
	})
}

// applyEnvOverrides applies RG_* environment variable overrides
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RG_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("RG_INCLUDE_TOC"); v != "" {
		cfg.Output.IncludeTOC = parseBool(v)
	}

	if v := os.Getenv("RG_BRAND_PRIMARY_COLOR"); v != "" {
		cfg.Brand.PrimaryColor = v
	}
	if v := os.Getenv("RG_BRAND_ACCENT_COLOR"); v != "" {
		cfg.Brand.AccentColor = v
	}

	setInt("RG_CHART_TIMEOUT", &cfg.Render.ChartTimeout)
	setInt("RG_CHART_CONCURRENCY", &cfg.Render.ChartConcurrency)

	if v := os.Getenv("RG_PDF_ENABLED"); v != "" {
		cfg.Export.PDF.Enabled = parseBool(v)
	}
	if v := os.Getenv("RG_PDF_CHROME_PATH"); v != "" {
		cfg.Export.PDF.ChromePath = v
	}
	setInt("RG_PDF_TIMEOUT", &cfg.Export.PDF.Timeout)
	if v := os.Getenv("RG_TEXT_ENABLED"); v != "" {
		cfg.Export.Text.Enabled = parseBool(v)
	}

	if v := os.Getenv("RG_HISTORY_ENABLED"); v != "" {
		cfg.History.Enabled = parseBool(v)
	}
	if v := os.Getenv("RG_HISTORY_DB_PATH"); v != "" {
		cfg.History.DBPath = v
	}
	setInt("RG_HISTORY_RETENTION_DAYS", &cfg.History.RetentionDays)

	if v := os.Getenv("RG_NOTIFY_ENABLED"); v != "" {
		cfg.Notify.Enabled = parseBool(v)
	}
	if v := os.Getenv("RG_NOTIFY_WEBHOOK_URL"); v != "" {
		cfg.Notify.Webhook.URL = v
	}
	if v := os.Getenv("RG_NOTIFY_WEBHOOK_SECRET"); v != "" {
		cfg.Notify.Webhook.Secret = v
	}
	if v := os.Getenv("RG_NOTIFY_SLACK_WEBHOOK_URL"); v != "" {
		cfg.Notify.Slack.WebhookURL = v
	}

	if v := os.Getenv("RG_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	setInt("RG_SERVER_PORT", &cfg.Server.Port)
	if v := os.Getenv("RG_SERVER_DEBUG"); v != "" {
		cfg.Server.Debug = parseBool(v)
	}

	if v := os.Getenv("RG_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RG_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("RG_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}

	if v := os.Getenv("RG_TELEMETRY_ENABLED"); v != "" {
		cfg.Telemetry.Enabled = parseBool(v)
	}
	if v := os.Getenv("RG_OTLP_ENABLED"); v != "" {
		cfg.Telemetry.OTLP.Enabled = parseBool(v)
	}
	if v := os.Getenv("RG_OTLP_ENDPOINT"); v != "" {
		cfg.Telemetry.OTLP.Endpoint = v
	}
	if v := os.Getenv("RG_PROMETHEUS_ENABLED"); v != "" {
		cfg.Telemetry.Prometheus.Enabled = parseBool(v)
	}
	setInt("RG_PROMETHEUS_PORT", &cfg.Telemetry.Prometheus.Port)
}

func setInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// parseBool parses a boolean string value
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}
