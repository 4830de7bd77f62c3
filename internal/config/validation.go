// Package config provides configuration management for the application.
// This file contains validation functions for configuration values.
package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/bizhealth/reportgen/internal/model"
	"github.com/bizhealth/reportgen/pkg/errors"
)

// MaxChartConcurrency caps render.chart_concurrency
const MaxChartConcurrency = 64

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks the configuration and returns the first problem found
// as an ErrCodeConfigInvalid error
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Output.Dir) == "" {
		problems = append(problems, "output.dir cannot be empty")
	}

	if c.Brand.PrimaryColor != "" && !model.IsHexColor(c.Brand.PrimaryColor) {
		problems = append(problems, fmt.Sprintf("brand.primary_color %q is not a hex color", c.Brand.PrimaryColor))
	}
	if c.Brand.AccentColor != "" && !model.IsHexColor(c.Brand.AccentColor) {
		problems = append(problems, fmt.Sprintf("brand.accent_color %q is not a hex color", c.Brand.AccentColor))
	}

	if c.Render.ChartTimeout < 0 {
		problems = append(problems, "render.chart_timeout cannot be negative")
	}
	if c.Render.ChartConcurrency < 1 || c.Render.ChartConcurrency > MaxChartConcurrency {
		problems = append(problems, fmt.Sprintf("render.chart_concurrency must be between 1 and %d", MaxChartConcurrency))
	}

	if c.Export.PDF.Enabled && c.Export.PDF.Timeout <= 0 {
		problems = append(problems, "export.pdf.timeout must be positive when PDF export is enabled")
	}

	if c.History.Enabled && strings.TrimSpace(c.History.DBPath) == "" {
		problems = append(problems, "history.db_path cannot be empty when history is enabled")
	}
	if c.History.RetentionDays < 0 {
		problems = append(problems, "history.retention_days cannot be negative")
	}
	if c.History.Enabled && c.History.RetentionDays > 0 {
		if _, err := cron.ParseStandard(c.History.CleanupSchedule); err != nil {
			problems = append(problems, fmt.Sprintf("history.cleanup_schedule %q is not a valid cron expression", c.History.CleanupSchedule))
		}
	}

	problems = append(problems, c.Notify.validate()...)

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}

	if c.Logging.Level != "" && !validLogLevels[strings.ToLower(c.Logging.Level)] {
		problems = append(problems, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	if c.Logging.Format != "" && c.Logging.Format != "text" && c.Logging.Format != "json" {
		problems = append(problems, fmt.Sprintf("logging.format %q must be text or json", c.Logging.Format))
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New(errors.ErrCodeConfigInvalid, problems[0]).WithDetails(problems)
}
