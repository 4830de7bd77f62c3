package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bizhealth/reportgen/internal/model"
	"github.com/bizhealth/reportgen/pkg/errors"
)

// TestDefault tests the Default function
func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Output.Dir != "./reports" {
		t.Errorf("Output.Dir = %v, want ./reports", cfg.Output.Dir)
	}
	if !cfg.Output.IncludeTOC {
		t.Error("Output.IncludeTOC should be true by default")
	}
	if cfg.Brand != model.DefaultBrand() {
		t.Errorf("Brand = %+v, want default brand", cfg.Brand)
	}
	if cfg.Render.ChartConcurrency != 8 {
		t.Errorf("Render.ChartConcurrency = %v, want 8", cfg.Render.ChartConcurrency)
	}
	if cfg.Render.ChartTimeoutDuration() != 0 {
		t.Errorf("Render.ChartTimeoutDuration() = %v, want 0", cfg.Render.ChartTimeoutDuration())
	}
	if cfg.Export.PDF.Enabled || cfg.Export.Text.Enabled {
		t.Error("exports should be disabled by default")
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled should be true by default")
	}
	if cfg.Telemetry.ServiceName != "reportgen" {
		t.Errorf("Telemetry.ServiceName = %v, want reportgen", cfg.Telemetry.ServiceName)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() unexpected error: %v", err)
	}
}

// TestLoad tests loading configuration from file
func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "reportgen.yaml")

	configContent := `
output:
  dir: /srv/reports
  include_toc: false
brand:
  primary_color: "#003366"
  accent_color: "#ff9900"
render:
  chart_timeout: 15
  chart_concurrency: 4
export:
  pdf:
    enabled: true
    timeout: 30
server:
  port: 9000
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Output.Dir != "/srv/reports" {
		t.Errorf("Output.Dir = %v, want /srv/reports", cfg.Output.Dir)
	}
	if cfg.Output.IncludeTOC {
		t.Error("Output.IncludeTOC should be false")
	}
	if cfg.Brand.PrimaryColor != "#003366" || cfg.Brand.AccentColor != "#ff9900" {
		t.Errorf("Brand = %+v", cfg.Brand)
	}
	if cfg.Render.ChartTimeoutDuration() != 15*time.Second {
		t.Errorf("Render.ChartTimeoutDuration() = %v, want 15s", cfg.Render.ChartTimeoutDuration())
	}
	if cfg.Render.ChartConcurrency != 4 {
		t.Errorf("Render.ChartConcurrency = %v, want 4", cfg.Render.ChartConcurrency)
	}
	if !cfg.Export.PDF.Enabled || cfg.Export.PDF.Timeout != 30 {
		t.Errorf("Export.PDF = %+v", cfg.Export.PDF)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %v, want 9000", cfg.Server.Port)
	}
	// Unset sections keep defaults
	if cfg.History.DBPath != "./data/reportgen.db" {
		t.Errorf("History.DBPath = %v, want default", cfg.History.DBPath)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %v, want text", cfg.Logging.Format)
	}
}

// TestLoad_EnvVarExpansion tests ${VAR} and ${VAR:-default} expansion
func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_REPORT_DIR", "/var/lib/reportgen/out")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "reportgen.yaml")

	configContent := `
output:
  dir: ${TEST_REPORT_DIR}
history:
  db_path: ${TEST_UNSET_DB_PATH:-/tmp/history.db}
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Output.Dir != "/var/lib/reportgen/out" {
		t.Errorf("Output.Dir = %v, want /var/lib/reportgen/out", cfg.Output.Dir)
	}
	if cfg.History.DBPath != "/tmp/history.db" {
		t.Errorf("History.DBPath = %v, want /tmp/history.db", cfg.History.DBPath)
	}
}

// TestLoad_EnvVarOverrides tests RG_* environment variable overrides
func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("RG_OUTPUT_DIR", "/override/out")
	t.Setenv("RG_SERVER_PORT", "9999")
	t.Setenv("RG_SERVER_DEBUG", "true")
	t.Setenv("RG_CHART_CONCURRENCY", "2")
	t.Setenv("RG_PDF_ENABLED", "yes")
	t.Setenv("RG_LOG_LEVEL", "error")
	t.Setenv("RG_BRAND_PRIMARY_COLOR", "#111111")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "reportgen.yaml")

	configContent := `
output:
  dir: ./default
server:
  port: 8080
logging:
  level: info
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Output.Dir != "/override/out" {
		t.Errorf("Output.Dir = %v, want /override/out (from env)", cfg.Output.Dir)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %v, want 9999 (from env)", cfg.Server.Port)
	}
	if !cfg.Server.Debug {
		t.Error("Server.Debug should be true (from env)")
	}
	if cfg.Render.ChartConcurrency != 2 {
		t.Errorf("Render.ChartConcurrency = %v, want 2 (from env)", cfg.Render.ChartConcurrency)
	}
	if !cfg.Export.PDF.Enabled {
		t.Error("Export.PDF.Enabled should be true (from env)")
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %v, want error (from env)", cfg.Logging.Level)
	}
	if cfg.Brand.PrimaryColor != "#111111" {
		t.Errorf("Brand.PrimaryColor = %v, want #111111 (from env)", cfg.Brand.PrimaryColor)
	}
}

// TestLoad_FileNotFound tests loading from non-existent file
func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/reportgen.yaml")
	if err == nil {
		t.Fatal("Load() expected error for nonexistent file, got nil")
	}
	if !errors.HasCode(err, errors.ErrCodeConfigNotFound) {
		t.Errorf("Load() error = %v, want code %s", err, errors.ErrCodeConfigNotFound)
	}
}

// TestLoad_InvalidYAML tests loading invalid YAML
func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "reportgen.yaml")

	configContent := `
output:
  dir: [unclosed
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	_, err := Load(configPath)
	if !errors.HasCode(err, errors.ErrCodeConfigParse) {
		t.Errorf("Load() error = %v, want code %s", err, errors.ErrCodeConfigParse)
	}
}

// TestLoadOrDefault tests the implicit/explicit config path behavior
func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := LoadOrDefault(missing, false)
	if err != nil {
		t.Fatalf("LoadOrDefault(implicit) unexpected error: %v", err)
	}
	if cfg.Output.Dir != "./reports" {
		t.Errorf("Output.Dir = %v, want default", cfg.Output.Dir)
	}

	if _, err := LoadOrDefault(missing, true); err == nil {
		t.Error("LoadOrDefault(explicit) expected error for missing file")
	}

	cfg, err = LoadOrDefault("", true)
	if err != nil || cfg == nil {
		t.Errorf("LoadOrDefault(\"\") = %v, %v", cfg, err)
	}
}

// TestWriteDefault tests that a written default config loads back unchanged
func TestWriteDefault(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "reportgen.yaml")

	if err := WriteDefault(configPath); err != nil {
		t.Fatalf("WriteDefault() unexpected error: %v", err)
	}
	if !Exists(configPath) {
		t.Fatal("config file should exist after WriteDefault()")
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	def := Default()
	if cfg.Output != def.Output || cfg.Brand != def.Brand || cfg.Render != def.Render {
		t.Errorf("reloaded config differs from default: %+v", cfg)
	}
}

// TestServerAddress tests the Address helper
func TestServerAddress(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8095}
	if got := s.Address(); got != "127.0.0.1:8095" {
		t.Errorf("Address() = %v, want 127.0.0.1:8095", got)
	}
}

// TestParseBool tests boolean parsing
func TestParseBool(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{" on ", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseBool(tt.input); got != tt.want {
				t.Errorf("parseBool(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
