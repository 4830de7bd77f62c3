package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func resetGlobal() {
	mu.Lock()
	globalLogger = nil
	mu.Unlock()
	once = sync.Once{}
}

func TestInit(t *testing.T) {
	resetGlobal()

	cfg := Config{Level: "info", Format: "json"}
	if err := Init(cfg); err != nil {
		t.Fatalf("Init() error = %v, want nil", err)
	}
	// Second call should be a no-op
	if err := Init(cfg); err != nil {
		t.Errorf("Init() second call error = %v, want nil", err)
	}
}

func TestInit_TextFormatWithFile(t *testing.T) {
	resetGlobal()

	logFile := filepath.Join(t.TempDir(), "logs", "reportgen.log")
	cfg := Config{Level: "debug", Format: "text", File: logFile}
	if err := Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Info("Report written", zap.String("path", "/tmp/out"), zap.Int("sections", 12))
	_ = Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "[INFO]") || !strings.Contains(line, "path=/tmp/out") || !strings.Contains(line, "sections=12") {
		t.Errorf("unexpected text log line: %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Error("file output should not contain ANSI color codes")
	}
}

func TestInit_InvalidLevel(t *testing.T) {
	resetGlobal()

	if err := Init(Config{Level: "loud", Format: "json"}); err != nil {
		t.Fatalf("Init() with invalid level should default to info, got error = %v", err)
	}
}

func TestGet_Uninitialized(t *testing.T) {
	resetGlobal()

	if Get() == nil {
		t.Error("Get() returned nil logger")
	}
	if err := Sync(); err != nil {
		t.Errorf("Sync() with uninitialized logger error = %v, want nil", err)
	}
}

func TestReplaceAndWithRun(t *testing.T) {
	resetGlobal()

	core, logs := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))
	defer restore()

	WithRun("run-1").Warn("Narrative content insufficient")
	Warn("plain warning")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if got := entries[0].ContextMap()[FieldRunID]; got != "run-1" {
		t.Errorf("run_id = %v, want run-1", got)
	}
	if _, ok := entries[1].ContextMap()[FieldRunID]; ok {
		t.Error("plain warning should not carry run_id")
	}
}

func TestWithRun_EmptyID(t *testing.T) {
	resetGlobal()

	core, logs := observer.New(zapcore.InfoLevel)
	restore := Replace(zap.New(core))
	defer restore()

	WithRun("").Info("no run")
	if len(logs.All()[0].Context) != 0 {
		t.Error("empty run id should not add a field")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantError bool
	}{
		{"valid debug", "debug", false},
		{"valid info", "info", false},
		{"valid warn", "warn", false},
		{"valid error", "error", false},
		{"invalid level", "invalid", true},
		{"empty level", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseLevel(tt.level)
			if (err != nil) != tt.wantError {
				t.Errorf("parseLevel(%q) error = %v, wantError = %v", tt.level, err, tt.wantError)
			}
		})
	}
}
