package check

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bizhealth/reportgen/internal/config"
)

func testChecker(t *testing.T, answer bool) *Checker {
	t.Helper()
	checker := NewChecker(filepath.Join(t.TempDir(), "config", "reportgen.yaml"))
	checker.confirm = func(string) (bool, error) { return answer, nil }
	return checker
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "reports")
	cfg.History.DBPath = filepath.Join(t.TempDir(), "history.db")
	return cfg
}

func TestNewChecker(t *testing.T) {
	checker := NewChecker("")
	if checker.ConfigPath() != config.DefaultConfigPath {
		t.Errorf("ConfigPath() = %q, want %q", checker.ConfigPath(), config.DefaultConfigPath)
	}
	if checker.Report() == nil {
		t.Error("Report should be initialized")
	}
	if checker.confirm == nil {
		t.Error("confirm should default to the interactive prompt")
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := ensureDir(filepath.Join(dir, "file.yaml")); err != nil {
		t.Fatalf("ensureDir failed: %v", err)
	}
	if !fileExists(dir) {
		t.Error("Directory should have been created")
	}
	if fileExists(filepath.Join(dir, "file.yaml")) {
		t.Error("ensureDir should not create the file itself")
	}
}

func TestRun_CreatesConfig(t *testing.T) {
	withChrome(t, "/usr/bin/chromium")
	checker := testChecker(t, true)
	t.Setenv("RG_OUTPUT_DIR", filepath.Join(t.TempDir(), "reports"))
	t.Setenv("RG_HISTORY_DB_PATH", filepath.Join(t.TempDir(), "history.db"))

	if err := checker.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !fileExists(checker.ConfigPath()) {
		t.Fatal("config file should have been created")
	}
	if _, err := config.Load(checker.ConfigPath()); err != nil {
		t.Errorf("created config does not load: %v", err)
	}

	files := checker.Report().FileResults
	if len(files) != 1 || !files[0].Created {
		t.Errorf("FileResults = %+v, want one created file", files)
	}
}

func TestRun_DeclinedCreationUsesDefaults(t *testing.T) {
	withChrome(t, "")
	checker := testChecker(t, false)
	t.Setenv("RG_OUTPUT_DIR", filepath.Join(t.TempDir(), "reports"))
	t.Setenv("RG_HISTORY_ENABLED", "false")

	if err := checker.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if fileExists(checker.ConfigPath()) {
		t.Error("config file should not have been created")
	}
	summary := checker.Report().calculateSummary()
	if summary.FilesMissing != 1 {
		t.Errorf("FilesMissing = %d, want 1", summary.FilesMissing)
	}
	if !summary.HasWarnings {
		t.Error("missing Chrome and disabled history should be warnings")
	}
}

func TestRun_ConfirmError(t *testing.T) {
	checker := testChecker(t, false)
	checker.confirm = func(string) (bool, error) { return false, errors.New("no tty") }

	err := checker.Run()
	if err == nil || !strings.Contains(err.Error(), "no tty") {
		t.Errorf("Run() error = %v, want confirmation error", err)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	checker := testChecker(t, false)
	if err := ensureDir(checker.ConfigPath()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(checker.ConfigPath(), []byte("render:\n  chart_concurrency: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := checker.Run(); err == nil {
		t.Error("Run() should fail for an invalid config")
	}
	results := checker.Report().ValidationResults
	if len(results) != 1 {
		t.Fatalf("environment checks should be skipped, got %d results", len(results))
	}
	if results[0].Valid {
		t.Error("config result should be invalid")
	}
}

func TestRunNonInteractive(t *testing.T) {
	withChrome(t, "")

	t.Run("defaults with missing file warn", func(t *testing.T) {
		checker := testChecker(t, false)
		result := checker.RunNonInteractive(testConfig(t))

		if !result.Success {
			t.Fatalf("Success = false, errors: %v", result.Errors)
		}
		if len(result.Warnings) != 2 {
			t.Errorf("Warnings = %v, want missing config and missing Chrome", result.Warnings)
		}
		if len(result.Suggestions) != 1 {
			t.Errorf("Suggestions = %v", result.Suggestions)
		}
	})

	t.Run("invalid config fails", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Server.Port = 0
		result := testChecker(t, false).RunNonInteractive(cfg)

		if result.Success {
			t.Fatal("Success should be false")
		}
		if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "server.port") {
			t.Errorf("Errors = %v", result.Errors)
		}
	})

	t.Run("pdf without chrome fails", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Export.PDF.Enabled = true
		result := testChecker(t, false).RunNonInteractive(cfg)

		if result.Success {
			t.Fatal("Success should be false")
		}
		if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "chrome") {
			t.Errorf("Errors = %v", result.Errors)
		}
	})

	t.Run("unwritable output dir fails", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "blocker")
		if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		cfg := testConfig(t)
		cfg.Output.Dir = filepath.Join(blocker, "reports")
		result := testChecker(t, false).RunNonInteractive(cfg)

		if result.Success {
			t.Fatal("Success should be false")
		}
		if !strings.Contains(result.Errors[0], "output directory") {
			t.Errorf("Errors = %v", result.Errors)
		}
	})
}

func TestPrintCheckResult(t *testing.T) {
	// Output only; must not panic on empty or full results
	PrintCheckResult(&CheckResult{Success: true})
	PrintCheckResult(&CheckResult{
		Errors:      []string{"e"},
		Warnings:    []string{"w"},
		Suggestions: []string{"s"},
	})
}
