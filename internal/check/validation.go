package check

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/bizhealth/reportgen/internal/config"
	"github.com/bizhealth/reportgen/internal/database"
)

// ValidationResult represents the result of a config or environment check
type ValidationResult struct {
	Path     string
	Valid    bool
	Error    error
	Warnings []string
}

// chromeCandidates are the executable names tried when no chrome_path is set
var chromeCandidates = []string{
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"chrome",
}

// lookPath is swapped in tests
var lookPath = exec.LookPath

type loadedConfig struct {
	result ValidationResult
	config *config.Config
}

// validateConfig loads and validates the configuration file. A missing
// file validates as the defaults.
func (c *Checker) validateConfig() loadedConfig {
	result := ValidationResult{Path: c.configPath}

	cfg, err := config.LoadOrDefault(c.configPath, false)
	if err != nil {
		result.Error = err
		return loadedConfig{result: result}
	}
	if !fileExists(c.configPath) {
		result.Warnings = append(result.Warnings, "file not found, defaults apply")
	}
	if err := cfg.Validate(); err != nil {
		result.Error = err
		return loadedConfig{result: result}
	}

	if !cfg.History.Enabled {
		result.Warnings = append(result.Warnings, "history is disabled, runs will not be recorded")
	}
	result.Valid = true
	return loadedConfig{result: result, config: cfg}
}

// checkEnvironment runs the runtime checks that depend on a loaded config
func (c *Checker) checkEnvironment(cfg *config.Config) []ValidationResult {
	results := []ValidationResult{checkOutputDir(cfg.Output.Dir)}
	if cfg.History.Enabled {
		results = append(results, checkHistoryDB(cfg.History.DBPath))
	}
	results = append(results, checkChrome(cfg.Export.PDF))
	return results
}

// checkOutputDir verifies the output directory can be created and written
func checkOutputDir(dir string) ValidationResult {
	result := ValidationResult{Path: "output directory " + dir}

	if err := os.MkdirAll(dir, 0755); err != nil {
		result.Error = fmt.Errorf("cannot create directory: %w", err)
		return result
	}
	scratch, err := os.CreateTemp(dir, ".reportgen-scratch-*")
	if err != nil {
		result.Error = fmt.Errorf("directory is not writable: %w", err)
		return result
	}
	name := scratch.Name()
	scratch.Close()
	os.Remove(name)

	result.Valid = true
	return result
}

// checkHistoryDB opens and pings the history database
func checkHistoryDB(dbPath string) ValidationResult {
	result := ValidationResult{Path: "history database " + dbPath}

	conn, err := database.Open(dbPath)
	if err != nil {
		result.Error = err
		return result
	}
	defer database.CloseDB(conn)

	if err := database.HealthCheck(conn); err != nil {
		result.Error = err
		return result
	}
	result.Valid = true
	return result
}

// checkChrome looks for the browser used by PDF export. A missing browser
// is an error only when PDF export is enabled.
func checkChrome(pdf config.PDFExportConfig) ValidationResult {
	result := ValidationResult{Path: "chrome", Valid: true}

	path, err := findChrome(pdf.ChromePath)
	switch {
	case err == nil:
		result.Path = "chrome " + path
	case pdf.Enabled:
		result.Valid = false
		result.Error = err
	default:
		result.Warnings = append(result.Warnings, "no Chrome found, PDF export will be unavailable")
	}
	return result
}

// findChrome resolves the configured browser path or searches PATH
func findChrome(configured string) (string, error) {
	if configured != "" {
		info, err := os.Stat(configured)
		if err != nil {
			return "", fmt.Errorf("chrome_path %s: %w", configured, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("chrome_path %s is a directory", configured)
		}
		return filepath.Clean(configured), nil
	}
	for _, name := range chromeCandidates {
		if resolved, err := lookPath(name); err == nil {
			return resolved, nil
		}
	}
	return "", fmt.Errorf("no Chrome or Chromium executable found in PATH")
}

func printValidationResult(result ValidationResult) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	if result.Valid {
		green.Printf("  ✓ %s\n", result.Path)
	} else if result.Error != nil {
		red.Printf("  ✗ %s: %v\n", result.Path, result.Error)
	}

	for _, warning := range result.Warnings {
		yellow.Printf("    └─ %s\n", warning)
	}
}
