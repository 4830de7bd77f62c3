// Package check inspects the local environment before reports are built or
// served: the configuration file, the output directory, the history database
// and the Chrome binary used for PDF export.
package check

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/bizhealth/reportgen/internal/config"
)

// CheckResult represents the result of a non-interactive environment check
type CheckResult struct {
	// Success indicates whether all required checks passed
	Success bool
	// Errors contains problems that prevent reports from being written
	Errors []string
	// Warnings contains non-critical issues such as a missing Chrome binary
	Warnings []string
	// Suggestions contains helpful tips for fixing issues
	Suggestions []string
}

// Checker handles environment checking and initialization
type Checker struct {
	configPath string
	report     *Report
	// confirm asks whether a missing file should be created
	confirm func(path string) (bool, error)
}

// NewChecker creates a checker for the configuration file at configPath
func NewChecker(configPath string) *Checker {
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}
	return &Checker{
		configPath: configPath,
		report:     NewReport(),
		confirm:    confirmCreate,
	}
}

// ConfigPath returns the configuration file being checked
func (c *Checker) ConfigPath() string {
	return c.configPath
}

// Report returns the collected results of the last Run
func (c *Checker) Report() *Report {
	return c.report
}

// Run executes the interactive environment check. A missing config file
// may be created from defaults after confirmation.
func (c *Checker) Run() error {
	c.printHeader()

	fmt.Println()
	printSection("Checking configuration file")
	if err := c.checkConfigFile(); err != nil {
		return fmt.Errorf("file check failed: %w", err)
	}

	fmt.Println()
	printSection("Validating configuration")
	cfg := c.validateConfig()
	c.report.AddValidationResult(cfg.result)
	printValidationResult(cfg.result)

	if cfg.config != nil {
		fmt.Println()
		printSection("Checking runtime environment")
		for _, result := range c.checkEnvironment(cfg.config) {
			c.report.AddValidationResult(result)
			printValidationResult(result)
		}
	}

	fmt.Println()
	c.report.Print()

	if c.report.HasErrors() {
		return fmt.Errorf("environment check found errors")
	}
	return nil
}

func (c *Checker) printHeader() {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	fmt.Println(titleStyle.Render("🔍 ReportGen Environment Check"))
}

func printSection(title string) {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15"))
	fmt.Println(style.Render(title + "..."))
}

// confirmCreate asks user to confirm file creation
func confirmCreate(path string) (bool, error) {
	var confirm bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Create %s from defaults?", path)).
		Affirmative("Yes").
		Negative("No").
		Value(&confirm).
		Run()
	if err != nil {
		return false, err
	}
	return confirm, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ensureDir creates the parent directory of path if it doesn't exist
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// RunNonInteractive checks the environment for an already loaded
// configuration. It never prompts and never creates files except probing
// the output directory.
func (c *Checker) RunNonInteractive(cfg *config.Config) *CheckResult {
	result := &CheckResult{
		Success:     true,
		Errors:      make([]string, 0),
		Warnings:    make([]string, 0),
		Suggestions: make([]string, 0),
	}

	if !fileExists(c.configPath) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Configuration file %s not found, using defaults", c.configPath))
		result.Suggestions = append(result.Suggestions,
			"Run 'reportgen check' to create a configuration file")
	}

	if err := cfg.Validate(); err != nil {
		result.Success = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid configuration: %v", err))
		return result
	}

	for _, env := range c.checkEnvironment(cfg) {
		if !env.Valid {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", env.Path, env.Error))
		}
		result.Warnings = append(result.Warnings, env.Warnings...)
	}

	if !result.Success {
		result.Suggestions = append(result.Suggestions,
			"Run 'reportgen check' for a detailed report")
	}
	return result
}

// PrintCheckResult prints the check result in a formatted way
func PrintCheckResult(result *CheckResult) {
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	if len(result.Errors) > 0 {
		fmt.Println()
		red.Println("[ERROR] Environment check failed")
		fmt.Println()
		for _, err := range result.Errors {
			red.Printf("  ✗ %s\n", err)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Println()
		yellow.Println("[WARNING] Environment warnings:")
		fmt.Println()
		for _, warn := range result.Warnings {
			yellow.Printf("  ⚠ %s\n", warn)
		}
	}

	if len(result.Suggestions) > 0 {
		cyan.Println("\nTo fix these issues:")
		for _, suggestion := range result.Suggestions {
			fmt.Printf("  → %s\n", suggestion)
		}
	}

	fmt.Println()
}
