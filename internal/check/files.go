package check

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/bizhealth/reportgen/internal/config"
)

// FileCheckResult represents the result of a file check
type FileCheckResult struct {
	Path        string
	Exists      bool
	Created     bool
	Description string
	Error       error
}

// checkConfigFile checks the configuration file and prompts for creation
// from defaults if missing. Declining is not an error: defaults apply.
func (c *Checker) checkConfigFile() error {
	result := FileCheckResult{
		Path:        c.configPath,
		Description: "ReportGen configuration file",
	}

	if fileExists(c.configPath) {
		result.Exists = true
		printFileStatus(c.configPath, true, false)
		c.report.AddFileResult(result)
		return nil
	}

	printFileStatus(c.configPath, false, false)

	confirm, err := c.confirm(c.configPath)
	if err != nil {
		result.Error = fmt.Errorf("failed to get user confirmation: %w", err)
		c.report.AddFileResult(result)
		return result.Error
	}
	if !confirm {
		c.report.AddFileResult(result)
		return nil
	}

	if err := ensureDir(c.configPath); err != nil {
		result.Error = err
		c.report.AddFileResult(result)
		return err
	}
	if err := config.WriteDefault(c.configPath); err != nil {
		result.Error = err
		c.report.AddFileResult(result)
		return err
	}

	result.Exists = true
	result.Created = true
	printFileCreated(c.configPath)
	c.report.AddFileResult(result)
	return nil
}

func printFileStatus(path string, exists bool, created bool) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	if exists {
		green.Printf("  ✓ %s\n", path)
	} else if created {
		green.Printf("  ✓ %s (created)\n", path)
	} else {
		yellow.Printf("  ⚠ %s does not exist\n", path)
	}
}

func printFileCreated(path string) {
	green := color.New(color.FgGreen)
	green.Printf("  ✓ Created %s\n", path)
}
