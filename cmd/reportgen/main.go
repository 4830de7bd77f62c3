// Package main is the entry point for the ReportGen application.
// ReportGen assembles business health reports into self-contained HTML
// documents from the CLI or over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bizhealth/reportgen/consts"
	"github.com/bizhealth/reportgen/internal/config"
	"github.com/bizhealth/reportgen/pkg/errors"
)

// Build information - set via ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// init synchronizes build info to consts package for global access
func init() {
	consts.Version = Version
	consts.BuildTime = BuildTime
	consts.GitCommit = GitCommit
}

// configPath holds the path to the configuration file
var configPath string

var rootCmd = &cobra.Command{
	Use:   "reportgen",
	Short: "ReportGen - Business Health Report Generator",
	Long: `ReportGen turns a structured business health assessment into a single
self-contained HTML report with charts, a table of contents and optional
PDF and plain-text exports.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ReportGen %s\n", Version)
		fmt.Printf("  Build Time: %s\n", BuildTime)
		fmt.Printf("  Git Commit: %s\n", GitCommit)
	},
}

func init() {
	// Disable auto-generated completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: "+config.DefaultConfigPath+")")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration named by --config, or the default
// path when it exists, or the built-in defaults.
func loadConfig() (*config.Config, error) {
	path := configPath
	explicit := path != ""
	if !explicit {
		path = config.DefaultConfigPath
	}
	return config.LoadOrDefault(path, explicit)
}

// exitCode maps an error to the process exit code
func exitCode(err error) int {
	switch {
	case errors.HasCode(err, errors.ErrCodeConfigInvalid),
		errors.HasCode(err, errors.ErrCodeConfigParse),
		errors.HasCode(err, errors.ErrCodeConfigNotFound):
		return errors.ExitCodeConfigValidation
	default:
		return errors.ExitCodeBuildFailed
	}
}

// exitOnError prints err and exits with its mapped code
func exitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(exitCode(err))
}
