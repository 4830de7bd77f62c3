package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bizhealth/reportgen/internal/check"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the environment interactively",
	Long: `Check the configuration file, the output directory, the history
database and the Chrome binary used for PDF export.

A missing configuration file can be created from defaults.`,
	Run: func(cmd *cobra.Command, args []string) {
		checker := check.NewChecker(configPath)
		if err := checker.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Environment check failed: %v\n", err)
			os.Exit(1)
		}
	},
}
