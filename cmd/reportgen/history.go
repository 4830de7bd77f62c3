package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bizhealth/reportgen/internal/database"
	"github.com/bizhealth/reportgen/internal/model"
	"github.com/bizhealth/reportgen/internal/store"
	"github.com/bizhealth/reportgen/pkg/errors"
	"github.com/bizhealth/reportgen/pkg/logger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded report runs",
	Long: `List report runs recorded in the history database, newest first.

Examples:
  reportgen history
  reportgen history --company "Acme Co" --limit 5
  reportgen history --status failed`,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(runHistory(cmd, os.Stdout))
	},
}

func init() {
	registerHistoryFlags(historyCmd)
}

func registerHistoryFlags(cmd *cobra.Command) {
	cmd.Flags().String("company", "", "only runs for this company")
	cmd.Flags().String("status", "", "only runs with this status (completed, degraded, failed)")
	cmd.Flags().Int("limit", 20, "maximum number of runs to list")
}

func runHistory(cmd *cobra.Command, w io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return errors.ErrValidation("report history is disabled")
	}

	filter, limit, err := historyFilter(cmd)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	if err := database.Init(cfg.History.DBPath); err != nil {
		return err
	}
	defer database.Close()

	runs, total, err := store.NewStore(database.Get()).Runs().List(filter, 1, limit)
	if err != nil {
		return err
	}
	printRuns(w, runs, total)
	return nil
}

// historyFilter reads the filter flags
func historyFilter(cmd *cobra.Command) (store.RunFilter, int, error) {
	company, _ := cmd.Flags().GetString("company")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	filter := store.RunFilter{CompanyName: company}
	switch model.RunStatus(status) {
	case "":
	case model.RunStatusCompleted, model.RunStatusDegraded, model.RunStatusFailed:
		filter.Status = model.RunStatus(status)
	default:
		return filter, 0, errors.ErrValidation(fmt.Sprintf("unknown status %q", status))
	}
	if limit < 1 {
		return filter, 0, errors.ErrValidation("--limit must be positive")
	}
	return filter, limit, nil
}

// printRuns renders runs as a bordered table with colored status
func printRuns(w io.Writer, runs []model.ReportRun, total int64) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No report runs recorded")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("RUN ID", "COMPANY", "STATUS", "SCORE", "WARNINGS", "CREATED")
	for _, run := range runs {
		t.Row(
			run.RunID,
			run.CompanyName,
			statusColor(run.Status).Sprint(run.Status),
			fmt.Sprintf("%.0f", run.HealthScore),
			fmt.Sprintf("%d", run.WarningCount),
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	fmt.Fprintln(w, t.Render())

	if int64(len(runs)) < total {
		fmt.Fprintf(w, "\nShowing %d of %d runs\n", len(runs), total)
	}
}

func statusColor(status model.RunStatus) *color.Color {
	switch status {
	case model.RunStatusCompleted:
		return color.New(color.FgGreen)
	case model.RunStatusDegraded:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}
