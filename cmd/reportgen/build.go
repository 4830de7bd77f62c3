package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/bizhealth/reportgen/internal/config"
	"github.com/bizhealth/reportgen/internal/database"
	"github.com/bizhealth/reportgen/internal/exporter"
	"github.com/bizhealth/reportgen/internal/model"
	"github.com/bizhealth/reportgen/internal/report"
	"github.com/bizhealth/reportgen/internal/store"
	"github.com/bizhealth/reportgen/pkg/errors"
	"github.com/bizhealth/reportgen/pkg/logger"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a report from a context file",
	Long: `Build a comprehensive business health report from a JSON or YAML
report context. Use "-" to read JSON from stdin.

Examples:
  reportgen build --context acme.json
  reportgen build --context acme.yaml --output out --pdf --text
  cat acme.json | reportgen build --context - --no-toc`,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(runBuild(cmd, os.Stdin, os.Stdout))
	},
}

func init() {
	registerBuildFlags(buildCmd)
	_ = buildCmd.MarkFlagRequired("context")
}

func registerBuildFlags(cmd *cobra.Command) {
	cmd.Flags().String("context", "", "report context file (.json, .yaml, .yml or - for stdin)")
	cmd.Flags().String("output", "", "output directory (overrides config)")
	cmd.Flags().String("run-id", "", "run ID (default: generated)")
	cmd.Flags().Bool("no-toc", false, "omit the table of contents")
	cmd.Flags().String("primary-color", "", "brand primary color, #rgb or #rrggbb")
	cmd.Flags().String("accent-color", "", "brand accent color, #rgb or #rrggbb")
	cmd.Flags().Bool("pdf", false, "also export PDF")
	cmd.Flags().Bool("text", false, "also export plain text")
	cmd.Flags().Bool("no-history", false, "do not record the run in history")
	cmd.Flags().Bool("json", false, "print the build result as JSON")
}

func runBuild(cmd *cobra.Command, stdin io.Reader, stdout io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyBuildFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	req, err := buildRequest(cmd, stdin)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	st, closeStore := openHistory(cfg)
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	generated, err := report.NewService(cfg, st).Generate(ctx, req)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(generated)
	}
	printBuildSummary(stdout, generated)
	return nil
}

// applyBuildFlags overrides configuration values with command line flags
func applyBuildFlags(cmd *cobra.Command, cfg *config.Config) {
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		cfg.Output.Dir = output
	}
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
		cfg.History.Enabled = false
	}
}

// buildRequest reads the context file and the per-run overrides
func buildRequest(cmd *cobra.Command, stdin io.Reader) (report.GenerateRequest, error) {
	var req report.GenerateRequest

	path, _ := cmd.Flags().GetString("context")
	rc, err := loadContext(path, stdin)
	if err != nil {
		return req, err
	}
	if runID, _ := cmd.Flags().GetString("run-id"); runID != "" {
		rc.RunID = runID
	}
	req.Context = rc

	primary, _ := cmd.Flags().GetString("primary-color")
	accent, _ := cmd.Flags().GetString("accent-color")
	for _, c := range []string{primary, accent} {
		if c != "" && !model.IsHexColor(c) {
			return req, errors.ErrValidation(fmt.Sprintf("%q is not a hex color", c))
		}
	}
	if primary != "" || accent != "" {
		req.Brand = &model.Brand{PrimaryColor: primary, AccentColor: accent}
	}

	if noTOC, _ := cmd.Flags().GetBool("no-toc"); noTOC {
		toc := false
		req.IncludeTOC = &toc
	}

	if pdf, _ := cmd.Flags().GetBool("pdf"); pdf {
		req.Formats = append(req.Formats, exporter.FormatPDF)
	}
	if text, _ := cmd.Flags().GetBool("text"); text {
		req.Formats = append(req.Formats, exporter.FormatText)
	}
	return req, nil
}

// loadContext decodes a report context. YAML is chosen by file extension;
// everything else, stdin included, is read as JSON.
func loadContext(path string, stdin io.Reader) (*model.ReportContext, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.ErrValidation("--context is required")
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, fmt.Sprintf("context file %s not found", path), err)
		}
		return nil, errors.Wrap(errors.ErrCodeValidation, "failed to read report context", err)
	}

	rc := &model.ReportContext{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, rc)
	default:
		err = json.Unmarshal(data, rc)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, "failed to parse report context", err)
	}
	return rc, nil
}

// openHistory opens the history store when enabled. A history database that
// cannot be opened only costs the record, so the build continues without it.
func openHistory(cfg *config.Config) (store.Store, func()) {
	if !cfg.History.Enabled {
		return nil, func() {}
	}
	if err := database.Init(cfg.History.DBPath); err != nil {
		logger.Warn("History database unavailable, run will not be recorded", zap.Error(err))
		return nil, func() {}
	}
	return store.NewStore(database.Get()), func() { database.Close() }
}

// printBuildSummary prints the written files, warnings and exports
func printBuildSummary(w io.Writer, r *model.GeneratedReport) {
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	if len(r.Warnings) > 0 {
		yellow.Fprintf(w, "⚠ %s built with %d warning(s)\n", r.ReportName, len(r.Warnings))
	} else {
		green.Fprintf(w, "✓ %s built\n", r.ReportName)
	}

	fmt.Fprintf(w, "  Company:  %s\n", r.CompanyName)
	fmt.Fprintf(w, "  Run ID:   %s\n", r.RunID)
	fmt.Fprintf(w, "  Sections: %d\n", len(r.Sections))
	fmt.Fprintf(w, "  HTML:     %s (%s)\n", r.HTMLPath, humanBytes(r.HTMLBytes))
	fmt.Fprintf(w, "  Meta:     %s\n", r.MetaPath)

	if len(r.Exports) > 0 {
		formats := make([]string, 0, len(r.Exports))
		for f := range r.Exports {
			formats = append(formats, f)
		}
		sort.Strings(formats)
		cyan.Fprintln(w, "Exports:")
		for _, f := range formats {
			fmt.Fprintf(w, "  %-5s %s\n", f, r.Exports[f])
		}
	}

	if s := r.Sanitization; s.OrphanHeadersRemoved > 0 || s.ASCIIBlocksReplaced > 0 {
		fmt.Fprintf(w, "  Cleanup:  %d orphan header(s) removed, %d ASCII block(s) replaced\n",
			s.OrphanHeadersRemoved, s.ASCIIBlocksReplaced)
	}

	for _, warn := range r.Warnings {
		yellow.Fprintf(w, "  └─ %s: %s\n", warn.Fragment, warn.Message)
	}
}

func humanBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := int64(n) / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
