package report

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bizhealth/reportgen/consts"
	"github.com/bizhealth/reportgen/internal/config"
	"github.com/bizhealth/reportgen/internal/exporter"
	"github.com/bizhealth/reportgen/internal/model"
	"github.com/bizhealth/reportgen/internal/notification"
	"github.com/bizhealth/reportgen/internal/store"
	"github.com/bizhealth/reportgen/pkg/errors"
	"github.com/bizhealth/reportgen/pkg/idgen"
	"github.com/bizhealth/reportgen/pkg/logger"
)

// GenerateRequest is one report build requested through the CLI or the API.
// Nil and empty fields fall back to the configuration, brand colors one by one.
type GenerateRequest struct {
	Context    *model.ReportContext
	Brand      *model.Brand
	IncludeTOC *bool
	// Formats are exported in addition to the formats enabled in config
	Formats []exporter.Format
}

// Service runs report builds for the outer surfaces. It assigns run IDs,
// lays out per-run output directories, runs exports and records history.
type Service struct {
	cfg       *config.Config
	store     store.Store
	assembler *Assembler
	exporters *exporter.Manager
	notifier  *notification.Manager
}

// NewService creates a report service. A nil store disables history.
// Options are applied after the config-derived chart settings.
func NewService(cfg *config.Config, s store.Store, opts ...Option) *Service {
	base := []Option{
		WithChartTimeout(cfg.Render.ChartTimeoutDuration()),
		WithChartConcurrency(cfg.Render.ChartConcurrency),
	}
	return &Service{
		cfg:       cfg,
		store:     s,
		assembler: NewAssembler(append(base, opts...)...),
		exporters: newExportManager(cfg),
		notifier:  notification.NewManager(cfg.Notify),
	}
}

func newExportManager(cfg *config.Config) *exporter.Manager {
	pdfOpts := exporter.DefaultPDFOptions()
	if cfg.Export.PDF.Timeout > 0 {
		pdfOpts.Timeout = time.Duration(cfg.Export.PDF.Timeout) * time.Second
	}
	pdfOpts.ChromePath = cfg.Export.PDF.ChromePath

	m := exporter.NewManager()
	m.Register(exporter.FormatPDF, exporter.NewPDFExporterWithOptions(pdfOpts))
	m.Register(exporter.FormatText, exporter.NewTextExporter())
	return m
}

// RegisterExporter replaces the exporter used for a format
func (s *Service) RegisterExporter(format exporter.Format, e exporter.Exporter) {
	s.exporters.Register(format, e)
}

// SetNotifier replaces the run outcome notifier built from config
func (s *Service) SetNotifier(m *notification.Manager) {
	s.notifier = m
}

// HistoryEnabled reports whether runs are recorded
func (s *Service) HistoryEnabled() bool {
	return s.store != nil
}

// Generate builds a report into <output dir>/<run id>. Export failures
// degrade the run to warnings; build failures are recorded and returned.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*model.GeneratedReport, error) {
	if req.Context == nil {
		return nil, errors.ErrValidation("report context is required")
	}

	// The context is read-only; work on a shallow copy to assign the run ID
	rc := *req.Context
	if rc.RunID == "" {
		rc.RunID = idgen.NewRunID()
	}
	if err := validateRunID(rc.RunID); err != nil {
		return nil, err
	}

	opts := model.RenderOptions{
		OutputDir:  filepath.Join(s.cfg.Output.Dir, rc.RunID),
		Brand:      s.cfg.Brand,
		IncludeTOC: s.cfg.Output.IncludeTOC,
	}
	if req.Brand != nil {
		if req.Brand.PrimaryColor != "" {
			opts.Brand.PrimaryColor = req.Brand.PrimaryColor
		}
		if req.Brand.AccentColor != "" {
			opts.Brand.AccentColor = req.Brand.AccentColor
		}
	}
	if req.IncludeTOC != nil {
		opts.IncludeTOC = *req.IncludeTOC
	}

	started := time.Now()
	report, err := s.assembler.Build(ctx, &rc, opts)
	if err != nil {
		s.recordFailure(ctx, &rc, opts.OutputDir, err, time.Since(started))
		return nil, err
	}

	meta, err := ReadMeta(report.MetaPath)
	if err != nil {
		// The sidecar was just written; losing it only costs exports and history detail
		report.Warnings = append(report.Warnings, model.RenderWarning{Fragment: "meta", Message: err.Error()})
		logger.WithRun(rc.RunID).Warn("Report metadata unreadable after build", zap.Error(err))
	}

	if meta != nil {
		s.runExports(ctx, report, *meta, s.exportFormats(req.Formats))
	}
	s.recordRun(ctx, report, meta, opts.OutputDir, time.Since(started))

	return report, nil
}

// validateRunID keeps caller-supplied run IDs inside the output directory
func validateRunID(runID string) error {
	if runID == "." || runID == ".." || strings.ContainsAny(runID, `/\`) || strings.TrimSpace(runID) != runID {
		return errors.ErrValidation(fmt.Sprintf("invalid run id %q", runID))
	}
	return nil
}

// exportFormats merges config-enabled formats with requested ones, deduplicated
func (s *Service) exportFormats(requested []exporter.Format) []exporter.Format {
	var formats []exporter.Format
	seen := make(map[exporter.Format]bool)
	add := func(f exporter.Format) {
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	if s.cfg.Export.PDF.Enabled {
		add(exporter.FormatPDF)
	}
	if s.cfg.Export.Text.Enabled {
		add(exporter.FormatText)
	}
	for _, f := range requested {
		add(f)
	}
	return formats
}

func (s *Service) runExports(ctx context.Context, report *model.GeneratedReport, meta model.ReportMeta, formats []exporter.Format) {
	if len(formats) == 0 {
		return
	}
	log := logger.WithRun(report.RunID)

	doc, err := exporter.LoadDocument(report.HTMLPath, meta)
	if err != nil {
		report.Warnings = append(report.Warnings, model.RenderWarning{Fragment: "export", Message: err.Error()})
		log.Warn("Skipping exports, report HTML unreadable", zap.Error(err))
		return
	}

	for _, f := range formats {
		path, err := s.exporters.ExportToFile(ctx, doc, f)
		if err != nil {
			report.Warnings = append(report.Warnings, model.RenderWarning{
				Fragment: "export:" + string(f),
				Message:  err.Error(),
			})
			log.Warn("Export failed", zap.String("format", string(f)), zap.Error(err))
			continue
		}
		if report.Exports == nil {
			report.Exports = make(map[string]string)
		}
		report.Exports[string(f)] = path
	}
}

func (s *Service) recordRun(ctx context.Context, report *model.GeneratedReport, meta *model.ReportMeta, outputDir string, elapsed time.Duration) {
	status := model.RunStatusCompleted
	if report.Degraded() {
		status = model.RunStatusDegraded
	}

	score, band := 0.0, ""
	if meta != nil {
		score, band = meta.HealthScore, meta.HealthBand
	}

	s.finish(ctx, &model.ReportRun{
		RunID:        report.RunID,
		ReportType:   report.ReportType,
		CompanyName:  report.CompanyName,
		HealthScore:  score,
		HealthBand:   band,
		Status:       status,
		WarningCount: len(report.Warnings),
		OutputDir:    outputDir,
		HTMLPath:     report.HTMLPath,
		MetaPath:     report.MetaPath,
		Exports:      model.StringMap(report.Exports),
		GeneratedAt:  report.GeneratedAt,
		DurationMs:   elapsed.Milliseconds(),
	})
}

func (s *Service) recordFailure(ctx context.Context, rc *model.ReportContext, outputDir string, buildErr error, elapsed time.Duration) {
	s.finish(ctx, &model.ReportRun{
		RunID:        rc.RunID,
		ReportType:   consts.ReportTypeComprehensive,
		CompanyName:  rc.CompanyProfile.Name,
		HealthScore:  rc.OverallHealth.Score,
		HealthBand:   rc.OverallHealth.Band,
		Status:       model.RunStatusFailed,
		ErrorMessage: buildErr.Error(),
		OutputDir:    outputDir,
		DurationMs:   elapsed.Milliseconds(),
	})
}

// finish records a run and announces its outcome. Both are auxiliary, so
// failures are only logged.
func (s *Service) finish(ctx context.Context, run *model.ReportRun) {
	if s.store != nil {
		if err := s.store.Runs().Create(run); err != nil {
			logger.Warn("Failed to record report run",
				zap.String(logger.FieldRunID, run.RunID),
				zap.Error(err),
			)
		}
	}
	if s.notifier.Enabled() {
		// A cancelled build still deserves its failure notice
		_ = s.notifier.Notify(context.WithoutCancel(ctx), notification.EventFromRun(run))
	}
}

// GetRun returns the newest history record for a run ID
func (s *Service) GetRun(runID string) (*model.ReportRun, error) {
	if s.store == nil {
		return nil, errors.New(errors.ErrCodeValidation, "report history is disabled")
	}
	run, err := s.store.Runs().GetLatestByRunID(runID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound("report run")
		}
		return nil, errors.Wrap(errors.ErrCodeDBQuery, "failed to query report run", err)
	}
	return run, nil
}

// ListRuns returns a page of history records, newest first
func (s *Service) ListRuns(filter store.RunFilter, page, pageSize int) ([]model.ReportRun, int64, error) {
	if s.store == nil {
		return nil, 0, errors.New(errors.ErrCodeValidation, "report history is disabled")
	}
	runs, total, err := s.store.Runs().List(filter, page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrCodeDBQuery, "failed to list report runs", err)
	}
	return runs, total, nil
}

// ReportPaths resolves the HTML and metadata files of a run. It works
// without history by looking under the configured output directory.
func (s *Service) ReportPaths(runID string) (htmlPath, metaPath string, err error) {
	if err := validateRunID(runID); err != nil {
		return "", "", err
	}
	if s.store != nil {
		if run, err := s.GetRun(runID); err == nil && run.HTMLPath != "" {
			return run.HTMLPath, run.MetaPath, nil
		}
	}
	htmlPath, metaPath = OutputPaths(filepath.Join(s.cfg.Output.Dir, runID))
	return htmlPath, metaPath, nil
}
