// Package report assembles the comprehensive business-health report.
// It fans out chart generation, renders the fixed section layout from the
// report context, wraps it in a page shell, runs the sanitization passes and
// writes the HTML document and its metadata sidecar.
package report

import (
	"context"
	"math"
	"strings"
	"time"
	"unicode/utf16"

	"go.uber.org/zap"

	"github.com/bizhealth/reportgen/consts"
	"github.com/bizhealth/reportgen/internal/fragments/charts"
	"github.com/bizhealth/reportgen/internal/fragments/components"
	"github.com/bizhealth/reportgen/internal/fragments/narrative"
	"github.com/bizhealth/reportgen/internal/model"
	"github.com/bizhealth/reportgen/internal/report/sanitize"
	"github.com/bizhealth/reportgen/pkg/errors"
	"github.com/bizhealth/reportgen/pkg/logger"
	"github.com/bizhealth/reportgen/pkg/telemetry"
)

// GeneratedAtLayout is the UTC millisecond ISO-8601 layout of generatedAt
const GeneratedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// CharsPerPage is the character count assumed per printed page
const CharsPerPage = 3000

// DefaultChartConcurrency bounds the chart fan-out when no option overrides it
const DefaultChartConcurrency = 8

var chartTitles = func() map[string]string {
	m := make(map[string]string)
	for _, c := range charts.Default() {
		m[c.ID] = c.Title
	}
	return m
}()

// Assembler builds comprehensive reports. It holds only immutable renderers
// and settings, so one Assembler may serve concurrent builds.
type Assembler struct {
	components       *components.Renderer
	narrative        *narrative.Renderer
	charts           []charts.Chart
	sections         []sectionSpec
	now              func() time.Time
	chartTimeout     time.Duration
	chartConcurrency int
}

// Option configures an Assembler
type Option func(*Assembler)

// WithClock sets the time source used for generatedAt and printed dates
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

// WithCharts replaces the chart generators
func WithCharts(c []charts.Chart) Option {
	return func(a *Assembler) {
		a.charts = c
	}
}

// WithChartTimeout bounds each chart generator. Zero disables the bound.
func WithChartTimeout(d time.Duration) Option {
	return func(a *Assembler) {
		a.chartTimeout = d
	}
}

// WithChartConcurrency bounds how many chart generators run at once
func WithChartConcurrency(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.chartConcurrency = n
		}
	}
}

// NewAssembler creates an assembler with the default charts and layout
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		components:       components.NewRenderer(),
		narrative:        narrative.NewRenderer(),
		charts:           charts.Default(),
		sections:         defaultSections(),
		now:              time.Now,
		chartConcurrency: DefaultChartConcurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BuildComprehensiveReport builds a report with a default Assembler
func BuildComprehensiveReport(ctx context.Context, rc *model.ReportContext, opts model.RenderOptions) (*model.GeneratedReport, error) {
	return NewAssembler().Build(ctx, rc, opts)
}

// build carries the per-invocation state shared by the section renderers
type build struct {
	ctx       context.Context
	rc        *model.ReportContext
	opts      model.RenderOptions
	brand     model.Brand
	now       time.Time
	narrative *narrative.Renderer
	charts    map[string]ChartResult
	toc       []model.TOCEntry
	warnings  []model.RenderWarning
	log       *zap.Logger
}

// warn records a fragment that degraded to empty content
func (b *build) warn(fragment string, err error) {
	b.warnings = append(b.warnings, model.RenderWarning{Fragment: fragment, Message: err.Error()})
	b.log.Warn("Fragment degraded to empty content",
		zap.String(logger.FieldFragment, fragment),
		zap.Error(err),
	)
	telemetry.GetMetrics().RecordFragmentFailure(b.ctx, fragment)
}

// Build renders the report for rc and writes it to opts.OutputDir.
// Chart and fragment failures degrade to empty content and are returned as
// warnings; only invalid input, cancellation and I/O failures are errors.
func (a *Assembler) Build(ctx context.Context, rc *model.ReportContext, opts model.RenderOptions) (_ *model.GeneratedReport, err error) {
	if rc == nil {
		return nil, errors.ErrValidation("report context is required")
	}
	if strings.TrimSpace(opts.OutputDir) == "" {
		return nil, errors.ErrValidation("output directory is required")
	}

	started := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "report.build",
		telemetry.WithReportAttributes(rc.RunID, consts.ReportTypeComprehensive, rc.CompanyProfile.Name))
	defer span.End()

	htmlSize := 0
	defer func() {
		telemetry.GetMetrics().RecordBuild(ctx, consts.ReportTypeComprehensive, err == nil, time.Since(started).Seconds(), htmlSize)
		if err != nil {
			telemetry.SetSpanError(span, err)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, "report build cancelled", err)
	}

	log := logger.WithRun(rc.RunID).With(zap.String(logger.FieldReportType, consts.ReportTypeComprehensive))
	b := &build{
		ctx:       ctx,
		rc:        rc,
		opts:      opts,
		brand:     opts.Brand.Normalized(),
		now:       a.now().UTC(),
		narrative: a.narrative,
		log:       log,
	}

	log.Info("Building report",
		zap.String("company", rc.CompanyProfile.Name),
		zap.String("output_dir", opts.OutputDir),
	)
	if !rc.NarrativeAvailable() {
		log.Warn("Narrative content unavailable, using structured-data fallbacks")
	}

	results := a.renderCharts(ctx, rc, b.brand)
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, "report build cancelled", err)
	}
	b.charts = make(map[string]ChartResult, len(results))
	for _, r := range results {
		b.charts[r.ID] = r
		if r.Err != nil {
			b.warn("chart:"+r.ID, r.Err)
		}
	}

	body := a.renderSections(b)

	doc := renderDocument(documentInput{
		Title:       consts.ReportNameComprehensive,
		CompanyName: rc.CompanyProfile.Name,
		RunID:       rc.RunID,
		GeneratedAt: b.now.Format(GeneratedAtLayout),
		Brand:       b.brand,
		Body:        body,
	})

	orphans := sanitize.RemoveOrphanHeaders(doc)
	ascii := sanitize.ReplaceASCIIBlocks(orphans.HTML, b.brand)
	final := ascii.HTML
	htmlSize = len(final)

	metrics := telemetry.GetMetrics()
	metrics.RecordSanitize(ctx, "orphan_headers", orphans.Count)
	metrics.RecordSanitize(ctx, "ascii_blocks", ascii.Count)
	log.Info("Sanitization passes complete",
		zap.Int("orphan_headers_removed", orphans.Count),
		zap.Strings("removed_headers", orphans.Removed),
		zap.Int("ascii_blocks_replaced", ascii.Count),
	)

	meta := a.buildMeta(b, final)
	htmlPath, metaPath, err := writeReport(opts.OutputDir, final, meta)
	if err != nil {
		log.Error("Failed to write report", zap.Error(err))
		return nil, err
	}

	span.SetAttributes(
		telemetry.AttrSectionCount.Int(len(b.toc)),
		telemetry.AttrWarningCount.Int(len(b.warnings)),
		telemetry.AttrHTMLSizeBytes.Int(htmlSize),
	)
	telemetry.SetSpanOK(span)

	log.Info("Report built",
		zap.String("html_path", htmlPath),
		zap.Int("warnings", len(b.warnings)),
		zap.Duration("duration", time.Since(started)),
	)

	return &model.GeneratedReport{
		ReportType:  consts.ReportTypeComprehensive,
		ReportName:  consts.ReportNameComprehensive,
		HTMLPath:    htmlPath,
		MetaPath:    metaPath,
		GeneratedAt: meta.GeneratedAt,
		RunID:       rc.RunID,
		CompanyName: rc.CompanyProfile.Name,
		HTMLBytes:   htmlSize,
		Sections:    meta.Sections,
		Warnings:    b.warnings,
		Sanitization: model.SanitizationSummary{
			OrphanHeadersRemoved: orphans.Count,
			RemovedHeaders:       orphans.Removed,
			ASCIIBlocksReplaced:  ascii.Count,
		},
	}, nil
}

// renderSections renders every present section in layout order and joins
// them with newlines. A failing section is skipped and recorded as a warning.
// The table of contents renders last so it only links sections that made it
// into the body.
func (a *Assembler) renderSections(b *build) string {
	parts := make([]string, 0, len(a.sections))
	tocSlot := -1
	var tocSpec sectionSpec

	b.toc = nil
	for _, s := range a.sections {
		if !s.Present(b) {
			continue
		}
		if s.ID == SectionTOC {
			tocSlot, tocSpec = len(parts), s
			parts = append(parts, "")
			continue
		}
		html, err := s.Render(a, b)
		if err != nil {
			b.warn(s.ID, err)
			continue
		}
		if strings.TrimSpace(html) == "" {
			continue
		}
		if s.InTOC {
			b.toc = append(b.toc, model.TOCEntry{ID: s.ID, Title: s.Title})
		}
		parts = append(parts, html)
	}

	if tocSlot >= 0 {
		html, err := tocSpec.Render(a, b)
		if err != nil {
			b.warn(tocSpec.ID, err)
		}
		parts[tocSlot] = html
	}

	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}

func (a *Assembler) buildMeta(b *build, html string) model.ReportMeta {
	return model.ReportMeta{
		ReportType:             consts.ReportTypeComprehensive,
		ReportName:             consts.ReportNameComprehensive,
		GeneratedAt:            b.now.Format(GeneratedAtLayout),
		CompanyName:            b.rc.CompanyProfile.Name,
		RunID:                  b.rc.RunID,
		HealthScore:            b.rc.OverallHealth.Score,
		HealthBand:             b.rc.OverallHealth.Band,
		PageSuggestionEstimate: PageEstimate(html),
		Sections:               b.toc,
		Brand:                  b.brand,
	}
}

// PageEstimate suggests a printed page count for an HTML document. Length is
// measured in UTF-16 code units, so characters outside the BMP count twice.
func PageEstimate(html string) int {
	return int(math.Ceil(float64(utf16Len(html)) / CharsPerPage))
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
