package report

import (
	"context"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bizhealth/reportgen/internal/fragments/charts"
	"github.com/bizhealth/reportgen/internal/model"
	"github.com/bizhealth/reportgen/pkg/logger"
	"github.com/bizhealth/reportgen/pkg/telemetry"
)

// ChartResult is the outcome of one chart generator. HTML is empty when Err is set.
type ChartResult struct {
	ID    string
	Title string
	HTML  string
	Err   error
}

// renderCharts runs every chart generator concurrently and returns one result
// per chart in registry order. A failing chart never cancels its siblings.
func (a *Assembler) renderCharts(ctx context.Context, rc *model.ReportContext, brand model.Brand) []ChartResult {
	ctx, span := telemetry.StartSpan(ctx, "report.charts")
	defer span.End()

	results := make([]ChartResult, len(a.charts))

	// Plain Group rather than WithContext: goroutines report through results
	// and always return nil
	var g errgroup.Group
	g.SetLimit(a.chartConcurrency)

	for i, c := range a.charts {
		results[i] = ChartResult{ID: c.ID, Title: c.Title}
		g.Go(func() error {
			html, err := a.runChart(ctx, c, rc, brand)
			results[i].HTML = html
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			telemetry.AddSpanEvent(span, "chart_failed", telemetry.AttrFragment.String(r.ID))
		}
	}
	span.SetAttributes(telemetry.AttrWarningCount.Int(failed))
	telemetry.SetSpanOK(span)

	return results
}

// runChart invokes one generator, bounded by the per-chart timeout when set.
// A generator that ignores its context is abandoned once the deadline passes.
func (a *Assembler) runChart(ctx context.Context, c charts.Chart, rc *model.ReportContext, brand model.Brand) (string, error) {
	if a.chartTimeout <= 0 {
		return safeRender(ctx, c, rc, brand)
	}

	ctx, cancel := context.WithTimeout(ctx, a.chartTimeout)
	defer cancel()

	type outcome struct {
		html string
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		html, err := safeRender(ctx, c, rc, brand)
		done <- outcome{html: html, err: err}
	}()

	select {
	case o := <-done:
		return o.html, o.err
	case <-ctx.Done():
		return "", fmt.Errorf("timed out after %s: %w", a.chartTimeout, ctx.Err())
	}
}

// safeRender turns a generator panic into an error
func safeRender(ctx context.Context, c charts.Chart, rc *model.ReportContext, brand model.Brand) (html string, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Chart generator panicked",
				zap.String(logger.FieldFragment, c.ID),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			html = ""
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return c.Render(ctx, rc, brand)
}
