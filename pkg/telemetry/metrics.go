// Package telemetry provides OpenTelemetry integration for the application.
package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/bizhealth/reportgen/pkg/logger"
)

const (
	// MeterName is the default meter name for the application
	MeterName = "github.com/bizhealth/reportgen"
)

// Metrics holds all application metrics
type Metrics struct {
	// Report build metrics
	ReportsBuilt     metric.Int64Counter
	BuildDuration    metric.Float64Histogram
	ReportSizeBytes  metric.Int64Histogram
	FragmentFailures metric.Int64Counter
	SanitizeChanges  metric.Int64Counter
	ExportsTotal     metric.Int64Counter

	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
}

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// GetMetrics returns the global metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		var err error
		globalMetrics, err = initMetrics()
		if err != nil {
			logger.Error("Failed to initialize metrics", zap.Error(err))
			globalMetrics = &Metrics{}
		}
	})
	return globalMetrics
}

func initMetrics() (*Metrics, error) {
	meter := otel.Meter(MeterName)
	m := &Metrics{}

	var err error

	m.ReportsBuilt, err = meter.Int64Counter(
		"reportgen_reports_built_total",
		metric.WithDescription("Total number of report builds by outcome"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return nil, err
	}

	m.BuildDuration, err = meter.Float64Histogram(
		"reportgen_build_duration_seconds",
		metric.WithDescription("Duration of report builds in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30),
	)
	if err != nil {
		return nil, err
	}

	m.ReportSizeBytes, err = meter.Int64Histogram(
		"reportgen_report_size_bytes",
		metric.WithDescription("Size of the generated HTML document"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(10_000, 50_000, 100_000, 250_000, 500_000, 1_000_000, 5_000_000),
	)
	if err != nil {
		return nil, err
	}

	m.FragmentFailures, err = meter.Int64Counter(
		"reportgen_fragment_failures_total",
		metric.WithDescription("Fragments that degraded to empty content"),
		metric.WithUnit("{fragment}"),
	)
	if err != nil {
		return nil, err
	}

	m.SanitizeChanges, err = meter.Int64Counter(
		"reportgen_sanitize_changes_total",
		metric.WithDescription("Changes applied by the post-processing passes"),
		metric.WithUnit("{change}"),
	)
	if err != nil {
		return nil, err
	}

	m.ExportsTotal, err = meter.Int64Counter(
		"reportgen_exports_total",
		metric.WithDescription("Secondary exports (pdf, text) by format and outcome"),
		metric.WithUnit("{export}"),
	)
	if err != nil {
		return nil, err
	}

	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"reportgen_http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"reportgen_http_request_duration_seconds",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, err
	}

	logger.Debug("Metrics initialized successfully")
	return m, nil
}

// RecordBuild records the outcome of one report build
func (m *Metrics) RecordBuild(ctx context.Context, reportType string, success bool, durationSeconds float64, sizeBytes int) {
	attrs := metric.WithAttributes(
		attribute.String("report_type", reportType),
		attribute.Bool("success", success),
	)
	if m.ReportsBuilt != nil {
		m.ReportsBuilt.Add(ctx, 1, attrs)
	}
	if m.BuildDuration != nil {
		m.BuildDuration.Record(ctx, durationSeconds, attrs)
	}
	if success && m.ReportSizeBytes != nil {
		m.ReportSizeBytes.Record(ctx, int64(sizeBytes),
			metric.WithAttributes(attribute.String("report_type", reportType)),
		)
	}
}

// RecordFragmentFailure records a fragment that fell back to empty output
func (m *Metrics) RecordFragmentFailure(ctx context.Context, fragment string) {
	if m.FragmentFailures == nil {
		return
	}
	m.FragmentFailures.Add(ctx, 1,
		metric.WithAttributes(attribute.String("fragment", fragment)),
	)
}

// RecordSanitize records how many changes a post-processing pass made
func (m *Metrics) RecordSanitize(ctx context.Context, pass string, changes int) {
	if m.SanitizeChanges == nil || changes == 0 {
		return
	}
	m.SanitizeChanges.Add(ctx, int64(changes),
		metric.WithAttributes(attribute.String("pass", pass)),
	)
}

// RecordExport records a secondary export attempt
func (m *Metrics) RecordExport(ctx context.Context, format string, success bool) {
	if m.ExportsTotal == nil {
		return
	}
	m.ExportsTotal.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("format", format),
			attribute.Bool("success", success),
		),
	)
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, durationSeconds float64) {
	if m.HTTPRequestsTotal != nil {
		m.HTTPRequestsTotal.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("method", method),
				attribute.String("path", path),
				attribute.Int("status_code", statusCode),
			),
		)
	}
	if m.HTTPRequestDuration != nil {
		m.HTTPRequestDuration.Record(ctx, durationSeconds,
			metric.WithAttributes(
				attribute.String("method", method),
				attribute.String("path", path),
			),
		)
	}
}
