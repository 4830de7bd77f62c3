// Package telemetry provides OpenTelemetry integration for the application.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the default tracer name for the application
	TracerName = "github.com/bizhealth/reportgen"
)

// Tracer returns the global tracer for the application
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// StartSpan starts a new span with the given name and returns the context and span.
// The caller is responsible for calling span.End() when the operation is complete.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// SetSpanError records an error on the span and sets its status to error
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanOK sets the span status to OK
func SetSpanOK(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// AddSpanEvent adds an event to the span with optional attributes
func AddSpanEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// Common attribute keys for consistent naming
var (
	AttrRunID         = attribute.Key("report.run_id")
	AttrReportType    = attribute.Key("report.type")
	AttrCompany       = attribute.Key("report.company")
	AttrSectionCount  = attribute.Key("report.sections")
	AttrWarningCount  = attribute.Key("report.warnings")
	AttrFragment      = attribute.Key("fragment.name")
	AttrExportFormat  = attribute.Key("export.format")
	AttrHTMLSizeBytes = attribute.Key("report.html_bytes")
)

// WithReportAttributes returns span start options identifying a report build
func WithReportAttributes(runID, reportType, company string) trace.SpanStartOption {
	return trace.WithAttributes(
		AttrRunID.String(runID),
		AttrReportType.String(reportType),
		AttrCompany.String(company),
	)
}

// WithExportAttributes returns span start options identifying a report export
func WithExportAttributes(runID, format string) trace.SpanStartOption {
	return trace.WithAttributes(
		AttrRunID.String(runID),
		AttrExportFormat.String(format),
	)
}
