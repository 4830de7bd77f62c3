// Package exporter converts a built report into secondary formats with pluggable exporters.
package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bizhealth/reportgen/consts"
	"github.com/bizhealth/reportgen/internal/model"
	"github.com/bizhealth/reportgen/pkg/errors"
	"github.com/bizhealth/reportgen/pkg/logger"
	"github.com/bizhealth/reportgen/pkg/telemetry"
)

// Format represents the export format type
type Format string

const (
	// FormatPDF represents PDF format rendered by headless Chrome
	FormatPDF Format = "pdf"
	// FormatText represents plain-text format
	FormatText Format = "text"
)

// Document is a report already written to disk by the assembler
type Document struct {
	HTMLPath string
	HTML     string
	Meta     model.ReportMeta
}

// LoadDocument reads a built report and its metadata sidecar
func LoadDocument(htmlPath string, meta model.ReportMeta) (Document, error) {
	data, err := os.ReadFile(htmlPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, errors.ErrNotFound("report HTML")
		}
		return Document{}, errors.Wrap(errors.ErrCodeExport, "failed to read report HTML", err)
	}
	return Document{HTMLPath: htmlPath, HTML: string(data), Meta: meta}, nil
}

// Exporter defines the interface for report exporters
type Exporter interface {
	// Export converts the document to the exporter's format
	Export(ctx context.Context, doc Document) ([]byte, error)
	// Name returns the human-readable name of the exporter (e.g., "PDF", "Text")
	Name() string
	// FileExtension returns the file extension for this format (e.g., ".pdf")
	FileExtension() string
}

// Manager manages all registered exporters
type Manager struct {
	exporters map[Format]Exporter
	mu        sync.RWMutex
}

// NewManager creates a new export manager
func NewManager() *Manager {
	return &Manager{
		exporters: make(map[Format]Exporter),
	}
}

// Register registers an exporter for a specific format
func (m *Manager) Register(format Format, exporter Exporter) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.exporters[format] = exporter
	logger.Debug("Registered report exporter",
		zap.String("format", string(format)),
		zap.String("name", exporter.Name()),
	)
}

// Export exports a document using the specified format
func (m *Manager) Export(ctx context.Context, doc Document, format Format) ([]byte, error) {
	exporter, err := m.Get(format)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "report.export",
		telemetry.WithExportAttributes(doc.Meta.RunID, string(format)))
	defer span.End()

	logger.Debug("Exporting report",
		zap.String(logger.FieldRunID, doc.Meta.RunID),
		zap.String("format", string(format)),
		zap.String("exporter", exporter.Name()),
	)

	started := time.Now()
	content, err := exporter.Export(ctx, doc)
	telemetry.GetMetrics().RecordExport(ctx, string(format), err == nil)
	if err != nil {
		telemetry.SetSpanError(span, err)
		return nil, errors.Wrap(errors.ErrCodeExport,
			fmt.Sprintf("failed to export report with %s exporter", exporter.Name()), err)
	}
	telemetry.SetSpanOK(span)

	logger.Debug("Report exported",
		zap.String(logger.FieldRunID, doc.Meta.RunID),
		zap.String("format", string(format)),
		zap.String("size", formatBytes(len(content))),
		zap.Duration("duration", time.Since(started)),
	)
	return content, nil
}

// ExportToFile exports a document next to its HTML file and returns the written path
func (m *Manager) ExportToFile(ctx context.Context, doc Document, format Format) (string, error) {
	content, err := m.Export(ctx, doc, format)
	if err != nil {
		return "", err
	}

	outputPath := m.OutputPath(doc, format)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeWrite, "failed to create export directory", err)
	}
	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return "", errors.Wrap(errors.ErrCodeWrite, "failed to write export file", err)
	}

	logger.Info("Report exported to file",
		zap.String(logger.FieldRunID, doc.Meta.RunID),
		zap.String("format", string(format)),
		zap.String("path", outputPath),
	)
	return outputPath, nil
}

// OutputPath returns where ExportToFile writes the given format: the report
// type name with the exporter's extension, in the HTML file's directory
func (m *Manager) OutputPath(doc Document, format Format) string {
	ext := "." + string(format)
	if exporter, err := m.Get(format); err == nil {
		ext = exporter.FileExtension()
	}
	base := doc.Meta.ReportType
	if base == "" {
		base = consts.ReportTypeComprehensive
	}
	return filepath.Join(filepath.Dir(doc.HTMLPath), sanitizeFilename(base)+ext)
}

// SupportedFormats returns the registered formats in name order
func (m *Manager) SupportedFormats() []Format {
	m.mu.RLock()
	defer m.mu.RUnlock()

	formats := make([]Format, 0, len(m.exporters))
	for format := range m.exporters {
		formats = append(formats, format)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// Get returns the exporter for a specific format
func (m *Manager) Get(format Format) (Exporter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	exporter, ok := m.exporters[format]
	if !ok {
		return nil, errors.New(errors.ErrCodeValidation, fmt.Sprintf("unsupported export format: %s", format))
	}
	return exporter, nil
}

// ParseFormat validates a user-supplied format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatText, "txt":
		return FormatText, nil
	}
	return "", errors.New(errors.ErrCodeValidation, fmt.Sprintf("unsupported export format: %s", s))
}

// sanitizeFilename removes unsafe characters from filename
func sanitizeFilename(name string) string {
	unsafe := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", " "}
	result := name
	for _, char := range unsafe {
		result = strings.ReplaceAll(result, char, "_")
	}

	for strings.Contains(result, "__") {
		result = strings.ReplaceAll(result, "__", "_")
	}
	result = strings.Trim(result, "_")

	if len(result) > 100 {
		result = result[:100]
	}
	if result == "" {
		result = "report"
	}
	return result
}

// formatBytes converts bytes to human-readable format
func formatBytes(bytes int) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := int64(bytes) / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
