package check

import (
	"errors"
	"testing"
)

func TestNewReport(t *testing.T) {
	report := NewReport()
	if report.FileResults == nil {
		t.Error("NewReport() FileResults should be initialized")
	}
	if report.ValidationResults == nil {
		t.Error("NewReport() ValidationResults should be initialized")
	}
	if report.HasErrors() {
		t.Error("empty report should have no errors")
	}
}

func TestCalculateSummary(t *testing.T) {
	report := NewReport()
	report.AddFileResult(FileCheckResult{Path: "a.yaml", Exists: true, Created: true})
	report.AddFileResult(FileCheckResult{Path: "b.yaml"})
	report.AddValidationResult(ValidationResult{Path: "a.yaml", Valid: true, Warnings: []string{"w"}})
	report.AddValidationResult(ValidationResult{Path: "chrome", Error: errors.New("missing")})

	summary := report.calculateSummary()

	if summary.TotalFiles != 2 || summary.FilesExist != 1 || summary.FilesCreated != 1 || summary.FilesMissing != 1 {
		t.Errorf("file counts wrong: %+v", summary)
	}
	if summary.TotalValidations != 2 || summary.ValidationsValid != 1 || summary.ValidationErrors != 1 {
		t.Errorf("validation counts wrong: %+v", summary)
	}
	if !summary.HasErrors || !summary.HasWarnings {
		t.Errorf("flags wrong: %+v", summary)
	}
	if !report.HasErrors() {
		t.Error("HasErrors() should be true")
	}
}

func TestSummaryDetails(t *testing.T) {
	tests := []struct {
		name    string
		summary ReportSummary
		want    string
	}{
		{name: "clean", summary: ReportSummary{}, want: " - All checks passed"},
		{name: "created", summary: ReportSummary{FilesCreated: 1}, want: " (1 file(s) created)"},
		{
			name:    "mixed",
			summary: ReportSummary{FilesMissing: 1, ValidationErrors: 2},
			want:    " (1 file(s) missing, 2 check(s) failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summaryDetails(tt.summary); got != tt.want {
				t.Errorf("summaryDetails() = %q, want %q", got, tt.want)
			}
		})
	}
}
