package model

import (
	"regexp"
	"strings"
)

// Default brand colors used when the caller supplies none or an invalid value
const (
	DefaultPrimaryColor = "#212172"
	DefaultAccentColor  = "#969423"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsHexColor reports whether s is a #rgb or #rrggbb color
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

// Brand holds the report brand colors
type Brand struct {
	PrimaryColor string `json:"primaryColor" yaml:"primary_color"`
	AccentColor  string `json:"accentColor" yaml:"accent_color"`
}

// DefaultBrand returns the default brand colors
func DefaultBrand() Brand {
	return Brand{PrimaryColor: DefaultPrimaryColor, AccentColor: DefaultAccentColor}
}

// Normalized replaces empty or malformed colors with the defaults.
// Colors are interpolated into CSS and SVG attributes, so only hex values pass.
func (b Brand) Normalized() Brand {
	out := b
	out.PrimaryColor = strings.TrimSpace(out.PrimaryColor)
	out.AccentColor = strings.TrimSpace(out.AccentColor)
	if !IsHexColor(out.PrimaryColor) {
		out.PrimaryColor = DefaultPrimaryColor
	}
	if !IsHexColor(out.AccentColor) {
		out.AccentColor = DefaultAccentColor
	}
	return out
}

// RenderOptions controls a single report build
type RenderOptions struct {
	OutputDir  string `json:"outputDir"`
	Brand      Brand  `json:"brand"`
	IncludeTOC bool   `json:"includeTOC"`
}

// TOCEntry is a table-of-contents anchor
type TOCEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ReportMeta is the JSON metadata sidecar written next to the HTML report
type ReportMeta struct {
	ReportType             string     `json:"reportType"`
	ReportName             string     `json:"reportName"`
	GeneratedAt            string     `json:"generatedAt"`
	CompanyName            string     `json:"companyName"`
	RunID                  string     `json:"runId"`
	HealthScore            float64    `json:"healthScore"`
	HealthBand             string     `json:"healthBand"`
	PageSuggestionEstimate int        `json:"pageSuggestionEstimate"`
	Sections               []TOCEntry `json:"sections"`
	Brand                  Brand      `json:"brand"`
}

// RenderWarning records a fragment that degraded to empty content
type RenderWarning struct {
	Fragment string `json:"fragment"`
	Message  string `json:"message"`
}

// SanitizationSummary reports what the post-processing passes changed
type SanitizationSummary struct {
	OrphanHeadersRemoved int      `json:"orphanHeadersRemoved"`
	RemovedHeaders       []string `json:"removedHeaders,omitempty"`
	ASCIIBlocksReplaced  int      `json:"asciiBlocksReplaced"`
}

// GeneratedReport is returned to the caller after a successful build
type GeneratedReport struct {
	ReportType   string              `json:"reportType"`
	ReportName   string              `json:"reportName"`
	HTMLPath     string              `json:"htmlPath"`
	MetaPath     string              `json:"metaPath"`
	GeneratedAt  string              `json:"generatedAt"`
	RunID        string              `json:"runId,omitempty"`
	CompanyName  string              `json:"companyName,omitempty"`
	HTMLBytes    int                 `json:"htmlBytes"`
	Sections     []TOCEntry          `json:"sections,omitempty"`
	Warnings     []RenderWarning     `json:"warnings,omitempty"`
	Sanitization SanitizationSummary `json:"sanitization"`
	Exports      map[string]string   `json:"exports,omitempty"`
}

// Degraded reports whether any fragment failed during the build
func (r *GeneratedReport) Degraded() bool {
	return len(r.Warnings) > 0
}
