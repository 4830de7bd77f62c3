// Package components renders the structured sections of the comprehensive report.
// Every renderer takes its own input struct and returns an HTML fragment.
package components

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/bizhealth/reportgen/internal/fragments/format"
)

// Renderer renders report components from a pre-parsed template set.
// It is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer creates a new component renderer
func NewRenderer() *Renderer {
	r := &Renderer{}
	r.initTemplates()
	return r
}

// initTemplates initializes the component templates
func (r *Renderer) initTemplates() {
	funcMap := template.FuncMap{
		"score":     format.Score,
		"pct":       format.Percent,
		"num":       format.Number,
		"money":     format.Currency,
		"compact":   format.CompactCurrency,
		"bandClass": format.BandClass,
		"bandColor": format.BandColor,
		"title":     format.Title,
		"slug":      format.Slug,
		"join":      strings.Join,
		"inc":       func(i int) int { return i + 1 },
		"cssColor":  cssColor,
	}

	r.tmpl = template.New("components").Funcs(funcMap)

	for name, src := range componentTemplates {
		template.Must(r.tmpl.New(name).Parse(src))
	}
	template.Must(r.tmpl.New("chartSlot").Parse(chartSlotTemplate))
}

// cssColor marks a validated hex color as safe for style attributes
func cssColor(hex string) template.CSS {
	return template.CSS(hex)
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Cover renders the cover page
func (r *Renderer) Cover(in CoverInput) (string, error) {
	in.Brand = in.Brand.Normalized()
	return r.execute("cover", in)
}

// Header renders the report header
func (r *Renderer) Header(in HeaderInput) (string, error) {
	in.Brand = in.Brand.Normalized()
	return r.execute("header", in)
}

// Relationship renders the relationship statement; empty when there is none
func (r *Renderer) Relationship(in RelationshipInput) (string, error) {
	if strings.TrimSpace(in.Statement) == "" {
		return "", nil
	}
	return r.execute("relationship", in)
}

// TOC renders the table of contents
func (r *Renderer) TOC(in TOCInput) (string, error) {
	return r.execute("toc", in)
}

// BLUF renders the bottom-line-up-front block
func (r *Renderer) BLUF(in BLUFInput) (string, error) {
	return r.execute("bluf", in)
}

// ExecutiveSummary renders the executive summary
func (r *Renderer) ExecutiveSummary(in ExecutiveSummaryInput) (string, error) {
	return r.execute("executiveSummary", in)
}

// CategoryOverview renders the category health overview
func (r *Renderer) CategoryOverview(in CategoryInput) (string, error) {
	return r.execute("categoryOverview", in)
}

// Scorecard renders the health scorecard with its charts
func (r *Renderer) Scorecard(in ScorecardInput) (string, error) {
	return r.execute("scorecard", in)
}

// Chapter renders one chapter deep-dive
func (r *Renderer) Chapter(in ChapterInput) (string, error) {
	return r.execute("chapter", in)
}

// CrossCategoryInsights renders the cross-category insights section
func (r *Renderer) CrossCategoryInsights(in CrossCategoryInput) (string, error) {
	return r.execute("crossCategory", in)
}

// CategoryDeepDives renders one deep-dive block per category
func (r *Renderer) CategoryDeepDives(in CategoryInput) (string, error) {
	return r.execute("categoryDeepDives", in)
}

// InterdependencySynthesis renders the interdependency table
func (r *Renderer) InterdependencySynthesis(in InterdependencyInput) (string, error) {
	return r.execute("interdependency", in)
}

// CrossDimensional renders the cross-dimensional synthesis
func (r *Renderer) CrossDimensional(in CrossDimensionalInput) (string, error) {
	return r.execute("crossDimensional", in)
}

// RiskAssessment renders the risk register and matrix
func (r *Renderer) RiskAssessment(in RiskInput) (string, error) {
	return r.execute("risks", in)
}

// Roadmap renders the implementation roadmap
func (r *Renderer) Roadmap(in RoadmapInput) (string, error) {
	return r.execute("roadmap", in)
}

// PMO renders the PMO establishment requirements
func (r *Renderer) PMO(in PMOInput) (string, error) {
	return r.execute("pmo", in)
}

// Findings renders key findings grouped by type
func (r *Renderer) Findings(in FindingsInput) (string, error) {
	return r.execute("findings", in)
}

// Recommendations renders the strategic recommendations
func (r *Renderer) Recommendations(in RecommendationsInput) (string, error) {
	return r.execute("recommendations", in)
}

// QuickWins renders the quick wins list
func (r *Renderer) QuickWins(in QuickWinsInput) (string, error) {
	return r.execute("quickWins", in)
}

// FinancialImpact renders the financial impact analysis table
func (r *Renderer) FinancialImpact(in FinancialImpactInput) (string, error) {
	return r.execute("financialImpact", in)
}

// FinancialProjection renders the cumulative benefit projection
func (r *Renderer) FinancialProjection(in FinancialProjectionInput) (string, error) {
	return r.execute("financialProjection", in)
}

// AppendixA renders the full dimension score table
func (r *Renderer) AppendixA(in AppendixInput) (string, error) {
	return r.execute("appendixA", in)
}

// ImplementationSummary renders the closing investment summary
func (r *Renderer) ImplementationSummary(in ImplementationSummaryInput) (string, error) {
	return r.execute("implementationSummary", in)
}

// Footer renders the document footer
func (r *Renderer) Footer(in FooterInput) (string, error) {
	return r.execute("footer", in)
}

// ChartSlotHTML renders a standalone chart slot
func (r *Renderer) ChartSlotHTML(slot ChartSlot) (string, error) {
	return r.execute("chartSlot", slot)
}
