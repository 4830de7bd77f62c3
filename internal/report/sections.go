package report

import (
	"strings"

	"github.com/bizhealth/reportgen/internal/fragments/legal"
	"github.com/bizhealth/reportgen/internal/model"
)

// sectionSpec is one entry of the report layout. The same list drives the
// table of contents and the rendered body, so the two cannot drift apart.
type sectionSpec struct {
	ID      string
	Title   string
	InTOC   bool
	Present func(b *build) bool
	Render  func(a *Assembler, b *build) (string, error)
}

// Section anchors referenced outside the registry
const (
	SectionCover                 = "cover"
	SectionHeader                = "report-header"
	SectionRelationship          = "relationship"
	SectionLegalNotice           = "legal-notice"
	SectionTOC                   = "table-of-contents"
	SectionBLUF                  = "bluf"
	SectionExecutiveSummary      = "executive-summary"
	SectionCategoryOverview      = "category-overview"
	SectionScorecard             = "scorecard"
	SectionCrossCategory         = "cross-category-insights"
	SectionCategoryDeepDives     = "category-deep-dives"
	SectionInterdependency       = "interdependency-synthesis"
	SectionCrossDimensional      = "cross-dimensional-synthesis"
	SectionRiskAssessment        = "risk-assessment"
	SectionRoadmap               = "roadmap"
	SectionPMO                   = "pmo"
	SectionFindings              = "findings"
	SectionRecommendations       = "recommendations"
	SectionQuickWins             = "quick-wins"
	SectionFinancialImpact       = "financial-impact"
	SectionFinancialProjection   = "financial-projection"
	SectionAppendixA             = "appendix-a"
	SectionImplementationSummary = "implementation-summary"
	SectionLegalTerms            = "legal-terms"
	SectionFooter                = "report-footer"
)

// ChapterAnchor returns the anchor id of a chapter deep-dive ("chapter-ge")
func ChapterAnchor(code string) string {
	return "chapter-" + strings.ToLower(code)
}

func always(*build) bool { return true }

func notBeta(b *build) bool { return !b.rc.BetaMode() }

func hasCategories(b *build) bool { return len(b.rc.CategoryAnalyses) > 0 }

func hasCrossDimensional(b *build) bool { return b.rc.CrossDimensionalSynthesis != nil }

// defaultSections returns the fixed layout of the comprehensive report
func defaultSections() []sectionSpec {
	specs := []sectionSpec{
		{
			ID:      SectionCover,
			Present: always,
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.Cover(b.coverInput())
			},
		},
		{
			ID:      SectionHeader,
			Present: always,
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.Header(b.headerInput())
			},
		},
		{
			ID: SectionRelationship,
			Present: func(b *build) bool {
				return strings.TrimSpace(b.rc.RelationshipStatement) != ""
			},
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.Relationship(b.relationshipInput())
			},
		},
		{
			ID:      SectionLegalNotice,
			Present: notBeta,
			Render:  renderLegalNotice,
		},
		{
			ID: SectionTOC,
			Present: func(b *build) bool {
				return b.opts.IncludeTOC
			},
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.TOC(b.tocInput())
			},
		},
		{
			ID:      SectionBLUF,
			Present: always,
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.BLUF(b.blufInput())
			},
		},
		{
			ID:      SectionExecutiveSummary,
			Title:   "Executive Summary",
			InTOC:   true,
			Present: always,
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.ExecutiveSummary(b.executiveSummaryInput())
			},
		},
		{
			ID:      SectionCategoryOverview,
			Title:   "Category Health Overview",
			InTOC:   true,
			Present: hasCategories,
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.CategoryOverview(b.categoryInput())
			},
		},
		{
			ID:      SectionScorecard,
			Title:   "Health Scorecard",
			InTOC:   true,
			Present: always,
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.Scorecard(b.scorecardInput())
			},
		},
	}

	for _, code := range model.ChapterOrder {
		specs = append(specs, sectionSpec{
			ID:      ChapterAnchor(code),
			Title:   model.ChapterTitles[code],
			InTOC:   true,
			Present: always,
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.Chapter(b.chapterInput(code))
			},
		})
	}

	specs = append(specs,
		sectionSpec{
			ID:    SectionCrossCategory,
			Title: "Cross-Category Insights",
			InTOC: true,
			Present: func(b *build) bool {
				return b.rc.CrossCategoryInsights != nil
			},
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.CrossCategoryInsights(b.crossCategoryInput())
			},
		},
		sectionSpec{
			ID:      SectionCategoryDeepDives,
			Present: hasCategories,
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.CategoryDeepDives(b.categoryInput())
			},
		},
		sectionSpec{
			ID:      SectionInterdependency,
			Title:   "Interdependency Synthesis",
			InTOC:   true,
			Present: hasCrossDimensional,
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.InterdependencySynthesis(b.interdependencyInput())
			},
		},
		sectionSpec{
			ID:      SectionCrossDimensional,
			Present: hasCrossDimensional,
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.CrossDimensional(b.crossDimensionalInput())
			},
		},
		sectionSpec{
			ID:      SectionRiskAssessment,
			Title:   "Risk Assessment",
			InTOC:   true,
			Present: always,
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.RiskAssessment(b.riskInput())
			},
		},
		sectionSpec{
			ID:      SectionRoadmap,
			Title:   "Implementation Roadmap",
			InTOC:   true,
			Present: always,
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.Roadmap(b.roadmapInput())
			},
		},
		sectionSpec{
			ID:    SectionPMO,
			Title: "PMO Establishment Requirements",
			InTOC: true,
			Present: func(b *build) bool {
				return b.rc.PMORequirements != nil
			},
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.PMO(b.pmoInput())
			},
		},
		sectionSpec{
			ID:      SectionFindings,
			Title:   "Key Findings",
			InTOC:   true,
			Present: always,
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.Findings(b.findingsInput())
			},
		},
		sectionSpec{
			ID:      SectionRecommendations,
			Title:   "Strategic Recommendations",
			InTOC:   true,
			Present: always,
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.Recommendations(b.recommendationsInput())
			},
		},
		sectionSpec{
			ID:      SectionQuickWins,
			Title:   "Quick Wins",
			InTOC:   true,
			Present: always,
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.QuickWins(b.quickWinsInput())
			},
		},
		sectionSpec{
			ID:      SectionFinancialImpact,
			Title:   "Financial Impact Analysis",
			InTOC:   true,
			Present: always,
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.FinancialImpact(b.financialImpactInput())
			},
		},
		sectionSpec{
			ID:      SectionFinancialProjection,
			Present: always,
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.FinancialProjection(b.financialProjectionInput())
			},
		},
		sectionSpec{
			ID:      SectionAppendixA,
			Title:   "Appendix A: Dimension Scores",
			InTOC:   true,
			Present: always,
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.AppendixA(b.appendixInput())
			},
		},
		sectionSpec{
			ID:    SectionImplementationSummary,
			Title: "Implementation Summary",
			InTOC: true,
			Present: func(b *build) bool {
				return b.rc.ImplementationSummary != nil
			},
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.ImplementationSummary(b.implementationSummaryInput())
			},
		},
		sectionSpec{
			ID:      SectionLegalTerms,
			Present: notBeta,
			Render: func(_ *Assembler, b *build) (string, error) {
				return legal.Accordion(b.legalInput())
			},
		},
		sectionSpec{
			ID:      SectionFooter,
			Present: always,
			Render: func(a *Assembler, b *build) (string, error) {
				return a.components.Footer(b.footerInput())
			},
		},
	)

	return specs
}

// renderLegalNotice renders the clickwrap modal followed by the acceptance banner
func renderLegalNotice(_ *Assembler, b *build) (string, error) {
	in := b.legalInput()
	modal, err := legal.ClickwrapModal(in)
	if err != nil {
		return "", err
	}
	banner, err := legal.AcceptanceBanner(in)
	if err != nil {
		return "", err
	}
	return modal + "\n" + banner, nil
}
