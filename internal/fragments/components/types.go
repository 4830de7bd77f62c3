package components

import (
	"html/template"

	"github.com/bizhealth/reportgen/internal/model"
)

// ChartSlot is a titled chart placeholder. SVG is empty when the chart failed.
type ChartSlot struct {
	Title string
	SVG   template.HTML
}

// CoverInput feeds the cover page
type CoverInput struct {
	CompanyName string
	Industry    string
	Location    string
	ReportName  string
	PreparedOn  string
	HealthScore float64
	HealthBand  string
	Trajectory  string
	Status      string
	Brand       model.Brand
}

// HeaderInput feeds the running report header
type HeaderInput struct {
	CompanyName string
	ReportName  string
	PreparedOn  string
	RunID       string
	Brand       model.Brand
}

// RelationshipInput feeds the relationship statement
type RelationshipInput struct {
	CompanyName string
	Statement   string
}

// TOCInput feeds the table of contents
type TOCInput struct {
	Entries []model.TOCEntry
}

// BLUFInput feeds the bottom-line-up-front block
type BLUFInput struct {
	Narrative       template.HTML
	HeadlineInsight string
	HealthScore     float64
	HealthBand      string
	Status          string
	Trajectory      string
}

// ExecutiveSummaryInput feeds the executive summary. Narrative wins over
// Overview, which holds the pre-rendered structured-data paragraphs.
type ExecutiveSummaryInput struct {
	Narrative       template.HTML
	Overview        template.HTML
	HeadlineInsight string
	KeyStrengths    []string
	KeyPriorities   []string
}

// ScoreRow is a scored line in a table (chapter, dimension, or category)
type ScoreRow struct {
	Code         string
	Name         string
	Group        string
	Score        float64
	Band         string
	Description  string
	Benchmark    float64
	HasBenchmark bool
}

// CategoryRow is a category analysis entry
type CategoryRow struct {
	Code       string
	Name       string
	Score      float64
	Band       string
	Summary    string
	Strengths  []string
	Weaknesses []string
}

// CategoryInput feeds both the category overview and the category deep-dives
type CategoryInput struct {
	Categories []CategoryRow
}

// ScorecardInput feeds the health scorecard and its charts
type ScorecardInput struct {
	HealthScore float64
	HealthBand  string
	Trajectory  string
	Chapters    []ScoreRow
	Charts      []ChartSlot
}

// FindingRow is a single finding
type FindingRow struct {
	Title         string
	Type          string
	Severity      string
	Narrative     string
	Evidence      string
	DimensionCode string
}

// ChapterInput feeds one chapter deep-dive
type ChapterInput struct {
	Code         string
	AnchorID     string
	Title        string
	HasData      bool
	Score        float64
	Band         string
	Summary      string
	Benchmark    float64
	HasBenchmark bool
	Dimensions   []ScoreRow
	Findings     []FindingRow
	Narrative    template.HTML
}

// CrossCategoryInput feeds the cross-category insights section
type CrossCategoryInput struct {
	Summary  string
	Insights []model.CrossCategoryInsight
}

// InterdependencyInput feeds the interdependency synthesis section
type InterdependencyInput struct {
	Summary string
	Links   []model.Interdependency
}

// CrossDimensionalInput feeds the cross-dimensional synthesis section
type CrossDimensionalInput struct {
	Narrative        template.HTML
	Summary          string
	SystemicIssues   []string
	CompoundingRisks []string
}

// RiskRow is a risk register entry
type RiskRow struct {
	Title      string
	Category   string
	Likelihood int
	Impact     int
	Exposure   int
	Severity   string
	Mitigation string
}

// RiskInput feeds the risk assessment section
type RiskInput struct {
	Narrative template.HTML
	Risks     []RiskRow
	Chart     ChartSlot
}

// RoadmapInput feeds the implementation roadmap section
type RoadmapInput struct {
	Narrative template.HTML
	Phases    []model.RoadmapPhase
	Chart     ChartSlot
}

// PMOInput feeds the PMO establishment requirements section
type PMOInput struct {
	Summary    string
	Roles      []model.PMORole
	Governance []string
	Cadence    string
	Budget     float64
	Currency   string
}

// FindingGroup is a labelled group of findings of one type
type FindingGroup struct {
	Type  string
	Label string
	Items []FindingRow
}

// FindingsInput feeds the key findings section
type FindingsInput struct {
	Groups []FindingGroup
}

// RecommendationRow is a ranked recommendation
type RecommendationRow struct {
	Rank        int
	Title       string
	Description string
	Horizon     string
	Effort      string
	Impact      string
	Dimensions  []string
	Cost        float64
	Value       float64
}

// RecommendationsInput feeds the strategic recommendations section
type RecommendationsInput struct {
	Items    []RecommendationRow
	Currency string
}

// QuickWinsInput feeds the quick wins section
type QuickWinsInput struct {
	Items []model.QuickWin
}

// FinancialImpactInput feeds the financial impact analysis section
type FinancialImpactInput struct {
	Currency        string
	Items           []model.FinancialImpactItem
	TotalSavings    float64
	TotalUpside     float64
	TotalBenefit    float64
	TotalInvestment float64
	ROI             float64
	HorizonMonths   int
	Chart           ChartSlot
}

// ProjectionRow is one checkpoint of the cumulative benefit projection
type ProjectionRow struct {
	Month      int
	Cumulative float64
	Net        float64
}

// FinancialProjectionInput feeds the financial projection section
type FinancialProjectionInput struct {
	Currency       string
	Investment     float64
	MonthlyBenefit float64
	Rows           []ProjectionRow
	BreakEvenMonth int
}

// AppendixInput feeds appendix A
type AppendixInput struct {
	Dimensions []ScoreRow
}

// ImplementationSummaryInput feeds the implementation summary section
type ImplementationSummaryInput struct {
	Summary         string
	TotalInvestment float64
	ExpectedReturn  float64
	PaybackMonths   int
	NextSteps       []string
	Currency        string
}

// FooterInput feeds the document footer
type FooterInput struct {
	CompanyName string
	ReportName  string
	PreparedOn  string
	RunID       string
	Version     string
	Year        int
}
