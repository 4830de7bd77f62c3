// Package model defines the data models for the application.
// ReportContext is the read-only input aggregate produced upstream by the scoring
// pipeline; the report package never mutates it.
package model

import "sort"

// Chapter codes in report order
const (
	ChapterGrowthEngine = "GE"
	ChapterPerformance  = "PH"
	ChapterPeople       = "PL"
	ChapterResilience   = "RS"
)

// ChapterOrder is the fixed order of the chapter deep-dives
var ChapterOrder = []string{ChapterGrowthEngine, ChapterPerformance, ChapterPeople, ChapterResilience}

// ChapterTitles maps chapter codes to their display titles
var ChapterTitles = map[string]string{
	ChapterGrowthEngine: "Growth Engine",
	ChapterPerformance:  "Performance & Health",
	ChapterPeople:       "People & Leadership",
	ChapterResilience:   "Resilience & Safeguards",
}

// Finding types
const (
	FindingStrength = "strength"
	FindingGap      = "gap"
	FindingRisk     = "risk"
)

// ReportContext is the aggregate input of a report build
type ReportContext struct {
	RunID                     string                     `json:"runId" yaml:"runId"`
	CompanyProfile            CompanyProfile             `json:"companyProfile" yaml:"companyProfile"`
	OverallHealth             OverallHealth              `json:"overallHealth" yaml:"overallHealth"`
	Chapters                  []Chapter                  `json:"chapters" yaml:"chapters"`
	Dimensions                []Dimension                `json:"dimensions" yaml:"dimensions"`
	Findings                  []Finding                  `json:"findings" yaml:"findings"`
	Recommendations           []Recommendation           `json:"recommendations" yaml:"recommendations"`
	QuickWins                 []QuickWin                 `json:"quickWins" yaml:"quickWins"`
	Risks                     []Risk                     `json:"risks" yaml:"risks"`
	Roadmap                   Roadmap                    `json:"roadmap" yaml:"roadmap"`
	ExecutiveSummary          ExecutiveSummary           `json:"executiveSummary" yaml:"executiveSummary"`
	CategoryAnalyses          []CategoryAnalysis         `json:"categoryAnalyses,omitempty" yaml:"categoryAnalyses"`
	CrossCategoryInsights     *CrossCategoryInsights     `json:"crossCategoryInsights,omitempty" yaml:"crossCategoryInsights"`
	CrossDimensionalSynthesis *CrossDimensionalSynthesis `json:"crossDimensionalSynthesis,omitempty" yaml:"crossDimensionalSynthesis"`
	PMORequirements           *PMORequirements           `json:"pmoRequirements,omitempty" yaml:"pmoRequirements"`
	ImplementationSummary     *ImplementationSummary     `json:"implementationSummary,omitempty" yaml:"implementationSummary"`
	FinancialImpact           FinancialImpact            `json:"financialImpact" yaml:"financialImpact"`
	NarrativeContent          *NarrativeContent          `json:"narrativeContent,omitempty" yaml:"narrativeContent"`
	LegalAccess               *LegalAccess               `json:"legalAccess,omitempty" yaml:"legalAccess"`
	RelationshipStatement     string                     `json:"relationshipStatement,omitempty" yaml:"relationshipStatement"`
}

// CompanyProfile describes the assessed business
type CompanyProfile struct {
	Name            string  `json:"name" yaml:"name"`
	Industry        string  `json:"industry" yaml:"industry"`
	Location        string  `json:"location" yaml:"location"`
	EmployeeCount   int     `json:"employeeCount" yaml:"employeeCount"`
	AnnualRevenue   float64 `json:"annualRevenue" yaml:"annualRevenue"`
	YearsInBusiness int     `json:"yearsInBusiness" yaml:"yearsInBusiness"`
	Website         string  `json:"website,omitempty" yaml:"website"`
}

// OverallHealth is the top-line health score
type OverallHealth struct {
	Score      float64 `json:"score" yaml:"score"`
	Band       string  `json:"band" yaml:"band"`
	Trajectory string  `json:"trajectory" yaml:"trajectory"`
	Status     string  `json:"status" yaml:"status"`
}

// Benchmark holds optional peer comparison data
type Benchmark struct {
	PeerPercentile  *float64 `json:"peerPercentile,omitempty" yaml:"peerPercentile"`
	IndustryAverage *float64 `json:"industryAverage,omitempty" yaml:"industryAverage"`
}

// Chapter is one of the four top-level health chapters
type Chapter struct {
	Code              string     `json:"code" yaml:"code"`
	Name              string     `json:"name" yaml:"name"`
	Score             float64    `json:"score" yaml:"score"`
	Band              string     `json:"band" yaml:"band"`
	Summary           string     `json:"summary,omitempty" yaml:"summary"`
	IndustryBenchmark *float64   `json:"industryBenchmark,omitempty" yaml:"industryBenchmark"`
	Benchmark         *Benchmark `json:"benchmark,omitempty" yaml:"benchmark"`
}

// BenchmarkValue returns industryBenchmark, falling back to benchmark.peerPercentile.
// A zero value counts as absent for the first operand.
func (c Chapter) BenchmarkValue() (float64, bool) {
	return benchmarkFallback(c.IndustryBenchmark, c.Benchmark)
}

// Dimension is a scored sub-area of a chapter
type Dimension struct {
	Code              string     `json:"code" yaml:"code"`
	Name              string     `json:"name" yaml:"name"`
	ChapterCode       string     `json:"chapterCode" yaml:"chapterCode"`
	Score             float64    `json:"score" yaml:"score"`
	Band              string     `json:"band" yaml:"band"`
	Description       string     `json:"description,omitempty" yaml:"description"`
	IndustryBenchmark *float64   `json:"industryBenchmark,omitempty" yaml:"industryBenchmark"`
	Benchmark         *Benchmark `json:"benchmark,omitempty" yaml:"benchmark"`
}

// BenchmarkValue applies the same fallback order as Chapter.BenchmarkValue
func (d Dimension) BenchmarkValue() (float64, bool) {
	return benchmarkFallback(d.IndustryBenchmark, d.Benchmark)
}

func benchmarkFallback(industry *float64, b *Benchmark) (float64, bool) {
	if industry != nil && *industry != 0 {
		return *industry, true
	}
	if b != nil && b.PeerPercentile != nil {
		return *b.PeerPercentile, true
	}
	return 0, false
}

// Finding is an observation tied to a dimension
type Finding struct {
	ID            string `json:"id" yaml:"id"`
	DimensionCode string `json:"dimensionCode" yaml:"dimensionCode"`
	Type          string `json:"type" yaml:"type"`
	Severity      string `json:"severity" yaml:"severity"`
	Title         string `json:"title" yaml:"title"`
	Narrative     string `json:"narrative" yaml:"narrative"`
	Evidence      string `json:"evidence,omitempty" yaml:"evidence"`
}

// Recommendation is a strategic action item
type Recommendation struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description" yaml:"description"`
	Priority       int      `json:"priority" yaml:"priority"`
	Horizon        string   `json:"horizon" yaml:"horizon"`
	Effort         string   `json:"effort" yaml:"effort"`
	Impact         string   `json:"impact" yaml:"impact"`
	DimensionCodes []string `json:"dimensionCodes,omitempty" yaml:"dimensionCodes"`
	EstimatedCost  float64  `json:"estimatedCost,omitempty" yaml:"estimatedCost"`
	EstimatedValue float64  `json:"estimatedValue,omitempty" yaml:"estimatedValue"`
}

// QuickWin is a low-effort, short-horizon improvement
type QuickWin struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Timeframe   string `json:"timeframe" yaml:"timeframe"`
	Impact      string `json:"impact" yaml:"impact"`
	Effort      string `json:"effort" yaml:"effort"`
}

// Risk is a scored business risk; likelihood and impact range 1-5
type Risk struct {
	ID         string `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	Category   string `json:"category" yaml:"category"`
	Likelihood int    `json:"likelihood" yaml:"likelihood"`
	Impact     int    `json:"impact" yaml:"impact"`
	Severity   string `json:"severity" yaml:"severity"`
	Mitigation string `json:"mitigation,omitempty" yaml:"mitigation"`
}

// Roadmap is the phased implementation plan
type Roadmap struct {
	Phases []RoadmapPhase `json:"phases" yaml:"phases"`
}

// RoadmapPhase is a single roadmap phase
type RoadmapPhase struct {
	Name        string   `json:"name" yaml:"name"`
	Timeframe   string   `json:"timeframe" yaml:"timeframe"`
	Focus       string   `json:"focus,omitempty" yaml:"focus"`
	Milestones  []string `json:"milestones,omitempty" yaml:"milestones"`
	Initiatives []string `json:"initiatives,omitempty" yaml:"initiatives"`
}

// ExecutiveSummary is the structured-data executive summary
type ExecutiveSummary struct {
	Overview        string   `json:"overview" yaml:"overview"`
	HeadlineInsight string   `json:"headlineInsight,omitempty" yaml:"headlineInsight"`
	KeyStrengths    []string `json:"keyStrengths,omitempty" yaml:"keyStrengths"`
	KeyPriorities   []string `json:"keyPriorities,omitempty" yaml:"keyPriorities"`
}

// CategoryAnalysis is a per-category health breakdown
type CategoryAnalysis struct {
	CategoryCode string   `json:"categoryCode" yaml:"categoryCode"`
	Name         string   `json:"name" yaml:"name"`
	Score        float64  `json:"score" yaml:"score"`
	Band         string   `json:"band" yaml:"band"`
	Summary      string   `json:"summary,omitempty" yaml:"summary"`
	Strengths    []string `json:"strengths,omitempty" yaml:"strengths"`
	Weaknesses   []string `json:"weaknesses,omitempty" yaml:"weaknesses"`
	ChapterCode  string   `json:"chapterCode,omitempty" yaml:"chapterCode"`
}

// CrossCategoryInsights links observations across categories
type CrossCategoryInsights struct {
	Summary  string                 `json:"summary,omitempty" yaml:"summary"`
	Insights []CrossCategoryInsight `json:"insights,omitempty" yaml:"insights"`
}

// CrossCategoryInsight is a single cross-category observation
type CrossCategoryInsight struct {
	Title       string   `json:"title" yaml:"title"`
	Categories  []string `json:"categories,omitempty" yaml:"categories"`
	Description string   `json:"description" yaml:"description"`
	Impact      string   `json:"impact,omitempty" yaml:"impact"`
}

// CrossDimensionalSynthesis describes interdependencies between dimensions
type CrossDimensionalSynthesis struct {
	Summary           string            `json:"summary,omitempty" yaml:"summary"`
	Interdependencies []Interdependency `json:"interdependencies,omitempty" yaml:"interdependencies"`
	SystemicIssues    []string          `json:"systemicIssues,omitempty" yaml:"systemicIssues"`
	CompoundingRisks  []string          `json:"compoundingRisks,omitempty" yaml:"compoundingRisks"`
}

// Interdependency is a directed link between two dimensions
type Interdependency struct {
	From        string `json:"from" yaml:"from"`
	To          string `json:"to" yaml:"to"`
	Strength    string `json:"strength" yaml:"strength"`
	Description string `json:"description,omitempty" yaml:"description"`
}

// PMORequirements describes the program management office needed for execution
type PMORequirements struct {
	Summary    string    `json:"summary,omitempty" yaml:"summary"`
	Roles      []PMORole `json:"roles,omitempty" yaml:"roles"`
	Governance []string  `json:"governance,omitempty" yaml:"governance"`
	Cadence    string    `json:"cadence,omitempty" yaml:"cadence"`
	Budget     float64   `json:"budget,omitempty" yaml:"budget"`
}

// PMORole is a single PMO staffing role
type PMORole struct {
	Title          string `json:"title" yaml:"title"`
	Responsibility string `json:"responsibility" yaml:"responsibility"`
	Commitment     string `json:"commitment,omitempty" yaml:"commitment"`
}

// ImplementationSummary closes the report with the investment case
type ImplementationSummary struct {
	Summary         string   `json:"summary,omitempty" yaml:"summary"`
	TotalInvestment float64  `json:"totalInvestment,omitempty" yaml:"totalInvestment"`
	ExpectedReturn  float64  `json:"expectedReturn,omitempty" yaml:"expectedReturn"`
	PaybackMonths   int      `json:"paybackMonths,omitempty" yaml:"paybackMonths"`
	NextSteps       []string `json:"nextSteps,omitempty" yaml:"nextSteps"`
}

// FinancialImpact quantifies the improvement opportunity
type FinancialImpact struct {
	Currency        string                `json:"currency" yaml:"currency"`
	Items           []FinancialImpactItem `json:"items" yaml:"items"`
	TotalInvestment float64               `json:"totalInvestment" yaml:"totalInvestment"`
	ProjectedROI    float64               `json:"projectedRoi" yaml:"projectedRoi"`
	HorizonMonths   int                   `json:"horizonMonths" yaml:"horizonMonths"`
}

// FinancialImpactItem is one line of the financial impact table
type FinancialImpactItem struct {
	Area             string  `json:"area" yaml:"area"`
	CurrentCost      float64 `json:"currentCost" yaml:"currentCost"`
	ProjectedSavings float64 `json:"projectedSavings" yaml:"projectedSavings"`
	RevenueUpside    float64 `json:"revenueUpside" yaml:"revenueUpside"`
	Confidence       string  `json:"confidence,omitempty" yaml:"confidence"`
}

// Total returns savings plus revenue upside
func (i FinancialImpactItem) Total() float64 {
	return i.ProjectedSavings + i.RevenueUpside
}

// NarrativeContent holds pre-generated markdown narrative
type NarrativeContent struct {
	Metadata         *NarrativeMetadata `json:"metadata,omitempty" yaml:"metadata"`
	BLUF             string             `json:"bluf,omitempty" yaml:"bluf"`
	ExecutiveSummary string             `json:"executiveSummary,omitempty" yaml:"executiveSummary"`
	Chapters         map[string]string  `json:"chapters,omitempty" yaml:"chapters"`
	CrossDimensional string             `json:"crossDimensional,omitempty" yaml:"crossDimensional"`
	RiskNarrative    string             `json:"riskNarrative,omitempty" yaml:"riskNarrative"`
	RoadmapNarrative string             `json:"roadmapNarrative,omitempty" yaml:"roadmapNarrative"`
}

// NarrativeMetadata describes narrative generation quality
type NarrativeMetadata struct {
	ContentSufficient bool   `json:"contentSufficient" yaml:"contentSufficient"`
	WordCount         int    `json:"wordCount,omitempty" yaml:"wordCount"`
	GeneratedAt       string `json:"generatedAt,omitempty" yaml:"generatedAt"`
}

// LegalAccess controls the legal/consent UI
type LegalAccess struct {
	BetaDisableBlur bool   `json:"betaDisableBlur" yaml:"betaDisableBlur"`
	TermsVersion    string `json:"termsVersion,omitempty" yaml:"termsVersion"`
}

// NarrativeAvailable reports whether narrative markdown may be used instead of
// structured-data fallbacks
func (rc *ReportContext) NarrativeAvailable() bool {
	return rc.NarrativeContent != nil &&
		rc.NarrativeContent.Metadata != nil &&
		rc.NarrativeContent.Metadata.ContentSufficient
}

// BetaMode reports whether the legal/consent UI is suppressed
func (rc *ReportContext) BetaMode() bool {
	return rc.LegalAccess != nil && rc.LegalAccess.BetaDisableBlur
}

// ChapterNarrative returns the narrative markdown for a chapter, if any
func (rc *ReportContext) ChapterNarrative(code string) string {
	if !rc.NarrativeAvailable() {
		return ""
	}
	return rc.NarrativeContent.Chapters[code]
}

// ChapterByCode returns the chapter with the given code
func (rc *ReportContext) ChapterByCode(code string) (Chapter, bool) {
	for _, ch := range rc.Chapters {
		if ch.Code == code {
			return ch, true
		}
	}
	return Chapter{}, false
}

// DimensionsForChapter returns the dimensions of a chapter in input order
func (rc *ReportContext) DimensionsForChapter(code string) []Dimension {
	var dims []Dimension
	for _, d := range rc.Dimensions {
		if d.ChapterCode == code {
			dims = append(dims, d)
		}
	}
	return dims
}

// FindingsForDimensions returns findings attached to any of the given dimension codes
func (rc *ReportContext) FindingsForDimensions(codes []string) []Finding {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	var out []Finding
	for _, f := range rc.Findings {
		if _, ok := set[f.DimensionCode]; ok {
			out = append(out, f)
		}
	}
	return out
}

// SortedRecommendations returns recommendations ordered by priority, stable on input order
func (rc *ReportContext) SortedRecommendations() []Recommendation {
	recs := make([]Recommendation, len(rc.Recommendations))
	copy(recs, rc.Recommendations)
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority < recs[j].Priority
	})
	return recs
}
