package report

import (
	"context"
	"errors"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bizhealth/reportgen/internal/fragments/charts"
	"github.com/bizhealth/reportgen/internal/model"
)

var fixedTime = time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

func fixedClock() time.Time { return fixedTime }

func f64(v float64) *float64 { return &v }

// acmeContext is the minimal scenario: no category analyses, no PMO, and
// narrative flagged as insufficient
func acmeContext() *model.ReportContext {
	return &model.ReportContext{
		RunID: "run-acme-001",
		CompanyProfile: model.CompanyProfile{
			Name:     "Acme Co",
			Industry: "Manufacturing",
			Location: "Dayton, OH",
		},
		OverallHealth: model.OverallHealth{Score: 72, Band: "good", Trajectory: "improving", Status: "Stable"},
		Chapters: []model.Chapter{
			{Code: "GE", Name: "Growth Engine", Score: 68, Band: "fair", Summary: "Growth depends on two accounts.", IndustryBenchmark: f64(61)},
			{Code: "PH", Name: "Performance & Health", Score: 81, Band: "good", Benchmark: &model.Benchmark{PeerPercentile: f64(70)}},
			{Code: "PL", Name: "People & Leadership", Score: 75, Band: "good"},
			{Code: "RS", Name: "Resilience & Safeguards", Score: 58, Band: "fair"},
		},
		Dimensions: []model.Dimension{
			{Code: "STR", Name: "Strategy", ChapterCode: "GE", Score: 70, Band: "good"},
			{Code: "SAL", Name: "Sales", ChapterCode: "GE", Score: 55, Band: "fair"},
			{Code: "FIN", Name: "Financials", ChapterCode: "PH", Score: 82, Band: "good"},
			{Code: "HR", Name: "Human Resources", ChapterCode: "PL", Score: 74, Band: "good"},
			{Code: "RMS", Name: "Risk Management", ChapterCode: "RS", Score: 52, Band: "poor"},
		},
		Findings: []model.Finding{
			{ID: "f1", DimensionCode: "SAL", Type: "gap", Severity: "high", Title: "Pipeline concentration", Narrative: "Two customers are 60% of revenue."},
			{ID: "f2", DimensionCode: "FIN", Type: "strength", Severity: "low", Title: "Healthy margins", Narrative: "Gross margin is above peers."},
		},
		Recommendations: []model.Recommendation{
			{ID: "r2", Title: "Automate invoicing", Priority: 2, Effort: "low", Impact: "medium"},
			{ID: "r1", Title: "Diversify customer base", Priority: 1, Effort: "high", Impact: "high", DimensionCodes: []string{"SAL"}},
		},
		QuickWins: []model.QuickWin{{ID: "q1", Title: "Weekly cash report", Timeframe: "2 weeks"}},
		Risks: []model.Risk{
			{ID: "k1", Title: "Key customer loss", Category: "market", Likelihood: 3, Impact: 5, Severity: "high"},
		},
		Roadmap: model.Roadmap{Phases: []model.RoadmapPhase{
			{Name: "Stabilize", Timeframe: "0-90 days"},
			{Name: "Grow", Timeframe: "3-12 months"},
		}},
		ExecutiveSummary: model.ExecutiveSummary{
			Overview:     "Acme Co is stable with concentrated revenue risk.",
			KeyStrengths: []string{"Healthy margins"},
		},
		FinancialImpact: model.FinancialImpact{
			Currency:        "USD",
			Items:           []model.FinancialImpactItem{{Area: "Operations", ProjectedSavings: 60000, RevenueUpside: 60000}},
			TotalInvestment: 30000,
			HorizonMonths:   12,
		},
		NarrativeContent: &model.NarrativeContent{
			Metadata:         &model.NarrativeMetadata{ContentSufficient: false},
			ExecutiveSummary: "# Narrative summary\n\nThis text must not be used.",
		},
	}
}

// fullContext sets every optional field the layout reacts to
func fullContext() *model.ReportContext {
	rc := acmeContext()
	rc.CategoryAnalyses = []model.CategoryAnalysis{
		{CategoryCode: "OPS", Name: "Operations", Score: 78, Band: "good"},
		{CategoryCode: "MKT", Name: "Marketing", Score: 61, Band: "fair"},
		{CategoryCode: "FIN", Name: "Finance", Score: 83, Band: "good"},
	}
	rc.CrossCategoryInsights = &model.CrossCategoryInsights{
		Summary:  "Operations and marketing move together.",
		Insights: []model.CrossCategoryInsight{{Title: "Capacity limits growth", Description: "Sales outpace delivery."}},
	}
	rc.CrossDimensionalSynthesis = &model.CrossDimensionalSynthesis{
		Summary:           "Sales weakness compounds cash risk.",
		Interdependencies: []model.Interdependency{{From: "SAL", To: "FIN", Strength: "strong"}},
	}
	rc.PMORequirements = &model.PMORequirements{
		Summary: "A part-time PMO is sufficient.",
		Roles:   []model.PMORole{{Title: "Program lead", Responsibility: "Owns the roadmap"}},
	}
	rc.ImplementationSummary = &model.ImplementationSummary{
		Summary:         "Invest $30K to unlock $120K per year.",
		TotalInvestment: 30000,
		NextSteps:       []string{"Approve budget"},
	}
	rc.RelationshipStatement = "Prepared for Acme Co by its advisory team."
	return rc
}

func renderOptions(t *testing.T) model.RenderOptions {
	t.Helper()
	return model.RenderOptions{
		OutputDir:  t.TempDir(),
		Brand:      model.DefaultBrand(),
		IncludeTOC: true,
	}
}

func buildReport(t *testing.T, rc *model.ReportContext, opts model.RenderOptions, extra ...Option) (*model.GeneratedReport, string) {
	t.Helper()
	a := NewAssembler(append([]Option{WithClock(fixedClock)}, extra...)...)
	report, err := a.Build(context.Background(), rc, opts)
	require.NoError(t, err)
	data, err := os.ReadFile(report.HTMLPath)
	require.NoError(t, err)
	return report, string(data)
}

var sectionIDPattern = regexp.MustCompile(`<(?:section|nav|header|footer) id="([^"]+)"`)

// sectionIDs lists the top-level section anchors in document order
func sectionIDs(html string) []string {
	var ids []string
	for _, m := range sectionIDPattern.FindAllStringSubmatch(html, -1) {
		ids = append(ids, m[1])
	}
	return ids
}

func tocIDs(entries []model.TOCEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// replaceChart swaps one generator in the default chart set
func replaceChart(id string, fn charts.ChartFunc) []charts.Chart {
	set := charts.Default()
	for i := range set {
		if set[i].ID == id {
			set[i].Render = fn
		}
	}
	return set
}

var errChartFailed = errors.New("renderer exploded")

func failingChart(context.Context, *model.ReportContext, model.Brand) (string, error) {
	return "", errChartFailed
}

var errSectionFailed = errors.New("template exploded")

// failSection makes one registry entry return an error
func failSection(a *Assembler, id string) {
	for i := range a.sections {
		if a.sections[i].ID == id {
			a.sections[i].Render = func(*Assembler, *build) (string, error) {
				return "", errSectionFailed
			}
		}
	}
}
