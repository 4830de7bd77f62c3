package report

import (
	"html/template"
	"math"
	"sort"
	"strings"

	"github.com/bizhealth/reportgen/consts"
	"github.com/bizhealth/reportgen/internal/fragments/charts"
	"github.com/bizhealth/reportgen/internal/fragments/components"
	"github.com/bizhealth/reportgen/internal/fragments/format"
	"github.com/bizhealth/reportgen/internal/fragments/legal"
	"github.com/bizhealth/reportgen/internal/fragments/narrative"
	"github.com/bizhealth/reportgen/internal/model"
)

// Adapters from the report context to the narrow component inputs.
// Each one reads only the fields its section renders.

const preparedOnLayout = "January 2, 2006"

// scorecardCharts are the chart slots shown under the health scorecard
var scorecardCharts = []string{
	charts.HealthGauge,
	charts.ChapterScores,
	charts.DimensionBars,
	charts.CategoryRadar,
	charts.BenchmarkComparison,
}

// findingGroups fixes the order and labels of the findings section
var findingGroups = []struct {
	Type  string
	Label string
}{
	{model.FindingStrength, "Strengths"},
	{model.FindingGap, "Gaps"},
	{model.FindingRisk, "Risks"},
}

// projectionStepMonths is the spacing of financial projection checkpoints
const (
	projectionStepMonths    = 3
	defaultProjectionMonths = 24
)

func (b *build) preparedOn() string {
	return b.now.Format(preparedOnLayout)
}

// narrativeHTML renders narrative markdown when narrative content is usable.
// A render failure is recorded as a warning and the caller falls back to
// structured data.
func (b *build) narrativeHTML(fragment, class, markdown string) template.HTML {
	if !b.rc.NarrativeAvailable() || strings.TrimSpace(markdown) == "" {
		return ""
	}
	out, err := b.narrative.Block(class, markdown)
	if err != nil {
		b.warn(fragment, err)
		return ""
	}
	return template.HTML(out)
}

func (b *build) chartSlot(id string) components.ChartSlot {
	r, ok := b.charts[id]
	if !ok {
		return components.ChartSlot{Title: chartTitles[id]}
	}
	return components.ChartSlot{Title: r.Title, SVG: template.HTML(r.HTML)}
}

func (b *build) coverInput() components.CoverInput {
	p := b.rc.CompanyProfile
	h := b.rc.OverallHealth
	return components.CoverInput{
		CompanyName: p.Name,
		Industry:    p.Industry,
		Location:    p.Location,
		ReportName:  consts.ReportNameComprehensive,
		PreparedOn:  b.preparedOn(),
		HealthScore: h.Score,
		HealthBand:  format.NormalizeBand(h.Band, h.Score),
		Trajectory:  h.Trajectory,
		Status:      h.Status,
		Brand:       b.brand,
	}
}

func (b *build) headerInput() components.HeaderInput {
	return components.HeaderInput{
		CompanyName: b.rc.CompanyProfile.Name,
		ReportName:  consts.ReportNameComprehensive,
		PreparedOn:  b.preparedOn(),
		RunID:       b.rc.RunID,
		Brand:       b.brand,
	}
}

func (b *build) relationshipInput() components.RelationshipInput {
	return components.RelationshipInput{
		CompanyName: b.rc.CompanyProfile.Name,
		Statement:   strings.TrimSpace(b.rc.RelationshipStatement),
	}
}

func (b *build) tocInput() components.TOCInput {
	return components.TOCInput{Entries: b.toc}
}

func (b *build) blufInput() components.BLUFInput {
	h := b.rc.OverallHealth
	in := components.BLUFInput{
		HeadlineInsight: b.rc.ExecutiveSummary.HeadlineInsight,
		HealthScore:     h.Score,
		HealthBand:      format.NormalizeBand(h.Band, h.Score),
		Status:          h.Status,
		Trajectory:      h.Trajectory,
	}
	if nc := b.rc.NarrativeContent; nc != nil {
		in.Narrative = b.narrativeHTML(SectionBLUF, "bluf-narrative", nc.BLUF)
	}
	return in
}

func (b *build) executiveSummaryInput() components.ExecutiveSummaryInput {
	es := b.rc.ExecutiveSummary
	in := components.ExecutiveSummaryInput{
		Overview:        template.HTML(narrative.Paragraphs("summary-overview", es.Overview)),
		HeadlineInsight: es.HeadlineInsight,
		KeyStrengths:    es.KeyStrengths,
		KeyPriorities:   es.KeyPriorities,
	}
	if nc := b.rc.NarrativeContent; nc != nil {
		in.Narrative = b.narrativeHTML(SectionExecutiveSummary, "executive-narrative", nc.ExecutiveSummary)
	}
	return in
}

func (b *build) categoryInput() components.CategoryInput {
	rows := make([]components.CategoryRow, 0, len(b.rc.CategoryAnalyses))
	for _, c := range b.rc.CategoryAnalyses {
		code := c.CategoryCode
		if code == "" {
			code = c.Name
		}
		rows = append(rows, components.CategoryRow{
			Code:       code,
			Name:       c.Name,
			Score:      c.Score,
			Band:       format.NormalizeBand(c.Band, c.Score),
			Summary:    c.Summary,
			Strengths:  c.Strengths,
			Weaknesses: c.Weaknesses,
		})
	}
	return components.CategoryInput{Categories: rows}
}

func (b *build) scorecardInput() components.ScorecardInput {
	h := b.rc.OverallHealth
	in := components.ScorecardInput{
		HealthScore: h.Score,
		HealthBand:  format.NormalizeBand(h.Band, h.Score),
		Trajectory:  h.Trajectory,
	}
	for _, code := range model.ChapterOrder {
		ch, ok := b.rc.ChapterByCode(code)
		if !ok {
			continue
		}
		in.Chapters = append(in.Chapters, chapterRow(ch))
	}
	for _, id := range scorecardCharts {
		in.Charts = append(in.Charts, b.chartSlot(id))
	}
	return in
}

func chapterRow(ch model.Chapter) components.ScoreRow {
	bench, ok := ch.BenchmarkValue()
	name := ch.Name
	if name == "" {
		name = model.ChapterTitles[ch.Code]
	}
	return components.ScoreRow{
		Code:         ch.Code,
		Name:         name,
		Score:        ch.Score,
		Band:         format.NormalizeBand(ch.Band, ch.Score),
		Description:  ch.Summary,
		Benchmark:    bench,
		HasBenchmark: ok,
	}
}

func dimensionRow(d model.Dimension) components.ScoreRow {
	bench, ok := d.BenchmarkValue()
	return components.ScoreRow{
		Code:         d.Code,
		Name:         d.Name,
		Group:        model.ChapterTitles[d.ChapterCode],
		Score:        d.Score,
		Band:         format.NormalizeBand(d.Band, d.Score),
		Description:  d.Description,
		Benchmark:    bench,
		HasBenchmark: ok,
	}
}

func findingRow(f model.Finding) components.FindingRow {
	return components.FindingRow{
		Title:         f.Title,
		Type:          f.Type,
		Severity:      f.Severity,
		Narrative:     f.Narrative,
		Evidence:      f.Evidence,
		DimensionCode: f.DimensionCode,
	}
}

// chapterInput builds a chapter deep-dive. A chapter missing from the context
// still renders, with an empty-state line instead of scores.
func (b *build) chapterInput(code string) components.ChapterInput {
	in := components.ChapterInput{
		Code:     code,
		AnchorID: ChapterAnchor(code),
		Title:    model.ChapterTitles[code],
	}

	if ch, ok := b.rc.ChapterByCode(code); ok {
		row := chapterRow(ch)
		in.HasData = true
		in.Score = row.Score
		in.Band = row.Band
		in.Summary = ch.Summary
		in.Benchmark = row.Benchmark
		in.HasBenchmark = row.HasBenchmark
	}

	dims := b.rc.DimensionsForChapter(code)
	codes := make([]string, 0, len(dims))
	for _, d := range dims {
		in.Dimensions = append(in.Dimensions, dimensionRow(d))
		codes = append(codes, d.Code)
	}
	for _, f := range b.rc.FindingsForDimensions(codes) {
		in.Findings = append(in.Findings, findingRow(f))
	}

	in.Narrative = b.narrativeHTML(ChapterAnchor(code), "chapter-narrative", b.rc.ChapterNarrative(code))
	return in
}

func (b *build) crossCategoryInput() components.CrossCategoryInput {
	cc := b.rc.CrossCategoryInsights
	if cc == nil {
		return components.CrossCategoryInput{}
	}
	return components.CrossCategoryInput{Summary: cc.Summary, Insights: cc.Insights}
}

func (b *build) interdependencyInput() components.InterdependencyInput {
	cd := b.rc.CrossDimensionalSynthesis
	if cd == nil {
		return components.InterdependencyInput{}
	}
	links := make([]model.Interdependency, len(cd.Interdependencies))
	copy(links, cd.Interdependencies)
	names := b.dimensionNames()
	for i := range links {
		if n, ok := names[links[i].From]; ok {
			links[i].From = n
		}
		if n, ok := names[links[i].To]; ok {
			links[i].To = n
		}
	}
	return components.InterdependencyInput{Summary: cd.Summary, Links: links}
}

func (b *build) crossDimensionalInput() components.CrossDimensionalInput {
	in := components.CrossDimensionalInput{}
	if cd := b.rc.CrossDimensionalSynthesis; cd != nil {
		in.Summary = cd.Summary
		in.SystemicIssues = cd.SystemicIssues
		in.CompoundingRisks = cd.CompoundingRisks
	}
	if nc := b.rc.NarrativeContent; nc != nil {
		in.Narrative = b.narrativeHTML(SectionCrossDimensional, "cross-dimensional-narrative", nc.CrossDimensional)
	}
	return in
}

// riskInput orders risks by exposure, highest first, keeping input order on ties
func (b *build) riskInput() components.RiskInput {
	rows := make([]components.RiskRow, 0, len(b.rc.Risks))
	for _, r := range b.rc.Risks {
		l, i := clampRiskLevel(r.Likelihood), clampRiskLevel(r.Impact)
		rows = append(rows, components.RiskRow{
			Title:      r.Title,
			Category:   r.Category,
			Likelihood: l,
			Impact:     i,
			Exposure:   l * i,
			Severity:   r.Severity,
			Mitigation: r.Mitigation,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Exposure > rows[j].Exposure
	})

	in := components.RiskInput{Risks: rows, Chart: b.chartSlot(charts.RiskMatrix)}
	if nc := b.rc.NarrativeContent; nc != nil {
		in.Narrative = b.narrativeHTML(SectionRiskAssessment, "risk-narrative", nc.RiskNarrative)
	}
	return in
}

func clampRiskLevel(v int) int {
	return min(max(v, 1), 5)
}

func (b *build) roadmapInput() components.RoadmapInput {
	in := components.RoadmapInput{
		Phases: b.rc.Roadmap.Phases,
		Chart:  b.chartSlot(charts.RoadmapTimeline),
	}
	if nc := b.rc.NarrativeContent; nc != nil {
		in.Narrative = b.narrativeHTML(SectionRoadmap, "roadmap-narrative", nc.RoadmapNarrative)
	}
	return in
}

func (b *build) pmoInput() components.PMOInput {
	p := b.rc.PMORequirements
	if p == nil {
		return components.PMOInput{}
	}
	return components.PMOInput{
		Summary:    p.Summary,
		Roles:      p.Roles,
		Governance: p.Governance,
		Cadence:    p.Cadence,
		Budget:     p.Budget,
		Currency:   b.rc.FinancialImpact.Currency,
	}
}

// findingsInput groups findings by type. Unknown types follow the known
// groups in order of first appearance.
func (b *build) findingsInput() components.FindingsInput {
	byType := make(map[string][]components.FindingRow)
	var extra []string
	known := make(map[string]bool, len(findingGroups))
	for _, g := range findingGroups {
		known[g.Type] = true
	}

	for _, f := range b.rc.Findings {
		t := strings.ToLower(strings.TrimSpace(f.Type))
		if _, seen := byType[t]; !seen && !known[t] {
			extra = append(extra, t)
		}
		byType[t] = append(byType[t], findingRow(f))
	}

	var in components.FindingsInput
	for _, g := range findingGroups {
		if items := byType[g.Type]; len(items) > 0 {
			in.Groups = append(in.Groups, components.FindingGroup{Type: g.Type, Label: g.Label, Items: items})
		}
	}
	for _, t := range extra {
		label := format.Title(t)
		if t == "" {
			label = "Other Observations"
		}
		in.Groups = append(in.Groups, components.FindingGroup{Type: t, Label: label, Items: byType[t]})
	}
	return in
}

func (b *build) recommendationsInput() components.RecommendationsInput {
	names := b.dimensionNames()
	recs := b.rc.SortedRecommendations()
	in := components.RecommendationsInput{
		Items:    make([]components.RecommendationRow, 0, len(recs)),
		Currency: b.rc.FinancialImpact.Currency,
	}
	for i, r := range recs {
		dims := make([]string, 0, len(r.DimensionCodes))
		for _, code := range r.DimensionCodes {
			if n, ok := names[code]; ok {
				dims = append(dims, n)
			} else {
				dims = append(dims, code)
			}
		}
		in.Items = append(in.Items, components.RecommendationRow{
			Rank:        i + 1,
			Title:       r.Title,
			Description: r.Description,
			Horizon:     r.Horizon,
			Effort:      r.Effort,
			Impact:      r.Impact,
			Dimensions:  dims,
			Cost:        r.EstimatedCost,
			Value:       r.EstimatedValue,
		})
	}
	return in
}

func (b *build) quickWinsInput() components.QuickWinsInput {
	return components.QuickWinsInput{Items: b.rc.QuickWins}
}

func (b *build) financialImpactInput() components.FinancialImpactInput {
	fi := b.rc.FinancialImpact
	in := components.FinancialImpactInput{
		Currency:        fi.Currency,
		Items:           fi.Items,
		TotalInvestment: fi.TotalInvestment,
		ROI:             fi.ProjectedROI,
		HorizonMonths:   fi.HorizonMonths,
		Chart:           b.chartSlot(charts.FinancialImpact),
	}
	for _, it := range fi.Items {
		in.TotalSavings += it.ProjectedSavings
		in.TotalUpside += it.RevenueUpside
	}
	in.TotalBenefit = in.TotalSavings + in.TotalUpside
	return in
}

// financialProjectionInput spreads the annual benefit evenly across months and
// reports cumulative and net positions every quarter up to the horizon
func (b *build) financialProjectionInput() components.FinancialProjectionInput {
	fi := b.rc.FinancialImpact
	in := components.FinancialProjectionInput{
		Currency:   fi.Currency,
		Investment: fi.TotalInvestment,
	}

	annual := 0.0
	for _, it := range fi.Items {
		annual += it.Total()
	}
	if annual <= 0 {
		return in
	}

	horizon := fi.HorizonMonths
	if horizon <= 0 {
		horizon = defaultProjectionMonths
	}
	in.MonthlyBenefit = annual / 12

	for m := projectionStepMonths; m <= horizon; m += projectionStepMonths {
		cum := in.MonthlyBenefit * float64(m)
		in.Rows = append(in.Rows, components.ProjectionRow{Month: m, Cumulative: cum, Net: cum - in.Investment})
	}

	breakEven := 1
	if in.Investment > 0 {
		breakEven = int(math.Ceil(in.Investment / in.MonthlyBenefit))
	}
	if breakEven <= horizon {
		in.BreakEvenMonth = breakEven
	}
	return in
}

func (b *build) appendixInput() components.AppendixInput {
	rows := make([]components.ScoreRow, 0, len(b.rc.Dimensions))
	for _, d := range b.rc.Dimensions {
		rows = append(rows, dimensionRow(d))
	}
	return components.AppendixInput{Dimensions: rows}
}

func (b *build) implementationSummaryInput() components.ImplementationSummaryInput {
	s := b.rc.ImplementationSummary
	if s == nil {
		return components.ImplementationSummaryInput{}
	}
	return components.ImplementationSummaryInput{
		Summary:         s.Summary,
		TotalInvestment: s.TotalInvestment,
		ExpectedReturn:  s.ExpectedReturn,
		PaybackMonths:   s.PaybackMonths,
		NextSteps:       s.NextSteps,
		Currency:        b.rc.FinancialImpact.Currency,
	}
}

func (b *build) legalInput() legal.Input {
	in := legal.Input{
		CompanyName: b.rc.CompanyProfile.Name,
		RunID:       b.rc.RunID,
		Brand:       b.brand,
	}
	if b.rc.LegalAccess != nil {
		in.TermsVersion = b.rc.LegalAccess.TermsVersion
	}
	return in
}

func (b *build) footerInput() components.FooterInput {
	return components.FooterInput{
		CompanyName: b.rc.CompanyProfile.Name,
		ReportName:  consts.ReportNameComprehensive,
		PreparedOn:  b.preparedOn(),
		RunID:       b.rc.RunID,
		Version:     consts.Version,
		Year:        b.now.Year(),
	}
}

// dimensionNames maps dimension codes to display names
func (b *build) dimensionNames() map[string]string {
	names := make(map[string]string, len(b.rc.Dimensions))
	for _, d := range b.rc.Dimensions {
		names[d.Code] = d.Name
	}
	return names
}
