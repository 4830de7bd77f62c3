// Package charts renders the report's SVG charts. Each generator reads the slice
// of the report context it needs and returns a self-contained <svg> string.
// An empty string with a nil error means there was nothing to plot.
package charts

import (
	"context"
	"fmt"
	"math"

	"github.com/bizhealth/reportgen/internal/fragments/format"
	"github.com/bizhealth/reportgen/internal/model"
)

// ChartFunc renders one chart
type ChartFunc func(ctx context.Context, rc *model.ReportContext, brand model.Brand) (string, error)

// Chart identifiers
const (
	HealthGauge         = "health-gauge"
	ChapterScores       = "chapter-scores"
	DimensionBars       = "dimension-bars"
	CategoryRadar       = "category-radar"
	BenchmarkComparison = "benchmark-comparison"
	RiskMatrix          = "risk-matrix"
	RoadmapTimeline     = "roadmap-timeline"
	FinancialImpact     = "financial-impact"
)

// Chart is a named chart generator with its slot title
type Chart struct {
	ID     string
	Title  string
	Render ChartFunc
}

// Default returns the eight report charts in slot order
func Default() []Chart {
	return []Chart{
		{ID: HealthGauge, Title: "Overall Health Score", Render: RenderHealthGauge},
		{ID: ChapterScores, Title: "Chapter Scores", Render: RenderChapterScores},
		{ID: DimensionBars, Title: "Dimension Scores", Render: RenderDimensionBars},
		{ID: CategoryRadar, Title: "Category Balance", Render: RenderCategoryRadar},
		{ID: BenchmarkComparison, Title: "Benchmark Comparison", Render: RenderBenchmarkComparison},
		{ID: RiskMatrix, Title: "Risk Matrix", Render: RenderRiskMatrix},
		{ID: RoadmapTimeline, Title: "Roadmap Timeline", Render: RenderRoadmapTimeline},
		{ID: FinancialImpact, Title: "Financial Impact", Render: RenderFinancialImpact},
	}
}

// RenderHealthGauge draws a semicircular gauge of the overall health score
func RenderHealthGauge(ctx context.Context, rc *model.ReportContext, brand model.Brand) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	score := rc.OverallHealth.Score
	if math.IsNaN(score) || score < 0 || score > 100 {
		return "", fmt.Errorf("overall health score %v is outside 0-100", score)
	}
	band := format.NormalizeBand(rc.OverallHealth.Band, score)

	const cx, cy, r = 150.0, 150.0, 110.0
	c := newCanvas(300, 190, "Overall health score gauge")
	c.path(fmt.Sprintf("M %.1f %.1f A %.1f %.1f 0 0 1 %.1f %.1f", cx-r, cy, r, r, cx+r, cy), "none", gridColor, 22)
	if score > 0 {
		theta := math.Pi * (1 - score/100)
		ex, ey := cx+r*math.Cos(theta), cy-r*math.Sin(theta)
		c.path(fmt.Sprintf("M %.1f %.1f A %.1f %.1f 0 0 1 %.1f %.1f", cx-r, cy, r, r, ex, ey), "none", format.BandColor(band), 22)
	}
	c.text(cx, cy-18, format.Score(score), 44, "middle", brand.PrimaryColor, true)
	c.text(cx, cy+8, format.Title(band), 14, "middle", textColor, false)
	c.text(cx-r, cy+28, "0", 11, "middle", mutedColor, false)
	c.text(cx+r, cy+28, "100", 11, "middle", mutedColor, false)
	return c.String(), nil
}

// RenderChapterScores draws one horizontal bar per chapter
func RenderChapterScores(ctx context.Context, rc *model.ReportContext, brand model.Brand) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	chapters := orderedChapters(rc)
	if len(chapters) == 0 {
		return "", nil
	}

	const labelW, barMax, rowH, top = 190.0, 340.0, 38.0, 10.0
	h := int(top*2 + rowH*float64(len(chapters)))
	c := newCanvas(600, h, "Chapter scores")
	for i, ch := range chapters {
		y := top + float64(i)*rowH
		score := format.Clamp(ch.Score, 0, 100)
		name := ch.Name
		if name == "" {
			name = model.ChapterTitles[ch.Code]
		}
		c.text(labelW-10, y+20, truncate(name, 26), 13, "end", textColor, false)
		c.rect(labelW, y+6, barMax, 20, gridColor, ` rx="3"`)
		c.rect(labelW, y+6, barMax*score/100, 20, format.BandColor(format.NormalizeBand(ch.Band, score)), ` rx="3"`)
		c.text(labelW+barMax*score/100+8, y+21, format.Score(ch.Score), 12, "start", brand.PrimaryColor, true)
	}
	return c.String(), nil
}

// RenderDimensionBars draws a vertical bar per dimension
func RenderDimensionBars(ctx context.Context, rc *model.ReportContext, brand model.Brand) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dims := rc.Dimensions
	if len(dims) == 0 {
		return "", nil
	}

	const w, h = 640.0, 300.0
	const left, right, top, bottom = 40.0, 10.0, 15.0, 45.0
	plotW, plotH := w-left-right, h-top-bottom
	c := newCanvas(int(w), int(h), "Dimension scores")

	for _, tick := range []float64{0, 25, 50, 75, 100} {
		y := top + plotH*(1-tick/100)
		c.line(left, y, w-right, y, gridColor, 1, "")
		c.text(left-6, y+4, format.Score(tick), 10, "end", mutedColor, false)
	}

	slot := plotW / float64(len(dims))
	barW := slot * 0.6
	for i, d := range dims {
		score := format.Clamp(d.Score, 0, 100)
		x := left + slot*float64(i) + (slot-barW)/2
		bh := plotH * score / 100
		c.rect(x, top+plotH-bh, barW, bh, format.BandColor(format.NormalizeBand(d.Band, score)), "")
		label := d.Code
		if label == "" {
			label = d.Name
		}
		c.text(x+barW/2, h-bottom+16, truncate(label, 6), 10, "middle", textColor, false)
	}
	c.line(left, top+plotH, w-right, top+plotH, brand.PrimaryColor, 1.5, "")
	return c.String(), nil
}

// RenderCategoryRadar draws a radar of category scores, falling back to chapter
// scores when fewer than three categories were analyzed
func RenderCategoryRadar(ctx context.Context, rc *model.ReportContext, brand model.Brand) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	type axis struct {
		label string
		score float64
	}
	var axes []axis
	if len(rc.CategoryAnalyses) >= 3 {
		for _, ca := range rc.CategoryAnalyses {
			axes = append(axes, axis{label: ca.Name, score: ca.Score})
		}
	} else {
		for _, ch := range orderedChapters(rc) {
			axes = append(axes, axis{label: ch.Name, score: ch.Score})
		}
	}
	if len(axes) < 3 {
		return "", nil
	}

	const cx, cy, r = 220.0, 200.0, 140.0
	c := newCanvas(440, 400, "Category balance radar")
	n := float64(len(axes))
	vertex := func(i int, frac float64) point {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/n
		return point{x: cx + r*frac*math.Cos(angle), y: cy + r*frac*math.Sin(angle)}
	}

	for _, ring := range []float64{0.25, 0.5, 0.75, 1} {
		pts := make([]point, len(axes))
		for i := range axes {
			pts[i] = vertex(i, ring)
		}
		c.polygon(pts, "none", gridColor, 0)
	}

	values := make([]point, len(axes))
	for i, a := range axes {
		end := vertex(i, 1)
		c.line(cx, cy, end.x, end.y, gridColor, 1, "")
		values[i] = vertex(i, format.Clamp(a.score, 0, 100)/100)

		lp := vertex(i, 1.15)
		anchor := "middle"
		switch {
		case lp.x < cx-5:
			anchor = "end"
		case lp.x > cx+5:
			anchor = "start"
		}
		c.text(lp.x, lp.y+4, truncate(a.label, 22), 11, anchor, textColor, false)
	}
	c.polygon(values, brand.AccentColor, brand.PrimaryColor, 0.35)
	for _, v := range values {
		c.circle(v.x, v.y, 3.5, brand.PrimaryColor, "")
	}
	return c.String(), nil
}

// RenderBenchmarkComparison draws paired bars of chapter score versus benchmark
func RenderBenchmarkComparison(ctx context.Context, rc *model.ReportContext, brand model.Brand) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	type pair struct {
		label     string
		score     float64
		benchmark float64
	}
	var pairs []pair
	for _, ch := range orderedChapters(rc) {
		if b, ok := ch.BenchmarkValue(); ok {
			pairs = append(pairs, pair{label: ch.Name, score: ch.Score, benchmark: b})
		}
	}
	if len(pairs) == 0 {
		return "", nil
	}

	const labelW, barMax, rowH, top = 190.0, 320.0, 46.0, 30.0
	h := int(top + rowH*float64(len(pairs)) + 10)
	c := newCanvas(600, h, "Chapter scores compared with benchmarks")
	c.rect(labelW, 8, 12, 12, brand.PrimaryColor, "")
	c.text(labelW+18, 18, "Your score", 11, "start", textColor, false)
	c.rect(labelW+110, 8, 12, 12, brand.AccentColor, "")
	c.text(labelW+128, 18, "Benchmark", 11, "start", textColor, false)

	for i, p := range pairs {
		y := top + float64(i)*rowH
		s, b := format.Clamp(p.score, 0, 100), format.Clamp(p.benchmark, 0, 100)
		c.text(labelW-10, y+20, truncate(p.label, 26), 13, "end", textColor, false)
		c.rect(labelW, y+4, barMax*s/100, 15, brand.PrimaryColor, "")
		c.text(labelW+barMax*s/100+6, y+16, format.Score(p.score), 11, "start", textColor, false)
		c.rect(labelW, y+21, barMax*b/100, 15, brand.AccentColor, "")
		c.text(labelW+barMax*b/100+6, y+33, format.Score(p.benchmark), 11, "start", textColor, false)
	}
	return c.String(), nil
}

// RenderRiskMatrix draws a 5x5 likelihood by impact heat map with risk counts
func RenderRiskMatrix(ctx context.Context, rc *model.ReportContext, brand model.Brand) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(rc.Risks) == 0 {
		return "", nil
	}

	var counts [5][5]int
	for _, r := range rc.Risks {
		l, i := clampLevel(r.Likelihood), clampLevel(r.Impact)
		counts[l-1][i-1]++
	}

	const cell, left, top = 60.0, 60.0, 20.0
	c := newCanvas(400, 390, "Risk matrix")
	for l := 1; l <= 5; l++ {
		for i := 1; i <= 5; i++ {
			x := left + float64(l-1)*cell
			y := top + float64(5-i)*cell
			c.rect(x, y, cell-2, cell-2, exposureColor(l*i), ` fill-opacity="0.85"`)
			if n := counts[l-1][i-1]; n > 0 {
				c.circle(x+cell/2-1, y+cell/2-1, 15, "#ffffff", ` fill-opacity="0.9"`)
				c.text(x+cell/2-1, y+cell/2+4, fmt.Sprintf("%d", n), 14, "middle", brand.PrimaryColor, true)
			}
		}
	}
	for k := 1; k <= 5; k++ {
		c.text(left+float64(k-1)*cell+cell/2, top+5*cell+16, fmt.Sprintf("%d", k), 11, "middle", textColor, false)
		c.text(left-10, top+float64(5-k)*cell+cell/2+4, fmt.Sprintf("%d", k), 11, "end", textColor, false)
	}
	c.text(left+2.5*cell, top+5*cell+40, "Likelihood", 12, "middle", textColor, true)
	c.text(18, top+2.5*cell, "Impact", 12, "middle", textColor, true)
	return c.String(), nil
}

// RenderRoadmapTimeline draws roadmap phases as consecutive blocks
func RenderRoadmapTimeline(ctx context.Context, rc *model.ReportContext, brand model.Brand) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	phases := rc.Roadmap.Phases
	if len(phases) == 0 {
		return "", nil
	}

	const w, left, top, blockH = 640.0, 10.0, 20.0, 70.0
	c := newCanvas(int(w), 130, "Roadmap timeline")
	blockW := (w - 2*left) / float64(len(phases))
	c.line(left, top+blockH+18, w-left, top+blockH+18, mutedColor, 2, "")
	for i, p := range phases {
		x := left + float64(i)*blockW
		fill := brand.PrimaryColor
		if i%2 == 1 {
			fill = brand.AccentColor
		}
		c.rect(x+2, top, blockW-4, blockH, fill, ` rx="6"`)
		c.text(x+blockW/2, top+28, truncate(fmt.Sprintf("%d. %s", i+1, p.Name), 24), 13, "middle", "#ffffff", true)
		c.text(x+blockW/2, top+50, truncate(p.Timeframe, 26), 11, "middle", "#ffffff", false)
		c.circle(x+blockW/2, top+blockH+18, 5, fill, "")
	}
	return c.String(), nil
}

// RenderFinancialImpact draws stacked savings and revenue-upside bars per area
func RenderFinancialImpact(ctx context.Context, rc *model.ReportContext, brand model.Brand) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fi := rc.FinancialImpact
	if len(fi.Items) == 0 {
		return "", nil
	}

	maxTotal := 0.0
	for _, it := range fi.Items {
		if it.ProjectedSavings < 0 || it.RevenueUpside < 0 {
			return "", fmt.Errorf("financial impact item %q has a negative projection", it.Area)
		}
		maxTotal = math.Max(maxTotal, it.Total())
	}
	if maxTotal == 0 {
		return "", nil
	}

	const labelW, barMax, rowH, top = 190.0, 300.0, 34.0, 30.0
	h := int(top + rowH*float64(len(fi.Items)) + 10)
	c := newCanvas(620, h, "Financial impact by area")
	c.rect(labelW, 8, 12, 12, brand.PrimaryColor, "")
	c.text(labelW+18, 18, "Savings", 11, "start", textColor, false)
	c.rect(labelW+90, 8, 12, 12, brand.AccentColor, "")
	c.text(labelW+108, 18, "Revenue upside", 11, "start", textColor, false)

	for i, it := range fi.Items {
		y := top + float64(i)*rowH
		sw := barMax * it.ProjectedSavings / maxTotal
		uw := barMax * it.RevenueUpside / maxTotal
		c.text(labelW-10, y+17, truncate(it.Area, 26), 12, "end", textColor, false)
		c.rect(labelW, y+4, sw, 20, brand.PrimaryColor, "")
		c.rect(labelW+sw, y+4, uw, 20, brand.AccentColor, "")
		c.text(labelW+sw+uw+6, y+18, format.CompactCurrency(it.Total(), fi.Currency), 11, "start", textColor, false)
	}
	return c.String(), nil
}

// orderedChapters returns known chapters in GE, PH, PL, RS order followed by
// any others in input order
func orderedChapters(rc *model.ReportContext) []model.Chapter {
	out := make([]model.Chapter, 0, len(rc.Chapters))
	seen := make(map[int]bool, len(rc.Chapters))
	for _, code := range model.ChapterOrder {
		for i, ch := range rc.Chapters {
			if ch.Code == code && !seen[i] {
				out = append(out, ch)
				seen[i] = true
				break
			}
		}
	}
	for i, ch := range rc.Chapters {
		if !seen[i] {
			out = append(out, ch)
		}
	}
	return out
}

func clampLevel(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

func exposureColor(exposure int) string {
	switch {
	case exposure >= 15:
		return "#c0392b"
	case exposure >= 8:
		return "#e0a21b"
	default:
		return "#4c9a2a"
	}
}
