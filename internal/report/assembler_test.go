package report

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bizhealth/reportgen/internal/fragments/charts"
	"github.com/bizhealth/reportgen/internal/model"
	"github.com/bizhealth/reportgen/pkg/errors"
	"github.com/bizhealth/reportgen/pkg/logger"
)

func TestBuild_WritesBothFiles(t *testing.T) {
	opts := renderOptions(t)
	report, html := buildReport(t, acmeContext(), opts)

	assert.Equal(t, "comprehensive", report.ReportType)
	assert.Equal(t, "Comprehensive Business Health Report", report.ReportName)
	assert.Equal(t, filepath.Join(opts.OutputDir, "comprehensive.html"), report.HTMLPath)
	assert.Equal(t, filepath.Join(opts.OutputDir, "comprehensive.meta.json"), report.MetaPath)
	assert.Equal(t, "2025-03-14T09:26:53.589Z", report.GeneratedAt)
	assert.Equal(t, len(html), report.HTMLBytes)
	assert.FileExists(t, report.MetaPath)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<title>Acme Co | Comprehensive Business Health Report</title>")
	assert.Contains(t, html, "--brand-primary: #212172;")
}

func TestBuild_Deterministic(t *testing.T) {
	rc := fullContext()

	first, firstHTML := buildReport(t, rc, renderOptions(t))
	second, secondHTML := buildReport(t, rc, renderOptions(t))

	assert.Equal(t, firstHTML, secondHTML)

	firstMeta, err := os.ReadFile(first.MetaPath)
	require.NoError(t, err)
	secondMeta, err := os.ReadFile(second.MetaPath)
	require.NoError(t, err)
	assert.Equal(t, string(firstMeta), string(secondMeta))
}

func TestBuild_DeterministicExceptTimestamp(t *testing.T) {
	rc := fullContext()
	opts := renderOptions(t)

	first, err := NewAssembler(WithClock(fixedClock)).Build(context.Background(), rc, opts)
	require.NoError(t, err)
	firstMeta := readMeta(t, first.MetaPath)

	later := func() time.Time { return fixedTime.Add(90 * time.Second) }
	second, err := NewAssembler(WithClock(later)).Build(context.Background(), rc, opts)
	require.NoError(t, err)
	secondMeta := readMeta(t, second.MetaPath)

	assert.NotEqual(t, firstMeta.GeneratedAt, secondMeta.GeneratedAt)
	firstMeta.GeneratedAt, secondMeta.GeneratedAt = "", ""
	assert.Equal(t, firstMeta, secondMeta)
}

func TestBuild_ConditionalSections(t *testing.T) {
	tests := []struct {
		name         string
		drop         func(rc *model.ReportContext)
		tocEntry     string
		sectionsGone []string
	}{
		{
			name:         "category analyses",
			drop:         func(rc *model.ReportContext) { rc.CategoryAnalyses = nil },
			tocEntry:     SectionCategoryOverview,
			sectionsGone: []string{SectionCategoryOverview, SectionCategoryDeepDives},
		},
		{
			name:         "empty category analyses",
			drop:         func(rc *model.ReportContext) { rc.CategoryAnalyses = []model.CategoryAnalysis{} },
			tocEntry:     SectionCategoryOverview,
			sectionsGone: []string{SectionCategoryOverview, SectionCategoryDeepDives},
		},
		{
			name:         "cross-category insights",
			drop:         func(rc *model.ReportContext) { rc.CrossCategoryInsights = nil },
			tocEntry:     SectionCrossCategory,
			sectionsGone: []string{SectionCrossCategory},
		},
		{
			name:         "cross-dimensional synthesis",
			drop:         func(rc *model.ReportContext) { rc.CrossDimensionalSynthesis = nil },
			tocEntry:     SectionInterdependency,
			sectionsGone: []string{SectionInterdependency, SectionCrossDimensional},
		},
		{
			name:         "pmo requirements",
			drop:         func(rc *model.ReportContext) { rc.PMORequirements = nil },
			tocEntry:     SectionPMO,
			sectionsGone: []string{SectionPMO},
		},
		{
			name:         "implementation summary",
			drop:         func(rc *model.ReportContext) { rc.ImplementationSummary = nil },
			tocEntry:     SectionImplementationSummary,
			sectionsGone: []string{SectionImplementationSummary},
		},
	}

	full, fullHTML := buildReport(t, fullContext(), renderOptions(t))
	fullTOC := tocIDs(full.Sections)
	fullSections := sectionIDs(fullHTML)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := fullContext()
			tt.drop(rc)
			report, html := buildReport(t, rc, renderOptions(t))

			assert.Contains(t, fullTOC, tt.tocEntry)
			assert.Equal(t, without(fullTOC, tt.tocEntry), tocIDs(report.Sections))
			assert.NotContains(t, html, `href="#`+tt.tocEntry+`"`)

			for _, id := range tt.sectionsGone {
				assert.Contains(t, fullSections, id)
			}
			assert.Equal(t, without(fullSections, tt.sectionsGone...), sectionIDs(html))
		})
	}
}

func TestBuild_SectionOrder(t *testing.T) {
	_, html := buildReport(t, fullContext(), renderOptions(t))

	want := []string{
		SectionCover, SectionHeader, SectionRelationship, SectionTOC, SectionBLUF,
		SectionExecutiveSummary, SectionCategoryOverview, SectionScorecard,
		"chapter-ge", "chapter-ph", "chapter-pl", "chapter-rs",
		SectionCrossCategory, SectionCategoryDeepDives, SectionInterdependency, SectionCrossDimensional,
		SectionRiskAssessment, SectionRoadmap, SectionPMO, SectionFindings, SectionRecommendations,
		SectionQuickWins, SectionFinancialImpact, SectionFinancialProjection, SectionAppendixA,
		SectionImplementationSummary, SectionLegalTerms, SectionFooter,
	}
	assert.Equal(t, want, sectionIDs(html))

	// The legal notice sits between the relationship statement and the TOC
	modal := strings.Index(html, `id="clickwrap-modal"`)
	assert.Less(t, strings.Index(html, `id="relationship"`), modal)
	assert.Less(t, modal, strings.Index(html, `id="table-of-contents"`))
}

func TestBuild_FailedSectionLeavesTOC(t *testing.T) {
	a := NewAssembler(WithClock(fixedClock))
	failSection(a, SectionRiskAssessment)

	report, err := a.Build(context.Background(), fullContext(), renderOptions(t))
	require.NoError(t, err)
	data, err := os.ReadFile(report.HTMLPath)
	require.NoError(t, err)
	html := string(data)

	require.Len(t, report.Warnings, 1)
	assert.Equal(t, SectionRiskAssessment, report.Warnings[0].Fragment)
	assert.NotContains(t, html, `id="risk-assessment"`)
	assert.NotContains(t, tocIDs(report.Sections), SectionRiskAssessment)
	assert.Equal(t, tocLinks(html), report.Sections)

	// Every TOC link still resolves to an anchor in the body
	for _, e := range report.Sections {
		assert.Contains(t, html, `id="`+e.ID+`"`, e.ID)
	}
}

func TestBuild_BackticksAcrossFields(t *testing.T) {
	rc := acmeContext()
	rc.Risks[0].Mitigation = "Hedge with ``` contracts"
	rc.Recommendations[0].Description = "Route lead -> invoice --> cash"
	rc.QuickWins[0].Description = "Close the books ``` weekly"

	report, html := buildReport(t, rc, renderOptions(t))
	baseline, baseHTML := buildReport(t, acmeContext(), renderOptions(t))

	assert.Equal(t, 0, report.Sanitization.ASCIIBlocksReplaced)
	assert.Equal(t, sectionIDs(baseHTML), sectionIDs(html))
	assert.Equal(t, baseline.Sections, report.Sections)
	for _, id := range []string{SectionRiskAssessment, SectionRoadmap, SectionFindings, SectionRecommendations, SectionQuickWins} {
		assert.Contains(t, html, `id="`+id+`"`, id)
	}
	assert.Contains(t, html, "Hedge with ``` contracts")
	assert.Contains(t, html, "Close the books ``` weekly")
}

func TestBuild_TOCToggle(t *testing.T) {
	opts := renderOptions(t)
	opts.IncludeTOC = false

	report, html := buildReport(t, acmeContext(), opts)
	assert.NotContains(t, html, `id="table-of-contents"`)
	// Metadata still lists the sections the TOC would have shown
	assert.NotEmpty(t, report.Sections)
}

func TestBuild_FanOutIsolation(t *testing.T) {
	for _, c := range charts.Default() {
		t.Run(c.ID, func(t *testing.T) {
			report, html := buildReport(t, fullContext(), renderOptions(t), WithCharts(replaceChart(c.ID, failingChart)))

			require.Len(t, report.Warnings, 1)
			assert.Equal(t, "chart:"+c.ID, report.Warnings[0].Fragment)
			assert.Contains(t, report.Warnings[0].Message, "renderer exploded")

			// The failed slot's header is stripped with its empty container
			assert.NotContains(t, html, `<h3 class="viz-header">`+c.Title+`</h3>`)
			assert.Contains(t, report.Sanitization.RemovedHeaders, c.Title)

			// Every other chart still rendered
			for _, other := range charts.Default() {
				if other.ID == c.ID {
					continue
				}
				assert.Contains(t, html, `<h3 class="viz-header">`+other.Title+`</h3><div class="chart-container"><svg `, other.ID)
			}
		})
	}
}

func TestBuild_PanickingChart(t *testing.T) {
	boom := func(context.Context, *model.ReportContext, model.Brand) (string, error) {
		panic("nil map")
	}

	report, _ := buildReport(t, fullContext(), renderOptions(t), WithCharts(replaceChart(charts.RiskMatrix, boom)))

	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "chart:"+charts.RiskMatrix, report.Warnings[0].Fragment)
	assert.Contains(t, report.Warnings[0].Message, "nil map")
	assert.True(t, report.Degraded())
}

func TestBuild_MetaConsistency(t *testing.T) {
	report, html := buildReport(t, fullContext(), renderOptions(t))
	meta := readMeta(t, report.MetaPath)

	assert.Equal(t, report.Sections, meta.Sections)
	assert.Equal(t, tocLinks(html), meta.Sections)
	assert.Equal(t, 72.0, meta.HealthScore)
	assert.Equal(t, "good", meta.HealthBand)
	assert.Equal(t, int(math.Ceil(float64(len(utf16.Encode([]rune(html))))/3000)), meta.PageSuggestionEstimate)
	assert.Equal(t, "run-acme-001", meta.RunID)
	assert.Equal(t, "Acme Co", meta.CompanyName)
	assert.Equal(t, model.DefaultBrand(), meta.Brand)
	assert.Equal(t, report.GeneratedAt, meta.GeneratedAt)
}

func TestBuild_MetaKeys(t *testing.T) {
	report, _ := buildReport(t, acmeContext(), renderOptions(t))

	data, err := os.ReadFile(report.MetaPath)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{
		"reportType", "reportName", "generatedAt", "companyName", "runId", "healthScore",
		"healthBand", "pageSuggestionEstimate", "sections", "brand",
	}, keys)
}

func TestBuild_BetaModeToggle(t *testing.T) {
	tests := []struct {
		name    string
		access  *model.LegalAccess
		visible bool
	}{
		{name: "absent", access: nil, visible: true},
		{name: "disabled", access: &model.LegalAccess{BetaDisableBlur: false}, visible: true},
		{name: "beta", access: &model.LegalAccess{BetaDisableBlur: true}, visible: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := acmeContext()
			rc.LegalAccess = tt.access
			_, html := buildReport(t, rc, renderOptions(t))

			for _, marker := range []string{`id="clickwrap-modal"`, `id="acceptance-banner"`, `id="legal-terms"`} {
				if tt.visible {
					assert.Contains(t, html, marker)
				} else {
					assert.NotContains(t, html, marker)
				}
			}
		})
	}
}

func TestBuild_AcmeScenario(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	defer logger.Replace(zap.New(core))()

	report, html := buildReport(t, acmeContext(), renderOptions(t))

	toc := tocIDs(report.Sections)
	assert.NotContains(t, toc, SectionCategoryOverview)
	assert.NotContains(t, toc, SectionPMO)
	assert.NotContains(t, html, "Category Health Overview")
	assert.NotContains(t, html, "PMO Establishment Requirements")

	assert.Contains(t, html, `data-source="structured"`)
	assert.Contains(t, html, "Acme Co is stable with concentrated revenue risk.")
	assert.NotContains(t, html, "This text must not be used.")

	assert.FileExists(t, report.HTMLPath)
	assert.FileExists(t, report.MetaPath)
	meta := readMeta(t, report.MetaPath)
	assert.Equal(t, 72.0, meta.HealthScore)
	assert.Equal(t, "good", meta.HealthBand)

	assert.Equal(t, 1, logs.FilterMessageSnippet("Narrative content unavailable").Len())
	assert.Empty(t, report.Warnings)
}

func TestBuild_NarrativeAvailable(t *testing.T) {
	rc := acmeContext()
	rc.NarrativeContent = &model.NarrativeContent{
		Metadata:         &model.NarrativeMetadata{ContentSufficient: true},
		BLUF:             "Acme is **healthy** but concentrated.",
		ExecutiveSummary: "Narrative overview of Acme.",
		Chapters: map[string]string{
			"GE": "## Growth\n\nGrowth narrative.",
			"ZZ": "Chapter that does not exist.",
		},
		RiskNarrative: "Risk narrative <script>alert(1)</script>",
	}

	_, html := buildReport(t, rc, renderOptions(t))

	assert.Contains(t, html, `data-source="narrative"`)
	assert.Contains(t, html, "Narrative overview of Acme.")
	assert.NotContains(t, html, "Acme Co is stable with concentrated revenue risk.")
	assert.Contains(t, html, "<strong>healthy</strong>")
	assert.Contains(t, html, "<h4>Growth</h4>")
	assert.NotContains(t, html, "Chapter that does not exist.")
	assert.Contains(t, html, "Risk narrative")
	assert.NotContains(t, html, "<script>alert(1)</script>")
}

func TestBuild_ASCIIDiagramInNarrative(t *testing.T) {
	rc := acmeContext()
	rc.NarrativeContent = &model.NarrativeContent{
		Metadata: &model.NarrativeMetadata{ContentSufficient: true},
		RoadmapNarrative: "The plan:\n\n```\n" +
			"+---------+     +-------+\n" +
			"| Assess  | --> | Build |\n" +
			"+---------+     +-------+\n" +
			"```\n",
	}

	report, html := buildReport(t, rc, renderOptions(t))

	assert.Equal(t, 1, report.Sanitization.ASCIIBlocksReplaced)
	assert.Contains(t, html, `<div class="diagram-flow"`)
	assert.Contains(t, html, ">Assess</li>")
	assert.NotContains(t, html, "+---------+")
}

func TestBuild_EmptyContext(t *testing.T) {
	report, html := buildReport(t, &model.ReportContext{}, renderOptions(t))

	for _, code := range model.ChapterOrder {
		assert.Contains(t, html, `id="`+ChapterAnchor(code)+`"`)
	}
	assert.Contains(t, html, "No scoring data was provided for this chapter.")
	assert.Contains(t, html, "No findings were recorded.")
	assert.Empty(t, report.Warnings)
	// Seven charts have nothing to plot; only the gauge renders
	assert.Equal(t, 7, report.Sanitization.OrphanHeadersRemoved)
}

func TestBuild_Errors(t *testing.T) {
	a := NewAssembler(WithClock(fixedClock))

	_, err := a.Build(context.Background(), nil, renderOptions(t))
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))

	_, err = a.Build(context.Background(), acmeContext(), model.RenderOptions{})
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))

	// Output directory path occupied by a regular file
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	_, err = a.Build(context.Background(), acmeContext(), model.RenderOptions{OutputDir: blocker})
	assert.True(t, errors.HasCode(err, errors.ErrCodeWrite))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Build(ctx, acmeContext(), renderOptions(t))
	assert.True(t, errors.HasCode(err, errors.ErrCodeRender))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuild_OverwritesPreviousOutput(t *testing.T) {
	opts := renderOptions(t)

	_, _ = buildReport(t, acmeContext(), opts)
	rc := acmeContext()
	rc.CompanyProfile.Name = "Beta LLC"
	report, html := buildReport(t, rc, opts)

	assert.Contains(t, html, "Beta LLC")
	assert.NotContains(t, html, "Acme Co |")
	assert.Equal(t, "Beta LLC", readMeta(t, report.MetaPath).CompanyName)
}

func TestBuild_InvalidBrandFallsBack(t *testing.T) {
	opts := renderOptions(t)
	opts.Brand = model.Brand{PrimaryColor: "red;}</style><script>", AccentColor: "#0a0"}

	report, html := buildReport(t, acmeContext(), opts)

	assert.NotContains(t, html, "</style><script>")
	assert.Contains(t, html, "--brand-primary: #212172;")
	assert.Contains(t, html, "--brand-accent: #0a0;")
	assert.Equal(t, "#212172", readMeta(t, report.MetaPath).Brand.PrimaryColor)
}

func TestPageEstimate(t *testing.T) {
	assert.Equal(t, 0, PageEstimate(""))
	assert.Equal(t, 1, PageEstimate("a"))
	assert.Equal(t, 1, PageEstimate(strings.Repeat("a", 3000)))
	assert.Equal(t, 2, PageEstimate(strings.Repeat("a", 3001)))
	assert.Equal(t, 1, PageEstimate(strings.Repeat("é", 3000)))
	// Astral characters are two UTF-16 code units each
	assert.Equal(t, 1, PageEstimate(strings.Repeat("📈", 1500)))
	assert.Equal(t, 2, PageEstimate(strings.Repeat("📈", 1501)))
	assert.Equal(t, 2, PageEstimate(strings.Repeat("a", 2999)+"📈"))
}

func readMeta(t *testing.T, path string) *model.ReportMeta {
	t.Helper()
	meta, err := ReadMeta(path)
	require.NoError(t, err)
	return meta
}

// tocLinks parses the rendered table of contents back into entries
func tocLinks(html string) []model.TOCEntry {
	start := strings.Index(html, `<nav id="table-of-contents"`)
	if start < 0 {
		return nil
	}
	end := strings.Index(html[start:], "</nav>")
	nav := html[start : start+end]

	var entries []model.TOCEntry
	for _, line := range strings.Split(nav, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, `<li><a href="#`) {
			continue
		}
		rest := strings.TrimPrefix(line, `<li><a href="#`)
		id, title, _ := strings.Cut(rest, `">`)
		title = strings.TrimSuffix(title, "</a></li>")
		entries = append(entries, model.TOCEntry{ID: id, Title: unescape(title)})
	}
	return entries
}

func unescape(s string) string {
	return strings.NewReplacer("&amp;", "&", "&#39;", "'", "&lt;", "<", "&gt;", ">").Replace(s)
}

func without(list []string, drop ...string) []string {
	var out []string
	for _, s := range list {
		skip := false
		for _, d := range drop {
			if s == d {
				skip = true
			}
		}
		if !skip {
			out = append(out, s)
		}
	}
	return out
}
