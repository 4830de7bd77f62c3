package report

import (
	"fmt"
	"html"

	"github.com/bizhealth/reportgen/consts"
	"github.com/bizhealth/reportgen/internal/model"
)

// documentInput is what the page shell needs around the assembled sections
type documentInput struct {
	Title       string
	CompanyName string
	RunID       string
	GeneratedAt string
	Brand       model.Brand
	Body        string
}

// renderDocument wraps the section body in a self-contained HTML page.
// Brand must already be normalized; its colors are interpolated into CSS.
func renderDocument(in documentInput) string {
	title := in.Title
	if in.CompanyName != "" {
		title = in.CompanyName + " | " + in.Title
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta name="generator" content="%s %s">
    <meta name="report-run-id" content="%s">
    <meta name="report-generated-at" content="%s">
    <title>%s</title>
    <style>
:root {
    --brand-primary: %s;
    --brand-accent: %s;
}
%s
    </style>
</head>
<body class="report">
<main class="report-body">
%s
</main>
</body>
</html>
`,
		consts.ProjectName, html.EscapeString(consts.Version),
		html.EscapeString(in.RunID),
		html.EscapeString(in.GeneratedAt),
		html.EscapeString(title),
		in.Brand.PrimaryColor,
		in.Brand.AccentColor,
		reportCSS,
		in.Body,
	)
}

// reportCSS styles every fragment the assembler emits. Print rules keep chapters
// on fresh pages for the PDF export.
const reportCSS = `
* { box-sizing: border-box; }
body.report {
    margin: 0;
    font-family: "Helvetica Neue", Helvetica, Arial, sans-serif;
    font-size: 15px;
    line-height: 1.6;
    color: #1f2937;
    background: #f8fafc;
}
.report-body { max-width: 960px; margin: 0 auto; background: #ffffff; }
.report-section, .bluf, .relationship-statement, .toc, .legal-accordion { padding: 32px 48px; }
.section-title {
    color: var(--brand-primary);
    border-bottom: 2px solid var(--brand-accent);
    padding-bottom: 6px;
    margin-top: 0;
}
h3 { color: var(--brand-primary); }

/* Cover and header */
.cover-page { color: #ffffff; min-height: 640px; display: flex; align-items: center; padding: 64px 48px; }
.cover-kicker { text-transform: uppercase; letter-spacing: 0.12em; opacity: 0.85; }
.cover-company { font-size: 44px; margin: 8px 0 16px; }
.cover-score { display: inline-flex; flex-direction: column; background: rgba(255,255,255,0.12); padding: 16px 24px; border-radius: 8px; }
.cover-score-value { font-size: 56px; font-weight: bold; line-height: 1; }
.report-header { display: flex; justify-content: space-between; flex-wrap: wrap; gap: 12px; padding: 12px 48px; font-size: 13px; color: #4b5563; }
.report-header-title { font-weight: bold; color: var(--brand-primary); }

/* Table of contents */
.toc-list { columns: 2; padding-left: 20px; }
.toc-list a { color: var(--brand-primary); text-decoration: none; }

/* BLUF and summary */
.bluf { background: #f1f5f9; border-left: 6px solid var(--brand-accent); }
.headline-insight { font-size: 18px; font-weight: bold; }
.summary-columns { display: grid; grid-template-columns: 1fr 1fr; gap: 24px; }

/* Bands */
.band-pill { display: inline-block; padding: 2px 10px; border-radius: 12px; font-size: 12px; color: #ffffff; background: #6b7280; }
.band-pill.band-excellent, td.band-excellent { background: #1b7f3b; }
.band-pill.band-good, td.band-good { background: #4c9a2a; }
.band-pill.band-fair, td.band-fair { background: #d9a400; }
.band-pill.band-poor, td.band-poor { background: #e0701b; }
.band-pill.band-critical, td.band-critical { background: #c0392b; }
td.band-excellent, td.band-good, td.band-fair, td.band-poor, td.band-critical { color: #ffffff; }

/* Tables */
table { width: 100%; border-collapse: collapse; margin: 16px 0; font-size: 14px; }
th { background: var(--brand-primary); color: #ffffff; text-align: left; padding: 8px; }
td { border-bottom: 1px solid #e5e7eb; padding: 8px; vertical-align: top; }
.dimension-desc { font-size: 12px; color: #6b7280; }
.net-negative { color: #c0392b; }
.net-positive { color: #1b7f3b; }

/* Charts */
.viz-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 24px; }
.viz-block { break-inside: avoid; }
.viz-header { font-size: 15px; margin-bottom: 8px; }
.chart-container svg { max-width: 100%; height: auto; }

/* Cards */
.category-grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(160px, 1fr)); gap: 16px; }
.category-card, .insight-card, .recommendation, .roadmap-phase, .finding {
    border: 1px solid #e5e7eb;
    border-radius: 6px;
    padding: 12px 16px;
    margin-bottom: 12px;
}
.category-score { font-size: 28px; font-weight: bold; display: block; }
.finding-strength { border-left: 4px solid #1b7f3b; }
.finding-gap { border-left: 4px solid #d9a400; }
.finding-risk { border-left: 4px solid #c0392b; }
.rec-rank {
    display: inline-block;
    width: 28px;
    height: 28px;
    border-radius: 50%;
    background: var(--brand-accent);
    color: #ffffff;
    text-align: center;
    line-height: 28px;
}
.rec-meta, .quick-win-meta, .phase-timeframe, .insight-categories { color: #6b7280; font-size: 13px; }
.empty-state { color: #6b7280; font-style: italic; }

/* Narrative */
.narrative p { margin: 0 0 12px; }
.narrative table { font-size: 13px; }

/* Diagrams replaced from ASCII art */
.diagram-flow { border-left: 4px solid var(--brand-primary); padding: 12px 16px; margin: 16px 0; background: #f8fafc; }
.flow-steps { margin: 0; padding-left: 20px; }
.flow-steps li { border-left: 3px solid var(--brand-accent); padding: 4px 8px; margin: 6px 0; list-style-position: inside; }

/* Legal */
body.report-locked .report-body > *:not(#clickwrap-modal) { filter: blur(6px); pointer-events: none; user-select: none; }
.clickwrap-modal { position: fixed; inset: 0; background: rgba(15, 23, 42, 0.55); display: flex; align-items: center; justify-content: center; z-index: 1000; }
.clickwrap-dialog { background: #ffffff; max-width: 520px; padding: 24px 32px; border-radius: 8px; }
.clickwrap-accept { color: #ffffff; border: 0; padding: 10px 18px; border-radius: 4px; cursor: pointer; }
.clickwrap-accept:disabled { opacity: 0.5; cursor: not-allowed; }
.acceptance-banner { background: #f1f5f9; padding: 10px 48px; font-size: 13px; }
.legal-term summary { cursor: pointer; font-weight: bold; padding: 6px 0; }
.legal-version { font-size: 12px; color: #6b7280; }

/* Footer */
.report-footer { padding: 24px 48px; font-size: 12px; color: #6b7280; border-top: 1px solid #e5e7eb; }

@media print {
    body.report { background: #ffffff; }
    .report-body { max-width: none; }
    .clickwrap-modal, .acceptance-banner { display: none; }
    body.report-locked .report-body > * { filter: none; }
    .chapter, .appendix, .financial-impact { page-break-before: always; }
    .cover-page { page-break-after: always; }
}
`
