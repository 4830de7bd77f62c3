package components

// chartSlotTemplate must stay on one line: the orphan-header pass matches
// this exact viz-header / chart-container shape.
const chartSlotTemplate = `<div class="viz-block"><h3 class="viz-header">{{.Title}}</h3><div class="chart-container">{{.SVG}}</div></div>`

var componentTemplates = map[string]string{
	"cover":                 coverTemplate,
	"header":                headerTemplate,
	"relationship":          relationshipTemplate,
	"toc":                   tocTemplate,
	"bluf":                  blufTemplate,
	"executiveSummary":      executiveSummaryTemplate,
	"categoryOverview":      categoryOverviewTemplate,
	"scorecard":             scorecardTemplate,
	"chapter":               chapterTemplate,
	"crossCategory":         crossCategoryTemplate,
	"categoryDeepDives":     categoryDeepDivesTemplate,
	"interdependency":       interdependencyTemplate,
	"crossDimensional":      crossDimensionalTemplate,
	"risks":                 risksTemplate,
	"roadmap":               roadmapTemplate,
	"pmo":                   pmoTemplate,
	"findings":              findingsTemplate,
	"recommendations":       recommendationsTemplate,
	"quickWins":             quickWinsTemplate,
	"financialImpact":       financialImpactTemplate,
	"financialProjection":   financialProjectionTemplate,
	"appendixA":             appendixTemplate,
	"implementationSummary": implementationSummaryTemplate,
	"footer":                footerTemplate,
}

const coverTemplate = `
<section id="cover" class="cover-page" style="background: {{cssColor .Brand.PrimaryColor}};">
  <div class="cover-inner">
    <p class="cover-kicker">{{.ReportName}}</p>
    <h1 class="cover-company">{{.CompanyName}}</h1>
    {{- if or .Industry .Location}}
    <p class="cover-meta">{{.Industry}}{{if and .Industry .Location}} &middot; {{end}}{{.Location}}</p>
    {{- end}}
    <div class="cover-score {{bandClass .HealthBand}}">
      <span class="cover-score-value">{{score .HealthScore}}</span>
      <span class="cover-score-label">Overall Health &middot; {{title .HealthBand}}</span>
    </div>
    {{- if .Status}}
    <p class="cover-status">{{.Status}}{{if .Trajectory}} &middot; Trajectory: {{.Trajectory}}{{end}}</p>
    {{- end}}
    <p class="cover-date" style="color: {{cssColor .Brand.AccentColor}};">Prepared {{.PreparedOn}}</p>
  </div>
</section>`

const headerTemplate = `
<header id="report-header" class="report-header" style="border-bottom: 3px solid {{cssColor .Brand.AccentColor}};">
  <span class="report-header-title">{{.ReportName}}</span>
  <span class="report-header-company">{{.CompanyName}}</span>
  <span class="report-header-date">{{.PreparedOn}}</span>
  {{- if .RunID}}
  <span class="report-header-run">Run {{.RunID}}</span>
  {{- end}}
</header>`

const relationshipTemplate = `
<section id="relationship" class="relationship-statement">
  <p>{{.Statement}}</p>
</section>`

const tocTemplate = `
<nav id="table-of-contents" class="toc" aria-label="Table of contents">
  <h2 class="section-title">Contents</h2>
  <ol class="toc-list">
  {{- range .Entries}}
    <li><a href="#{{.ID}}">{{.Title}}</a></li>
  {{- end}}
  </ol>
</nav>`

const blufTemplate = `
<section id="bluf" class="bluf">
  <h2 class="section-title">Bottom Line Up Front</h2>
  {{- if .Narrative}}
  {{.Narrative}}
  {{- else}}
  <div class="bluf-fallback">
    <p class="bluf-score">Overall health is <strong>{{score .HealthScore}}</strong> ({{title .HealthBand}}){{if .Trajectory}} and {{.Trajectory}}{{end}}.</p>
    {{- if .HeadlineInsight}}
    <p class="bluf-headline">{{.HeadlineInsight}}</p>
    {{- end}}
    {{- if .Status}}
    <p class="bluf-status">Status: {{.Status}}</p>
    {{- end}}
  </div>
  {{- end}}
</section>`

const executiveSummaryTemplate = `
<section id="executive-summary" class="report-section executive-summary" {{if .Narrative}}data-source="narrative"{{else}}data-source="structured"{{end}}>
  <h2 class="section-title">Executive Summary</h2>
  {{- if .HeadlineInsight}}
  <p class="headline-insight">{{.HeadlineInsight}}</p>
  {{- end}}
  {{- if .Narrative}}
  {{.Narrative}}
  {{- else if .Overview}}
  {{.Overview}}
  {{- end}}
  {{- if or .KeyStrengths .KeyPriorities}}
  <div class="summary-columns">
    {{- if .KeyStrengths}}
    <div class="summary-column strengths">
      <h3>Key Strengths</h3>
      <ul>{{range .KeyStrengths}}<li>{{.}}</li>{{end}}</ul>
    </div>
    {{- end}}
    {{- if .KeyPriorities}}
    <div class="summary-column priorities">
      <h3>Key Priorities</h3>
      <ul>{{range .KeyPriorities}}<li>{{.}}</li>{{end}}</ul>
    </div>
    {{- end}}
  </div>
  {{- end}}
</section>`

const categoryOverviewTemplate = `
<section id="category-overview" class="report-section category-overview">
  <h2 class="section-title">Category Health Overview</h2>
  <div class="category-grid">
  {{- range .Categories}}
    <div class="category-card {{bandClass .Band}}">
      <span class="category-score" style="color: {{cssColor (bandColor .Band)}};">{{score .Score}}</span>
      <span class="category-name">{{.Name}}</span>
      <span class="category-band">{{title .Band}}</span>
    </div>
  {{- end}}
  </div>
</section>`

const scorecardTemplate = `
<section id="scorecard" class="report-section scorecard">
  <h2 class="section-title">Health Scorecard</h2>
  <p class="scorecard-overall">Overall health score: <strong>{{score .HealthScore}}</strong> <span class="band-pill {{bandClass .HealthBand}}">{{title .HealthBand}}</span>{{if .Trajectory}} &middot; {{.Trajectory}}{{end}}</p>
  <table class="score-table">
    <thead><tr><th>Chapter</th><th>Score</th><th>Band</th><th>Benchmark</th></tr></thead>
    <tbody>
    {{- range .Chapters}}
      <tr><td>{{.Name}}</td><td>{{score .Score}}</td><td class="{{bandClass .Band}}">{{title .Band}}</td><td>{{if .HasBenchmark}}{{score .Benchmark}}{{else}}&ndash;{{end}}</td></tr>
    {{- end}}
    </tbody>
  </table>
  <div class="viz-grid">
  {{- range .Charts}}
    {{template "chartSlot" .}}
  {{- end}}
  </div>
</section>`

const chapterTemplate = `
<section id="{{.AnchorID}}" class="report-section chapter chapter-{{slug .Code}}">
  <h2 class="section-title">{{.Title}}</h2>
  {{- if .HasData}}
  <p class="chapter-score">Score <strong>{{score .Score}}</strong> <span class="band-pill {{bandClass .Band}}">{{title .Band}}</span>{{if .HasBenchmark}} &middot; Benchmark {{score .Benchmark}}{{end}}</p>
  {{- else}}
  <p class="chapter-score empty-state">No scoring data was provided for this chapter.</p>
  {{- end}}
  {{- if .Narrative}}
  {{.Narrative}}
  {{- else if .Summary}}
  <p class="chapter-summary">{{.Summary}}</p>
  {{- end}}
  {{- if .Dimensions}}
  <table class="score-table dimension-table">
    <thead><tr><th>Dimension</th><th>Score</th><th>Band</th><th>Benchmark</th></tr></thead>
    <tbody>
    {{- range .Dimensions}}
      <tr><td>{{.Name}}{{if .Description}}<div class="dimension-desc">{{.Description}}</div>{{end}}</td><td>{{score .Score}}</td><td class="{{bandClass .Band}}">{{title .Band}}</td><td>{{if .HasBenchmark}}{{score .Benchmark}}{{else}}&ndash;{{end}}</td></tr>
    {{- end}}
    </tbody>
  </table>
  {{- end}}
  {{- if .Findings}}
  <div class="chapter-findings">
    <h3>What We Found</h3>
    <ul>
    {{- range .Findings}}
      <li class="finding finding-{{slug .Type}}"><strong>{{.Title}}</strong> {{.Narrative}}</li>
    {{- end}}
    </ul>
  </div>
  {{- end}}
</section>`

const crossCategoryTemplate = `
<section id="cross-category-insights" class="report-section cross-category">
  <h2 class="section-title">Cross-Category Insights</h2>
  {{- if .Summary}}
  <p>{{.Summary}}</p>
  {{- end}}
  {{- range .Insights}}
  <div class="insight-card">
    <h3>{{.Title}}</h3>
    {{- if .Categories}}
    <p class="insight-categories">{{join .Categories ", "}}</p>
    {{- end}}
    <p>{{.Description}}</p>
    {{- if .Impact}}
    <p class="insight-impact">Impact: {{.Impact}}</p>
    {{- end}}
  </div>
  {{- end}}
</section>`

const categoryDeepDivesTemplate = `
<section id="category-deep-dives" class="report-section category-deep-dives">
  <h2 class="section-title">Category Deep Dives</h2>
  {{- range .Categories}}
  <article id="category-{{slug .Code}}" class="category-deep-dive {{bandClass .Band}}">
    <h3>{{.Name}} <span class="band-pill {{bandClass .Band}}">{{score .Score}} &middot; {{title .Band}}</span></h3>
    {{- if .Summary}}
    <p>{{.Summary}}</p>
    {{- end}}
    {{- if .Strengths}}
    <h4>Strengths</h4>
    <ul>{{range .Strengths}}<li>{{.}}</li>{{end}}</ul>
    {{- end}}
    {{- if .Weaknesses}}
    <h4>Areas to Improve</h4>
    <ul>{{range .Weaknesses}}<li>{{.}}</li>{{end}}</ul>
    {{- end}}
  </article>
  {{- end}}
</section>`

const interdependencyTemplate = `
<section id="interdependency-synthesis" class="report-section interdependency">
  <h2 class="section-title">Interdependency Synthesis</h2>
  {{- if .Summary}}
  <p>{{.Summary}}</p>
  {{- end}}
  {{- if .Links}}
  <table class="interdependency-table">
    <thead><tr><th>From</th><th>To</th><th>Strength</th><th>Effect</th></tr></thead>
    <tbody>
    {{- range .Links}}
      <tr><td>{{.From}}</td><td>{{.To}}</td><td>{{title .Strength}}</td><td>{{.Description}}</td></tr>
    {{- end}}
    </tbody>
  </table>
  {{- end}}
</section>`

const crossDimensionalTemplate = `
<section id="cross-dimensional-synthesis" class="report-section cross-dimensional">
  <h2 class="section-title">Cross-Dimensional Synthesis</h2>
  {{- if .Narrative}}
  {{.Narrative}}
  {{- else if .Summary}}
  <p>{{.Summary}}</p>
  {{- end}}
  {{- if .SystemicIssues}}
  <h3>Systemic Issues</h3>
  <ul>{{range .SystemicIssues}}<li>{{.}}</li>{{end}}</ul>
  {{- end}}
  {{- if .CompoundingRisks}}
  <h3>Compounding Risks</h3>
  <ul>{{range .CompoundingRisks}}<li>{{.}}</li>{{end}}</ul>
  {{- end}}
</section>`

const risksTemplate = `
<section id="risk-assessment" class="report-section risk-assessment">
  <h2 class="section-title">Risk Assessment</h2>
  {{- if .Narrative}}
  {{.Narrative}}
  {{- end}}
  {{template "chartSlot" .Chart}}
  {{- if .Risks}}
  <table class="risk-table">
    <thead><tr><th>Risk</th><th>Category</th><th>Likelihood</th><th>Impact</th><th>Exposure</th><th>Mitigation</th></tr></thead>
    <tbody>
    {{- range .Risks}}
      <tr class="risk-{{slug .Severity}}"><td>{{.Title}}</td><td>{{.Category}}</td><td>{{.Likelihood}}</td><td>{{.Impact}}</td><td>{{.Exposure}}</td><td>{{.Mitigation}}</td></tr>
    {{- end}}
    </tbody>
  </table>
  {{- else}}
  <p class="empty-state">No material risks were identified.</p>
  {{- end}}
</section>`

const roadmapTemplate = `
<section id="roadmap" class="report-section roadmap">
  <h2 class="section-title">Implementation Roadmap</h2>
  {{- if .Narrative}}
  {{.Narrative}}
  {{- end}}
  {{template "chartSlot" .Chart}}
  {{- range $i, $p := .Phases}}
  <div class="roadmap-phase">
    <h3>Phase {{inc $i}}: {{$p.Name}} <span class="phase-timeframe">{{$p.Timeframe}}</span></h3>
    {{- if $p.Focus}}
    <p class="phase-focus">{{$p.Focus}}</p>
    {{- end}}
    {{- if $p.Initiatives}}
    <ul class="phase-initiatives">{{range $p.Initiatives}}<li>{{.}}</li>{{end}}</ul>
    {{- end}}
    {{- if $p.Milestones}}
    <p class="phase-milestones">Milestones: {{join $p.Milestones "; "}}</p>
    {{- end}}
  </div>
  {{- else}}
  <p class="empty-state">No roadmap phases were provided.</p>
  {{- end}}
</section>`

const pmoTemplate = `
<section id="pmo" class="report-section pmo">
  <h2 class="section-title">PMO Establishment Requirements</h2>
  {{- if .Summary}}
  <p>{{.Summary}}</p>
  {{- end}}
  {{- if .Roles}}
  <table class="pmo-roles">
    <thead><tr><th>Role</th><th>Responsibility</th><th>Commitment</th></tr></thead>
    <tbody>
    {{- range .Roles}}
      <tr><td>{{.Title}}</td><td>{{.Responsibility}}</td><td>{{.Commitment}}</td></tr>
    {{- end}}
    </tbody>
  </table>
  {{- end}}
  {{- if .Governance}}
  <h3>Governance</h3>
  <ul>{{range .Governance}}<li>{{.}}</li>{{end}}</ul>
  {{- end}}
  {{- if .Cadence}}
  <p class="pmo-cadence">Operating cadence: {{.Cadence}}</p>
  {{- end}}
  {{- if .Budget}}
  <p class="pmo-budget">Indicative budget: {{money .Budget .Currency}}</p>
  {{- end}}
</section>`

const findingsTemplate = `
<section id="findings" class="report-section findings">
  <h2 class="section-title">Key Findings</h2>
  {{- range .Groups}}
  <div class="finding-group finding-group-{{slug .Type}}">
    <h3>{{.Label}}</h3>
    {{- range .Items}}
    <div class="finding finding-{{slug .Type}} severity-{{slug .Severity}}">
      <h4>{{.Title}}</h4>
      <p>{{.Narrative}}</p>
      {{- if .Evidence}}
      <p class="finding-evidence">Evidence: {{.Evidence}}</p>
      {{- end}}
    </div>
    {{- end}}
  </div>
  {{- else}}
  <p class="empty-state">No findings were recorded.</p>
  {{- end}}
</section>`

const recommendationsTemplate = `
<section id="recommendations" class="report-section recommendations">
  <h2 class="section-title">Strategic Recommendations</h2>
  {{- range .Items}}
  <div class="recommendation">
    <h3><span class="rec-rank">{{.Rank}}</span> {{.Title}}</h3>
    <p>{{.Description}}</p>
    <p class="rec-meta">Horizon: {{.Horizon}} &middot; Effort: {{title .Effort}} &middot; Impact: {{title .Impact}}{{if .Dimensions}} &middot; Dimensions: {{join .Dimensions ", "}}{{end}}</p>
    {{- if or .Cost .Value}}
    <p class="rec-financials">{{if .Cost}}Estimated cost {{money .Cost $.Currency}}{{end}}{{if and .Cost .Value}} &middot; {{end}}{{if .Value}}Estimated value {{money .Value $.Currency}}{{end}}</p>
    {{- end}}
  </div>
  {{- else}}
  <p class="empty-state">No recommendations were generated.</p>
  {{- end}}
</section>`

const quickWinsTemplate = `
<section id="quick-wins" class="report-section quick-wins">
  <h2 class="section-title">Quick Wins</h2>
  {{- if .Items}}
  <ol class="quick-win-list">
  {{- range .Items}}
    <li class="quick-win"><strong>{{.Title}}</strong> {{.Description}} <span class="quick-win-meta">{{.Timeframe}}{{if .Impact}} &middot; {{title .Impact}} impact{{end}}{{if .Effort}} &middot; {{title .Effort}} effort{{end}}</span></li>
  {{- end}}
  </ol>
  {{- else}}
  <p class="empty-state">No quick wins were identified.</p>
  {{- end}}
</section>`

const financialImpactTemplate = `
<section id="financial-impact" class="report-section financial-impact">
  <h2 class="section-title">Financial Impact Analysis</h2>
  {{template "chartSlot" .Chart}}
  {{- if .Items}}
  <table class="financial-table">
    <thead><tr><th>Area</th><th>Current Cost</th><th>Projected Savings</th><th>Revenue Upside</th><th>Confidence</th></tr></thead>
    <tbody>
    {{- range .Items}}
      <tr><td>{{.Area}}</td><td>{{money .CurrentCost $.Currency}}</td><td>{{money .ProjectedSavings $.Currency}}</td><td>{{money .RevenueUpside $.Currency}}</td><td>{{title .Confidence}}</td></tr>
    {{- end}}
    </tbody>
    <tfoot><tr><th>Total</th><td></td><td>{{money .TotalSavings .Currency}}</td><td>{{money .TotalUpside .Currency}}</td><td></td></tr></tfoot>
  </table>
  <p class="financial-summary">Total annual benefit {{compact .TotalBenefit .Currency}} against an investment of {{compact .TotalInvestment .Currency}}{{if .ROI}} &middot; projected ROI {{pct .ROI}}{{end}}{{if .HorizonMonths}} over {{.HorizonMonths}} months{{end}}.</p>
  {{- else}}
  <p class="empty-state">No financial impact data was provided.</p>
  {{- end}}
</section>`

const financialProjectionTemplate = `
<section id="financial-projection" class="report-section financial-projection">
  <h2 class="section-title">Financial Projection</h2>
  {{- if .Rows}}
  <p>Assuming benefits accrue evenly at {{money .MonthlyBenefit .Currency}} per month against an investment of {{money .Investment .Currency}}.</p>
  <table class="projection-table">
    <thead><tr><th>Month</th><th>Cumulative Benefit</th><th>Net Position</th></tr></thead>
    <tbody>
    {{- range .Rows}}
      <tr><td>{{.Month}}</td><td>{{money .Cumulative $.Currency}}</td><td class="{{if lt .Net 0.0}}net-negative{{else}}net-positive{{end}}">{{money .Net $.Currency}}</td></tr>
    {{- end}}
    </tbody>
  </table>
  {{- if .BreakEvenMonth}}
  <p class="break-even">Projected break-even in month {{.BreakEvenMonth}}.</p>
  {{- else}}
  <p class="break-even">Break-even is not reached within the projection horizon.</p>
  {{- end}}
  {{- else}}
  <p class="empty-state">Insufficient financial data for a projection.</p>
  {{- end}}
</section>`

const appendixTemplate = `
<section id="appendix-a" class="report-section appendix">
  <h2 class="section-title">Appendix A: Dimension Scores</h2>
  {{- if .Dimensions}}
  <table class="score-table appendix-table">
    <thead><tr><th>Code</th><th>Dimension</th><th>Chapter</th><th>Score</th><th>Band</th><th>Benchmark</th></tr></thead>
    <tbody>
    {{- range .Dimensions}}
      <tr><td>{{.Code}}</td><td>{{.Name}}</td><td>{{.Group}}</td><td>{{score .Score}}</td><td class="{{bandClass .Band}}">{{title .Band}}</td><td>{{if .HasBenchmark}}{{score .Benchmark}}{{else}}&ndash;{{end}}</td></tr>
    {{- end}}
    </tbody>
  </table>
  {{- else}}
  <p class="empty-state">No dimension scores were provided.</p>
  {{- end}}
  <p class="methodology">Scores range from 0 to 100. Bands: excellent (85+), good (70-84), fair (55-69), poor (40-54), critical (below 40).</p>
</section>`

const implementationSummaryTemplate = `
<section id="implementation-summary" class="report-section implementation-summary">
  <h2 class="section-title">Implementation Summary</h2>
  {{- if .Summary}}
  <p>{{.Summary}}</p>
  {{- end}}
  <dl class="implementation-figures">
    {{- if .TotalInvestment}}
    <dt>Total investment</dt><dd>{{money .TotalInvestment .Currency}}</dd>
    {{- end}}
    {{- if .ExpectedReturn}}
    <dt>Expected return</dt><dd>{{money .ExpectedReturn .Currency}}</dd>
    {{- end}}
    {{- if .PaybackMonths}}
    <dt>Payback period</dt><dd>{{.PaybackMonths}} months</dd>
    {{- end}}
  </dl>
  {{- if .NextSteps}}
  <h3>Next Steps</h3>
  <ol>{{range .NextSteps}}<li>{{.}}</li>{{end}}</ol>
  {{- end}}
</section>`

const footerTemplate = `
<footer id="report-footer" class="report-footer">
  <p>{{.ReportName}} &middot; {{.CompanyName}} &middot; {{.PreparedOn}}</p>
  <p class="footer-meta">{{if .RunID}}Run {{.RunID}} &middot; {{end}}Generated by ReportGen {{.Version}} &middot; &copy; {{.Year}}</p>
</footer>`
