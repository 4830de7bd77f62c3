// Package legal renders the report's legal and consent UI: the clickwrap modal
// that blurs the report until terms are accepted, the acceptance banner, and the
// terms accordion at the end of the document.
package legal

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/bizhealth/reportgen/internal/model"
)

// DefaultTermsVersion is used when the context carries no terms version
const DefaultTermsVersion = "2024-01"

// Input is the slice of report data the legal fragments need
type Input struct {
	CompanyName  string
	RunID        string
	TermsVersion string
	Brand        model.Brand
}

// Term is one collapsible entry in the legal accordion
type Term struct {
	ID    string
	Title string
	Body  string
}

// Terms is the fixed set of terms shown in the accordion
var Terms = []Term{
	{
		ID:    "scope",
		Title: "Scope of Assessment",
		Body:  "This report reflects information supplied by the business at the time of assessment. Scores and findings describe that point in time and are not a guarantee of future performance.",
	},
	{
		ID:    "no-advice",
		Title: "Not Professional Advice",
		Body:  "Content in this report is provided for informational purposes. It does not constitute legal, tax, accounting, or investment advice. Consult qualified professionals before acting on any recommendation.",
	},
	{
		ID:    "estimates",
		Title: "Financial Estimates",
		Body:  "Projected savings, revenue upside, and return on investment are estimates derived from the submitted data and industry benchmarks. Actual results will vary.",
	},
	{
		ID:    "confidentiality",
		Title: "Confidentiality",
		Body:  "This report is prepared solely for the named business. Redistribution to third parties requires the business owner's consent.",
	},
	{
		ID:    "liability",
		Title: "Limitation of Liability",
		Body:  "To the maximum extent permitted by law, the provider is not liable for decisions made on the basis of this report.",
	},
}

var templates = template.Must(template.New("legal").Parse(modalTemplate + bannerTemplate + accordionTemplate))

type view struct {
	Input
	StorageKey string
	Terms      []Term
}

func newView(in Input) view {
	if in.TermsVersion == "" {
		in.TermsVersion = DefaultTermsVersion
	}
	in.Brand = in.Brand.Normalized()
	return view{
		Input:      in,
		StorageKey: "bh-terms-" + in.TermsVersion + "-" + in.RunID,
		Terms:      Terms,
	}
}

// ClickwrapModal renders the blocking terms-acceptance modal
func ClickwrapModal(in Input) (string, error) {
	return execute("modal", newView(in))
}

// AcceptanceBanner renders the banner shown once terms are accepted
func AcceptanceBanner(in Input) (string, error) {
	return execute("banner", newView(in))
}

// Accordion renders the collapsible terms list at the end of the report
func Accordion(in Input) (string, error) {
	return execute("accordion", newView(in))
}

func execute(name string, data view) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render legal %s: %w", name, err)
	}
	return buf.String(), nil
}

const modalTemplate = `{{define "modal"}}<div id="clickwrap-modal" class="clickwrap-modal" role="dialog" aria-modal="true" aria-labelledby="clickwrap-title" data-terms-version="{{.TermsVersion}}">
  <div class="clickwrap-dialog" style="border-top: 4px solid {{.Brand.PrimaryColor}};">
    <h2 id="clickwrap-title">Before You Continue</h2>
    <p>This report was prepared for <strong>{{.CompanyName}}</strong>. Please review and accept the terms of use (version {{.TermsVersion}}) to view the full report.</p>
    <label class="clickwrap-check"><input type="checkbox" id="clickwrap-agree"> I have read and agree to the terms of use.</label>
    <button type="button" id="clickwrap-accept" class="clickwrap-accept" style="background: {{.Brand.AccentColor}};" disabled>Accept and View Report</button>
  </div>
</div>
<script>
(function () {
  var key = {{.StorageKey}};
  var modal = document.getElementById("clickwrap-modal");
  var agree = document.getElementById("clickwrap-agree");
  var accept = document.getElementById("clickwrap-accept");
  function unlock() {
    document.body.classList.remove("report-locked");
    if (modal) { modal.remove(); }
    var banner = document.getElementById("acceptance-banner");
    if (banner) { banner.hidden = false; }
  }
  try { if (window.localStorage.getItem(key)) { unlock(); return; } } catch (e) {}
  document.body.classList.add("report-locked");
  agree.addEventListener("change", function () { accept.disabled = !agree.checked; });
  accept.addEventListener("click", function () {
    try { window.localStorage.setItem(key, new Date().toISOString()); } catch (e) {}
    unlock();
  });
})();
</script>{{end}}`

const bannerTemplate = `{{define "banner"}}<div id="acceptance-banner" class="acceptance-banner" hidden style="border-left: 4px solid {{.Brand.AccentColor}};">
  Terms of use (version {{.TermsVersion}}) accepted. This report is confidential to {{.CompanyName}}.
</div>{{end}}`

const accordionTemplate = `{{define "accordion"}}<section id="legal-terms" class="legal-accordion">
  <h2 class="section-title">Terms &amp; Disclosures</h2>
{{- range .Terms}}
  <details class="legal-term" id="term-{{.ID}}">
    <summary>{{.Title}}</summary>
    <p>{{.Body}}</p>
  </details>
{{- end}}
  <p class="legal-version">Terms version {{.TermsVersion}}</p>
</section>{{end}}`
