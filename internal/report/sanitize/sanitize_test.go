package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizhealth/reportgen/internal/model"
)

const emptySlot = `<div class="viz-block"><h3 class="viz-header">Risk Matrix</h3><div class="chart-container"></div></div>`
const filledSlot = `<div class="viz-block"><h3 class="viz-header">Chapter Scores</h3><div class="chart-container"><svg></svg></div></div>`

func TestRemoveOrphanHeaders(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		count   int
		removed []string
	}{
		{
			name:  "no headers",
			input: `<section><p>Hello</p></section>`,
			want:  `<section><p>Hello</p></section>`,
		},
		{
			name:    "empty chart slot",
			input:   emptySlot,
			want:    `<div class="viz-block"></div>`,
			count:   1,
			removed: []string{"Risk Matrix"},
		},
		{
			name:  "filled chart slot kept",
			input: filledSlot,
			want:  filledSlot,
		},
		{
			name:    "header followed by another heading",
			input:   "<h2 class=\"viz-header\">Trends</h2>\n  <h2>Next</h2>",
			want:    "\n  <h2>Next</h2>",
			count:   1,
			removed: []string{"Trends"},
		},
		{
			name:    "header at end of input",
			input:   `<p>x</p><h4 class="viz-header">Tail &amp; End</h4>   `,
			want:    `<p>x</p>   `,
			count:   1,
			removed: []string{"Tail & End"},
		},
		{
			name:    "header before closing section",
			input:   `<section><h3 class="viz-header">Gone</h3></section>`,
			want:    `<section></section>`,
			count:   1,
			removed: []string{"Gone"},
		},
		{
			name:  "header followed by paragraph",
			input: `<h3 class="viz-header">Kept</h3><p>content</p>`,
			want:  `<h3 class="viz-header">Kept</h3><p>content</p>`,
		},
		{
			name:  "ordinary headings untouched",
			input: `<h3>Plain</h3></div>`,
			want:  `<h3>Plain</h3></div>`,
		},
		{
			name:    "mixed slots",
			input:   filledSlot + "\n" + emptySlot,
			want:    filledSlot + "\n" + `<div class="viz-block"></div>`,
			count:   1,
			removed: []string{"Risk Matrix"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := RemoveOrphanHeaders(tt.input)
			assert.Equal(t, tt.want, res.HTML)
			assert.Equal(t, tt.count, res.Count)
			assert.Equal(t, tt.removed, res.Removed)
		})
	}
}

func TestRemoveOrphanHeadersIdempotent(t *testing.T) {
	doc := strings.Join([]string{filledSlot, emptySlot, emptySlot, `<h2 class="viz-header">x</h2></section>`}, "\n")

	first := RemoveOrphanHeaders(doc)
	require.Equal(t, 3, first.Count)

	second := RemoveOrphanHeaders(first.HTML)
	assert.Equal(t, 0, second.Count)
	assert.Equal(t, first.HTML, second.HTML)
}

const asciiDiagram = "```\n" +
	"+--------+     +--------+\n" +
	"| Intake | --> | Review |\n" +
	"+--------+     +--------+\n" +
	"```"

const boxDiagram = "┌────────┐\n" +
	"│ Plan   │\n" +
	"└───┬────┘\n" +
	"    ▼\n" +
	"┌────────┐\n" +
	"│ Build  │\n" +
	"└────────┘"

func TestReplaceASCIIBlocksFence(t *testing.T) {
	brand := model.Brand{PrimaryColor: "#123456", AccentColor: "#abcdef"}

	res := ReplaceASCIIBlocks("<p>Flow:</p>\n"+asciiDiagram, brand)
	require.Equal(t, 1, res.Count)
	assert.NotContains(t, res.HTML, "```")
	assert.Contains(t, res.HTML, `<div class="diagram-flow" style="border-left-color:#123456">`)
	assert.Contains(t, res.HTML, `<li style="border-color:#abcdef">Intake</li><li style="border-color:#abcdef">Review</li>`)
	assert.True(t, strings.HasPrefix(res.HTML, "<p>Flow:</p>\n"))
}

func TestReplaceASCIIBlocksPreCode(t *testing.T) {
	doc := `<div class="narrative"><pre><code>` + boxDiagram + `</code></pre></div>`

	res := ReplaceASCIIBlocks(doc, model.DefaultBrand())
	require.Equal(t, 1, res.Count)
	assert.NotContains(t, res.HTML, "<pre>")
	assert.Contains(t, res.HTML, ">Plan</li>")
	assert.Contains(t, res.HTML, ">Build</li>")
	assert.Less(t, strings.Index(res.HTML, "Plan"), strings.Index(res.HTML, "Build"))
}

func TestReplaceASCIIBlocksEscapedContent(t *testing.T) {
	doc := `<pre><code class="language-text">Sales &amp; Ops --&gt; Finance &lt;R&amp;D&gt;</code></pre>`

	res := ReplaceASCIIBlocks(doc, model.DefaultBrand())
	require.Equal(t, 1, res.Count)
	assert.Contains(t, res.HTML, ">Sales &amp; Ops</li>")
	assert.Contains(t, res.HTML, ">Finance &lt;R&amp;D</li>")
}

func TestReplaceASCIIBlocksLeavesCode(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "sql", doc: "<pre><code>SELECT id FROM accounts;</code></pre>"},
		{name: "plain fence", doc: "```\nplain text\n```"},
		{name: "less or equal", doc: "<pre><code class=\"language-go\">if margin &lt;= target {\n\tcut(costs)\n}</code></pre>"},
		{name: "fat arrow", doc: "```js\nconst total = items.map(i =&gt; i.cost)\n```"},
		{name: "thin arrow", doc: "<pre><code>order-&gt;invoice();\nledger -&gt; post()</code></pre>"},
		{name: "greater or equal", doc: "```\nif score &gt;= 70 { band = good }\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ReplaceASCIIBlocks(tt.doc, model.DefaultBrand())
			assert.Equal(t, 0, res.Count)
			assert.Equal(t, tt.doc, res.HTML)
		})
	}
}

func TestReplaceASCIIBlocksFenceNeverSpansMarkup(t *testing.T) {
	doc := `<section id="risk-assessment"><td>Hedge with ` + "```" + `</td></section>
<section id="roadmap"><h2>Roadmap</h2></section>
<section id="recommendations"><p>lead --&gt; invoice</p></section>
<section id="quick-wins"><p>Close ` + "```" + ` weekly</p></section>`

	res := ReplaceASCIIBlocks(doc, model.DefaultBrand())
	assert.Equal(t, 0, res.Count)
	assert.Equal(t, doc, res.HTML)
}

func TestReplaceASCIIBlocksInvalidBrand(t *testing.T) {
	res := ReplaceASCIIBlocks(asciiDiagram, model.Brand{PrimaryColor: `red;"><script>`})
	require.Equal(t, 1, res.Count)
	assert.Contains(t, res.HTML, model.DefaultPrimaryColor)
	assert.NotContains(t, res.HTML, "<script>")
}

func TestReplaceASCIIBlocksIdempotent(t *testing.T) {
	doc := asciiDiagram + "\n<pre><code>" + boxDiagram + "</code></pre>"

	first := ReplaceASCIIBlocks(doc, model.DefaultBrand())
	require.Equal(t, 2, first.Count)

	second := ReplaceASCIIBlocks(first.HTML, model.DefaultBrand())
	assert.Equal(t, 0, second.Count)
	assert.Equal(t, first.HTML, second.HTML)
}
