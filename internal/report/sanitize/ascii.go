package sanitize

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/bizhealth/reportgen/internal/model"
)

// ASCIIResult is the outcome of ReplaceASCIIBlocks
type ASCIIResult struct {
	HTML  string
	Count int
}

// Block bodies never contain markup: a fence pair split by tags belongs to
// different text runs and is not a block.
var (
	fencePattern   = regexp.MustCompile("```[A-Za-z0-9_-]*[ \t]*\n?([^<>]*?)```")
	preCodePattern = regexp.MustCompile(`<pre[^>]*>\s*<code[^>]*>([^<]*)</code>\s*</pre>`)

	// A box border opens a line; a connector is a spaced arrow of two or
	// more strokes, so comparison operators like <= and => never qualify.
	boxBorderPattern  = regexp.MustCompile(`(?m)^[ \t]*\+[-=]{2,}`)
	connectorPattern  = regexp.MustCompile(`(?:^|\s)(?:<?[-=]{2,}>|<[-=]{2,})(?:\s|$)`)
	arrowSplitPattern = regexp.MustCompile(`\s*(?:<?[-=]{1,}>|<[-=]{1,}|[→←↑↓⇒⇐⟶➜➔►▶▼▲])\s*`)
)

// ReplaceASCIIBlocks swaps code blocks that hold ASCII or box-drawing diagrams
// for a branded ordered list of the labels found in the diagram. Blocks that
// hold ordinary code, or no labels at all, are left untouched.
func ReplaceASCIIBlocks(doc string, brand model.Brand) ASCIIResult {
	b := brand.Normalized()
	count := 0

	replace := func(raw string) (string, bool) {
		if !isDiagram(raw) {
			return "", false
		}
		steps := diagramSteps(raw)
		if len(steps) == 0 {
			return "", false
		}
		count++
		return flowHTML(steps, b), true
	}

	out := preCodePattern.ReplaceAllStringFunc(doc, func(block string) string {
		m := preCodePattern.FindStringSubmatch(block)
		if r, ok := replace(html.UnescapeString(m[1])); ok {
			return r
		}
		return block
	})

	out = fencePattern.ReplaceAllStringFunc(out, func(block string) string {
		m := fencePattern.FindStringSubmatch(block)
		if r, ok := replace(html.UnescapeString(m[1])); ok {
			return r
		}
		return block
	})

	return ASCIIResult{HTML: out, Count: count}
}

func isDiagram(s string) bool {
	for _, r := range s {
		if isBoxRune(r) || isArrowRune(r) {
			return true
		}
	}
	return boxBorderPattern.MatchString(s) || connectorPattern.MatchString(s)
}

// isBoxRune covers the box drawing and block element ranges
func isBoxRune(r rune) bool {
	return (r >= 0x2500 && r <= 0x259F)
}

func isArrowRune(r rune) bool {
	switch r {
	case '→', '←', '↑', '↓', '⇒', '⇐', '⟶', '➜', '➔', '►', '▶', '▼', '▲':
		return true
	}
	return r >= 0x2190 && r <= 0x21FF
}

// diagramSteps extracts the text labels from a diagram in reading order.
// Borders and connectors are dropped; consecutive duplicates collapse.
func diagramSteps(s string) []string {
	var steps []string
	for _, line := range strings.Split(s, "\n") {
		for _, part := range arrowSplitPattern.Split(line, -1) {
			for _, cell := range strings.Split(part, "|") {
				label := cleanLabel(cell)
				if label == "" {
					continue
				}
				if n := len(steps); n > 0 && steps[n-1] == label {
					continue
				}
				steps = append(steps, label)
			}
		}
	}
	return steps
}

func cleanLabel(s string) string {
	s = strings.Map(func(r rune) rune {
		if isBoxRune(r) || isArrowRune(r) {
			return ' '
		}
		return r
	}, s)
	s = strings.Trim(s, " \t+-=*_.:><'`")
	s = strings.Join(strings.Fields(s), " ")
	if s == "v" || s == "^" {
		return ""
	}

	// Rows of pure border characters leave nothing meaningful behind
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return ""
	}
	return s
}

func flowHTML(steps []string, brand model.Brand) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="diagram-flow" style="border-left-color:%s"><ol class="flow-steps">`, brand.PrimaryColor)
	for _, s := range steps {
		fmt.Fprintf(&sb, `<li style="border-color:%s">%s</li>`, brand.AccentColor, html.EscapeString(s))
	}
	sb.WriteString(`</ol></div>`)
	return sb.String()
}
