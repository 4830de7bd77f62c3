// Package sanitize holds the post-assembly passes over the full report HTML.
// Each pass is a single forward scan that returns the rewritten document and a
// count of changes; running a pass twice changes nothing the second time.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

// OrphanResult is the outcome of RemoveOrphanHeaders
type OrphanResult struct {
	HTML    string
	Count   int
	Removed []string
}

var (
	vizHeaderPattern      = regexp.MustCompile(`<(h[2-4])\s+class="viz-header"[^>]*>([\s\S]*?)</h[2-4]>`)
	emptyContainerPattern = regexp.MustCompile(`^\s*<div\s+class="chart-container"[^>]*>\s*</div>`)
	contentAfterPattern   = regexp.MustCompile(`^\s*(?:<h[1-6][\s>]|</div|</section|$)`)
	tagPattern            = regexp.MustCompile(`<[^>]*>`)
)

// RemoveOrphanHeaders strips visualization headers that have nothing under them.
// A viz-header is orphaned when what follows it, ignoring whitespace and an
// empty chart-container, is another heading, a closing </div> or </section>,
// or the end of the document. The empty container goes with the header.
func RemoveOrphanHeaders(doc string) OrphanResult {
	matches := vizHeaderPattern.FindAllStringSubmatchIndex(doc, -1)
	if len(matches) == 0 {
		return OrphanResult{HTML: doc}
	}

	var out strings.Builder
	out.Grow(len(doc))
	res := OrphanResult{}
	last := 0

	for _, m := range matches {
		start, end := m[0], m[1]
		if start < last {
			continue
		}

		removeEnd := end
		rest := doc[end:]
		if loc := emptyContainerPattern.FindStringIndex(rest); loc != nil {
			removeEnd = end + loc[1]
			rest = doc[removeEnd:]
		}
		if !contentAfterPattern.MatchString(rest) {
			continue
		}

		out.WriteString(doc[last:start])
		last = removeEnd
		res.Count++
		res.Removed = append(res.Removed, headerText(doc[m[4]:m[5]]))
	}
	out.WriteString(doc[last:])
	res.HTML = out.String()
	return res
}

func headerText(inner string) string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(inner, "")))
}
