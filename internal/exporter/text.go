package exporter

import (
	"context"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TextExporter renders the report as plain text for email bodies and
// archival. Charts, scripts and the consent UI are dropped; headings are
// underlined, list items bulleted and table cells pipe-separated.
type TextExporter struct{}

// NewTextExporter creates a new plain-text exporter
func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

// Name returns the human-readable name of this exporter
func (e *TextExporter) Name() string {
	return "Text"
}

// FileExtension returns the file extension for text files
func (e *TextExporter) FileExtension() string {
	return ".txt"
}

// skippedTags never contribute text
var skippedTags = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Svg:      true,
	atom.Noscript: true,
	atom.Template: true,
}

// skippedIDs are interactive elements that make no sense on paper
var skippedIDs = map[string]bool{
	"clickwrap-modal":   true,
	"acceptance-banner": true,
}

var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.Header: true, atom.Footer: true, atom.Nav: true, atom.Main: true,
	atom.Ol: true, atom.Ul: true, atom.Table: true, atom.Tr: true,
	atom.Details: true, atom.Summary: true, atom.Blockquote: true, atom.Dl: true,
	atom.Dt: true, atom.Dd: true, atom.Figure: true, atom.Figcaption: true,
}

// Export converts the report HTML to plain text
func (e *TextExporter) Export(ctx context.Context, doc Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, err := HTMLToText(strings.NewReader(doc.HTML))
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// HTMLToText flattens an HTML document into readable plain text
func HTMLToText(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	w := &textWriter{}

	var skip struct {
		name  string
		depth int
	}
	heading := 0
	cells := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", err
			}
			return w.String(), nil

		case html.TextToken:
			if skip.depth > 0 {
				continue
			}
			if w.pre > 0 {
				w.raw(string(z.Text()))
			} else {
				w.write(string(z.Text()))
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if skip.depth > 0 {
				if tt == html.StartTagToken && tok.Data == skip.name {
					skip.depth++
				}
				continue
			}
			if skippedTags[tok.DataAtom] || skippedIDs[attr(tok, "id")] {
				if tt == html.StartTagToken {
					skip.name, skip.depth = tok.Data, 1
				}
				continue
			}

			switch tok.DataAtom {
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				w.blank()
				heading = headingLevel(tok.DataAtom)
			case atom.Li:
				w.newline()
				w.prefix("- ")
			case atom.Br:
				w.newline()
			case atom.Hr:
				w.newline()
				w.prefix(strings.Repeat("-", 40))
				w.newline()
			case atom.Pre:
				w.newline()
				w.pre++
			case atom.Tr:
				w.newline()
				cells = 0
			case atom.Td, atom.Th:
				if cells > 0 {
					w.prefix(" | ")
				}
				cells++
			default:
				if blockTags[tok.DataAtom] {
					w.newline()
				}
			}

		case html.EndTagToken:
			tok := z.Token()
			if skip.depth > 0 {
				if tok.Data == skip.name {
					skip.depth--
				}
				continue
			}

			switch tok.DataAtom {
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				title := w.current()
				w.newline()
				if heading > 0 && heading <= 3 && title != "" {
					mark := "-"
					if heading <= 2 {
						mark = "="
					}
					w.prefix(strings.Repeat(mark, utf8.RuneCountInString(title)))
					w.newline()
				}
				heading = 0
			case atom.Pre:
				w.pre--
				w.newline()
			case atom.P, atom.Section, atom.Table, atom.Ol, atom.Ul:
				w.blank()
			default:
				if blockTags[tok.DataAtom] || tok.DataAtom == atom.Li {
					w.newline()
				}
			}
		}
	}
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func headingLevel(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	}
	return 6
}

// textWriter accumulates lines with collapsed whitespace
type textWriter struct {
	lines []string
	cur   strings.Builder
	space bool
	pre   int
}

// write appends inline text, collapsing whitespace runs to one space
func (w *textWriter) write(s string) {
	if s == "" {
		return
	}
	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	fields := strings.Fields(s)
	if len(fields) == 0 {
		w.space = true
		return
	}
	if unicode.IsSpace(first) {
		w.space = true
	}
	for i, f := range fields {
		if (i > 0 || w.space) && w.cur.Len() > 0 && !strings.HasSuffix(w.cur.String(), " ") {
			w.cur.WriteByte(' ')
		}
		w.cur.WriteString(f)
	}
	w.space = unicode.IsSpace(last)
}

// raw appends preformatted text verbatim
func (w *textWriter) raw(s string) {
	parts := strings.Split(s, "\n")
	for i, p := range parts {
		if i > 0 {
			w.flush()
		}
		w.cur.WriteString(p)
	}
}

// prefix writes literal text with no whitespace handling
func (w *textWriter) prefix(s string) {
	w.cur.WriteString(s)
	w.space = false
}

func (w *textWriter) current() string {
	return strings.TrimSpace(w.cur.String())
}

func (w *textWriter) flush() {
	w.lines = append(w.lines, strings.TrimRightFunc(w.cur.String(), unicode.IsSpace))
	w.cur.Reset()
	w.space = false
}

// newline ends the current line if it has content
func (w *textWriter) newline() {
	if strings.TrimSpace(w.cur.String()) == "" {
		w.cur.Reset()
		w.space = false
		return
	}
	w.flush()
}

// blank ends the current line and leaves one empty line after it
func (w *textWriter) blank() {
	w.newline()
	if n := len(w.lines); n > 0 && w.lines[n-1] != "" {
		w.lines = append(w.lines, "")
	}
}

// String joins the lines, keeping at most one consecutive empty line
func (w *textWriter) String() string {
	w.newline()
	var out []string
	for _, l := range w.lines {
		if l == "" && (len(out) == 0 || out[len(out)-1] == "") {
			continue
		}
		out = append(out, l)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}
