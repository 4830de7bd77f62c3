// Package narrative converts pre-generated markdown narrative into sanitized HTML.
package narrative

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// headingOffset demotes markdown headings so narrative "#" lands below the
// section's own <h2>
const headingOffset = 2

// Renderer renders markdown narrative. It is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer creates a narrative renderer with GFM tables and strikethrough
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(headingShift{by: headingOffset}, 100)),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("div", "span", "table")

	return &Renderer{md: md, policy: policy}
}

// Render converts markdown to sanitized HTML. Empty input renders as "".
func (r *Renderer) Render(markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render narrative markdown: %w", err)
	}
	return strings.TrimSpace(r.policy.Sanitize(buf.String())), nil
}

// Block renders markdown wrapped in a <div class="narrative {class}">
func (r *Renderer) Block(class, markdown string) (string, error) {
	body, err := r.Render(markdown)
	if err != nil || body == "" {
		return "", err
	}
	return wrap(class, body), nil
}

// Paragraphs renders plain structured-data text as escaped paragraphs,
// splitting on blank lines. It is the fallback when narrative is unavailable.
func Paragraphs(class, plain string) string {
	var parts []string
	for _, p := range strings.Split(strings.ReplaceAll(plain, "\r\n", "\n"), "\n\n") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts = append(parts, "<p>"+html.EscapeString(p)+"</p>")
	}
	if len(parts) == 0 {
		return ""
	}
	return wrap(class, strings.Join(parts, "\n"))
}

func wrap(class, body string) string {
	cls := "narrative"
	if class != "" {
		cls += " " + html.EscapeString(class)
	}
	return `<div class="` + cls + `">` + "\n" + body + "\n</div>"
}

type headingShift struct {
	by int
}

// Transform implements parser.ASTTransformer
func (h headingShift) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if hd, ok := n.(*ast.Heading); ok {
			hd.Level = min(hd.Level+h.by, 6)
		}
		return ast.WalkContinue, nil
	})
}
