package charts

import (
	"fmt"
	"html"
	"strings"
)

const (
	fontFamily = "Helvetica, Arial, sans-serif"
	textColor  = "#333333"
	gridColor  = "#e5e7eb"
	mutedColor = "#9ca3af"
)

// canvas accumulates SVG markup. All coordinates are written with one decimal
// so output is byte-stable across runs.
type canvas struct {
	sb strings.Builder
	w  int
	h  int
}

func newCanvas(w, h int, label string) *canvas {
	c := &canvas{w: w, h: h}
	fmt.Fprintf(&c.sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="100%%" role="img" aria-label="%s" font-family="%s">`,
		w, h, esc(label), fontFamily)
	return c
}

func (c *canvas) rect(x, y, w, h float64, fill string, extra string) {
	fmt.Fprintf(&c.sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"%s/>`, x, y, w, h, esc(fill), extra)
}

func (c *canvas) line(x1, y1, x2, y2 float64, stroke string, width float64, extra string) {
	fmt.Fprintf(&c.sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"%s/>`,
		x1, y1, x2, y2, esc(stroke), width, extra)
}

func (c *canvas) circle(cx, cy, r float64, fill string, extra string) {
	fmt.Fprintf(&c.sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"%s/>`, cx, cy, r, esc(fill), extra)
}

func (c *canvas) path(d, fill, stroke string, width float64) {
	fmt.Fprintf(&c.sb, `<path d="%s" fill="%s" stroke="%s" stroke-width="%.1f"/>`, d, esc(fill), esc(stroke), width)
}

func (c *canvas) polygon(points []point, fill, stroke string, opacity float64) {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("%.1f,%.1f", p.x, p.y)
	}
	fmt.Fprintf(&c.sb, `<polygon points="%s" fill="%s" fill-opacity="%.2f" stroke="%s" stroke-width="2.0"/>`,
		strings.Join(parts, " "), esc(fill), opacity, esc(stroke))
}

// text writes an escaped label. anchor is start, middle or end.
func (c *canvas) text(x, y float64, s string, size int, anchor, fill string, bold bool) {
	weight := ""
	if bold {
		weight = ` font-weight="bold"`
	}
	fmt.Fprintf(&c.sb, `<text x="%.1f" y="%.1f" font-size="%d" text-anchor="%s" fill="%s"%s>%s</text>`,
		x, y, size, anchor, esc(fill), weight, esc(s))
}

func (c *canvas) String() string {
	c.sb.WriteString(`</svg>`)
	return c.sb.String()
}

type point struct {
	x, y float64
}

func esc(s string) string {
	return html.EscapeString(s)
}

// truncate shortens labels that would overflow axis space
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
