// Package format provides locale-aware number formatting and score-band helpers
// shared by the fragment generators.
package format

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "CA$",
	"AUD": "A$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
}

// Number formats v with thousands separators and no decimals
func Number(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// Decimal formats v with thousands separators and the given precision
func Decimal(v float64, precision int) string {
	return printer.Sprintf("%."+strconv.Itoa(precision)+"f", v)
}

// Score formats a 0-100 score, dropping a trailing .0
func Score(v float64) string {
	if v == math.Trunc(v) {
		return Number(v)
	}
	return Decimal(v, 1)
}

// Percent formats v as a whole percentage ("72%")
func Percent(v float64) string {
	return Number(v) + "%"
}

// Currency formats an amount with the symbol for an ISO currency code.
// Unknown codes are rendered as a suffix ("1,200 CHF"). Empty defaults to USD.
func Currency(v float64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = "USD"
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	if sym, ok := currencySymbols[code]; ok {
		return sign + sym + Number(v)
	}
	return sign + Number(v) + " " + code
}

// CompactCurrency abbreviates large amounts ("$1.2M", "$350K")
func CompactCurrency(v float64, code string) string {
	abs := math.Abs(v)
	var scaled float64
	var unit string
	switch {
	case abs >= 1e9:
		scaled, unit = v/1e9, "B"
	case abs >= 1e6:
		scaled, unit = v/1e6, "M"
	case abs >= 1e3:
		scaled, unit = v/1e3, "K"
	default:
		return Currency(v, code)
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = "USD"
	}
	sign := ""
	if scaled < 0 {
		sign = "-"
		scaled = -scaled
	}
	num := strings.TrimSuffix(Decimal(scaled, 1), ".0") + unit
	if sym, ok := currencySymbols[code]; ok {
		return sign + sym + num
	}
	return sign + num + " " + code
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s and collapses everything that is not a letter or digit to '-'
func Slug(s string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// Band names used across the report
const (
	BandExcellent = "excellent"
	BandGood      = "good"
	BandFair      = "fair"
	BandPoor      = "poor"
	BandCritical  = "critical"
)

var bandColors = map[string]string{
	BandExcellent: "#1b7f3b",
	BandGood:      "#4c9a2a",
	BandFair:      "#d9a400",
	BandPoor:      "#e0701b",
	BandCritical:  "#c0392b",
}

// BandFor maps a 0-100 score to its band
func BandFor(score float64) string {
	switch {
	case score >= 85:
		return BandExcellent
	case score >= 70:
		return BandGood
	case score >= 55:
		return BandFair
	case score >= 40:
		return BandPoor
	default:
		return BandCritical
	}
}

// NormalizeBand returns a known band name for band, deriving one from score
// when the band is empty or unrecognized
func NormalizeBand(band string, score float64) string {
	b := strings.ToLower(strings.TrimSpace(band))
	if _, ok := bandColors[b]; ok {
		return b
	}
	return BandFor(score)
}

// BandColor returns the hex color for a band
func BandColor(band string) string {
	if c, ok := bandColors[strings.ToLower(band)]; ok {
		return c
	}
	return "#7f8c8d"
}

// BandClass returns the CSS class for a band ("band-good")
func BandClass(band string) string {
	if s := Slug(band); s != "" {
		return "band-" + s
	}
	return "band-unknown"
}

// Title upper-cases the first letter of each word and leaves the rest intact.
// A Caser is stateful, so each call gets its own.
func Title(s string) string {
	return cases.Title(language.AmericanEnglish, cases.NoLower).String(s)
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
