package ingredient

import (
	"math"
	"strconv"
	"strings"
)

// fractionGlyphs are the fractional parts rendered as vulgar fractions.
var fractionGlyphs = []struct {
	value float64
	glyph string
}{
	{0.125, "⅛"},
	{0.25, "¼"},
	{1.0 / 3, "⅓"},
	{0.5, "½"},
	{2.0 / 3, "⅔"},
	{0.75, "¾"},
}

const fractionTolerance = 0.01

// FormatQuantity renders a quantity: common fractions as glyphs ("1½"),
// anything else rounded to at most two decimals ("1.2", "0.05").
func FormatQuantity(q float64) string {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return strconv.FormatFloat(q, 'f', -1, 64)
	}

	sign := ""
	if q < 0 {
		sign = "-"
		q = -q
	}

	whole, frac := math.Modf(q)
	if frac < fractionTolerance {
		return sign + strconv.FormatFloat(whole, 'f', -1, 64)
	}
	if frac > 1-fractionTolerance {
		return sign + strconv.FormatFloat(whole+1, 'f', -1, 64)
	}
	for _, f := range fractionGlyphs {
		if math.Abs(frac-f.value) < fractionTolerance {
			if whole == 0 {
				return sign + f.glyph
			}
			return sign + strconv.FormatFloat(whole, 'f', -1, 64) + f.glyph
		}
	}

	s := strconv.FormatFloat(math.Round(q*100)/100, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return sign + s
}

// Format renders a quantity with its unit, e.g. "1½ cup" or "3" when the
// unit is empty.
func Format(quantity float64, unit string) string {
	q := FormatQuantity(quantity)
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return q
	}
	return q + " " + unit
}
