package ingredient

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hammamikhairi/ottoplan/internal/domain"
)

var unicodeFractions = map[rune]float64{
	'¼': 0.25, '½': 0.5, '¾': 0.75,
	'⅓': 1.0 / 3, '⅔': 2.0 / 3,
	'⅛': 0.125, '⅜': 0.375, '⅝': 0.625, '⅞': 0.875,
}

// quantityPatterns are tried in order against the start of the line.
var quantityPatterns = []struct {
	regex *regexp.Regexp
	parse func(m []string) (float64, bool)
}{
	// "1 1/2"
	{regexp.MustCompile(`^(\d+)\s+(\d+)/(\d+)\b`), func(m []string) (float64, bool) {
		w, f, ok := atoi3(m[1], m[2], m[3])
		return w + f, ok
	}},
	// "3/4"
	{regexp.MustCompile(`^(\d+)/(\d+)\b`), func(m []string) (float64, bool) {
		_, f, ok := atoi3("0", m[1], m[2])
		return f, ok
	}},
	// "1.5", "2", "0,5"
	{regexp.MustCompile(`^(\d+(?:[.,]\d+)?)`), func(m []string) (float64, bool) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		return v, err == nil
	}},
}

// ParseLine parses a free-text ingredient line such as "1 1/2 cups flour",
// "2 eggs", "½ tsp salt" or "3 cloves garlic". A missing quantity is an
// error; a missing unit leaves Unit empty.
func ParseLine(line string) (domain.Ingredient, error) {
	rest := strings.TrimSpace(line)
	if rest == "" {
		return domain.Ingredient{}, &domain.ValidationError{Field: "ingredient", Message: "line is empty"}
	}

	qty, rest, ok := parseQuantity(rest)
	if !ok {
		return domain.Ingredient{}, &domain.ValidationError{Field: "quantity", Message: "line must start with a quantity"}
	}

	unit := ""
	fields := strings.Fields(rest)
	// Two-word units ("fl oz") first.
	switch {
	case len(fields) >= 3 && isKnownUnit(fields[0]+" "+fields[1]):
		unit = Canonical(fields[0] + " " + fields[1])
		fields = fields[2:]
	case len(fields) >= 1 && isKnownUnit(fields[0]):
		unit = Canonical(fields[0])
		fields = fields[1:]
	}
	// "of" as in "2 cups of milk".
	if len(fields) > 1 && strings.EqualFold(fields[0], "of") {
		fields = fields[1:]
	}

	ing := domain.Ingredient{
		Name:     strings.Join(fields, " "),
		Quantity: qty,
		Unit:     unit,
	}
	if err := Validate(ing); err != nil {
		return domain.Ingredient{}, err
	}
	return ing, nil
}

// Validate rejects an empty name and a quantity that is not a positive
// finite number.
func Validate(ing domain.Ingredient) error {
	if Normalize(ing.Name) == "" {
		return &domain.ValidationError{Field: "name", Message: "ingredient name is required"}
	}
	if !(ing.Quantity > 0) {
		return &domain.ValidationError{Field: "quantity", Message: "quantity must be greater than zero"}
	}
	if math.IsInf(ing.Quantity, 0) {
		return &domain.ValidationError{Field: "quantity", Message: "quantity must be a finite number"}
	}
	return nil
}

func parseQuantity(s string) (float64, string, bool) {
	for _, p := range quantityPatterns {
		m := p.regex.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		v, ok := p.parse(m)
		if !ok {
			return 0, s, false
		}
		rest := s[len(m[0]):]
		// Trailing glyph: "1½".
		if r, size := utf8.DecodeRuneInString(rest); unicodeFractions[r] > 0 {
			v += unicodeFractions[r]
			rest = rest[size:]
		}
		return v, strings.TrimSpace(rest), true
	}
	if r, size := utf8.DecodeRuneInString(s); unicodeFractions[r] > 0 {
		return unicodeFractions[r], strings.TrimSpace(s[size:]), true
	}
	return 0, s, false
}

func atoi3(a, b, c string) (float64, float64, bool) {
	w, err1 := strconv.Atoi(a)
	n, err2 := strconv.Atoi(b)
	d, err3 := strconv.Atoi(c)
	if err1 != nil || err2 != nil || err3 != nil || d == 0 {
		return 0, 0, false
	}
	return float64(w), float64(n) / float64(d), true
}

func isKnownUnit(s string) bool {
	return !strings.HasPrefix(lookupUnit(s).dim, "unit:") && cleanUnit(s) != ""
}
