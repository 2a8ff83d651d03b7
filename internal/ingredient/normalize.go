// Package ingredient canonicalizes ingredient names, converts between
// measurement units and formats quantities for display. Everything in this
// package is pure and safe for concurrent use.
package ingredient

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MatchKind reports how two ingredient names matched.
type MatchKind int

const (
	// MatchNone means the names refer to different ingredients.
	MatchNone MatchKind = iota
	// MatchSubstring means one normalized key contains the other. This is
	// approximate: "onion" matches "green onion" and "pea" matches "peach".
	MatchSubstring
	// MatchExact means the normalized keys are equal (aliases included).
	MatchExact
)

// String returns a human-readable match kind.
func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchSubstring:
		return "substring"
	default:
		return "none"
	}
}

// Normalizer maps free-text ingredient names to canonical keys.
// The zero value is not usable; use NewNormalizer or Default.
type Normalizer struct {
	aliases map[string]string
}

var defaultNormalizer = NewNormalizer(nil)

// Default returns the normalizer with the built-in alias table.
func Default() *Normalizer {
	return defaultNormalizer
}

// Normalize canonicalizes name with the built-in alias table.
func Normalize(name string) string {
	return defaultNormalizer.Normalize(name)
}

// Matches reports whether two names refer to the same ingredient under the
// built-in alias table.
func Matches(a, b string) bool {
	return defaultNormalizer.Match(a, b) != MatchNone
}

// NewNormalizer builds a normalizer from the built-in aliases plus extra.
// Extra entries win over built-in ones. Keys and targets are canonicalized
// and chains are resolved.
//
// If extra contains a cycle, every extra entry is dropped, not only the
// ones in the cycle, and the built-in table is used alone. Use LoadAliases
// to get the error instead.
func NewNormalizer(extra map[string]string) *Normalizer {
	n, err := newNormalizer(extra)
	if err != nil {
		n, _ = newNormalizer(nil)
	}
	return n
}

func newNormalizer(extra map[string]string) (*Normalizer, error) {
	aliases, err := resolveAliases(builtinAliases, extra)
	if err != nil {
		return nil, err
	}
	return &Normalizer{aliases: aliases}, nil
}

// Normalize lower-cases, folds accents, strips punctuation, collapses
// whitespace, resolves aliases and singularizes each word. Unknown input
// comes back in its cleaned form. Normalize is idempotent.
func (n *Normalizer) Normalize(name string) string {
	key := clean(name)
	if key == "" {
		return ""
	}
	if to, ok := n.aliases[key]; ok {
		return to
	}
	key = singularizePhrase(key)
	if to, ok := n.aliases[key]; ok {
		return to
	}
	return key
}

// Match compares two names. Empty names never match anything.
func (n *Normalizer) Match(a, b string) MatchKind {
	return MatchKeys(n.Normalize(a), n.Normalize(b))
}

// MatchKeys compares two already normalized keys.
func MatchKeys(ka, kb string) MatchKind {
	if ka == "" || kb == "" {
		return MatchNone
	}
	if ka == kb {
		return MatchExact
	}
	if strings.Contains(ka, kb) || strings.Contains(kb, ka) {
		return MatchSubstring
	}
	return MatchNone
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// clean is the alias-free part of normalization.
func clean(s string) string {
	s = strings.ToLower(s)
	if folded, _, err := transform.String(accentFolder, s); err == nil {
		s = folded
	}
	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

func singularizePhrase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = singularize(w)
	}
	return strings.Join(words, " ")
}

// singularize folds a single lower-case word to its singular form. The
// result is always a fixed point of singularize.
func singularize(w string) string {
	if to, ok := irregularPlurals[w]; ok {
		return to
	}
	if len(w) <= 3 {
		return w
	}
	switch {
	case strings.HasSuffix(w, "ss"), strings.HasSuffix(w, "us"), strings.HasSuffix(w, "is"):
		return w
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "sses"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "ches"), strings.HasSuffix(w, "shes"), strings.HasSuffix(w, "xes"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "oes"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "s"):
		return w[:len(w)-1]
	}
	return w
}
