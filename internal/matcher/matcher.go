// Package matcher scores how well a pantry covers a set of recipes.
package matcher

import (
	"math"
	"sort"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/ingredient"
	"github.com/hammamikhairi/ottoplan/internal/logger"
)

// epsilon absorbs floating-point noise in sufficiency comparisons.
const epsilon = 1e-9

// PartialMatch is an ingredient the pantry has but not enough of, or has in
// a unit that cannot be compared.
type PartialMatch struct {
	Name string
	// Have is the pantry quantity in the recipe unit, or in HaveUnit when
	// MixedUnits is set.
	Have     float64
	HaveUnit string
	Needs    float64
	Unit     string
	// MatchPercent is min(100, floor(have/need*100)); 0 with MixedUnits.
	MatchPercent int
	MixedUnits   bool
}

// MatchResult is the per-recipe breakdown. It is derived on every query and
// never stored.
type MatchResult struct {
	RecipeID           string
	MatchedIngredients []string
	PartialMatches     []PartialMatch
	MissingIngredients []string
	MatchPercentage    int
	MatchedCount       int
	TotalIngredients   int
}

// ScoredRecipe is a recipe annotated with its match.
type ScoredRecipe struct {
	Recipe domain.Recipe
	Match  MatchResult
}

// Coverage classifies how a pantry item covers one recipe ingredient.
type Coverage int

const (
	CoverageMissing Coverage = iota
	CoverageIncompatible
	CoveragePartial
	CoverageFull
)

// String returns a human-readable coverage.
func (c Coverage) String() string {
	switch c {
	case CoverageFull:
		return "full"
	case CoveragePartial:
		return "partial"
	case CoverageIncompatible:
		return "incompatible"
	default:
		return "missing"
	}
}

// Candidate is the best pantry item for a recipe ingredient.
type Candidate struct {
	Index     int // position in the pantry slice
	Kind      ingredient.MatchKind
	Converted bool // pantry and recipe units differ
	// Compatible is false when the units cannot be converted.
	Compatible bool
	// Sufficient is set when the item holds the whole requirement.
	Sufficient bool
}

// Matcher compares recipes against pantry snapshots. It holds no mutable
// state and is safe for concurrent use.
type Matcher struct {
	norm *ingredient.Normalizer
	conv *ingredient.Converter
	log  *logger.Logger
}

// New creates a matcher. A nil converter uses the built-in tables.
func New(conv *ingredient.Converter, log *logger.Logger) *Matcher {
	if conv == nil {
		conv = ingredient.DefaultConverter()
	}
	return &Matcher{norm: conv.Normalizer(), conv: conv, log: log}
}

// Converter returns the converter used for unit comparisons.
func (m *Matcher) Converter() *ingredient.Converter {
	return m.conv
}

// BestMatch locates the pantry item that best covers ing, judging each
// item by its full quantity. See BestMatchFrom.
func (m *Matcher) BestMatch(items []domain.PantryItem, ing domain.Ingredient, skip func(i int) bool) (Candidate, bool) {
	return m.BestMatchFrom(items, ing, skip, nil)
}

// BestMatchFrom locates the pantry item that best covers ing. Exact key
// matches beat substring matches, unit-compatible items beat incompatible
// ones, items holding enough beat items that hold too little, and earlier
// items win ties. skip reports items to ignore (for example ones already
// used up by a plan); balance reports what is left of item i when a plan
// has drawn on it. Either may be nil.
func (m *Matcher) BestMatchFrom(items []domain.PantryItem, ing domain.Ingredient, skip func(i int) bool, balance func(i int) float64) (Candidate, bool) {
	key := m.norm.Normalize(ing.Name)
	best := Candidate{Index: -1}
	for i, item := range items {
		if skip != nil && skip(i) {
			continue
		}
		kind := ingredient.MatchKeys(key, m.norm.Normalize(item.Name))
		if kind == ingredient.MatchNone {
			continue
		}
		cand := Candidate{
			Index:      i,
			Kind:       kind,
			Converted:  !ingredient.SameUnit(item.Unit, ing.Unit),
			Compatible: m.conv.Compatible(item.Unit, ing.Unit, ing.Name),
		}
		if cand.Compatible {
			have := item.Quantity
			if balance != nil {
				have = balance(i)
			}
			cov, _ := m.Assess(have, item.Unit, ing)
			cand.Sufficient = cov == CoverageFull
		}
		if best.Index < 0 || better(cand, best) {
			best = cand
		}
	}
	return best, best.Index >= 0
}

func better(a, b Candidate) bool {
	if a.Kind != b.Kind {
		return a.Kind > b.Kind
	}
	if a.Compatible != b.Compatible {
		return a.Compatible
	}
	if a.Sufficient != b.Sufficient {
		return a.Sufficient
	}
	return false
}

// Assess compares what a pantry item holds (have, in haveUnit) against an
// ingredient requirement. It returns the coverage and the available amount
// expressed in the ingredient's unit.
func (m *Matcher) Assess(have float64, haveUnit string, ing domain.Ingredient) (Coverage, float64) {
	avail := have
	if !ingredient.SameUnit(haveUnit, ing.Unit) {
		conv, ok := m.conv.Convert(have, haveUnit, ing.Unit, ing.Name)
		if !ok {
			return CoverageIncompatible, 0
		}
		avail = conv
	}
	if avail+epsilon >= ing.Quantity {
		return CoverageFull, avail
	}
	return CoveragePartial, avail
}

// ScoreRecipe computes the match of one recipe against a pantry.
func (m *Matcher) ScoreRecipe(pantry []domain.PantryItem, recipe domain.Recipe) MatchResult {
	res := MatchResult{
		RecipeID:           recipe.ID,
		MatchedIngredients: []string{},
		PartialMatches:     []PartialMatch{},
		MissingIngredients: []string{},
		TotalIngredients:   len(recipe.Ingredients),
	}

	for _, ing := range recipe.Ingredients {
		cand, ok := m.BestMatch(pantry, ing, nil)
		if !ok {
			res.MissingIngredients = append(res.MissingIngredients, ing.Name)
			continue
		}

		item := pantry[cand.Index]
		cov, avail := m.Assess(item.Quantity, item.Unit, ing)
		switch cov {
		case CoverageFull:
			res.MatchedIngredients = append(res.MatchedIngredients, ing.Name)
			res.MatchedCount++
		case CoveragePartial:
			res.PartialMatches = append(res.PartialMatches, PartialMatch{
				Name:         ing.Name,
				Have:         avail,
				HaveUnit:     ing.Unit,
				Needs:        ing.Quantity,
				Unit:         ing.Unit,
				MatchPercent: percentOf(avail, ing.Quantity),
			})
		case CoverageIncompatible:
			res.PartialMatches = append(res.PartialMatches, PartialMatch{
				Name:       ing.Name,
				Have:       item.Quantity,
				HaveUnit:   item.Unit,
				Needs:      ing.Quantity,
				Unit:       ing.Unit,
				MixedUnits: true,
			})
		}
	}

	if res.TotalIngredients > 0 {
		res.MatchPercentage = int(math.Round(float64(res.MatchedCount) / float64(res.TotalIngredients) * 100))
	}
	return res
}

// MatchRecipes scores every recipe and sorts by match percentage, highest
// first. Equal percentages keep their input order.
func (m *Matcher) MatchRecipes(pantry []domain.PantryItem, recipes []domain.Recipe) []ScoredRecipe {
	out := make([]ScoredRecipe, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, ScoredRecipe{Recipe: r, Match: m.ScoreRecipe(pantry, r)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Match.MatchPercentage > out[j].Match.MatchPercentage
	})
	if m.log != nil {
		m.log.Debug("matched %d recipes against %d pantry items", len(out), len(pantry))
	}
	return out
}

func percentOf(have, need float64) int {
	if need <= 0 {
		return 100
	}
	p := int(math.Floor(have / need * 100))
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}
