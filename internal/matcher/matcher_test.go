package matcher

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/logger"
)

func newMatcher() *Matcher {
	return New(nil, logger.New(logger.LevelOff, nil))
}

func item(name string, qty float64, unit string) domain.PantryItem {
	return domain.PantryItem{ID: name, Name: name, Quantity: qty, Unit: unit}
}

func TestScoreRecipe(t *testing.T) {
	m := newMatcher()
	pantry := []domain.PantryItem{
		item("flour", 2, "cup"),
		item("whole milk", 4, "oz"),
		item("eggs", 6, ""),
		item("garlic", 1, "head"),
		item("basil", 1, "bunch"),
	}
	recipe := domain.Recipe{
		ID: "r1",
		Ingredients: []domain.Ingredient{
			{Name: "flour", Quantity: 1.5, Unit: "cup"},     // matched, same unit
			{Name: "milk", Quantity: 1, Unit: "cup"},        // partial, converted: 4 oz = 0.5 cup
			{Name: "egg", Quantity: 2, Unit: "piece"},       // matched, converted
			{Name: "garlic", Quantity: 3, Unit: "cloves"},   // matched, head -> clove
			{Name: "basil", Quantity: 2, Unit: "tbsp"},      // mixed units
			{Name: "butter", Quantity: 0.5, Unit: "cup"},    // missing
		},
	}

	got := m.ScoreRecipe(pantry, recipe)
	want := MatchResult{
		RecipeID:           "r1",
		MatchedIngredients: []string{"flour", "egg", "garlic"},
		PartialMatches: []PartialMatch{
			{Name: "milk", Have: 0.5, HaveUnit: "cup", Needs: 1, Unit: "cup", MatchPercent: 50},
			{Name: "basil", Have: 1, HaveUnit: "bunch", Needs: 2, Unit: "tbsp", MixedUnits: true},
		},
		MissingIngredients: []string{"butter"},
		MatchPercentage:    50,
		MatchedCount:       3,
		TotalIngredients:   6,
	}
	if diff := cmp.Diff(want, got, approxFloats()); diff != "" {
		t.Fatalf("ScoreRecipe mismatch (-want +got):\n%s", diff)
	}
}

func TestPartialPercentFloorsAndCaps(t *testing.T) {
	m := newMatcher()
	recipe := domain.Recipe{Ingredients: []domain.Ingredient{{Name: "rice", Quantity: 3, Unit: "cup"}}}

	got := m.ScoreRecipe([]domain.PantryItem{item("rice", 2, "cup")}, recipe)
	if len(got.PartialMatches) != 1 || got.PartialMatches[0].MatchPercent != 66 {
		t.Fatalf("expected 66%% partial, got %+v", got.PartialMatches)
	}
	if got.MatchPercentage != 0 {
		t.Fatalf("partials must not count toward the recipe percentage, got %d", got.MatchPercentage)
	}
}

func TestPreferExactOverSubstring(t *testing.T) {
	m := newMatcher()
	pantry := []domain.PantryItem{
		item("green onion", 1, "piece"),
		item("onion", 3, "piece"),
	}
	cand, ok := m.BestMatch(pantry, domain.Ingredient{Name: "onions", Quantity: 2, Unit: "piece"}, nil)
	if !ok || cand.Index != 1 {
		t.Fatalf("expected exact match at index 1, got %+v ok=%v", cand, ok)
	}
}

func TestPreferCompatibleUnits(t *testing.T) {
	m := newMatcher()
	pantry := []domain.PantryItem{
		item("flour", 1, "bag"),
		item("flour", 500, "g"),
	}
	cand, ok := m.BestMatch(pantry, domain.Ingredient{Name: "flour", Quantity: 1, Unit: "cup"}, nil)
	if !ok || cand.Index != 1 || !cand.Compatible || !cand.Converted {
		t.Fatalf("expected compatible converted match at index 1, got %+v", cand)
	}
}

func TestZeroIngredientRecipe(t *testing.T) {
	got := newMatcher().ScoreRecipe(nil, domain.Recipe{ID: "empty"})
	if got.MatchPercentage != 0 || got.TotalIngredients != 0 {
		t.Fatalf("unexpected result for empty recipe: %+v", got)
	}
}

func TestMatchRecipesSortsStable(t *testing.T) {
	m := newMatcher()
	pantry := []domain.PantryItem{item("flour", 5, "cup"), item("sugar", 1, "cup")}
	recipes := []domain.Recipe{
		{ID: "none", Ingredients: []domain.Ingredient{{Name: "basil", Quantity: 1, Unit: "tbsp"}}},
		{ID: "half-a", Ingredients: []domain.Ingredient{{Name: "flour", Quantity: 1, Unit: "cup"}, {Name: "yeast", Quantity: 1, Unit: "tsp"}}},
		{ID: "full", Ingredients: []domain.Ingredient{{Name: "flour", Quantity: 1, Unit: "cup"}, {Name: "sugar", Quantity: 0.5, Unit: "cup"}}},
		{ID: "half-b", Ingredients: []domain.Ingredient{{Name: "sugar", Quantity: 1, Unit: "cup"}, {Name: "salt", Quantity: 1, Unit: "tsp"}}},
	}

	got := m.MatchRecipes(pantry, recipes)
	var ids []string
	for _, r := range got {
		ids = append(ids, r.Recipe.ID)
	}
	want := []string{"full", "half-a", "half-b", "none"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func approxFloats() cmp.Option {
	return cmp.Comparer(func(a, b float64) bool {
		d := a - b
		return d < 1e-6 && d > -1e-6
	})
}

func TestPreferSufficientItem(t *testing.T) {
	m := newMatcher()
	pantry := []domain.PantryItem{
		item("flour", 10, "g"),
		item("flour", 1, "kg"),
	}
	need := domain.Ingredient{Name: "all-purpose flour", Quantity: 1.5, Unit: "cup"}

	cand, ok := m.BestMatch(pantry, need, nil)
	if !ok || cand.Index != 1 || !cand.Sufficient {
		t.Fatalf("expected the kilogram bag, got %+v", cand)
	}

	got := m.ScoreRecipe(pantry, domain.Recipe{Ingredients: []domain.Ingredient{need}})
	if got.MatchedCount != 1 || len(got.PartialMatches) != 0 {
		t.Fatalf("flour should be fully matched, got %+v", got)
	}
}

func TestBestMatchFromUsesBalance(t *testing.T) {
	m := newMatcher()
	pantry := []domain.PantryItem{item("rice", 2, "cup"), item("rice", 1, "cup")}
	left := []float64{0.5, 1}

	cand, ok := m.BestMatchFrom(pantry, domain.Ingredient{Name: "rice", Quantity: 1, Unit: "cup"}, nil, func(i int) float64 { return left[i] })
	if !ok || cand.Index != 1 {
		t.Fatalf("expected the item with enough left, got %+v", cand)
	}

	// With nothing sufficient the earlier item still wins.
	left[1] = 0.25
	cand, _ = m.BestMatchFrom(pantry, domain.Ingredient{Name: "rice", Quantity: 1, Unit: "cup"}, nil, func(i int) float64 { return left[i] })
	if cand.Index != 0 || cand.Sufficient {
		t.Fatalf("expected the first partial item, got %+v", cand)
	}
}
