package overlap

import (
	"sort"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/ingredient"
	"github.com/hammamikhairi/ottoplan/internal/matcher"
)

// ShoppingLine is an outstanding need for the plan's uncooked meals.
type ShoppingLine struct {
	Key      string
	Name     string
	Quantity float64
	Unit     string
	// InPantry is what the pantry already covers, in Unit.
	InPantry float64
	Recipes  []string
}

type need struct {
	line  ShoppingLine
	total float64
	seen  map[string]bool
}

// ShoppingList sums the ingredients of every uncooked filled slot, per
// ingredient key and unit, and subtracts what the pantry holds. A recipe
// planned twice is needed twice. Lines the pantry fully covers are omitted;
// the rest are sorted by name then unit.
func (a *Analyzer) ShoppingList(plan *domain.WeekPlan, recipes map[string]domain.Recipe, pantry *domain.Pantry) []ShoppingLine {
	if plan == nil {
		return nil
	}

	needs := make(map[[2]string]*need)
	var order [][2]string
	plan.Filled(func(d domain.Day, m domain.Meal, slot *domain.MealSlot) {
		if slot.Cooked {
			return
		}
		r, ok := recipes[slot.RecipeID]
		if !ok {
			return
		}
		for _, ing := range r.Ingredients {
			key := a.norm.Normalize(ing.Name)
			if key == "" || ing.Quantity <= 0 {
				continue
			}
			unit := ingredient.Canonical(ing.Unit)
			k := [2]string{key, unit}
			n, ok := needs[k]
			if !ok {
				n = &need{line: ShoppingLine{Key: key, Name: ing.Name, Unit: unit}, seen: make(map[string]bool)}
				needs[k] = n
				order = append(order, k)
			}
			n.total += ing.Quantity
			if !n.seen[r.ID] {
				n.seen[r.ID] = true
				n.line.Recipes = append(n.line.Recipes, r.ID)
			}
		}
	})

	var items []domain.PantryItem
	if pantry != nil {
		items = pantry.Items
	}
	remaining := make([]float64, len(items))
	for i, it := range items {
		remaining[i] = it.Quantity
	}
	exhausted := func(i int) bool { return remaining[i] <= 1e-9 }

	var out []ShoppingLine
	for _, k := range order {
		n := needs[k]
		want := domain.Ingredient{Name: n.line.Key, Quantity: n.total, Unit: n.line.Unit}
		covered := a.cover(items, remaining, exhausted, want)
		if covered+1e-9 >= n.total {
			continue
		}
		n.line.InPantry = covered
		n.line.Quantity = n.total - covered
		out = append(out, n.line)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		return out[i].Unit < out[j].Unit
	})
	return out
}

// cover draws want from the best pantry match, updating remaining, and
// returns how much was covered in want's unit.
func (a *Analyzer) cover(items []domain.PantryItem, remaining []float64, exhausted func(int) bool, want domain.Ingredient) float64 {
	cand, ok := a.match.BestMatchFrom(items, want, exhausted, func(i int) float64 { return remaining[i] })
	if !ok || !cand.Compatible {
		return 0
	}
	item := items[cand.Index]
	cov, avail := a.match.Assess(remaining[cand.Index], item.Unit, want)
	switch cov {
	case matcher.CoverageFull:
		used, ok := a.match.Converter().Convert(want.Quantity, want.Unit, item.Unit, want.Name)
		if !ok || ingredient.SameUnit(want.Unit, item.Unit) {
			used = want.Quantity
		}
		remaining[cand.Index] -= used
		return want.Quantity
	case matcher.CoveragePartial:
		remaining[cand.Index] = 0
		return avail
	}
	return 0
}
