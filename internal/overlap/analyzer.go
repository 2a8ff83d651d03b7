// Package overlap aggregates ingredient usage across a weekly meal plan.
package overlap

import (
	"sort"
	"strings"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/ingredient"
	"github.com/hammamikhairi/ottoplan/internal/logger"
	"github.com/hammamikhairi/ottoplan/internal/matcher"
)

// SharedIngredient is one ingredient key aggregated over the plan.
type SharedIngredient struct {
	Key         string
	Name        string
	RecipeCount int
	// TotalQuantityByUnit sums quantities per canonical unit.
	TotalQuantityByUnit map[string]float64
	// QuantityDisplay is the summed quantity, or the per-unit amounts
	// listed side by side when HasMultipleUnits is set.
	QuantityDisplay  string
	HasMultipleUnits bool
	Recipes          []string
}

// Report is the result of Analyze.
type Report struct {
	TotalRecipes           int
	TotalSharedIngredients int
	TopSharedIngredients   []SharedIngredient
}

// Analyzer computes plan-wide aggregates. It holds no mutable state.
type Analyzer struct {
	norm  *ingredient.Normalizer
	match *matcher.Matcher
	log   *logger.Logger
}

// New creates an analyzer that groups names and nets the pantry with m.
func New(m *matcher.Matcher, log *logger.Logger) *Analyzer {
	return &Analyzer{norm: m.Converter().Normalizer(), match: m, log: log}
}

type aggregate struct {
	item    SharedIngredient
	recipes map[string]bool
	units   []string // canonical units in first-seen order
}

// Analyze scans every filled slot and reports ingredients used by two or
// more distinct recipes, most shared first. A recipe placed in several
// slots counts once. limit <= 0 returns every shared ingredient.
func (a *Analyzer) Analyze(plan *domain.WeekPlan, recipes map[string]domain.Recipe, limit int) Report {
	ids := a.distinctRecipes(plan, recipes)

	byKey := make(map[string]*aggregate)
	var order []string
	for _, id := range ids {
		for _, ing := range recipes[id].Ingredients {
			key := a.norm.Normalize(ing.Name)
			if key == "" {
				continue
			}
			agg, ok := byKey[key]
			if !ok {
				agg = &aggregate{
					item:    SharedIngredient{Key: key, Name: ing.Name, TotalQuantityByUnit: make(map[string]float64)},
					recipes: make(map[string]bool),
				}
				byKey[key] = agg
				order = append(order, key)
			}
			if !agg.recipes[id] {
				agg.recipes[id] = true
				agg.item.Recipes = append(agg.item.Recipes, id)
			}
			unit := ingredient.Canonical(ing.Unit)
			if _, seen := agg.item.TotalQuantityByUnit[unit]; !seen {
				agg.units = append(agg.units, unit)
			}
			agg.item.TotalQuantityByUnit[unit] += ing.Quantity
		}
	}

	var shared []SharedIngredient
	for _, key := range order {
		agg := byKey[key]
		if len(agg.recipes) < 2 {
			continue
		}
		agg.item.RecipeCount = len(agg.recipes)
		agg.item.HasMultipleUnits = len(agg.units) > 1
		agg.item.QuantityDisplay = display(agg)
		shared = append(shared, agg.item)
	}

	sort.SliceStable(shared, func(i, j int) bool {
		if shared[i].RecipeCount != shared[j].RecipeCount {
			return shared[i].RecipeCount > shared[j].RecipeCount
		}
		ti, tj := rawTotal(shared[i]), rawTotal(shared[j])
		if ti != tj {
			return ti > tj
		}
		return shared[i].Key < shared[j].Key
	})

	rep := Report{TotalRecipes: len(ids), TotalSharedIngredients: len(shared)}
	if limit > 0 && len(shared) > limit {
		shared = shared[:limit]
	}
	rep.TopSharedIngredients = shared
	a.log.Debug("analyzed %d recipes: %d shared ingredients", rep.TotalRecipes, rep.TotalSharedIngredients)
	return rep
}

// distinctRecipes returns the recipe ids placed in the plan in slot order,
// each once. Ids without a recipe are skipped.
func (a *Analyzer) distinctRecipes(plan *domain.WeekPlan, recipes map[string]domain.Recipe) []string {
	if plan == nil {
		return nil
	}
	seen := make(map[string]bool)
	var ids []string
	plan.Filled(func(d domain.Day, m domain.Meal, slot *domain.MealSlot) {
		if seen[slot.RecipeID] {
			return
		}
		seen[slot.RecipeID] = true
		if _, ok := recipes[slot.RecipeID]; !ok {
			a.log.Warn("plan slot %s %s references unknown recipe %s", d, m, slot.RecipeID)
			return
		}
		ids = append(ids, slot.RecipeID)
	})
	return ids
}

func display(agg *aggregate) string {
	parts := make([]string, 0, len(agg.units))
	for _, u := range agg.units {
		parts = append(parts, ingredient.Format(agg.item.TotalQuantityByUnit[u], u))
	}
	return strings.Join(parts, ", ")
}

// rawTotal orders ingredients whose quantities are in several units. It is
// never shown.
func rawTotal(s SharedIngredient) float64 {
	var t float64
	for _, q := range s.TotalQuantityByUnit {
		t += q
	}
	return t
}
