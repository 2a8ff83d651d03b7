package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/ottoplan/internal/deduction"
	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/matcher"
	"github.com/hammamikhairi/ottoplan/internal/overlap"
)

func render(fn func(p *Printer)) string {
	var buf bytes.Buffer
	fn(New(&buf))
	return buf.String()
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestPantry(t *testing.T) {
	out := render(func(p *Printer) {
		p.Pantry(&domain.Pantry{Items: []domain.PantryItem{
			{ID: "0123456789abcdef", Name: "flour", Quantity: 2.5, Unit: "cup"},
			{ID: "x", Name: "eggs", Quantity: 6},
		}})
	})
	assertContains(t, out, "Pantry", "flour", "2½ cup", "01234567", "eggs")
	if strings.Contains(out, "0123456789") {
		t.Errorf("id not shortened:\n%s", out)
	}
}

func TestPantryEmpty(t *testing.T) {
	out := render(func(p *Printer) { p.Pantry(&domain.Pantry{}) })
	assertContains(t, out, "empty")
}

func TestMatches(t *testing.T) {
	out := render(func(p *Printer) {
		p.Matches([]matcher.ScoredRecipe{{
			Recipe: domain.Recipe{Name: "Pancakes"},
			Match: matcher.MatchResult{
				MatchPercentage:    50,
				MatchedCount:       1,
				TotalIngredients:   2,
				PartialMatches:     []matcher.PartialMatch{{Name: "milk", Have: 0.5, HaveUnit: "cup", Needs: 1, Unit: "cup", MatchPercent: 50}},
				MissingIngredients: []string{"eggs"},
			},
		}})
	})
	assertContains(t, out, " 50%", "Pancakes", "(1/2)", "milk", "½ cup", "missing: eggs")
}

func TestCook(t *testing.T) {
	r := &domain.Recipe{Name: "Pancakes"}
	tests := []struct {
		name string
		res  deduction.Result
		herr error
		want []string
	}{
		{
			name: "committed",
			res: deduction.Result{State: deduction.StateCommitted, Plan: []deduction.Entry{
				{PantryName: "flour", DeductQty: 1.5, Unit: "cup", RemainingQty: 0.5},
			}},
			want: []string{"Pancakes cooked", "1½ cup flour", "½ cup left"},
		},
		{
			name: "blocked",
			res: deduction.Result{State: deduction.StateInsufficient, Insufficient: []deduction.Shortfall{
				{Name: "eggs", Needed: 2, Reason: matcher.CoverageMissing},
				{Name: "milk", Needed: 1, Available: 0.5, Unit: "cup", Reason: matcher.CoveragePartial},
			}},
			want: []string{"--force", "eggs: missing", "milk: have ½ cup, needs 1 cup"},
		},
		{
			name: "already cooked",
			res:  deduction.Result{State: deduction.StateAlreadyCooked, AlreadyCooked: true},
			want: []string{"already cooked"},
		},
		{
			name: "history failure",
			res:  deduction.Result{State: deduction.StateCommitted},
			herr: errors.New("disk full"),
			want: []string{"not recorded: disk full"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := render(func(p *Printer) { p.Cook(r, tc.res, tc.herr) })
			assertContains(t, out, tc.want...)
		})
	}
}

func TestPlan(t *testing.T) {
	plan := &domain.WeekPlan{ID: "current", WeekOf: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)}
	plan.Place(domain.Monday, domain.Dinner, "pancakes")
	plan.Slot(domain.Monday, domain.Dinner).Cooked = true
	plan.Place(domain.Friday, domain.Lunch, "unknown-id")

	out := render(func(p *Printer) {
		p.Plan(plan, map[string]string{"pancakes": "Buttermilk Pancakes"})
	})
	assertContains(t, out, "week of Oct 12", "monday", "sunday", "dinner", "Buttermilk Pancakes ✓", "unknown-id")
}

func TestShared(t *testing.T) {
	out := render(func(p *Printer) {
		p.Shared(overlap.Report{
			TotalRecipes:           3,
			TotalSharedIngredients: 1,
			TopSharedIngredients: []overlap.SharedIngredient{
				{Name: "chicken", RecipeCount: 2, QuantityDisplay: "500 g, 1 lb", HasMultipleUnits: true},
			},
		})
	})
	assertContains(t, out, "3 recipes, 1 shared", "chicken", "x2", "500 g, 1 lb (mixed units)")
}

func TestShopping(t *testing.T) {
	out := render(func(p *Printer) {
		p.Shopping([]overlap.ShoppingLine{{Name: "rice", Quantity: 1, Unit: "cup", InPantry: 0.5}})
	})
	assertContains(t, out, "Shopping list", "rice", "1 cup", "½ cup")

	out = render(func(p *Printer) { p.Shopping(nil) })
	assertContains(t, out, "nothing to buy")
}

func TestHistory(t *testing.T) {
	out := render(func(p *Printer) {
		p.History("Pancakes", &domain.HistorySummary{CookedCount: 3, Ratings: []int{5, 4, 5}, AverageRating: 14.0 / 3})
	})
	assertContains(t, out, "cooked 3 times", "★★★★★ x2", "★★★★ x1", "average 4.7")

	out = render(func(p *Printer) { p.History("Soup", &domain.HistorySummary{CookedCount: 1, Ratings: []int{}}) })
	assertContains(t, out, "never rated")
}
