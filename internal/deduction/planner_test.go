package deduction

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/ingredient"
	"github.com/hammamikhairi/ottoplan/internal/logger"
	"github.com/hammamikhairi/ottoplan/internal/matcher"
)

func newPlanner() *Planner {
	log := logger.New(logger.LevelOff, nil)
	return New(matcher.New(nil, log), log)
}

func pantryOf(items ...domain.PantryItem) *domain.Pantry {
	return &domain.Pantry{Items: items}
}

func stock(id, name string, qty float64, unit string) domain.PantryItem {
	return domain.PantryItem{ID: id, Name: name, Quantity: qty, Unit: unit}
}

func recipeOf(ings ...domain.Ingredient) domain.Recipe {
	return domain.Recipe{ID: "r", Name: "test", Ingredients: ings}
}

func TestFlourScenario(t *testing.T) {
	p := pantryOf(stock("f", "flour", 2, "cup"))
	res := newPlanner().Run(recipeOf(domain.Ingredient{Name: "flour", Quantity: 1.5, Unit: "cup"}), p, Options{})

	if !res.Committed || res.State != StateCommitted {
		t.Fatalf("expected commit, got %+v", res)
	}
	want := []domain.PantryItem{stock("f", "flour", 0.5, "cup")}
	if diff := cmp.Diff(want, p.Items, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("pantry mismatch (-want +got):\n%s", diff)
	}
}

func TestMilkScenario(t *testing.T) {
	p := pantryOf(stock("m", "milk", 16, "oz"))
	res := newPlanner().Run(recipeOf(domain.Ingredient{Name: "milk", Quantity: 1, Unit: "cup"}), p, Options{})

	if !res.Committed {
		t.Fatalf("expected commit, got %+v", res)
	}
	if len(res.Plan) != 1 || !res.Plan[0].Converted || res.Plan[0].Unit != "oz" {
		t.Fatalf("unexpected plan: %+v", res.Plan)
	}
	if math.Abs(res.Plan[0].DeductQty-8) > 1e-6 {
		t.Fatalf("expected 8 oz deducted, got %v", res.Plan[0].DeductQty)
	}
	if math.Abs(p.Items[0].Quantity-8) > 1e-6 {
		t.Fatalf("expected 8 oz left, got %v", p.Items[0].Quantity)
	}
}

func TestBasilMissing(t *testing.T) {
	recipe := recipeOf(
		domain.Ingredient{Name: "flour", Quantity: 1, Unit: "cup"},
		domain.Ingredient{Name: "basil", Quantity: 2, Unit: "tbsp"},
	)

	t.Run("blocked", func(t *testing.T) {
		p := pantryOf(stock("f", "flour", 2, "cup"))
		res := newPlanner().Run(recipe, p, Options{})
		if res.CanProceed || res.Committed || res.State != StateInsufficient {
			t.Fatalf("expected insufficient, got %+v", res)
		}
		if len(res.Plan) != 0 {
			t.Fatalf("blocked attempts carry no plan, got %+v", res.Plan)
		}
		want := []Shortfall{{Name: "basil", Needed: 2, Unit: "tbsp", Reason: matcher.CoverageMissing}}
		if diff := cmp.Diff(want, res.Insufficient); diff != "" {
			t.Fatalf("shortfall mismatch (-want +got):\n%s", diff)
		}
		if p.Items[0].Quantity != 2 {
			t.Fatalf("pantry must not change, got %+v", p.Items)
		}
	})

	t.Run("forced", func(t *testing.T) {
		p := pantryOf(stock("f", "flour", 2, "cup"))
		res := newPlanner().Run(recipe, p, Options{ForceDeduct: true})
		if !res.CanProceed || !res.Committed {
			t.Fatalf("expected forced commit, got %+v", res)
		}
		if len(res.Insufficient) != 1 {
			t.Fatalf("forced commits still report shortfalls, got %+v", res.Insufficient)
		}
		if p.Items[0].Quantity != 1 {
			t.Fatalf("expected 1 cup flour left, got %+v", p.Items)
		}
	})
}

func TestForcedPartialDrainsItem(t *testing.T) {
	p := pantryOf(stock("s", "sugar", 0.5, "cup"), stock("b", "butter", 1, "stick"))
	res := newPlanner().Run(recipeOf(domain.Ingredient{Name: "sugar", Quantity: 1, Unit: "cup"}), p, Options{ForceDeduct: true})

	if !res.Committed || len(res.Plan) != 1 || !res.Plan[0].Partial {
		t.Fatalf("expected one partial entry, got %+v", res)
	}
	if len(p.Items) != 1 || p.Items[0].ID != "b" {
		t.Fatalf("drained item should be removed, got %+v", p.Items)
	}
	if got := res.Insufficient[0].Available; math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected 0.5 cup available, got %v", got)
	}
}

func TestConservation(t *testing.T) {
	p := pantryOf(
		stock("b", "butter", 2, "stick"),
		stock("f", "flour", 500, "g"),
		stock("e", "eggs", 6, ""),
	)
	before := p.Clone()
	recipe := recipeOf(
		domain.Ingredient{Name: "butter", Quantity: 4, Unit: "tbsp"},
		domain.Ingredient{Name: "flour", Quantity: 2, Unit: "cup"},
		domain.Ingredient{Name: "egg", Quantity: 2, Unit: "piece"},
		domain.Ingredient{Name: "unsalted butter", Quantity: 2, Unit: "tbsp"},
	)
	conv := ingredient.DefaultConverter()

	res := newPlanner().Run(recipe, p, Options{})
	if !res.Committed {
		t.Fatalf("expected commit, got %+v", res)
	}

	deducted := make(map[string]float64)
	for _, e := range res.Plan {
		deducted[e.PantryItemID] += e.DeductQty
	}
	needed := make(map[string]float64)
	for i, ing := range recipe.Ingredients {
		item := before.Items[[]int{0, 1, 2, 0}[i]]
		q, ok := conv.Convert(ing.Quantity, ing.Unit, item.Unit, ing.Name)
		if !ok {
			t.Fatalf("%s: %s -> %s should convert", ing.Name, ing.Unit, item.Unit)
		}
		needed[item.ID] += q
	}

	for _, old := range before.Items {
		idx := p.Find(old.ID)
		if idx < 0 {
			t.Fatalf("item %s unexpectedly removed", old.ID)
		}
		diff := old.Quantity - p.Items[idx].Quantity
		if math.Abs(diff-needed[old.ID]) > 1e-6 || math.Abs(diff-deducted[old.ID]) > 1e-6 {
			t.Fatalf("item %s: removed %v, needed %v, planned %v", old.ID, diff, needed[old.ID], deducted[old.ID])
		}
	}
}

func TestSharedItemWorkingBalance(t *testing.T) {
	p := pantryOf(stock("o", "olive oil", 3, "tbsp"))
	recipe := recipeOf(
		domain.Ingredient{Name: "olive oil", Quantity: 2, Unit: "tbsp"},
		domain.Ingredient{Name: "olive oil", Quantity: 2, Unit: "tbsp"},
	)

	res := newPlanner().Run(recipe, p, Options{CheckOnly: true})
	if len(res.Plan) != 1 || len(res.Insufficient) != 1 {
		t.Fatalf("second draw should fall short, got %+v", res)
	}
	if res.Insufficient[0].Available != 1 {
		t.Fatalf("expected 1 tbsp left for the second draw, got %v", res.Insufficient[0].Available)
	}
}

func TestDrawsFromSufficientItem(t *testing.T) {
	p := pantryOf(stock("a", "flour", 0.25, "cup"), stock("b", "flour", 5, "cup"))
	res := newPlanner().Run(recipeOf(domain.Ingredient{Name: "flour", Quantity: 1, Unit: "cup"}), p, Options{})

	if !res.Committed {
		t.Fatalf("expected commit, got state=%s short=%+v", res.State, res.Insufficient)
	}
	want := []domain.PantryItem{stock("a", "flour", 0.25, "cup"), stock("b", "flour", 4, "cup")}
	if diff := cmp.Diff(want, p.Items, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("pantry mismatch (-want +got):\n%s", diff)
	}
}

func TestSufficiencyFollowsWorkingBalance(t *testing.T) {
	p := pantryOf(stock("a", "sugar", 2, "cup"), stock("b", "sugar", 1.5, "cup"))
	recipe := recipeOf(
		domain.Ingredient{Name: "sugar", Quantity: 1.5, Unit: "cup"},
		domain.Ingredient{Name: "sugar", Quantity: 1, Unit: "cup"},
	)

	res := newPlanner().Run(recipe, p, Options{CheckOnly: true})
	if !res.CanProceed || len(res.Insufficient) != 0 {
		t.Fatalf("expected both draws covered, got %+v", res)
	}
	got := []string{res.Plan[0].PantryItemID, res.Plan[1].PantryItemID}
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Fatalf("draw order mismatch (-want +got):\n%s", diff)
	}
}

func TestZeroRemoval(t *testing.T) {
	p := pantryOf(
		stock("a", "tomato", 2, "piece"),
		stock("b", "onion", 1, "piece"),
		stock("c", "garlic", 3, "clove"),
	)
	recipe := recipeOf(
		domain.Ingredient{Name: "tomatoes", Quantity: 2, Unit: "piece"},
		domain.Ingredient{Name: "garlic", Quantity: 3, Unit: "cloves"},
	)

	res := newPlanner().Run(recipe, p, Options{})
	if !res.Committed {
		t.Fatalf("expected commit, got %+v", res)
	}
	if len(p.Items) != 1 || p.Items[0].ID != "b" {
		t.Fatalf("only the onion should remain, got %+v", p.Items)
	}
	for _, e := range res.Plan {
		if e.RemainingQty != 0 {
			t.Fatalf("expected exact zero remainder, got %+v", e)
		}
	}
}

func TestCheckOnlyPurity(t *testing.T) {
	recipes := []domain.Recipe{
		recipeOf(domain.Ingredient{Name: "flour", Quantity: 1, Unit: "cup"}),
		recipeOf(domain.Ingredient{Name: "flour", Quantity: 9, Unit: "cup"}),
		recipeOf(domain.Ingredient{Name: "basil", Quantity: 1, Unit: "tbsp"}),
		recipeOf(domain.Ingredient{Name: "flour", Quantity: 2, Unit: "cup"}),
	}
	for _, force := range []bool{false, true} {
		for _, r := range recipes {
			p := pantryOf(stock("f", "flour", 2, "cup"), stock("m", "milk", 1, "l"))
			before := p.Clone()
			slot := &domain.MealSlot{RecipeID: r.ID}

			res := newPlanner().Run(r, p, Options{CheckOnly: true, ForceDeduct: force, Slot: slot})
			if res.Committed || res.State != StatePreview {
				t.Fatalf("check-only must not commit, got %+v", res)
			}
			if diff := cmp.Diff(before, p); diff != "" {
				t.Fatalf("pantry changed (-before +after):\n%s", diff)
			}
			if slot.Cooked {
				t.Fatal("check-only must not mark the slot")
			}
		}
	}
}

func TestIdempotentCookMarking(t *testing.T) {
	p := pantryOf(stock("f", "flour", 4, "cup"))
	slot := &domain.MealSlot{RecipeID: "r"}
	now := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	recipe := recipeOf(domain.Ingredient{Name: "flour", Quantity: 1, Unit: "cup"})
	planner := newPlanner()

	first := planner.Run(recipe, p, Options{Slot: slot, Now: now})
	if !first.Committed || !slot.Cooked || !slot.CookedAt.Equal(now) {
		t.Fatalf("first cook should commit and mark, got %+v slot=%+v", first, slot)
	}
	after := p.Clone()

	second := planner.Run(recipe, p, Options{Slot: slot, Now: now.Add(time.Hour)})
	if !second.AlreadyCooked || second.Committed || second.State != StateAlreadyCooked {
		t.Fatalf("second cook should be rejected, got %+v", second)
	}
	if diff := cmp.Diff(after, p); diff != "" {
		t.Fatalf("pantry changed on repeat (-want +got):\n%s", diff)
	}
	if !slot.CookedAt.Equal(now) {
		t.Fatalf("cooked time overwritten: %v", slot.CookedAt)
	}
}

func TestZeroIngredientRecipe(t *testing.T) {
	p := pantryOf(stock("f", "flour", 1, "cup"))
	res := newPlanner().Run(domain.Recipe{ID: "empty"}, p, Options{})
	if !res.CanProceed || !res.Committed || len(res.Plan) != 0 {
		t.Fatalf("empty recipe should be trivially cookable, got %+v", res)
	}
	if p.Items[0].Quantity != 1 {
		t.Fatalf("pantry must not change, got %+v", p.Items)
	}
}

func TestIncompatibleUnitsBlock(t *testing.T) {
	p := pantryOf(stock("b", "basil", 1, "bunch"))
	res := newPlanner().Run(recipeOf(domain.Ingredient{Name: "basil", Quantity: 2, Unit: "tbsp"}), p, Options{})
	if res.CanProceed {
		t.Fatalf("incompatible units should block, got %+v", res)
	}
	if len(res.Insufficient) != 1 || res.Insufficient[0].Reason != matcher.CoverageIncompatible {
		t.Fatalf("unexpected shortfall: %+v", res.Insufficient)
	}
}

func TestApplyByID(t *testing.T) {
	p := pantryOf(stock("a", "x", 1, ""), stock("b", "y", 2, ""), stock("c", "z", 3, ""))
	Apply(p, []Entry{
		{PantryItemID: "a", RemainingQty: 0},
		{PantryItemID: "c", RemainingQty: 1},
	})
	want := []domain.PantryItem{stock("b", "y", 2, ""), stock("c", "z", 1, "")}
	if diff := cmp.Diff(want, p.Items); diff != "" {
		t.Fatalf("Apply mismatch (-want +got):\n%s", diff)
	}
}
