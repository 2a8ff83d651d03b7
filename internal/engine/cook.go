package engine

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/ottoplan/internal/deduction"
	"github.com/hammamikhairi/ottoplan/internal/domain"
)

// SlotRef points at one cell of a saved plan.
type SlotRef struct {
	PlanID string
	Day    domain.Day
	Meal   domain.Meal
}

// CookRequest describes a cook attempt. With a Slot the recipe is the one
// planned there and the slot is marked cooked; otherwise RecipeID is cooked
// off-plan.
type CookRequest struct {
	RecipeID    string
	Slot        *SlotRef
	ForceDeduct bool
	CheckOnly   bool
	Rating      int // 0 = unrated
	Notes       string
}

// CookOutcome reports a cook attempt. HistoryErr is set when the meal was
// cooked and saved but recording it in the history failed; the deduction
// stands.
type CookOutcome struct {
	Recipe     *domain.Recipe
	Result     deduction.Result
	Pantry     *domain.Pantry
	HistoryErr error
}

// Cook runs a cook attempt as a saga:
//
//  1. commit the pantry deductions (versioned; a concurrent edit returns
//     ErrVersionConflict and nothing is written),
//  2. save the plan with the slot marked cooked, restoring the pre-cook
//     pantry if that fails,
//  3. record the cooking history, whose failure is reported in the outcome
//     and never undoes steps 1 and 2.
//
// Insufficient stock, check-only attempts and already cooked slots write
// nothing and are reported in the outcome, not as errors.
func (e *Engine) Cook(ctx context.Context, user string, req CookRequest) (*CookOutcome, error) {
	if req.Rating < 0 || req.Rating > 5 {
		return nil, domain.ErrInvalidRating
	}

	var (
		pantry *domain.Pantry
		plan   *domain.WeekPlan
		slot   *domain.MealSlot
		recipe *domain.Recipe
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		pantry, err = e.LoadPantry(gctx, user)
		return err
	})
	g.Go(func() error {
		recipeID := req.RecipeID
		if req.Slot != nil {
			var err error
			plan, err = e.LoadPlan(gctx, user, req.Slot.PlanID)
			if err != nil {
				return err
			}
			slot = plan.Slot(req.Slot.Day, req.Slot.Meal)
			if slot == nil {
				return fmt.Errorf("slot %s %s: %w", req.Slot.Day, req.Slot.Meal, domain.ErrNotFound)
			}
			if recipeID != "" && recipeID != slot.RecipeID {
				return &domain.ValidationError{Field: "recipe", Message: fmt.Sprintf("slot holds %s, not %s", slot.RecipeID, recipeID)}
			}
			recipeID = slot.RecipeID
		}
		r, err := e.recipes.Get(gctx, user, recipeID)
		if err != nil {
			return fmt.Errorf("getting recipe: %w", err)
		}
		recipe = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	before := pantry.Clone()
	res := e.planner.Run(*recipe, pantry, deduction.Options{
		ForceDeduct: req.ForceDeduct,
		CheckOnly:   req.CheckOnly,
		Slot:        slot,
		Now:         e.now(),
	})
	out := &CookOutcome{Recipe: recipe, Result: res, Pantry: pantry}
	if !res.Committed {
		e.log.Debug("cook %s: %s", recipe.ID, res.State)
		return out, nil
	}

	if err := e.SavePantry(ctx, user, pantry); err != nil {
		return nil, err
	}

	if plan != nil {
		if err := e.SavePlan(ctx, user, plan); err != nil {
			if cerr := e.restorePantry(ctx, user, before, pantry.Version); cerr != nil {
				e.log.Error("cook %s: restoring pantry failed: %v", recipe.ID, cerr)
				return nil, errors.Join(err, cerr)
			}
			e.log.Warn("cook %s: plan save failed, pantry restored: %v", recipe.ID, err)
			return nil, err
		}
	}

	if err := e.history.Record(ctx, user, recipe.ID, req.Rating, req.Notes); err != nil {
		e.log.Warn("cook %s: history not recorded: %v", recipe.ID, err)
		out.HistoryErr = err
	}

	e.log.Info("cooked %s: %d deductions, %d short", recipe.Name, len(res.Plan), len(res.Insufficient))
	return out, nil
}

// restorePantry writes back the pre-cook snapshot over the version the cook
// committed.
func (e *Engine) restorePantry(ctx context.Context, user string, before *domain.Pantry, committed int64) error {
	restore := before.Clone()
	restore.Version = committed
	return e.SavePantry(ctx, user, restore)
}
