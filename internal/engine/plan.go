package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/storage"
)

// LoadPlan reads a saved weekly plan. A plan that was never saved comes
// back empty at version 0, dated to the current week.
func (e *Engine) LoadPlan(ctx context.Context, user, planID string) (*domain.WeekPlan, error) {
	plan := &domain.WeekPlan{}
	v, err := storage.GetJSON(ctx, e.store, planKey(user, planID), plan)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.WeekPlan{ID: planID, WeekOf: weekStart(e.now())}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading plan %s: %w", planID, err)
	}
	plan.ID = planID
	plan.Version = v
	return plan, nil
}

// SavePlan writes the plan if it was not changed since it was loaded.
func (e *Engine) SavePlan(ctx context.Context, user string, plan *domain.WeekPlan) error {
	v, err := storage.PutJSON(ctx, e.store, planKey(user, plan.ID), plan, plan.Version)
	if err != nil {
		return fmt.Errorf("saving plan %s: %w", plan.ID, err)
	}
	plan.Version = v
	return nil
}

// SetSlot places a recipe in a plan slot, replacing any previous one.
func (e *Engine) SetSlot(ctx context.Context, user, planID string, day domain.Day, meal domain.Meal, recipeID string) (*domain.WeekPlan, error) {
	if err := checkSlot(day, meal); err != nil {
		return nil, err
	}
	if _, err := e.recipes.Get(ctx, user, recipeID); err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}
	plan, err := e.LoadPlan(ctx, user, planID)
	if err != nil {
		return nil, err
	}
	plan.Place(day, meal, recipeID)
	if err := e.SavePlan(ctx, user, plan); err != nil {
		return nil, err
	}
	e.log.Info("plan %s: %s %s -> %s", planID, day, meal, recipeID)
	return plan, nil
}

// ClearSlot empties a plan slot.
func (e *Engine) ClearSlot(ctx context.Context, user, planID string, day domain.Day, meal domain.Meal) (*domain.WeekPlan, error) {
	if err := checkSlot(day, meal); err != nil {
		return nil, err
	}
	plan, err := e.LoadPlan(ctx, user, planID)
	if err != nil {
		return nil, err
	}
	plan.Clear(day, meal)
	if err := e.SavePlan(ctx, user, plan); err != nil {
		return nil, err
	}
	e.log.Info("plan %s: cleared %s %s", planID, day, meal)
	return plan, nil
}

func checkSlot(day domain.Day, meal domain.Meal) error {
	if !domain.ValidSlot(day, meal) {
		return &domain.ValidationError{Field: "slot", Message: fmt.Sprintf("day %d meal %d is outside the week grid", day, meal)}
	}
	return nil
}

// weekStart returns midnight of the Monday of t's week.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
