// Package engine orchestrates pantry, meal plan and cook operations over a
// document store.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/ottoplan/internal/deduction"
	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/ingredient"
	"github.com/hammamikhairi/ottoplan/internal/logger"
	"github.com/hammamikhairi/ottoplan/internal/matcher"
	"github.com/hammamikhairi/ottoplan/internal/overlap"
)

// pantryDocID is the single pantry document per user.
const pantryDocID = "default"

// Option configures the engine.
type Option func(*Engine)

// WithConverter sets the converter used for matching and deduction.
func WithConverter(c *ingredient.Converter) Option {
	return func(e *Engine) {
		e.conv = c
	}
}

// WithClock sets the time source for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithRetries sets how many times a pantry edit is retried after a version
// conflict.
func WithRetries(n int) Option {
	return func(e *Engine) {
		e.retries = n
	}
}

// RecipeLister is an optional interface a RecipeSource can satisfy to load
// every recipe in one call.
type RecipeLister interface {
	All(ctx context.Context, user string) ([]domain.Recipe, error)
}

// Engine runs the meal planner's operations. It depends only on interfaces
// and is fully testable with in-memory adapters.
type Engine struct {
	store    domain.DocumentStore
	recipes  domain.RecipeSource
	history  domain.HistoryRecorder
	log      *logger.Logger
	conv     *ingredient.Converter
	now      func() time.Time
	retries  int
	match    *matcher.Matcher
	planner  *deduction.Planner
	analyzer *overlap.Analyzer
}

// New creates an engine with the given dependencies and options.
func New(store domain.DocumentStore, recipes domain.RecipeSource, history domain.HistoryRecorder, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		recipes: recipes,
		history: history,
		log:     log,
		now:     time.Now,
		retries: 3,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.match = matcher.New(e.conv, log)
	e.planner = deduction.New(e.match, log)
	e.analyzer = overlap.New(e.match, log)
	return e
}

// ListRecipes returns all available recipes.
func (e *Engine) ListRecipes(ctx context.Context, user string) ([]domain.RecipeSummary, error) {
	return e.recipes.List(ctx, user)
}

// GetRecipe returns a full recipe by ID.
func (e *Engine) GetRecipe(ctx context.Context, user, id string) (*domain.Recipe, error) {
	return e.recipes.Get(ctx, user, id)
}

// SearchRecipes returns recipes matching a free-text query.
func (e *Engine) SearchRecipes(ctx context.Context, user, query string) ([]domain.RecipeSummary, error) {
	return e.recipes.Search(ctx, user, query)
}

// MatchRecipes scores every recipe against the user's pantry, best first.
func (e *Engine) MatchRecipes(ctx context.Context, user string) ([]matcher.ScoredRecipe, error) {
	var (
		pantry  *domain.Pantry
		recipes []domain.Recipe
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		pantry, err = e.LoadPantry(gctx, user)
		return err
	})
	g.Go(func() (err error) {
		recipes, err = e.allRecipes(gctx, user)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return e.match.MatchRecipes(pantry.Items, recipes), nil
}

// History returns the cooking history summary of a recipe.
func (e *Engine) History(ctx context.Context, user, recipeID string) (*domain.HistorySummary, error) {
	return e.history.Read(ctx, user, recipeID)
}

func (e *Engine) allRecipes(ctx context.Context, user string) ([]domain.Recipe, error) {
	if l, ok := e.recipes.(RecipeLister); ok {
		return l.All(ctx, user)
	}
	sums, err := e.recipes.List(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	out := make([]domain.Recipe, 0, len(sums))
	for _, s := range sums {
		r, err := e.recipes.Get(ctx, user, s.ID)
		if err != nil {
			return nil, fmt.Errorf("getting recipe %s: %w", s.ID, err)
		}
		out = append(out, *r)
	}
	return out, nil
}

func (e *Engine) recipeMap(ctx context.Context, user string) (map[string]domain.Recipe, error) {
	all, err := e.allRecipes(ctx, user)
	if err != nil {
		return nil, err
	}
	m := make(map[string]domain.Recipe, len(all))
	for _, r := range all {
		m[r.ID] = r
	}
	return m, nil
}

// AnalyzePlan reports the ingredients shared by the plan's recipes.
func (e *Engine) AnalyzePlan(ctx context.Context, user, planID string, limit int) (overlap.Report, error) {
	var (
		plan    *domain.WeekPlan
		recipes map[string]domain.Recipe
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		plan, err = e.LoadPlan(gctx, user, planID)
		return err
	})
	g.Go(func() (err error) {
		recipes, err = e.recipeMap(gctx, user)
		return err
	})
	if err := g.Wait(); err != nil {
		return overlap.Report{}, err
	}
	return e.analyzer.Analyze(plan, recipes, limit), nil
}

// ShoppingList returns what to buy for the plan's uncooked meals.
func (e *Engine) ShoppingList(ctx context.Context, user, planID string) ([]overlap.ShoppingLine, error) {
	var (
		plan    *domain.WeekPlan
		recipes map[string]domain.Recipe
		pantry  *domain.Pantry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		plan, err = e.LoadPlan(gctx, user, planID)
		return err
	})
	g.Go(func() (err error) {
		recipes, err = e.recipeMap(gctx, user)
		return err
	})
	g.Go(func() (err error) {
		pantry, err = e.LoadPantry(gctx, user)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return e.analyzer.ShoppingList(plan, recipes, pantry), nil
}

// isConflict reports whether err is a stale-version write.
func isConflict(err error) bool {
	return errors.Is(err, domain.ErrVersionConflict)
}

func pantryKey(user string) domain.DocKey {
	return domain.DocKey{User: user, Collection: domain.CollectionPantry, ID: pantryDocID}
}

func planKey(user, planID string) domain.DocKey {
	return domain.DocKey{User: user, Collection: domain.CollectionMealPlans, ID: planID}
}
