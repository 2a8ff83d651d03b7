// Package deduction plans and applies pantry deductions when a meal is
// cooked.
//
// A cook attempt moves through Planning, then either CanProceed or
// Insufficient. CheckOnly attempts stop there and report a preview; all
// others either commit the plan against the pantry in one batch or return
// without touching it. A slot that is already cooked is rejected before
// planning starts.
package deduction

import (
	"time"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/ingredient"
	"github.com/hammamikhairi/ottoplan/internal/logger"
	"github.com/hammamikhairi/ottoplan/internal/matcher"
)

const epsilon = 1e-9

// State is the terminal state of a cook attempt.
type State int

const (
	StateInsufficient State = iota
	StatePreview
	StateCommitted
	StateAlreadyCooked
)

// String returns a human-readable state.
func (s State) String() string {
	switch s {
	case StateInsufficient:
		return "insufficient"
	case StatePreview:
		return "preview"
	case StateCommitted:
		return "committed"
	case StateAlreadyCooked:
		return "already_cooked"
	default:
		return "unknown"
	}
}

// Options control a cook attempt.
type Options struct {
	// ForceDeduct consumes whatever is available even when some
	// ingredients are short.
	ForceDeduct bool
	// CheckOnly computes the plan without mutating the pantry or the slot.
	CheckOnly bool
	// Slot is the plan slot being cooked, if any. It is marked cooked on
	// commit and an already cooked slot is rejected.
	Slot *domain.MealSlot
	// Now stamps the slot; zero means time.Now().
	Now time.Time
}

// Entry is one pantry mutation of a plan. Quantities are in the pantry
// item's unit.
type Entry struct {
	PantryItemID string
	PantryName   string
	Ingredient   string
	DeductQty    float64
	Unit         string
	RemainingQty float64
	// Converted is set when the recipe used a different unit.
	Converted bool
	// Partial is set when a forced deduction took less than required.
	Partial bool
}

// Shortfall is an ingredient the pantry cannot fully cover. Available is in
// the recipe unit, 0 for missing or incompatible items.
type Shortfall struct {
	Name      string
	Needed    float64
	Available float64
	Unit      string
	Reason    matcher.Coverage
}

// Result is the outcome of a cook attempt.
type Result struct {
	State         State
	CanProceed    bool
	AlreadyCooked bool
	Committed     bool
	Plan          []Entry
	Insufficient  []Shortfall
}

// Planner builds and commits deduction plans.
type Planner struct {
	match *matcher.Matcher
	log   *logger.Logger
}

// New creates a planner that locates and compares pantry items with m.
func New(m *matcher.Matcher, log *logger.Logger) *Planner {
	return &Planner{match: m, log: log}
}

// Run plans a cook attempt for recipe against pantry and, unless the
// attempt is check-only or blocked by insufficient stock, commits it. On
// commit the pantry is mutated in place: deducted quantities are written
// back and items that reach zero are removed.
func (p *Planner) Run(recipe domain.Recipe, pantry *domain.Pantry, opts Options) Result {
	if opts.Slot != nil && opts.Slot.Cooked {
		p.log.Debug("recipe %s already cooked for this slot", recipe.ID)
		return Result{State: StateAlreadyCooked, AlreadyCooked: true}
	}

	var items []domain.PantryItem
	if pantry != nil {
		items = pantry.Items
	}
	plan, short := p.plan(recipe, items, opts.ForceDeduct)

	res := Result{
		CanProceed:   len(short) == 0 || opts.ForceDeduct,
		Insufficient: short,
	}

	switch {
	case opts.CheckOnly:
		res.State = StatePreview
		res.Plan = plan
		p.log.Debug("check-only plan for %s: %d entries, %d short", recipe.ID, len(plan), len(short))
		return res
	case !res.CanProceed:
		res.State = StateInsufficient
		p.log.Debug("cannot cook %s: %d ingredients short", recipe.ID, len(short))
		return res
	}

	if pantry != nil {
		Apply(pantry, plan)
	}
	if opts.Slot != nil {
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		opts.Slot.Cooked = true
		opts.Slot.CookedAt = now
	}

	res.State = StateCommitted
	res.Committed = true
	res.Plan = plan
	p.log.Debug("committed %d deductions for %s", len(plan), recipe.ID)
	return res
}

// plan builds entries in ingredient order. Several ingredients can draw on
// the same pantry item; each sees what earlier entries left.
func (p *Planner) plan(recipe domain.Recipe, items []domain.PantryItem, force bool) ([]Entry, []Shortfall) {
	remaining := make([]float64, len(items))
	for i, it := range items {
		remaining[i] = it.Quantity
	}
	exhausted := func(i int) bool { return remaining[i] <= epsilon }
	balance := func(i int) float64 { return remaining[i] }

	var (
		plan  []Entry
		short []Shortfall
	)
	for _, ing := range recipe.Ingredients {
		if ing.Quantity <= 0 {
			// "to taste" amounts never block and never deduct.
			continue
		}

		cand, ok := p.match.BestMatchFrom(items, ing, exhausted, balance)
		if !ok {
			short = append(short, Shortfall{Name: ing.Name, Needed: ing.Quantity, Unit: ing.Unit, Reason: matcher.CoverageMissing})
			continue
		}

		item := items[cand.Index]
		have := remaining[cand.Index]
		cov, avail := p.match.Assess(have, item.Unit, ing)

		var deduct float64
		switch cov {
		case matcher.CoverageFull:
			deduct = p.inPantryUnits(ing, item.Unit)
			if deduct > have {
				deduct = have
			}
		case matcher.CoveragePartial:
			short = append(short, Shortfall{Name: ing.Name, Needed: ing.Quantity, Available: avail, Unit: ing.Unit, Reason: matcher.CoveragePartial})
			if !force {
				continue
			}
			deduct = have
		default:
			short = append(short, Shortfall{Name: ing.Name, Needed: ing.Quantity, Unit: ing.Unit, Reason: matcher.CoverageIncompatible})
			continue
		}

		left := have - deduct
		if left <= epsilon {
			left = 0
		}
		remaining[cand.Index] = left
		plan = append(plan, Entry{
			PantryItemID: item.ID,
			PantryName:   item.Name,
			Ingredient:   ing.Name,
			DeductQty:    deduct,
			Unit:         item.Unit,
			RemainingQty: left,
			Converted:    cand.Converted,
			Partial:      cov == matcher.CoveragePartial,
		})
	}
	return plan, short
}

func (p *Planner) inPantryUnits(ing domain.Ingredient, pantryUnit string) float64 {
	if ingredient.SameUnit(ing.Unit, pantryUnit) {
		return ing.Quantity
	}
	q, ok := p.match.Converter().Convert(ing.Quantity, ing.Unit, pantryUnit, ing.Name)
	if !ok {
		return 0
	}
	return q
}

// Apply writes a plan into the pantry as one batch. Entries refer to items
// by id, so removals never shift what later entries point at. Items whose
// remaining quantity is zero are removed from the list.
func Apply(pantry *domain.Pantry, plan []Entry) {
	if len(plan) == 0 {
		return
	}
	final := make(map[string]float64, len(plan))
	for _, e := range plan {
		final[e.PantryItemID] = e.RemainingQty
	}

	kept := pantry.Items[:0]
	for _, it := range pantry.Items {
		if q, ok := final[it.ID]; ok {
			if q <= 0 {
				continue
			}
			it.Quantity = q
		}
		kept = append(kept, it)
	}
	// Clear the tail so removed items do not linger in the backing array.
	for i := len(kept); i < len(pantry.Items); i++ {
		pantry.Items[i] = domain.PantryItem{}
	}
	pantry.Items = kept
}
