package domain

import (
	"strings"
	"time"
)

// Day is a column of the weekly grid.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysPerWeek and MealsPerDay are the dimensions of the plan grid.
const (
	DaysPerWeek = 7
	MealsPerDay = 3
)

var dayNames = [DaysPerWeek]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// String returns the lower-case day name.
func (d Day) String() string {
	if d < 0 || int(d) >= DaysPerWeek {
		return "unknown"
	}
	return dayNames[d]
}

// ParseDay accepts a full day name or its three-letter prefix.
func ParseDay(s string) (Day, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return 0, false
	}
	for i, name := range dayNames {
		if name == s || name[:3] == s {
			return Day(i), true
		}
	}
	return 0, false
}

// Meal is a row of the weekly grid.
type Meal int

const (
	Breakfast Meal = iota
	Lunch
	Dinner
)

var mealNames = [MealsPerDay]string{"breakfast", "lunch", "dinner"}

// String returns the lower-case meal name.
func (m Meal) String() string {
	if m < 0 || int(m) >= MealsPerDay {
		return "unknown"
	}
	return mealNames[m]
}

// ParseMeal converts a meal name to a Meal.
func ParseMeal(s string) (Meal, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range mealNames {
		if name == s {
			return Meal(i), true
		}
	}
	return 0, false
}

// MealSlot is one filled cell of the weekly grid.
type MealSlot struct {
	RecipeID string    `json:"recipeId"`
	Cooked   bool      `json:"cooked"`
	CookedAt time.Time `json:"cookedAt,omitempty"`
}

// WeekPlan is a 7 day x 3 meal grid. A nil slot is empty.
type WeekPlan struct {
	ID     string                               `json:"id"`
	WeekOf time.Time                            `json:"weekOf"`
	Slots  [DaysPerWeek][MealsPerDay]*MealSlot `json:"slots"`
	// Version is the store version the plan was read at.
	Version int64 `json:"-"`
}

// ValidSlot reports whether d and m address a cell of the grid.
func ValidSlot(d Day, m Meal) bool {
	return d >= 0 && int(d) < DaysPerWeek && m >= 0 && int(m) < MealsPerDay
}

// Slot returns the slot at the given position, or nil when it is empty.
func (w *WeekPlan) Slot(d Day, m Meal) *MealSlot {
	if !ValidSlot(d, m) {
		return nil
	}
	return w.Slots[d][m]
}

// Place puts a recipe into a slot, replacing whatever was there. Positions
// outside the grid are ignored.
func (w *WeekPlan) Place(d Day, m Meal, recipeID string) {
	if !ValidSlot(d, m) {
		return
	}
	w.Slots[d][m] = &MealSlot{RecipeID: recipeID}
}

// Clear empties a slot. Positions outside the grid are ignored.
func (w *WeekPlan) Clear(d Day, m Meal) {
	if !ValidSlot(d, m) {
		return
	}
	w.Slots[d][m] = nil
}

// Filled calls fn for every non-empty slot in day-major order.
func (w *WeekPlan) Filled(fn func(d Day, m Meal, slot *MealSlot)) {
	for d := 0; d < DaysPerWeek; d++ {
		for m := 0; m < MealsPerDay; m++ {
			if s := w.Slots[d][m]; s != nil && s.RecipeID != "" {
				fn(Day(d), Meal(m), s)
			}
		}
	}
}
