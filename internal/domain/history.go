package domain

import "time"

// CookEvent is one entry of a recipe's cooking history.
// Rating is 0 when the user did not rate the meal, otherwise 1..5.
type CookEvent struct {
	Rating   int       `json:"rating,omitempty"`
	Notes    string    `json:"notes,omitempty"`
	CookedAt time.Time `json:"cookedAt"`
}

// HistorySummary aggregates the cooking history of a recipe.
type HistorySummary struct {
	RecipeID      string
	CookedCount   int
	Ratings       []int
	AverageRating float64 // 0 when no event was rated
}
