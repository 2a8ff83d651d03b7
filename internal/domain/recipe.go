// Package domain defines the core types and interfaces for the meal planner.
// All other packages depend on domain; domain depends on nothing.
package domain

import "time"

// Recipe is a saved recipe. Its ingredients are immutable once saved.
type Recipe struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Servings    int          `json:"servings"`
	Ingredients []Ingredient `json:"ingredients"`
	Tags        []string     `json:"tags,omitempty"`
	Version     int          `json:"version"`
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID          string
	Name        string
	Description string
	Tags        []string
}

// Ingredient is a quantity of a named ingredient in a human unit.
// It is used by recipes and as the input for new pantry items.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"` // "cup", "g", "piece", "can", ""
}

// PantryItem is a mutable stock record. ID is assigned at creation and
// never changes; Quantity is never negative.
type PantryItem struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Quantity float64   `json:"quantity"`
	Unit     string    `json:"unit"`
	AddedAt  time.Time `json:"addedAt"`
}

// Pantry is a snapshot of a user's stock. Version is the store version the
// snapshot was read at and is checked when the snapshot is written back.
type Pantry struct {
	Items   []PantryItem `json:"items"`
	Version int64        `json:"-"`
}

// Clone returns a deep copy of the pantry.
func (p *Pantry) Clone() *Pantry {
	if p == nil {
		return nil
	}
	out := &Pantry{Version: p.Version}
	if p.Items != nil {
		out.Items = make([]PantryItem, len(p.Items))
		copy(out.Items, p.Items)
	}
	return out
}

// Find returns the index of the item with the given id, or -1.
func (p *Pantry) Find(id string) int {
	for i := range p.Items {
		if p.Items[i].ID == id {
			return i
		}
	}
	return -1
}
