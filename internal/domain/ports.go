package domain

import (
	"context"
	"time"
)

// Collections used by the application.
const (
	CollectionRecipes        = "recipes"
	CollectionPantry         = "pantry"
	CollectionCookingHistory = "cookingHistory"
	CollectionMealPlans      = "savedMealPlans"
)

// DocKey addresses one document.
type DocKey struct {
	User       string
	Collection string
	ID         string
}

// Document is a stored value with its version. Versions start at 1 and grow
// by one on every write.
type Document struct {
	Key       DocKey
	Value     []byte
	Version   int64
	UpdatedAt time.Time
}

// DocumentStore persists JSON documents per user and collection.
// Implementations can be in-memory, SQLite, or any remote backend.
type DocumentStore interface {
	// Get returns ErrNotFound when the document is absent.
	Get(ctx context.Context, key DocKey) (*Document, error)
	// Set writes unconditionally and returns the new version.
	Set(ctx context.Context, key DocKey, value []byte) (int64, error)
	// SetIfVersion writes only if the stored version equals expected
	// (0 means the document must not exist yet). Otherwise it returns
	// ErrVersionConflict.
	SetIfVersion(ctx context.Context, key DocKey, value []byte, expected int64) (int64, error)
	Delete(ctx context.Context, key DocKey) error
	// ListAll returns every document of a collection ordered by ID.
	ListAll(ctx context.Context, user, collection string) ([]*Document, error)
}

// HistoryRecorder keeps an append-only cooking history per recipe.
type HistoryRecorder interface {
	// Record appends an event; rating 0 means unrated.
	Record(ctx context.Context, user, recipeID string, rating int, notes string) error
	// Read returns ErrNotFound when the recipe was never cooked.
	Read(ctx context.Context, user, recipeID string) (*HistorySummary, error)
}

// RecipeSource provides recipes.
type RecipeSource interface {
	List(ctx context.Context, user string) ([]RecipeSummary, error)
	Get(ctx context.Context, user, id string) (*Recipe, error)
	Search(ctx context.Context, user, query string) ([]RecipeSummary, error)
}
