// Package history records when recipes were cooked and how they were rated.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/logger"
	"github.com/hammamikhairi/ottoplan/internal/storage"
)

// Compile-time interface check.
var _ domain.HistoryRecorder = (*Recorder)(nil)

// maxAttempts bounds the retries of a conflicting append.
const maxAttempts = 5

type record struct {
	RecipeID string             `json:"recipeId"`
	Events   []domain.CookEvent `json:"events"`
}

// Recorder keeps one append-only document per recipe in the
// cookingHistory collection.
type Recorder struct {
	store domain.DocumentStore
	log   *logger.Logger
	now   func() time.Time
}

// NewRecorder creates a recorder over store.
func NewRecorder(store domain.DocumentStore, log *logger.Logger) *Recorder {
	return &Recorder{store: store, log: log, now: time.Now}
}

// Record appends a cook event. Rating 0 means unrated; anything outside
// 0..5 is rejected with ErrInvalidRating.
func (r *Recorder) Record(ctx context.Context, user, recipeID string, rating int, notes string) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("record %s: %w", recipeID, domain.ErrInvalidRating)
	}
	key := domain.DocKey{User: user, Collection: domain.CollectionCookingHistory, ID: recipeID}
	event := domain.CookEvent{Rating: rating, Notes: notes, CookedAt: r.now()}

	for attempt := 1; ; attempt++ {
		rec := record{RecipeID: recipeID}
		version, err := storage.GetJSON(ctx, r.store, key, &rec)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("record %s: %w", recipeID, err)
		}
		rec.Events = append(rec.Events, event)

		_, err = storage.PutJSON(ctx, r.store, key, rec, version)
		if err == nil {
			r.log.Debug("recorded cook of %s (rating=%d, total=%d)", recipeID, rating, len(rec.Events))
			return nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) || attempt == maxAttempts {
			return fmt.Errorf("record %s: %w", recipeID, err)
		}
		r.log.Debug("history conflict on %s, retrying (%d/%d)", recipeID, attempt, maxAttempts)
	}
}

// Read summarizes a recipe's history. The average covers rated events only.
func (r *Recorder) Read(ctx context.Context, user, recipeID string) (*domain.HistorySummary, error) {
	key := domain.DocKey{User: user, Collection: domain.CollectionCookingHistory, ID: recipeID}
	var rec record
	if _, err := storage.GetJSON(ctx, r.store, key, &rec); err != nil {
		return nil, err
	}
	return summarize(recipeID, rec.Events), nil
}

// Events returns the raw events of a recipe, oldest first.
func (r *Recorder) Events(ctx context.Context, user, recipeID string) ([]domain.CookEvent, error) {
	key := domain.DocKey{User: user, Collection: domain.CollectionCookingHistory, ID: recipeID}
	var rec record
	if _, err := storage.GetJSON(ctx, r.store, key, &rec); err != nil {
		return nil, err
	}
	return rec.Events, nil
}

func summarize(recipeID string, events []domain.CookEvent) *domain.HistorySummary {
	sum := &domain.HistorySummary{RecipeID: recipeID, CookedCount: len(events), Ratings: []int{}}
	total := 0
	for _, e := range events {
		if e.Rating > 0 {
			sum.Ratings = append(sum.Ratings, e.Rating)
			total += e.Rating
		}
	}
	if len(sum.Ratings) > 0 {
		sum.AverageRating = float64(total) / float64(len(sum.Ratings))
	}
	return sum
}
