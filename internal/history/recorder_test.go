package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/logger"
	"github.com/hammamikhairi/ottoplan/internal/storage"
)

func newRecorder() *Recorder {
	log := logger.New(logger.LevelOff, nil)
	return NewRecorder(storage.NewMemoryStore(log), log)
}

func TestRecordAndRead(t *testing.T) {
	r := newRecorder()
	ctx := context.Background()

	require.NoError(t, r.Record(ctx, "u1", "pancakes", 4, "fluffy"))
	require.NoError(t, r.Record(ctx, "u1", "pancakes", 0, ""))
	require.NoError(t, r.Record(ctx, "u1", "pancakes", 5, "better with blueberries"))

	sum, err := r.Read(ctx, "u1", "pancakes")
	require.NoError(t, err)
	assert.Equal(t, 3, sum.CookedCount)
	assert.Equal(t, []int{4, 5}, sum.Ratings)
	assert.InDelta(t, 4.5, sum.AverageRating, 1e-9, "unrated events are excluded from the average")

	events, err := r.Events(ctx, "u1", "pancakes")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "fluffy", events[0].Notes)
}

func TestReadUnknownRecipe(t *testing.T) {
	_, err := newRecorder().Read(context.Background(), "u1", "never")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUnratedOnly(t *testing.T) {
	r := newRecorder()
	ctx := context.Background()
	require.NoError(t, r.Record(ctx, "u1", "soup", 0, ""))

	sum, err := r.Read(ctx, "u1", "soup")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.CookedCount)
	assert.Empty(t, sum.Ratings)
	assert.Zero(t, sum.AverageRating)
}

func TestInvalidRating(t *testing.T) {
	r := newRecorder()
	for _, rating := range []int{-1, 6} {
		err := r.Record(context.Background(), "u1", "soup", rating, "")
		assert.ErrorIs(t, err, domain.ErrInvalidRating)
	}
	_, err := r.Read(context.Background(), "u1", "soup")
	assert.ErrorIs(t, err, domain.ErrNotFound, "rejected events are not stored")
}

func TestHistoryIsPerUser(t *testing.T) {
	r := newRecorder()
	ctx := context.Background()
	require.NoError(t, r.Record(ctx, "u1", "soup", 3, ""))

	_, err := r.Read(ctx, "u2", "soup")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStampsTime(t *testing.T) {
	r := newRecorder()
	at := time.Date(2026, 5, 1, 19, 30, 0, 0, time.UTC)
	r.now = func() time.Time { return at }

	require.NoError(t, r.Record(context.Background(), "u1", "soup", 2, ""))
	events, err := r.Events(context.Background(), "u1", "soup")
	require.NoError(t, err)
	assert.True(t, events[0].CookedAt.Equal(at))
}
