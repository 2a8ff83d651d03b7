package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hammamikhairi/ottoplan/internal/domain"
)

// Unconditional is the expected version that skips the version check.
const Unconditional int64 = -1

// GetJSON loads a document and decodes it into v, returning its version.
func GetJSON(ctx context.Context, s domain.DocumentStore, key domain.DocKey, v any) (int64, error) {
	doc, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if err := json.Unmarshal(doc.Value, v); err != nil {
		return 0, fmt.Errorf("decode %s/%s: %w", key.Collection, key.ID, err)
	}
	return doc.Version, nil
}

// PutJSON encodes v and writes it with SetIfVersion, or with Set when
// expected is Unconditional.
func PutJSON(ctx context.Context, s domain.DocumentStore, key domain.DocKey, v any, expected int64) (int64, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("encode %s/%s: %w", key.Collection, key.ID, err)
	}
	if expected == Unconditional {
		return s.Set(ctx, key, data)
	}
	return s.SetIfVersion(ctx, key, data, expected)
}
