// Package storage provides document store implementations.
package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/logger"
)

// Compile-time interface check.
var _ domain.DocumentStore = (*MemoryStore)(nil)

type memDoc struct {
	value     []byte
	version   int64
	updatedAt time.Time
}

// MemoryStore is an in-memory document store. Safe for concurrent access.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[domain.DocKey]*memDoc
	log  *logger.Logger
	now  func() time.Time
}

// NewMemoryStore creates an empty in-memory document store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		docs: make(map[domain.DocKey]*memDoc),
		log:  log,
		now:  time.Now,
	}
}

// Get retrieves a document by key.
func (s *MemoryStore) Get(ctx context.Context, key domain.DocKey) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.docs[key]
	if !ok {
		s.log.Debug("document not found: %s/%s/%s", key.User, key.Collection, key.ID)
		return nil, domain.ErrNotFound
	}
	return d.document(key), nil
}

// Set writes a document, overwriting any existing value.
func (s *MemoryStore) Set(ctx context.Context, key domain.DocKey, value []byte) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(key, value), nil
}

// SetIfVersion writes a document only if its stored version matches.
func (s *MemoryStore) SetIfVersion(ctx context.Context, key domain.DocKey, value []byte, expected int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	if d, ok := s.docs[key]; ok {
		current = d.version
	}
	if current != expected {
		s.log.Debug("version conflict on %s/%s/%s: have %d, expected %d", key.User, key.Collection, key.ID, current, expected)
		return 0, domain.ErrVersionConflict
	}
	return s.write(key, value), nil
}

func (s *MemoryStore) write(key domain.DocKey, value []byte) int64 {
	d, ok := s.docs[key]
	if !ok {
		d = &memDoc{}
		s.docs[key] = d
	}
	d.value = append([]byte(nil), value...)
	d.version++
	d.updatedAt = s.now()
	s.log.Debug("saved %s/%s/%s v%d", key.User, key.Collection, key.ID, d.version)
	return d.version
}

// Delete removes a document by key.
func (s *MemoryStore) Delete(ctx context.Context, key domain.DocKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.docs, key)
	s.log.Debug("deleted %s/%s/%s", key.User, key.Collection, key.ID)
	return nil
}

// ListAll returns every document of a user's collection ordered by ID.
func (s *MemoryStore) ListAll(ctx context.Context, user, collection string) ([]*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Document
	for key, d := range s.docs {
		if key.User == user && key.Collection == collection {
			out = append(out, d.document(key))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.ID < out[j].Key.ID })
	s.log.Debug("listing %s/%s, count=%d", user, collection, len(out))
	return out, nil
}

func (d *memDoc) document(key domain.DocKey) *domain.Document {
	return &domain.Document{
		Key:       key,
		Value:     append([]byte(nil), d.value...),
		Version:   d.version,
		UpdatedAt: d.updatedAt,
	}
}
