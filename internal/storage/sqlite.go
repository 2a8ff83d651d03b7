package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/logger"
)

// Compile-time interface check.
var _ domain.DocumentStore = (*SQLiteStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	user_id    TEXT    NOT NULL,
	collection TEXT    NOT NULL,
	doc_id     TEXT    NOT NULL,
	value      BLOB    NOT NULL,
	version    INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (user_id, collection, doc_id)
);
`

// SQLiteStore is a document store backed by a SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	log *logger.Logger
	now func() time.Time
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string, log *logger.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection serializes the
	// conditional writes below.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	log.Debug("sqlite store ready at %s", path)
	return &SQLiteStore{db: db, log: log, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get retrieves a document by key.
func (s *SQLiteStore) Get(ctx context.Context, key domain.DocKey) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT value, version, updated_at FROM documents WHERE user_id = ? AND collection = ? AND doc_id = ?`,
		key.User, key.Collection, key.ID)

	doc := &domain.Document{Key: key}
	var updated int64
	if err := row.Scan(&doc.Value, &doc.Version, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s/%s: %w", key.User, key.Collection, key.ID, err)
	}
	doc.UpdatedAt = time.Unix(0, updated)
	return doc, nil
}

// Set writes a document, overwriting any existing value.
func (s *SQLiteStore) Set(ctx context.Context, key domain.DocKey, value []byte) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO documents (user_id, collection, doc_id, value, version, updated_at)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT (user_id, collection, doc_id) DO UPDATE SET
			value = excluded.value,
			version = documents.version + 1,
			updated_at = excluded.updated_at
		RETURNING version`,
		key.User, key.Collection, key.ID, value, s.now().UnixNano()).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("set %s/%s/%s: %w", key.User, key.Collection, key.ID, err)
	}
	s.log.Debug("saved %s/%s/%s v%d", key.User, key.Collection, key.ID, version)
	return version, nil
}

// SetIfVersion writes a document only if its stored version matches.
func (s *SQLiteStore) SetIfVersion(ctx context.Context, key domain.DocKey, value []byte, expected int64) (int64, error) {
	var (
		res sql.Result
		err error
	)
	now := s.now().UnixNano()
	if expected == 0 {
		res, err = s.db.ExecContext(ctx, `
			INSERT INTO documents (user_id, collection, doc_id, value, version, updated_at)
			VALUES (?, ?, ?, ?, 1, ?)
			ON CONFLICT (user_id, collection, doc_id) DO NOTHING`,
			key.User, key.Collection, key.ID, value, now)
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE documents SET value = ?, version = version + 1, updated_at = ?
			WHERE user_id = ? AND collection = ? AND doc_id = ? AND version = ?`,
			value, now, key.User, key.Collection, key.ID, expected)
	}
	if err != nil {
		return 0, fmt.Errorf("set %s/%s/%s: %w", key.User, key.Collection, key.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("set %s/%s/%s: %w", key.User, key.Collection, key.ID, err)
	}
	if n == 0 {
		s.log.Debug("version conflict on %s/%s/%s: expected %d", key.User, key.Collection, key.ID, expected)
		return 0, domain.ErrVersionConflict
	}
	return expected + 1, nil
}

// Delete removes a document by key.
func (s *SQLiteStore) Delete(ctx context.Context, key domain.DocKey) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE user_id = ? AND collection = ? AND doc_id = ?`,
		key.User, key.Collection, key.ID)
	if err != nil {
		return fmt.Errorf("delete %s/%s/%s: %w", key.User, key.Collection, key.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	s.log.Debug("deleted %s/%s/%s", key.User, key.Collection, key.ID)
	return nil
}

// ListAll returns every document of a user's collection ordered by ID.
func (s *SQLiteStore) ListAll(ctx context.Context, user, collection string) ([]*domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_id, value, version, updated_at FROM documents
		WHERE user_id = ? AND collection = ?
		ORDER BY doc_id`, user, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s/%s: %w", user, collection, err)
	}
	defer rows.Close()

	var out []*domain.Document
	for rows.Next() {
		doc := &domain.Document{Key: domain.DocKey{User: user, Collection: collection}}
		var updated int64
		if err := rows.Scan(&doc.Key.ID, &doc.Value, &doc.Version, &updated); err != nil {
			return nil, fmt.Errorf("list %s/%s: %w", user, collection, err)
		}
		doc.UpdatedAt = time.Unix(0, updated)
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s/%s: %w", user, collection, err)
	}
	return out, nil
}
