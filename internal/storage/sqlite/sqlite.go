// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk with no server
// process. Here it plays the role of a key-value document store: one row
// per document key, the whole listing collection encoded as JSON in the
// body column.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dimitrov9812/car-listing-api/internal/storage"
	"github.com/dimitrov9812/car-listing-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is a storage.Storage over a documents table.
// *sql.DB is a connection pool and is safe for concurrent use.
type SQLite struct {
	Db *sql.DB
}

// New opens (or creates) the database file at path and makes sure the
// documents table exists.
func New(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// WAL lets readers proceed while a save is in flight.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: journal mode: %w", err)
	}

	// Schema:
	//   key        — document key, e.g. "cars"
	//   body       — the full collection as indented JSON
	//   updated_at — RFC 3339 time of the last save
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			key        TEXT PRIMARY KEY,
			body       TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// Load reads the document row for key.
//
// sql.ErrNoRows means nothing has been saved under this key yet, which is
// the normal first-run state and returns an empty collection. A body that
// is not a JSON array of objects is reported as storage.ErrUnreadable.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Load(ctx context.Context, key string) (types.Collection, error) {
	var body string
	err := s.Db.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE key = ? LIMIT 1", key,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Collection{}, nil
		}
		return types.Collection{}, fmt.Errorf("sqlite.Load %q: %w: %v", key, storage.ErrUnreadable, err)
	}

	var cars types.Collection
	if err := json.Unmarshal([]byte(body), &cars); err != nil {
		return types.Collection{}, fmt.Errorf("sqlite.Load %q: %w: %v", key, storage.ErrUnreadable, err)
	}
	if cars == nil {
		cars = types.Collection{}
	}
	return cars, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Save replaces the document row for key with the encoded collection.
// INSERT ... ON CONFLICT DO UPDATE is an upsert: the first save creates
// the row, every later save overwrites body in place.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Save(ctx context.Context, key string, cars types.Collection) error {
	if cars == nil {
		cars = types.Collection{}
	}
	body, err := json.MarshalIndent(cars, "", "  ")
	if err != nil {
		return fmt.Errorf("sqlite.Save %q: encode: %w", key, err)
	}

	stmt, err := s.Db.PrepareContext(ctx, `
		INSERT INTO documents (key, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("sqlite.Save %q: prepare: %w", key, err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, key, string(body), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("sqlite.Save %q: exec: %w", key, err)
	}
	return nil
}
