// Package storage defines the Storage interface: the contract any document
// backend must satisfy to hold the listing collection.
//
// WHY AN INTERFACE?
// ─────────────────
// The record store should not know or care whether the collection lives in
// a JSON file, a SQLite row or plain memory. By depending only on this
// interface:
//
//   - Switching backends = one config value (storage.backend).
//     Zero record-store or handler changes.
//
//   - Writing tests = pass the memory backend. No files needed.
//
// A backend stores whole documents under a key. There is no per-record
// access: every load returns the entire collection and every save
// replaces it.
package storage

import (
	"context"
	"errors"

	"github.com/dimitrov9812/car-listing-api/internal/types"
)

// ErrUnreadable is wrapped by Load when a document exists but cannot be
// read or parsed. A document that does not exist yet is NOT an error.
var ErrUnreadable = errors.New("storage: document unreadable")

// Storage is the document backend contract.
type Storage interface {
	// Load returns the collection stored under key.
	//
	// A missing document yields an empty, non-nil collection and a nil
	// error ("start empty on first run"). A document that exists but cannot
	// be read or decoded yields an empty collection and an error wrapping
	// ErrUnreadable, so callers can choose to mask or surface it.
	Load(ctx context.Context, key string) (types.Collection, error)

	// Save serializes the full collection as indented JSON and overwrites
	// whatever was stored under key.
	Save(ctx context.Context, key string, cars types.Collection) error
}

// Backend names accepted by the storage.backend config value.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)
