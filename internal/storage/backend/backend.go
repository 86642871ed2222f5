// Package backend builds the configured storage.Storage.
package backend

import (
	"fmt"

	"github.com/dimitrov9812/car-listing-api/internal/config"
	"github.com/dimitrov9812/car-listing-api/internal/storage"
	"github.com/dimitrov9812/car-listing-api/internal/storage/jsonfile"
	"github.com/dimitrov9812/car-listing-api/internal/storage/memory"
	"github.com/dimitrov9812/car-listing-api/internal/storage/sqlite"
)

// New creates the backend named by cfg.Backend.
//
// Supported backends:
//
//	"json"   - a single JSON document at cfg.Path (default)
//	"sqlite" - a documents table in the SQLite database at cfg.Path
//	"memory" - in-memory, lost on restart
func New(cfg config.Storage) (storage.Storage, error) {
	switch cfg.Backend {
	case storage.BackendJSON, "":
		return jsonfile.New(cfg.Path)
	case storage.BackendSQLite:
		return sqlite.New(cfg.Path)
	case storage.BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q (supported: json, sqlite, memory)", cfg.Backend)
	}
}
