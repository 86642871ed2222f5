// Package jsonfile stores the listing collection as one human-readable JSON
// document on disk, e.g. ./cars.json:
//
//	[
//	  {
//	    "datePublished": "2026-10-18T09:30:00.123Z",
//	    "id": "1c7c4a8e-...",
//	    ...
//	  }
//	]
//
// The file is the document; the key passed to Load/Save is only used in
// error messages.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dimitrov9812/car-listing-api/internal/storage"
	"github.com/dimitrov9812/car-listing-api/internal/types"
)

// File is a storage.Storage backed by a single JSON file.
type File struct {
	mu   sync.RWMutex
	path string
}

// New returns a File for path, creating its parent directory if needed.
// The file itself is created on the first Save.
func New(path string) (*File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("jsonfile.New: create dir: %w", err)
		}
	}
	return &File{path: path}, nil
}

// Path is the file the collection is written to.
func (f *File) Path() string {
	return f.path
}

func (f *File) Load(_ context.Context, key string) (types.Collection, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.Collection{}, nil
		}
		return types.Collection{}, fmt.Errorf("jsonfile.Load %q: %w: %v", key, storage.ErrUnreadable, err)
	}

	cars := types.Collection{}
	if err := json.Unmarshal(data, &cars); err != nil {
		return types.Collection{}, fmt.Errorf("jsonfile.Load %q: %w: %v", key, storage.ErrUnreadable, err)
	}
	// A literal "null" document decodes without error.
	if cars == nil {
		cars = types.Collection{}
	}
	return cars, nil
}

// Save writes the collection to a temp file in the same directory and
// renames it over the target, so a crash mid-write never leaves a
// truncated document behind.
func (f *File) Save(_ context.Context, key string, cars types.Collection) error {
	if cars == nil {
		cars = types.Collection{}
	}
	data, err := json.MarshalIndent(cars, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile.Save %q: encode: %w", key, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("jsonfile.Save %q: create temp: %w", key, err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile.Save %q: chmod: %w", key, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile.Save %q: write: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile.Save %q: close: %w", key, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile.Save %q: rename: %w", key, err)
	}
	return nil
}
