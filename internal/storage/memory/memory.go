// Package memory is an in-process storage.Storage. Data is lost on
// restart; it exists for tests and throwaway local runs.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dimitrov9812/car-listing-api/internal/storage"
	"github.com/dimitrov9812/car-listing-api/internal/types"
)

// Memory keeps each document as its encoded JSON bytes, so callers can
// never mutate stored data through a slice or map they got back.
// Safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func New() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, key string) (types.Collection, error) {
	m.mu.RLock()
	raw, ok := m.docs[key]
	m.mu.RUnlock()

	if !ok {
		return types.Collection{}, nil
	}

	var cars types.Collection
	if err := json.Unmarshal(raw, &cars); err != nil {
		return types.Collection{}, fmt.Errorf("memory.Load %q: %w: %v", key, storage.ErrUnreadable, err)
	}
	if cars == nil {
		cars = types.Collection{}
	}
	return cars, nil
}

func (m *Memory) Save(_ context.Context, key string, cars types.Collection) error {
	if cars == nil {
		cars = types.Collection{}
	}
	raw, err := json.MarshalIndent(cars, "", "  ")
	if err != nil {
		return fmt.Errorf("memory.Save %q: encode: %w", key, err)
	}

	m.mu.Lock()
	m.docs[key] = raw
	m.mu.Unlock()
	return nil
}

// Put stores raw bytes under key without any encoding. Tests use it to
// plant corrupt documents.
func (m *Memory) Put(key string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = append([]byte(nil), raw...)
}

// Raw returns a copy of the bytes stored under key.
func (m *Memory) Raw(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.docs[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), raw...), true
}
