// Package cars is the record store: list, get, create, update and delete
// over the full listing collection.
//
// Every operation loads the whole collection from the backend. Mutating
// operations change it in memory and save the whole collection back;
// there is no incremental write. Mutations are serialized through a
// single writer lock so two concurrent requests can never interleave
// their load and save and drop each other's change.
package cars

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dimitrov9812/car-listing-api/internal/storage"
	"github.com/dimitrov9812/car-listing-api/internal/types"
)

// TimeFormat is the ISO-8601 layout of datePublished: UTC with
// millisecond precision, e.g. 2026-10-18T09:30:00.123Z.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

var (
	// ErrNotFound is returned by Get and Update when no listing has the id.
	ErrNotFound = errors.New("car not found")

	// ErrStorageUnreadable is returned by mutating operations in strict
	// mode when the stored document exists but cannot be read.
	ErrStorageUnreadable = errors.New("car storage unreadable")
)

// Store is the record store. It is safe for concurrent use.
type Store struct {
	backend storage.Storage
	key     string

	now    func() time.Time
	newID  func() string
	strict bool
	log    *slog.Logger

	validate *validator.Validate

	// wmu is the single-writer lock held across load → mutate → save.
	wmu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for datePublished.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the listing id generator.
// Generated ids must be UUID v4 strings.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithStrictLoad makes create, update and delete fail with
// ErrStorageUnreadable instead of overwriting a document that could not
// be read. List and Get always degrade to an empty collection.
func WithStrictLoad(strict bool) Option {
	return func(s *Store) { s.strict = strict }
}

// WithLogger sets the logger used for degraded loads.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New returns a Store that keeps its collection under key in backend.
func New(backend storage.Storage, key string, opts ...Option) *Store {
	s := &Store{
		backend:  backend,
		key:      key,
		now:      time.Now,
		newID:    uuid.NewString,
		log:      slog.Default(),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the full collection in insertion order. It never fails:
// a missing or unreadable document is reported as an empty collection.
func (s *Store) List(ctx context.Context) (types.Collection, error) {
	return s.load(ctx, false)
}

// Get returns the first listing whose id matches.
func (s *Store) Get(ctx context.Context, id string) (types.Car, error) {
	cars, err := s.load(ctx, false)
	if err != nil {
		return nil, err
	}
	if i := indexOf(cars, id); i >= 0 {
		return cars[i], nil
	}
	return nil, ErrNotFound
}

// Create stores a new listing built from a payload that already passed
// validation.Car. It assigns a fresh id and the current time as
// datePublished, appends the listing and saves the collection.
func (s *Store) Create(ctx context.Context, payload map[string]any) (types.Car, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	cars, err := s.load(ctx, true)
	if err != nil {
		return nil, err
	}

	car := types.Car(payload).Clone()
	car[types.FieldID] = s.uniqueID(cars)
	car[types.FieldDatePublished] = s.now().UTC().Format(TimeFormat)

	if err := s.checkIdentity(car); err != nil {
		return nil, err
	}

	cars = append(cars, car)
	if err := s.save(ctx, cars); err != nil {
		return nil, err
	}
	return car, nil
}

// Update shallow-merges patch over the listing with the given id and
// saves the collection. Keys present in patch overwrite, absent keys are
// kept. id and datePublished in the patch are ignored. The merged
// listing is not re-validated.
func (s *Store) Update(ctx context.Context, id string, patch map[string]any) (types.Car, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	cars, err := s.load(ctx, true)
	if err != nil {
		return nil, err
	}

	i := indexOf(cars, id)
	if i < 0 {
		return nil, ErrNotFound
	}

	merged := cars[i].Clone()
	for k, v := range patch {
		if k == types.FieldID || k == types.FieldDatePublished {
			continue
		}
		merged[k] = v
	}
	cars[i] = merged

	if err := s.save(ctx, cars); err != nil {
		return nil, err
	}
	return merged, nil
}

// Delete removes every listing with the given id and saves the
// collection, whether or not anything matched.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	cars, err := s.load(ctx, true)
	if err != nil {
		return err
	}

	kept := make(types.Collection, 0, len(cars))
	for _, c := range cars {
		if c.ID() != id {
			kept = append(kept, c)
		}
	}
	return s.save(ctx, kept)
}

// load reads the collection. Read failures degrade to an empty
// collection with a warning, except for writes in strict mode.
func (s *Store) load(ctx context.Context, forWrite bool) (types.Collection, error) {
	cars, err := s.backend.Load(ctx, s.key)
	if err == nil {
		if cars == nil {
			cars = types.Collection{}
		}
		return cars, nil
	}

	if forWrite && s.strict {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnreadable, err)
	}

	s.log.Warn("car storage unreadable, using empty collection",
		slog.String("key", s.key),
		slog.String("error", err.Error()))
	return types.Collection{}, nil
}

func (s *Store) save(ctx context.Context, cars types.Collection) error {
	if err := s.backend.Save(ctx, s.key, cars); err != nil {
		return fmt.Errorf("cars: save: %w", err)
	}
	return nil
}

// uniqueID draws ids until one is not already in the collection.
func (s *Store) uniqueID(cars types.Collection) string {
	for {
		id := s.newID()
		if indexOf(cars, id) < 0 {
			return id
		}
	}
}

// checkIdentity verifies the server-assigned fields before a new listing
// is persisted.
func (s *Store) checkIdentity(car types.Car) error {
	if err := s.validate.Var(car[types.FieldID], "required,uuid4"); err != nil {
		return fmt.Errorf("cars: generated id %v: %w", car[types.FieldID], err)
	}
	if err := s.validate.Var(car[types.FieldDatePublished], "required,datetime="+TimeFormat); err != nil {
		return fmt.Errorf("cars: generated datePublished %v: %w", car[types.FieldDatePublished], err)
	}
	return nil
}

func indexOf(cars types.Collection, id string) int {
	for i, c := range cars {
		if c.ID() == id {
			return i
		}
	}
	return -1
}
