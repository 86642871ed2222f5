// Package validation gates listing creation on an exact-shape contract.
//
// A create payload must be a JSON object whose key set is exactly the car
// fields, and whose "features" and "publisher" objects carry exactly the
// required keys. Extra keys are rejected just like missing ones. Values
// are not type checked: a price of "cheap" or a feature flag of 1 passes.
package validation

import (
	"errors"

	"github.com/dimitrov9812/car-listing-api/internal/types"
)

// ErrInvalidShape is matched (via errors.Is) by every *ShapeError.
var ErrInvalidShape = errors.New("invalid car shape")

// Reason identifies which check rejected a payload.
type Reason int

const (
	ReasonNotObject Reason = iota + 1
	ReasonKeys
	ReasonFeatures
	ReasonPublisher
)

// User-visible rejection messages. The object check and the top-level key
// check share a message.
const (
	MsgInvalidCar       = "Invalid car data: expected exactly make, model, price, type, features, pictures, publisher"
	MsgInvalidFeatures  = "Invalid features: expected exactly the 20 feature flags"
	MsgInvalidPublisher = "Invalid publisher: expected exactly firstName, lastName, displayName, phone, address, profilePicture"
)

// ShapeError describes the first check a payload failed.
type ShapeError struct {
	Reason Reason
}

func (e *ShapeError) Error() string {
	switch e.Reason {
	case ReasonFeatures:
		return MsgInvalidFeatures
	case ReasonPublisher:
		return MsgInvalidPublisher
	default:
		return MsgInvalidCar
	}
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrInvalidShape
}

// Car checks a decoded request body against the create contract.
// Checks run in a fixed order and the first failure wins:
// object, top-level keys, features, publisher.
// It returns nil on success and never modifies the payload.
func Car(payload any) error {
	car, ok := payload.(map[string]any)
	if !ok || car == nil {
		return &ShapeError{Reason: ReasonNotObject}
	}

	if !hasExactKeys(car, types.CarFields) {
		return &ShapeError{Reason: ReasonKeys}
	}

	if !hasExactKeys(object(car[types.FieldFeatures]), types.FeatureFlags) {
		return &ShapeError{Reason: ReasonFeatures}
	}

	if !hasExactKeys(object(car[types.FieldPublisher]), types.PublisherFields) {
		return &ShapeError{Reason: ReasonPublisher}
	}

	return nil
}

// object returns v as a JSON object, or an empty one when v is absent or
// any other kind of value.
func object(v any) map[string]any {
	if m, ok := v.(map[string]any); ok && m != nil {
		return m
	}
	return map[string]any{}
}

// hasExactKeys reports whether m's key set equals want as an unordered set.
func hasExactKeys(m map[string]any, want []string) bool {
	if len(m) != len(want) {
		return false
	}
	for _, k := range want {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}
