// Package car contains the HTTP handlers for the /cars resource.
//
// Each handler is a factory: it receives the record store once, at route
// registration, and returns the http.HandlerFunc the router calls on every
// request.
//
//	router.HandleFunc("POST /cars", car.New(store))
package car

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dimitrov9812/car-listing-api/internal/cars"
	"github.com/dimitrov9812/car-listing-api/internal/types"
	"github.com/dimitrov9812/car-listing-api/internal/utils/response"
	"github.com/dimitrov9812/car-listing-api/internal/validation"
)

// Store is what the handlers need from the record store.
// *cars.Store satisfies it.
type Store interface {
	List(ctx context.Context) (types.Collection, error)
	Get(ctx context.Context, id string) (types.Car, error)
	Create(ctx context.Context, payload map[string]any) (types.Car, error)
	Update(ctx context.Context, id string, patch map[string]any) (types.Car, error)
	Delete(ctx context.Context, id string) error
}

// MsgInvalidPatch is returned when a PUT body is valid JSON but not an object.
const MsgInvalidPatch = "Invalid update: expected a JSON object"

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /cars
//
// The body must match the exact create shape (see package validation).
//
//	201 Created      — the stored listing, with id and datePublished
//	400 Bad Request  — empty body, malformed JSON, or wrong shape
//	500 Internal     — storage error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a car")

		payload, ok := decodeBody(w, r)
		if !ok {
			return
		}

		if err := validation.Car(payload); err != nil {
			slog.Info("car rejected", slog.String("reason", err.Error()))
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		car, err := store.Create(r.Context(), payload.(map[string]any))
		if err != nil {
			writeStoreError(w, "error creating car", "", err)
			return
		}

		slog.Info("car created", slog.String("id", car.ID()))
		response.WriteJSON(w, http.StatusCreated, car)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /cars/{id}
//
//	200 OK         — the listing
//	404 Not Found  — { "error": "Car not found" }
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting a car", slog.String("id", id))

		car, err := store.Get(r.Context(), id)
		if err != nil {
			writeStoreError(w, "error getting car", id, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, car)
	}
}

// GetList handles GET /cars and always answers 200 with a JSON array,
// [] when there are no listings.
func GetList(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all cars")

		list, err := store.List(r.Context())
		if err != nil {
			writeStoreError(w, "error getting cars", "", err)
			return
		}
		if list == nil {
			list = types.Collection{}
		}

		response.WriteJSON(w, http.StatusOK, list)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /cars/{id}
//
// The body is a partial listing merged over the stored one. Keys present
// replace the stored values wholesale; absent keys are kept.
//
//	200 OK           — the merged listing
//	400 Bad Request  — empty body, malformed JSON, or not an object
//	404 Not Found    — { "error": "Car not found" }
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a car", slog.String("id", id))

		body, ok := decodeBody(w, r)
		if !ok {
			return
		}
		patch, isObject := body.(map[string]any)
		if !isObject || patch == nil {
			response.WriteJSON(w, http.StatusBadRequest, response.Message(MsgInvalidPatch))
			return
		}

		car, err := store.Update(r.Context(), id, patch)
		if err != nil {
			writeStoreError(w, "error updating car", id, err)
			return
		}

		slog.Info("car updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, car)
	}
}

// Delete handles DELETE /cars/{id}. It answers 204 whether or not the
// listing existed.
func Delete(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a car", slog.String("id", id))

		if err := store.Delete(r.Context(), id); err != nil {
			writeStoreError(w, "error deleting car", id, err)
			return
		}

		slog.Info("car deleted", slog.String("id", id))
		response.NoContent(w)
	}
}

// decodeBody reads the JSON request body into a generic value. On failure
// it writes the 400 itself and returns ok=false.
func decodeBody(w http.ResponseWriter, r *http.Request) (any, bool) {
	var body any
	err := json.NewDecoder(r.Body).Decode(&body)

	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return nil, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return nil, false
	}
	return body, true
}

// writeStoreError maps record store errors to status codes.
func writeStoreError(w http.ResponseWriter, msg, id string, err error) {
	if errors.Is(err, cars.ErrNotFound) {
		response.WriteJSON(w, http.StatusNotFound, response.Message(response.MsgCarNotFound))
		return
	}

	attrs := []any{slog.String("error", err.Error())}
	if id != "" {
		attrs = append(attrs, slog.String("id", id))
	}
	slog.Error(msg, attrs...)
	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
}
