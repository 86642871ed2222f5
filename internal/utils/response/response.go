// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client (except
// DELETE, which answers 204 with no body). Rather than repeating the same
// three lines (set header, set status, encode JSON) in every handler, we
// centralise them here.
package response

import (
	"encoding/json"
	"net/http"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the envelope returned for error cases.
//
// Success responses return the listing or the list of listings as-is.
// Error responses always look like:
//
//	{ "error": "Car not found" }
//
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Error string `json:"error"`
}

// MsgCarNotFound is the body message for 404s on /cars/{id}.
const MsgCarNotFound = "Car not found"

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// NoContent writes a bare 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// GeneralError wraps any Go error into the error envelope.
//
//	response.WriteJSON(w, http.StatusInternalServerError,
//	    response.GeneralError(err))
func GeneralError(err error) Response {
	return Response{Error: err.Error()}
}

// Message wraps a fixed user-visible message into the error envelope.
func Message(msg string) Response {
	return Response{Error: msg}
}
