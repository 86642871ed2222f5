// Package health serves the liveness probe.
package health

import (
	"net/http"

	"github.com/dimitrov9812/car-listing-api/internal/utils/response"
)

// Check handles GET /health.
func Check() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
