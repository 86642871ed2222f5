// Package router wires every route of the API onto a single handler.
//
// Route table:
//
//	GET    /health      → liveness probe
//	GET    /cars        → list all listings
//	GET    /cars/{id}   → get one listing
//	POST   /cars        → create a listing
//	PUT    /cars/{id}   → shallow-merge update
//	DELETE /cars/{id}   → delete a listing
package router

import (
	"net/http"

	"github.com/dimitrov9812/car-listing-api/internal/http/handlers/car"
	"github.com/dimitrov9812/car-listing-api/internal/http/handlers/health"
	"github.com/dimitrov9812/car-listing-api/internal/http/middleware"
)

// New returns the API handler: the routes above behind the CORS middleware.
func New(store car.Store, allowedOrigins []string) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /health", health.Check())

	router.HandleFunc("GET /cars", car.GetList(store))
	router.HandleFunc("GET /cars/{id}", car.GetByID(store))
	router.HandleFunc("POST /cars", car.New(store))
	router.HandleFunc("PUT /cars/{id}", car.Update(store))
	router.HandleFunc("DELETE /cars/{id}", car.Delete(store))

	return middleware.CORS(allowedOrigins)(router)
}
