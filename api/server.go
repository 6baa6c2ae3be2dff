/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

SECURITY NOTE:
  No authentication middleware. Ownership filtering is assumed to
  happen behind the Store; all endpoints here are public.

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Raw record CRUD
		r.Route("/records", func(r chi.Router) {
			r.Get("/", h.ListRecords)
			r.Post("/", h.CreateRecord)
			r.Get("/{id}", h.GetRecord)
			r.Put("/{id}", h.UpdateRecord)
			r.Delete("/{id}", h.DeleteRecord)
		})

		// Materialized occurrence listing and per-occurrence actions
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Post("/{id}/exclude-occurrence", h.ExcludeOccurrence)
		})

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", h.GetSummary)
			r.Get("/balance", h.GetBalance)
			r.Get("/breakdown", h.GetBreakdown)
		})

		// Demo data
		r.Post("/demo/seed", h.SeedDemo)
	})

	return r
}
