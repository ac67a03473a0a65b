/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/targets/*      Target CRUD, achievement, rollover
  /api/invoices       Invoice recording (progress side-channel)
  /api/dashboards/*   Agent/team/customer summaries
  /api/customers      Customer directory
  /api/admin/*        Sweeps, directory upserts, demo seed

SECURITY NOTE:
  No authentication middleware. Authorization is the surrounding
  system's concern; the engine only enforces data-level invariants.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
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

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Target routes
		r.Route("/targets", func(r chi.Router) {
			r.Get("/", h.ListTargets)
			r.Post("/", h.CreateTarget)
			r.Get("/{id}", h.GetTarget)
			r.Put("/{id}", h.UpdateTarget)
			r.Delete("/{id}", h.DeleteTarget)
			r.Get("/{id}/achievement", h.GetAchievement)
			r.Post("/{id}/rollover", h.RolloverTarget)
			r.Post("/{id}/recalculate", h.RecalculateTarget)
		})

		// Invoice recording (fires the progress side-channel)
		r.Post("/invoices", h.RecordInvoice)

		// Dashboard routes
		r.Route("/dashboards", func(r chi.Router) {
			r.Get("/agents/{id}", h.AgentDashboard)
			r.Get("/teams/{id}", h.TeamDashboard)
			r.Get("/customers/{code}", h.CustomerDashboard)
		})

		// Customer directory
		r.Get("/customers", h.ListCustomers)

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/sweeps/rollover", h.TriggerRolloverSweep)
			r.Post("/sweeps/recalculate", h.TriggerRecalculateSweep)
			r.Get("/sweeps/runs", h.ListSweepRuns)
			r.Post("/agents", h.UpsertAgent)
			r.Post("/customers", h.UpsertCustomer)
			r.Post("/seed", h.LoadSeed)
		})
	})

	return r
}
