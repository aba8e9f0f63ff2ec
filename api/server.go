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

AUTH:
  /api/login is public. Everything else under /api requires a bearer
  token issued by the auth service.

ROUTE GROUPS:
  /api/employees/*   Registry and vacation status
  /api/leaves/*      Vacation and abonada records
  /api/complaints/*  Citizen complaint intake and workflow
  /api/bulletins/*   Daily field bulletins, stats and map
  /api/blocks/*      Block registry and CSV import
  /api/notices/*     Mural
  /api/calendar      Unified event feed
  /api/logs          Activity log

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

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)

		// Everything past this point needs a valid token.
		r.Group(func(r chi.Router) {
			r.Use(h.auth.Middleware)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.ListEmployees)
				r.Post("/", h.CreateEmployee)
				r.Get("/{id}", h.GetEmployee)
				r.Put("/{id}", h.UpdateEmployee)
				r.Delete("/{id}", h.DeleteEmployee)
				r.Get("/{id}/status", h.GetEmployeeStatus)
				r.Get("/{id}/leaves", h.ListEmployeeLeaves)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", h.CreateLeave)
				r.Put("/{id}", h.UpdateLeave)
				r.Delete("/{id}", h.DeleteLeave)
			})

			r.Route("/complaints", func(r chi.Router) {
				r.Get("/", h.ListComplaints)
				r.Post("/", h.CreateComplaint)
				r.Get("/stats", h.ComplaintStats)
				r.Put("/{id}/status", h.UpdateComplaintStatus)
			})

			r.Route("/bulletins", func(r chi.Router) {
				r.Get("/", h.ListBulletins)
				r.Post("/", h.CreateBulletin)
				r.Get("/stats", h.BulletinStats)
				r.Get("/{date}", h.GetBulletin)
				r.Put("/{date}", h.UpdateBulletin)
				r.Get("/{date}/map", h.BulletinMap)
			})

			r.Route("/blocks", func(r chi.Router) {
				r.Get("/", h.ListBlocks)
				r.Post("/", h.CreateBlock)
				r.Post("/import", h.ImportBlocks)
			})

			r.Route("/notices", func(r chi.Router) {
				r.Get("/", h.ListNotices)
				r.Post("/", h.CreateNotice)
				r.Put("/{id}", h.UpdateNotice)
				r.Delete("/{id}", h.DeleteNotice)
			})

			r.Get("/calendar", h.Calendar)
			r.Get("/logs", h.ListLogs)
		})
	})

	return r
}
