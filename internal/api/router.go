// Package api wires the HTTP routes for the sync server.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/timekeep/timekeep/internal/api/handler"
	"github.com/timekeep/timekeep/internal/api/middleware"
	"github.com/timekeep/timekeep/internal/service"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(svc *service.TaskService) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware chain
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	// The sync client runs on file:// origins and arbitrary dev hosts,
	// so every route accepts cross-origin requests.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	systemHandler := handler.NewSystemHandler()
	taskHandler := handler.NewTaskHandler(svc)

	r.Get("/health", systemHandler.Health)
	r.Handle("/metrics", middleware.MetricsHandler())

	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.ListTasks)
		r.Post("/", taskHandler.UpsertTask)
		r.Post("/seed", taskHandler.SeedTasks)
		r.Delete("/clear", taskHandler.ClearTasks)
		r.Get("/{id}", taskHandler.GetTask)
		r.Delete("/{id}", taskHandler.DeleteTask)
	})

	return r
}
