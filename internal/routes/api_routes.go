package routes

import (
	"cred-air/journeys/internal/api"
	"cred-air/journeys/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, limiter *middleware.RateLimiter) {
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(limiter.Middleware)

		v1.Get("/journeys/search", handlers.SearchJourneys())

		v1.Route("/flights", func(flights chi.Router) {
			flights.Get("/", handlers.ListFlights())
			flights.Post("/", handlers.CreateFlight())
			flights.Get("/{id}", handlers.GetFlight())
			flights.Put("/{id}", handlers.UpdateFlight())
			flights.Post("/{id}/cancel", handlers.CancelFlight())
			flights.Post("/{id}/reactivate", handlers.ReactivateFlight())
		})

		// Index maintenance
		v1.Route("/admin/journeys", func(admin chi.Router) {
			admin.Get("/queue", handlers.JourneyQueueStatus())
			admin.Post("/refresh", handlers.RefreshJourneys())
		})
	})
}
