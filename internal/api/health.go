package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"cred-air/journeys/internal/models/entities"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheckHandler handles GET /healthCheck
//
// @Summary Health check
// @Description Verifies Postgres, the cache backend and the journey index queue.
// @Tags Misc
// @Success 200 {object} entities.HealthCheckResponse
// @Failure 503 {object} entities.HealthCheckResponse
// @Router /healthCheck [get]
func (h *Handlers) HealthCheckHandler(upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		services := make(map[string]entities.ServiceStatus)

		// Check postgres
		pgStatus := entities.ServiceStatus{Status: "ok", Details: "Postgres Connected"}
		if err := h.deps.DB.PingContext(ctx); err != nil {
			pgStatus = entities.ServiceStatus{Status: "down", Details: err.Error()}
		}
		services["postgres"] = pgStatus

		// Redis only when it backs the cache
		if p, ok := h.deps.Cache.(pinger); ok {
			redisStatus := entities.ServiceStatus{Status: "ok", Details: "Redis Connected"}
			if err := p.Ping(ctx); err != nil {
				redisStatus = entities.ServiceStatus{Status: "down", Details: err.Error()}
			}
			services["redis"] = redisStatus
		}

		stats := h.deps.Pipeline.Dispatcher.Stats()
		queueStatus := entities.ServiceStatus{Status: "ok", Details: "Accepting journey events"}
		if !stats.Accepting {
			queueStatus = entities.ServiceStatus{Status: "down", Details: "Journey queue is shut down"}
		}
		services["journey_queue"] = queueStatus

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		resp := entities.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			UpSince:  upSince,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		}

		statusCode := http.StatusOK
		if overallStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
