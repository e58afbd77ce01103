package api

import (
	"net/http"

	"cred-air/journeys/internal/constants"
	"cred-air/journeys/internal/models/dtos/responses"
)

// JourneyQueueStatus godoc
// @Summary      Journey index queue status
// @Description  Pending events, worker count and lifetime publish/drop/process counters.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  workers.DispatcherStats
// @Router       /api/v1/admin/journeys/queue [get]
func (h *Handlers) JourneyQueueStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := h.deps.Pipeline.Dispatcher.Stats()
		respondWithSuccess(w, http.StatusOK, &stats)
	}
}

// RefreshJourneys godoc
// @Summary      Rebuild the journey index
// @Description  Clears and recomputes every journey from the flights table. Runs synchronously; only one refresh at a time.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  responses.RefreshResponse
// @Failure      409,500  {object}  responses.APIResponse
// @Router       /api/v1/admin/journeys/refresh [post]
func (h *Handlers) RefreshJourneys() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inserted, elapsed, err := h.deps.Services.JourneyAdmin.RefreshIndex(r.Context())
		if err != nil {
			respondWithServiceError(w, err, constants.MsgRefreshFailed)
			return
		}

		respondWithSuccess(w, http.StatusOK, &responses.RefreshResponse{
			Inserted:   inserted,
			DurationMs: elapsed.Milliseconds(),
			Status:     "completed",
		})
	}
}
