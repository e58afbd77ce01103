package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"cred-air/journeys/internal/constants"
	"cred-air/journeys/internal/logging"
	"cred-air/journeys/internal/middleware"
	"cred-air/journeys/internal/models/dtos/requests"
	"cred-air/journeys/internal/models/dtos/responses"
)

// ListFlights godoc
// @Summary      List flights on a route
// @Tags         Flights
// @Produce      json
// @Param        origin       query  string  true   "Origin airport"
// @Param        destination  query  string  true   "Destination airport"
// @Param        from         query  string  false  "Earliest departure, RFC3339 (default now)"
// @Param        limit        query  int     false  "Maximum flights"  default(20)
// @Success      200  {array}   responses.FlightResponse
// @Failure      400,500  {object}  responses.APIResponse
// @Router       /api/v1/flights [get]
func (h *Handlers) ListFlights() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		from := time.Now().UTC()
		if raw := q.Get("from"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "Invalid from parameter")
				return
			}
			from = parsed
		}

		limit := 0
		if raw := q.Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				respondWithError(w, http.StatusBadRequest, "Invalid limit parameter")
				return
			}
			limit = n
		}

		flights, err := h.deps.Services.Flights.ListFlights(r.Context(), q.Get("origin"), q.Get("destination"), from, limit)
		if err != nil {
			respondWithServiceError(w, err, constants.MsgFlightLoadFailed)
			return
		}

		resp := make([]responses.FlightResponse, 0, len(flights))
		for i := range flights {
			resp = append(resp, *toFlightResponse(&flights[i]))
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// GetFlight godoc
// @Summary      Get a flight
// @Tags         Flights
// @Produce      json
// @Param        id   path      int  true  "Flight ID"
// @Success      200  {object}  responses.FlightResponse
// @Failure      400,404  {object}  responses.APIResponse
// @Router       /api/v1/flights/{id} [get]
func (h *Handlers) GetFlight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := flightIDParam(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidFlightID)
			return
		}

		flight, err := h.deps.Services.Flights.GetFlight(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, err, constants.MsgFlightLoadFailed)
			return
		}
		respondWithSuccess(w, http.StatusOK, toFlightResponse(flight))
	}
}

// CreateFlight godoc
// @Summary      Create a flight
// @Description  Stores a new active flight. Journeys through it appear once the index worker picks up the change.
// @Tags         Flights
// @Accept       json
// @Produce      json
// @Param        body  body      requests.CreateFlightRequest  true  "Flight"
// @Success      201   {object}  responses.FlightResponse
// @Failure      400,500  {object}  responses.APIResponse
// @Router       /api/v1/flights [post]
func (h *Handlers) CreateFlight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.CreateFlightRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidBody)
			return
		}

		flight, err := h.deps.Services.Flights.CreateFlight(r.Context(), req)
		if err != nil {
			logging.WithRequest(middleware.RequestID(r.Context()), "create_flight").
				Warnw("Flight create rejected", "error", err)
			respondWithServiceError(w, err, constants.MsgFlightSaveFailed)
			return
		}
		respondWithSuccess(w, http.StatusCreated, toFlightResponse(flight))
	}
}

// UpdateFlight godoc
// @Summary      Update a flight
// @Description  Applies the supplied fields. Schedule, seat and status changes are propagated to the journey index asynchronously.
// @Tags         Flights
// @Accept       json
// @Produce      json
// @Param        id    path      int                           true  "Flight ID"
// @Param        body  body      requests.UpdateFlightRequest  true  "Changed fields"
// @Success      200   {object}  responses.FlightResponse
// @Failure      400,404,500  {object}  responses.APIResponse
// @Router       /api/v1/flights/{id} [put]
func (h *Handlers) UpdateFlight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := flightIDParam(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidFlightID)
			return
		}

		var req requests.UpdateFlightRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidBody)
			return
		}

		flight, err := h.deps.Services.Flights.UpdateFlight(r.Context(), id, req)
		if err != nil {
			logging.WithRequest(middleware.RequestID(r.Context()), "update_flight").
				Warnw("Flight update rejected", "flight_id", id, "error", err)
			respondWithServiceError(w, err, constants.MsgFlightSaveFailed)
			return
		}
		respondWithSuccess(w, http.StatusOK, toFlightResponse(flight))
	}
}

// CancelFlight godoc
// @Summary      Cancel a flight
// @Tags         Flights
// @Produce      json
// @Param        id   path      int  true  "Flight ID"
// @Success      200  {object}  responses.FlightResponse
// @Failure      400,404,500  {object}  responses.APIResponse
// @Router       /api/v1/flights/{id}/cancel [post]
func (h *Handlers) CancelFlight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := flightIDParam(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidFlightID)
			return
		}

		flight, err := h.deps.Services.Flights.CancelFlight(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, err, constants.MsgFlightSaveFailed)
			return
		}
		respondWithSuccess(w, http.StatusOK, toFlightResponse(flight))
	}
}

// ReactivateFlight godoc
// @Summary      Put a cancelled flight back on sale
// @Tags         Flights
// @Produce      json
// @Param        id   path      int  true  "Flight ID"
// @Success      200  {object}  responses.FlightResponse
// @Failure      400,404,500  {object}  responses.APIResponse
// @Router       /api/v1/flights/{id}/reactivate [post]
func (h *Handlers) ReactivateFlight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := flightIDParam(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidFlightID)
			return
		}

		flight, err := h.deps.Services.Flights.ReactivateFlight(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, err, constants.MsgFlightSaveFailed)
			return
		}
		respondWithSuccess(w, http.StatusOK, toFlightResponse(flight))
	}
}
