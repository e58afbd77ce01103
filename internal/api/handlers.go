package api

import (
	"errors"
	"net/http"
	"strconv"

	"cred-air/journeys/internal/constants"
	"cred-air/journeys/internal/models/dtos/responses"
	gormModels "cred-air/journeys/internal/models/gorm"

	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// flightIDParam reads the {id} path segment
func flightIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// respondWithServiceError maps domain sentinels to status codes
func respondWithServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, constants.ErrFlightNotFound):
		respondWithError(w, http.StatusNotFound, constants.MsgFlightNotFound)
	case errors.Is(err, constants.ErrInvalidFlight), errors.Is(err, constants.ErrInvalidSearch):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, constants.ErrRefreshInProgress):
		respondWithError(w, http.StatusConflict, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}

func toFlightResponse(flight *gormModels.Flight) *responses.FlightResponse {
	return &responses.FlightResponse{
		ID:             flight.ID,
		FlightNumber:   flight.FlightNumber,
		AirlineID:      flight.AirlineID,
		Origin:         flight.Origin,
		Destination:    flight.Destination,
		DepartureTime:  flight.DepartureTime,
		ArrivalTime:    flight.ArrivalTime,
		Price:          flight.Price,
		Currency:       flight.Currency,
		TotalSeats:     flight.TotalSeats,
		AvailableSeats: flight.AvailableSeats,
		IsActive:       flight.IsActive,
		AircraftType:   flight.AircraftType,
	}
}
