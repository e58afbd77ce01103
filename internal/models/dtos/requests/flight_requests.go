package requests

import "time"

// CreateFlightRequest is the body of POST /api/v1/flights
type CreateFlightRequest struct {
	FlightNumber   string    `json:"flight_number" validate:"required"`
	AirlineID      int64     `json:"airline_id" validate:"required"`
	Origin         string    `json:"origin" validate:"required"`
	Destination    string    `json:"destination" validate:"required"`
	DepartureTime  time.Time `json:"departure_time" validate:"required"`
	ArrivalTime    time.Time `json:"arrival_time" validate:"required"`
	Price          float64   `json:"price"`
	Currency       string    `json:"currency" validate:"required"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	AircraftType   string    `json:"aircraft_type"`
}

// UpdateFlightRequest is the body of PUT /api/v1/flights/{id}. Nil fields are left unchanged.
type UpdateFlightRequest struct {
	DepartureTime  *time.Time `json:"departure_time,omitempty"`
	ArrivalTime    *time.Time `json:"arrival_time,omitempty"`
	Price          *float64   `json:"price,omitempty"`
	TotalSeats     *int       `json:"total_seats,omitempty"`
	AvailableSeats *int       `json:"available_seats,omitempty"`
	IsActive       *bool      `json:"is_active,omitempty"`
	AircraftType   *string    `json:"aircraft_type,omitempty"`
}
