package responses

import "time"

type FlightResponse struct {
	ID             int64     `json:"id"`
	FlightNumber   string    `json:"flight_number"`
	AirlineID      int64     `json:"airline_id"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	Price          float64   `json:"price"`
	Currency       string    `json:"currency"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	IsActive       bool      `json:"is_active"`
	AircraftType   string    `json:"aircraft_type,omitempty"`
}
