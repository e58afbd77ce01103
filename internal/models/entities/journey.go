package entities

import "time"

// Journey is the read model of a journeys index row used by search
type Journey struct {
	ID                   int64     `db:"id"`
	Path                 string    `db:"path"`
	Origin               string    `db:"origin"`
	Destination          string    `db:"destination"`
	DepartureDate        string    `db:"departure_date"`
	DepartureTime        time.Time `db:"departure_time"`
	ArrivalTime          time.Time `db:"arrival_time"`
	TotalDurationMinutes int       `db:"total_duration_minutes"`
	Stops                int       `db:"stops"`
	TotalPrice           float64   `db:"total_price"`
	Currency             string    `db:"currency"`
	MinAvailableSeats    int       `db:"min_available_seats"`
	AirlineName          string    `db:"airline_name"`
	AirlineLogo          string    `db:"airline_logo"`
	AircraftType         string    `db:"aircraft_type"`
	FlightNumbers        string    `db:"flight_numbers"`
}

// JourneySearchFilter selects one page of journeys for a route and day
type JourneySearchFilter struct {
	Origin        string
	Destination   string
	DepartureDate string
	MinSeats      int
	MaxStops      int
	SortBy        string
	Limit         int
	Offset        int
}
