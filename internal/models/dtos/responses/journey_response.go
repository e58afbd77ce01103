package responses

import "time"

type JourneyResponse struct {
	ID                   int64     `json:"id"`
	FlightIDs            []int64   `json:"flight_ids"`
	FlightNumbers        []string  `json:"flight_numbers"`
	Origin               string    `json:"origin"`
	Destination          string    `json:"destination"`
	DepartureTime        time.Time `json:"departure_time"`
	ArrivalTime          time.Time `json:"arrival_time"`
	TotalDurationMinutes int       `json:"total_duration_minutes"`
	Stops                int       `json:"stops"`
	TotalPrice           float64   `json:"total_price"`
	Currency             string    `json:"currency"`
	AvailableSeats       int       `json:"available_seats"`
	AirlineName          string    `json:"airline_name"`
	AirlineLogo          string    `json:"airline_logo,omitempty"`
	AircraftType         string    `json:"aircraft_type,omitempty"`
}

type JourneySearchResponse struct {
	Journeys []JourneyResponse `json:"journeys"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
	Cached   bool              `json:"cached"`
}

type RefreshResponse struct {
	Inserted   int64  `json:"inserted"`
	DurationMs int64  `json:"duration_ms"`
	Status     string `json:"status"`
}
