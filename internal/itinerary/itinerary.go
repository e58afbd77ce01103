// Package itinerary holds the graph rules that decide whether a sequence of
// flights forms a valid journey, and builds the journey index row for it.
package itinerary

import (
	"strconv"
	"strings"
	"time"

	"cred-air/journeys/internal/constants"
	gormModels "cred-air/journeys/internal/models/gorm"
)

// Connects reports whether next can follow prev on the same itinerary:
// prev lands where next departs and the layover sits inside the connection window.
func Connects(prev, next *gormModels.Flight) bool {
	if prev.Destination != next.Origin {
		return false
	}
	return LayoverAllowed(next.DepartureTime.Sub(prev.ArrivalTime))
}

// LayoverAllowed applies the inclusive [45m, 24h] connection window.
func LayoverAllowed(gap time.Duration) bool {
	return gap >= constants.MinConnectionTime && gap <= constants.MaxConnectionTime
}

// Valid checks every journey invariant for legs in travel order: leg count,
// each leg bookable at now, each adjacent pair connecting, and no airport visited twice.
func Valid(legs []gormModels.Flight, now time.Time) bool {
	if len(legs) == 0 || len(legs) > constants.MaxJourneyLegs {
		return false
	}

	visited := map[string]bool{legs[0].Origin: true}
	for i := range legs {
		if !legs[i].Bookable(now) {
			return false
		}
		if visited[legs[i].Destination] {
			return false
		}
		visited[legs[i].Destination] = true

		if i > 0 && !Connects(&legs[i-1], &legs[i]) {
			return false
		}
	}
	return true
}

// PathKey renders the ordered flight ids as the journeys.path column value
func PathKey(legs []gormModels.Flight) string {
	parts := make([]string, len(legs))
	for i := range legs {
		parts[i] = strconv.FormatInt(legs[i].ID, 10)
	}
	return strings.Join(parts, constants.PathSeparator)
}

// MinSeats is the seat aggregate of a path
func MinSeats(legs []gormModels.Flight) int {
	lowest := legs[0].AvailableSeats
	for _, leg := range legs[1:] {
		if leg.AvailableSeats < lowest {
			lowest = leg.AvailableSeats
		}
	}
	return lowest
}

// Build materialises the index row for legs. Display fields come from the first leg.
// Callers must check Valid first.
func Build(legs []gormModels.Flight) gormModels.Journey {
	first := legs[0]
	last := legs[len(legs)-1]

	numbers := make([]string, len(legs))
	var price float64
	for i := range legs {
		numbers[i] = legs[i].FlightNumber
		price += legs[i].Price
	}

	departure := first.DepartureTime.UTC()
	arrival := last.ArrivalTime.UTC()

	journey := gormModels.Journey{
		Path:                 PathKey(legs),
		Leg1ID:               first.ID,
		Origin:               first.Origin,
		Destination:          last.Destination,
		DepartureDate:        departure.Format(constants.DepartureDateLayout),
		DepartureTime:        departure,
		ArrivalTime:          arrival,
		TotalDurationMinutes: int(arrival.Sub(departure).Minutes()),
		Stops:                len(legs) - 1,
		TotalPrice:           price,
		Currency:             first.Currency,
		MinAvailableSeats:    MinSeats(legs),
		AircraftType:         first.AircraftType,
		FlightNumbers:        strings.Join(numbers, ", "),
	}
	if first.Airline != nil {
		journey.AirlineName = first.Airline.Name
		journey.AirlineLogo = first.Airline.LogoURL
	}
	if len(legs) > 1 {
		id := legs[1].ID
		journey.Leg2ID = &id
	}
	if len(legs) > 2 {
		id := legs[2].ID
		journey.Leg3ID = &id
	}
	return journey
}
