package constants

// Journey search queries use ? placeholders and are rebound per driver by sqlx.
const (
	SearchJourneysColumns = `
	SELECT id, path, origin, destination, departure_date, departure_time, arrival_time,
		total_duration_minutes, stops, total_price, currency, min_available_seats,
		airline_name, airline_logo, aircraft_type, flight_numbers
	FROM journeys
	`

	SearchJourneysFilter = `
	WHERE origin = ? AND destination = ? AND departure_date = ?
		AND min_available_seats >= ? AND stops <= ?
	`

	CountJourneys = `SELECT COUNT(*) FROM journeys`

	// UpdateJourneyMinSeats recomputes the seat aggregate of every journey containing a flight
	// from the active legs still on the path.
	UpdateJourneyMinSeats = `
	UPDATE journeys
	SET min_available_seats = COALESCE((
		SELECT MIN(f.available_seats)
		FROM flights f
		WHERE f.is_active = ?
			AND f.id IN (journeys.leg1_id, journeys.leg2_id, journeys.leg3_id)
	), 0)
	WHERE leg1_id = ? OR leg2_id = ? OR leg3_id = ?
	`
)

// SearchSortColumns whitelists ORDER BY expressions for journey search.
var SearchSortColumns = map[string]string{
	"departure": "departure_time",
	"arrival":   "arrival_time",
	"price":     "total_price",
	"duration":  "total_duration_minutes",
}
