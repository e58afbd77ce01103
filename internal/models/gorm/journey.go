package gorm

import "time"

// Journey is one row of the precomputed journey index: a 1-3 leg itinerary.
// (origin, destination, departure_date, departure_time, path) is the natural key.
type Journey struct {
	ID                   int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Path                 string    `gorm:"column:path;type:varchar(64);not null;uniqueIndex:uq_journeys_natural_key,priority:5"`
	Leg1ID               int64     `gorm:"column:leg1_id;not null;index"`
	Leg2ID               *int64    `gorm:"column:leg2_id;index"`
	Leg3ID               *int64    `gorm:"column:leg3_id;index"`
	Origin               string    `gorm:"column:origin;type:varchar(3);not null;uniqueIndex:uq_journeys_natural_key,priority:1"`
	Destination          string    `gorm:"column:destination;type:varchar(3);not null;uniqueIndex:uq_journeys_natural_key,priority:2"`
	DepartureDate        string    `gorm:"column:departure_date;type:varchar(10);not null;uniqueIndex:uq_journeys_natural_key,priority:3"`
	DepartureTime        time.Time `gorm:"column:departure_time;not null;uniqueIndex:uq_journeys_natural_key,priority:4"`
	ArrivalTime          time.Time `gorm:"column:arrival_time;not null"`
	TotalDurationMinutes int       `gorm:"column:total_duration_minutes;not null"`
	Stops                int       `gorm:"column:stops;not null"`
	TotalPrice           float64   `gorm:"column:total_price;type:numeric(12,2);not null"`
	Currency             string    `gorm:"column:currency;type:varchar(3);not null"`
	MinAvailableSeats    int       `gorm:"column:min_available_seats;not null"`
	AirlineName          string    `gorm:"column:airline_name;type:varchar(100)"`
	AirlineLogo          string    `gorm:"column:airline_logo;type:text"`
	AircraftType         string    `gorm:"column:aircraft_type;type:varchar(32)"`
	FlightNumbers        string    `gorm:"column:flight_numbers;type:varchar(64)"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Journey) TableName() string {
	return "journeys"
}

// LegIDs returns the flight ids on the path in travel order
func (j *Journey) LegIDs() []int64 {
	ids := []int64{j.Leg1ID}
	if j.Leg2ID != nil {
		ids = append(ids, *j.Leg2ID)
	}
	if j.Leg3ID != nil {
		ids = append(ids, *j.Leg3ID)
	}
	return ids
}
