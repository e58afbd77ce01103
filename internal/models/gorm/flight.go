package gorm

import "time"

// Flight represents a single scheduled flight, an edge in the route graph
type Flight struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	FlightNumber   string    `gorm:"column:flight_number;type:varchar(16);not null"`
	AirlineID      int64     `gorm:"column:airline_id;not null;index"`
	Airline        *Airline  `gorm:"foreignKey:AirlineID"`
	Origin         string    `gorm:"column:origin;type:varchar(3);not null;index:idx_flights_origin_departure,priority:1"`
	Destination    string    `gorm:"column:destination;type:varchar(3);not null;index:idx_flights_destination_arrival,priority:1"`
	DepartureTime  time.Time `gorm:"column:departure_time;not null;index:idx_flights_origin_departure,priority:2"`
	ArrivalTime    time.Time `gorm:"column:arrival_time;not null;index:idx_flights_destination_arrival,priority:2"`
	Price          float64   `gorm:"column:price;type:numeric(12,2);not null"`
	Currency       string    `gorm:"column:currency;type:varchar(3);not null"`
	TotalSeats     int       `gorm:"column:total_seats;not null"`
	AvailableSeats int       `gorm:"column:available_seats;not null"`
	IsActive       bool      `gorm:"column:is_active;not null"`
	AircraftType   string    `gorm:"column:aircraft_type;type:varchar(32)"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Flight) TableName() string {
	return "flights"
}

// Bookable reports whether the flight can carry a journey leg at the given instant.
func (f *Flight) Bookable(now time.Time) bool {
	return f.IsActive && f.AvailableSeats > 0 && !f.DepartureTime.Before(now)
}
