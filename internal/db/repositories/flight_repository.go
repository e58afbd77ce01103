package repositories

import (
	"context"
	"errors"
	"time"

	"cred-air/journeys/internal/constants"
	"cred-air/journeys/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// FlightRepository handles flights table operations
type FlightRepository struct {
	db *gormlib.DB
}

// NewFlightRepository creates a new flight repository
func NewFlightRepository(db *gormlib.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// FindByID returns the flight or constants.ErrFlightNotFound
func (r *FlightRepository) FindByID(ctx context.Context, id int64) (*gorm.Flight, error) {
	var flight gorm.Flight

	err := r.db.WithContext(ctx).First(&flight, id).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, constants.ErrFlightNotFound
		}
		return nil, err
	}

	return &flight, nil
}

// Create inserts a new flight and fills in its id
func (r *FlightRepository) Create(ctx context.Context, flight *gorm.Flight) error {
	return r.db.WithContext(ctx).Omit("Airline").Create(flight).Error
}

// Save writes every column of an existing flight, zero values included
func (r *FlightRepository) Save(ctx context.Context, flight *gorm.Flight) error {
	result := r.db.WithContext(ctx).
		Model(flight).
		Select("*").
		Omit("ID", "Airline", "CreatedAt").
		Updates(flight)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return constants.ErrFlightNotFound
	}
	return nil
}

// ListByRoute returns flights between two airports departing on or after from
func (r *FlightRepository) ListByRoute(ctx context.Context, origin, destination string, from time.Time, limit int) ([]gorm.Flight, error) {
	var flights []gorm.Flight

	query := r.db.WithContext(ctx).
		Where("origin = ? AND destination = ? AND departure_time >= ?", origin, destination, from.UTC()).
		Order("departure_time ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&flights).Error; err != nil {
		return nil, err
	}
	return flights, nil
}

// AirlineExists reports whether an airline row with the id is present
func (r *FlightRepository) AirlineExists(ctx context.Context, airlineID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gorm.Airline{}).
		Where("id = ?", airlineID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
