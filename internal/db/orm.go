package db

import (
	"fmt"

	"cred-air/journeys/internal/models/gorm"

	"gorm.io/driver/postgres"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitPostgresORM opens the GORM handle used by the flight repository and the journey index
func InitPostgresORM(dsn string) (*gormlib.DB, error) {
	db, err := gormlib.Open(postgres.Open(dsn), &gormlib.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the airlines, flights and journeys tables
func Migrate(db *gormlib.DB) error {
	if err := db.AutoMigrate(&gorm.Airline{}, &gorm.Flight{}, &gorm.Journey{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
