package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cred-air/journeys/internal/constants"
	"cred-air/journeys/internal/models/dtos/requests"
	gormModels "cred-air/journeys/internal/models/gorm"

	"go.uber.org/zap"
)

// FlightStore is the persistence the flight service needs
type FlightStore interface {
	FindByID(ctx context.Context, id int64) (*gormModels.Flight, error)
	Create(ctx context.Context, flight *gormModels.Flight) error
	Save(ctx context.Context, flight *gormModels.Flight) error
	AirlineExists(ctx context.Context, airlineID int64) (bool, error)
	ListByRoute(ctx context.Context, origin, destination string, from time.Time, limit int) ([]gormModels.Flight, error)
}

// FlightChangeNotifier is told about every persisted flight mutation.
// old is nil for a newly created flight.
type FlightChangeNotifier interface {
	OnFlightMutated(old *gormModels.Flight, updated gormModels.Flight)
}

// FlightService owns flight writes. The journey index is maintained asynchronously
// through the notifier, so a write never fails because of index maintenance.
type FlightService struct {
	store    FlightStore
	notifier FlightChangeNotifier
	log      *zap.SugaredLogger
}

func NewFlightService(store FlightStore, notifier FlightChangeNotifier, log *zap.SugaredLogger) *FlightService {
	return &FlightService{
		store:    store,
		notifier: notifier,
		log:      log,
	}
}

// GetFlight returns the stored flight or constants.ErrFlightNotFound
func (svc *FlightService) GetFlight(ctx context.Context, id int64) (*gormModels.Flight, error) {
	return svc.store.FindByID(ctx, id)
}

// ListFlights returns flights on a route departing at or after from, earliest first
func (svc *FlightService) ListFlights(ctx context.Context, origin, destination string, from time.Time, limit int) ([]gormModels.Flight, error) {
	origin = normalizeAirport(origin)
	destination = normalizeAirport(destination)
	if len(origin) != 3 || len(destination) != 3 {
		return nil, fmt.Errorf("%w: origin and destination must be 3-letter codes", constants.ErrInvalidSearch)
	}
	if limit <= 0 || limit > constants.MaxSearchPageSize {
		limit = constants.DefaultSearchPageSize
	}

	flights, err := svc.store.ListByRoute(ctx, origin, destination, from, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list flights %s-%s: %w", origin, destination, err)
	}
	return flights, nil
}

// CreateFlight validates and stores a new, active flight
func (svc *FlightService) CreateFlight(ctx context.Context, req requests.CreateFlightRequest) (*gormModels.Flight, error) {
	flight := gormModels.Flight{
		FlightNumber:   strings.ToUpper(strings.TrimSpace(req.FlightNumber)),
		AirlineID:      req.AirlineID,
		Origin:         normalizeAirport(req.Origin),
		Destination:    normalizeAirport(req.Destination),
		DepartureTime:  req.DepartureTime.UTC(),
		ArrivalTime:    req.ArrivalTime.UTC(),
		Price:          req.Price,
		Currency:       strings.ToUpper(strings.TrimSpace(req.Currency)),
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.AvailableSeats,
		IsActive:       true,
		AircraftType:   req.AircraftType,
	}

	if err := validateFlight(&flight); err != nil {
		return nil, err
	}

	exists, err := svc.store.AirlineExists(ctx, flight.AirlineID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up airline %d: %w", flight.AirlineID, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: unknown airline %d", constants.ErrInvalidFlight, flight.AirlineID)
	}

	if err := svc.store.Create(ctx, &flight); err != nil {
		return nil, fmt.Errorf("failed to create flight: %w", err)
	}

	svc.log.Infow("Flight created", "flight_id", flight.ID, "flight_number", flight.FlightNumber)
	svc.notifier.OnFlightMutated(nil, flight)
	return &flight, nil
}

// UpdateFlight applies the non-nil fields of req to the stored flight
func (svc *FlightService) UpdateFlight(ctx context.Context, id int64, req requests.UpdateFlightRequest) (*gormModels.Flight, error) {
	return svc.mutate(ctx, id, func(flight *gormModels.Flight) {
		if req.DepartureTime != nil {
			flight.DepartureTime = req.DepartureTime.UTC()
		}
		if req.ArrivalTime != nil {
			flight.ArrivalTime = req.ArrivalTime.UTC()
		}
		if req.Price != nil {
			flight.Price = *req.Price
		}
		if req.TotalSeats != nil {
			flight.TotalSeats = *req.TotalSeats
		}
		if req.AvailableSeats != nil {
			flight.AvailableSeats = *req.AvailableSeats
		}
		if req.IsActive != nil {
			flight.IsActive = *req.IsActive
		}
		if req.AircraftType != nil {
			flight.AircraftType = *req.AircraftType
		}
	})
}

// CancelFlight deactivates the flight. Cancelling a cancelled flight changes nothing.
func (svc *FlightService) CancelFlight(ctx context.Context, id int64) (*gormModels.Flight, error) {
	return svc.mutate(ctx, id, func(flight *gormModels.Flight) {
		flight.IsActive = false
	})
}

// ReactivateFlight puts a cancelled flight back on sale
func (svc *FlightService) ReactivateFlight(ctx context.Context, id int64) (*gormModels.Flight, error) {
	return svc.mutate(ctx, id, func(flight *gormModels.Flight) {
		flight.IsActive = true
	})
}

// mutate loads the flight, snapshots it, applies change, validates and saves,
// then hands both snapshots to the notifier
func (svc *FlightService) mutate(ctx context.Context, id int64, change func(flight *gormModels.Flight)) (*gormModels.Flight, error) {
	current, err := svc.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	old := *current
	updated := *current
	change(&updated)

	if err := validateFlight(&updated); err != nil {
		return nil, err
	}

	if err := svc.store.Save(ctx, &updated); err != nil {
		if errors.Is(err, constants.ErrFlightNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save flight %d: %w", id, err)
	}

	svc.log.Infow("Flight updated", "flight_id", id, "active", updated.IsActive, "available_seats", updated.AvailableSeats)
	svc.notifier.OnFlightMutated(&old, updated)
	return &updated, nil
}

func validateFlight(flight *gormModels.Flight) error {
	var problems []string

	if flight.FlightNumber == "" {
		problems = append(problems, "flight number is required")
	}
	if len(flight.Origin) != 3 || len(flight.Destination) != 3 {
		problems = append(problems, "airports must be 3-letter codes")
	}
	if flight.Origin == flight.Destination {
		problems = append(problems, "origin and destination must differ")
	}
	if !flight.ArrivalTime.After(flight.DepartureTime) {
		problems = append(problems, "arrival must be after departure")
	}
	if flight.Price < 0 {
		problems = append(problems, "price cannot be negative")
	}
	if len(flight.Currency) != 3 {
		problems = append(problems, "currency must be a 3-letter code")
	}
	if flight.TotalSeats < 0 || flight.AvailableSeats < 0 || flight.AvailableSeats > flight.TotalSeats {
		problems = append(problems, "available seats must be between 0 and total seats")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", constants.ErrInvalidFlight, strings.Join(problems, "; "))
	}
	return nil
}

func normalizeAirport(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
