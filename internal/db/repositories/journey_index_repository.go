package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"cred-air/journeys/internal/constants"
	"cred-air/journeys/internal/itinerary"
	"cred-air/journeys/internal/models/gorm"

	"golang.org/x/sync/errgroup"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JourneyIndexStore is the set of incremental maintenance primitives over the journeys table.
// Every count returned is the number of journey rows deleted, updated or inserted.
type JourneyIndexStore interface {
	DeleteJourneysContaining(ctx context.Context, flightID int64) (int64, error)
	UpdateMinSeats(ctx context.Context, flightID int64) (int64, error)
	RecomputeDirect(ctx context.Context, flightID int64) (int64, error)
	RecomputeOneStopAsFirst(ctx context.Context, flightID int64) (int64, error)
	RecomputeOneStopAsSecond(ctx context.Context, flightID int64) (int64, error)
	RecomputeTwoStopContaining(ctx context.Context, flightID int64) (int64, error)

	// Atomically runs fn against a store bound to a single transaction.
	Atomically(ctx context.Context, fn func(store JourneyIndexStore) error) error
}

// naturalKey is the conflict target for journey upserts
var naturalKey = []clause.Column{
	{Name: "origin"},
	{Name: "destination"},
	{Name: "departure_date"},
	{Name: "departure_time"},
	{Name: "path"},
}

// candidateFinder lists leg sequences that might form journeys through flight.
// Sequences are filtered by itinerary.Valid before insertion, so finders only need to bound the search.
type candidateFinder func(tx *gormlib.DB, flight *gorm.Flight, now time.Time) ([][]gorm.Flight, error)

// JourneyIndexRepo handles journeys table maintenance
type JourneyIndexRepo struct {
	db                 *gormlib.DB
	now                func() time.Time
	refreshConcurrency int
	refreshing         *atomic.Bool
}

var _ JourneyIndexStore = (*JourneyIndexRepo)(nil)

// NewJourneyIndexRepo creates a new journey index repository
func NewJourneyIndexRepo(db *gormlib.DB) *JourneyIndexRepo {
	return &JourneyIndexRepo{
		db:                 db,
		now:                func() time.Time { return time.Now().UTC() },
		refreshConcurrency: 4,
		refreshing:         &atomic.Bool{},
	}
}

// WithClock overrides the instant used for the "departs in the future" rule
func (r *JourneyIndexRepo) WithClock(now func() time.Time) *JourneyIndexRepo {
	r.now = now
	return r
}

// WithRefreshConcurrency sets how many flights RefreshAll recomputes in parallel
func (r *JourneyIndexRepo) WithRefreshConcurrency(n int) *JourneyIndexRepo {
	if n > 0 {
		r.refreshConcurrency = n
	}
	return r
}

// Atomically runs fn inside one transaction so a reader never sees half of an event's work
func (r *JourneyIndexRepo) Atomically(ctx context.Context, fn func(store JourneyIndexStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		bound := *r
		bound.db = tx
		return fn(&bound)
	})
}

// DeleteJourneysContaining removes every journey whose path includes the flight
func (r *JourneyIndexRepo) DeleteJourneysContaining(ctx context.Context, flightID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("leg1_id = ? OR leg2_id = ? OR leg3_id = ?", flightID, flightID, flightID).
		Delete(&gorm.Journey{})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete journeys for flight %d: %w", flightID, result.Error)
	}
	return result.RowsAffected, nil
}

// UpdateMinSeats recomputes min_available_seats in place for every journey containing the flight.
// Seat counts are read from the flights table, so out-of-order seat events converge on the latest value.
func (r *JourneyIndexRepo) UpdateMinSeats(ctx context.Context, flightID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Exec(constants.UpdateJourneyMinSeats, true, flightID, flightID, flightID)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to update min seats for flight %d: %w", flightID, result.Error)
	}
	return result.RowsAffected, nil
}

// RecomputeDirect inserts the single-leg journey for the flight
func (r *JourneyIndexRepo) RecomputeDirect(ctx context.Context, flightID int64) (int64, error) {
	return r.recompute(ctx, flightID, "recompute direct", findDirect)
}

// RecomputeOneStopAsFirst inserts journeys flight -> onward
func (r *JourneyIndexRepo) RecomputeOneStopAsFirst(ctx context.Context, flightID int64) (int64, error) {
	return r.recompute(ctx, flightID, "recompute one-stop as first", findOneStopAsFirst)
}

// RecomputeOneStopAsSecond inserts journeys inbound -> flight
func (r *JourneyIndexRepo) RecomputeOneStopAsSecond(ctx context.Context, flightID int64) (int64, error) {
	return r.recompute(ctx, flightID, "recompute one-stop as second", findOneStopAsSecond)
}

// RecomputeTwoStopContaining inserts three-leg journeys with the flight in any position
func (r *JourneyIndexRepo) RecomputeTwoStopContaining(ctx context.Context, flightID int64) (int64, error) {
	return r.recompute(ctx, flightID, "recompute two-stop", findTwoStopContaining)
}

// RefreshAll rebuilds the whole index from the flights table.
// For out-of-band maintenance only: readers see a shrinking index until it completes.
func (r *JourneyIndexRepo) RefreshAll(ctx context.Context) (int64, error) {
	if !r.refreshing.CompareAndSwap(false, true) {
		return 0, constants.ErrRefreshInProgress
	}
	defer r.refreshing.Store(false)

	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&gorm.Journey{}).Error; err != nil {
		return 0, fmt.Errorf("failed to clear journeys: %w", err)
	}

	var flightIDs []int64
	err := r.db.WithContext(ctx).
		Model(&gorm.Flight{}).
		Where("is_active = ? AND available_seats > 0 AND departure_time >= ?", true, r.now()).
		Order("id ASC").
		Pluck("id", &flightIDs).Error
	if err != nil {
		return 0, fmt.Errorf("failed to list bookable flights: %w", err)
	}

	// Every journey has exactly one first leg, so first-leg recomputation over all flights covers the index.
	var total atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.refreshConcurrency)

	for _, flightID := range flightIDs {
		flightID := flightID
		g.Go(func() error {
			inserted, err := r.recompute(gctx, flightID, "refresh", findAsFirstLeg)
			if err != nil {
				return err
			}
			total.Add(inserted)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return total.Load(), err
	}
	return total.Load(), nil
}

// FindJourneysContaining lists the journeys whose path includes the flight
func (r *JourneyIndexRepo) FindJourneysContaining(ctx context.Context, flightID int64) ([]gorm.Journey, error) {
	var journeys []gorm.Journey

	err := r.db.WithContext(ctx).
		Where("leg1_id = ? OR leg2_id = ? OR leg3_id = ?", flightID, flightID, flightID).
		Order("departure_time ASC, path ASC").
		Find(&journeys).Error

	if err != nil {
		return nil, err
	}
	return journeys, nil
}

func (r *JourneyIndexRepo) recompute(ctx context.Context, flightID int64, op string, find candidateFinder) (int64, error) {
	var inserted int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		var flight gorm.Flight
		err := tx.Preload("Airline").First(&flight, flightID).Error
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			// Deleted since the event was published; nothing can reference it.
			return nil
		}
		if err != nil {
			return err
		}

		now := r.now()
		if !flight.Bookable(now) {
			return nil
		}

		paths, err := find(tx, &flight, now)
		if err != nil {
			return err
		}

		inserted, err = insertJourneys(tx, paths, now)
		return err
	})

	if err != nil {
		return 0, fmt.Errorf("%s for flight %d: %w", op, flightID, err)
	}
	return inserted, nil
}

// insertJourneys upserts the valid paths; an existing natural key is left untouched
func insertJourneys(tx *gormlib.DB, paths [][]gorm.Flight, now time.Time) (int64, error) {
	seen := make(map[string]bool, len(paths))
	rows := make([]gorm.Journey, 0, len(paths))

	for _, legs := range paths {
		if !itinerary.Valid(legs, now) {
			continue
		}
		key := itinerary.PathKey(legs)
		if seen[key] {
			continue
		}
		seen[key] = true
		rows = append(rows, itinerary.Build(legs))
	}

	if len(rows) == 0 {
		return 0, nil
	}

	result := tx.Clauses(clause.OnConflict{
		Columns:   naturalKey,
		DoNothing: true,
	}).Create(&rows)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to insert journeys: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// onwardFlights lists bookable flights leaving flight's destination inside the connection window
func onwardFlights(tx *gormlib.DB, flight *gorm.Flight, now time.Time) ([]gorm.Flight, error) {
	earliest := flight.ArrivalTime.Add(constants.MinConnectionTime)
	if earliest.Before(now) {
		earliest = now
	}
	latest := flight.ArrivalTime.Add(constants.MaxConnectionTime)

	var flights []gorm.Flight
	err := tx.Preload("Airline").
		Where("origin = ? AND is_active = ? AND available_seats > 0", flight.Destination, true).
		Where("departure_time >= ? AND departure_time <= ?", earliest, latest).
		Order("departure_time ASC").
		Find(&flights).Error

	return flights, err
}

// inboundFlights lists bookable flights landing at flight's origin inside the connection window
func inboundFlights(tx *gormlib.DB, flight *gorm.Flight, now time.Time) ([]gorm.Flight, error) {
	var flights []gorm.Flight
	err := tx.Preload("Airline").
		Where("destination = ? AND is_active = ? AND available_seats > 0", flight.Origin, true).
		Where("arrival_time >= ? AND arrival_time <= ?",
			flight.DepartureTime.Add(-constants.MaxConnectionTime),
			flight.DepartureTime.Add(-constants.MinConnectionTime)).
		Where("departure_time >= ?", now).
		Order("departure_time ASC").
		Find(&flights).Error

	return flights, err
}

func findDirect(_ *gormlib.DB, flight *gorm.Flight, _ time.Time) ([][]gorm.Flight, error) {
	return [][]gorm.Flight{{*flight}}, nil
}

func findOneStopAsFirst(tx *gormlib.DB, flight *gorm.Flight, now time.Time) ([][]gorm.Flight, error) {
	onward, err := onwardFlights(tx, flight, now)
	if err != nil {
		return nil, err
	}

	paths := make([][]gorm.Flight, 0, len(onward))
	for _, next := range onward {
		paths = append(paths, []gorm.Flight{*flight, next})
	}
	return paths, nil
}

func findOneStopAsSecond(tx *gormlib.DB, flight *gorm.Flight, now time.Time) ([][]gorm.Flight, error) {
	inbound, err := inboundFlights(tx, flight, now)
	if err != nil {
		return nil, err
	}

	paths := make([][]gorm.Flight, 0, len(inbound))
	for _, prev := range inbound {
		paths = append(paths, []gorm.Flight{prev, *flight})
	}
	return paths, nil
}

func findTwoStopAsFirst(tx *gormlib.DB, flight *gorm.Flight, now time.Time) ([][]gorm.Flight, error) {
	onward, err := onwardFlights(tx, flight, now)
	if err != nil {
		return nil, err
	}

	var paths [][]gorm.Flight
	for i := range onward {
		beyond, err := onwardFlights(tx, &onward[i], now)
		if err != nil {
			return nil, err
		}
		for _, last := range beyond {
			paths = append(paths, []gorm.Flight{*flight, onward[i], last})
		}
	}
	return paths, nil
}

func findTwoStopAsMiddle(tx *gormlib.DB, flight *gorm.Flight, now time.Time) ([][]gorm.Flight, error) {
	inbound, err := inboundFlights(tx, flight, now)
	if err != nil || len(inbound) == 0 {
		return nil, err
	}
	onward, err := onwardFlights(tx, flight, now)
	if err != nil {
		return nil, err
	}

	paths := make([][]gorm.Flight, 0, len(inbound)*len(onward))
	for _, prev := range inbound {
		for _, next := range onward {
			paths = append(paths, []gorm.Flight{prev, *flight, next})
		}
	}
	return paths, nil
}

func findTwoStopAsLast(tx *gormlib.DB, flight *gorm.Flight, now time.Time) ([][]gorm.Flight, error) {
	inbound, err := inboundFlights(tx, flight, now)
	if err != nil {
		return nil, err
	}

	var paths [][]gorm.Flight
	for i := range inbound {
		before, err := inboundFlights(tx, &inbound[i], now)
		if err != nil {
			return nil, err
		}
		for _, first := range before {
			paths = append(paths, []gorm.Flight{first, inbound[i], *flight})
		}
	}
	return paths, nil
}

func findTwoStopContaining(tx *gormlib.DB, flight *gorm.Flight, now time.Time) ([][]gorm.Flight, error) {
	return collect(tx, flight, now, findTwoStopAsFirst, findTwoStopAsMiddle, findTwoStopAsLast)
}

// findAsFirstLeg covers every journey that starts with flight; used by RefreshAll
func findAsFirstLeg(tx *gormlib.DB, flight *gorm.Flight, now time.Time) ([][]gorm.Flight, error) {
	return collect(tx, flight, now, findDirect, findOneStopAsFirst, findTwoStopAsFirst)
}

func collect(tx *gormlib.DB, flight *gorm.Flight, now time.Time, finders ...candidateFinder) ([][]gorm.Flight, error) {
	var paths [][]gorm.Flight
	for _, find := range finders {
		found, err := find(tx, flight, now)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}
