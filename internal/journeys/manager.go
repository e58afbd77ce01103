package journeys

import (
	"context"
	"fmt"

	"cred-air/journeys/internal/constants"
	"cred-air/journeys/internal/db/repositories"
	"cred-air/journeys/internal/metrics"

	"go.uber.org/zap"
)

// IndexObserver is told after a change event altered the journey index
type IndexObserver interface {
	JourneysChanged(ctx context.Context)
}

// Manager applies one change event to the journey index with the matching
// incremental strategy. Every handler is safe to re-run for a re-delivered event.
type Manager struct {
	store     repositories.JourneyIndexStore
	log       *zap.SugaredLogger
	metrics   *metrics.MetricsRegistry
	observers []IndexObserver
}

// indexDelta counts journey rows touched by one event
type indexDelta struct {
	deleted  int64
	updated  int64
	inserted int64
}

func (d indexDelta) changed() bool {
	return d.deleted+d.updated+d.inserted > 0
}

// NewManager creates a journey index manager. metricsReg may be nil.
func NewManager(store repositories.JourneyIndexStore, log *zap.SugaredLogger, metricsReg *metrics.MetricsRegistry, observers ...IndexObserver) *Manager {
	return &Manager{
		store:     store,
		log:       log,
		metrics:   metricsReg,
		observers: observers,
	}
}

// Handle routes the event to its handler. Errors are returned to the caller (the dispatcher)
// and never reach the flight mutation that produced the event.
func (m *Manager) Handle(ctx context.Context, event ChangeEvent) error {
	var (
		delta indexDelta
		err   error
	)

	switch e := event.(type) {
	case ScheduleChanged:
		delta, err = m.handleScheduleChange(ctx, e)
	case SeatsChanged:
		delta, err = m.handleSeatsChange(ctx, e)
	case Cancelled:
		delta, err = m.handleCancellation(ctx, e)
	case Reactivated:
		delta, err = m.recomputeOnly(ctx, e.FlightID)
	case Created:
		delta, err = m.recomputeOnly(ctx, e.FlightID)
	default:
		return fmt.Errorf("%w: %T", constants.ErrUnknownEvent, event)
	}

	if err != nil {
		return fmt.Errorf("%s for flight %d: %w", event.EventType(), event.TargetFlightID(), err)
	}

	m.log.Infow("Journey index updated",
		"event_type", event.EventType(),
		"flight_id", event.TargetFlightID(),
		"deleted", delta.deleted,
		"updated", delta.updated,
		"inserted", delta.inserted,
	)

	m.record(delta)
	if delta.changed() {
		for _, observer := range m.observers {
			observer.JourneysChanged(ctx)
		}
	}
	return nil
}

// handleScheduleChange drops every path through the flight, then rebuilds the ones the new times allow
func (m *Manager) handleScheduleChange(ctx context.Context, event ScheduleChanged) (indexDelta, error) {
	var delta indexDelta

	err := m.store.Atomically(ctx, func(store repositories.JourneyIndexStore) error {
		deleted, err := store.DeleteJourneysContaining(ctx, event.FlightID)
		if err != nil {
			return err
		}
		inserted, err := recomputeAllForFlight(ctx, store, event.FlightID)
		if err != nil {
			return err
		}
		delta = indexDelta{deleted: deleted, inserted: inserted}
		return nil
	})

	return delta, err
}

// handleSeatsChange refreshes the seat aggregate in place; seat counts never break timing rules
func (m *Manager) handleSeatsChange(ctx context.Context, event SeatsChanged) (indexDelta, error) {
	updated, err := m.store.UpdateMinSeats(ctx, event.FlightID)
	if err != nil {
		return indexDelta{}, err
	}

	if event.NewAvailable == 0 {
		m.log.Debugw("Flight sold out, journeys kept with zero seats",
			"flight_id", event.FlightID,
			"journeys", updated,
		)
	}
	return indexDelta{updated: updated}, nil
}

func (m *Manager) handleCancellation(ctx context.Context, event Cancelled) (indexDelta, error) {
	deleted, err := m.store.DeleteJourneysContaining(ctx, event.FlightID)
	if err != nil {
		return indexDelta{}, err
	}
	return indexDelta{deleted: deleted}, nil
}

// recomputeOnly serves Created and Reactivated: no stale path can reference the flight yet
func (m *Manager) recomputeOnly(ctx context.Context, flightID int64) (indexDelta, error) {
	var delta indexDelta

	err := m.store.Atomically(ctx, func(store repositories.JourneyIndexStore) error {
		inserted, err := recomputeAllForFlight(ctx, store, flightID)
		delta.inserted = inserted
		return err
	})

	return delta, err
}

// recomputeAllForFlight runs the four path searches in order and sums their inserts
func recomputeAllForFlight(ctx context.Context, store repositories.JourneyIndexStore, flightID int64) (int64, error) {
	steps := []func(context.Context, int64) (int64, error){
		store.RecomputeDirect,
		store.RecomputeOneStopAsFirst,
		store.RecomputeOneStopAsSecond,
		store.RecomputeTwoStopContaining,
	}

	var total int64
	for _, step := range steps {
		inserted, err := step(ctx, flightID)
		if err != nil {
			return total, err
		}
		total += inserted
	}
	return total, nil
}

func (m *Manager) record(delta indexDelta) {
	if m.metrics == nil {
		return
	}
	m.metrics.JourneysChangedTotal.WithLabelValues("deleted").Add(float64(delta.deleted))
	m.metrics.JourneysChangedTotal.WithLabelValues("updated").Add(float64(delta.updated))
	m.metrics.JourneysChangedTotal.WithLabelValues("inserted").Add(float64(delta.inserted))
}
