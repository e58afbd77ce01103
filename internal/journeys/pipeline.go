package journeys

import (
	gormModels "cred-air/journeys/internal/models/gorm"

	"go.uber.org/zap"
)

// Publisher accepts events without blocking; false means the event was dropped
type Publisher interface {
	Publish(event ChangeEvent) bool
}

// Pipeline is the entry point the flight service calls after persisting a mutation
type Pipeline struct {
	publisher Publisher
	log       *zap.SugaredLogger
}

// NewPipeline creates a new flight change pipeline
func NewPipeline(publisher Publisher, log *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		publisher: publisher,
		log:       log,
	}
}

// OnFlightMutated classifies the change and enqueues at most one event.
// It never blocks on index maintenance and never reports failure to the caller.
func (p *Pipeline) OnFlightMutated(old *gormModels.Flight, updated gormModels.Flight) {
	analysis := Classify(old, updated)

	event, ok := ToEvent(analysis)
	if !ok {
		p.log.Debugw("Flight change does not affect journeys", "flight_id", updated.ID)
		return
	}

	if p.publisher.Publish(event) {
		p.log.Debugw("Flight change queued for journey index",
			"flight_id", updated.ID,
			"event_type", event.EventType(),
			"schedule_changed", analysis.ScheduleChanged,
			"seats_changed", analysis.SeatsChanged,
			"status_changed", analysis.StatusChanged,
		)
	}
}
