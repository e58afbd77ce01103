package journeys

import (
	"testing"

	"go.uber.org/zap"
)

// Mock Publisher
type mockPublisher struct {
	accept bool
	events []ChangeEvent
}

func (m *mockPublisher) Publish(event ChangeEvent) bool {
	m.events = append(m.events, event)
	return m.accept
}

func TestPipeline_PublishesOneEventPerMutation(t *testing.T) {
	publisher := &mockPublisher{accept: true}
	pipeline := NewPipeline(publisher, zap.NewNop().Sugar())

	old := baseFlight()
	updated := baseFlight()
	updated.IsActive = false
	updated.AvailableSeats = 0

	pipeline.OnFlightMutated(&old, updated)

	if len(publisher.events) != 1 {
		t.Fatalf("Expected exactly one event, got %d", len(publisher.events))
	}
	if _, ok := publisher.events[0].(Cancelled); !ok {
		t.Errorf("Expected Cancelled, got %T", publisher.events[0])
	}
}

func TestPipeline_SkipsImmaterialChanges(t *testing.T) {
	publisher := &mockPublisher{accept: true}
	pipeline := NewPipeline(publisher, zap.NewNop().Sugar())

	old := baseFlight()
	updated := baseFlight()
	updated.AircraftType = "B737"

	pipeline.OnFlightMutated(&old, updated)

	if len(publisher.events) != 0 {
		t.Errorf("Expected no events, got %v", publisher.events)
	}
}

func TestPipeline_DroppedEventDoesNotPanic(t *testing.T) {
	publisher := &mockPublisher{accept: false}
	pipeline := NewPipeline(publisher, zap.NewNop().Sugar())

	pipeline.OnFlightMutated(nil, baseFlight())

	if len(publisher.events) != 1 {
		t.Errorf("Expected the Created event to be offered once, got %d", len(publisher.events))
	}
}
