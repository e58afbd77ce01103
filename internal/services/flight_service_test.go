package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"cred-air/journeys/internal/constants"
	"cred-air/journeys/internal/models/dtos/requests"
	gormModels "cred-air/journeys/internal/models/gorm"

	"go.uber.org/zap"
)

// Mock FlightStore backed by a map
type mockFlightStore struct {
	flights  map[int64]gormModels.Flight
	nextID   int64
	saveFunc func(flight *gormModels.Flight) error
}

func newMockFlightStore(flights ...gormModels.Flight) *mockFlightStore {
	store := &mockFlightStore{flights: map[int64]gormModels.Flight{}, nextID: 100}
	for _, f := range flights {
		store.flights[f.ID] = f
	}
	return store
}

func (m *mockFlightStore) FindByID(ctx context.Context, id int64) (*gormModels.Flight, error) {
	flight, ok := m.flights[id]
	if !ok {
		return nil, constants.ErrFlightNotFound
	}
	return &flight, nil
}

func (m *mockFlightStore) Create(ctx context.Context, flight *gormModels.Flight) error {
	m.nextID++
	flight.ID = m.nextID
	m.flights[flight.ID] = *flight
	return nil
}

func (m *mockFlightStore) Save(ctx context.Context, flight *gormModels.Flight) error {
	if m.saveFunc != nil {
		return m.saveFunc(flight)
	}
	m.flights[flight.ID] = *flight
	return nil
}

func (m *mockFlightStore) AirlineExists(ctx context.Context, airlineID int64) (bool, error) {
	return airlineID == 1, nil
}

func (m *mockFlightStore) ListByRoute(ctx context.Context, origin, destination string, from time.Time, limit int) ([]gormModels.Flight, error) {
	var flights []gormModels.Flight
	for _, f := range m.flights {
		if f.Origin == origin && f.Destination == destination && !f.DepartureTime.Before(from) {
			flights = append(flights, f)
		}
	}
	return flights, nil
}

type mutation struct {
	old     *gormModels.Flight
	updated gormModels.Flight
}

// Mock FlightChangeNotifier
type recordingNotifier struct {
	mutations []mutation
}

func (n *recordingNotifier) OnFlightMutated(old *gormModels.Flight, updated gormModels.Flight) {
	n.mutations = append(n.mutations, mutation{old: old, updated: updated})
}

var serviceDeparture = time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC)

func existingFlight() gormModels.Flight {
	return gormModels.Flight{
		ID:             7,
		FlightNumber:   "UK955",
		AirlineID:      1,
		Origin:         "BOM",
		Destination:    "DEL",
		DepartureTime:  serviceDeparture,
		ArrivalTime:    serviceDeparture.Add(2 * time.Hour),
		Price:          5200,
		Currency:       "INR",
		TotalSeats:     150,
		AvailableSeats: 40,
		IsActive:       true,
	}
}

func validCreateRequest() requests.CreateFlightRequest {
	return requests.CreateFlightRequest{
		FlightNumber:   " uk955 ",
		AirlineID:      1,
		Origin:         "bom",
		Destination:    "DEL",
		DepartureTime:  serviceDeparture,
		ArrivalTime:    serviceDeparture.Add(2 * time.Hour),
		Price:          5200,
		Currency:       "inr",
		TotalSeats:     150,
		AvailableSeats: 150,
	}
}

func TestFlightService_CreateFlightNotifiesWithoutSnapshot(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewFlightService(newMockFlightStore(), notifier, zap.NewNop().Sugar())

	flight, err := svc.CreateFlight(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("CreateFlight failed: %v", err)
	}

	if flight.FlightNumber != "UK955" || flight.Origin != "BOM" || flight.Currency != "INR" || !flight.IsActive {
		t.Errorf("Expected normalized active flight, got %+v", flight)
	}
	if len(notifier.mutations) != 1 || notifier.mutations[0].old != nil {
		t.Fatalf("Expected one mutation with no prior snapshot, got %+v", notifier.mutations)
	}
	if notifier.mutations[0].updated.ID != flight.ID {
		t.Errorf("Expected notifier to see the stored id %d", flight.ID)
	}
}

func TestFlightService_CreateFlightValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(req *requests.CreateFlightRequest)
	}{
		{"same airports", func(req *requests.CreateFlightRequest) { req.Destination = "BOM" }},
		{"arrival before departure", func(req *requests.CreateFlightRequest) { req.ArrivalTime = req.DepartureTime }},
		{"too many available seats", func(req *requests.CreateFlightRequest) { req.AvailableSeats = 151 }},
		{"negative price", func(req *requests.CreateFlightRequest) { req.Price = -1 }},
		{"unknown airline", func(req *requests.CreateFlightRequest) { req.AirlineID = 9 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			notifier := &recordingNotifier{}
			svc := NewFlightService(newMockFlightStore(), notifier, zap.NewNop().Sugar())

			req := validCreateRequest()
			tc.mutate(&req)

			if _, err := svc.CreateFlight(context.Background(), req); !errors.Is(err, constants.ErrInvalidFlight) {
				t.Errorf("Expected ErrInvalidFlight, got %v", err)
			}
			if len(notifier.mutations) != 0 {
				t.Errorf("Expected no notification for a rejected flight")
			}
		})
	}
}

func TestFlightService_UpdateFlightPassesBothSnapshots(t *testing.T) {
	notifier := &recordingNotifier{}
	store := newMockFlightStore(existingFlight())
	svc := NewFlightService(store, notifier, zap.NewNop().Sugar())

	seats := 0
	updated, err := svc.UpdateFlight(context.Background(), 7, requests.UpdateFlightRequest{AvailableSeats: &seats})
	if err != nil {
		t.Fatalf("UpdateFlight failed: %v", err)
	}

	if updated.AvailableSeats != 0 || store.flights[7].AvailableSeats != 0 {
		t.Errorf("Expected seats persisted as 0")
	}
	if len(notifier.mutations) != 1 {
		t.Fatalf("Expected one mutation, got %d", len(notifier.mutations))
	}
	m := notifier.mutations[0]
	if m.old == nil || m.old.AvailableSeats != 40 || m.updated.AvailableSeats != 0 {
		t.Errorf("Expected old 40 and new 0 seats, got %+v", m)
	}
}

func TestFlightService_CancelAndReactivate(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewFlightService(newMockFlightStore(existingFlight()), notifier, zap.NewNop().Sugar())
	ctx := context.Background()

	cancelled, err := svc.CancelFlight(ctx, 7)
	if err != nil {
		t.Fatalf("CancelFlight failed: %v", err)
	}
	if cancelled.IsActive {
		t.Error("Expected flight to be inactive")
	}

	if _, err := svc.ReactivateFlight(ctx, 7); err != nil {
		t.Fatalf("ReactivateFlight failed: %v", err)
	}

	if len(notifier.mutations) != 2 {
		t.Fatalf("Expected two mutations, got %d", len(notifier.mutations))
	}
	if !notifier.mutations[0].old.IsActive || notifier.mutations[0].updated.IsActive {
		t.Error("Expected first mutation to flip active to inactive")
	}
	if notifier.mutations[1].old.IsActive || !notifier.mutations[1].updated.IsActive {
		t.Error("Expected second mutation to flip inactive to active")
	}
}

func TestFlightService_UnknownFlight(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewFlightService(newMockFlightStore(), notifier, zap.NewNop().Sugar())

	if _, err := svc.CancelFlight(context.Background(), 404); !errors.Is(err, constants.ErrFlightNotFound) {
		t.Errorf("Expected ErrFlightNotFound, got %v", err)
	}
}

func TestFlightService_SaveFailureSkipsNotification(t *testing.T) {
	notifier := &recordingNotifier{}
	store := newMockFlightStore(existingFlight())
	store.saveFunc = func(flight *gormModels.Flight) error { return errors.New("deadlock detected") }
	svc := NewFlightService(store, notifier, zap.NewNop().Sugar())

	if _, err := svc.CancelFlight(context.Background(), 7); err == nil {
		t.Fatal("Expected save error")
	}
	if len(notifier.mutations) != 0 {
		t.Errorf("Expected no notification when the write failed")
	}
}

func TestFlightService_ListFlights(t *testing.T) {
	svc := NewFlightService(newMockFlightStore(existingFlight()), &recordingNotifier{}, zap.NewNop().Sugar())

	flights, err := svc.ListFlights(context.Background(), "bom", "del", serviceDeparture.Add(-time.Hour), 0)
	if err != nil {
		t.Fatalf("ListFlights failed: %v", err)
	}
	if len(flights) != 1 || flights[0].ID != 7 {
		t.Errorf("Expected flight 7, got %+v", flights)
	}

	if _, err := svc.ListFlights(context.Background(), "BOMBAY", "DEL", serviceDeparture, 0); !errors.Is(err, constants.ErrInvalidSearch) {
		t.Errorf("Expected ErrInvalidSearch for a bad airport code, got %v", err)
	}
}
