package journeys

import (
	"testing"
	"time"

	gormModels "cred-air/journeys/internal/models/gorm"
)

var departure = time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)

func baseFlight() gormModels.Flight {
	return gormModels.Flight{
		ID:             42,
		FlightNumber:   "6E201",
		Origin:         "DEL",
		Destination:    "BOM",
		DepartureTime:  departure,
		ArrivalTime:    departure.Add(2 * time.Hour),
		Price:          4500,
		Currency:       "INR",
		TotalSeats:     180,
		AvailableSeats: 50,
		IsActive:       true,
		AircraftType:   "A320",
	}
}

func TestClassify_CreatedWithoutSnapshot(t *testing.T) {
	analysis := Classify(nil, baseFlight())

	if analysis.Type != ChangeCreated {
		t.Fatalf("Expected CREATED, got %s", analysis.Type)
	}
	if analysis.ScheduleChanged || analysis.SeatsChanged || analysis.StatusChanged {
		t.Errorf("Expected no change flags for a created flight, got %+v", analysis)
	}

	event, ok := ToEvent(analysis)
	if !ok {
		t.Fatal("Expected an event for a created flight")
	}
	if created, isCreated := event.(Created); !isCreated || created.FlightID != 42 {
		t.Errorf("Expected Created{42}, got %#v", event)
	}
}

func TestClassify_Priority(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(f *gormModels.Flight)
		want   ChangeType
	}{
		{
			name:   "cancel wins over schedule and seats",
			mutate: func(f *gormModels.Flight) {
				f.IsActive = false
				f.DepartureTime = f.DepartureTime.Add(time.Hour)
				f.AvailableSeats = 0
			},
			want:   ChangeCancelled,
		},
		{
			name:   "schedule wins over seats",
			mutate: func(f *gormModels.Flight) {
				f.ArrivalTime = f.ArrivalTime.Add(30 * time.Minute)
				f.AvailableSeats = 12
			},
			want:   ChangeSchedule,
		},
		{
			name:   "seats only",
			mutate: func(f *gormModels.Flight) { f.AvailableSeats = 0 },
			want:   ChangeSeats,
		},
		{
			name:   "untracked metadata",
			mutate: func(f *gormModels.Flight) {
				f.AircraftType = "A321neo"
				f.FlightNumber = "6E202"
				f.Price = 5000
			},
			want:   ChangeNoMaterialChange,
		},
		{
			name:   "nothing changed",
			mutate: func(f *gormModels.Flight) {},
			want:   ChangeNoMaterialChange,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			old := baseFlight()
			updated := baseFlight()
			tc.mutate(&updated)

			if got := Classify(&old, updated).Type; got != tc.want {
				t.Errorf("Expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestClassify_ReactivationWinsOverSchedule(t *testing.T) {
	old := baseFlight()
	old.IsActive = false
	updated := baseFlight()
	updated.DepartureTime = updated.DepartureTime.Add(2 * time.Hour)
	updated.ArrivalTime = updated.ArrivalTime.Add(2 * time.Hour)

	analysis := Classify(&old, updated)

	if analysis.Type != ChangeReactivated {
		t.Fatalf("Expected REACTIVATED, got %s", analysis.Type)
	}
	if !analysis.ScheduleChanged || !analysis.StatusChanged || analysis.SeatsChanged {
		t.Errorf("Expected schedule and status flags set independently, got %+v", analysis)
	}
}

func TestClassify_EqualInstantsInDifferentZonesAreNotAScheduleChange(t *testing.T) {
	old := baseFlight()
	updated := baseFlight()
	ist := time.FixedZone("IST", 5*3600+1800)
	updated.DepartureTime = updated.DepartureTime.In(ist)
	updated.ArrivalTime = updated.ArrivalTime.In(ist)

	if got := Classify(&old, updated).Type; got != ChangeNoMaterialChange {
		t.Errorf("Expected NO_MATERIAL_CHANGE, got %s", got)
	}
}

func TestToEvent_CarriesBeforeAndAfterValues(t *testing.T) {
	old := baseFlight()
	updated := baseFlight()
	updated.DepartureTime = departure.Add(time.Hour)
	updated.ArrivalTime = departure.Add(3 * time.Hour)

	event, ok := ToEvent(Classify(&old, updated))
	if !ok {
		t.Fatal("Expected schedule change event")
	}
	schedule, isSchedule := event.(ScheduleChanged)
	if !isSchedule {
		t.Fatalf("Expected ScheduleChanged, got %T", event)
	}
	if !schedule.OldDeparture.Equal(departure) || !schedule.NewDeparture.Equal(departure.Add(time.Hour)) {
		t.Errorf("Unexpected departures %s -> %s", schedule.OldDeparture, schedule.NewDeparture)
	}
	if !schedule.NewArrival.Equal(departure.Add(3 * time.Hour)) {
		t.Errorf("Unexpected new arrival %s", schedule.NewArrival)
	}

	updated = baseFlight()
	updated.AvailableSeats = 0
	event, _ = ToEvent(Classify(&old, updated))
	seats, isSeats := event.(SeatsChanged)
	if !isSeats || seats.OldAvailable != 50 || seats.NewAvailable != 0 {
		t.Errorf("Expected SeatsChanged{50, 0}, got %#v", event)
	}
}

func TestToEvent_NoMaterialChangeHasNoEvent(t *testing.T) {
	old := baseFlight()
	if event, ok := ToEvent(Classify(&old, baseFlight())); ok || event != nil {
		t.Errorf("Expected no event, got %#v", event)
	}
}
