package journeys

import (
	gormModels "cred-air/journeys/internal/models/gorm"
)

// ChangeAnalysis is the result of comparing two snapshots of one flight.
// The three flags are independent; Type is the single category that wins by priority.
type ChangeAnalysis struct {
	FlightID        int64
	Type            ChangeType
	ScheduleChanged bool
	SeatsChanged    bool
	StatusChanged   bool

	old     *gormModels.Flight
	updated gormModels.Flight
}

// Classify compares the stored flight before and after a mutation.
// Priority: status flip > schedule > seats > nothing. A nil old snapshot is always Created.
func Classify(old *gormModels.Flight, updated gormModels.Flight) ChangeAnalysis {
	analysis := ChangeAnalysis{
		FlightID: updated.ID,
		updated:  updated,
	}

	if old == nil {
		analysis.Type = ChangeCreated
		return analysis
	}

	snapshot := *old
	analysis.old = &snapshot
	analysis.ScheduleChanged = !old.DepartureTime.Equal(updated.DepartureTime) ||
		!old.ArrivalTime.Equal(updated.ArrivalTime)
	analysis.SeatsChanged = old.AvailableSeats != updated.AvailableSeats
	analysis.StatusChanged = old.IsActive != updated.IsActive

	switch {
	case analysis.StatusChanged && !updated.IsActive:
		analysis.Type = ChangeCancelled
	case analysis.StatusChanged:
		analysis.Type = ChangeReactivated
	case analysis.ScheduleChanged:
		analysis.Type = ChangeSchedule
	case analysis.SeatsChanged:
		analysis.Type = ChangeSeats
	default:
		analysis.Type = ChangeNoMaterialChange
	}

	return analysis
}

// ToEvent maps an analysis to its event. ok is false for NoMaterialChange.
func ToEvent(analysis ChangeAnalysis) (event ChangeEvent, ok bool) {
	switch analysis.Type {
	case ChangeCreated:
		return Created{FlightID: analysis.FlightID}, true
	case ChangeCancelled:
		return Cancelled{FlightID: analysis.FlightID}, true
	case ChangeReactivated:
		return Reactivated{FlightID: analysis.FlightID}, true
	case ChangeSchedule:
		return ScheduleChanged{
			FlightID:     analysis.FlightID,
			OldDeparture: analysis.old.DepartureTime,
			NewDeparture: analysis.updated.DepartureTime,
			OldArrival:   analysis.old.ArrivalTime,
			NewArrival:   analysis.updated.ArrivalTime,
		}, true
	case ChangeSeats:
		return SeatsChanged{
			FlightID:     analysis.FlightID,
			OldAvailable: analysis.old.AvailableSeats,
			NewAvailable: analysis.updated.AvailableSeats,
		}, true
	default:
		return nil, false
	}
}
