package journeys

import "time"

// ChangeType is the single winning category of a flight mutation
type ChangeType string

const (
	ChangeCreated          ChangeType = "CREATED"
	ChangeCancelled        ChangeType = "CANCELLED"
	ChangeReactivated      ChangeType = "REACTIVATED"
	ChangeSchedule         ChangeType = "SCHEDULE_CHANGE"
	ChangeSeats            ChangeType = "SEATS_UPDATE"
	ChangeNoMaterialChange ChangeType = "NO_MATERIAL_CHANGE"
)

// ChangeEvent is the closed set of journey-index events. The unexported marker
// keeps other packages from adding variants the Manager does not handle.
type ChangeEvent interface {
	EventType() ChangeType
	TargetFlightID() int64
	isChangeEvent()
}

// ScheduleChanged is emitted when departure or arrival moved
type ScheduleChanged struct {
	FlightID     int64     `json:"flight_id"`
	OldDeparture time.Time `json:"old_departure"`
	NewDeparture time.Time `json:"new_departure"`
	OldArrival   time.Time `json:"old_arrival"`
	NewArrival   time.Time `json:"new_arrival"`
}

// SeatsChanged is emitted when only the available seat count moved
type SeatsChanged struct {
	FlightID     int64 `json:"flight_id"`
	OldAvailable int   `json:"old_available"`
	NewAvailable int   `json:"new_available"`
}

// Cancelled is emitted when an active flight is deactivated
type Cancelled struct {
	FlightID int64 `json:"flight_id"`
}

// Reactivated is emitted when an inactive flight is switched back on
type Reactivated struct {
	FlightID int64 `json:"flight_id"`
}

// Created is emitted for a flight with no prior snapshot
type Created struct {
	FlightID int64 `json:"flight_id"`
}

func (ScheduleChanged) EventType() ChangeType { return ChangeSchedule }
func (SeatsChanged) EventType() ChangeType    { return ChangeSeats }
func (Cancelled) EventType() ChangeType       { return ChangeCancelled }
func (Reactivated) EventType() ChangeType     { return ChangeReactivated }
func (Created) EventType() ChangeType         { return ChangeCreated }

func (e ScheduleChanged) TargetFlightID() int64 { return e.FlightID }
func (e SeatsChanged) TargetFlightID() int64    { return e.FlightID }
func (e Cancelled) TargetFlightID() int64       { return e.FlightID }
func (e Reactivated) TargetFlightID() int64     { return e.FlightID }
func (e Created) TargetFlightID() int64         { return e.FlightID }

func (ScheduleChanged) isChangeEvent() {}
func (SeatsChanged) isChangeEvent()    {}
func (Cancelled) isChangeEvent()       {}
func (Reactivated) isChangeEvent()     {}
func (Created) isChangeEvent()         {}
