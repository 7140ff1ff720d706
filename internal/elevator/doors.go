package elevator

import (
	"time"

	"github.com/liftsys/elevator-dispatch/internal/elevconsts"
	"github.com/liftsys/elevator-dispatch/internal/elevevent"
)

// OpenDoor runs one full opening phase: DoorOpening for the opening duration,
// then DoorOpen for the hold window. A door held past the safety threshold
// transitions to DoorHeld and raises an alarm before the forced close. Always
// followed by CloseDoor. No-op in maintenance.
func (e *Elevator) OpenDoor() {
	e.mutex.Lock()
	if e.underMaintenance() {
		e.reject("in maintenance, cannot open door")
		e.mutex.Unlock()
		return
	}
	e.state = elevconsts.DoorOpening
	e.emit(elevevent.DoorPhaseEvent{ElevatorID: e.id, Floor: e.currentFloor, State: e.state}.Wrap())
	e.mutex.Unlock()

	e.clock.Sleep(e.config.DoorOpeningTime)

	e.mutex.Lock()
	e.state = elevconsts.DoorOpen
	e.doorHeldSince = e.clock.Now()
	e.emit(elevevent.DoorPhaseEvent{ElevatorID: e.id, Floor: e.currentFloor, State: e.state}.Wrap())
	e.mutex.Unlock()

	e.clock.Sleep(e.config.DoorOpenTime)

	e.mutex.Lock()
	if !e.doorHeldSince.IsZero() {
		heldFor := e.clock.Now().Sub(e.doorHeldSince)
		if heldFor > e.config.DoorHeldAlarmThreshold {
			e.state = elevconsts.DoorHeld
			e.doorHeldSince = time.Time{}
			Log.Warn().Msgf("Elevator %v door held %v at floor %d, alarm raised, forcing close",
				e.id, heldFor, e.currentFloor)
			e.emit(elevevent.DoorHeldAlarmEvent{ElevatorID: e.id, Floor: e.currentFloor, HeldFor: heldFor}.Wrap())
		}
	}
	e.mutex.Unlock()

	e.CloseDoor()
}

// CloseDoor closes from DoorOpen, or from DoorHeld as the forced close after
// an alarm. Any other state is a reported no-op. After closing, passengers
// aboard resume the last known direction; otherwise the queue decides the
// course, or the elevator idles.
func (e *Elevator) CloseDoor() {
	e.mutex.Lock()
	if e.state != elevconsts.DoorOpen && e.state != elevconsts.DoorHeld {
		e.reject("door is not open, cannot close")
		e.mutex.Unlock()
		return
	}
	e.state = elevconsts.DoorClosing
	e.emit(elevevent.DoorPhaseEvent{ElevatorID: e.id, Floor: e.currentFloor, State: e.state}.Wrap())
	e.mutex.Unlock()

	e.clock.Sleep(e.config.DoorClosingTime)

	e.mutex.Lock()
	defer e.mutex.Unlock()
	switch {
	case e.occupancy.CurrentOccupancy() > 0:
		if e.lastDirection == elevconsts.Up || e.lastDirection == elevconsts.Down {
			e.direction = e.lastDirection
			e.state = elevconsts.MovingState(e.lastDirection)
		} else {
			// People inside but no known course yet; the coordinator will
			// assign a destination.
			e.state = elevconsts.Idle
		}
	case len(e.destinations) > 0:
		e.setCourseForQueue()
	default:
		e.state = elevconsts.Idle
		e.direction = elevconsts.None
	}
	e.doorHeldSince = time.Time{}
}
