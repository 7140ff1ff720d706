package elevator

import (
	"time"

	"github.com/liftsys/elevator-dispatch/internal/elevconsts"
	"github.com/liftsys/elevator-dispatch/internal/elevevent"
)

// MoveToFloor travels floor by floor toward target, accruing movement cost on
// every step. Reaching the maintenance cost threshold mid-transit aborts the
// remaining travel and puts the elevator into maintenance at the intermediate
// floor. Invalid targets and maintenance are non-fatal no-ops; callers check
// post-conditions instead of errors.
func (e *Elevator) MoveToFloor(target int) {
	e.mutex.Lock()

	if target < 1 || target > e.config.TotalFloors {
		e.reject("move target floor out of range")
		e.mutex.Unlock()
		return
	}
	if e.underMaintenance() {
		e.reject("in maintenance, cannot move")
		e.mutex.Unlock()
		return
	}
	if target == e.currentFloor {
		e.mutex.Unlock()
		return
	}

	direction := elevconsts.Up
	if target < e.currentFloor {
		direction = elevconsts.Down
	}
	e.direction = direction
	e.lastDirection = direction
	e.state = elevconsts.MovingState(direction)
	e.mutex.Unlock()

	for {
		e.mutex.Lock()
		if direction == elevconsts.Up {
			e.currentFloor++
		} else {
			e.currentFloor--
		}
		e.totalMovementCost += e.config.FloorTransitCost
		e.emit(elevevent.FloorArrivedEvent{ElevatorID: e.id, Floor: e.currentFloor}.Wrap())

		if e.totalMovementCost >= e.config.MaintenanceCostThreshold {
			Log.Warn().Msgf("Elevator %v reached movement cost threshold (%d/%d), stopping at floor %d",
				e.id, e.totalMovementCost, e.config.MaintenanceCostThreshold, e.currentFloor)
			e.enterMaintenanceLocked()
			e.mutex.Unlock()
			return
		}
		arrived := e.currentFloor == target
		e.mutex.Unlock()

		e.clock.Sleep(e.config.FloorTransitTime)

		if arrived {
			break
		}
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()
	switch {
	case e.occupancy.CurrentOccupancy() > 0:
		// Passengers aboard: hold the moving state so the same direction
		// keeps serving onward destinations.
	case len(e.destinations) > 0:
		e.setCourseForQueue()
	default:
		e.state = elevconsts.Idle
		e.direction = elevconsts.None
	}
}

// EnterMaintenance takes the elevator out of service for the configured
// period, resetting the accrued movement cost. The elevator returns to idle
// on its own once the period has elapsed.
func (e *Elevator) EnterMaintenance() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.enterMaintenanceLocked()
}

func (e *Elevator) enterMaintenanceLocked() {
	Log.Info().Msgf("Elevator %v entering maintenance at floor %d", e.id, e.currentFloor)
	e.state = elevconsts.Maintenance
	e.direction = elevconsts.None
	e.totalMovementCost = 0
	e.maintenanceUntil = e.clock.Now().Add(e.config.MaintenancePeriod)
	e.emit(elevevent.MaintenanceEnteredEvent{ElevatorID: e.id, Floor: e.currentFloor}.Wrap())
}

// ExitMaintenance returns the elevator to idle ahead of the maintenance
// period, clearing the maintenance-until timestamp. Only effective while in
// maintenance.
func (e *Elevator) ExitMaintenance() {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.state != elevconsts.Maintenance {
		e.reject("not in maintenance, cannot exit maintenance")
		return
	}

	e.exitMaintenanceLocked()
}

func (e *Elevator) exitMaintenanceLocked() {
	e.state = elevconsts.Idle
	e.direction = elevconsts.None
	e.totalMovementCost = 0
	e.maintenanceUntil = time.Time{}
	e.emit(elevevent.MaintenanceExitedEvent{ElevatorID: e.id}.Wrap())
	Log.Info().Msgf("Elevator %v back in service", e.id)
}

// underMaintenance reports whether the elevator is out of service, returning
// it to idle first when the maintenance period has elapsed. Callers must hold
// the mutex.
func (e *Elevator) underMaintenance() bool {
	if e.state == elevconsts.Maintenance && !e.maintenanceUntil.IsZero() &&
		!e.clock.Now().Before(e.maintenanceUntil) {
		e.exitMaintenanceLocked()
	}
	return e.state == elevconsts.Maintenance
}

// IsUnderMaintenance is the exported read, used by the dispatch loop to
// filter candidates.
func (e *Elevator) IsUnderMaintenance() bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.underMaintenance()
}
