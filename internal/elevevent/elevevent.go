package elevevent

import (
	"time"

	"github.com/liftsys/elevator-dispatch/internal/elevconsts"
)

type ElevatorEvent struct {
	//Golang doesnt support union types,
	//so we have to pass any of the below
	//structs
	Value any
}

// FloorArrivedEvent fires on every single-floor step.
type FloorArrivedEvent struct {
	ElevatorID string
	Floor      int
}

func (e FloorArrivedEvent) Wrap() ElevatorEvent {
	return ElevatorEvent{Value: e}
}

// DoorPhaseEvent fires on every door state transition.
type DoorPhaseEvent struct {
	ElevatorID string
	Floor      int
	State      elevconsts.ElevatorState
}

func (e DoorPhaseEvent) Wrap() ElevatorEvent {
	return ElevatorEvent{Value: e}
}

// DoorHeldAlarmEvent fires when a door has been held open past the safety
// threshold and a forced close follows.
type DoorHeldAlarmEvent struct {
	ElevatorID string
	Floor      int
	HeldFor    time.Duration
}

func (e DoorHeldAlarmEvent) Wrap() ElevatorEvent {
	return ElevatorEvent{Value: e}
}

type MaintenanceEnteredEvent struct {
	ElevatorID string
	Floor      int
}

func (e MaintenanceEnteredEvent) Wrap() ElevatorEvent {
	return ElevatorEvent{Value: e}
}

type MaintenanceExitedEvent struct {
	ElevatorID string
}

func (e MaintenanceExitedEvent) Wrap() ElevatorEvent {
	return ElevatorEvent{Value: e}
}

// CommandRejectedEvent reports a validation or state-conflict no-op, e.g. a
// move command issued during maintenance.
type CommandRejectedEvent struct {
	ElevatorID string
	Reason     string
}

func (e CommandRejectedEvent) Wrap() ElevatorEvent {
	return ElevatorEvent{Value: e}
}

func (e *ElevatorEvent) EventType() string {
	switch e.Value.(type) {
	case FloorArrivedEvent:
		return "FloorArrivedEvent"
	case DoorPhaseEvent:
		return "DoorPhaseEvent"
	case DoorHeldAlarmEvent:
		return "DoorHeldAlarmEvent"
	case MaintenanceEnteredEvent:
		return "MaintenanceEnteredEvent"
	case MaintenanceExitedEvent:
		return "MaintenanceExitedEvent"
	case CommandRejectedEvent:
		return "CommandRejectedEvent"
	default:
		return "UnknownEvent"
	}
}
