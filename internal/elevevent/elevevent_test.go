package elevevent

import "testing"

func TestEventType(t *testing.T) {
	elevatorEventArray := []ElevatorEvent{
		{Value: FloorArrivedEvent{}},
		{Value: DoorPhaseEvent{}},
		{Value: DoorHeldAlarmEvent{}},
		{Value: MaintenanceEnteredEvent{}},
		{Value: MaintenanceExitedEvent{}},
		{Value: CommandRejectedEvent{}},
		{Value: struct{}{}},
	}

	elevatorEventStringArray := []string{
		"FloorArrivedEvent",
		"DoorPhaseEvent",
		"DoorHeldAlarmEvent",
		"MaintenanceEnteredEvent",
		"MaintenanceExitedEvent",
		"CommandRejectedEvent",
		"UnknownEvent",
	}

	for index, elevatorEvent := range elevatorEventArray {
		if elevatorEvent.EventType() != elevatorEventStringArray[index] {
			t.Errorf("ElevatorEvent.EventType() returned %v, expected %v", elevatorEvent.EventType(), elevatorEventStringArray[index])
		}
	}
}

func TestWrap(t *testing.T) {
	event := FloorArrivedEvent{ElevatorID: "elev-a", Floor: 3}.Wrap()
	if event.EventType() != "FloorArrivedEvent" {
		t.Errorf("Expected wrapped event type FloorArrivedEvent, got %v", event.EventType())
	}
	inner, ok := event.Value.(FloorArrivedEvent)
	if !ok {
		t.Fatalf("Expected wrapped value to be FloorArrivedEvent, got %T", event.Value)
	}
	if inner.Floor != 3 {
		t.Errorf("Expected wrapped floor 3, got %d", inner.Floor)
	}
}
