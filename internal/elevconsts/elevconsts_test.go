package elevconsts

import "testing"

func TestDirectionString(t *testing.T) {
	directionArray := []Direction{Up, Down, None, Both, Direction(99)}
	directionStringArray := []string{"Up", "Down", "None", "Both", "Undefined"}

	for index, direction := range directionArray {
		if direction.String() != directionStringArray[index] {
			t.Errorf("Direction.String() returned %v, expected %v", direction.String(), directionStringArray[index])
		}
	}
}

func TestDirectionOpposite(t *testing.T) {
	if Up.Opposite() != Down {
		t.Errorf("Up.Opposite() returned %v, expected Down", Up.Opposite())
	}
	if Down.Opposite() != Up {
		t.Errorf("Down.Opposite() returned %v, expected Up", Down.Opposite())
	}
	if None.Opposite() != None {
		t.Errorf("None.Opposite() returned %v, expected None", None.Opposite())
	}
	if Both.Opposite() != Both {
		t.Errorf("Both.Opposite() returned %v, expected Both", Both.Opposite())
	}
}

func TestElevatorStateString(t *testing.T) {
	stateArray := []ElevatorState{
		Idle, MovingUp, MovingDown, DoorOpening, DoorOpen, DoorHeld, DoorClosing, Maintenance, ElevatorState(99),
	}
	stateStringArray := []string{
		"ES_Idle", "ES_MovingUp", "ES_MovingDown", "ES_DoorOpening",
		"ES_DoorOpen", "ES_DoorHeld", "ES_DoorClosing", "ES_Maintenance", "ES_UNDEFINED",
	}

	for index, state := range stateArray {
		if state.String() != stateStringArray[index] {
			t.Errorf("ElevatorState.String() returned %v, expected %v", state.String(), stateStringArray[index])
		}
	}
}

func TestMovingState(t *testing.T) {
	if MovingState(Up) != MovingUp {
		t.Errorf("MovingState(Up) returned %v, expected MovingUp", MovingState(Up))
	}
	if MovingState(Down) != MovingDown {
		t.Errorf("MovingState(Down) returned %v, expected MovingDown", MovingState(Down))
	}
	if MovingState(None) != Idle {
		t.Errorf("MovingState(None) returned %v, expected Idle", MovingState(None))
	}
}
