package elevconsts

// Direction of elevator travel, or of a hall call. Both marks a hall call
// where the up and down buttons are active at the same floor; it is never a
// travel direction.
type Direction int

const (
	None Direction = iota
	Up
	Down
	Both
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case None:
		return "None"
	case Both:
		return "Both"
	default:
		return "Undefined"
	}
}

// Opposite returns the reverse travel direction. None and Both map to
// themselves.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	default:
		return d
	}
}

type ElevatorState int

const (
	Idle ElevatorState = iota
	MovingUp
	MovingDown
	DoorOpening
	DoorOpen
	DoorHeld
	DoorClosing
	Maintenance
)

func (s ElevatorState) String() string {
	switch s {
	case Idle:
		return "ES_Idle"
	case MovingUp:
		return "ES_MovingUp"
	case MovingDown:
		return "ES_MovingDown"
	case DoorOpening:
		return "ES_DoorOpening"
	case DoorOpen:
		return "ES_DoorOpen"
	case DoorHeld:
		return "ES_DoorHeld"
	case DoorClosing:
		return "ES_DoorClosing"
	case Maintenance:
		return "ES_Maintenance"
	default:
		return "ES_UNDEFINED"
	}
}

// MovingState maps a travel direction to its moving state. None has no
// moving state and yields Idle.
func MovingState(d Direction) ElevatorState {
	switch d {
	case Up:
		return MovingUp
	case Down:
		return MovingDown
	default:
		return Idle
	}
}
