package elevcmd

type ElevatorCommand struct {
	//Golang doesnt support union types,
	//so we have to pass any of the below
	//structs
	Value any
}

type MoveToFloorCommand struct {
	Floor int
}

type OpenDoorCommand struct {
}

type CloseDoorCommand struct {
}

type AddDestinationCommand struct {
	Floor       int
	PeopleCount int
}

type UpdateOccupancyCommand struct {
	Delta int
}

type EnterMaintenanceCommand struct {
}

type ExitMaintenanceCommand struct {
}

func (c *ElevatorCommand) CommandType() string {
	switch c.Value.(type) {
	case MoveToFloorCommand:
		return "MoveToFloorCommand"
	case OpenDoorCommand:
		return "OpenDoorCommand"
	case CloseDoorCommand:
		return "CloseDoorCommand"
	case AddDestinationCommand:
		return "AddDestinationCommand"
	case UpdateOccupancyCommand:
		return "UpdateOccupancyCommand"
	case EnterMaintenanceCommand:
		return "EnterMaintenanceCommand"
	case ExitMaintenanceCommand:
		return "ExitMaintenanceCommand"
	default:
		return "UnknownCommand"
	}
}
