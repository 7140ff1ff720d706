package elevator

import (
	"context"
	"sync"

	"github.com/liftsys/elevator-dispatch/internal/elevcmd"
)

// Runner owns command delivery for one elevator: commands arrive on a channel
// and are applied one at a time, so no two callers ever mutate the elevator
// concurrently.
type Runner struct {
	elevator *Elevator
	commands <-chan elevcmd.ElevatorCommand
}

func NewRunner(elevator *Elevator, commands <-chan elevcmd.ElevatorCommand) *Runner {
	return &Runner{elevator: elevator, commands: commands}
}

func (r *Runner) Start(ctx context.Context, waitGroup *sync.WaitGroup) {
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		for {
			select {
			case <-ctx.Done():
				Log.Warn().Msgf("Elevator %v runner has been signaled to stop", r.elevator.ID())
				return
			case command := <-r.commands:
				r.apply(command)
			}
		}
	}()
}

func (r *Runner) apply(command elevcmd.ElevatorCommand) {
	switch cmd := command.Value.(type) {
	case elevcmd.MoveToFloorCommand:
		r.elevator.MoveToFloor(cmd.Floor)
	case elevcmd.OpenDoorCommand:
		r.elevator.OpenDoor()
	case elevcmd.CloseDoorCommand:
		r.elevator.CloseDoor()
	case elevcmd.AddDestinationCommand:
		r.elevator.AddDestinationRequest(cmd.Floor, cmd.PeopleCount)
	case elevcmd.UpdateOccupancyCommand:
		r.elevator.UpdateOccupancy(cmd.Delta)
	case elevcmd.EnterMaintenanceCommand:
		r.elevator.EnterMaintenance()
	case elevcmd.ExitMaintenanceCommand:
		r.elevator.ExitMaintenance()
	default:
		Log.Error().Msgf("Elevator %v received unknown command %v", r.elevator.ID(), command.CommandType())
	}
}
