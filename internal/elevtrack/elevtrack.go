package elevtrack

import (
	"sort"
	"time"

	"github.com/tiendc/go-deepcopy"

	"github.com/liftsys/elevator-dispatch/internal/elevclock"
	"github.com/liftsys/elevator-dispatch/internal/elevconfig"
	"github.com/liftsys/elevator-dispatch/internal/elevconsts"
	"github.com/liftsys/elevator-dispatch/internal/elevator"
	"github.com/liftsys/elevator-dispatch/internal/logger"
)

var Log = logger.GetLogger()

// Tracker projects when each elevator becomes free, from a read-only
// snapshot of its state. It never mutates a live elevator: the snapshot is
// deep-copied and the copy is walked through its remaining stops.
type Tracker struct {
	config *elevconfig.Config
	clock  elevclock.Clock
}

func New(config *elevconfig.Config, clock elevclock.Clock) *Tracker {
	return &Tracker{config: config, clock: clock}
}

// ServiceCompletionTime projects the timestamp at which the elevator has
// finished its queued work. An idle elevator with an empty queue is free
// now. Otherwise the remainder of the current door phase (half the hold
// window when the door is standing open) plus travel and a full door cycle
// per stop, visiting stops in optimal order for the current direction.
func (t *Tracker) ServiceCompletionTime(snapshot elevator.Snapshot) time.Time {
	completion, _ := t.project(snapshot)
	return completion
}

// project replays the elevator's queue on a deep copy of the snapshot,
// sorting and consuming the copied destinations while advancing its floor.
// Returns projected completion and the floor the elevator ends up on. The
// live snapshot is never touched.
func (t *Tracker) project(snapshot elevator.Snapshot) (time.Time, int) {
	now := t.clock.Now()

	if snapshot.State == elevconsts.Idle && len(snapshot.Destinations) == 0 {
		return now, snapshot.Floor
	}

	var total time.Duration
	switch snapshot.State {
	case elevconsts.DoorOpening:
		total += t.config.DoorOpeningTime
	case elevconsts.DoorOpen, elevconsts.DoorHeld:
		total += t.config.DoorOpenTime / 2
	case elevconsts.DoorClosing:
		total += t.config.DoorClosingTime
	}

	simulated := new(elevator.Snapshot)
	if err := deepcopy.Copy(simulated, &snapshot); err != nil {
		Log.Error().Msgf("Failed to copy elevator snapshot for %v: %v", snapshot.ID, err)
		return now.Add(total), snapshot.Floor
	}

	sortDestinations(simulated)
	for len(simulated.Destinations) > 0 {
		next := simulated.Destinations[0]
		simulated.Destinations = simulated.Destinations[1:]
		total += t.config.TravelTime(simulated.Floor, next.Floor) + t.config.DoorCycleTime()
		simulated.Floor = next.Floor
	}

	return now.Add(total), simulated.Floor
}

// FindNextAvailableElevator picks the elevator whose projected arrival at
// targetFloor is earliest: completion of its queued work plus travel from
// the floor the replay ends on. Elevators in maintenance are excluded. The
// boolean is false when no eligible elevator exists.
func (t *Tracker) FindNextAvailableElevator(snapshots []elevator.Snapshot, targetFloor int) (elevator.Snapshot, time.Time, bool) {
	var best elevator.Snapshot
	var bestArrival time.Time
	found := false

	for _, snapshot := range snapshots {
		if snapshot.State == elevconsts.Maintenance {
			continue
		}

		completion, lastFloor := t.project(snapshot)
		arrival := completion.Add(t.config.TravelTime(lastFloor, targetFloor))

		if !found || arrival.Before(bestArrival) {
			best = snapshot
			bestArrival = arrival
			found = true
		}
	}

	return best, bestArrival, found
}

// sortDestinations orders the copied queue in service order: ascending going
// up, descending going down, nearest-first from the starting floor when the
// elevator has no direction.
func sortDestinations(simulated *elevator.Snapshot) {
	destinations := simulated.Destinations
	switch simulated.Direction {
	case elevconsts.Up:
		sort.Slice(destinations, func(i, j int) bool {
			return destinations[i].Floor < destinations[j].Floor
		})
	case elevconsts.Down:
		sort.Slice(destinations, func(i, j int) bool {
			return destinations[i].Floor > destinations[j].Floor
		})
	default:
		startFloor := simulated.Floor
		sort.Slice(destinations, func(i, j int) bool {
			return abs(destinations[i].Floor-startFloor) < abs(destinations[j].Floor-startFloor)
		})
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
