package elevator

import (
	"sync"
	"time"

	"github.com/xyproto/randomstring"

	"github.com/liftsys/elevator-dispatch/internal/elevclock"
	"github.com/liftsys/elevator-dispatch/internal/elevconfig"
	"github.com/liftsys/elevator-dispatch/internal/elevconsts"
	"github.com/liftsys/elevator-dispatch/internal/elevevent"
	"github.com/liftsys/elevator-dispatch/internal/logger"
)

var Log = logger.GetLogger()

const IDENTIFIER_DEFAULT_LEN = 10

// DestinationRequest is an in-car target floor. PeopleCount is metadata for
// the dispatcher and is not enforced against capacity here.
type DestinationRequest struct {
	Floor       int
	PeopleCount int
	Timestamp   time.Time
}

// Elevator owns its physical state: floor, direction, door state, occupancy
// and the destination queue. Mutation happens only through its methods, which
// the owning runner goroutine calls one at a time; the internal mutex is
// released across every suspension point (floor transits, door phases,
// maintenance holds) so read-only snapshots stay cheap.
type Elevator struct {
	id     string
	config *elevconfig.Config
	clock  elevclock.Clock
	events chan<- elevevent.ElevatorEvent

	mutex             sync.Mutex
	currentFloor      int
	state             elevconsts.ElevatorState
	direction         elevconsts.Direction
	lastDirection     elevconsts.Direction
	occupancy         *OccupancySensor
	destinations      []DestinationRequest
	totalMovementCost int
	maintenanceUntil  time.Time
	doorHeldSince     time.Time
}

// New creates an idle elevator at the configured start floor. An empty
// identifier is replaced with a generated one, as elevators must be
// addressable by the coordinator.
func New(identifier string, config *elevconfig.Config, clock elevclock.Clock, events chan<- elevevent.ElevatorEvent) *Elevator {
	if identifier == "" {
		identifier = randomstring.EnglishFrequencyString(IDENTIFIER_DEFAULT_LEN)
		Log.Warn().Msgf("No elevator identifier provided, generated random identifier \"%v\"", identifier)
	}

	return &Elevator{
		id:            identifier,
		config:        config,
		clock:         clock,
		events:        events,
		currentFloor:  config.StartFloor,
		state:         elevconsts.Idle,
		direction:     elevconsts.None,
		lastDirection: elevconsts.None,
		occupancy:     NewOccupancySensor(config.CapacityPerElevator),
	}
}

func (e *Elevator) ID() string {
	return e.id
}

func (e *Elevator) CurrentFloor() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.currentFloor
}

func (e *Elevator) State() elevconsts.ElevatorState {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.underMaintenance()
	return e.state
}

func (e *Elevator) Direction() elevconsts.Direction {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.direction
}

func (e *Elevator) CurrentOccupancy() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.occupancy.CurrentOccupancy()
}

func (e *Elevator) AvailableCapacity() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.occupancy.AvailableCapacity()
}

func (e *Elevator) TotalMovementCost() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.totalMovementCost
}

func (e *Elevator) DestinationCount() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return len(e.destinations)
}

// Snapshot is a read-only copy of the dispatch-relevant state, taken at one
// lock acquisition so the fields are mutually consistent.
type Snapshot struct {
	ID                string
	Floor             int
	State             elevconsts.ElevatorState
	Direction         elevconsts.Direction
	Occupancy         int
	AvailableCapacity int
	Destinations      []DestinationRequest
}

func (e *Elevator) Snapshot() Snapshot {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.underMaintenance()

	destinations := make([]DestinationRequest, len(e.destinations))
	copy(destinations, e.destinations)

	return Snapshot{
		ID:                e.id,
		Floor:             e.currentFloor,
		State:             e.state,
		Direction:         e.direction,
		Occupancy:         e.occupancy.CurrentOccupancy(),
		AvailableCapacity: e.occupancy.AvailableCapacity(),
		Destinations:      destinations,
	}
}

func (e *Elevator) emit(event elevevent.ElevatorEvent) {
	if e.events == nil {
		return
	}
	select {
	case e.events <- event:
	default:
		Log.Warn().Msgf("Elevator %v dropping event %v, observer channel full", e.id, event.EventType())
	}
}

func (e *Elevator) reject(reason string) {
	Log.Warn().Msgf("Elevator %v: %v", e.id, reason)
	e.emit(elevevent.CommandRejectedEvent{ElevatorID: e.id, Reason: reason}.Wrap())
}

// UpdateOccupancy applies a passenger delta, clamping defensively and
// reporting any clamp.
func (e *Elevator) UpdateOccupancy(delta int) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	before := e.occupancy.CurrentOccupancy()
	if delta >= 0 {
		e.occupancy.Update(delta, 0)
	} else {
		e.occupancy.Update(0, -delta)
	}
	after := e.occupancy.CurrentOccupancy()

	if after-before != delta {
		Log.Warn().Msgf("Elevator %v occupancy delta %d clamped: %d -> %d (capacity %d)",
			e.id, delta, before, after, e.occupancy.MaxCapacity())
	}
}

// AddDestinationRequest queues an in-car target floor. Requests for a floor
// already queued merge by summing people counts, so the queue never holds
// duplicate floors. Rejected while in maintenance or out of bounds.
func (e *Elevator) AddDestinationRequest(floor, peopleCount int) bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.underMaintenance() {
		e.reject("in maintenance, cannot add destination")
		return false
	}
	if floor < 1 || floor > e.config.TotalFloors {
		e.reject("destination floor out of range")
		return false
	}

	for i := range e.destinations {
		if e.destinations[i].Floor == floor {
			e.destinations[i].PeopleCount += peopleCount
			Log.Debug().Msgf("Elevator %v merged destination floor %d, now %d people",
				e.id, floor, e.destinations[i].PeopleCount)
			return true
		}
	}

	e.destinations = append(e.destinations, DestinationRequest{
		Floor:       floor,
		PeopleCount: peopleCount,
		Timestamp:   e.clock.Now(),
	})
	return true
}

// NextDestination pops the next floor to visit. Going up it prefers the
// smallest queued floor above the car, falling back to the highest queued
// floor overall (a reversal); symmetric going down. With no direction it
// picks the nearest queued floor.
func (e *Elevator) NextDestination() (int, bool) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	index, ok := e.nextDestinationIndex()
	if !ok {
		return 0, false
	}

	floor := e.destinations[index].Floor
	e.destinations = append(e.destinations[:index], e.destinations[index+1:]...)
	return floor, true
}

// nextDestinationIndex implements the selection policy without removing.
// Callers must hold the mutex.
func (e *Elevator) nextDestinationIndex() (int, bool) {
	if len(e.destinations) == 0 {
		return 0, false
	}

	best := -1
	switch e.direction {
	case elevconsts.Up:
		for i, dest := range e.destinations {
			if dest.Floor <= e.currentFloor {
				continue
			}
			if best == -1 || dest.Floor < e.destinations[best].Floor {
				best = i
			}
		}
		if best == -1 {
			for i, dest := range e.destinations {
				if best == -1 || dest.Floor > e.destinations[best].Floor {
					best = i
				}
			}
		}
	case elevconsts.Down:
		for i, dest := range e.destinations {
			if dest.Floor >= e.currentFloor {
				continue
			}
			if best == -1 || dest.Floor > e.destinations[best].Floor {
				best = i
			}
		}
		if best == -1 {
			for i, dest := range e.destinations {
				if best == -1 || dest.Floor < e.destinations[best].Floor {
					best = i
				}
			}
		}
	default:
		for i, dest := range e.destinations {
			if best == -1 || abs(dest.Floor-e.currentFloor) < abs(e.destinations[best].Floor-e.currentFloor) {
				best = i
			}
		}
	}

	return best, best != -1
}

// setCourseForQueue points state and direction toward the next queued
// destination without consuming it. Falls back to idle when the queue is
// empty. Callers must hold the mutex.
func (e *Elevator) setCourseForQueue() {
	index, ok := e.nextDestinationIndex()
	if !ok {
		e.state = elevconsts.Idle
		e.direction = elevconsts.None
		return
	}

	next := e.destinations[index].Floor
	switch {
	case next > e.currentFloor:
		e.direction = elevconsts.Up
	case next < e.currentFloor:
		e.direction = elevconsts.Down
	default:
		e.state = elevconsts.Idle
		e.direction = elevconsts.None
		return
	}
	e.lastDirection = e.direction
	e.state = elevconsts.MovingState(e.direction)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
