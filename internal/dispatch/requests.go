package dispatch

import (
	"time"

	"github.com/google/uuid"

	"github.com/liftsys/elevator-dispatch/internal/elevconsts"
)

// FloorRequestBatch aggregates everyone waiting at one floor in one
// direction. New calls for the same floor and direction merge into the batch
// until it is fully served. PromisedCapacity is the seat total of its active
// assignments; when it falls short of the remaining demand another elevator
// may join.
type FloorRequestBatch struct {
	RequestID          string
	Floor              int
	Direction          elevconsts.Direction
	TotalPeopleWaiting int
	PeopleServed       int
	PromisedCapacity   int
	Timestamp          time.Time
	AssignedElevators  map[string]struct{}
}

func newFloorRequestBatch(floor int, direction elevconsts.Direction, peopleCount int, now time.Time) *FloorRequestBatch {
	return &FloorRequestBatch{
		RequestID:          uuid.NewString(),
		Floor:              floor,
		Direction:          direction,
		TotalPeopleWaiting: peopleCount,
		Timestamp:          now,
		AssignedElevators:  make(map[string]struct{}),
	}
}

func (b *FloorRequestBatch) PeopleRemaining() int {
	remaining := b.TotalPeopleWaiting - b.PeopleServed
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (b *FloorRequestBatch) IsFullyServed() bool {
	return b.PeopleRemaining() <= 0
}

func (b *FloorRequestBatch) WaitTime(now time.Time) time.Duration {
	return now.Sub(b.Timestamp)
}

// BiDirectionalRequest is a floor where both call buttons are pressed at
// once. It carries an estimated split until an elevator investigates and the
// actual split is reported; then it divides into two directional batches and
// is discarded.
type BiDirectionalRequest struct {
	RequestID           string
	Floor               int
	TotalPeopleWaiting  int
	EstimatedUpPeople   int
	EstimatedDownPeople int
	ActualUpPeople      *int
	ActualDownPeople    *int
	Timestamp           time.Time
	AssignedElevators   map[string]struct{}
}

func newBiDirectionalRequest(floor, peopleCount, estimatedUp, estimatedDown int, now time.Time) *BiDirectionalRequest {
	return &BiDirectionalRequest{
		RequestID:           uuid.NewString(),
		Floor:               floor,
		TotalPeopleWaiting:  peopleCount,
		EstimatedUpPeople:   estimatedUp,
		EstimatedDownPeople: estimatedDown,
		Timestamp:           now,
		AssignedElevators:   make(map[string]struct{}),
	}
}

func (r *BiDirectionalRequest) IsDistributionKnown() bool {
	return r.ActualUpPeople != nil && r.ActualDownPeople != nil
}

// split divides the request into directional batches once the distribution
// is known, keeping the original timestamp so accumulated wait time carries
// over.
func (r *BiDirectionalRequest) split() (*FloorRequestBatch, *FloorRequestBatch) {
	upPeople := r.EstimatedUpPeople
	if r.ActualUpPeople != nil {
		upPeople = *r.ActualUpPeople
	}
	downPeople := r.EstimatedDownPeople
	if r.ActualDownPeople != nil {
		downPeople = *r.ActualDownPeople
	}

	upBatch := newFloorRequestBatch(r.Floor, elevconsts.Up, upPeople, r.Timestamp)
	downBatch := newFloorRequestBatch(r.Floor, elevconsts.Down, downPeople, r.Timestamp)
	return upBatch, downBatch
}

// ElevatorAssignment pairs one elevator with one request for a single
// coordination cycle. It is advisory: the caller translates it into
// destination and movement commands.
type ElevatorAssignment struct {
	ElevatorID                     string
	RequestID                      string
	ExpectedCapacity               int
	EstimatedArrivalTime           time.Time
	EstimatedServiceCompletionTime time.Time
	AssignmentConfidence           float64
}
