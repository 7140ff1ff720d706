package elevfloor

import (
	"time"

	"github.com/google/uuid"

	"github.com/liftsys/elevator-dispatch/internal/elevclock"
	"github.com/liftsys/elevator-dispatch/internal/elevconsts"
	"github.com/liftsys/elevator-dispatch/internal/logger"
)

var Log = logger.GetLogger()

// CallRequest is one pending hall call on a floor.
type CallRequest struct {
	RequestID   string
	Floor       int
	Direction   elevconsts.Direction
	PeopleCount int
	Timestamp   time.Time
}

// Floor owns the pending up and down hall calls at one building level. The
// top floor has no up button, the bottom floor no down button; calls for a
// missing button are rejected.
type Floor struct {
	Number int

	upRequests   []CallRequest
	downRequests []CallRequest

	hasUpButton   bool
	hasDownButton bool

	peopleWaitingUp   int
	peopleWaitingDown int

	clock elevclock.Clock
}

func New(floorNumber, totalFloors int, clock elevclock.Clock) *Floor {
	return &Floor{
		Number:        floorNumber,
		hasUpButton:   floorNumber < totalFloors,
		hasDownButton: floorNumber > 1,
		clock:         clock,
	}
}

func (f *Floor) HasUpButton() bool {
	return f.hasUpButton
}

func (f *Floor) HasDownButton() bool {
	return f.hasDownButton
}

// AddRequest queues a hall call and returns its generated id. Returns false
// when the floor has no button for the direction, or the people count is not
// positive.
func (f *Floor) AddRequest(direction elevconsts.Direction, peopleCount int) (string, bool) {
	if peopleCount <= 0 {
		Log.Warn().Msgf("Floor %d rejecting call for %d people", f.Number, peopleCount)
		return "", false
	}

	request := CallRequest{
		RequestID:   uuid.NewString(),
		Floor:       f.Number,
		Direction:   direction,
		PeopleCount: peopleCount,
		Timestamp:   f.clock.Now(),
	}

	switch {
	case direction == elevconsts.Up && f.hasUpButton:
		f.upRequests = append(f.upRequests, request)
		f.peopleWaitingUp += peopleCount
	case direction == elevconsts.Down && f.hasDownButton:
		f.downRequests = append(f.downRequests, request)
		f.peopleWaitingDown += peopleCount
	default:
		Log.Warn().Msgf("Floor %d has no %v button, rejecting call", f.Number, direction)
		return "", false
	}

	return request.RequestID, true
}

// RemoveRequest drops a served call from whichever queue holds it. The cached
// waiting counts are recomputed from the remaining requests rather than
// decremented, so they stay correct under partial updates.
func (f *Floor) RemoveRequest(requestID string) {
	f.upRequests = withoutRequest(f.upRequests, requestID)
	f.downRequests = withoutRequest(f.downRequests, requestID)

	f.peopleWaitingUp = sumPeople(f.upRequests)
	f.peopleWaitingDown = sumPeople(f.downRequests)
}

func (f *Floor) PendingRequests() []CallRequest {
	pending := make([]CallRequest, 0, len(f.upRequests)+len(f.downRequests))
	pending = append(pending, f.upRequests...)
	pending = append(pending, f.downRequests...)
	return pending
}

func (f *Floor) PeopleWaiting(direction elevconsts.Direction) int {
	switch direction {
	case elevconsts.Up:
		return f.peopleWaitingUp
	case elevconsts.Down:
		return f.peopleWaitingDown
	default:
		return f.peopleWaitingUp + f.peopleWaitingDown
	}
}

func withoutRequest(requests []CallRequest, requestID string) []CallRequest {
	kept := requests[:0]
	for _, request := range requests {
		if request.RequestID != requestID {
			kept = append(kept, request)
		}
	}
	return kept
}

func sumPeople(requests []CallRequest) int {
	total := 0
	for _, request := range requests {
		total += request.PeopleCount
	}
	return total
}

// Building is the floor registry, floors numbered 1..totalFloors.
type Building struct {
	floors []*Floor
}

func NewBuilding(totalFloors int, clock elevclock.Clock) *Building {
	floors := make([]*Floor, totalFloors)
	for i := range floors {
		floors[i] = New(i+1, totalFloors, clock)
	}
	return &Building{floors: floors}
}

// Floor returns the floor by number, or nil when out of range.
func (b *Building) Floor(number int) *Floor {
	if number < 1 || number > len(b.floors) {
		return nil
	}
	return b.floors[number-1]
}

func (b *Building) TotalFloors() int {
	return len(b.floors)
}
