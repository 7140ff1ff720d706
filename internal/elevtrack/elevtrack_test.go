package elevtrack

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/liftsys/elevator-dispatch/internal/elevclock"
	"github.com/liftsys/elevator-dispatch/internal/elevconfig"
	"github.com/liftsys/elevator-dispatch/internal/elevconsts"
	"github.com/liftsys/elevator-dispatch/internal/elevator"
	"github.com/liftsys/elevator-dispatch/internal/logger"
)

func testSetup() (*Tracker, *elevclock.SimClock, *elevconfig.Config) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	config := elevconfig.Default()
	clock := elevclock.NewSimClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	return New(config, clock), clock, config
}

func destinations(floors ...int) []elevator.DestinationRequest {
	requests := make([]elevator.DestinationRequest, len(floors))
	for i, floor := range floors {
		requests[i] = elevator.DestinationRequest{Floor: floor, PeopleCount: 1}
	}
	return requests
}

func TestIdleEmptyElevatorIsFreeNow(t *testing.T) {
	tracker, clock, _ := testSetup()

	snapshot := elevator.Snapshot{ID: "elev-a", Floor: 4, State: elevconsts.Idle, Direction: elevconsts.None}
	completion := tracker.ServiceCompletionTime(snapshot)

	if !completion.Equal(clock.Now()) {
		t.Errorf("Expected completion now (%v), got %v", clock.Now(), completion)
	}
}

func TestCompletionTimeWalksStopsInDirectionOrder(t *testing.T) {
	tracker, clock, config := testSetup()

	// Moving up from floor 5 with stops at 7 and 3: ascending order visits
	// 3 first, then 7.
	snapshot := elevator.Snapshot{
		ID:           "elev-a",
		Floor:        5,
		State:        elevconsts.MovingUp,
		Direction:    elevconsts.Up,
		Destinations: destinations(7, 3),
	}

	completion := tracker.ServiceCompletionTime(snapshot)

	expected := clock.Now().
		Add(config.TravelTime(5, 3)).Add(config.DoorCycleTime()).
		Add(config.TravelTime(3, 7)).Add(config.DoorCycleTime())
	if !completion.Equal(expected) {
		t.Errorf("Expected completion %v, got %v", expected, completion)
	}
}

func TestCompletionTimeDoesNotMutateSnapshot(t *testing.T) {
	tracker, _, _ := testSetup()

	snapshot := elevator.Snapshot{
		ID:           "elev-a",
		Floor:        5,
		State:        elevconsts.MovingDown,
		Direction:    elevconsts.Down,
		Destinations: destinations(2, 4, 1),
	}

	tracker.ServiceCompletionTime(snapshot)
	tracker.FindNextAvailableElevator([]elevator.Snapshot{snapshot}, 3)

	// Descending service order would be 4, 2, 1; the replay must sort only
	// its copy.
	expectedOrder := []int{2, 4, 1}
	for i, destination := range snapshot.Destinations {
		if destination.Floor != expectedOrder[i] {
			t.Errorf("Expected caller's destination order untouched, index %d is %d", i, destination.Floor)
		}
	}
}

func TestCompletionTimeAddsDoorPhaseRemainder(t *testing.T) {
	tracker, clock, config := testSetup()

	snapshot := elevator.Snapshot{ID: "elev-a", Floor: 4, State: elevconsts.DoorOpen, Direction: elevconsts.None}
	completion := tracker.ServiceCompletionTime(snapshot)

	expected := clock.Now().Add(config.DoorOpenTime / 2)
	if !completion.Equal(expected) {
		t.Errorf("Expected completion %v (half the hold window), got %v", expected, completion)
	}
}

func TestFindNextAvailablePrefersSoonestArrival(t *testing.T) {
	tracker, clock, config := testSetup()

	idle := elevator.Snapshot{ID: "idle", Floor: 2, State: elevconsts.Idle, Direction: elevconsts.None}
	busy := elevator.Snapshot{
		ID:           "busy",
		Floor:        9,
		State:        elevconsts.MovingDown,
		Direction:    elevconsts.Down,
		Destinations: destinations(8, 6),
	}

	best, arrival, found := tracker.FindNextAvailableElevator([]elevator.Snapshot{busy, idle}, 3)
	if !found {
		t.Fatalf("Expected an eligible elevator to be found")
	}
	if best.ID != "idle" {
		t.Errorf("Expected the idle elevator to win, got %v", best.ID)
	}
	expectedArrival := clock.Now().Add(config.TravelTime(2, 3))
	if !arrival.Equal(expectedArrival) {
		t.Errorf("Expected arrival %v, got %v", expectedArrival, arrival)
	}
}

func TestFindNextAvailableExcludesMaintenance(t *testing.T) {
	tracker, _, _ := testSetup()

	down := elevator.Snapshot{ID: "down", Floor: 3, State: elevconsts.Maintenance, Direction: elevconsts.None}

	if _, _, found := tracker.FindNextAvailableElevator([]elevator.Snapshot{down}, 5); found {
		t.Errorf("Expected no eligible elevator when all are in maintenance")
	}
}

func TestFindNextAvailableUsesLastScheduledStop(t *testing.T) {
	tracker, clock, config := testSetup()

	climbing := elevator.Snapshot{
		ID:           "climbing",
		Floor:        2,
		State:        elevconsts.MovingUp,
		Direction:    elevconsts.Up,
		Destinations: destinations(6),
	}

	_, arrival, found := tracker.FindNextAvailableElevator([]elevator.Snapshot{climbing}, 7)
	if !found {
		t.Fatalf("Expected the climbing elevator to be eligible")
	}

	expected := clock.Now().
		Add(config.TravelTime(2, 6)).Add(config.DoorCycleTime()).
		Add(config.TravelTime(6, 7))
	if !arrival.Equal(expected) {
		t.Errorf("Expected arrival %v, got %v", expected, arrival)
	}
}
