package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/liftsys/elevator-dispatch/internal/dispatch"
	"github.com/liftsys/elevator-dispatch/internal/elevclock"
	"github.com/liftsys/elevator-dispatch/internal/elevcmd"
	"github.com/liftsys/elevator-dispatch/internal/elevconfig"
	"github.com/liftsys/elevator-dispatch/internal/elevconsts"
	"github.com/liftsys/elevator-dispatch/internal/elevator"
	"github.com/liftsys/elevator-dispatch/internal/elevevent"
	"github.com/liftsys/elevator-dispatch/internal/elevfloor"
	"github.com/liftsys/elevator-dispatch/internal/elevutils"
	"github.com/liftsys/elevator-dispatch/internal/logger"
)

var Logger = logger.GetLoggerConfigured(zerolog.InfoLevel)

const coordinationInterval = time.Second

type elevatorHandle struct {
	elevator *elevator.Elevator
	commands chan<- elevcmd.ElevatorCommand
}

func main() {
	configPath, elevatorCount, seed := elevutils.ProcessCmdArgs()

	if err := godotenv.Load(); err == nil {
		Logger.Info().Msg("Loaded environment overrides from .env")
	}
	if path := os.Getenv("DISPATCH_CONFIG"); path != "" && configPath == "" {
		configPath = path
	}

	config := elevconfig.Default()
	if configPath != "" {
		loaded, err := elevconfig.Load(configPath)
		if err != nil {
			Logger.Fatal().Msgf("Could not load config %v: %v", configPath, err)
		}
		config = loaded
	}

	Logger.Info().Msgf("Starting Dispatch Daemon (%v)", elevutils.GetGitHash())
	Logger.Info().Msgf("Building: %d floors, %d elevators, capacity %d each",
		config.TotalFloors, elevatorCount, config.CapacityPerElevator)

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	random := rand.New(rand.NewSource(seed))

	ctx, cancel := context.WithCancel(context.Background())
	var waitGroup sync.WaitGroup

	clock := elevclock.NewSystemClock()
	events := make(chan elevevent.ElevatorEvent, 64)

	handles := make(map[string]elevatorHandle, elevatorCount)
	elevators := make([]*elevator.Elevator, 0, elevatorCount)
	for i := 0; i < elevatorCount; i++ {
		elev := elevator.New(fmt.Sprintf("car-%d", i+1), config, clock, events)
		commands := make(chan elevcmd.ElevatorCommand, 16)
		elevator.NewRunner(elev, commands).Start(ctx, &waitGroup)

		handles[elev.ID()] = elevatorHandle{elevator: elev, commands: commands}
		elevators = append(elevators, elev)
	}

	coordinator := dispatch.NewCoordinator(config, clock)
	building := elevfloor.NewBuilding(config.TotalFloors, clock)
	ledger := newServiceLedger()

	// The arrival handler rolls its own dice for drop-off floors; rand.Rand
	// is not safe to share with the demand generator.
	arrivalRandom := rand.New(rand.NewSource(seed + 1))

	startArrivalHandler(ctx, &waitGroup, events, coordinator, handles, ledger, config, arrivalRandom)
	startDemandGenerator(ctx, &waitGroup, building, coordinator, config, random)

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		<-signals
		Logger.Info().Msg("Shutting down")
		cancel()
	}()

	runCoordinationLoop(ctx, coordinator, elevators, handles, ledger)
	waitGroup.Wait()
}

// runCoordinationLoop drives the dispatch cycle: every tick it asks the
// coordinator for fresh assignments, records each stop's purpose in the
// ledger, and translates it into commands on the assigned elevator's
// channel. The arrival handler completes the other half of the exchange.
func runCoordinationLoop(ctx context.Context, coordinator *dispatch.Coordinator, elevators []*elevator.Elevator, handles map[string]elevatorHandle, ledger *serviceLedger) {
	ticker := time.NewTicker(coordinationInterval)
	defer ticker.Stop()

	cycles := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		assignments := coordinator.ProcessRequestsWithReassignment(elevators)
		for _, assignment := range assignments {
			handle, ok := handles[assignment.ElevatorID]
			if !ok {
				Logger.Error().Msgf("Assignment for unknown elevator %v", assignment.ElevatorID)
				continue
			}
			info, ok := coordinator.LookupRequest(assignment.RequestID)
			if !ok {
				continue
			}

			Logger.Info().Msgf("Elevator %v -> floor %d (%d seats, confidence %.1f, ETA %v)",
				assignment.ElevatorID, info.Floor, assignment.ExpectedCapacity,
				assignment.AssignmentConfidence, assignment.EstimatedArrivalTime.Format(time.TimeOnly))

			if info.Bidirectional {
				ledger.add(assignment.ElevatorID, plannedStop{
					kind:          stopInvestigate,
					requestID:     assignment.RequestID,
					floor:         info.Floor,
					estimatedUp:   info.EstimatedUpPeople,
					estimatedDown: info.EstimatedDownPeople,
				})
				handle.commands <- elevcmd.ElevatorCommand{Value: elevcmd.MoveToFloorCommand{Floor: info.Floor}}
				continue
			}

			ledger.add(assignment.ElevatorID, plannedStop{
				kind:      stopBoard,
				requestID: assignment.RequestID,
				floor:     info.Floor,
				people:    assignment.ExpectedCapacity,
				direction: info.Direction,
			})
			handle.commands <- elevcmd.ElevatorCommand{Value: elevcmd.AddDestinationCommand{
				Floor:       info.Floor,
				PeopleCount: assignment.ExpectedCapacity,
			}}
			handle.commands <- elevcmd.ElevatorCommand{Value: elevcmd.MoveToFloorCommand{Floor: info.Floor}}
		}

		cycles++
		if cycles%10 == 0 {
			metrics := coordinator.GetSystemMetrics()
			Logger.Info().Msgf("Metrics: %d waiting, %d batches, %d bi-directional, avg wait %v, %d over threshold",
				metrics.TotalPeopleWaiting, metrics.ActiveRequests, metrics.BidirectionalRequests,
				metrics.AverageWait.Round(time.Second), metrics.RequestsOverThreshold)
		}
	}
}

// startDemandGenerator simulates hall traffic: it presses call buttons on
// random floors and mirrors each press into the coordinator. Roughly one in
// five presses is a lobby-style crowd wanting both directions.
func startDemandGenerator(ctx context.Context, waitGroup *sync.WaitGroup, building *elevfloor.Building, coordinator *dispatch.Coordinator, config *elevconfig.Config, random *rand.Rand) {
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(2+random.Intn(5)) * time.Second):
			}

			floorNumber := 1 + random.Intn(config.TotalFloors)
			peopleCount := 1 + random.Intn(4)

			direction := elevconsts.Up
			switch {
			case random.Intn(5) == 0:
				direction = elevconsts.Both
			case floorNumber == config.TotalFloors || (floorNumber > 1 && random.Intn(2) == 0):
				direction = elevconsts.Down
			}

			// Crowds wanting both directions skip the per-direction queues:
			// their split is unknown until an elevator investigates.
			if direction != elevconsts.Both {
				floor := building.Floor(floorNumber)
				if _, ok := floor.AddRequest(direction, peopleCount); !ok {
					continue
				}
			}

			if _, err := coordinator.AddFloorRequest(floorNumber, direction, peopleCount); err != nil {
				Logger.Error().Msgf("Rejected call at floor %d: %v", floorNumber, err)
				continue
			}
			Logger.Info().Msgf("Call at floor %d: %d people going %v", floorNumber, peopleCount, direction)
		}
	}()
}

// startArrivalHandler drains elevator events and closes the dispatch loop:
// when an elevator reaches a floor the ledger sent it to, investigations are
// resolved with the estimated split, waiting passengers board (reported to
// the coordinator, occupancy bumped, a drop-off stop scheduled), and
// drop-offs empty the car again.
func startArrivalHandler(ctx context.Context, waitGroup *sync.WaitGroup, events <-chan elevevent.ElevatorEvent, coordinator *dispatch.Coordinator, handles map[string]elevatorHandle, ledger *serviceLedger, config *elevconfig.Config, random *rand.Rand) {
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-events:
				switch value := event.Value.(type) {
				case elevevent.FloorArrivedEvent:
					handleArrival(coordinator, handles, ledger, config, random, value)
				case elevevent.DoorHeldAlarmEvent:
					Logger.Warn().Msgf("Elevator %v door held open too long at floor %d", value.ElevatorID, value.Floor)
				case elevevent.MaintenanceEnteredEvent:
					Logger.Warn().Msgf("Elevator %v entered maintenance", value.ElevatorID)
				case elevevent.MaintenanceExitedEvent:
					Logger.Info().Msgf("Elevator %v returned to service", value.ElevatorID)
				case elevevent.CommandRejectedEvent:
					Logger.Warn().Msgf("Elevator %v rejected command: %v", value.ElevatorID, value.Reason)
				default:
					Logger.Debug().Msgf("Elevator event: %v", event.EventType())
				}
			}
		}
	}()
}

func handleArrival(coordinator *dispatch.Coordinator, handles map[string]elevatorHandle, ledger *serviceLedger, config *elevconfig.Config, random *rand.Rand, arrival elevevent.FloorArrivedEvent) {
	handle, ok := handles[arrival.ElevatorID]
	if !ok {
		return
	}

	for _, stop := range ledger.pop(arrival.ElevatorID, arrival.Floor) {
		switch stop.kind {
		case stopInvestigate:
			// Nobody reports better numbers than the estimate on site, so
			// the investigator confirms it as observed.
			err := coordinator.ResolveBidirectionalDistribution(stop.requestID, stop.estimatedUp, stop.estimatedDown)
			if err != nil {
				Logger.Error().Msgf("Could not resolve request %v: %v", stop.requestID, err)
				continue
			}
			Logger.Info().Msgf("Elevator %v investigated floor %d: %d up, %d down",
				arrival.ElevatorID, arrival.Floor, stop.estimatedUp, stop.estimatedDown)

		case stopBoard:
			if stop.people <= 0 {
				continue
			}
			if err := coordinator.RecordPeopleServed(stop.requestID, stop.people); err != nil {
				Logger.Error().Msgf("Could not record boarding for request %v: %v", stop.requestID, err)
				continue
			}
			handle.commands <- elevcmd.ElevatorCommand{Value: elevcmd.UpdateOccupancyCommand{Delta: stop.people}}
			Logger.Info().Msgf("Elevator %v boarded %d at floor %d", arrival.ElevatorID, stop.people, arrival.Floor)

			destination := pickDestination(stop.direction, arrival.Floor, config.TotalFloors, random)
			if destination == 0 {
				continue
			}
			ledger.add(arrival.ElevatorID, plannedStop{kind: stopAlight, floor: destination, people: stop.people})
			handle.commands <- elevcmd.ElevatorCommand{Value: elevcmd.AddDestinationCommand{
				Floor:       destination,
				PeopleCount: stop.people,
			}}
			handle.commands <- elevcmd.ElevatorCommand{Value: elevcmd.MoveToFloorCommand{Floor: destination}}

		case stopAlight:
			handle.commands <- elevcmd.ElevatorCommand{Value: elevcmd.UpdateOccupancyCommand{Delta: -stop.people}}
			Logger.Info().Msgf("Elevator %v dropped %d at floor %d", arrival.ElevatorID, stop.people, arrival.Floor)
		}
	}
}

// pickDestination draws a drop-off floor in the batch's direction, or 0 when
// no floor exists that way.
func pickDestination(direction elevconsts.Direction, from, totalFloors int, random *rand.Rand) int {
	switch direction {
	case elevconsts.Up:
		if from >= totalFloors {
			return 0
		}
		return from + 1 + random.Intn(totalFloors-from)
	case elevconsts.Down:
		if from <= 1 {
			return 0
		}
		return 1 + random.Intn(from-1)
	default:
		return 0
	}
}
