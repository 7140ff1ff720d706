package dispatch

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/liftsys/elevator-dispatch/internal/elevclock"
	"github.com/liftsys/elevator-dispatch/internal/elevconfig"
	"github.com/liftsys/elevator-dispatch/internal/elevconsts"
	"github.com/liftsys/elevator-dispatch/internal/elevator"
	"github.com/liftsys/elevator-dispatch/internal/elevestimate"
	"github.com/liftsys/elevator-dispatch/internal/elevtrack"
	"github.com/liftsys/elevator-dispatch/internal/logger"
)

var Log = logger.GetLogger()

var (
	ErrInvalidFloor       = errors.New("floor out of range")
	ErrInvalidPeopleCount = errors.New("people count must be positive")
	ErrInvalidDirection   = errors.New("invalid request direction")
	ErrUnknownRequest     = errors.New("unknown request id")
)

const (
	investigationConfidence = 0.5
	assignmentConfidence    = 0.8

	// Negative score contribution for an elevator already heading the right
	// way (or with no commitment). Lower scores win.
	directionMatchBonus = -2.0

	// A reassignment must project at most this fraction of the current wait
	// to be worth disturbing an existing pairing.
	reassignmentImprovementRatio = 0.7
)

// Coordinator is the top-level orchestrator: it owns all pending demand
// (directional batches and bi-directional requests), scores elevators
// against it each cycle, and emits assignments. All its maps are guarded by
// one mutex so concurrent AddFloorRequest calls merge atomically.
type Coordinator struct {
	config    *elevconfig.Config
	clock     elevclock.Clock
	estimator *elevestimate.Estimator
	tracker   *elevtrack.Tracker

	mutex                 sync.Mutex
	activeBatches         map[string]*FloorRequestBatch
	bidirectionalRequests map[string]*BiDirectionalRequest
}

func NewCoordinator(config *elevconfig.Config, clock elevclock.Clock) *Coordinator {
	return &Coordinator{
		config:                config,
		clock:                 clock,
		estimator:             elevestimate.New(config.TotalFloors),
		tracker:               elevtrack.New(config, clock),
		activeBatches:         make(map[string]*FloorRequestBatch),
		bidirectionalRequests: make(map[string]*BiDirectionalRequest),
	}
}

// AddFloorRequest registers demand at a floor. Both directions at once
// become (or merge into) a bi-directional request; otherwise the call merges
// into the open batch for that floor and direction, or opens a new one. The
// returned id tracks the batch or bi-directional request.
func (c *Coordinator) AddFloorRequest(floor int, direction elevconsts.Direction, peopleCount int) (string, error) {
	if floor < 1 || floor > c.config.TotalFloors {
		return "", fmt.Errorf("%w: %d", ErrInvalidFloor, floor)
	}
	if peopleCount <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidPeopleCount, peopleCount)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	switch direction {
	case elevconsts.Both:
		return c.handleBidirectionalRequest(floor, peopleCount), nil
	case elevconsts.Up, elevconsts.Down:
		return c.handleDirectionalRequest(floor, direction, peopleCount), nil
	default:
		return "", fmt.Errorf("%w: %v", ErrInvalidDirection, direction)
	}
}

// Callers must hold the mutex.
func (c *Coordinator) handleBidirectionalRequest(floor, peopleCount int) string {
	currentHour := c.clock.Now().Hour()

	for _, request := range c.bidirectionalRequests {
		if request.Floor != floor || request.IsDistributionKnown() {
			continue
		}
		request.TotalPeopleWaiting += peopleCount
		request.EstimatedUpPeople, request.EstimatedDownPeople = c.estimator.EstimateDistribution(
			floor, request.TotalPeopleWaiting, currentHour)
		return request.RequestID
	}

	estimatedUp, estimatedDown := c.estimator.EstimateDistribution(floor, peopleCount, currentHour)
	request := newBiDirectionalRequest(floor, peopleCount, estimatedUp, estimatedDown, c.clock.Now())
	c.bidirectionalRequests[request.RequestID] = request
	Log.Info().Msgf("Bi-directional request at floor %d: %d people, estimated %d up / %d down",
		floor, peopleCount, estimatedUp, estimatedDown)
	return request.RequestID
}

// Callers must hold the mutex.
func (c *Coordinator) handleDirectionalRequest(floor int, direction elevconsts.Direction, peopleCount int) string {
	if existing := c.findExistingBatch(floor, direction); existing != nil {
		existing.TotalPeopleWaiting += peopleCount
		return existing.RequestID
	}

	batch := newFloorRequestBatch(floor, direction, peopleCount, c.clock.Now())
	c.activeBatches[batch.RequestID] = batch
	return batch.RequestID
}

// Callers must hold the mutex.
func (c *Coordinator) findExistingBatch(floor int, direction elevconsts.Direction) *FloorRequestBatch {
	for _, batch := range c.activeBatches {
		if batch.Floor == floor && batch.Direction == direction && !batch.IsFullyServed() {
			return batch
		}
	}
	return nil
}

// ProcessRequestsWithReassignment runs one coordination cycle:
//  1. dispatch an investigating elevator to every unassigned bi-directional
//     request,
//  2. split resolved bi-directional requests into directional batches,
//  3. clear assignments of batches that waited past the threshold and have a
//     strictly better elevator available,
//  4. assign elevators to pending batches, oldest and largest demand first.
//
// Returns the assignments created this cycle; the caller translates them
// into elevator commands.
func (c *Coordinator) ProcessRequestsWithReassignment(elevators []*elevator.Elevator) []ElevatorAssignment {
	snapshots := make([]elevator.Snapshot, len(elevators))
	for i, elev := range elevators {
		snapshots[i] = elev.Snapshot()
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.pruneServedBatches()

	assignments := c.processBidirectionalRequests(snapshots)

	pending := make([]*FloorRequestBatch, 0, len(c.activeBatches))
	for _, batch := range c.activeBatches {
		if !batch.IsFullyServed() {
			pending = append(pending, batch)
		}
	}

	c.checkReassignmentOpportunities(pending, snapshots)

	now := c.clock.Now()
	sort.Slice(pending, func(i, j int) bool {
		waitI, waitJ := pending[i].WaitTime(now), pending[j].WaitTime(now)
		if waitI != waitJ {
			return waitI > waitJ
		}
		return pending[i].PeopleRemaining() > pending[j].PeopleRemaining()
	})

	available := make([]elevator.Snapshot, 0, len(snapshots))
	remainingCapacity := make(map[string]int, len(snapshots))
	for _, snapshot := range snapshots {
		if snapshot.State == elevconsts.Maintenance {
			continue
		}
		available = append(available, snapshot)
		remainingCapacity[snapshot.ID] = snapshot.AvailableCapacity
	}

	for _, batch := range pending {
		if len(available) == 0 {
			break
		}
		if len(batch.AssignedElevators) > 0 && batch.PromisedCapacity >= batch.PeopleRemaining() {
			continue
		}

		assignment, ok := c.findOptimalAssignment(batch, available, remainingCapacity)
		if !ok {
			continue
		}

		assignments = append(assignments, assignment)
		batch.AssignedElevators[assignment.ElevatorID] = struct{}{}
		batch.PromisedCapacity += assignment.ExpectedCapacity

		remainingCapacity[assignment.ElevatorID] -= assignment.ExpectedCapacity
		if remainingCapacity[assignment.ElevatorID] <= 0 {
			kept := available[:0]
			for _, snapshot := range available {
				if snapshot.ID != assignment.ElevatorID {
					kept = append(kept, snapshot)
				}
			}
			available = kept
		}
	}

	return assignments
}

// pruneServedBatches drops fully served batches, snapshotting ids before
// mutating the map. Callers must hold the mutex.
func (c *Coordinator) pruneServedBatches() {
	var served []string
	for id, batch := range c.activeBatches {
		if batch.IsFullyServed() {
			served = append(served, id)
		}
	}
	for _, id := range served {
		delete(c.activeBatches, id)
	}
}

// processBidirectionalRequests splits every resolved request into two
// directional batches and sends an investigator to every unresolved request
// that has none assigned yet. Callers must hold the mutex.
func (c *Coordinator) processBidirectionalRequests(snapshots []elevator.Snapshot) []ElevatorAssignment {
	var assignments []ElevatorAssignment
	var resolved []string

	for id, request := range c.bidirectionalRequests {
		if request.IsDistributionKnown() {
			resolved = append(resolved, id)
			continue
		}

		if len(request.AssignedElevators) > 0 {
			continue
		}

		investigator, ok := closestAvailableElevator(snapshots, request.Floor)
		if !ok {
			continue
		}

		now := c.clock.Now()
		arrival := now.Add(c.config.TravelTime(investigator.Floor, request.Floor))
		assignments = append(assignments, ElevatorAssignment{
			ElevatorID:                     investigator.ID,
			RequestID:                      request.RequestID,
			ExpectedCapacity:               0, // just investigating
			EstimatedArrivalTime:           arrival,
			EstimatedServiceCompletionTime: arrival.Add(c.config.DoorCycleTime()),
			AssignmentConfidence:           investigationConfidence,
		})
		request.AssignedElevators[investigator.ID] = struct{}{}
	}

	for _, id := range resolved {
		request := c.bidirectionalRequests[id]
		upBatch, downBatch := request.split()

		if upBatch.TotalPeopleWaiting > 0 {
			c.activeBatches[upBatch.RequestID] = upBatch
		}
		if downBatch.TotalPeopleWaiting > 0 {
			c.activeBatches[downBatch.RequestID] = downBatch
		}
		delete(c.bidirectionalRequests, id)

		Log.Info().Msgf("Split bi-directional request at floor %d into %d up / %d down",
			request.Floor, upBatch.TotalPeopleWaiting, downBatch.TotalPeopleWaiting)
	}

	return assignments
}

// checkReassignmentOpportunities clears the assignment set of any batch that
// has waited past the threshold when a strictly better elevator exists, so
// the batch is re-scored this cycle. Callers must hold the mutex.
func (c *Coordinator) checkReassignmentOpportunities(pending []*FloorRequestBatch, snapshots []elevator.Snapshot) {
	now := c.clock.Now()

	for _, batch := range pending {
		currentWait := batch.WaitTime(now)
		if currentWait <= c.config.ReassignmentThreshold {
			continue
		}

		_, arrival, found := c.tracker.FindNextAvailableElevator(snapshots, batch.Floor)
		if !found {
			continue
		}

		projectedWait := arrival.Sub(now)
		if projectedWait.Seconds() < currentWait.Seconds()*reassignmentImprovementRatio {
			Log.Info().Msgf("Reassignment opportunity for floor %d: current wait %.1fs, projected %.1fs",
				batch.Floor, currentWait.Seconds(), projectedWait.Seconds())
			batch.AssignedElevators = make(map[string]struct{})
			batch.PromisedCapacity = 0
		}
	}
}

// findOptimalAssignment scores every eligible elevator against the batch and
// returns the winner. An elevator carrying passengers in the opposite
// direction is ineligible; the remainingCapacity pool reflects capacity
// already promised this cycle. Callers must hold the mutex.
func (c *Coordinator) findOptimalAssignment(batch *FloorRequestBatch, available []elevator.Snapshot, remainingCapacity map[string]int) (ElevatorAssignment, bool) {
	now := c.clock.Now()
	bestScore := math.Inf(1)
	var best ElevatorAssignment
	found := false

	for _, snapshot := range available {
		capacity := remainingCapacity[snapshot.ID]
		if capacity <= 0 {
			continue
		}
		if _, already := batch.AssignedElevators[snapshot.ID]; already {
			continue
		}
		if snapshot.Direction != elevconsts.None &&
			snapshot.Direction != batch.Direction &&
			snapshot.Occupancy > 0 {
			continue
		}

		completion := c.tracker.ServiceCompletionTime(snapshot)
		arrival := completion.Add(c.config.TravelTime(snapshot.Floor, batch.Floor))

		waitFactor := arrival.Sub(now).Minutes() * c.config.WaitTimeWeight
		distanceFactor := float64(absInt(snapshot.Floor-batch.Floor)) * c.config.DistanceWeight
		loadFactor := float64(snapshot.Occupancy) / float64(c.config.CapacityPerElevator) * c.config.LoadWeight

		score := waitFactor + distanceFactor + loadFactor
		if snapshot.Direction == batch.Direction || snapshot.Direction == elevconsts.None {
			score += directionMatchBonus
		}

		if score < bestScore {
			bestScore = score
			expected := batch.PeopleRemaining() - batch.PromisedCapacity
			if capacity < expected {
				expected = capacity
			}
			best = ElevatorAssignment{
				ElevatorID:                     snapshot.ID,
				RequestID:                      batch.RequestID,
				ExpectedCapacity:               expected,
				EstimatedArrivalTime:           arrival,
				EstimatedServiceCompletionTime: arrival.Add(c.config.DoorCycleTime()),
				AssignmentConfidence:           assignmentConfidence,
			}
			found = true
		}
	}

	return best, found
}

func closestAvailableElevator(snapshots []elevator.Snapshot, floor int) (elevator.Snapshot, bool) {
	var closest elevator.Snapshot
	found := false

	for _, snapshot := range snapshots {
		if snapshot.State == elevconsts.Maintenance {
			continue
		}
		if !found || absInt(snapshot.Floor-floor) < absInt(closest.Floor-floor) {
			closest = snapshot
			found = true
		}
	}

	return closest, found
}

// ResolveBidirectionalDistribution records the boarding counts an
// investigating elevator observed; the request splits on the next cycle.
func (c *Coordinator) ResolveBidirectionalDistribution(requestID string, actualUp, actualDown int) error {
	if actualUp < 0 || actualDown < 0 {
		return fmt.Errorf("%w: %d up, %d down", ErrInvalidPeopleCount, actualUp, actualDown)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	request, ok := c.bidirectionalRequests[requestID]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownRequest, requestID)
	}

	request.ActualUpPeople = &actualUp
	request.ActualDownPeople = &actualDown

	Log.Info().Msgf("Resolved bi-directional request at floor %d: %d up, %d down (estimated %d up, %d down)",
		request.Floor, actualUp, actualDown, request.EstimatedUpPeople, request.EstimatedDownPeople)
	return nil
}

// RecordPeopleServed reports boarded passengers against a batch. The served
// count never exceeds the batch total; excess is clamped and reported.
func (c *Coordinator) RecordPeopleServed(requestID string, peopleCount int) error {
	if peopleCount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPeopleCount, peopleCount)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	batch, ok := c.activeBatches[requestID]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownRequest, requestID)
	}

	served := batch.PeopleServed + peopleCount
	if served > batch.TotalPeopleWaiting {
		Log.Warn().Msgf("Batch %v served count %d clamped to total %d",
			requestID, served, batch.TotalPeopleWaiting)
		served = batch.TotalPeopleWaiting
	}
	batch.PeopleServed = served

	// The boarding consumes the promise that produced it.
	batch.PromisedCapacity -= peopleCount
	if batch.PromisedCapacity < 0 {
		batch.PromisedCapacity = 0
	}
	return nil
}

// SystemMetrics is a read-only aggregate of coordinator state.
type SystemMetrics struct {
	TotalPeopleWaiting    int
	ActiveRequests        int
	BidirectionalRequests int
	AverageWait           time.Duration
	RequestsOverThreshold int
}

// GetSystemMetrics reports the aggregate snapshot. Pure reporting, no side
// effects.
func (c *Coordinator) GetSystemMetrics() SystemMetrics {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.clock.Now()
	metrics := SystemMetrics{
		ActiveRequests:        len(c.activeBatches),
		BidirectionalRequests: len(c.bidirectionalRequests),
	}

	for _, request := range c.bidirectionalRequests {
		metrics.TotalPeopleWaiting += request.TotalPeopleWaiting
	}

	var totalWait time.Duration
	for _, batch := range c.activeBatches {
		metrics.TotalPeopleWaiting += batch.PeopleRemaining()
		wait := batch.WaitTime(now)
		totalWait += wait
		if wait > c.config.ReassignmentThreshold {
			metrics.RequestsOverThreshold++
		}
	}
	if len(c.activeBatches) > 0 {
		metrics.AverageWait = totalWait / time.Duration(len(c.activeBatches))
	}

	return metrics
}

// RequestInfo describes a tracked request for callers that only hold its id.
// The estimated fields are set for bi-directional requests only.
type RequestInfo struct {
	RequestID           string
	Floor               int
	Direction           elevconsts.Direction
	PeopleRemaining     int
	Bidirectional       bool
	EstimatedUpPeople   int
	EstimatedDownPeople int
}

// LookupRequest resolves a request id to its floor and remaining demand.
func (c *Coordinator) LookupRequest(requestID string) (RequestInfo, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if batch, ok := c.activeBatches[requestID]; ok {
		return RequestInfo{
			RequestID:       batch.RequestID,
			Floor:           batch.Floor,
			Direction:       batch.Direction,
			PeopleRemaining: batch.PeopleRemaining(),
		}, true
	}
	if request, ok := c.bidirectionalRequests[requestID]; ok {
		return RequestInfo{
			RequestID:           request.RequestID,
			Floor:               request.Floor,
			Direction:           elevconsts.Both,
			PeopleRemaining:     request.TotalPeopleWaiting,
			Bidirectional:       true,
			EstimatedUpPeople:   request.EstimatedUpPeople,
			EstimatedDownPeople: request.EstimatedDownPeople,
		}, true
	}
	return RequestInfo{}, false
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
