package main

import (
	"sync"

	"github.com/liftsys/elevator-dispatch/internal/elevconsts"
)

type stopKind int

const (
	stopInvestigate stopKind = iota
	stopBoard
	stopAlight
)

// plannedStop is why an elevator was sent somewhere: to investigate a
// bi-directional crowd, to board waiting passengers, or to let boarded
// passengers off.
type plannedStop struct {
	kind          stopKind
	requestID     string
	floor         int
	people        int
	direction     elevconsts.Direction
	estimatedUp   int
	estimatedDown int
}

// serviceLedger remembers the purpose of every commanded stop per elevator,
// so floor-arrived events can be turned into distribution resolutions,
// boarding reports, and occupancy updates.
type serviceLedger struct {
	mutex sync.Mutex
	stops map[string][]plannedStop
}

func newServiceLedger() *serviceLedger {
	return &serviceLedger{stops: make(map[string][]plannedStop)}
}

func (l *serviceLedger) add(elevatorID string, stop plannedStop) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.stops[elevatorID] = append(l.stops[elevatorID], stop)
}

// pop removes and returns every planned stop the elevator has at the floor.
// Stops at other floors stay queued.
func (l *serviceLedger) pop(elevatorID string, floor int) []plannedStop {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	var arrived []plannedStop
	kept := l.stops[elevatorID][:0]
	for _, stop := range l.stops[elevatorID] {
		if stop.floor == floor {
			arrived = append(arrived, stop)
		} else {
			kept = append(kept, stop)
		}
	}
	l.stops[elevatorID] = kept
	return arrived
}
