package elevclock

import (
	"sync"
	"time"
)

// Clock abstracts wall-clock reads and the suspension points of the elevator
// state machine (floor transits, door phases, maintenance holds). Production
// code uses SystemClock; tests use SimClock so state machines run without
// wall-clock delays.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type SystemClock struct{}

func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

func (c *SystemClock) Now() time.Time {
	return time.Now()
}

func (c *SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// SimClock advances a virtual now on every Sleep instead of blocking.
type SimClock struct {
	mutex sync.Mutex
	now   time.Time
}

func NewSimClock(start time.Time) *SimClock {
	return &SimClock{now: start}
}

func (c *SimClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.now
}

func (c *SimClock) Sleep(d time.Duration) {
	if d < 0 {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.now = c.now.Add(d)
}

// Advance moves the virtual clock forward without a sleeping caller, e.g. to
// age a pending request in tests.
func (c *SimClock) Advance(d time.Duration) {
	c.Sleep(d)
}
