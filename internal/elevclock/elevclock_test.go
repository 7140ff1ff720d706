package elevclock

import (
	"testing"
	"time"
)

func TestSimClockSleepAdvances(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := NewSimClock(start)

	clock.Sleep(90 * time.Second)

	expected := start.Add(90 * time.Second)
	if !clock.Now().Equal(expected) {
		t.Errorf("Expected now to be %v, got %v", expected, clock.Now())
	}
}

func TestSimClockNegativeSleep(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := NewSimClock(start)

	clock.Sleep(-time.Second)

	if !clock.Now().Equal(start) {
		t.Errorf("Expected negative sleep to leave now at %v, got %v", start, clock.Now())
	}
}

func TestSystemClockNow(t *testing.T) {
	clock := NewSystemClock()
	before := time.Now()
	now := clock.Now()
	after := time.Now()

	if now.Before(before) || now.After(after) {
		t.Errorf("Expected system clock now between %v and %v, got %v", before, after, now)
	}
}
