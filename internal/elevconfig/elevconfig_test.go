package elevconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultValidates(t *testing.T) {
	config := Default()
	if err := config.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
	if config.ReassignmentThreshold != 60*time.Second {
		t.Errorf("Expected default ReassignmentThreshold 60s, got %v", config.ReassignmentThreshold)
	}
	if config.WaitTimeWeight != 10.0 || config.DistanceWeight != 1.0 || config.LoadWeight != 2.0 {
		t.Errorf("Expected default weights 10/1/2, got %v/%v/%v",
			config.WaitTimeWeight, config.DistanceWeight, config.LoadWeight)
	}
}

func TestValidateRejectsCorruptValues(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"one floor", func(c *Config) { c.TotalFloors = 1 }},
		{"zero capacity", func(c *Config) { c.CapacityPerElevator = 0 }},
		{"start floor out of range", func(c *Config) { c.StartFloor = 11 }},
		{"zero transit time", func(c *Config) { c.FloorTransitTime = 0 }},
		{"zero transit cost", func(c *Config) { c.FloorTransitCost = 0 }},
		{"threshold below cost", func(c *Config) { c.MaintenanceCostThreshold = 1 }},
		{"negative door duration", func(c *Config) { c.DoorOpenTime = -time.Second }},
		{"zero reassignment threshold", func(c *Config) { c.ReassignmentThreshold = 0 }},
		{"negative weight", func(c *Config) { c.LoadWeight = -1 }},
	}

	for _, testCase := range testCases {
		config := Default()
		testCase.mutate(config)
		if err := config.Validate(); err == nil {
			t.Errorf("Expected Validate to fail for %q, got nil", testCase.name)
		}
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	content := "TotalFloors: 6\nCapacityPerElevator: 12\nFloorTransitTime: 3s\nReassignmentThreshold: 1m30s\n"
	path := filepath.Join(t.TempDir(), "dispatch.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Expected test file write to succeed, got %v", err)
	}

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Expected Load to succeed, got %v", err)
	}
	if config.TotalFloors != 6 {
		t.Errorf("Expected TotalFloors 6, got %d", config.TotalFloors)
	}
	if config.CapacityPerElevator != 12 {
		t.Errorf("Expected CapacityPerElevator 12, got %d", config.CapacityPerElevator)
	}
	if config.FloorTransitTime != 3*time.Second {
		t.Errorf("Expected FloorTransitTime 3s, got %v", config.FloorTransitTime)
	}
	if config.ReassignmentThreshold != 90*time.Second {
		t.Errorf("Expected ReassignmentThreshold 1m30s, got %v", config.ReassignmentThreshold)
	}
	// Untouched keys keep defaults.
	if config.DoorOpenTime != 5*time.Second {
		t.Errorf("Expected DoorOpenTime to stay 5s, got %v", config.DoorOpenTime)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	content := "FloorTransitTime: fast\n"
	path := filepath.Join(t.TempDir(), "dispatch.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Expected test file write to succeed, got %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Errorf("Expected Load to reject an unparseable duration, got nil")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Errorf("Expected Load of a missing file to fail, got nil")
	}
}

func TestTravelTime(t *testing.T) {
	config := Default()
	if config.TravelTime(1, 5) != 8*time.Second {
		t.Errorf("Expected travel time 8s for 4 floors, got %v", config.TravelTime(1, 5))
	}
	if config.TravelTime(5, 1) != config.TravelTime(1, 5) {
		t.Errorf("Expected travel time to be symmetric")
	}
	if config.TravelTime(3, 3) != 0 {
		t.Errorf("Expected zero travel time for same floor, got %v", config.TravelTime(3, 3))
	}
}
