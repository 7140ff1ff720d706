package elevconfig

import (
	"fmt"
	"os"
	"time"

	"github.com/go-yaml/yaml"
)

// Config carries every tunable constant of the dispatch core. Components
// take it at construction so tests can inject small buildings and short
// durations. In YAML files durations are Go duration strings ("2s",
// "1m30s"); decoding happens through rawConfig below.
type Config struct {
	TotalFloors         int
	CapacityPerElevator int
	StartFloor          int

	FloorTransitTime time.Duration
	FloorTransitCost int

	MaintenanceCostThreshold int
	MaintenancePeriod        time.Duration

	DoorOpeningTime        time.Duration
	DoorOpenTime           time.Duration
	DoorClosingTime        time.Duration
	DoorHeldAlarmThreshold time.Duration

	ReassignmentThreshold time.Duration
	WaitTimeWeight        float64
	DistanceWeight        float64
	LoadWeight            float64
}

// rawConfig mirrors Config for YAML decoding: yaml v2 only decodes
// time.Duration from integer nanoseconds, so duration keys arrive as strings
// and go through time.ParseDuration. Pointer fields keep absent keys from
// clobbering the defaults already on the receiver.
type rawConfig struct {
	TotalFloors         *int `yaml:"TotalFloors"`
	CapacityPerElevator *int `yaml:"CapacityPerElevator"`
	StartFloor          *int `yaml:"StartFloor"`

	FloorTransitTime *string `yaml:"FloorTransitTime"`
	FloorTransitCost *int    `yaml:"FloorTransitCost"`

	MaintenanceCostThreshold *int    `yaml:"MaintenanceCostThreshold"`
	MaintenancePeriod        *string `yaml:"MaintenancePeriod"`

	DoorOpeningTime        *string `yaml:"DoorOpeningTime"`
	DoorOpenTime           *string `yaml:"DoorOpenTime"`
	DoorClosingTime        *string `yaml:"DoorClosingTime"`
	DoorHeldAlarmThreshold *string `yaml:"DoorHeldAlarmThreshold"`

	ReassignmentThreshold *string  `yaml:"ReassignmentThreshold"`
	WaitTimeWeight        *float64 `yaml:"WaitTimeWeight"`
	DistanceWeight        *float64 `yaml:"DistanceWeight"`
	LoadWeight            *float64 `yaml:"LoadWeight"`
}

func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw rawConfig
	if err := unmarshal(&raw); err != nil {
		return err
	}

	setInt(&c.TotalFloors, raw.TotalFloors)
	setInt(&c.CapacityPerElevator, raw.CapacityPerElevator)
	setInt(&c.StartFloor, raw.StartFloor)
	setInt(&c.FloorTransitCost, raw.FloorTransitCost)
	setInt(&c.MaintenanceCostThreshold, raw.MaintenanceCostThreshold)
	setFloat(&c.WaitTimeWeight, raw.WaitTimeWeight)
	setFloat(&c.DistanceWeight, raw.DistanceWeight)
	setFloat(&c.LoadWeight, raw.LoadWeight)

	durations := []struct {
		key    string
		target *time.Duration
		value  *string
	}{
		{"FloorTransitTime", &c.FloorTransitTime, raw.FloorTransitTime},
		{"MaintenancePeriod", &c.MaintenancePeriod, raw.MaintenancePeriod},
		{"DoorOpeningTime", &c.DoorOpeningTime, raw.DoorOpeningTime},
		{"DoorOpenTime", &c.DoorOpenTime, raw.DoorOpenTime},
		{"DoorClosingTime", &c.DoorClosingTime, raw.DoorClosingTime},
		{"DoorHeldAlarmThreshold", &c.DoorHeldAlarmThreshold, raw.DoorHeldAlarmThreshold},
		{"ReassignmentThreshold", &c.ReassignmentThreshold, raw.ReassignmentThreshold},
	}
	for _, duration := range durations {
		if err := setDuration(duration.target, duration.value); err != nil {
			return fmt.Errorf("%s: %w", duration.key, err)
		}
	}
	return nil
}

func setInt(target *int, value *int) {
	if value != nil {
		*target = *value
	}
}

func setFloat(target *float64, value *float64) {
	if value != nil {
		*target = *value
	}
}

func setDuration(target *time.Duration, value *string) error {
	if value == nil {
		return nil
	}
	parsed, err := time.ParseDuration(*value)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", *value, err)
	}
	*target = parsed
	return nil
}

func Default() *Config {
	return &Config{
		TotalFloors:              10,
		CapacityPerElevator:      8,
		StartFloor:               1,
		FloorTransitTime:         2 * time.Second,
		FloorTransitCost:         5,
		MaintenanceCostThreshold: 500,
		MaintenancePeriod:        10 * time.Second,
		DoorOpeningTime:          2 * time.Second,
		DoorOpenTime:             5 * time.Second,
		DoorClosingTime:          2 * time.Second,
		DoorHeldAlarmThreshold:   60 * time.Second,
		ReassignmentThreshold:    60 * time.Second,
		WaitTimeWeight:           10.0,
		DistanceWeight:           1.0,
		LoadWeight:               2.0,
	}
}

// Load reads a YAML file over the defaults, so partial files only override
// the keys they name.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects corrupt constants. This is the one place where a bad
// value is fatal rather than a logged no-op.
func (c *Config) Validate() error {
	if c.TotalFloors < 2 {
		return fmt.Errorf("TotalFloors must be at least 2, got %d", c.TotalFloors)
	}
	if c.CapacityPerElevator <= 0 {
		return fmt.Errorf("CapacityPerElevator must be positive, got %d", c.CapacityPerElevator)
	}
	if c.StartFloor < 1 || c.StartFloor > c.TotalFloors {
		return fmt.Errorf("StartFloor %d outside [1, %d]", c.StartFloor, c.TotalFloors)
	}
	if c.FloorTransitTime <= 0 {
		return fmt.Errorf("FloorTransitTime must be positive, got %v", c.FloorTransitTime)
	}
	if c.FloorTransitCost <= 0 {
		return fmt.Errorf("FloorTransitCost must be positive, got %d", c.FloorTransitCost)
	}
	if c.MaintenanceCostThreshold < c.FloorTransitCost {
		return fmt.Errorf("MaintenanceCostThreshold %d below FloorTransitCost %d", c.MaintenanceCostThreshold, c.FloorTransitCost)
	}
	if c.MaintenancePeriod < 0 {
		return fmt.Errorf("MaintenancePeriod must not be negative, got %v", c.MaintenancePeriod)
	}
	if c.DoorOpeningTime < 0 || c.DoorOpenTime < 0 || c.DoorClosingTime < 0 {
		return fmt.Errorf("door durations must not be negative")
	}
	if c.DoorHeldAlarmThreshold <= 0 {
		return fmt.Errorf("DoorHeldAlarmThreshold must be positive, got %v", c.DoorHeldAlarmThreshold)
	}
	if c.ReassignmentThreshold <= 0 {
		return fmt.Errorf("ReassignmentThreshold must be positive, got %v", c.ReassignmentThreshold)
	}
	if c.WaitTimeWeight < 0 || c.DistanceWeight < 0 || c.LoadWeight < 0 {
		return fmt.Errorf("scoring weights must not be negative")
	}
	return nil
}

// DoorCycleTime is one full stop: open, hold, close.
func (c *Config) DoorCycleTime() time.Duration {
	return c.DoorOpeningTime + c.DoorOpenTime + c.DoorClosingTime
}

// TravelTime is the transit duration between two floors.
func (c *Config) TravelTime(from, to int) time.Duration {
	floors := from - to
	if floors < 0 {
		floors = -floors
	}
	return time.Duration(floors) * c.FloorTransitTime
}
