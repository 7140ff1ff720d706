package elevator

import "testing"

func TestOccupancySensorUpdate(t *testing.T) {
	sensor := NewOccupancySensor(8)

	sensor.Update(3, 0)
	if sensor.CurrentOccupancy() != 3 {
		t.Errorf("Expected occupancy 3, got %d", sensor.CurrentOccupancy())
	}
	if sensor.AvailableCapacity() != 5 {
		t.Errorf("Expected available capacity 5, got %d", sensor.AvailableCapacity())
	}

	sensor.Update(0, 10)
	if sensor.CurrentOccupancy() != 0 {
		t.Errorf("Expected occupancy floored at 0, got %d", sensor.CurrentOccupancy())
	}

	sensor.Update(20, 0)
	if sensor.CurrentOccupancy() != 8 {
		t.Errorf("Expected occupancy capped at 8, got %d", sensor.CurrentOccupancy())
	}
}

func TestOccupancySensorCanAccommodate(t *testing.T) {
	sensor := NewOccupancySensor(8)
	sensor.Update(6, 0)

	if !sensor.CanAccommodate(2) {
		t.Errorf("Expected sensor to accommodate 2 more people at occupancy 6/8")
	}
	if sensor.CanAccommodate(3) {
		t.Errorf("Expected sensor to refuse 3 more people at occupancy 6/8")
	}
}
