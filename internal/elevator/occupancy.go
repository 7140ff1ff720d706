package elevator

// OccupancySensor tracks the passenger count of one elevator against a fixed
// capacity. It is owned by exactly one Elevator and never shared.
type OccupancySensor struct {
	maxCapacity      int
	currentOccupancy int
}

func NewOccupancySensor(maxCapacity int) *OccupancySensor {
	return &OccupancySensor{maxCapacity: maxCapacity}
}

// Update applies people entering and exiting, clamped to [0, capacity].
func (s *OccupancySensor) Update(peopleIn, peopleOut int) {
	occupancy := s.currentOccupancy + peopleIn - peopleOut
	if occupancy < 0 {
		occupancy = 0
	}
	if occupancy > s.maxCapacity {
		occupancy = s.maxCapacity
	}
	s.currentOccupancy = occupancy
}

func (s *OccupancySensor) CurrentOccupancy() int {
	return s.currentOccupancy
}

func (s *OccupancySensor) MaxCapacity() int {
	return s.maxCapacity
}

func (s *OccupancySensor) AvailableCapacity() int {
	available := s.maxCapacity - s.currentOccupancy
	if available < 0 {
		return 0
	}
	return available
}

func (s *OccupancySensor) CanAccommodate(peopleCount int) bool {
	return s.currentOccupancy+peopleCount <= s.maxCapacity
}
