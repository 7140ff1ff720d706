package elevestimate

// Estimator produces an up/down split for a floor where both call buttons
// are pressed. It is a pure heuristic: historical per-floor patterns first,
// then a linear interpolation over the floor's position in the building,
// nudged by time of day. Safe to re-run as more people arrive.
type Estimator struct {
	totalFloors   int
	floorPatterns map[int]float64 // floor number -> up ratio
}

// NoTimeOfDay disables the time-of-day adjustment.
const NoTimeOfDay = -1

const (
	bottomUpRatio = 0.7
	topUpRatio    = 0.3

	morningStartHour = 7
	morningEndHour   = 10
	eveningStartHour = 16
	eveningEndHour   = 19

	rushShift  = 0.1
	morningMax = 0.8
	eveningMin = 0.2
)

func New(totalFloors int) *Estimator {
	return &Estimator{
		totalFloors: totalFloors,
		floorPatterns: map[int]float64{
			// Ground floor traffic is almost entirely upward, top floor
			// almost entirely downward.
			1:           0.95,
			totalFloors: 0.05,
		},
	}
}

// EstimateDistribution splits totalPeople into (up, down). down is always
// total minus up, so the split is exact with truncation bias toward up.
// timeOfDay is the hour 0-23, or NoTimeOfDay.
func (e *Estimator) EstimateDistribution(floor, totalPeople, timeOfDay int) (int, int) {
	if ratio, ok := e.floorPatterns[floor]; ok {
		up := int(float64(totalPeople) * ratio)
		return up, totalPeople - up
	}

	var upRatio float64
	switch {
	case floor <= 3:
		upRatio = bottomUpRatio
	case floor >= e.totalFloors-2:
		upRatio = topUpRatio
	default:
		relativePosition := float64(floor-1) / float64(e.totalFloors-1)
		upRatio = bottomUpRatio - (bottomUpRatio-topUpRatio)*relativePosition

		if timeOfDay != NoTimeOfDay {
			if timeOfDay >= morningStartHour && timeOfDay <= morningEndHour {
				upRatio = min(morningMax, upRatio+rushShift)
			} else if timeOfDay >= eveningStartHour && timeOfDay <= eveningEndHour {
				upRatio = max(eveningMin, upRatio-rushShift)
			}
		}
	}

	up := int(float64(totalPeople) * upRatio)
	return up, totalPeople - up
}
