package elevestimate

import "testing"

func TestGroundFloorPattern(t *testing.T) {
	estimator := New(10)

	up, down := estimator.EstimateDistribution(1, 10, 9)
	if up != 9 || down != 1 {
		t.Errorf("Expected split (9, 1) at the ground floor, got (%d, %d)", up, down)
	}
}

func TestTopFloorPattern(t *testing.T) {
	estimator := New(10)

	up, down := estimator.EstimateDistribution(10, 20, NoTimeOfDay)
	if up != 1 || down != 19 {
		t.Errorf("Expected split (1, 19) at the top floor, got (%d, %d)", up, down)
	}
}

func TestSplitAlwaysSumsToTotal(t *testing.T) {
	estimator := New(12)

	for floor := 1; floor <= 12; floor++ {
		for _, hour := range []int{NoTimeOfDay, 0, 8, 12, 17, 23} {
			for _, total := range []int{1, 7, 10, 33} {
				up, down := estimator.EstimateDistribution(floor, total, hour)
				if up+down != total {
					t.Errorf("Expected up+down == %d at floor %d hour %d, got %d+%d", total, floor, hour, up, down)
				}
				if up < 0 || down < 0 {
					t.Errorf("Expected non-negative split at floor %d hour %d, got (%d, %d)", floor, hour, up, down)
				}
			}
		}
	}
}

func TestLowerFloorsLeanUp(t *testing.T) {
	estimator := New(10)

	up, down := estimator.EstimateDistribution(2, 10, NoTimeOfDay)
	if up != 7 || down != 3 {
		t.Errorf("Expected split (7, 3) at a low floor, got (%d, %d)", up, down)
	}
}

func TestUpperFloorsLeanDown(t *testing.T) {
	estimator := New(10)

	up, down := estimator.EstimateDistribution(9, 10, NoTimeOfDay)
	if up != 3 || down != 7 {
		t.Errorf("Expected split (3, 7) at a high floor, got (%d, %d)", up, down)
	}
}

func TestTimeOfDayShiftsMiddleFloors(t *testing.T) {
	estimator := New(10)

	baseUp, _ := estimator.EstimateDistribution(5, 100, NoTimeOfDay)
	morningUp, _ := estimator.EstimateDistribution(5, 100, 8)
	eveningUp, _ := estimator.EstimateDistribution(5, 100, 17)

	if morningUp <= baseUp {
		t.Errorf("Expected morning rush to shift the split upward: base %d, morning %d", baseUp, morningUp)
	}
	if eveningUp >= baseUp {
		t.Errorf("Expected evening rush to shift the split downward: base %d, evening %d", baseUp, eveningUp)
	}
}

// Re-estimating with a larger total must not accumulate error: the estimate
// is a pure function of its inputs.
func TestEstimateIsPure(t *testing.T) {
	estimator := New(10)

	firstUp, firstDown := estimator.EstimateDistribution(5, 10, 8)
	for i := 0; i < 5; i++ {
		up, down := estimator.EstimateDistribution(5, 10, 8)
		if up != firstUp || down != firstDown {
			t.Errorf("Expected repeated estimate (%d, %d), got (%d, %d)", firstUp, firstDown, up, down)
		}
	}
}
