package coherence

import "testing"

func TestDistance(t *testing.T) {
	tests := []struct {
		requester, forwarder, want int
	}{
		{0, 1, 3},
		{0, 2, 2},
		{0, 3, 1},
		{2, 0, 2},
		{3, 0, 3},
		{1, 3, 2},
	}

	for _, tt := range tests {
		got := Distance(tt.requester, tt.forwarder)
		if got != tt.want {
			t.Errorf("Distance(%d, %d) = %d, want %d", tt.requester, tt.forwarder, got, tt.want)
		}
	}
}

func TestClosestSharerMinimizesRingDistance(t *testing.T) {
	// P0 requesting, sharers at 1 and 3: distance(0,1)=3, distance(0,3)=1,
	// so 3 is unambiguously closer.
	if got := closestSharer([]int{1, 3}, 0); got != 3 {
		t.Errorf("closestSharer = %d, want 3", got)
	}

	// Sharers at 1 and 2 from P3: distance(3,1)=2, distance(3,2)=1.
	if got := closestSharer([]int{1, 2}, 3); got != 2 {
		t.Errorf("closestSharer = %d, want 2", got)
	}
}

func TestClosestAndFurthestExcludeRequester(t *testing.T) {
	if got := closestSharer([]int{0, 1}, 0); got != 1 {
		t.Errorf("closestSharer should skip p itself, got %d", got)
	}

	if got := furthestSharer([]int{0, 1}, 0); got != 1 {
		t.Errorf("furthestSharer should skip p itself, got %d", got)
	}
}

func TestClosestFurthestEmpty(t *testing.T) {
	if got := closestSharer(nil, 0); got != -1 {
		t.Errorf("closestSharer(nil) = %d, want -1", got)
	}

	if got := furthestSharer([]int{0}, 0); got != -1 {
		t.Errorf("furthestSharer([p]) = %d, want -1", got)
	}
}
