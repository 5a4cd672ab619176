package schedule

import "testing"

func TestLegalizeKeepsTopologicalOrder(t *testing.T) {
	t.Parallel()
	d := diamond(t)
	desired := []int{0, 2, 1, 3} // already topological
	legal := Legalize(d, desired)
	for i := range desired {
		if legal[i] != desired[i] {
			t.Fatalf("legalize changed a valid order: %v -> %v", desired, legal)
		}
	}
}

func TestLegalizeRepairsReversedOrder(t *testing.T) {
	t.Parallel()
	d := diamond(t)
	legal := Legalize(d, []int{3, 2, 1, 0})
	if !isTopologicalOrder(d, legal) {
		t.Fatalf("legalized order %v is not topological", legal)
	}
	seen := make(map[int]bool)
	for _, task := range legal {
		seen[task] = true
	}
	if len(seen) != d.NumTasks {
		t.Fatalf("legalized order %v is not a permutation", legal)
	}
}

func TestLegalizeHonorsPriority(t *testing.T) {
	t.Parallel()
	d := diamond(t)
	// both B(1) and C(2) become ready after A; the desired order says C first
	legal := Legalize(d, []int{0, 2, 1, 3})
	if legal[1] != 2 {
		t.Fatalf("legal order %v, want C scheduled before B", legal)
	}
}
