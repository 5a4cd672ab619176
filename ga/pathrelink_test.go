package ga

import (
	"math/rand"
	"testing"

	"dagsched/schedule"
)

func TestPathRelinkNeverWorseThanSource(t *testing.T) {
	t.Parallel()
	d := testDAG(t, 12, 21)
	rng := rand.New(rand.NewSource(3))

	source := schedule.New(d)
	source.RandomInit(rng)
	source.Order = append([]int(nil), d.TopologicalOrder()...)
	source.Evaluate()
	guide := schedule.NewPEFT(d)

	result := PathRelink(source, guide, rng)
	if result.Makespan > source.Makespan {
		t.Fatalf("path-relinking worsened %v -> %v", source.Makespan, result.Makespan)
	}
}

func TestPathRelinkEmptyDiff(t *testing.T) {
	t.Parallel()
	d := testDAG(t, 10, 22)
	rng := rand.New(rand.NewSource(3))
	source := schedule.NewPEFT(d)
	source.Invalidate()
	source.Evaluate()

	result := PathRelink(source, source, rng)
	if result.Makespan != source.Makespan {
		t.Fatalf("empty diff changed makespan: %v vs %v", result.Makespan, source.Makespan)
	}
	for i := range source.Assignment {
		if result.Assignment[i] != source.Assignment[i] {
			t.Fatal("empty diff changed the assignment")
		}
	}
}

func TestPathRelinkKeepsSourceOrder(t *testing.T) {
	t.Parallel()
	d := testDAG(t, 12, 23)
	rng := rand.New(rand.NewSource(8))

	source := schedule.New(d)
	source.RandomInit(rng)
	source.Order = append([]int(nil), d.TopologicalOrder()...)
	source.Evaluate()
	guide := schedule.NewHEFT(d)

	result := PathRelink(source, guide, rng)
	for i := range source.Order {
		if result.Order[i] != source.Order[i] {
			t.Fatal("path-relinking must inherit the source order")
		}
	}
}
