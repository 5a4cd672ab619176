package helper

import "testing"

func TestGenerateDeterministic(t *testing.T) {
	t.Parallel()
	cfg := DefaultGeneratorConfig()
	d1, err := Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	d2, err := Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for i := range d1.Tasks {
		for p := range d1.Tasks[i].Comp {
			if d1.Tasks[i].Comp[p] != d2.Tasks[i].Comp[p] {
				t.Fatalf("comp[%d][%d] differs across identical seeds", i, p)
			}
		}
		if len(d1.Tasks[i].Successors) != len(d2.Tasks[i].Successors) {
			t.Fatalf("task %d edges differ across identical seeds", i)
		}
	}
}

func TestGenerateAcyclicAndConnected(t *testing.T) {
	t.Parallel()
	for seed := int64(0); seed < 5; seed++ {
		cfg := DefaultGeneratorConfig()
		cfg.Seed = seed
		d, err := Generate(cfg)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(d.TopologicalOrder()) != d.NumTasks {
			t.Fatalf("seed %d: topological order incomplete", seed)
		}

		// the graph has at least one edge
		withSuccessors := 0
		for _, task := range d.Tasks {
			if len(task.Successors) > 0 {
				withSuccessors++
			}
		}
		if withSuccessors == 0 {
			t.Fatalf("seed %d: generated graph has no edges", seed)
		}
	}
}

func TestGenerateCostRanges(t *testing.T) {
	t.Parallel()
	cfg := DefaultGeneratorConfig()
	cfg.Heterogeneity = 0.2
	d, err := Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, task := range d.Tasks {
		for p, c := range task.Comp {
			if c <= 0 {
				t.Fatalf("task %d processor %d has non-positive cost %v", task.ID, p, c)
			}
		}
	}
	for p1 := 0; p1 < d.NumProcessors; p1++ {
		if d.CommRate[p1][p1] != 0 {
			t.Fatalf("self comm rate not zero for processor %d", p1)
		}
	}
}
