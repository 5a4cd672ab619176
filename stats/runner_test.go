package stats

import (
	"testing"

	"dagsched/ga"
	"dagsched/helper"
	"dagsched/schedule"
)

func TestRunRepeatedAggregates(t *testing.T) {
	t.Parallel()
	cfg := helper.DefaultGeneratorConfig()
	cfg.NumTasks = 10
	d, err := helper.Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	baseline := schedule.NewPEFT(d)

	solve := func(seed int64) float64 {
		gcfg := ga.DefaultConfig()
		gcfg.PopulationSize = 10
		gcfg.Generations = 5
		gcfg.Seed = seed
		best, _ := ga.New(d, gcfg).Run()
		return best.Makespan
	}

	summary := RunRepeated(solve, Seeds(1, 3), baseline.Makespan)
	if summary.Runs != 3 {
		t.Fatalf("runs = %d, want 3", summary.Runs)
	}
	if summary.Best > baseline.Makespan {
		t.Fatalf("best %v worse than the PEFT seed %v", summary.Best, baseline.Makespan)
	}
	if summary.Best > summary.Worst {
		t.Fatalf("best %v above worst %v", summary.Best, summary.Worst)
	}
}

func TestSeedsDistinct(t *testing.T) {
	t.Parallel()
	seeds := Seeds(42, 10)
	seen := make(map[int64]bool)
	for _, s := range seeds {
		if seen[s] {
			t.Fatalf("duplicate seed %d", s)
		}
		seen[s] = true
	}
}
