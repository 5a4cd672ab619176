package stats

import (
	"github.com/ledgerwatch/log/v3"
)

// Solver runs one seeded solve and returns the achieved makespan.
type Solver func(seed int64) float64

// RunRepeated executes the solver once per seed and aggregates the
// makespans against the baseline. This is how the benchmark tables are
// produced: one deterministic baseline, many seeded metaheuristic runs.
func RunRepeated(solve Solver, seeds []int64, baseline float64) Summary {
	makespans := make([]float64, 0, len(seeds))
	for _, seed := range seeds {
		m := solve(seed)
		makespans = append(makespans, m)
		log.Debug("repeated run", "seed", seed, "makespan", m)
	}
	return Summarize(makespans, baseline)
}

// Seeds builds n distinct seeds from a base seed.
func Seeds(base int64, n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = base + int64(i)*104729
	}
	return seeds
}
