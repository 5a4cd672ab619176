package ga

import (
	"math/rand"

	"dagsched/schedule"
)

// PathRelink walks from source toward guide one assignment gene at a time,
// refining every intermediate with critical-path local search, and returns
// the best schedule met on the trajectory. The order is inherited from the
// source and never modified. An empty diff returns the source unchanged.
func PathRelink(source, guide *schedule.Schedule, rng *rand.Rand) *schedule.Schedule {
	current := source.Clone()
	current.Invalidate()
	current.Evaluate()
	bestFound := current.Clone()

	diff := make([]int, 0)
	for i := range source.Assignment {
		if source.Assignment[i] != guide.Assignment[i] {
			diff = append(diff, i)
		}
	}
	if len(diff) == 0 {
		return bestFound
	}

	rng.Shuffle(len(diff), func(i, j int) {
		diff[i], diff[j] = diff[j], diff[i]
	})

	for _, gene := range diff {
		current.Assignment[gene] = guide.Assignment[gene]
		current.Invalidate()
		current.Evaluate()
		current.CriticalPathLocalSearch()
		if current.Makespan < bestFound.Makespan {
			bestFound = current.Clone()
		}
	}
	return bestFound
}
