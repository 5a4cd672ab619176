package ga

import (
	"math"
	"math/rand"

	"dagsched/graph"
	"dagsched/schedule"
)

// MutationStrategy perturbs a schedule in place.
type MutationStrategy interface {
	Mutate(s *schedule.Schedule, rate float64, d *graph.DAG, rng *rand.Rand)
}

const (
	orderMutationProbability = 0.1  // chance the order is considered at all
	adjacentSwapProbability  = 0.05 // per-pair swap chance within that
)

// CombinedMutation applies the OCT-guided smart mutation to the assignment
// and a reachability-guarded adjacent swap to the order.
type CombinedMutation struct{}

func (CombinedMutation) Mutate(s *schedule.Schedule, rate float64, d *graph.DAG, rng *rand.Rand) {
	smartMutateAssignment(s, rate, d, rng)
	localSwapMutateOrder(s, d, rng)
}

// smartMutateAssignment moves a hit gene to the processor with the lowest
// OCT for that task; if it already sits there, any other processor is drawn
// uniformly. Without an OCT cache the per-task computation cost decides.
func smartMutateAssignment(s *schedule.Schedule, rate float64, d *graph.DAG, rng *rand.Rand) {
	mutated := false
	for t := range s.Assignment {
		if rng.Float64() >= rate {
			continue
		}
		current := s.Assignment[t]
		best := current
		bestCost := math.MaxFloat64
		for p := 0; p < d.NumProcessors; p++ {
			cost := d.Tasks[t].Comp[p]
			if d.HasOCT() {
				cost = d.OCT(t, p)
			}
			if cost < bestCost {
				bestCost = cost
				best = p
			}
		}
		if best != current {
			s.Assignment[t] = best
		} else if d.NumProcessors > 1 {
			next := rng.Intn(d.NumProcessors - 1)
			if next >= current {
				next++
			}
			s.Assignment[t] = next
		}
		mutated = true
	}
	if mutated {
		s.Invalidate()
	}
}

// localSwapMutateOrder swaps adjacent order entries that are independent of
// each other. The reachability guard keeps the order topological, so no
// repair pass is needed afterwards.
func localSwapMutateOrder(s *schedule.Schedule, d *graph.DAG, rng *rand.Rand) {
	if rng.Float64() > orderMutationProbability {
		return
	}
	order := s.Order
	if len(order) < 2 {
		return
	}
	mutated := false
	for i := 0; i < len(order)-1; i++ {
		if d.Reachable(order[i], order[i+1]) {
			continue
		}
		if rng.Float64() < adjacentSwapProbability {
			order[i], order[i+1] = order[i+1], order[i]
			mutated = true
		}
	}
	if mutated {
		s.Invalidate()
	}
}
