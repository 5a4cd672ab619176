package ga

import (
	"math/rand"

	"dagsched/graph"
	"dagsched/schedule"
)

// CrossoverStrategy produces one child from two parents.
type CrossoverStrategy interface {
	Crossover(parent1, parent2 *schedule.Schedule, d *graph.DAG, rng *rand.Rand) *schedule.Schedule
}

// UniformCrossover draws each assignment gene from either parent and
// inherits the order from parent 1. This is the canonical operator: all
// schedules in a population share one baseline order, so no order repair
// is needed.
type UniformCrossover struct{}

func (UniformCrossover) Crossover(parent1, parent2 *schedule.Schedule, d *graph.DAG, rng *rand.Rand) *schedule.Schedule {
	child := schedule.New(d)
	for i := 0; i < d.NumTasks; i++ {
		if rng.Intn(2) == 0 {
			child.Assignment[i] = parent1.Assignment[i]
		} else {
			child.Assignment[i] = parent2.Assignment[i]
		}
	}
	child.Order = append([]int(nil), parent1.Order...)
	return child
}

// CombinedCrossover is the richer variant for the assignment-plus-order
// representation: uniform crossover on the assignment and Order Crossover
// (OX1) on the order. OX1 offspring are permutations but not necessarily
// topological, so every child passes through the Kahn legalization with
// its own order as the priority tie-break.
type CombinedCrossover struct{}

func (CombinedCrossover) Crossover(parent1, parent2 *schedule.Schedule, d *graph.DAG, rng *rand.Rand) *schedule.Schedule {
	child := schedule.New(d)
	for i := 0; i < d.NumTasks; i++ {
		if rng.Intn(2) == 0 {
			child.Assignment[i] = parent1.Assignment[i]
		} else {
			child.Assignment[i] = parent2.Assignment[i]
		}
	}
	child.Order = schedule.Legalize(d, orderCrossover(parent1.Order, parent2.Order, rng))
	return child
}

// orderCrossover copies a random contiguous slice of order1 into the child
// and fills the remaining slots from order2, preserving relative order.
func orderCrossover(order1, order2 []int, rng *rand.Rand) []int {
	size := len(order1)
	child := make([]int, size)
	for i := range child {
		child[i] = -1
	}

	start, end := rng.Intn(size), rng.Intn(size)
	if start > end {
		start, end = end, start
	}

	copied := make(map[int]bool, end-start+1)
	for i := start; i <= end; i++ {
		child[i] = order1[i]
		copied[order1[i]] = true
	}

	pos := (end + 1) % size
	for _, task := range order2 {
		if copied[task] {
			continue
		}
		for child[pos] != -1 {
			pos = (pos + 1) % size
		}
		child[pos] = task
	}
	return child
}
