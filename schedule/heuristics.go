package schedule

import (
	"math"

	"dagsched/graph"
)

// est is the earliest start of task t on processor p given the partial
// placement in assignment/finish and the processor ready times.
func est(d *graph.DAG, t, p int, assignment []int, finish, procReady []float64) float64 {
	dataReady := 0.0
	for _, pred := range d.Tasks[t].Predecessors {
		dataReady = max(dataReady, finish[pred]+d.CommCost(pred, t, assignment[pred], p))
	}
	return max(procReady[p], dataReady)
}

// NewPEFT builds the PEFT schedule: tasks in decreasing PEFT rank, each
// placed on the processor minimizing est + comp + OCT. The OCT term looks
// ahead past the current task, which is what separates PEFT from HEFT.
func NewPEFT(d *graph.DAG) *Schedule {
	return listSchedule(d, d.PEFTOrder(), func(t, p int, taskEST float64) float64 {
		return taskEST + d.Tasks[t].Comp[p] + d.OCT(t, p)
	})
}

// NewHEFT builds the HEFT schedule: tasks in decreasing upward rank, each
// placed on the processor with the earliest finish time.
func NewHEFT(d *graph.DAG) *Schedule {
	return listSchedule(d, d.RankedTasks(), func(t, p int, taskEST float64) float64 {
		return taskEST + d.Tasks[t].Comp[p]
	})
}

// listSchedule walks order and greedily commits each task to the processor
// minimizing the decision metric. The stored finish time is always the
// actual EFT, not the metric (the two differ under PEFT's look-ahead).
func listSchedule(d *graph.DAG, order []int, metric func(t, p int, est float64) float64) *Schedule {
	s := New(d)
	s.Order = append([]int(nil), order...)

	finish := make([]float64, d.NumTasks)
	procReady := make([]float64, d.NumProcessors)

	makespan := 0.0
	for _, t := range order {
		bestMetric := math.MaxFloat64
		bestProc := 0
		bestEFT := 0.0
		for p := 0; p < d.NumProcessors; p++ {
			taskEST := est(d, t, p, s.Assignment, finish, procReady)
			if m := metric(t, p, taskEST); m < bestMetric {
				bestMetric = m
				bestProc = p
				bestEFT = taskEST + d.Tasks[t].Comp[p]
			}
		}
		s.Assignment[t] = bestProc
		finish[t] = bestEFT
		procReady[bestProc] = bestEFT
		makespan = max(makespan, bestEFT)
	}

	s.SetMakespan(makespan)
	return s
}
