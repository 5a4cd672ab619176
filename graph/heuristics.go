package graph

import (
	"math"
	"sort"
)

// computeUpwardRanks walks tasks in reverse topological order. The rank of
// an exit task is its average computation cost; everything else adds the
// most expensive successor continuation under averaged communication.
func (d *DAG) computeUpwardRanks() []float64 {
	ranks := make([]float64, d.NumTasks)
	for i := d.NumTasks - 1; i >= 0; i-- {
		tid := d.topoOrder[i]
		task := d.Tasks[tid]
		maxSucc := 0.0
		for _, succ := range task.Successors {
			avgComm := 0.0
			if v := task.Volume(succ); v > 0 {
				avgComm = float64(v) * d.avgCommRate
			}
			maxSucc = max(maxSucc, avgComm+ranks[succ])
		}
		ranks[tid] = task.AvgComp() + maxSucc
	}
	return ranks
}

// computeOCT fills the optimistic cost table: OCT[t][p] is the best-case
// remaining-path cost below t when t runs on p, assuming every successor
// lands on its cheapest processor. Exit tasks cost nothing beyond
// themselves. One reverse-topological pass seeds the table; further passes
// run to a fixed point for robustness against diamond-shaped slack.
func (d *DAG) computeOCT() [][]float64 {
	oct := make([][]float64, d.NumTasks)
	for i := range oct {
		oct[i] = make([]float64, d.NumProcessors)
	}

	const tolerance = 1e-9
	for pass := 0; pass <= d.NumTasks; pass++ {
		changed := false
		for i := d.NumTasks - 1; i >= 0; i-- {
			tid := d.topoOrder[i]
			task := d.Tasks[tid]
			for p := 0; p < d.NumProcessors; p++ {
				maxSucc := 0.0
				for _, succ := range task.Successors {
					minSucc := math.MaxFloat64
					for q := 0; q < d.NumProcessors; q++ {
						cost := oct[succ][q] + d.Tasks[succ].Comp[q] + d.CommCost(tid, succ, p, q)
						minSucc = min(minSucc, cost)
					}
					maxSucc = max(maxSucc, minSucc)
				}
				if math.Abs(oct[tid][p]-maxSucc) > tolerance {
					oct[tid][p] = maxSucc
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return oct
}

// computePEFTRanks averages each task's OCT row. Scheduling in decreasing
// PEFT rank is the PEFT list order.
func (d *DAG) computePEFTRanks() []float64 {
	ranks := make([]float64, d.NumTasks)
	for t := 0; t < d.NumTasks; t++ {
		sum := 0.0
		for p := 0; p < d.NumProcessors; p++ {
			sum += d.oct[t][p]
		}
		ranks[t] = sum / float64(d.NumProcessors)
	}
	return ranks
}

// orderByRankDesc sorts task ids by rank descending, lower id first on ties
// so the order is stable across runs.
func orderByRankDesc(ranks []float64) []int {
	order := make([]int, len(ranks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		if ranks[order[i]] == ranks[order[j]] {
			return order[i] < order[j]
		}
		return ranks[order[i]] > ranks[order[j]]
	})
	return order
}

// UpwardRank returns the cached upward rank of task t.
func (d *DAG) UpwardRank(t int) float64 { return d.upwardRanks[t] }

// UpwardRanks returns the cached rank table, indexed by task id.
func (d *DAG) UpwardRanks() []float64 { return d.upwardRanks }

// RankedTasks is the task ids sorted by upward rank descending.
func (d *DAG) RankedTasks() []int { return d.rankedTasks }

// OCT returns the optimistic cost table entry for (t, p).
func (d *DAG) OCT(t, p int) float64 { return d.oct[t][p] }

// HasOCT reports whether the OCT cache is available.
func (d *DAG) HasOCT() bool { return d.oct != nil }

// PEFTOrder is the task ids sorted by PEFT rank descending.
func (d *DAG) PEFTOrder() []int { return d.peftOrder }
