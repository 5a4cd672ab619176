package graph

import (
	"errors"
	"fmt"

	"dagsched/types"
)

var ErrCyclicDependency = errors.New("task graph contains a cycle")

// DAG holds the workload: the task arena, the processor communication-rate
// matrix, and the derived caches every solver reads. It is built once by
// Load (or NewDAG + Finalize) and read-only afterwards.
type DAG struct {
	NumTasks      int
	NumProcessors int
	CommRate      [][]float64 // CommRate[p][p] == 0
	Tasks         []*types.Task

	// caches, filled by Finalize
	topoOrder   []int
	reachable   [][]bool
	avgCommRate float64
	upwardRanks []float64
	rankedTasks []int // by upward rank descending
	oct         [][]float64
	peftRanks   []float64
	peftOrder   []int // by peft rank descending
	finalized   bool
}

func NewDAG(numTasks, numProcessors int) *DAG {
	d := &DAG{
		NumTasks:      numTasks,
		NumProcessors: numProcessors,
		CommRate:      make([][]float64, numProcessors),
		Tasks:         make([]*types.Task, numTasks),
	}
	for p := 0; p < numProcessors; p++ {
		d.CommRate[p] = make([]float64, numProcessors)
	}
	for i := 0; i < numTasks; i++ {
		d.Tasks[i] = types.NewTask(i, numProcessors)
	}
	return d
}

func (d *DAG) AddEdge(from, to int, volume int64) {
	d.Tasks[from].AddSuccessor(to)
	d.Tasks[to].AddPredecessor(from)
	if volume > 0 {
		d.Tasks[from].SetVolume(to, volume)
	}
}

// CommCost is the data-transfer cost of the edge from→to when from runs on
// p1 and to on p2. Same-processor transfers are free.
func (d *DAG) CommCost(from, to, p1, p2 int) float64 {
	if p1 == p2 {
		return 0
	}
	return float64(d.Tasks[from].Volume(to)) * d.CommRate[p1][p2]
}

// Finalize computes every derived cache. It must be called exactly once,
// after all edges are in place, and fails if the graph is cyclic.
func (d *DAG) Finalize() error {
	topo, err := d.kahnOrder()
	if err != nil {
		return err
	}
	d.topoOrder = topo
	d.reachable = d.computeReachability()
	d.avgCommRate = d.computeAvgCommRate()
	d.upwardRanks = d.computeUpwardRanks()
	d.rankedTasks = orderByRankDesc(d.upwardRanks)
	d.oct = d.computeOCT()
	d.peftRanks = d.computePEFTRanks()
	d.peftOrder = orderByRankDesc(d.peftRanks)
	d.finalized = true
	return nil
}

// kahnOrder returns a topological order of the task ids. It emits the ready
// set level by level: the initial sources in id order, then each later level
// in the order its tasks became ready, so the order is deterministic.
func (d *DAG) kahnOrder() ([]int, error) {
	inDegree := make([]int, d.NumTasks)
	for _, t := range d.Tasks {
		inDegree[t.ID] = len(t.Predecessors)
	}

	degreeZero := make([]int, 0)
	for i := 0; i < d.NumTasks; i++ {
		if inDegree[i] == 0 {
			degreeZero = append(degreeZero, i)
		}
	}

	topo := make([]int, 0, d.NumTasks)
	for len(degreeZero) > 0 {
		newDegreeZero := make([]int, 0)
		for _, vid := range degreeZero {
			topo = append(topo, vid)
			for _, succ := range d.Tasks[vid].Successors {
				inDegree[succ]--
				if inDegree[succ] == 0 {
					newDegreeZero = append(newDegreeZero, succ)
				}
			}
		}
		degreeZero = newDegreeZero
	}

	if len(topo) != d.NumTasks {
		return nil, fmt.Errorf("%w: topological sort emitted %d of %d tasks",
			ErrCyclicDependency, len(topo), d.NumTasks)
	}
	return topo, nil
}

// computeReachability builds the transitive closure of the successor
// relation. Walking tasks in reverse topological order lets each task absorb
// the closure of its successors in one pass.
func (d *DAG) computeReachability() [][]bool {
	reach := make([][]bool, d.NumTasks)
	for i := range reach {
		reach[i] = make([]bool, d.NumTasks)
	}
	for i := d.NumTasks - 1; i >= 0; i-- {
		vid := d.topoOrder[i]
		for _, succ := range d.Tasks[vid].Successors {
			reach[vid][succ] = true
			for j := 0; j < d.NumTasks; j++ {
				if reach[succ][j] {
					reach[vid][j] = true
				}
			}
		}
	}
	return reach
}

func (d *DAG) computeAvgCommRate() float64 {
	total, pairs := 0.0, 0
	for p1 := 0; p1 < d.NumProcessors; p1++ {
		for p2 := 0; p2 < d.NumProcessors; p2++ {
			if p1 != p2 {
				total += d.CommRate[p1][p2]
				pairs++
			}
		}
	}
	if pairs == 0 {
		return 0
	}
	return total / float64(pairs)
}

// TopologicalOrder returns the cached order. The slice is shared; callers
// must not modify it.
func (d *DAG) TopologicalOrder() []int { return d.topoOrder }

// Reachable reports whether there is a path from i to j.
func (d *DAG) Reachable(i, j int) bool { return d.reachable[i][j] }

func (d *DAG) AvgCommRate() float64 { return d.avgCommRate }

func (d *DAG) String() string {
	return fmt.Sprintf("DAG{tasks=%d, processors=%d}", d.NumTasks, d.NumProcessors)
}
