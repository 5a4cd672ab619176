package aco

import (
	"errors"
	"math"
	"math/rand"

	"dagsched/graph"
	"dagsched/schedule"
)

var ErrConstructionStuck = errors.New("ant found no ready task before placing all tasks")

// epsEFT guards the 1/EFT heuristic against a zero earliest finish time.
const epsEFT = 1e-4

// candidate is one (task, processor) move under consideration. Candidates
// live in a pool owned by the ant, cleared by resetting the length.
type candidate struct {
	task         int
	proc         int
	desirability float64
}

// ant owns all per-construction state so that a colony can build solutions
// concurrently against a shared read-only pheromone matrix.
type ant struct {
	dag *graph.DAG
	rng *rand.Rand

	schedule   *schedule.Schedule
	candidates []candidate // reused across steps and generations
	ready      []int
	inDegree   []int
	finish     []float64
	procReady  []float64
}

func newAnt(d *graph.DAG) *ant {
	return &ant{
		dag:        d,
		candidates: make([]candidate, 0, d.NumTasks*d.NumProcessors),
		ready:      make([]int, 0, d.NumTasks),
		inDegree:   make([]int, d.NumTasks),
		finish:     make([]float64, d.NumTasks),
		procReady:  make([]float64, d.NumProcessors),
	}
}

func (a *ant) reset(seed int64) {
	a.rng = rand.New(rand.NewSource(seed))
	a.ready = a.ready[:0]
	for i := range a.finish {
		a.finish[i] = 0
	}
	for p := range a.procReady {
		a.procReady[p] = 0
	}
	for _, t := range a.dag.Tasks {
		a.inDegree[t.ID] = len(t.Predecessors)
		if a.inDegree[t.ID] == 0 {
			a.ready = append(a.ready, t.ID)
		}
	}
}

// construct builds one full solution under the given pheromone matrix and
// exploitation bias. Precedence is honored by construction: only ready
// tasks are ever candidates.
func (a *ant) construct(tau [][]float64, alpha, beta, q0 float64) error {
	d := a.dag
	s := schedule.New(d)
	order := make([]int, 0, d.NumTasks)

	for len(order) < d.NumTasks {
		if len(a.ready) == 0 {
			return ErrConstructionStuck
		}

		task, proc := a.selectMove(tau, alpha, beta, q0, s.Assignment)

		// commit
		s.Assignment[task] = proc
		startEST := a.est(task, proc, s.Assignment)
		a.finish[task] = startEST + d.Tasks[task].Comp[proc]
		a.procReady[proc] = a.finish[task]
		order = append(order, task)
		a.removeReady(task)
		for _, succ := range d.Tasks[task].Successors {
			a.inDegree[succ]--
			if a.inDegree[succ] == 0 {
				a.ready = append(a.ready, succ)
			}
		}
	}

	s.Order = order
	s.Evaluate()
	a.schedule = s
	return nil
}

// selectMove scores every (ready task, processor) pair and picks either the
// arg-max (with probability q0) or a roulette draw. Desirability combines
// the pheromone with an EFT-and-upward-rank heuristic.
func (a *ant) selectMove(tau [][]float64, alpha, beta, q0 float64, assignment []int) (int, int) {
	d := a.dag
	a.candidates = a.candidates[:0]
	total := 0.0

	for _, task := range a.ready {
		u := d.UpwardRank(task)
		for p := 0; p < d.NumProcessors; p++ {
			eft := a.est(task, p, assignment) + d.Tasks[task].Comp[p]
			if eft < epsEFT {
				eft = epsEFT
			}
			desirability := math.Pow(tau[task][p], alpha) * math.Pow(u/eft, beta)
			if !(desirability > 0) || math.IsInf(desirability, 0) {
				// non-finite or zero scores are locally absorbed
				desirability = 0
			}
			a.candidates = append(a.candidates, candidate{task: task, proc: p, desirability: desirability})
			total += desirability
		}
	}

	if total == 0 || math.IsInf(total, 0) {
		c := a.candidates[a.rng.Intn(len(a.candidates))]
		return c.task, c.proc
	}

	if a.rng.Float64() < q0 {
		// exploitation: arg-max, ties to the lower task id then the lower
		// processor id so a fixed seed stays reproducible
		best := a.candidates[0]
		for _, c := range a.candidates[1:] {
			if c.desirability > best.desirability ||
				(c.desirability == best.desirability &&
					(c.task < best.task || (c.task == best.task && c.proc < best.proc))) {
				best = c
			}
		}
		return best.task, best.proc
	}

	roll := a.rng.Float64() * total
	cumulative := 0.0
	for _, c := range a.candidates {
		cumulative += c.desirability
		if roll <= cumulative {
			return c.task, c.proc
		}
	}
	c := a.candidates[len(a.candidates)-1]
	return c.task, c.proc
}

func (a *ant) est(task, proc int, assignment []int) float64 {
	d := a.dag
	dataReady := 0.0
	for _, pred := range d.Tasks[task].Predecessors {
		ready := a.finish[pred] + d.CommCost(pred, task, assignment[pred], proc)
		dataReady = max(dataReady, ready)
	}
	return max(a.procReady[proc], dataReady)
}

func (a *ant) removeReady(task int) {
	for i, t := range a.ready {
		if t == task {
			a.ready = append(a.ready[:i], a.ready[i+1:]...)
			return
		}
	}
}
