package schedule

import (
	"fmt"
	"math/rand"
	"strings"

	"dagsched/graph"
)

// Schedule is one candidate solution: a processor assignment plus an
// execution order over the task ids. The order must be a topological order
// of the DAG; evaluation is undefined otherwise.
type Schedule struct {
	dag        *graph.DAG
	Assignment []int
	Order      []int
	Makespan   float64

	// links[t] is the predecessor that dictated t's actual start time:
	// either a data predecessor or the previous task on t's processor.
	// links[n] holds the exit task, -1 marks "no predecessor".
	links     []int
	evaluated bool
}

func New(dag *graph.DAG) *Schedule {
	return &Schedule{
		dag:        dag,
		Assignment: make([]int, dag.NumTasks),
		links:      make([]int, dag.NumTasks+1),
	}
}

func NewWith(dag *graph.DAG, assignment, order []int) *Schedule {
	s := New(dag)
	copy(s.Assignment, assignment)
	s.Order = append([]int(nil), order...)
	return s
}

func (s *Schedule) DAG() *graph.DAG { return s.dag }

// RandomInit draws every gene uniformly from the processor range.
func (s *Schedule) RandomInit(rng *rand.Rand) {
	for i := range s.Assignment {
		s.Assignment[i] = rng.Intn(s.dag.NumProcessors)
	}
	s.evaluated = false
}

// Invalidate must be called after any in-place change to the assignment or
// order so the next Evaluate recomputes.
func (s *Schedule) Invalidate() { s.evaluated = false }

// Evaluate walks the order and computes the makespan, recording for every
// task the link that dictated its start. Ties between processor readiness
// and data readiness break toward the processor link. Deterministic: the
// same (assignment, order) always yields the same makespan bit-for-bit.
func (s *Schedule) Evaluate() float64 {
	if s.evaluated {
		return s.Makespan
	}
	d := s.dag
	if len(s.Order) == 0 {
		s.Order = append([]int(nil), d.RankedTasks()...)
	}

	finish := make([]float64, d.NumTasks)
	procReady := make([]float64, d.NumProcessors)
	lastOn := make([]int, d.NumProcessors)
	for p := range lastOn {
		lastOn[p] = -1
	}
	for i := range s.links {
		s.links[i] = -1
	}

	for _, t := range s.Order {
		p := s.Assignment[t]

		maxData := 0.0
		dataCritPred := -1
		for _, pred := range d.Tasks[t].Predecessors {
			ready := finish[pred] + d.CommCost(pred, t, s.Assignment[pred], p)
			if ready > maxData {
				maxData = ready
				dataCritPred = pred
			}
		}

		var start float64
		if procReady[p] >= maxData {
			start = procReady[p]
			s.links[t] = lastOn[p]
		} else {
			start = maxData
			s.links[t] = dataCritPred
		}

		finish[t] = start + d.Tasks[t].Comp[p]
		procReady[p] = finish[t]
		lastOn[p] = t
	}

	s.Makespan = 0
	exit := -1
	for t := 0; t < d.NumTasks; t++ {
		if finish[t] > s.Makespan {
			s.Makespan = finish[t]
			exit = t
		}
	}
	s.links[d.NumTasks] = exit
	s.evaluated = true
	return s.Makespan
}

// CriticalPath traces the link table from the exit task back to a source
// and returns the chain in execution order.
func (s *Schedule) CriticalPath() []int {
	s.Evaluate()
	path := make([]int, 0)
	for t := s.links[s.dag.NumTasks]; t != -1; t = s.links[t] {
		path = append(path, t)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Timeline recomputes per-task start and finish times for the current
// (assignment, order). Used for reporting and invariant checks.
func (s *Schedule) Timeline() (start, finish []float64) {
	d := s.dag
	s.Evaluate()
	start = make([]float64, d.NumTasks)
	finish = make([]float64, d.NumTasks)
	procReady := make([]float64, d.NumProcessors)
	for _, t := range s.Order {
		p := s.Assignment[t]
		maxData := 0.0
		for _, pred := range d.Tasks[t].Predecessors {
			maxData = max(maxData, finish[pred]+d.CommCost(pred, t, s.Assignment[pred], p))
		}
		start[t] = max(procReady[p], maxData)
		finish[t] = start[t] + d.Tasks[t].Comp[p]
		procReady[p] = finish[t]
	}
	return start, finish
}

// Clone deep-copies the schedule. The DAG is shared; it is read-only.
func (s *Schedule) Clone() *Schedule {
	c := &Schedule{
		dag:        s.dag,
		Assignment: append([]int(nil), s.Assignment...),
		Order:      append([]int(nil), s.Order...),
		Makespan:   s.Makespan,
		links:      append([]int(nil), s.links...),
		evaluated:  s.evaluated,
	}
	return c
}

// CacheKey identifies the logical state of the schedule for fitness
// caching. Two schedules with equal keys evaluate to the same makespan.
func (s *Schedule) CacheKey() string {
	var b strings.Builder
	b.Grow(4 * (len(s.Assignment) + len(s.Order)))
	for _, p := range s.Assignment {
		fmt.Fprintf(&b, "%d,", p)
	}
	b.WriteByte(':')
	for _, t := range s.Order {
		fmt.Fprintf(&b, "%d,", t)
	}
	return b.String()
}

// SetMakespan restores an evaluation result, e.g. from the fitness cache.
// The critical-link table is not restored; callers that need the critical
// path afterwards must Invalidate first.
func (s *Schedule) SetMakespan(m float64) {
	s.Makespan = m
	s.evaluated = true
}

// Evaluated reports whether the stored makespan is current.
func (s *Schedule) Evaluated() bool { return s.evaluated }
