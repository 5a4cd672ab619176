package schedule

import (
	"testing"

	"dagsched/graph"
	"dagsched/helper"
)

// diamond builds A(0) -> B(1), A -> C(2), B -> D(3), C -> D with uniform
// costs of 10 on two processors and no communication.
func diamond(t *testing.T) *graph.DAG {
	t.Helper()
	d := graph.NewDAG(4, 2)
	for _, task := range d.Tasks {
		task.Comp[0] = 10
		task.Comp[1] = 10
	}
	d.AddEdge(0, 1, 1)
	d.AddEdge(0, 2, 1)
	d.AddEdge(1, 3, 1)
	d.AddEdge(2, 3, 1)
	if err := d.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return d
}

func randomDAG(t *testing.T, seed int64) *graph.DAG {
	t.Helper()
	cfg := helper.DefaultGeneratorConfig()
	cfg.Seed = seed
	d, err := helper.Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return d
}

func TestEvaluateDiamond(t *testing.T) {
	t.Parallel()
	d := diamond(t)
	// B and C on different processors run in parallel
	s := NewWith(d, []int{0, 0, 1, 0}, []int{0, 1, 2, 3})
	if got := s.Evaluate(); got != 30 {
		t.Fatalf("makespan = %v, want 30", got)
	}

	// serializing everything on one processor costs a full extra slot
	serial := NewWith(d, []int{0, 0, 0, 0}, []int{0, 1, 2, 3})
	if got := serial.Evaluate(); got != 40 {
		t.Fatalf("serial makespan = %v, want 40", got)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	t.Parallel()
	d := randomDAG(t, 7)
	s := New(d)
	s.Order = append([]int(nil), d.TopologicalOrder()...)
	for i := range s.Assignment {
		s.Assignment[i] = i % d.NumProcessors
	}

	first := s.Evaluate()
	s.Invalidate()
	second := s.Evaluate()
	if first != second {
		t.Fatalf("re-evaluation changed makespan: %v vs %v", first, second)
	}

	clone := s.Clone()
	clone.Invalidate()
	if got := clone.Evaluate(); got != first {
		t.Fatalf("clone makespan = %v, want %v", got, first)
	}
}

func TestEvaluateEmptyOrderUsesRankedTasks(t *testing.T) {
	t.Parallel()
	d := diamond(t)
	s := New(d) // no order set
	s.Evaluate()
	if len(s.Order) != d.NumTasks {
		t.Fatalf("order not substituted, got %v", s.Order)
	}
	ranked := d.RankedTasks()
	for i := range ranked {
		if s.Order[i] != ranked[i] {
			t.Fatalf("order = %v, want ranked order %v", s.Order, ranked)
		}
	}
}

func TestCriticalPathDiamond(t *testing.T) {
	t.Parallel()
	d := diamond(t)
	s := NewWith(d, []int{0, 0, 1, 0}, []int{0, 1, 2, 3})
	s.Evaluate()
	path := s.CriticalPath()
	if len(path) != 3 {
		t.Fatalf("critical path = %v, want length 3", path)
	}
	if path[0] != 0 || path[len(path)-1] != 3 {
		t.Fatalf("critical path = %v, want source 0 and exit 3", path)
	}
}

func TestTimelineInvariants(t *testing.T) {
	t.Parallel()
	d := randomDAG(t, 11)
	s := New(d)
	s.Order = append([]int(nil), d.TopologicalOrder()...)
	for i := range s.Assignment {
		s.Assignment[i] = (i * 2) % d.NumProcessors
	}
	s.Evaluate()
	start, finish := s.Timeline()

	// every start respects data readiness
	for _, task := range d.Tasks {
		for _, pred := range task.Predecessors {
			ready := finish[pred] + d.CommCost(pred, task.ID, s.Assignment[pred], s.Assignment[task.ID])
			if start[task.ID] < ready-1e-9 {
				t.Errorf("task %d starts at %v before data ready %v", task.ID, start[task.ID], ready)
			}
		}
	}

	// no two tasks on one processor overlap
	for i := 0; i < d.NumTasks; i++ {
		for j := i + 1; j < d.NumTasks; j++ {
			if s.Assignment[i] != s.Assignment[j] {
				continue
			}
			if start[i] < finish[j]-1e-9 && start[j] < finish[i]-1e-9 {
				t.Errorf("tasks %d and %d overlap on processor %d", i, j, s.Assignment[i])
			}
		}
	}

	// the makespan is the latest finish
	maxFinish := 0.0
	for _, f := range finish {
		maxFinish = max(maxFinish, f)
	}
	if s.Makespan != maxFinish {
		t.Errorf("makespan %v != max finish %v", s.Makespan, maxFinish)
	}
}

func TestSingleProcessorSumsWork(t *testing.T) {
	t.Parallel()
	d := graph.NewDAG(4, 1)
	total := 0.0
	for i, task := range d.Tasks {
		task.Comp[0] = float64(i + 1)
		total += task.Comp[0]
	}
	d.AddEdge(0, 1, 5)
	d.AddEdge(1, 3, 5)
	if err := d.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	s := New(d)
	s.Order = append([]int(nil), d.TopologicalOrder()...)
	if got := s.Evaluate(); got != total {
		t.Fatalf("m=1 makespan = %v, want %v", got, total)
	}
}

func TestParallelChains(t *testing.T) {
	t.Parallel()
	// two independent chains; on separate processors the makespan is the
	// longer chain's length
	d := graph.NewDAG(4, 2)
	d.Tasks[0].Comp = []float64{10, 10}
	d.Tasks[1].Comp = []float64{10, 10}
	d.Tasks[2].Comp = []float64{5, 5}
	d.Tasks[3].Comp = []float64{5, 5}
	d.AddEdge(0, 1, 1)
	d.AddEdge(2, 3, 1)
	if err := d.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	s := NewWith(d, []int{0, 0, 1, 1}, []int{0, 2, 1, 3})
	if got := s.Evaluate(); got != 20 {
		t.Fatalf("makespan = %v, want the longer chain's 20", got)
	}
}

func TestCacheKeyDistinguishesStates(t *testing.T) {
	t.Parallel()
	d := diamond(t)
	a := NewWith(d, []int{0, 0, 1, 0}, []int{0, 1, 2, 3})
	b := NewWith(d, []int{0, 1, 0, 0}, []int{0, 1, 2, 3})
	if a.CacheKey() == b.CacheKey() {
		t.Fatal("different assignments share a cache key")
	}
	if a.CacheKey() != a.Clone().CacheKey() {
		t.Fatal("clone changed the cache key")
	}
}
