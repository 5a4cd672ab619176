package ga

import (
	"math/rand"

	"dagsched/graph"
	"dagsched/schedule"

	"github.com/alphadose/haxmap"
	"github.com/ledgerwatch/log/v3"
	"golang.org/x/exp/slices"
)

const tournamentSize = 5

// GA is one memetic population: tournament selection, combined
// crossover/mutation, elitism, stagnation-triggered exploration, and
// critical-path local search on promising children.
type GA struct {
	dag *graph.DAG
	cfg Config
	rng *rand.Rand

	crossover CrossoverStrategy
	mutation  MutationStrategy

	population []*schedule.Schedule
	best       *schedule.Schedule

	// fitnessCache may be shared by several islands running concurrently,
	// hence the concurrent map.
	fitnessCache *haxmap.Map[string, float64]

	stagnation  int
	exploration int
}

func New(d *graph.DAG, cfg Config) *GA {
	cfg = cfg.sanitize()
	return &GA{
		dag:          d,
		cfg:          cfg,
		rng:          rand.New(rand.NewSource(cfg.Seed)),
		crossover:    UniformCrossover{},
		mutation:     CombinedMutation{},
		fitnessCache: haxmap.New[string, float64](),
	}
}

// SetStrategies swaps the crossover/mutation operators; nil keeps the
// current one.
func (g *GA) SetStrategies(c CrossoverStrategy, m MutationStrategy) {
	if c != nil {
		g.crossover = c
	}
	if m != nil {
		g.mutation = m
	}
}

func (g *GA) shareCache(cache *haxmap.Map[string, float64]) {
	g.fitnessCache = cache
}

// InitPopulation seeds the population with the PEFT schedule plus random
// assignments that all reuse the PEFT order, so crossover never has to
// repair ordering.
func (g *GA) InitPopulation() {
	g.population = g.population[:0]
	peft := schedule.NewPEFT(g.dag)
	g.evaluate(peft)
	g.population = append(g.population, peft)
	g.best = peft.Clone()

	for len(g.population) < g.cfg.PopulationSize {
		s := schedule.New(g.dag)
		s.RandomInit(g.rng)
		s.Order = append([]int(nil), peft.Order...)
		g.evaluate(s)
		g.population = append(g.population, s)
		if s.Makespan < g.best.Makespan {
			g.best = s.Clone()
		}
	}
}

// Run evolves for the configured number of generations and returns the
// best schedule plus the per-generation incumbent makespans.
func (g *GA) Run() (*schedule.Schedule, []float64) {
	g.InitPopulation()
	series := make([]float64, 0, g.cfg.Generations)
	for i := 0; i < g.cfg.Generations; i++ {
		g.EvolveOnce()
		series = append(series, g.best.Makespan)
		log.Debug("ga generation", "gen", i, "best", g.best.Makespan,
			"stagnation", g.stagnation, "exploring", g.exploration)
	}
	log.Info("ga run finished", "best", g.best.Makespan)
	return g.best, series
}

// EvolveOnce runs a single generation. The island model calls this in
// lockstep with its siblings.
func (g *GA) EvolveOnce() {
	newPopulation := make([]*schedule.Schedule, 0, g.cfg.PopulationSize)
	newPopulation = append(newPopulation, g.best.Clone())

	g.updateStagnationAndExploration()

	mutationRate := g.cfg.MutationRate
	localSearchRate := g.cfg.LocalSearchRate
	if g.exploration > 0 {
		mutationRate = min(1.0, mutationRate*5)
		localSearchRate = localSearchRate / 5
	}

	for len(newPopulation) < g.cfg.PopulationSize {
		parent1 := g.selectParent()
		parent2 := g.selectParent()
		child := g.crossover.Crossover(parent1, parent2, g.dag, g.rng)
		g.mutation.Mutate(child, mutationRate, g.dag, g.rng)
		g.evaluate(child)

		refine := false
		if g.exploration > 0 {
			// exploration trades refinement depth for breadth
			refine = g.rng.Float64() < localSearchRate
		} else if g.rng.Float64() < localSearchRate &&
			(child.Makespan < parent1.Makespan || child.Makespan < parent2.Makespan) {
			refine = true
		}
		if refine {
			child.CriticalPathLocalSearch()
			g.evaluate(child)
		}

		newPopulation = append(newPopulation, child)
	}

	g.population = newPopulation
	g.refreshBest()
}

func (g *GA) updateStagnationAndExploration() {
	if g.exploration > 0 {
		g.exploration--
		return
	}
	if g.stagnation >= g.cfg.StagnationLimit {
		log.Info("ga stagnated, entering exploration mode",
			"best", g.best.Makespan, "duration", g.cfg.ExplorationDuration)
		g.exploration = g.cfg.ExplorationDuration
		g.stagnation = 0
	}
}

func (g *GA) refreshBest() {
	found := false
	for _, s := range g.population {
		if s.Makespan < g.best.Makespan {
			g.best = s.Clone()
			found = true
		}
	}
	if found {
		g.stagnation = 0
		if g.exploration > 0 {
			// a new best ends exploration immediately
			g.exploration = 0
		}
	} else {
		g.stagnation++
	}
}

func (g *GA) selectParent() *schedule.Schedule {
	var best *schedule.Schedule
	for i := 0; i < tournamentSize; i++ {
		s := g.population[g.rng.Intn(len(g.population))]
		if best == nil || s.Makespan < best.Makespan {
			best = s
		}
	}
	return best
}

// evaluate is the single fitness entry point; results are memoized by the
// schedule's cache key.
func (g *GA) evaluate(s *schedule.Schedule) float64 {
	key := s.CacheKey()
	if m, ok := g.fitnessCache.Get(key); ok {
		s.SetMakespan(m)
		return m
	}
	s.Invalidate()
	m := s.Evaluate()
	g.fitnessCache.Set(key, m)
	return m
}

// Best returns the incumbent schedule.
func (g *GA) Best() *schedule.Schedule { return g.best }

// IsStagnating reports whether the island should request migrants.
func (g *GA) IsStagnating() bool { return g.stagnation >= g.cfg.StagnationLimit }

// BestSchedules clones the top count schedules of the population.
func (g *GA) BestSchedules(count int) []*schedule.Schedule {
	sorted := append([]*schedule.Schedule(nil), g.population...)
	slices.SortStableFunc(sorted, func(a, b *schedule.Schedule) int {
		switch {
		case a.Makespan < b.Makespan:
			return -1
		case a.Makespan > b.Makespan:
			return 1
		default:
			return 0
		}
	})
	if count > len(sorted) {
		count = len(sorted)
	}
	out := make([]*schedule.Schedule, 0, count)
	for _, s := range sorted[:count] {
		out = append(out, s.Clone())
	}
	return out
}

// ReceiveMigrants overwrites the worst schedules with the migrants and
// resets the stagnation and exploration state. Migration is the only way
// state enters an island from outside; it happens between generations, so
// the island never shares mutable state with its siblings mid-flight.
func (g *GA) ReceiveMigrants(migrants []*schedule.Schedule) {
	if len(migrants) == 0 {
		return
	}
	slices.SortStableFunc(g.population, func(a, b *schedule.Schedule) int {
		switch {
		case a.Makespan > b.Makespan: // worst first
			return -1
		case a.Makespan < b.Makespan:
			return 1
		default:
			return 0
		}
	})
	for i := 0; i < len(migrants) && i < len(g.population); i++ {
		g.population[i] = migrants[i].Clone()
	}
	g.stagnation = 0
	g.exploration = 0
	g.refreshBest()
}
