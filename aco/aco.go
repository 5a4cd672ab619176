package aco

import (
	"math"
	"math/rand"
	"sync"

	"dagsched/graph"
	"dagsched/schedule"

	"github.com/ledgerwatch/log/v3"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
)

// Colony is one MMAS-AS_rank run over a DAG. Pheromone lives for the run;
// the DAG and its caches are shared and read-only.
type Colony struct {
	dag *graph.DAG
	cfg Config

	tau    [][]float64
	tauMax float64
	tauMin float64

	ants []*ant
	rng  *rand.Rand // master RNG; per-ant seeds are drawn from it

	best        *schedule.Schedule
	q0          float64
	stagnation  int
	convergence int
	lastBest    float64
	injection   *schedule.Schedule // pending hard-stagnation restart mutant

	convergenceSeries []float64
}

func New(d *graph.DAG, cfg Config) *Colony {
	cfg = cfg.sanitize()
	c := &Colony{
		dag:      d,
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		q0:       cfg.Q0,
		lastBest: math.MaxFloat64,
	}
	c.tau = make([][]float64, d.NumTasks)
	for i := range c.tau {
		c.tau[i] = make([]float64, d.NumProcessors)
	}
	c.ants = make([]*ant, cfg.NumAnts)
	for i := range c.ants {
		c.ants[i] = newAnt(d)
	}
	return c
}

// Run executes the configured number of generations and returns the best
// schedule found together with the per-generation incumbent makespans.
// Errors are ErrConstructionStuck, which indicates a broken DAG, and any
// error from creating the ant pool or submitting work to it.
func (c *Colony) Run() (*schedule.Schedule, []float64, error) {
	// The PEFT makespan only scales tau_max; it is not an incumbent.
	initial := schedule.NewPEFT(c.dag)
	c.tauMax = 1.0 / (c.cfg.Rho * initial.Makespan)
	pBest := math.Pow(1.0/float64(c.dag.NumTasks), 1.0/float64(c.dag.NumTasks))
	denominator := (float64(c.dag.NumTasks)/2.0 - 1.0) * pBest
	if denominator <= 0 {
		// tiny instances degenerate; keep the band open but sane
		c.tauMin = c.tauMax / 2
	} else {
		c.tauMin = c.tauMax * (1.0 - pBest) / denominator
	}
	if c.tauMin > c.tauMax {
		c.tauMin = c.tauMax
	}
	c.resetPheromones()

	log.Info("aco run starting", "tasks", c.dag.NumTasks, "processors", c.dag.NumProcessors,
		"ants", c.cfg.NumAnts, "generations", c.cfg.Generations,
		"tauMax", c.tauMax, "tauMin", c.tauMin, "peft", initial.Makespan)

	pool, err := ants.NewPool(c.cfg.Parallelism)
	if err != nil {
		return nil, nil, err
	}
	defer pool.Release()

	for gen := 0; gen < c.cfg.Generations; gen++ {
		if err := c.constructGeneration(pool); err != nil {
			return nil, nil, err
		}

		sorted := c.sortedAnts()
		if c.injection != nil {
			// the restart mutant overwrites the worst ant of this generation
			worst := sorted[len(sorted)-1]
			worst.schedule = c.injection
			c.injection = nil
			sorted = c.sortedAnts()
		}
		iterBest := sorted[0].schedule

		improved := false
		if c.best == nil || iterBest.Makespan < c.best.Makespan {
			refined := iterBest.Clone()
			refined.CriticalPathLocalSearch()
			c.best = refined
			improved = true
		}

		c.updatePheromones(sorted, gen)
		c.adapt(improved, sorted)

		c.convergenceSeries = append(c.convergenceSeries, c.best.Makespan)
		log.Debug("aco generation", "gen", gen, "iterBest", iterBest.Makespan,
			"best", c.best.Makespan, "stagnation", c.stagnation, "q0", c.q0)

		if c.convergence >= c.cfg.ConvergenceLimit {
			log.Info("aco converged early", "gen", gen, "best", c.best.Makespan)
			break
		}
	}

	log.Info("aco run finished", "best", c.best.Makespan)
	return c.best, c.convergenceSeries, nil
}

func (c *Colony) resetPheromones() {
	for i := range c.tau {
		for j := range c.tau[i] {
			c.tau[i][j] = c.tauMax
		}
	}
}

// constructGeneration fans the ants out on the pool. Seeds are drawn from
// the master RNG before submission, so the result is independent of
// goroutine interleaving.
func (c *Colony) constructGeneration(pool *ants.Pool) error {
	seeds := make([]int64, len(c.ants))
	for i := range seeds {
		seeds[i] = c.rng.Int63()
	}

	var wg sync.WaitGroup
	errs := make([]error, len(c.ants))
	for i := range c.ants {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			a := c.ants[i]
			a.reset(seeds[i])
			errs[i] = a.construct(c.tau, c.cfg.Alpha, c.cfg.Beta, c.q0)
		}); err != nil {
			wg.Done()
			return err
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// sortedAnts orders the colony by constructed makespan, stable on the ant
// index so a fixed seed yields a fixed ranking.
func (c *Colony) sortedAnts() []*ant {
	sorted := append([]*ant(nil), c.ants...)
	slices.SortStableFunc(sorted, func(a, b *ant) int {
		switch {
		case a.schedule.Makespan < b.schedule.Makespan:
			return -1
		case a.schedule.Makespan > b.schedule.Makespan:
			return 1
		default:
			return 0
		}
	})
	return sorted
}

// updatePheromones applies evaporation, the AS_rank deposits of the top K
// ants, the decaying elitist deposit of the incumbent, the MMAS clamp, and
// optional smoothing.
func (c *Colony) updatePheromones(sorted []*ant, gen int) {
	evap := 1.0 - c.cfg.Rho
	for i := range c.tau {
		row := c.tau[i]
		for j := range row {
			row[j] *= evap
		}
	}

	ranked := c.cfg.RankedAnts
	for k := 0; k < ranked && k < len(sorted); k++ {
		s := sorted[k].schedule
		contribution := float64(ranked-k+1) / s.Makespan
		for t, p := range s.Assignment {
			c.tau[t][p] += contribution
		}
	}

	if c.best != nil {
		decay := 1.0 - float64(gen)/float64(c.cfg.Generations)
		contribution := c.cfg.ElitistWeight * (1.0 / c.best.Makespan) * decay
		for t, p := range c.best.Assignment {
			c.tau[t][p] += contribution
		}
	}

	for i := range c.tau {
		row := c.tau[i]
		for j := range row {
			if row[j] > c.tauMax {
				row[j] = c.tauMax
			} else if row[j] < c.tauMin {
				row[j] = c.tauMin
			}
		}
	}

	if s := c.cfg.Smoothing; s > 0 {
		mean := 0.0
		cells := 0
		for i := range c.tau {
			for j := range c.tau[i] {
				mean += c.tau[i][j]
				cells++
			}
		}
		mean /= float64(cells)
		for i := range c.tau {
			for j := range c.tau[i] {
				c.tau[i][j] = (1.0-s)*c.tau[i][j] + s*mean
			}
		}
	}
}

// adapt drives the q0 schedule, the convergence counter, and the two
// stagnation levels.
func (c *Colony) adapt(improved bool, sorted []*ant) {
	if improved {
		c.stagnation = 0
		if c.q0 < c.cfg.Q0 {
			c.q0 = c.cfg.Q0
		} else {
			c.q0 = min(0.98, c.q0/0.95)
		}
	} else {
		c.stagnation++
	}

	if math.Abs(c.best.Makespan-c.lastBest) < c.cfg.ConvergenceTolerance {
		c.convergence++
	} else {
		c.convergence = 0
		c.lastBest = c.best.Makespan
	}

	if c.stagnation >= c.cfg.HardStagnationLimit {
		mutant := c.best.Clone()
		c.mutateAssignment(mutant, 0.05)
		mutant.Invalidate()
		mutant.Evaluate()
		c.injection = mutant
		c.stagnation = 0
		c.convergence = 0
		c.q0 = c.cfg.Q0
		log.Info("aco hard stagnation, injecting mutated incumbent", "makespan", mutant.Makespan)
		return
	}

	if c.stagnation > 0 && c.stagnation%c.cfg.SoftStagnationLimit == 0 {
		c.q0 = max(0.3, c.q0*0.9)
		if d := c.diversity(sorted); d < c.cfg.MinDiversity {
			c.shakePheromones()
			log.Info("aco low diversity, shaking pheromones", "diversity", d, "q0", c.q0)
		}
	}
}

// diversity is the normalized standard deviation of the colony makespans.
func (c *Colony) diversity(sorted []*ant) float64 {
	if len(sorted) <= 1 {
		return 1.0
	}
	makespans := make([]float64, len(sorted))
	for i, a := range sorted {
		makespans[i] = a.schedule.Makespan
	}
	mean := stat.Mean(makespans, nil)
	if mean == 0 {
		return 0
	}
	return stat.StdDev(makespans, nil) / mean
}

// shakePheromones re-randomizes 30% of the matrix inside the MMAS band.
func (c *Colony) shakePheromones() {
	for i := range c.tau {
		for j := range c.tau[i] {
			if c.rng.Float64() < 0.3 {
				c.tau[i][j] = c.tauMin + c.rng.Float64()*(c.tauMax-c.tauMin)
			}
		}
	}
}

func (c *Colony) mutateAssignment(s *schedule.Schedule, rate float64) {
	for i := range s.Assignment {
		if c.rng.Float64() < rate {
			s.Assignment[i] = c.rng.Intn(c.dag.NumProcessors)
		}
	}
}

// Pheromone exposes the matrix for bounds tests.
func (c *Colony) Pheromone() [][]float64 { return c.tau }

// Bounds returns the current MMAS clamp band.
func (c *Colony) Bounds() (tauMin, tauMax float64) { return c.tauMin, c.tauMax }
