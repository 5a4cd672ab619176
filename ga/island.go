package ga

import (
	"math/rand"

	"dagsched/graph"
	"dagsched/schedule"

	"github.com/alphadose/haxmap"
	"github.com/ledgerwatch/log/v3"
	"golang.org/x/sync/errgroup"
)

// IslandModel evolves several GA populations in lockstep. Migration is on
// demand: a stagnating island pulls elites from the current best island,
// together with one path-relinking product between the two incumbents.
type IslandModel struct {
	dag     *graph.DAG
	cfg     IslandConfig
	islands []*GA
	rng     *rand.Rand // drives path-relinking shuffles, used only at barriers
}

func NewIslandModel(d *graph.DAG, cfg IslandConfig) *IslandModel {
	cfg = cfg.sanitize()
	m := &IslandModel{
		dag: d,
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}

	// islands share one fitness cache; it is a concurrent map
	cache := haxmap.New[string, float64]()
	for i := 0; i < cfg.NumIslands; i++ {
		island := New(d, Config{
			PopulationSize:  cfg.PopulationPerIsland,
			Generations:     cfg.TotalGenerations,
			MutationRate:    cfg.MutationRate,
			LocalSearchRate: cfg.LocalSearchRate,
			Seed:            cfg.Seed + int64(i)*7919,
		})
		island.shareCache(cache)
		m.islands = append(m.islands, island)
	}
	return m
}

// Run evolves all islands for the configured number of generations and
// returns the overall best schedule.
func (m *IslandModel) Run() *schedule.Schedule {
	log.Info("island model starting", "islands", m.cfg.NumIslands,
		"generations", m.cfg.TotalGenerations, "migration", m.cfg.MigrationSize)

	for _, island := range m.islands {
		island.InitPopulation()
	}

	for gen := 0; gen < m.cfg.TotalGenerations; gen++ {
		// islands evolve independently between migration points
		var eg errgroup.Group
		for _, island := range m.islands {
			island := island
			eg.Go(func() error {
				island.EvolveOnce()
				return nil
			})
		}
		_ = eg.Wait()

		m.migrate(gen)
	}

	best := m.bestOverall()
	log.Info("island model finished", "best", best.Makespan)
	return best
}

// migrate runs at the generation barrier. Every stagnating island receives
// the best island's elites plus a path-relinking migrant, replacing its
// worst schedules and resetting its counters.
func (m *IslandModel) migrate(gen int) {
	bestIsland := m.islands[0]
	for _, island := range m.islands[1:] {
		if island.Best().Makespan < bestIsland.Best().Makespan {
			bestIsland = island
		}
	}

	for _, island := range m.islands {
		if island == bestIsland || !island.IsStagnating() {
			continue
		}
		source := island.Best()
		guide := bestIsland.Best()
		relinked := PathRelink(source, guide, m.rng)
		log.Info("island migration", "gen", gen,
			"stagnant", source.Makespan, "guide", guide.Makespan, "relinked", relinked.Makespan)

		migrants := bestIsland.BestSchedules(m.cfg.MigrationSize)
		migrants = append(migrants, relinked)
		island.ReceiveMigrants(migrants)
	}
}

func (m *IslandModel) bestOverall() *schedule.Schedule {
	best := m.islands[0].Best()
	for _, island := range m.islands[1:] {
		if island.Best().Makespan < best.Makespan {
			best = island.Best()
		}
	}
	return best.Clone()
}

// Islands exposes the underlying populations, mainly for tests.
func (m *IslandModel) Islands() []*GA { return m.islands }
