// Package helper builds synthetic workloads for tests and benchmarks.
package helper

import (
	"math/rand"

	"dagsched/graph"
)

// GeneratorConfig shapes a layered random DAG. Tasks are spread over
// Layers levels; edges only go from a layer to a later one, so the result
// is acyclic by construction.
type GeneratorConfig struct {
	NumTasks      int
	NumProcessors int
	Layers        int
	EdgeDensity   float64 // chance of an edge between tasks in adjacent layers
	MinComp       float64
	MaxComp       float64
	Heterogeneity float64 // per-processor cost spread around the base cost, in [0,1)
	MaxVolume     int64
	MaxCommRate   float64
	Seed          int64
}

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		NumTasks:      20,
		NumProcessors: 3,
		Layers:        5,
		EdgeDensity:   0.4,
		MinComp:       5,
		MaxComp:       50,
		Heterogeneity: 0.5,
		MaxVolume:     100,
		MaxCommRate:   0.5,
		Seed:          1,
	}
}

// Generate builds a random layered DAG. The same config always yields the
// same graph.
func Generate(cfg GeneratorConfig) (*graph.DAG, error) {
	def := DefaultGeneratorConfig()
	if cfg.NumTasks <= 0 {
		cfg.NumTasks = def.NumTasks
	}
	if cfg.NumProcessors <= 0 {
		cfg.NumProcessors = def.NumProcessors
	}
	if cfg.Layers <= 0 {
		cfg.Layers = def.Layers
	}
	if cfg.Layers > cfg.NumTasks {
		cfg.Layers = cfg.NumTasks
	}
	if cfg.MaxComp <= cfg.MinComp {
		cfg.MinComp, cfg.MaxComp = def.MinComp, def.MaxComp
	}
	if cfg.MaxVolume <= 0 {
		cfg.MaxVolume = def.MaxVolume
	}
	if cfg.MaxCommRate < 0 {
		cfg.MaxCommRate = def.MaxCommRate
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	d := graph.NewDAG(cfg.NumTasks, cfg.NumProcessors)
	for p1 := 0; p1 < cfg.NumProcessors; p1++ {
		for p2 := 0; p2 < cfg.NumProcessors; p2++ {
			if p1 != p2 {
				d.CommRate[p1][p2] = rng.Float64() * cfg.MaxCommRate
			}
		}
	}

	for t := 0; t < cfg.NumTasks; t++ {
		base := cfg.MinComp + rng.Float64()*(cfg.MaxComp-cfg.MinComp)
		for p := 0; p < cfg.NumProcessors; p++ {
			spread := 1 + cfg.Heterogeneity*(2*rng.Float64()-1)
			d.Tasks[t].Comp[p] = base * spread
		}
	}

	// split task ids into contiguous blocks, one per layer, then wire
	// adjacent layers
	layers := make([][]int, cfg.Layers)
	for t := 0; t < cfg.NumTasks; t++ {
		l := t * cfg.Layers / cfg.NumTasks
		layers[l] = append(layers[l], t)
	}

	for l := 0; l+1 < cfg.Layers; l++ {
		for _, from := range layers[l] {
			wired := false
			for _, to := range layers[l+1] {
				if rng.Float64() < cfg.EdgeDensity {
					d.AddEdge(from, to, 1+rng.Int63n(cfg.MaxVolume))
					wired = true
				}
			}
			// keep every non-final task connected forward
			if !wired {
				to := layers[l+1][rng.Intn(len(layers[l+1]))]
				d.AddEdge(from, to, 1+rng.Int63n(cfg.MaxVolume))
			}
		}
	}

	if err := d.Finalize(); err != nil {
		return nil, err
	}
	return d, nil
}
