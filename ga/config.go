package ga

// Config tunes one memetic GA population.
type Config struct {
	PopulationSize  int
	Generations     int
	MutationRate    float64
	LocalSearchRate float64

	StagnationLimit     int // generations without a new best before exploration
	ExplorationDuration int // generations spent in exploration mode

	Seed int64
}

func DefaultConfig() Config {
	return Config{
		PopulationSize:      50,
		Generations:         200,
		MutationRate:        0.1,
		LocalSearchRate:     0.3,
		StagnationLimit:     30,
		ExplorationDuration: 15,
		Seed:                42,
	}
}

func (c Config) sanitize() Config {
	def := DefaultConfig()
	if c.PopulationSize <= 1 {
		c.PopulationSize = def.PopulationSize
	}
	if c.Generations <= 0 {
		c.Generations = def.Generations
	}
	if c.MutationRate <= 0 {
		c.MutationRate = def.MutationRate
	}
	if c.LocalSearchRate <= 0 {
		c.LocalSearchRate = def.LocalSearchRate
	}
	if c.StagnationLimit <= 0 {
		c.StagnationLimit = def.StagnationLimit
	}
	if c.ExplorationDuration <= 0 {
		c.ExplorationDuration = def.ExplorationDuration
	}
	return c
}

// IslandConfig tunes the island model wrapped around several GAs.
type IslandConfig struct {
	NumIslands          int
	TotalGenerations    int
	MigrationSize       int
	PopulationPerIsland int
	MutationRate        float64
	LocalSearchRate     float64
	Seed                int64
}

func DefaultIslandConfig() IslandConfig {
	return IslandConfig{
		NumIslands:          4,
		TotalGenerations:    200,
		MigrationSize:       3,
		PopulationPerIsland: 30,
		MutationRate:        0.1,
		LocalSearchRate:     0.3,
		Seed:                42,
	}
}

func (c IslandConfig) sanitize() IslandConfig {
	def := DefaultIslandConfig()
	if c.NumIslands <= 0 {
		c.NumIslands = def.NumIslands
	}
	if c.TotalGenerations <= 0 {
		c.TotalGenerations = def.TotalGenerations
	}
	if c.MigrationSize <= 0 {
		c.MigrationSize = def.MigrationSize
	}
	if c.PopulationPerIsland <= 1 {
		c.PopulationPerIsland = def.PopulationPerIsland
	}
	if c.MutationRate <= 0 {
		c.MutationRate = def.MutationRate
	}
	if c.LocalSearchRate <= 0 {
		c.LocalSearchRate = def.LocalSearchRate
	}
	return c
}
