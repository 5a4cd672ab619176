package aco

// Config carries every MMAS tuning knob. The original experiments ran
// several tunings, so nothing here is a constant; zero values fall back to
// the defaults below via sanitize.
type Config struct {
	NumAnts     int
	Generations int

	Alpha float64 // pheromone exponent
	Beta  float64 // heuristic exponent
	Rho   float64 // evaporation rate
	Q0    float64 // initial exploitation bias

	ElitistWeight float64 // weight of the global-best deposit
	RankedAnts    int     // K, how many top ants deposit per generation
	Smoothing     float64 // pheromone smoothing factor in [0, 1], 0 disables

	SoftStagnationLimit  int     // generations without improvement before q0 decay
	HardStagnationLimit  int     // generations before the mutation restart
	ConvergenceLimit     int     // stable generations before early stop
	ConvergenceTolerance float64 // makespan delta considered "unchanged"
	MinDiversity         float64 // normalized stdev below which pheromone is shaken

	Parallelism int // ant-construction pool size, 0 means NumAnts
	Seed        int64
}

func DefaultConfig() Config {
	return Config{
		NumAnts:              10,
		Generations:          200,
		Alpha:                1.0,
		Beta:                 2.0,
		Rho:                  0.1,
		Q0:                   0.9,
		ElitistWeight:        6.0,
		RankedAnts:           6,
		Smoothing:            0,
		SoftStagnationLimit:  25,
		HardStagnationLimit:  50,
		ConvergenceLimit:     30,
		ConvergenceTolerance: 0.01,
		MinDiversity:         0.1,
		Seed:                 42,
	}
}

func (c Config) sanitize() Config {
	def := DefaultConfig()
	if c.NumAnts <= 0 {
		c.NumAnts = def.NumAnts
	}
	if c.Generations <= 0 {
		c.Generations = def.Generations
	}
	if c.Alpha == 0 {
		c.Alpha = def.Alpha
	}
	if c.Beta == 0 {
		c.Beta = def.Beta
	}
	if c.Rho <= 0 || c.Rho >= 1 {
		c.Rho = def.Rho
	}
	if c.Q0 <= 0 || c.Q0 > 1 {
		c.Q0 = def.Q0
	}
	if c.ElitistWeight == 0 {
		c.ElitistWeight = def.ElitistWeight
	}
	if c.RankedAnts <= 0 {
		c.RankedAnts = def.RankedAnts
	}
	if c.SoftStagnationLimit <= 0 {
		c.SoftStagnationLimit = def.SoftStagnationLimit
	}
	if c.HardStagnationLimit <= 0 {
		c.HardStagnationLimit = def.HardStagnationLimit
	}
	if c.ConvergenceLimit <= 0 {
		c.ConvergenceLimit = def.ConvergenceLimit
	}
	if c.ConvergenceTolerance <= 0 {
		c.ConvergenceTolerance = def.ConvergenceTolerance
	}
	if c.MinDiversity <= 0 {
		c.MinDiversity = def.MinDiversity
	}
	if c.Parallelism <= 0 {
		c.Parallelism = c.NumAnts
	}
	return c
}
