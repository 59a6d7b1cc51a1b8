package montecarlo

import (
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Simulator generates GBM price paths. The zero value is not usable; build
// one with NewSimulator.
type Simulator struct {
	seed    uint64
	seeded  bool
	workers int
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithSeed fixes the random seed. Two runs of the same config on simulators
// sharing a seed produce bit-identical matrices, whatever the worker count.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		s.seed = seed
		s.seeded = true
	}
}

// WithWorkers bounds the number of goroutines computing paths. Values < 1
// mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Simulator) { s.workers = n }
}

func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{}
	for _, o := range opts {
		o(s)
	}
	if s.workers < 1 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	return s
}

// Validate reports whether cfg can be simulated.
func (cfg SimulationConfig) Validate() error {
	switch {
	case cfg.NumSteps < 1:
		return invalidConfig("numSteps must be >= 1, got %d", cfg.NumSteps)
	case cfg.NumPaths < 1:
		return invalidConfig("numPaths must be >= 1, got %d", cfg.NumPaths)
	case math.IsNaN(cfg.InitialPrice) || math.IsInf(cfg.InitialPrice, 0):
		return invalidConfig("initialPrice is not finite: %v", cfg.InitialPrice)
	case cfg.InitialPrice <= 0:
		return invalidConfig("initialPrice must be > 0, got %v", cfg.InitialPrice)
	case math.IsNaN(cfg.Market.Volatility) || math.IsInf(cfg.Market.Volatility, 0):
		return invalidConfig("volatility is not finite: %v", cfg.Market.Volatility)
	case cfg.Market.Volatility < 0:
		return invalidConfig("volatility must be >= 0, got %v", cfg.Market.Volatility)
	case math.IsNaN(cfg.Market.ExpectedReturn) || math.IsInf(cfg.Market.ExpectedReturn, 0):
		return invalidConfig("expectedReturn is not finite: %v", cfg.Market.ExpectedReturn)
	}
	return nil
}

// Simulate runs cfg.NumPaths independent trajectories of cfg.NumSteps daily
// prices. Daily log-returns are mu/N + sigma*sqrt(1/N)*z with z standard
// normal, and price[t] = price[t-1]*exp(return), so every price stays
// strictly positive.
func (s *Simulator) Simulate(cfg SimulationConfig) (PathMatrix, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := s.seed
	if !s.seeded {
		seed = rand.Uint64()
	}

	n := float64(cfg.NumSteps)
	drift := cfg.Market.ExpectedReturn / n
	diffusion := cfg.Market.Volatility * math.Sqrt(1/n)

	matrix := make(PathMatrix, cfg.NumPaths)
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := 0; i < cfg.NumPaths; i++ {
		g.Go(func() error {
			// one PCG stream per path keeps draws independent of scheduling
			rng := rand.New(rand.NewPCG(seed, uint64(i)))
			matrix[i] = simulatePath(rng, cfg.InitialPrice, cfg.NumSteps, drift, diffusion)
			return nil
		})
	}
	_ = g.Wait()
	return matrix, nil
}

func simulatePath(rng *rand.Rand, s0 float64, steps int, drift, diffusion float64) []float64 {
	path := make([]float64, steps)
	path[0] = s0
	for t := 1; t < steps; t++ {
		z := rng.NormFloat64()
		path[t] = path[t-1] * math.Exp(drift+diffusion*z)
	}
	return path
}
