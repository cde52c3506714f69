package simulation

import (
	"math"
	"math/rand"

	"healthstudy/domain/core"
	"healthstudy/domain/health"
	"healthstudy/domain/stats"
	"healthstudy/ports"
)

// DefaultRNG is the production RNG: a plain seeded math/rand generator. The
// same seed always yields the same stream, independent of the stream name.
type DefaultRNG struct{}

// Stream creates a deterministic generator for a named operation
func (DefaultRNG) Stream(name string, seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Simulator draws reproducible Bernoulli disease outcomes. Group simulations
// use independently seeded streams: group i (in sorted group-name order) draws
// from seed baseSeed+i+1. Each group's sequence is therefore invariant under
// addition or removal of other groups, at the cost of the streams not being
// one continuous sequence.
type Simulator struct {
	rng ports.RNG
}

// NewSimulator creates a simulator with the default seeded generator
func NewSimulator() *Simulator {
	return &Simulator{rng: DefaultRNG{}}
}

// NewSimulatorWithRNG creates a simulator with an injected RNG
func NewSimulatorWithRNG(rng ports.RNG) *Simulator {
	return &Simulator{rng: rng}
}

// Simulate draws n independent Bernoulli(p) outcomes from a seeded stream
func (s *Simulator) Simulate(p float64, n int, seed int64) (stats.SimulationResult, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return stats.SimulationResult{}, core.NewInvalidInputError("probability", "must be in [0, 1]")
	}
	if n < 0 {
		return stats.SimulationResult{}, core.NewInvalidInputError("sample size", "must be non-negative")
	}

	stream := s.rng.Stream("simulate", seed)
	outcomes := make([]bool, n)
	for i := range outcomes {
		outcomes[i] = stream.Float64() < p
	}
	return stats.SimulationResult{
		Probability: p,
		Seed:        seed,
		Outcomes:    outcomes,
	}, nil
}

// SimulateDataset draws n outcomes at the dataset's observed disease rate
func (s *Simulator) SimulateDataset(ds *health.Dataset, n int, seed int64) (stats.SimulationResult, error) {
	return s.Simulate(ds.DiseaseRate(), n, seed)
}

// SimulateGroups draws n outcomes per group of a categorical column, each
// group at its own observed disease rate from its own seeded stream.
func (s *Simulator) SimulateGroups(ds *health.Dataset, groupColumn string, n int, baseSeed int64) ([]stats.SimulationResult, error) {
	names, rates, err := ds.DiseaseRateBy(groupColumn)
	if err != nil {
		return nil, err
	}
	results := make([]stats.SimulationResult, 0, len(names))
	for i, name := range names {
		seed := baseSeed + int64(i) + 1
		result, err := s.Simulate(rates[name], n, seed)
		if err != nil {
			return nil, err
		}
		result.Group = name
		results = append(results, result)
	}
	return results, nil
}

// Compare contrasts an observed proportion with a simulated one
func Compare(trueRate float64, result stats.SimulationResult) stats.SimulationComparison {
	simulated := result.Proportion()
	return stats.SimulationComparison{
		Group:         result.Group,
		TrueRate:      trueRate,
		SimulatedRate: simulated,
		AbsDifference: math.Abs(simulated - trueRate),
	}
}

// CompareGroups builds the real-versus-simulated report for group results
func CompareGroups(ds *health.Dataset, groupColumn string, results []stats.SimulationResult) ([]stats.SimulationComparison, error) {
	_, rates, err := ds.DiseaseRateBy(groupColumn)
	if err != nil {
		return nil, err
	}
	comparisons := make([]stats.SimulationComparison, 0, len(results))
	for _, result := range results {
		comparisons = append(comparisons, Compare(rates[result.Group], result))
	}
	return comparisons, nil
}
