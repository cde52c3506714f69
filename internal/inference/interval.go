package inference

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"

	"healthstudy/domain/core"
	"healthstudy/domain/stats"
	"healthstudy/internal/simulation"
	"healthstudy/ports"
)

// IntervalEstimator builds confidence intervals for a population mean
type IntervalEstimator struct {
	dist *Distributions
	rng  ports.RNG
}

// NewIntervalEstimator creates an estimator with the default seeded generator
func NewIntervalEstimator() *IntervalEstimator {
	return &IntervalEstimator{dist: NewDistributions(), rng: simulation.DefaultRNG{}}
}

// MeanInterval computes the Student-t interval x̄ ± t(conf, n−1)·s/√n
func (e *IntervalEstimator) MeanInterval(sample []float64, confidence float64) (stats.ConfidenceInterval, error) {
	if confidence <= 0 || confidence >= 1 {
		return stats.ConfidenceInterval{}, core.NewInvalidInputError("confidence", "must be in (0, 1)")
	}
	usable := dropMissing(sample)
	n := len(usable)
	if n < 2 {
		return stats.ConfidenceInterval{}, core.NewInsufficientDataError("confidence interval", n, 2)
	}

	mean, _ := mstats.Mean(usable)
	sd, _ := mstats.StandardDeviationSample(usable)
	se := sd / math.Sqrt(float64(n))
	bound := e.dist.TCritical(confidence, float64(n-1)) * se

	return stats.ConfidenceInterval{
		Lower:      mean - bound,
		Upper:      mean + bound,
		Confidence: confidence,
		Mean:       mean,
		StdErr:     se,
		SampleSize: n,
		Method:     "student_t",
	}, nil
}

// BootstrapInterval computes a percentile bootstrap interval for the mean.
// The resampling stream is seeded, so the interval is reproducible.
func (e *IntervalEstimator) BootstrapInterval(sample []float64, confidence float64, replicates int, seed int64) (stats.ConfidenceInterval, error) {
	if confidence <= 0 || confidence >= 1 {
		return stats.ConfidenceInterval{}, core.NewInvalidInputError("confidence", "must be in (0, 1)")
	}
	if replicates < 1 {
		return stats.ConfidenceInterval{}, core.NewInvalidInputError("replicates", "must be positive")
	}
	usable := dropMissing(sample)
	n := len(usable)
	if n < 2 {
		return stats.ConfidenceInterval{}, core.NewInsufficientDataError("bootstrap interval", n, 2)
	}

	stream := e.rng.Stream("bootstrap", seed)
	bootMeans := make([]float64, replicates)
	for i := range bootMeans {
		sum := 0.0
		for j := 0; j < n; j++ {
			sum += usable[stream.Intn(n)]
		}
		bootMeans[i] = sum / float64(n)
	}
	sort.Float64s(bootMeans)

	alpha := 1 - confidence
	lower := percentileSorted(bootMeans, alpha/2)
	upper := percentileSorted(bootMeans, 1-alpha/2)

	mean, _ := mstats.Mean(usable)
	sd, _ := mstats.StandardDeviationSample(usable)

	return stats.ConfidenceInterval{
		Lower:      lower,
		Upper:      upper,
		Confidence: confidence,
		Mean:       mean,
		StdErr:     sd / math.Sqrt(float64(n)),
		SampleSize: n,
		Method:     "bootstrap",
	}, nil
}

// percentileSorted reads a quantile from an already sorted slice using linear
// interpolation between the closest ranks.
func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	position := q * float64(len(sorted)-1)
	low := int(math.Floor(position))
	high := int(math.Ceil(position))
	if low == high {
		return sorted[low]
	}
	fraction := position - float64(low)
	return sorted[low]*(1-fraction) + sorted[high]*fraction
}

func dropMissing(sample []float64) []float64 {
	usable := make([]float64, 0, len(sample))
	for _, v := range sample {
		if !math.IsNaN(v) {
			usable = append(usable, v)
		}
	}
	return usable
}
