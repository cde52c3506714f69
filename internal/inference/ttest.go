package inference

import (
	"math"

	mstats "github.com/montanaflynn/stats"

	"healthstudy/domain/core"
	"healthstudy/domain/stats"
)

// TTester performs the two-sample Welch t-test comparing independent groups
// (smokers versus non-smokers in the study pipeline).
type TTester struct {
	dist *Distributions
}

// NewTTester creates a new t-tester
func NewTTester() *TTester {
	return &TTester{dist: NewDistributions()}
}

// WelchTTest compares the means of two independent samples without assuming
// equal variances. Reports the statistic, two- and one-tailed p-values,
// Cohen's d, approximate power, and the decision at significance alpha.
func (t *TTester) WelchTTest(a, b []float64, alpha float64) (stats.TTestResult, error) {
	if alpha <= 0 || alpha >= 1 {
		return stats.TTestResult{}, core.NewInvalidInputError("alpha", "must be in (0, 1)")
	}
	a = dropMissing(a)
	b = dropMissing(b)
	if len(a) < 2 {
		return stats.TTestResult{}, core.NewInsufficientDataError("t-test group A", len(a), 2)
	}
	if len(b) < 2 {
		return stats.TTestResult{}, core.NewInsufficientDataError("t-test group B", len(b), 2)
	}

	n1, n2 := float64(len(a)), float64(len(b))
	mean1, _ := mstats.Mean(a)
	mean2, _ := mstats.Mean(b)
	var1, _ := mstats.SampleVariance(a)
	var2, _ := mstats.SampleVariance(b)

	result := stats.TTestResult{
		MeanA: mean1,
		MeanB: mean2,
		SizeA: len(a),
		SizeB: len(b),
		Alpha: alpha,
	}

	se := math.Sqrt(var1/n1 + var2/n2)
	diff := mean1 - mean2
	switch {
	case se == 0 && diff == 0:
		// Two identical constant samples: no evidence against the null
		result.TStatistic = 0
		result.DegreesFreedom = n1 + n2 - 2
		result.PValueTwoSided = 1
		result.PValueOneSided = 0.5
	case se == 0:
		// Constant samples with different means: maximal evidence
		result.TStatistic = math.Inf(sign(diff))
		result.DegreesFreedom = n1 + n2 - 2
		result.PValueTwoSided = 0
		result.PValueOneSided = 0
	default:
		result.TStatistic = diff / se
		// Welch-Satterthwaite degrees of freedom
		result.DegreesFreedom = math.Pow(var1/n1+var2/n2, 2) /
			(math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1))
		result.PValueTwoSided = t.dist.TTwoSidedP(result.TStatistic, result.DegreesFreedom)
		if mean1 > mean2 {
			result.PValueOneSided = result.PValueTwoSided / 2
		} else {
			result.PValueOneSided = 1 - result.PValueTwoSided/2
		}
	}

	// Cohen's d with pooled standard deviation
	pooledSD := math.Sqrt(((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2))
	if pooledSD > 0 {
		result.CohensD = diff / pooledSD
	}

	result.Power = t.dist.TwoSampleTTestPower(result.CohensD, len(a), len(b), alpha)
	result.RejectNull = result.PValueTwoSided < alpha
	return result, nil
}

func sign(x float64) int {
	if x < 0 {
		return -1
	}
	return 1
}
