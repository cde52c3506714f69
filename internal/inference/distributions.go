package inference

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Distributions provides the reference distributions used by the inference
// routines, so critical values and p-values come from one place.
type Distributions struct{}

// NewDistributions creates a new distributions utility
func NewDistributions() *Distributions {
	return &Distributions{}
}

// TCritical returns the two-sided critical value of Student's t for the given
// confidence level and degrees of freedom.
func (d *Distributions) TCritical(confidence float64, df float64) float64 {
	if df <= 0 {
		return math.NaN()
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return tDist.Quantile(1 - (1-confidence)/2)
}

// TTwoSidedP returns the two-tailed p-value of a t-statistic
func (d *Distributions) TTwoSidedP(t, df float64) float64 {
	if df <= 0 {
		return 1.0
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * (1 - tDist.CDF(math.Abs(t)))
}

// NormalQuantile returns the standard normal quantile (inverse CDF)
func (d *Distributions) NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// NormalCDF returns the standard normal CDF
func (d *Distributions) NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// TwoSampleTTestPower approximates the power of a two-sided two-sample t-test
// at significance alpha, given Cohen's d and the group sizes. Uses the normal
// approximation to the noncentral t distribution.
func (d *Distributions) TwoSampleTTestPower(effectSize float64, n1, n2 int, alpha float64) float64 {
	if n1 < 2 || n2 < 2 || alpha <= 0 || alpha >= 1 {
		return 0
	}
	delta := math.Abs(effectSize) * math.Sqrt(float64(n1)*float64(n2)/float64(n1+n2))
	zCrit := d.NormalQuantile(1 - alpha/2)
	power := 1 - d.NormalCDF(zCrit-delta) + d.NormalCDF(-zCrit-delta)
	return math.Min(math.Max(power, 0), 1)
}
