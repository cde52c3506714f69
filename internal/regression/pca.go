package regression

import (
	"fmt"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"healthstudy/domain/core"
	"healthstudy/domain/stats"
)

// PCAAnalyzer performs principal component analysis over standardized
// numeric variables.
type PCAAnalyzer struct{}

// NewPCAAnalyzer creates a new analyzer
func NewPCAAnalyzer() *PCAAnalyzer {
	return &PCAAnalyzer{}
}

// Fit standardizes each variable to zero mean and unit sample variance over
// the complete rows, then extracts principal components ordered by descending
// explained variance ratio.
func (a *PCAAnalyzer) Fit(variables ...Variable) (stats.PCAResult, error) {
	if len(variables) < 2 {
		return stats.PCAResult{}, core.NewInvalidInputError("variables", "at least two variables required")
	}
	for _, v := range variables[1:] {
		if len(v.Values) != len(variables[0].Values) {
			return stats.PCAResult{}, core.NewInvalidInputError(v.Name, "length differs from other variables")
		}
	}

	rows := completeRows(variables[0], variables[1:])
	n := len(rows)
	d := len(variables)
	if n < d+1 {
		return stats.PCAResult{}, core.NewInsufficientDataError("pca", n, d+1)
	}

	// Standardize column by column. A constant column has no variance to
	// distribute and cannot be scaled to unit variance.
	data := mat.NewDense(n, d, nil)
	for j, v := range variables {
		column := make([]float64, n)
		for i, row := range rows {
			column[i] = v.Values[row]
		}
		mean, _ := mstats.Mean(column)
		sd, _ := mstats.StandardDeviationSample(column)
		if sd == 0 {
			return stats.PCAResult{}, core.NewInvalidInputError(v.Name, "constant column cannot be standardized")
		}
		for i, value := range column {
			data.Set(i, j, (value-mean)/sd)
		}
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return stats.PCAResult{}, fmt.Errorf("%w: principal component decomposition failed", core.ErrSingularMatrix)
	}

	variances := pc.VarsTo(nil)
	total := 0.0
	for _, v := range variances {
		total += v
	}

	var vectors mat.Dense
	pc.VectorsTo(&vectors)

	result := stats.PCAResult{
		Variables:  make([]string, d),
		Components: make([]stats.PrincipalComponent, d),
		SampleSize: n,
	}
	for j, v := range variables {
		result.Variables[j] = v.Name
	}
	for k := 0; k < d; k++ {
		loadings := make([]float64, d)
		for j := 0; j < d; j++ {
			loadings[j] = vectors.At(j, k)
		}
		ratio := 0.0
		if total > 0 {
			ratio = variances[k] / total
		}
		result.Components[k] = stats.PrincipalComponent{
			Index:             k + 1,
			Variance:          variances[k],
			ExplainedVarRatio: ratio,
			Loadings:          loadings,
		}
	}

	// gonum returns components in descending variance order; normalize tiny
	// negative eigenvalues from floating point noise to zero.
	for k := range result.Components {
		if result.Components[k].Variance < 0 && result.Components[k].Variance > -1e-12 {
			result.Components[k].Variance = 0
		}
	}
	return result, nil
}

// KaiserComponents returns the components whose eigenvalue exceeds 1, the
// usual retention rule for standardized inputs.
func KaiserComponents(result stats.PCAResult) []stats.PrincipalComponent {
	var kept []stats.PrincipalComponent
	for _, c := range result.Components {
		if c.Variance > 1 {
			kept = append(kept, c)
		}
	}
	return kept
}
