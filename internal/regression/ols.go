package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"healthstudy/domain/core"
	"healthstudy/domain/stats"
)

// Variable is a named numeric column fed into a model fit
type Variable struct {
	Name   string
	Values []float64
}

// OLSFitter fits linear models by ordinary least squares
type OLSFitter struct{}

// NewOLSFitter creates a new fitter
func NewOLSFitter() *OLSFitter {
	return &OLSFitter{}
}

// Fit estimates response = β0 + Σ βi·predictor_i by least squares over the
// rows where every variable is present. A rank-deficient design matrix
// (collinear predictors) fails with the singular matrix error.
func (f *OLSFitter) Fit(response Variable, predictors ...Variable) (stats.RegressionModel, error) {
	if len(predictors) == 0 {
		return stats.RegressionModel{}, core.NewInvalidInputError("predictors", "at least one predictor required")
	}
	for _, p := range predictors {
		if len(p.Values) != len(response.Values) {
			return stats.RegressionModel{}, core.NewInvalidInputError(p.Name, "length differs from response")
		}
	}

	rows := completeRows(response, predictors)
	n := len(rows)
	params := len(predictors) + 1
	if n < params+1 {
		return stats.RegressionModel{}, core.NewInsufficientDataError("regression", n, params+1)
	}

	design := mat.NewDense(n, params, nil)
	y := mat.NewVecDense(n, nil)
	for i, row := range rows {
		design.Set(i, 0, 1)
		for j, p := range predictors {
			design.Set(i, j+1, p.Values[row])
		}
		y.SetVec(i, response.Values[row])
	}

	// Rank check through the singular values, so collinearity surfaces as a
	// domain error instead of a numerically garbage fit.
	var svd mat.SVD
	if !svd.Factorize(design, mat.SVDNone) {
		return stats.RegressionModel{}, fmt.Errorf("%w: decomposition failed", core.ErrSingularMatrix)
	}
	values := svd.Values(nil)
	if values[0] == 0 || values[len(values)-1] < 1e-12*values[0] {
		return stats.RegressionModel{}, fmt.Errorf("%w: predictors are collinear", core.ErrSingularMatrix)
	}

	var qr mat.QR
	qr.Factorize(design)
	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, y); err != nil {
		return stats.RegressionModel{}, fmt.Errorf("%w: %v", core.ErrSingularMatrix, err)
	}

	// Goodness of fit over the rows used
	meanY := mat.Sum(y) / float64(n)
	sse, sst := 0.0, 0.0
	for i := 0; i < n; i++ {
		fitted := coef.AtVec(0)
		for j := 1; j < params; j++ {
			fitted += coef.AtVec(j) * design.At(i, j)
		}
		residual := y.AtVec(i) - fitted
		sse += residual * residual
		dev := y.AtVec(i) - meanY
		sst += dev * dev
	}

	r2 := 0.0
	if sst > 0 {
		r2 = 1 - sse/sst
	} else if sse == 0 {
		r2 = 1
	}

	model := stats.RegressionModel{
		Response:       response.Name,
		Intercept:      coef.AtVec(0),
		Coefficients:   make([]float64, len(predictors)),
		Predictors:     make([]string, len(predictors)),
		R2:             r2,
		AdjustedR2:     1 - (1-r2)*float64(n-1)/float64(n-params),
		ResidualStdDev: math.Sqrt(sse / float64(n-params)),
		SampleSize:     n,
	}
	for j, p := range predictors {
		model.Coefficients[j] = coef.AtVec(j + 1)
		model.Predictors[j] = p.Name
	}
	return model, nil
}

// completeRows returns the indices of rows where the response and every
// predictor are non-missing (listwise deletion).
func completeRows(response Variable, predictors []Variable) []int {
	var rows []int
	for i, v := range response.Values {
		if math.IsNaN(v) {
			continue
		}
		complete := true
		for _, p := range predictors {
			if math.IsNaN(p.Values[i]) {
				complete = false
				break
			}
		}
		if complete {
			rows = append(rows, i)
		}
	}
	return rows
}
