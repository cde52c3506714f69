package stats

// Summary holds the descriptive statistics of one numeric column, or of one
// group slice of it. A partition with zero usable values has HasData false
// and zeroed statistics rather than NaN.
type Summary struct {
	Column       string  `json:"column"`
	Group        string  `json:"group,omitempty"`
	Count        int     `json:"count"`
	MissingCount int     `json:"missing_count"`
	HasData      bool    `json:"has_data"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	StdDev       float64 `json:"std_dev"`
	Q25          float64 `json:"q25"`
	Q75          float64 `json:"q75"`
}

// ConfidenceInterval is a range expected to contain the true population mean
// at the stated confidence level.
type ConfidenceInterval struct {
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	Confidence float64 `json:"confidence"`
	Mean       float64 `json:"mean"`
	StdErr     float64 `json:"std_err"`
	SampleSize int     `json:"sample_size"`
	Method     string  `json:"method"` // "student_t" or "bootstrap"
}

// Width returns the length of the interval
func (ci ConfidenceInterval) Width() float64 {
	return ci.Upper - ci.Lower
}

// TTestResult reports a two-sample Welch t-test
type TTestResult struct {
	TStatistic     float64 `json:"t_statistic"`
	DegreesFreedom float64 `json:"degrees_freedom"`
	PValueTwoSided float64 `json:"p_value_two_sided"`
	PValueOneSided float64 `json:"p_value_one_sided"`
	MeanA          float64 `json:"mean_a"`
	MeanB          float64 `json:"mean_b"`
	SizeA          int     `json:"size_a"`
	SizeB          int     `json:"size_b"`
	CohensD        float64 `json:"cohens_d"`
	Alpha          float64 `json:"alpha"`
	RejectNull     bool    `json:"reject_null"`
	Power          float64 `json:"power"`
}

// SimulationResult is a generated sequence of Bernoulli disease outcomes
type SimulationResult struct {
	Group       string  `json:"group,omitempty"`
	Probability float64 `json:"probability"`
	Seed        int64   `json:"seed"`
	Outcomes    []bool  `json:"outcomes"`
}

// Proportion returns the observed share of positive outcomes
func (r SimulationResult) Proportion() float64 {
	if len(r.Outcomes) == 0 {
		return 0
	}
	positive := 0
	for _, hit := range r.Outcomes {
		if hit {
			positive++
		}
	}
	return float64(positive) / float64(len(r.Outcomes))
}

// SimulationComparison contrasts an observed proportion with its simulated
// counterpart for one group (or the whole dataset when Group is empty).
type SimulationComparison struct {
	Group         string  `json:"group,omitempty"`
	TrueRate      float64 `json:"true_rate"`
	SimulatedRate float64 `json:"simulated_rate"`
	AbsDifference float64 `json:"abs_difference"`
}

// RegressionModel holds a fitted ordinary least squares model
type RegressionModel struct {
	Response       string    `json:"response"`
	Predictors     []string  `json:"predictors"`
	Intercept      float64   `json:"intercept"`
	Coefficients   []float64 `json:"coefficients"`
	R2             float64   `json:"r2"`
	AdjustedR2     float64   `json:"adjusted_r2"`
	ResidualStdDev float64   `json:"residual_std_dev"`
	SampleSize     int       `json:"sample_size"`
}

// Predict evaluates the model at one predictor vector
func (m RegressionModel) Predict(x []float64) float64 {
	y := m.Intercept
	for i, coef := range m.Coefficients {
		if i < len(x) {
			y += coef * x[i]
		}
	}
	return y
}

// PrincipalComponent is one axis of a PCA decomposition
type PrincipalComponent struct {
	Index             int       `json:"index"`
	Variance          float64   `json:"variance"` // eigenvalue of the correlation matrix
	ExplainedVarRatio float64   `json:"explained_var_ratio"`
	Loadings          []float64 `json:"loadings"`
}

// PCAResult holds the ordered principal components over standardized inputs
type PCAResult struct {
	Variables  []string             `json:"variables"`
	Components []PrincipalComponent `json:"components"`
	SampleSize int                  `json:"sample_size"`
}
