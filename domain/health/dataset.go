package health

import (
	"math"
	"sort"
	"strconv"

	"healthstudy/domain/core"
)

// Dataset is an immutable ordered collection of Observations sharing the study
// schema. It is built once by a loader and only read afterwards; every
// accessor returns fresh slices so downstream code cannot mutate it.
type Dataset struct {
	observations []Observation
}

// NewDataset wraps a slice of observations. The slice is copied.
func NewDataset(observations []Observation) *Dataset {
	copied := make([]Observation, len(observations))
	copy(copied, observations)
	return &Dataset{observations: copied}
}

// Len returns the number of observations
func (d *Dataset) Len() int {
	return len(d.observations)
}

// Observations returns a copy of the underlying rows
func (d *Dataset) Observations() []Observation {
	copied := make([]Observation, len(d.observations))
	copy(copied, d.observations)
	return copied
}

// Column returns the values of a numeric column in row order. Missing cells
// appear as NaN so that rows stay aligned across columns.
func (d *Dataset) Column(name string) ([]float64, error) {
	extract, err := numericExtractor(name)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(d.observations))
	for i, obs := range d.observations {
		values[i] = extract(obs)
	}
	return values, nil
}

// MissingCount returns the number of missing cells in a numeric column
func (d *Dataset) MissingCount(name string) (int, error) {
	values, err := d.Column(name)
	if err != nil {
		return 0, err
	}
	missing := 0
	for _, v := range values {
		if math.IsNaN(v) {
			missing++
		}
	}
	return missing, nil
}

// Filter returns a new Dataset containing the rows for which keep is true
func (d *Dataset) Filter(keep func(Observation) bool) *Dataset {
	var kept []Observation
	for _, obs := range d.observations {
		if keep(obs) {
			kept = append(kept, obs)
		}
	}
	return &Dataset{observations: kept}
}

// Smokers returns the sub-dataset of smoking participants
func (d *Dataset) Smokers() *Dataset {
	return d.Filter(func(o Observation) bool { return o.Smoker })
}

// NonSmokers returns the sub-dataset of non-smoking participants
func (d *Dataset) NonSmokers() *Dataset {
	return d.Filter(func(o Observation) bool { return !o.Smoker })
}

// PartitionBy splits the dataset by the distinct values of a categorical
// column. Group names are returned in sorted order so that iteration over
// partitions is deterministic.
func (d *Dataset) PartitionBy(column string) ([]string, map[string]*Dataset, error) {
	label, err := categoricalExtractor(column)
	if err != nil {
		return nil, nil, err
	}
	groups := make(map[string][]Observation)
	for _, obs := range d.observations {
		key := label(obs)
		groups[key] = append(groups[key], obs)
	}
	names := make([]string, 0, len(groups))
	partitions := make(map[string]*Dataset, len(groups))
	for name, rows := range groups {
		names = append(names, name)
		partitions[name] = &Dataset{observations: rows}
	}
	sort.Strings(names)
	return names, partitions, nil
}

// DiseaseRate returns the observed proportion of participants with the
// disease indicator set. Zero observations yield a rate of zero.
func (d *Dataset) DiseaseRate() float64 {
	if len(d.observations) == 0 {
		return 0
	}
	positive := 0
	for _, obs := range d.observations {
		if obs.Disease {
			positive++
		}
	}
	return float64(positive) / float64(len(d.observations))
}

// DiseaseRateBy returns the observed disease proportion per group of a
// categorical column, keyed by group name.
func (d *Dataset) DiseaseRateBy(column string) ([]string, map[string]float64, error) {
	names, partitions, err := d.PartitionBy(column)
	if err != nil {
		return nil, nil, err
	}
	rates := make(map[string]float64, len(partitions))
	for name, part := range partitions {
		rates[name] = part.DiseaseRate()
	}
	return names, rates, nil
}

func numericExtractor(name string) (func(Observation) float64, error) {
	switch name {
	case ColAge:
		return func(o Observation) float64 { return o.Age }, nil
	case ColWeight:
		return func(o Observation) float64 { return o.Weight }, nil
	case ColHeight:
		return func(o Observation) float64 { return o.Height }, nil
	case ColSystolic:
		return func(o Observation) float64 { return o.Systolic }, nil
	case ColDiastolic:
		return func(o Observation) float64 { return o.Diastolic }, nil
	case ColCholesterol:
		return func(o Observation) float64 { return o.Cholesterol }, nil
	case ColBMI:
		return func(o Observation) float64 { return o.BMI() }, nil
	}
	return nil, core.NewColumnNotFoundError(name)
}

func categoricalExtractor(name string) (func(Observation) string, error) {
	switch name {
	case ColSex:
		return func(o Observation) string { return string(o.Sex) }, nil
	case ColSmoker:
		return func(o Observation) string { return strconv.FormatBool(o.Smoker) }, nil
	case ColDisease:
		return func(o Observation) string { return strconv.FormatBool(o.Disease) }, nil
	}
	return nil, core.NewColumnNotFoundError(name)
}
