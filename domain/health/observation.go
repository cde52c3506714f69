package health

import (
	"math"

	"healthstudy/domain/core"
)

// Sex is the recorded biological sex of a participant
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Observation is one participant's recorded health data.
// Numeric fields may be NaN when the source cell was empty; such values are
// treated as missing and excluded from statistics.
type Observation struct {
	Age         float64
	Sex         Sex
	Weight      float64 // kg
	Height      float64 // cm
	Systolic    float64 // mmHg
	Diastolic   float64 // mmHg
	Cholesterol float64 // mg/dL
	Smoker      bool
	Disease     bool
}

// Validate checks the observation invariants: numeric fields finite and
// positive (or missing), age a whole number of years, sex from the fixed
// value set.
func (o Observation) Validate() error {
	if o.Sex != SexMale && o.Sex != SexFemale {
		return core.NewInvalidInputError("sex", "must be M or F")
	}
	checks := []struct {
		name  string
		value float64
	}{
		{"age", o.Age},
		{"weight", o.Weight},
		{"height", o.Height},
		{"systolic", o.Systolic},
		{"diastolic", o.Diastolic},
		{"cholesterol", o.Cholesterol},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) {
			continue // missing
		}
		if math.IsInf(c.value, 0) {
			return core.NewInvalidInputError(c.name, "must be finite")
		}
		if c.value <= 0 {
			return core.NewInvalidInputError(c.name, "must be positive")
		}
	}
	if !math.IsNaN(o.Age) && o.Age != math.Trunc(o.Age) {
		return core.NewInvalidInputError("age", "must be a whole number of years")
	}
	return nil
}

// BMI returns the body mass index, or NaN when weight or height is missing.
func (o Observation) BMI() float64 {
	if math.IsNaN(o.Weight) || math.IsNaN(o.Height) {
		return math.NaN()
	}
	h := o.Height / 100
	return o.Weight / (h * h)
}
