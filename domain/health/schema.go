package health

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"healthstudy/domain/core"
)

// Canonical column names of the study file
const (
	ColAge         = "age"
	ColSex         = "sex"
	ColWeight      = "weight"
	ColHeight      = "height"
	ColSystolic    = "systolic"
	ColDiastolic   = "diastolic"
	ColCholesterol = "cholesterol"
	ColSmoker      = "smoker"
	ColDisease     = "disease"
)

// ColBMI is a derived column computed from weight and height; it is never
// read from the source file and is not part of the schema.
const ColBMI = "bmi"

// NumericColumns lists the columns carrying measurements
var NumericColumns = []string{
	ColAge, ColWeight, ColHeight, ColSystolic, ColDiastolic, ColCholesterol,
}

// CategoricalColumns lists the columns that partition the dataset
var CategoricalColumns = []string{ColSex, ColSmoker, ColDisease}

// Schema maps a source header row onto the Observation fields
type Schema struct {
	index map[string]int // canonical column -> position in the source row
	width int
}

// NewSchema validates a header row against the study schema. Every canonical
// column must be present exactly once; unknown columns are rejected so that a
// renamed or reordered source file fails loudly instead of silently shifting
// values.
func NewSchema(header []string) (*Schema, error) {
	known := make(map[string]bool, len(NumericColumns)+len(CategoricalColumns))
	for _, name := range NumericColumns {
		known[name] = true
	}
	for _, name := range CategoricalColumns {
		known[name] = true
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		canonical := strings.ToLower(strings.TrimSpace(name))
		if !known[canonical] {
			return nil, fmt.Errorf("%w: unknown column %q", core.ErrLoad, canonical)
		}
		if _, dup := index[canonical]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", core.ErrLoad, canonical)
		}
		index[canonical] = i
	}
	for _, required := range append(append([]string{}, NumericColumns...), CategoricalColumns...) {
		if _, ok := index[required]; !ok {
			return nil, core.NewColumnNotFoundError(required)
		}
	}
	return &Schema{index: index, width: len(header)}, nil
}

// Width returns the expected number of fields per row
func (s *Schema) Width() int {
	return s.width
}

// ParseRow converts one source record into an Observation. line is the
// 1-based line number of the record in the source file, used in errors.
func (s *Schema) ParseRow(record []string, line int) (Observation, error) {
	if len(record) != s.width {
		return Observation{}, fmt.Errorf("%w: line %d has %d fields, header has %d",
			core.ErrColumnMismatch, line, len(record), s.width)
	}

	obs := Observation{}
	var err error
	if obs.Age, err = s.numeric(record, ColAge, line); err != nil {
		return Observation{}, err
	}
	if obs.Weight, err = s.numeric(record, ColWeight, line); err != nil {
		return Observation{}, err
	}
	if obs.Height, err = s.numeric(record, ColHeight, line); err != nil {
		return Observation{}, err
	}
	if obs.Systolic, err = s.numeric(record, ColSystolic, line); err != nil {
		return Observation{}, err
	}
	if obs.Diastolic, err = s.numeric(record, ColDiastolic, line); err != nil {
		return Observation{}, err
	}
	if obs.Cholesterol, err = s.numeric(record, ColCholesterol, line); err != nil {
		return Observation{}, err
	}

	sex := strings.ToUpper(strings.TrimSpace(record[s.index[ColSex]]))
	obs.Sex = Sex(sex)
	if obs.Smoker, err = s.boolean(record, ColSmoker, line); err != nil {
		return Observation{}, err
	}
	if obs.Disease, err = s.boolean(record, ColDisease, line); err != nil {
		return Observation{}, err
	}

	if err := obs.Validate(); err != nil {
		return Observation{}, fmt.Errorf("line %d: %w", line, err)
	}
	return obs, nil
}

// numeric parses a measurement cell. An empty cell is missing data, not an
// error; anything else must parse as a number.
func (s *Schema) numeric(record []string, column string, line int) (float64, error) {
	raw := strings.TrimSpace(record[s.index[column]])
	if raw == "" {
		return math.NaN(), nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, core.NewParseError(column, line, raw)
	}
	return value, nil
}

func (s *Schema) boolean(record []string, column string, line int) (bool, error) {
	raw := strings.ToLower(strings.TrimSpace(record[s.index[column]]))
	switch raw {
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no":
		return false, nil
	}
	return false, core.NewParseError(column, line, raw)
}
