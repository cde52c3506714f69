package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"healthstudy/domain/core"
	"healthstudy/domain/health"
	"healthstudy/internal/errors"
)

// Reader loads the study table from a delimited text file with a header row.
// It implements ports.DatasetReader.
type Reader struct {
	path      string
	delimiter rune
}

// NewReader creates a reader for a comma-delimited file
func NewReader(path string) *Reader {
	return &Reader{path: path, delimiter: ','}
}

// NewReaderWithDelimiter creates a reader with an explicit field delimiter
func NewReaderWithDelimiter(path string, delimiter rune) *Reader {
	return &Reader{path: path, delimiter: delimiter}
}

// Read parses the file into a Dataset. The header is validated against the
// study schema before any row is parsed; a row with the wrong field count or
// non-numeric text in a measurement column aborts the load. Failures carry
// the matching application error code.
func (r *Reader) Read(ctx context.Context) (*health.Dataset, error) {
	ds, err := r.read(ctx)
	if err != nil {
		return nil, errors.Classify(err)
	}
	return ds, nil
}

func (r *Reader) read(ctx context.Context) (*health.Dataset, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, core.NewLoadError(r.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = r.delimiter
	// Field count is checked against the schema, not the csv package, so the
	// mismatch surfaces as a load error with a line number.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, core.NewLoadError(r.path, fmt.Errorf("reading header: %w", err))
	}
	schema, err := health.NewSchema(header)
	if err != nil {
		return nil, err
	}

	var observations []health.Observation
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.NewLoadError(r.path, fmt.Errorf("reading line %d: %w", line+1, err))
		}
		line++
		obs, err := schema.ParseRow(record, line)
		if err != nil {
			return nil, err
		}
		observations = append(observations, obs)
	}

	return health.NewDataset(observations), nil
}
