package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"healthstudy/domain/core"
	"healthstudy/domain/health"
	"healthstudy/internal/errors"
)

// Reader loads the study table from the first sheet of an Excel workbook.
// It implements ports.DatasetReader with the same schema and error semantics
// as the CSV reader.
type Reader struct {
	path  string
	sheet string
}

// NewReader creates a reader for the workbook's first sheet
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// NewReaderForSheet creates a reader for a named sheet
func NewReaderForSheet(path, sheet string) *Reader {
	return &Reader{path: path, sheet: sheet}
}

// Read parses the sheet into a Dataset. Failures carry the matching
// application error code.
func (r *Reader) Read(ctx context.Context) (*health.Dataset, error) {
	ds, err := r.read(ctx)
	if err != nil {
		return nil, errors.Classify(err)
	}
	return ds, nil
}

func (r *Reader) read(ctx context.Context) (*health.Dataset, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, core.NewLoadError(r.path, err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, core.NewLoadError(r.path, fmt.Errorf("reading sheet %q: %w", sheet, err))
	}
	if len(rows) == 0 {
		return nil, core.NewLoadError(r.path, fmt.Errorf("sheet %q is empty", sheet))
	}

	schema, err := health.NewSchema(rows[0])
	if err != nil {
		return nil, err
	}

	var observations []health.Observation
	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := i + 2
		// excelize drops trailing empty cells, so pad the row back to the
		// header width before the schema checks it.
		if len(row) < schema.Width() {
			padded := make([]string, schema.Width())
			copy(padded, row)
			row = padded
		}
		obs, err := schema.ParseRow(row, line)
		if err != nil {
			return nil, err
		}
		observations = append(observations, obs)
	}

	return health.NewDataset(observations), nil
}
