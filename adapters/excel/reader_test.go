package excel

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"healthstudy/domain/core"
	"healthstudy/internal/errors"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "study.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func headerRow() []interface{} {
	return []interface{}{"age", "sex", "weight", "height", "systolic", "diastolic", "cholesterol", "smoker", "disease"}
}

func TestReadValidWorkbook(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		headerRow(),
		{30, "M", 80, 180, 125, 80, 190, 1, 1},
		{40, "F", 65, 165, 118, 75, 180, 0, 0},
	})

	ds, err := NewReader(path).Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("expected 2 observations, got %d", ds.Len())
	}
	obs := ds.Observations()
	if obs[1].Sex != "F" || obs[1].Smoker {
		t.Fatalf("second row misparsed: %+v", obs[1])
	}
}

func TestReadWorkbookMissingColumn(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"age", "sex", "weight", "height", "systolic", "diastolic", "cholesterol", "smoker"},
		{30, "M", 80, 180, 125, 80, 190, 1},
	})
	if _, err := NewReader(path).Read(context.Background()); !core.IsLoadError(err) {
		t.Fatalf("expected load error for missing column, got %v", err)
	}
}

func TestReadWorkbookTextInNumericColumn(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		headerRow(),
		{"thirty", "M", 80, 180, 125, 80, 190, 1, 1},
	})
	if _, err := NewReader(path).Read(context.Background()); !core.IsParseError(err) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestReadWorkbookTrailingEmptyCellIsMissing(t *testing.T) {
	// The disease cell carries a value but cholesterol is left empty; excelize
	// keeps the row ragged, the reader pads it back to schema width.
	path := writeWorkbook(t, [][]interface{}{
		headerRow(),
		{30, "M", 80, 180, 125, 80, nil, 1, 1},
	})
	ds, err := NewReader(path).Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	missing, err := ds.MissingCount("cholesterol")
	if err != nil {
		t.Fatalf("missing: %v", err)
	}
	if missing != 1 {
		t.Fatalf("expected 1 missing cholesterol value, got %d", missing)
	}
}

func TestReadMissingWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.xlsx")
	_, err := NewReader(path).Read(context.Background())
	if !core.IsLoadError(err) {
		t.Fatalf("expected load error, got %v", err)
	}
	if got := errors.GetCode(err); got != errors.CodeLoadError {
		t.Fatalf("expected LOAD_ERROR code, got %s", got)
	}
}
