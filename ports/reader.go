package ports

import (
	"context"

	"healthstudy/domain/health"
)

// DatasetReader loads the study table from a source file into an immutable
// Dataset. Implementations validate the header against the study schema and
// fail loudly on malformed rows; they never repair or skip data.
type DatasetReader interface {
	Read(ctx context.Context) (*health.Dataset, error)
}
