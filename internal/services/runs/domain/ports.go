package domain

import (
	"context"

	impdom "aardsync/internal/services/importer/domain"
)

// RunLogPort is what other modules call
type RunLogPort interface {
	RecordRun(ctx context.Context, rep impdom.ImportReport) error
	Recent(ctx context.Context, limit int) ([]RunRow, error)
}

// Repo is the clickhouse storage surface
type Repo interface {
	EnsureSchema(ctx context.Context) error
	InsertRun(ctx context.Context, r RunRow) error
	InsertFailures(ctx context.Context, rows []FailureRow) error
	Recent(ctx context.Context, limit int) ([]RunRow, error)
}
