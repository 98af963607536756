package domain

import (
	"context"

	"aardsync/internal/core/aardvark"
)

// ServicePort is consumed by the importer, the api and the cli
type ServicePort interface {
	// Import stores rec now or, when deferred, at the next Commit.
	// It returns 0 when rec has no usable identifier
	Import(ctx context.Context, rec aardvark.Record, opts ImportOptions) (int, error)
	// Commit flushes deferred records in one transaction
	Commit(ctx context.Context) error
	Get(ctx context.Context, id string) (StoredRecord, error)
	Count(ctx context.Context) (int64, error)
	// Export hands every record to fn as indented JSON without empty values
	Export(ctx context.Context, fn func(id string, doc []byte) error) (int, error)
	EnsureSchema(ctx context.Context) error
}

// Row is one upsert
type Row struct {
	ID         string
	Title      string
	Doc        []byte
	SourcePath string
}

// Repo is the storage contract bound to a querier
type Repo interface {
	EnsureSchema(ctx context.Context) error
	Upsert(ctx context.Context, rows []Row) (int64, error)
	Get(ctx context.Context, id string) (StoredRecord, error)
	Count(ctx context.Context) (int64, error)
	Each(ctx context.Context, fn func(StoredRecord) error) error
}
