package domain

import (
	"context"
	"encoding/json"

	"aardsync/internal/core/aardvark"
	"aardsync/internal/core/forge"
	scandom "aardsync/internal/services/scan/domain"
)

// ImporterPort is what other modules call
type ImporterPort interface {
	Run(ctx context.Context, res scandom.ScanResult, ref forge.RepoRef) (ImportReport, error)
}

// Fetcher retrieves one file as JSON
type Fetcher interface {
	FetchJSON(ctx context.Context, ref forge.RepoRef, path string) (json.RawMessage, error)
}

// Crosswalk converts legacy documents
type Crosswalk = aardvark.Crosswalker

// RecordSink persists imported records. Import returns the number of records
// accepted; zero means the record had no usable identifier
type RecordSink interface {
	Import(ctx context.Context, rec aardvark.Record, opts ImportOptions) (int, error)
	Commit(ctx context.Context) error
}

// RunRecorder keeps an audit trail of runs
type RunRecorder interface {
	RecordRun(ctx context.Context, rep ImportReport) error
}

// ProgressObserver is told about progress after every chunk
type ProgressObserver interface {
	OnProgress(p ImportProgress)
}

// ObserverFunc adapts a func to ProgressObserver
type ObserverFunc func(ImportProgress)

// OnProgress implements ProgressObserver
func (f ObserverFunc) OnProgress(p ImportProgress) { f(p) }
