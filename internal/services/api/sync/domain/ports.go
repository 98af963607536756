package domain

import (
	"context"
	"encoding/json"

	"aardsync/internal/core/forge"
	impdom "aardsync/internal/services/importer/domain"
	recdom "aardsync/internal/services/records/domain"
	rundom "aardsync/internal/services/runs/domain"
	scandom "aardsync/internal/services/scan/domain"
	wbdom "aardsync/internal/services/writeback/domain"
)

// Backends are the worker ports the api drives. The forge facing ones are
// built per request so a caller token is honored
type Backends struct {
	Scanner  func(token string) scandom.ScannerPort
	Importer func(token string) impdom.ImporterPort
	Writer   func(token string) wbdom.WriterPort
	Reader   func(token string) Reader

	Records recdom.ServicePort
	Runs    rundom.RunLogPort // optional
}

// Reader is the direct forge read surface used by the editor
type Reader interface {
	VerifyRepoAndBranch(ctx context.Context, ref forge.RepoRef) error
	ReadJSONFile(ctx context.Context, ref forge.RepoRef, path string) (json.RawMessage, error)
	GetBlob(ctx context.Context, ref forge.RepoRef, sha string) (json.RawMessage, error)
}

// Response payloads owned by the worker modules
type (
	ScanResult   = scandom.ScanResult
	ImportReport = impdom.ImportReport
	RunRow       = rundom.RunRow
	StoredRecord = recdom.StoredRecord
)
