// Package domain holds the record store contracts
package domain

import (
	"time"

	"aardsync/internal/core/aardvark"
)

// ImportOptions controls persistence of one imported record
type ImportOptions struct {
	// Deferred buffers the record until Commit
	Deferred bool
	// SourcePath is the repository path the record was read from
	SourcePath string
}

// StoredRecord is a record as persisted
type StoredRecord struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Doc        aardvark.Record `json:"doc"`
	SourcePath string          `json:"source_path,omitempty"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
