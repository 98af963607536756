// Package domain holds the bulk import types and ports
package domain

import (
	"time"

	"aardsync/internal/core/aardvark"
	recdom "aardsync/internal/services/records/domain"

	"github.com/google/uuid"
)

// Defaults for a run
const (
	DefaultChunk    = 50
	DefaultErrorLog = 100
)

// ImportOptions is the record store's per-record flag set
type ImportOptions = recdom.ImportOptions

// ImportProgress counts one run. Values never decrease and Processed never exceeds Total
type ImportProgress struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
}

// ErrorLogEntry is one failed file
type ErrorLogEntry struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ImportReport is the outcome of one run
type ImportReport struct {
	RunID      uuid.UUID       `json:"run_id"`
	Repo       string          `json:"repo"`
	Branch     string          `json:"branch"`
	Mode       aardvark.Mode   `json:"mode"`
	Progress   ImportProgress  `json:"progress"`
	Errors     []ErrorLogEntry `json:"errors"`
	Cancelled  bool            `json:"cancelled"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
}
