// Package domain holds the import run log types and ports
package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunRow is one import_runs row
type RunRow struct {
	RunID      uuid.UUID `json:"run_id"`
	Repo       string    `json:"repo"`
	Branch     string    `json:"branch"`
	Mode       string    `json:"mode"`
	Processed  uint32    `json:"processed"`
	Total      uint32    `json:"total"`
	Successes  uint32    `json:"successes"`
	Failures   uint32    `json:"failures"`
	Cancelled  bool      `json:"cancelled"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// FailureRow is one import_failures row
type FailureRow struct {
	RunID   uuid.UUID
	Repo    string
	Path    string
	Message string
	At      time.Time
}
