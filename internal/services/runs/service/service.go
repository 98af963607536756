// Package service writes the import audit trail
package service

import (
	"context"
	"sync"
	"time"

	perr "aardsync/internal/platform/errors"
	"aardsync/internal/platform/logger"
	impdom "aardsync/internal/services/importer/domain"
	"aardsync/internal/services/runs/domain"
)

const (
	defaultRecent = 20
	maxRecent     = 500
)

// Service implements domain.RunLogPort. A nil Repo turns every call into a no-op
type Service struct {
	Repo domain.Repo

	mu     sync.Mutex
	schema bool
	now    func() time.Time
}

// New constructs a run log over repo; repo may be nil when clickhouse is disabled
func New(repo domain.Repo) *Service {
	return &Service{Repo: repo, now: time.Now}
}

// Enabled reports whether runs are persisted
func (s *Service) Enabled() bool { return s != nil && s.Repo != nil }

// EnsureSchema creates the tables once per process. A failure is retried on the next call
func (s *Service) EnsureSchema(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schema {
		return nil
	}
	if err := s.Repo.EnsureSchema(ctx); err != nil {
		return err
	}
	s.schema = true
	return nil
}

// RecordRun writes one summary row and one row per logged failure
func (s *Service) RecordRun(ctx context.Context, rep impdom.ImportReport) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.EnsureSchema(ctx); err != nil {
		return perr.WithOp(err, "runs.ensure")
	}

	finished := rep.FinishedAt
	if finished.IsZero() {
		finished = s.now()
	}
	if err := s.Repo.InsertRun(ctx, toRunRow(rep, finished)); err != nil {
		return perr.WithOp(err, "runs.insert")
	}

	if len(rep.Errors) == 0 {
		return nil
	}
	failures := make([]domain.FailureRow, 0, len(rep.Errors))
	for _, e := range rep.Errors {
		failures = append(failures, domain.FailureRow{
			RunID:   rep.RunID,
			Repo:    rep.Repo,
			Path:    e.Path,
			Message: e.Message,
			At:      finished,
		})
	}
	if err := s.Repo.InsertFailures(ctx, failures); err != nil {
		return perr.WithOp(err, "runs.failures")
	}

	logger.C(ctx).Debug().
		Str("run_id", rep.RunID.String()).
		Int("failures", len(failures)).
		Msg("run log written")
	return nil
}

// Recent lists the newest runs. limit <= 0 means 20 and is capped at 500
func (s *Service) Recent(ctx context.Context, limit int) ([]domain.RunRow, error) {
	if !s.Enabled() {
		return []domain.RunRow{}, nil
	}
	if limit <= 0 {
		limit = defaultRecent
	}
	limit = min(limit, maxRecent)
	if err := s.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return s.Repo.Recent(ctx, limit)
}

func toRunRow(rep impdom.ImportReport, finished time.Time) domain.RunRow {
	p := rep.Progress
	return domain.RunRow{
		RunID:      rep.RunID,
		Repo:       rep.Repo,
		Branch:     rep.Branch,
		Mode:       string(rep.Mode),
		Processed:  uint32(max(p.Processed, 0)),
		Total:      uint32(max(p.Total, 0)),
		Successes:  uint32(max(p.Successes, 0)),
		Failures:   uint32(max(p.Failures, 0)),
		Cancelled:  rep.Cancelled,
		StartedAt:  rep.StartedAt,
		FinishedAt: finished,
	}
}
