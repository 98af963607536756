// Package repo provides clickhouse access for the import run log
package repo

import (
	"context"
	"fmt"

	perr "aardsync/internal/platform/errors"
	"aardsync/internal/platform/store"
	"aardsync/internal/services/runs/domain"
)

const (
	runsTable     = "import_runs"
	failuresTable = "import_failures"
)

var schemaSQL = []string{
	`CREATE TABLE IF NOT EXISTS import_runs (
		run_id      UUID,
		repo        String,
		branch      String,
		mode        LowCardinality(String),
		processed   UInt32,
		total       UInt32,
		successes   UInt32,
		failures    UInt32,
		cancelled   Bool,
		started_at  DateTime64(3, 'UTC'),
		finished_at DateTime64(3, 'UTC')
	) ENGINE = MergeTree
	ORDER BY (repo, started_at)`,
	`CREATE TABLE IF NOT EXISTS import_failures (
		run_id  UUID,
		repo    String,
		path    String,
		message String,
		at      DateTime64(3, 'UTC')
	) ENGINE = MergeTree
	ORDER BY (run_id, path)`,
}

// CH implements domain.Repo over the store.Clickhouse seam
type CH struct {
	ch store.Clickhouse
}

// NewCH returns a clickhouse backed domain.Repo
func NewCH(ch store.Clickhouse) *CH { return &CH{ch: ch} }

var _ domain.Repo = (*CH)(nil)

// EnsureSchema creates the run log tables when missing
func (r *CH) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaSQL {
		if err := r.ch.Exec(ctx, stmt); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeDB, "ensure run log schema")
		}
	}
	return nil
}

// InsertRun appends one summary row
func (r *CH) InsertRun(ctx context.Context, row domain.RunRow) error {
	err := r.ch.Insert(ctx, runsTable, [][]any{{
		row.RunID,
		row.Repo,
		row.Branch,
		row.Mode,
		row.Processed,
		row.Total,
		row.Successes,
		row.Failures,
		row.Cancelled,
		row.StartedAt.UTC(),
		row.FinishedAt.UTC(),
	}})
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "insert %s", runsTable)
	}
	return nil
}

// InsertFailures appends the failed files of a run in one batch
func (r *CH) InsertFailures(ctx context.Context, rows []domain.FailureRow) error {
	if len(rows) == 0 {
		return nil
	}
	batch := make([][]any, 0, len(rows))
	for _, f := range rows {
		batch = append(batch, []any{f.RunID, f.Repo, f.Path, f.Message, f.At.UTC()})
	}
	if err := r.ch.Insert(ctx, failuresTable, batch); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "insert %d %s", len(rows), failuresTable)
	}
	return nil
}

const recentSQL = `
	SELECT run_id, repo, branch, mode, processed, total, successes, failures,
	       cancelled, started_at, finished_at
	  FROM import_runs
	 ORDER BY started_at DESC
	 LIMIT %d`

// Recent lists the newest runs first
func (r *CH) Recent(ctx context.Context, limit int) ([]domain.RunRow, error) {
	rows, err := r.ch.Query(ctx, fmt.Sprintf(recentSQL, limit))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "query %s", runsTable)
	}
	defer rows.Close()

	out := []domain.RunRow{}
	for rows.Next() {
		var x domain.RunRow
		if err := rows.Scan(
			&x.RunID, &x.Repo, &x.Branch, &x.Mode,
			&x.Processed, &x.Total, &x.Successes, &x.Failures,
			&x.Cancelled, &x.StartedAt, &x.FinishedAt,
		); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeDB, "scan %s", runsTable)
		}
		out = append(out, x)
	}
	if err := perr.WrapIf(rows.Err(), perr.ErrorCodeDB, "iterate "+runsTable); err != nil {
		return nil, err
	}
	return out, nil
}
