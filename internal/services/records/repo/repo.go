// Package repo provides postgres access for imported records
package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"aardsync/internal/core/aardvark"
	"aardsync/internal/modkit/repokit"
	perr "aardsync/internal/platform/errors"
	"aardsync/internal/platform/store"
	"aardsync/internal/services/records/domain"
)

type (
	// PG is a Postgres binder for domain.Repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.Repo
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

var schemaSQL = []string{
	`CREATE TABLE IF NOT EXISTS resources (
		id          text PRIMARY KEY,
		title       text NOT NULL DEFAULT '',
		doc         jsonb NOT NULL,
		source_path text,
		updated_at  timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS resources_updated_at_idx ON resources (updated_at DESC)`,
}

// EnsureSchema creates the resources table when missing
func (r *queries) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaSQL {
		if _, err := r.q.Exec(ctx, stmt); err != nil {
			return perr.FromPostgres(err, "ensure resources schema")
		}
	}
	return nil
}

const upsertSQL = `
	INSERT INTO resources (id, title, doc, source_path, updated_at)
	VALUES ($1, $2, $3::jsonb, NULLIF($4, ''), now())
	ON CONFLICT (id) DO UPDATE SET
		title       = EXCLUDED.title,
		doc         = EXCLUDED.doc,
		source_path = COALESCE(EXCLUDED.source_path, resources.source_path),
		updated_at  = now()
`

// Upsert writes rows in one pipelined batch when the querier supports it
func (r *queries) Upsert(ctx context.Context, rows []domain.Row) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	args := make([][]any, 0, len(rows))
	for _, row := range rows {
		args = append(args, []any{row.ID, row.Title, string(row.Doc), row.SourcePath})
	}
	n, err := repokit.ExecMany(ctx, r.q, upsertSQL, args)
	if err != nil {
		return n, perr.FromPostgresf(err, "upsert %d resources", len(rows))
	}
	return n, nil
}

const selectSQL = `SELECT id, title, doc::text, COALESCE(source_path, ''), updated_at FROM resources`

// Get loads one record by id
func (r *queries) Get(ctx context.Context, id string) (domain.StoredRecord, error) {
	rec, err := scanRecord(r.q.QueryRow(ctx, selectSQL+` WHERE id = $1`, id))
	if err != nil {
		if store.IsNoRows(err) {
			return domain.StoredRecord{}, perr.NotFoundf("record %q not found", id)
		}
		return domain.StoredRecord{}, perr.FromPostgresf(err, "get record %q", id)
	}
	return rec, nil
}

// Count returns the number of stored records
func (r *queries) Count(ctx context.Context) (int64, error) {
	n, err := store.Scalar[int64](ctx, r.q, `SELECT count(*) FROM resources`)
	return n, perr.FromPostgres(err, "count resources")
}

// Each streams every record ordered by id
func (r *queries) Each(ctx context.Context, fn func(domain.StoredRecord) error) error {
	return store.Each(ctx, r.q, scanRecord, fn, selectSQL+` ORDER BY id`)
}

func scanRecord(row store.Row) (domain.StoredRecord, error) {
	var (
		out domain.StoredRecord
		doc string
		ts  time.Time
	)
	if err := row.Scan(&out.ID, &out.Title, &doc, &out.SourcePath, &ts); err != nil {
		return out, err
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(doc)))
	dec.UseNumber()
	if err := dec.Decode(&out.Doc); err != nil {
		return out, perr.Wrapf(err, perr.ErrorCodeDecode, "record %s doc", out.ID)
	}
	out.UpdatedAt = ts.UTC()
	if out.Doc == nil {
		out.Doc = aardvark.Record{}
	}
	return out, nil
}
