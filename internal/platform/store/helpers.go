package store

import (
	"context"
	"errors"

	perr "aardsync/internal/platform/errors"

	"github.com/jackc/pgx/v5"
)

// Scalar queries the first row, first column into T
// a missing row maps to perr.ErrNotFound
func Scalar[T any](ctx context.Context, q RowQuerier, sql string, args ...any) (T, error) {
	var v T
	if err := q.QueryRow(ctx, sql, args...).Scan(&v); err != nil {
		var zero T
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, perr.ErrNotFound
		}
		return zero, err
	}
	return v, nil
}

// Each scans every row with scan and hands the result to fn, stopping at the first error
func Each[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), fn func(T) error, sql string, args ...any) error {
	rs, err := q.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rs.Close()

	r := &rowFromRows{rows: rs}
	for rs.Next() {
		item, err := scan(r)
		if err != nil {
			return err
		}
		if err := fn(item); err != nil {
			return err
		}
	}
	return rs.Err()
}

// rowFromRows gives a Row facade over a current Rows position
type rowFromRows struct{ rows Rows }

func (r *rowFromRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }

// IsNoRows reports a single-row query that matched nothing
func IsNoRows(err error) bool { return errors.Is(err, pgx.ErrNoRows) }
