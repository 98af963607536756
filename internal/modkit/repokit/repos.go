// Package repokit provides common types and helpers for repository implementations
package repokit

import (
	"context"

	"aardsync/internal/platform/store"
)

type (
	// Queryer is the minimal read and write surface for SQL repos
	Queryer = store.RowQuerier

	// TxRunner can execute a function inside a transaction
	TxRunner = store.TxRunner

	// Batcher pipelines one statement over many arg sets
	Batcher = store.Batcher

	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single row result from a query
	Row = store.Row

	// CommandTag is the result of a command that modifies data
	CommandTag = store.CommandTag
)

// WithTx runs fn inside a transaction using the provided TxRunner
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}

// ExecMany runs sql once per arg set, pipelined when q supports it.
// Returns the summed rows affected
func ExecMany(ctx context.Context, q Queryer, sql string, argSets [][]any) (int64, error) {
	if b, ok := q.(Batcher); ok {
		return b.ExecBatch(ctx, sql, argSets)
	}
	var total int64
	for _, args := range argSets {
		tag, err := q.Exec(ctx, sql, args...)
		if err != nil {
			return total, err
		}
		if tag != nil {
			total += tag.RowsAffected()
		}
	}
	return total, nil
}
