// Package domain holds the write back ports
package domain

import (
	"context"

	"aardsync/internal/core/aardvark"
	"aardsync/internal/core/forge"
)

// WriterPort is what other modules call
type WriterPort interface {
	Upsert(ctx context.Context, ref forge.RepoRef, path string, content []byte, message string) error
	UpsertJSON(ctx context.Context, ref forge.RepoRef, path string, v any, message string) error
	UpsertRecord(ctx context.Context, ref forge.RepoRef, rec aardvark.Record, message string) (string, error)
}

// Forge is the subset of the forge client the writer needs
type Forge interface {
	GetFileMeta(ctx context.Context, ref forge.RepoRef, path string) (forge.FileMeta, bool, error)
	PutFile(ctx context.Context, ref forge.RepoRef, path, content, message string, knownSHA *string) error
}
