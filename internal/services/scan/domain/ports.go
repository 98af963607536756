package domain

import (
	"context"

	"aardsync/internal/core/forge"
)

// ScannerPort is what other modules call
type ScannerPort interface {
	Scan(ctx context.Context, ref forge.RepoRef) (ScanResult, error)
}

// Forge is the subset of the forge client a scan needs
type Forge interface {
	GetRepo(ctx context.Context, owner, repo string) (forge.Repo, error)
	BranchHead(ctx context.Context, ref forge.RepoRef) (string, error)
	ListTree(ctx context.Context, ref forge.RepoRef, sha string, recursive bool) (forge.Tree, error)
}
