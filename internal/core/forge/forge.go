// Package forge holds the value types shared by the forge adapter and the sync services
package forge

import (
	"errors"
	"net/url"
	"strings"

	perr "aardsync/internal/platform/errors"
)

// DefaultBranch is what callers get when they do not name a branch.
// Scans switch away from it when the repository reports another default
const DefaultBranch = "main"

// RepoRef identifies a branch of a hosted repository
type RepoRef struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Branch string `json:"branch"`
}

// FullName renders owner/repo
func (r RepoRef) FullName() string { return r.Owner + "/" + r.Repo }

// WithBranch returns a copy of r on branch b
func (r RepoRef) WithBranch(b string) RepoRef {
	r.Branch = b
	return r
}

// Kind is a tree entry type
type Kind string

// Tree entry kinds; every non-blob type from the forge is treated as a tree
const (
	KindBlob Kind = "blob"
	KindTree Kind = "tree"
)

// TreeEntry is one node of a git tree listing
type TreeEntry struct {
	Path string `json:"path"`
	SHA  string `json:"sha"`
	Kind Kind   `json:"kind"`
}

// Tree is a listing plus the forge's truncation flag
type Tree struct {
	Entries   []TreeEntry
	Truncated bool
}

// Repo is the subset of repository metadata the engine reads
type Repo struct {
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
}

// FileMeta is the revision identity of a file on a branch
type FileMeta struct {
	Path string `json:"path"`
	SHA  string `json:"sha"`
}

// ParseRepoURL accepts https://github.com/owner/repo[/...] or owner/repo.
// Branch is left empty
func ParseRepoURL(raw string) (RepoRef, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return RepoRef{}, perr.InvalidArgf("repository url is empty")
	}

	var parts []string
	if u, err := url.Parse(s); err == nil && u.Scheme != "" && u.Host != "" {
		for p := range strings.SplitSeq(u.Path, "/") {
			if p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) < 2 {
			return RepoRef{}, invalidRepo(raw)
		}
	} else {
		parts = strings.Split(strings.Trim(s, "/"), "/")
		if len(parts) != 2 {
			return RepoRef{}, invalidRepo(raw)
		}
	}

	owner, repo := parts[0], strings.TrimSuffix(parts[1], ".git")
	if owner == "" || repo == "" {
		return RepoRef{}, invalidRepo(raw)
	}
	return RepoRef{Owner: owner, Repo: repo}, nil
}

func invalidRepo(raw string) error {
	return perr.WithField(
		perr.InvalidArgf("invalid repository url %q, expected https://github.com/owner/repo", raw),
		"repo_url",
	)
}

// IsRateLimited reports whether err came from a forge quota rejection
func IsRateLimited(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl) || perr.IsCode(err, perr.ErrorCodeTooManyRequests)
}

// IsNotFound reports a forge 404
func IsNotFound(err error) bool { return perr.IsCode(err, perr.ErrorCodeNotFound) }

// IsConflict reports a stale revision rejected on write
func IsConflict(err error) bool { return perr.IsCode(err, perr.ErrorCodeConflict) }
