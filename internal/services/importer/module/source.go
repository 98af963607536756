package module

import (
	"context"
	"encoding/json"

	"aardsync/internal/adapters/forge/github"
	"aardsync/internal/core/forge"
	"aardsync/internal/services/importer/domain"
)

// Fetch sources
const (
	SourceRaw      = "raw"      // raw content mirror, public repos, no REST quota
	SourceContents = "contents" // contents api, works for private repos with a token
)

// NewFetcher returns the domain.Fetcher reading through source; unknown values use raw
func NewFetcher(c *github.Client, source string) domain.Fetcher {
	if source == SourceContents {
		return contentsSource{c: c}
	}
	return rawSource{c: c}
}

type rawSource struct{ c *github.Client }

func (s rawSource) FetchJSON(ctx context.Context, ref forge.RepoRef, path string) (json.RawMessage, error) {
	return s.c.GetPublicJSON(ctx, ref, path)
}

type contentsSource struct{ c *github.Client }

func (s contentsSource) FetchJSON(ctx context.Context, ref forge.RepoRef, path string) (json.RawMessage, error) {
	return s.c.ReadJSONFile(ctx, ref, path)
}
