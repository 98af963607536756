package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"aardsync/internal/core/forge"
	perr "aardsync/internal/platform/errors"
)

// GetRepo fetches repository metadata
func (c *Client) GetRepo(ctx context.Context, owner, repo string) (forge.Repo, error) {
	var out forge.Repo
	err := c.request(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s", owner, repo), nil, &out)
	return out, err
}

// BranchHead resolves the head commit sha of ref.Branch
func (c *Client) BranchHead(ctx context.Context, ref forge.RepoRef) (string, error) {
	var out branchResp
	p := fmt.Sprintf("/repos/%s/%s/branches/%s", ref.Owner, ref.Repo, escapePath(ref.Branch))
	if err := c.request(ctx, http.MethodGet, p, nil, &out); err != nil {
		return "", err
	}
	if out.Commit.SHA == "" {
		return "", perr.Decodef("forge: branch %s has no head commit", ref.Branch)
	}
	return out.Commit.SHA, nil
}

// VerifyRepoAndBranch checks that the repository is reachable and the branch exists
func (c *Client) VerifyRepoAndBranch(ctx context.Context, ref forge.RepoRef) error {
	if _, err := c.GetRepo(ctx, ref.Owner, ref.Repo); err != nil {
		return err
	}
	_, err := c.BranchHead(ctx, ref)
	return err
}

// ListTree lists the tree object sha, recursively when asked.
// A truncated listing is logged and flagged, not an error
func (c *Client) ListTree(ctx context.Context, ref forge.RepoRef, sha string, recursive bool) (forge.Tree, error) {
	p := fmt.Sprintf("/repos/%s/%s/git/trees/%s", ref.Owner, ref.Repo, sha)
	if recursive {
		p += "?recursive=1"
	}
	var out treeResp
	if err := c.request(ctx, http.MethodGet, p, nil, &out); err != nil {
		return forge.Tree{}, err
	}
	if out.Truncated {
		c.log.Warn().Str("repo", ref.FullName()).Str("sha", sha).Msg("tree response truncated, some files may be missing")
	}

	entries := make([]forge.TreeEntry, 0, len(out.Tree))
	for _, e := range out.Tree {
		kind := forge.KindTree
		if e.Type == string(forge.KindBlob) {
			kind = forge.KindBlob
		}
		entries = append(entries, forge.TreeEntry{Path: e.Path, SHA: e.SHA, Kind: kind})
	}
	return forge.Tree{Entries: entries, Truncated: out.Truncated}, nil
}

// GetBlob fetches a blob by sha and returns its content as validated JSON
func (c *Client) GetBlob(ctx context.Context, ref forge.RepoRef, sha string) (json.RawMessage, error) {
	var out contentResp
	p := fmt.Sprintf("/repos/%s/%s/git/blobs/%s", ref.Owner, ref.Repo, sha)
	if err := c.request(ctx, http.MethodGet, p, nil, &out); err != nil {
		return nil, err
	}
	return decodeJSONContent(out, "blob "+sha)
}

// GetFileMeta returns the current sha of path on ref.Branch. A missing file is found=false with no error
func (c *Client) GetFileMeta(ctx context.Context, ref forge.RepoRef, path string) (forge.FileMeta, bool, error) {
	var out contentResp
	if err := c.request(ctx, http.MethodGet, contentsPath(ref, path, true), nil, &out); err != nil {
		if forge.IsNotFound(err) {
			return forge.FileMeta{}, false, nil
		}
		return forge.FileMeta{}, false, err
	}
	return forge.FileMeta{Path: out.Path, SHA: out.SHA}, true, nil
}

// ReadJSONFile reads path through the contents API and returns its JSON
func (c *Client) ReadJSONFile(ctx context.Context, ref forge.RepoRef, path string) (json.RawMessage, error) {
	var out contentResp
	if err := c.request(ctx, http.MethodGet, contentsPath(ref, path, true), nil, &out); err != nil {
		return nil, err
	}
	return decodeJSONContent(out, path)
}

// PutFile creates or replaces path on ref.Branch. knownSHA must be the current
// revision when replacing and nil when creating
func (c *Client) PutFile(ctx context.Context, ref forge.RepoRef, path, content, message string, knownSHA *string) error {
	body := putReq{
		Message: message,
		Content: content,
		Branch:  ref.Branch,
		SHA:     knownSHA,
	}
	return c.request(ctx, http.MethodPut, contentsPath(ref, path, false), body, nil)
}

func contentsPath(ref forge.RepoRef, path string, withRef bool) string {
	p := fmt.Sprintf("/repos/%s/%s/contents/%s", ref.Owner, ref.Repo, escapePath(path))
	if withRef && ref.Branch != "" {
		p += "?ref=" + url.QueryEscape(ref.Branch)
	}
	return p
}

// escapePath escapes each segment and keeps the slashes
func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
