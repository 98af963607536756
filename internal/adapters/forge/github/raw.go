package github

import (
	"context"
	"encoding/json"
	"net/http"

	"aardsync/internal/core/forge"
	perr "aardsync/internal/platform/errors"
)

// RawURL builds the raw mirror URL for path, escaping each segment
func (c *Client) RawURL(ref forge.RepoRef, path string) string {
	return c.opts.RawBaseURL + "/" + ref.Owner + "/" + ref.Repo + "/" + ref.Branch + "/" + escapePath(path)
}

// GetPublicJSON fetches path from the raw content mirror. It sends no token and
// does not spend REST quota, which is why bulk imports use it
func (c *Client) GetPublicJSON(ctx context.Context, ref forge.RepoRef, path string) (json.RawMessage, error) {
	b, err := c.do(ctx, http.MethodGet, c.RawURL(ref, path), nil, true)
	if err != nil {
		return nil, err
	}
	b, err = toUTF8(b)
	if err != nil {
		return nil, perr.WithOp(err, path)
	}
	if !json.Valid(b) {
		return nil, perr.Decodef("%s is not valid JSON", path)
	}
	return json.RawMessage(b), nil
}
