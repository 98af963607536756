// Package github is a rate-limit-aware GitHub REST v3 client for reading
// repository trees and file contents and writing files back
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"aardsync/internal/core/version"
	"aardsync/internal/platform/config"
	perr "aardsync/internal/platform/errors"
	"aardsync/internal/platform/logger"

	"github.com/cenkalti/backoff/v4"
)

const (
	baseURLDefault    = "https://api.github.com"
	rawBaseURLDefault = "https://raw.githubusercontent.com"
	defaultTimeout    = 10 * time.Second
	defaultMaxRetry   = 3
	defaultRetryBase  = 500 * time.Millisecond
	maxBodyBytes      = 32 << 20
)

// Options configures the Client
type Options struct {
	BaseURL    string
	RawBaseURL string
	UserAgent  string
	Timeout    time.Duration

	// Token is a personal access token; empty means anonymous with a 60/h quota
	Token string

	// MaxRetries bounds retries of transport failures and 502/503/504.
	// Rate limited answers are never retried
	MaxRetries int
	RetryBase  time.Duration
}

// FromConfig reads CORE_FORGE_* settings
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_FORGE_")
	return Options{
		BaseURL:    c.MayURL("BASE_URL", baseURLDefault),
		RawBaseURL: c.MayURL("RAW_BASE_URL", rawBaseURLDefault),
		Token:      c.MayString("TOKEN", cfg.MayString("GITHUB_TOKEN", "")),
		Timeout:    c.MayDuration("TIMEOUT", defaultTimeout),
		MaxRetries: c.MayInt("RETRIES", defaultMaxRetry),
	}
}

// Client talks to the REST API and the raw content mirror
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	token string
}

// NewClient creates a new Client with defaults for unset options
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.RawBaseURL == "" {
		o.RawBaseURL = rawBaseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = version.UserAgent()
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("forge"),
		now:   time.Now,
		token: o.Token,
	}
}

// WithToken returns a client sharing the transport that authenticates with token.
// An empty token keeps the configured one
func (c *Client) WithToken(token string) *Client {
	if token == "" || token == c.token {
		return c
	}
	cp := *c
	cp.token = token
	return &cp
}

// Authenticated reports whether requests carry a token
func (c *Client) Authenticated() bool { return c.token != "" }

// request calls the REST API and decodes a 2xx body into out when out is non-nil
func (c *Client) request(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeInvalidArgument, "forge: encode request body")
		}
		payload = b
	}
	data, err := c.do(ctx, method, c.opts.BaseURL+path, payload, false)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDecode, "forge: decode %s %s", method, path)
	}
	return nil
}

// do runs one logical request with retries for transient failures and returns the 2xx body.
// raw requests go to the content mirror without auth
func (c *Client) do(ctx context.Context, method, url string, payload []byte, raw bool) ([]byte, error) {
	var out []byte
	attempt := 0

	op := func() error {
		attempt++
		var rd io.Reader
		if payload != nil {
			rd = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, rd)
		if err != nil {
			return backoff.Permanent(perr.Wrap(err, perr.ErrorCodeInvalidArgument, "forge: build request"))
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		if !raw {
			req.Header.Set("Accept", "application/vnd.github+json")
			if c.token != "" {
				req.Header.Set("Authorization", "token "+c.token)
			}
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := c.now()
		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return perr.Wrapf(err, perr.ErrorCodeUnavailable, "forge: %s %s", method, url)
		}
		b, rerr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		_ = resp.Body.Close()

		rl := parseRateHeaders(resp.Header)
		c.log.Debug().
			Str("method", method).
			Str("url", url).
			Int("status", resp.StatusCode).
			Int("attempt", attempt).
			Dur("latency", c.now().Sub(start)).
			Int("rate_remaining", rl.Remaining).
			Msg("forge http response")

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if rerr != nil {
				return perr.Wrapf(rerr, perr.ErrorCodeUnavailable, "forge: read body %s %s", method, url)
			}
			out = b
			return nil
		}

		serr := classify(resp, rl, b, raw)
		if transient(resp.StatusCode) {
			return serr
		}
		return backoff.Permanent(serr)
	}

	notify := func(err error, wait time.Duration) {
		c.log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", wait).Msg("forge transient error, retrying")
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.opts.MaxRetries)), ctx)
	if err := backoff.RetryNotify(op, bo, notify); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) newBackOff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.opts.RetryBase
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0
	bo.Reset()
	return bo
}
