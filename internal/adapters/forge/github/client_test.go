package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"aardsync/internal/core/forge"
	perr "aardsync/internal/platform/errors"
)

var ref = forge.RepoRef{Owner: "acme", Repo: "maps", Branch: "main"}

func newTestClient(t *testing.T, h http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(Options{
		BaseURL:    srv.URL,
		RawBaseURL: srv.URL + "/raw",
		Token:      "pat-123",
		MaxRetries: 2,
		RetryBase:  time.Millisecond,
	})
	return c, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestRequest_Headers(t *testing.T) {
	var got http.Header
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeJSON(w, 200, map[string]any{"full_name": "acme/maps", "default_branch": "main"})
	}))
	repo, err := c.GetRepo(context.Background(), "acme", "maps")
	if err != nil {
		t.Fatalf("GetRepo: %v", err)
	}
	if repo.DefaultBranch != "main" {
		t.Fatalf("repo = %+v", repo)
	}
	if got.Get("Authorization") != "token pat-123" {
		t.Fatalf("Authorization = %q", got.Get("Authorization"))
	}
	if got.Get("Accept") != "application/vnd.github+json" {
		t.Fatalf("Accept = %q", got.Get("Accept"))
	}
	if !strings.HasPrefix(got.Get("User-Agent"), "aardsync/") {
		t.Fatalf("User-Agent = %q", got.Get("User-Agent"))
	}
}

func TestRequest_AnonymousAndWithToken(t *testing.T) {
	var auth atomic.Value
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		writeJSON(w, 200, map[string]any{})
	}))
	anon := NewClient(Options{BaseURL: srv.URL})
	if anon.Authenticated() {
		t.Fatal("anonymous client claims auth")
	}
	_, _ = anon.GetRepo(context.Background(), "a", "b")
	if auth.Load().(string) != "" {
		t.Fatalf("anonymous request sent %q", auth.Load())
	}

	_, _ = c.WithToken("other").GetRepo(context.Background(), "a", "b")
	if auth.Load().(string) != "token other" {
		t.Fatalf("override token not used: %q", auth.Load())
	}
	if c.WithToken("") != c {
		t.Fatal("empty override should return the same client")
	}
}

func TestRequest_RateLimitNotRetried(t *testing.T) {
	var calls atomic.Int32
	reset := time.Date(2026, 10, 19, 9, 30, 0, 0, time.Local)
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", itoa(reset.Unix()))
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := c.GetRepo(context.Background(), "acme", "maps")
	if !forge.IsRateLimited(err) {
		t.Fatalf("want rate limit, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("rate limit retried: %d calls", calls.Load())
	}
	want := "GitHub Rate Limit Exceeded. Limit: 60, Remaining: 0. Resets at 09:30:00. Provide a Token!"
	if err.Error() != want {
		t.Fatalf("message = %q", err.Error())
	}
	if perr.HTTPStatus(err) != http.StatusTooManyRequests {
		t.Fatalf("status = %d", perr.HTTPStatus(err))
	}
}

func TestRequest_429IsRateLimit(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	_, err := c.GetRepo(context.Background(), "acme", "maps")
	if !forge.IsRateLimited(err) {
		t.Fatalf("want rate limit, got %v", err)
	}
}

func TestRequest_TransientRetriedThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, 200, map[string]any{"default_branch": "trunk"})
	}))
	repo, err := c.GetRepo(context.Background(), "acme", "maps")
	if err != nil || repo.DefaultBranch != "trunk" {
		t.Fatalf("repo=%+v err=%v", repo, err)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d", calls.Load())
	}
}

func TestRequest_TransientExhausted(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	_, err := c.GetRepo(context.Background(), "acme", "maps")
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 1 + 2 retries", calls.Load())
	}
}

func TestRequest_StatusClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		code   perr.ErrorCode
	}{
		{"not found", 404, `{"message":"Not Found"}`, perr.ErrorCodeNotFound},
		{"conflict 409", 409, `{"message":"sha does not match"}`, perr.ErrorCodeConflict},
		{"conflict 422", 422, `{"message":"x.json does not match 1234"}`, perr.ErrorCodeConflict},
		{"plain 422", 422, `{"message":"Invalid request"}`, perr.ErrorCodeUpstream},
		{"teapot", 418, `short and stout`, perr.ErrorCodeUpstream},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			_, err := c.GetRepo(context.Background(), "acme", "maps")
			if !perr.IsCode(err, tc.code) {
				t.Fatalf("want %v, got %v", tc.code, err)
			}
			var se *forge.StatusError
			if !asStatus(err, &se) || se.Status != tc.status {
				t.Fatalf("status error missing or wrong: %v", err)
			}
		})
	}
}

func TestRequest_ContextCancelled(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.GetRepo(ctx, "acme", "maps"); err == nil {
		t.Fatal("expected error on cancelled context")
	}
}

func TestFromConfig(t *testing.T) {
	t.Setenv("CORE_FORGE_BASE_URL", "https://ghe.example.com/api/v3/")
	t.Setenv("CORE_FORGE_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv("CORE_FORGE_TIMEOUT", "3s")
	t.Setenv("CORE_FORGE_RETRIES", "1")

	o := FromConfig(testConf())
	if o.BaseURL != "https://ghe.example.com/api/v3" || o.RawBaseURL != rawBaseURLDefault {
		t.Fatalf("urls = %q %q", o.BaseURL, o.RawBaseURL)
	}
	if o.Token != "env-token" || o.Timeout != 3*time.Second || o.MaxRetries != 1 {
		t.Fatalf("options = %+v", o)
	}
}

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }
