package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	perr "aardsync/internal/platform/errors"
	"aardsync/internal/platform/logger"
	kit "aardsync/internal/platform/testkit"
)

func chain(h http.Handler, mw ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

func TestCorrelate_PropagatesRequestID(t *testing.T) {
	var seen string
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestID(r.Context())
	}), RequestID(), Correlate())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if seen != "abc-123" {
		t.Fatalf("logger request id = %q", seen)
	}
	if rr.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("response header = %q", rr.Header().Get("X-Request-ID"))
	}
}

func TestAccessLog_LevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger.Init(logger.Options{Level: "debug", Format: "json", Writer: &buf})

	ok := AccessLogZerolog(AccessLogOptions{})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hello"))
	}))
	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/meta/health", nil))
	kit.MustContain(t, buf.String(), `"level":"info"`)
	kit.MustContain(t, buf.String(), `"bytes":5`)
	kit.MustContain(t, buf.String(), `"path":"/api/v1/meta/health"`)

	buf.Reset()
	fail := AccessLogZerolog(AccessLogOptions{})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	fail.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))
	kit.MustContain(t, buf.String(), `"level":"error"`)
	kit.MustContain(t, buf.String(), `"status":502`)

	buf.Reset()
	slow := AccessLogZerolog(AccessLogOptions{Slow: time.Nanosecond})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		time.Sleep(time.Millisecond)
	}))
	slow.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/slow", nil))
	kit.MustContain(t, buf.String(), `"level":"warn"`)
}

func TestRecoverJSON(t *testing.T) {
	logger.Init(logger.Options{Level: "error", Writer: &bytes.Buffer{}})
	h := chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("kaboom") }),
		RequestID(), Correlate(), RecoverJSON)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	var body panicWire
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != perr.ErrorCodePanic || body.RequestID != "rid-1" {
		t.Fatalf("body = %+v", body)
	}
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS(CORSOptions{AllowedOrigins: []string{"https://catalog.example.edu"}})(http.NotFoundHandler())
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/sync/scan", nil)
	req.Header.Set("Origin", "https://catalog.example.edu")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://catalog.example.edu" {
		t.Fatalf("allow origin = %q", got)
	}
}
