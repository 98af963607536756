package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aardsync/internal/modkit/httpkit"
	perr "aardsync/internal/platform/errors"
	phttp "aardsync/internal/platform/net/http"
	"aardsync/internal/services/api/sync/domain"
	svc "aardsync/internal/services/api/sync/service"

	"github.com/google/uuid"
)

// importOnly answers Import and leaves every other use case unimplemented
type importOnly struct {
	svc.Service
	rep domain.ImportReport
	err error
}

func (s importOnly) Import(context.Context, domain.RepoInput) (domain.ImportReport, error) {
	return s.rep, s.err
}

type envelope struct {
	StatusCode int                  `json:"status_code"`
	Error      string               `json:"error"`
	Data       *domain.ImportReport `json:"data"`
}

func postImport(t *testing.T, s svc.Service) (int, envelope) {
	t.Helper()
	srv := phttp.NewServer(":0")
	httpkit.MountUnder(srv.Router(), "/sync", nil, func(r httpkit.Router) { Register(r, s) })

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(stdhttp.MethodPost, "/sync/import", strings.NewReader(`{"repo_url":"acme/maps"}`))
	srv.Handler().ServeHTTP(rr, req)

	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad body %q", rr.Body.String())
	}
	return rr.Code, env
}

func partial(cancelled bool) domain.ImportReport {
	rep := domain.ImportReport{RunID: uuid.New(), Repo: "acme/maps", Branch: "main", Cancelled: cancelled}
	rep.Progress.Processed, rep.Progress.Total, rep.Progress.Successes = 50, 120, 49
	return rep
}

func TestImport_CancelledRunReturnsReport(t *testing.T) {
	code, env := postImport(t, importOnly{rep: partial(true), err: context.Canceled})
	if code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if env.Data == nil || !env.Data.Cancelled || env.Data.Progress.Processed != 50 {
		t.Fatalf("data = %+v", env.Data)
	}
}

func TestImport_CommitFailureCarriesReport(t *testing.T) {
	commit := perr.WithOp(perr.New(perr.ErrorCodeDB, "disk full"), "commit")
	cases := []struct {
		name string
		rep  domain.ImportReport
		err  error
	}{
		{"completed run", partial(false), errors.Join(nil, commit)},
		{"cancelled run", partial(true), errors.Join(context.Canceled, commit)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			code, env := postImport(t, importOnly{rep: c.rep, err: c.err})
			if code != stdhttp.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", code)
			}
			if env.Error == "" || env.Data == nil || env.Data.Progress.Successes != 49 {
				t.Fatalf("envelope = %+v", env)
			}
		})
	}
}

func TestImport_FailureBeforeRunHasNoReport(t *testing.T) {
	code, env := postImport(t, importOnly{err: perr.NotFoundf("forge: not found")})
	if code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
	if env.Data != nil {
		t.Fatalf("unexpected data %+v", env.Data)
	}
}
