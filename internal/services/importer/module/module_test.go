package module

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aardsync/internal/adapters/forge/github"
	"aardsync/internal/core/aardvark"
	"aardsync/internal/core/forge"
	"aardsync/internal/modkit"
	"aardsync/internal/platform/config"
	kit "aardsync/internal/platform/testkit"
	"aardsync/internal/services/importer/domain"
	"aardsync/internal/services/importer/service"
)

type nopSink struct{}

func (nopSink) Import(context.Context, aardvark.Record, domain.ImportOptions) (int, error) {
	return 1, nil
}
func (nopSink) Commit(context.Context) error { return nil }

func TestFromConfig(t *testing.T) {
	c := FromConfig(config.New())
	if c.Service.Chunk != 50 || c.Service.ErrorLog != 100 || c.Source != SourceRaw {
		t.Fatalf("defaults = %+v", c)
	}
	t.Setenv("CORE_IMPORT_CHUNK", "10")
	t.Setenv("CORE_IMPORT_ERROR_LOG", "5")
	t.Setenv("CORE_IMPORT_SOURCE", "Contents")
	c = FromConfig(config.New())
	if c.Service.Chunk != 10 || c.Service.ErrorLog != 5 || c.Source != SourceContents {
		t.Fatalf("env = %+v", c)
	}
}

func TestNew_RequiresForgeAndSink(t *testing.T) {
	kit.MustPanic(t, func() { New(modkit.Deps{}) })
	deps := modkit.Deps{Forge: github.NewClient(github.Options{})}
	kit.MustPanic(t, func() { New(deps) })
}

func TestObserved(t *testing.T) {
	deps := modkit.Deps{Cfg: config.New(), Forge: github.NewClient(github.Options{})}
	m := New(deps, modkit.WithPorts(Collaborators{Sink: nopSink{}}))
	if m.Name() != "importer" {
		t.Fatalf("name = %q", m.Name())
	}
	shared := m.Ports().(Ports)
	if m.WithToken("") != shared {
		t.Fatal("empty token should reuse shared ports")
	}
	obs := domain.ObserverFunc(func(domain.ImportProgress) {})
	p := m.Observed("tok", obs)
	svc, ok := p.Importer.(*service.Service)
	if !ok || svc.Observer == nil || svc.Cfg.Chunk != 50 || svc.Fetch == nil {
		t.Fatalf("observed ports = %#v", p.Importer)
	}
}

func TestNewFetcher_Sources(t *testing.T) {
	var hits []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.URL.Path)
		switch {
		case strings.HasPrefix(r.URL.Path, "/raw/"):
			_, _ = io.WriteString(w, `{"id":"raw"}`)
		default:
			// contents api answers base64 of {"id":"api"}
			_, _ = io.WriteString(w, `{"path":"a.json","sha":"s","encoding":"base64","content":"eyJpZCI6ImFwaSJ9"}`)
		}
	}))
	defer srv.Close()
	c := github.NewClient(github.Options{BaseURL: srv.URL, RawBaseURL: srv.URL + "/raw", MaxRetries: -1})
	ref := forge.RepoRef{Owner: "acme", Repo: "maps", Branch: "main"}

	raw, err := NewFetcher(c, SourceRaw).FetchJSON(context.Background(), ref, "json/a.json")
	if err != nil || string(raw) != `{"id":"raw"}` {
		t.Fatalf("raw = %s, %v", raw, err)
	}
	api, err := NewFetcher(c, SourceContents).FetchJSON(context.Background(), ref, "json/a.json")
	if err != nil || string(api) != `{"id":"api"}` {
		t.Fatalf("contents = %s, %v", api, err)
	}
	if hits[0] != "/raw/acme/maps/main/json/a.json" || hits[1] != "/repos/acme/maps/contents/json/a.json" {
		t.Fatalf("hits = %v", hits)
	}
}
