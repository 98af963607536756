package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"aardsync/internal/core/forge"
	perr "aardsync/internal/platform/errors"
)

func TestBranchHeadAndListTree(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/maps/branches/main", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]any{"name": "main", "commit": map[string]any{"sha": "head1"}})
	})
	mux.HandleFunc("/repos/acme/maps/git/trees/head1", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("recursive") != "1" {
			t.Errorf("expected recursive listing, got %q", r.URL.RawQuery)
		}
		writeJSON(w, 200, map[string]any{
			"truncated": true,
			"tree": []map[string]any{
				{"path": "a.json", "type": "blob", "sha": "s1"},
				{"path": "dir", "type": "tree", "sha": "s2"},
				{"path": "vendor/lib", "type": "commit", "sha": "s3"},
			},
		})
	})
	c, _ := newTestClient(t, mux)

	head, err := c.BranchHead(context.Background(), ref)
	if err != nil || head != "head1" {
		t.Fatalf("head=%q err=%v", head, err)
	}
	tree, err := c.ListTree(context.Background(), ref, head, true)
	if err != nil {
		t.Fatalf("ListTree: %v", err)
	}
	if !tree.Truncated {
		t.Fatal("truncation flag lost")
	}
	kinds := []forge.Kind{forge.KindBlob, forge.KindTree, forge.KindTree}
	for i, e := range tree.Entries {
		if e.Kind != kinds[i] {
			t.Fatalf("entry %d kind = %q", i, e.Kind)
		}
	}
}

func TestVerifyRepoAndBranch_MissingBranch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/maps", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]any{"default_branch": "main"})
	})
	mux.HandleFunc("/repos/acme/maps/branches/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(404)
	})
	c, _ := newTestClient(t, mux)
	if err := c.VerifyRepoAndBranch(context.Background(), ref.WithBranch("nope")); !forge.IsNotFound(err) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestGetBlob(t *testing.T) {
	doc := `{"id":"x","dct_title_s":"Café"}`
	wrapped := b64(doc)
	wrapped = wrapped[:10] + "\n" + wrapped[10:] + "\n"

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/maps/git/blobs/ok", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]any{"encoding": "base64", "content": wrapped})
	})
	mux.HandleFunc("/repos/acme/maps/git/blobs/bom", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]any{"encoding": "base64", "content": b64("\ufeff" + doc)})
	})
	mux.HandleFunc("/repos/acme/maps/git/blobs/utf8", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]any{"encoding": "utf-8", "content": doc})
	})
	mux.HandleFunc("/repos/acme/maps/git/blobs/notjson", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]any{"encoding": "base64", "content": b64("not json")})
	})
	mux.HandleFunc("/repos/acme/maps/git/blobs/latin1", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]any{"encoding": "base64", "content": "eyJhIjoiQ2Fm6SJ9"})
	})
	c, _ := newTestClient(t, mux)

	for _, sha := range []string{"ok", "bom"} {
		raw, err := c.GetBlob(context.Background(), ref, sha)
		if err != nil {
			t.Fatalf("GetBlob(%s): %v", sha, err)
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil || m["dct_title_s"] != "Café" {
			t.Fatalf("GetBlob(%s) = %s err=%v", sha, raw, err)
		}
	}
	for _, sha := range []string{"utf8", "notjson", "latin1"} {
		if _, err := c.GetBlob(context.Background(), ref, sha); !perr.IsCode(err, perr.ErrorCodeDecode) {
			t.Fatalf("GetBlob(%s) want decode error, got %v", sha, err)
		}
	}
}

func TestGetFileMeta(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.EscapedPath() {
		case "/repos/acme/maps/contents/metadata-aardvark/a%20b.json":
			if r.URL.Query().Get("ref") != "main" {
				t.Errorf("ref query = %q", r.URL.RawQuery)
			}
			writeJSON(w, 200, map[string]any{"path": "metadata-aardvark/a b.json", "sha": "abc"})
		case "/repos/acme/maps/contents/boom.json":
			w.WriteHeader(500)
		default:
			w.WriteHeader(404)
		}
	}))

	meta, found, err := c.GetFileMeta(context.Background(), ref, "metadata-aardvark/a b.json")
	if err != nil || !found || meta.SHA != "abc" {
		t.Fatalf("meta=%+v found=%v err=%v", meta, found, err)
	}
	_, found, err = c.GetFileMeta(context.Background(), ref, "missing.json")
	if err != nil || found {
		t.Fatalf("missing: found=%v err=%v", found, err)
	}
	if _, _, err = c.GetFileMeta(context.Background(), ref, "boom.json"); !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("boom: want upstream, got %v", err)
	}
}

func TestPutFile_ShaOnlyWhenKnown(t *testing.T) {
	var bodies []map[string]any
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/repos/acme/maps/contents/metadata-aardvark/x.json" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		b, _ := io.ReadAll(r.Body)
		var m map[string]any
		_ = json.Unmarshal(b, &m)
		bodies = append(bodies, m)
		writeJSON(w, 201, map[string]any{})
	}))

	if err := c.PutFile(context.Background(), ref, "metadata-aardvark/x.json", EncodeContent([]byte("{}")), "create", nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	sha := "old-sha"
	if err := c.PutFile(context.Background(), ref, "metadata-aardvark/x.json", EncodeContent([]byte("{}")), "update", &sha); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, ok := bodies[0]["sha"]; ok {
		t.Fatalf("create body carries sha: %v", bodies[0])
	}
	if bodies[1]["sha"] != "old-sha" || bodies[1]["branch"] != "main" || bodies[1]["message"] != "update" {
		t.Fatalf("update body = %v", bodies[1])
	}
	if bodies[0]["content"] != "e30=" {
		t.Fatalf("content = %v", bodies[0]["content"])
	}
}

func TestReadJSONFile(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]any{"encoding": "base64", "content": b64(`{"k":1}`), "sha": "s"})
	}))
	raw, err := c.ReadJSONFile(context.Background(), ref, "config.json")
	if err != nil || strings.TrimSpace(string(raw)) != `{"k":1}` {
		t.Fatalf("raw=%s err=%v", raw, err)
	}
}

func TestEncodeDecodeContent_Unicode(t *testing.T) {
	s := "Zürich 東京 🗺"
	got, err := DecodeContent(EncodeContent([]byte(s)))
	if err != nil || string(got) != s {
		t.Fatalf("got %q err=%v", got, err)
	}
	if _, err := DecodeContent("!!!"); !perr.IsCode(err, perr.ErrorCodeDecode) {
		t.Fatalf("want decode error, got %v", err)
	}
}
