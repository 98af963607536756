package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "aardsync/internal/platform/net/http"
)

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestMount_Disabled(t *testing.T) {
	srv := phttp.NewServer(":0")
	Mount(srv.Router(), false)
	if rr := get(srv.Handler(), "/api/docs/doc.json"); rr.Code != http.StatusNotFound {
		t.Fatalf("doc.json status = %d, want 404", rr.Code)
	}
}

func TestMount_ServesDocument(t *testing.T) {
	srv := phttp.NewServer(":0")
	Mount(srv.Router(), true)

	rr := get(srv.Handler(), "/api/docs/doc.json")
	if rr.Code != http.StatusOK {
		t.Fatalf("doc.json status = %d", rr.Code)
	}
	if cc := rr.Header().Get("Cache-Control"); cc != "no-store" {
		t.Fatalf("Cache-Control = %q", cc)
	}
	var doc map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc.json is not JSON: %v", err)
	}
	if v, _ := doc["openapi"].(string); v != "3.0.3" {
		t.Fatalf("openapi = %v", doc["openapi"])
	}
	if _, ok := doc["servers"]; !ok {
		t.Fatal("servers missing")
	}

	if rr := get(srv.Handler(), "/api/docs"); rr.Code != http.StatusPermanentRedirect || rr.Header().Get("Location") != "/api/docs/" {
		t.Fatalf("redirect = %d %q", rr.Code, rr.Header().Get("Location"))
	}
}
