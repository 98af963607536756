//go:build integration_pg

package repo_test

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"aardsync/internal/core/aardvark"
	perr "aardsync/internal/platform/errors"
	"aardsync/internal/platform/store"
	"aardsync/internal/services/records/domain"
	"aardsync/internal/services/records/repo"
	"aardsync/internal/services/records/service"

	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "records",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/records?sslmode=disable", host, mp.Port())
}

func TestRecords_Integration_ImportCommitExport(t *testing.T) {
	dsn := startPostgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st, err := store.Open(ctx, store.Config{PG: store.PGConfig{Enabled: true, URL: dsn, MaxConns: 4}},
		store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	svc := service.New(st.PG, repo.NewPG(), service.Config{Batch: 2, LockTimeout: "5s"})
	if err := svc.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := svc.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema twice: %v", err)
	}

	opts := domain.ImportOptions{Deferred: true, SourcePath: "metadata-aardvark/a.json"}
	for _, rec := range []aardvark.Record{
		{"id": "a", "dct_title_s": "old"},
		{"id": "b", "dct_title_s": "B", "gbl_indexYear_im": []any{1901}},
		{"id": "c", "dct_title_s": "C", "dct_description_sm": nil},
		{"id": "a", "dct_title_s": "A"},
	} {
		if _, err := svc.Import(ctx, rec, opts); err != nil {
			t.Fatalf("Import: %v", err)
		}
	}
	if n, _ := svc.Count(ctx); n != 0 {
		t.Fatalf("deferred records visible before commit: %d", n)
	}
	if err := svc.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if n, _ := svc.Count(ctx); n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}

	got, err := svc.Get(ctx, "a")
	if err != nil || got.Title != "A" || got.SourcePath != "metadata-aardvark/a.json" || got.Doc.Title() != "A" {
		t.Fatalf("Get(a) = %+v, %v", got, err)
	}
	if _, err := svc.Get(ctx, "missing"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}

	if _, err := svc.Import(ctx, aardvark.Record{"id": "a", "dct_title_s": "A2"}, domain.ImportOptions{}); err != nil {
		t.Fatalf("immediate Import: %v", err)
	}
	got, _ = svc.Get(ctx, "a")
	if got.Title != "A2" || got.SourcePath != "metadata-aardvark/a.json" {
		t.Fatalf("upsert should replace doc and keep source path, got %+v", got)
	}

	files := map[string]string{}
	n, err := svc.Export(ctx, func(id string, doc []byte) error {
		files[id] = string(doc)
		return nil
	})
	if err != nil || n != 3 {
		t.Fatalf("Export = %d, %v", n, err)
	}
	if files["c"] != "{\n  \"dct_title_s\": \"C\",\n  \"id\": \"c\"\n}\n" {
		t.Fatalf("export c = %q", files["c"])
	}
	if files["b"] != "{\n  \"dct_title_s\": \"B\",\n  \"gbl_indexYear_im\": [\n    1901\n  ],\n  \"id\": \"b\"\n}\n" {
		t.Fatalf("export b = %q", files["b"])
	}
}
