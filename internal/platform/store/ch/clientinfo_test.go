package ch

import (
	"context"
	"testing"
)

func TestBuildClientInfo(t *testing.T) {
	info := BuildClientInfo("cli", "")
	if len(info.Products) != 4 {
		t.Fatalf("products = %d, want 4", len(info.Products))
	}
	if info.Products[0].Name != "aardsync" {
		t.Fatalf("default name = %q", info.Products[0].Name)
	}
	if info.Products[1].Name != "role" || info.Products[1].Version != "cli" {
		t.Fatalf("role product = %+v", info.Products[1])
	}
}

func TestOpen_RejectsBadDSN(t *testing.T) {
	if _, err := Open(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for empty dsn")
	}
	if _, err := Open(context.Background(), Config{URL: "::not a dsn"}); err == nil {
		t.Fatal("expected error for unparsable dsn")
	}
}
