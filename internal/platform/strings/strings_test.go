package strings

import (
	"reflect"
	"testing"
)

func TestIfEmpty(t *testing.T) {
	t.Parallel()
	if got := IfEmpty([]int{1, 2}, []int{9}); len(got) != 2 {
		t.Fatalf("IfEmpty returned default for non-empty input: %#v", got)
	}
	if got := IfEmpty(nil, []string{"x"}); len(got) != 1 || got[0] != "x" {
		t.Fatalf("IfEmpty did not return default: %#v", got)
	}
}

func TestMustStringAndPrefix(t *testing.T) {
	t.Parallel()
	if MustString("sync", "name") != "sync" {
		t.Fatal("MustString changed input")
	}
	if got := MustPrefix(" sync/ "); got != "/sync" {
		t.Fatalf("MustPrefix = %q", got)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for empty prefix")
		}
	}()
	MustPrefix(" / ")
}

func TestDedupe(t *testing.T) {
	t.Parallel()
	got := Dedupe([]string{"English", "", "French", "English", "  "})
	want := []string{"English", "French"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Dedupe = %#v, want %#v", got, want)
	}
	if Dedupe(nil) != nil {
		t.Fatal("Dedupe(nil) should be nil")
	}
}

func TestHead(t *testing.T) {
	t.Parallel()
	in := []string{"a", "b", "c", "d", "e", "f"}
	if got := Head(in, 5); len(got) != 5 || got[4] != "e" {
		t.Fatalf("Head(5) = %#v", got)
	}
	if got := Head(in[:2], 5); len(got) != 2 {
		t.Fatalf("Head short = %#v", got)
	}
	if got := Head(in, -1); len(got) != 0 {
		t.Fatalf("Head negative = %#v", got)
	}
}

func TestRepoPath(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in, want string
		ok       bool
	}{
		{"metadata-aardvark/a.json", "metadata-aardvark/a.json", true},
		{" /json/b.json/ ", "json/b.json", true},
		{"  ", "", false},
		{" / ", "", false},
		{"a//b.json", "", false},
		{"a/ /b.json", "", false},
		{"../x.json", "", false},
		{"a/./b.json", "", false},
	}
	for _, c := range cases {
		got, ok := RepoPath(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("RepoPath(%q) = %q, %v; want %q, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}
