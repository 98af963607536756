// Package strings provides string and slice helpers shared across services
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString returns s if it has non whitespace content otherwise panics
// name is used in the panic message so you can tell what was missing
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes and asserts a root path like /sync or /meta
// panics if the input is empty after trimming
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// Dedupe drops blank and repeated values, keeping first-seen order
func Dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if std.TrimSpace(s) == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Head returns at most n leading elements of in
func Head[T any](in []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(in) <= n {
		return in
	}
	return in[:n]
}

// RepoPath trims surrounding blanks and slashes from a repository path.
// ok is false when nothing is left or a segment is blank, "." or ".."
func RepoPath(p string) (clean string, ok bool) {
	clean = std.Trim(std.TrimSpace(p), "/")
	if clean == "" {
		return "", false
	}
	for seg := range std.SplitSeq(clean, "/") {
		if s := std.TrimSpace(seg); s == "" || s == "." || s == ".." {
			return "", false
		}
	}
	return clean, true
}
