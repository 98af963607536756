package service

import (
	"context"
	"path"
	"strings"

	"aardsync/internal/core/aardvark"
	"aardsync/internal/core/forge"
	"aardsync/internal/services/scan/domain"
)

// walker lists trees for one scan and remembers the branch head and root
// listing once they have been fetched successfully
type walker struct {
	forge domain.Forge
	ref   forge.RepoRef

	head      string
	root      []forge.TreeEntry
	truncated bool
}

func (w *walker) headSHA(ctx context.Context) (string, error) {
	if w.head != "" {
		return w.head, nil
	}
	sha, err := w.forge.BranchHead(ctx, w.ref)
	if err != nil {
		return "", err
	}
	w.head = sha
	return sha, nil
}

func (w *walker) list(ctx context.Context, sha string, recursive bool) ([]forge.TreeEntry, error) {
	t, err := w.forge.ListTree(ctx, w.ref, sha, recursive)
	if err != nil {
		return nil, err
	}
	if t.Truncated {
		w.truncated = true
	}
	return t.Entries, nil
}

// subtree returns the recursive listing of the top-level folder dir with paths
// prefixed by dir. A missing folder yields no entries and no error
func (w *walker) subtree(ctx context.Context, dir string) ([]forge.TreeEntry, error) {
	if w.root == nil {
		head, err := w.headSHA(ctx)
		if err != nil {
			return nil, err
		}
		root, err := w.list(ctx, head, false)
		if err != nil {
			return nil, err
		}
		w.root = root
	}

	for _, e := range w.root {
		if e.Path != dir || e.Kind != forge.KindTree {
			continue
		}
		entries, err := w.list(ctx, e.SHA, true)
		if err != nil {
			return nil, err
		}
		out := make([]forge.TreeEntry, len(entries))
		for i, c := range entries {
			c.Path = path.Join(dir, c.Path)
			out[i] = c
		}
		return out, nil
	}
	return nil, nil
}

// full lists the whole branch recursively
func (w *walker) full(ctx context.Context) ([]forge.TreeEntry, error) {
	head, err := w.headSHA(ctx)
	if err != nil {
		return nil, err
	}
	return w.list(ctx, head, true)
}

// reclassify keeps unique JSON blobs and picks the mode from their paths.
// The bool reports that nothing matched a known folder and legacy was assumed
func reclassify(entries []forge.TreeEntry, mode aardvark.Mode) ([]forge.TreeEntry, aardvark.Mode, bool) {
	var all, modern, legacy []forge.TreeEntry
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Kind != forge.KindBlob || !strings.HasSuffix(e.Path, ".json") {
			continue
		}
		if _, dup := seen[e.Path]; dup {
			continue
		}
		seen[e.Path] = struct{}{}
		all = append(all, e)
		if strings.Contains(e.Path, domain.AardvarkDir) {
			modern = append(modern, e)
		}
		if hasSegment(e.Path, domain.LegacyDir) {
			legacy = append(legacy, e)
		}
	}

	switch {
	case len(all) == 0:
		return nil, mode, false
	case len(modern) > 0:
		return modern, aardvark.ModeAardvark, false
	case len(legacy) > 0:
		return legacy, aardvark.ModeLegacy, false
	}
	return all, aardvark.ModeLegacy, true
}

func hasSegment(p, seg string) bool {
	for s := range strings.SplitSeq(p, "/") {
		if s == seg {
			return true
		}
	}
	return false
}

func sample(entries []forge.TreeEntry) []string {
	n := min(len(entries), domain.SampleSize)
	out := make([]string, 0, n)
	for _, e := range entries[:n] {
		out = append(out, e.Path)
	}
	return out
}
