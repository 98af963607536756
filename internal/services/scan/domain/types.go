// Package domain holds the repository scanner types and ports
package domain

import (
	"fmt"
	"strings"

	"aardsync/internal/core/aardvark"
	"aardsync/internal/core/forge"
)

// Folder conventions tried before falling back to a full walk
const (
	AardvarkDir = "metadata-aardvark"
	LegacyDir   = "json"
)

// SampleSize caps the paths quoted when a scan finds nothing
const SampleSize = 5

// ScanResult is the immutable outcome of one scan.
// Files holds JSON blobs only, unique by path, in discovery order
type ScanResult struct {
	Files     []forge.TreeEntry `json:"files"`
	Mode      aardvark.Mode     `json:"mode"`
	Branch    string            `json:"branch"`
	Truncated bool              `json:"truncated"`
}

// Paths lists the selected file paths
func (r ScanResult) Paths() []string {
	out := make([]string, len(r.Files))
	for i, f := range r.Files {
		out[i] = f.Path
	}
	return out
}

// NoMetadataError reports a scan that found files but no JSON metadata
type NoMetadataError struct {
	Total  int
	Sample []string
}

func (e *NoMetadataError) Error() string {
	return fmt.Sprintf("Scanned %d files but found no JSON files. Sample paths: %s", e.Total, strings.Join(e.Sample, ", "))
}
