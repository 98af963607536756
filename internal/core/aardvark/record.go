// Package aardvark holds the OpenGeoMetadata Aardvark record model, the
// boundary decoder for fetched JSON and the GeoBlacklight 1.0 crosswalk
package aardvark

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Mode names the schema dialect a batch of files is written in
type Mode string

const (
	// ModeAardvark is the current dialect, stored as is
	ModeAardvark Mode = "aardvark"
	// ModeLegacy is GeoBlacklight 1.0, crosswalked before storage
	ModeLegacy Mode = "legacy"
)

// Valid reports whether m is a known mode
func (m Mode) Valid() bool { return m == ModeAardvark || m == ModeLegacy }

// Field names used across the codebase
const (
	FieldID         = "id"
	FieldTitle      = "dct_title_s"
	FieldMDVersion  = "gbl_mdVersion_s"
	FieldReferences = "dct_references_s"
)

// Record is one Aardvark metadata document
type Record map[string]any

// ID returns the trimmed identifier or "" when the record has none usable
func (r Record) ID() string { return scalar(r[FieldID]) }

// Title returns the trimmed title or ""
func (r Record) Title() string { return scalar(r[FieldTitle]) }

// Compact returns a copy without null and empty-string values
func (r Record) Compact() Record {
	out := make(Record, len(r))
	for k, v := range r {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// MarshalIndent renders r the way files in a metadata repository are laid out
func (r Record) MarshalIndent() ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// scalar renders strings and numbers, anything else is ""
func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	}
	return ""
}
