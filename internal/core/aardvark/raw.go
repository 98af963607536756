package aardvark

import (
	"bytes"
	"encoding/json"

	perr "aardsync/internal/platform/errors"
)

// RawRecord is a fetched document validated at the boundary.
// It is one of AardvarkRaw or LegacyRaw
type RawRecord interface {
	Mode() Mode
	Fields() map[string]any
}

// AardvarkRaw is a current-dialect object
type AardvarkRaw struct{ fields map[string]any }

// Mode implements RawRecord
func (AardvarkRaw) Mode() Mode { return ModeAardvark }

// Fields implements RawRecord
func (a AardvarkRaw) Fields() map[string]any { return a.fields }

// LegacyRaw is a GeoBlacklight 1.0 object
type LegacyRaw struct{ fields map[string]any }

// Mode implements RawRecord
func (LegacyRaw) Mode() Mode { return ModeLegacy }

// Fields implements RawRecord
func (l LegacyRaw) Fields() map[string]any { return l.fields }

// DecodeRaw validates raw for mode. Legacy documents that arrive as a JSON
// string holding the real object are unwrapped once. Anything that is not an
// object after that is a schema error
func DecodeRaw(mode Mode, raw json.RawMessage) (RawRecord, error) {
	v, err := decode(raw)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDecode, "invalid JSON")
	}

	if s, ok := v.(string); ok && mode == ModeLegacy {
		v, err = decode([]byte(s))
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeSchema, "failed to parse double-encoded JSON string")
		}
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, perr.Schemaf("%s record must be a JSON object, got %s", mode, kindOf(v))
	}
	switch mode {
	case ModeAardvark:
		return AardvarkRaw{fields: obj}, nil
	case ModeLegacy:
		return LegacyRaw{fields: obj}, nil
	}
	return nil, perr.InvalidArgf("unknown schema mode %q", mode)
}

// ToRecord turns a decoded document into an Aardvark record, crosswalking legacy input with cw
func ToRecord(raw RawRecord, cw Crosswalker) Record {
	if raw.Mode() == ModeLegacy {
		return cw.FromLegacy(raw.Fields())
	}
	return Record(raw.Fields())
}

func decode(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, perr.JSONErrf("trailing data after JSON value")
	}
	return v, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	}
	return "object"
}
