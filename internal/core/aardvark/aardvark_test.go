package aardvark

import (
	"encoding/json"
	"strings"
	"testing"

	perr "aardsync/internal/platform/errors"
	kit "aardsync/internal/platform/testkit"
)

func TestRecord_IDAndTitle(t *testing.T) {
	cases := []struct {
		rec  Record
		id   string
		name string
	}{
		{Record{"id": "  abc "}, "abc", "trimmed string"},
		{Record{"id": json.Number("42")}, "42", "number"},
		{Record{"id": 7.0}, "7", "float"},
		{Record{"id": "   "}, "", "blank"},
		{Record{"id": []any{"x"}}, "", "array"},
		{Record{}, "", "missing"},
	}
	for _, c := range cases {
		if got := c.rec.ID(); got != c.id {
			t.Fatalf("%s: ID() = %q, want %q", c.name, got, c.id)
		}
	}
	if got := (Record{"dct_title_s": " Roads "}).Title(); got != "Roads" {
		t.Fatalf("Title() = %q", got)
	}
}

func TestRecord_Compact(t *testing.T) {
	r := Record{"id": "a", "empty": "", "null": nil, "zero": json.Number("0"), "list": []any{}}
	got := r.Compact()
	if _, ok := got["empty"]; ok {
		t.Fatalf("empty string kept")
	}
	if _, ok := got["null"]; ok {
		t.Fatalf("null kept")
	}
	if len(got) != 3 {
		t.Fatalf("Compact = %v", got)
	}
	if len(r) != 5 {
		t.Fatalf("Compact mutated the receiver")
	}
}

func TestRecord_MarshalIndent(t *testing.T) {
	b, err := Record{"id": "a"}.MarshalIndent()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{\n  \"id\": \"a\"\n}\n" {
		t.Fatalf("MarshalIndent = %q", b)
	}
}

func TestDecodeRaw(t *testing.T) {
	raw, err := DecodeRaw(ModeAardvark, json.RawMessage(`{"id":"a","gbl_indexYear_im":[1901]}`))
	if err != nil {
		t.Fatalf("aardvark: %v", err)
	}
	if _, ok := raw.(AardvarkRaw); !ok || raw.Fields()["id"] != "a" {
		t.Fatalf("aardvark raw = %#v", raw)
	}
	if n, ok := raw.Fields()["gbl_indexYear_im"].([]any)[0].(json.Number); !ok || n != "1901" {
		t.Fatalf("numbers should decode as json.Number, got %#v", raw.Fields()["gbl_indexYear_im"])
	}

	raw, err = DecodeRaw(ModeLegacy, json.RawMessage(`"{\"layer_slug_s\":\"x\"}"`))
	if err != nil {
		t.Fatalf("double-encoded legacy: %v", err)
	}
	if _, ok := raw.(LegacyRaw); !ok || raw.Fields()["layer_slug_s"] != "x" {
		t.Fatalf("legacy raw = %#v", raw)
	}
}

func TestDecodeRaw_Errors(t *testing.T) {
	cases := []struct {
		name string
		mode Mode
		in   string
		code perr.ErrorCode
		msg  string
	}{
		{"legacy bad inner string", ModeLegacy, `"not json"`, perr.ErrorCodeSchema, "double-encoded"},
		{"aardvark string", ModeAardvark, `"{\"id\":\"a\"}"`, perr.ErrorCodeSchema, "got string"},
		{"aardvark array", ModeAardvark, `[1,2]`, perr.ErrorCodeSchema, "got array"},
		{"legacy null", ModeLegacy, `null`, perr.ErrorCodeSchema, "got null"},
		{"legacy string of array", ModeLegacy, `"[1]"`, perr.ErrorCodeSchema, "got array"},
		{"malformed", ModeAardvark, `{"id":`, perr.ErrorCodeDecode, "invalid JSON"},
		{"trailing data", ModeAardvark, `{} {}`, perr.ErrorCodeDecode, "invalid JSON"},
		{"bad mode", Mode("gbl2"), `{}`, perr.ErrorCodeInvalidArgument, "gbl2"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := DecodeRaw(c.mode, json.RawMessage(c.in))
			if !perr.IsCode(err, c.code) {
				t.Fatalf("code = %v, want %v (err=%v)", perr.CodeOf(err), c.code, err)
			}
			kit.MustContain(t, err.Error(), c.msg)
		})
	}
}

type upper struct{}

func (upper) FromLegacy(m map[string]any) Record {
	return Record{"id": strings.ToUpper(m["layer_slug_s"].(string))}
}

func TestToRecord(t *testing.T) {
	a, _ := DecodeRaw(ModeAardvark, json.RawMessage(`{"id":"a"}`))
	if got := ToRecord(a, upper{}); got.ID() != "a" {
		t.Fatalf("aardvark passthrough = %v", got)
	}
	l, _ := DecodeRaw(ModeLegacy, json.RawMessage(`{"layer_slug_s":"b"}`))
	if got := ToRecord(l, upper{}); got.ID() != "B" {
		t.Fatalf("legacy crosswalk = %v", got)
	}
}

func TestModeValid(t *testing.T) {
	if !ModeAardvark.Valid() || !ModeLegacy.Valid() || Mode("gbl1").Valid() {
		t.Fatal("Mode.Valid mismatch")
	}
}
