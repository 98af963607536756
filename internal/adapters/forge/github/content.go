package github

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"

	perr "aardsync/internal/platform/errors"

	"golang.org/x/text/encoding"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EncodeContent base64-encodes raw bytes for the contents API
func EncodeContent(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// DecodeContent reverses the forge's base64 content encoding.
// Embedded whitespace is ignored, the result must be UTF-8 and a leading BOM is dropped
func DecodeContent(s string) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	raw, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDecode, "content is not valid base64")
	}
	return toUTF8(raw)
}

// toUTF8 strips a byte order mark and rejects invalid UTF-8
func toUTF8(raw []byte) ([]byte, error) {
	out, _, err := transform.Bytes(xunicode.BOMOverride(encoding.UTF8Validator), raw)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDecode, "content is not valid UTF-8")
	}
	if !utf8.Valid(out) {
		return nil, perr.Decodef("content is not valid UTF-8")
	}
	return out, nil
}

func decodeJSONContent(c contentResp, what string) (json.RawMessage, error) {
	if c.Encoding != "base64" {
		return nil, perr.Decodef("unsupported encoding %q for %s", c.Encoding, what)
	}
	b, err := DecodeContent(c.Content)
	if err != nil {
		return nil, perr.WithOp(err, what)
	}
	if !json.Valid(b) {
		return nil, perr.Decodef("%s is not valid JSON", what)
	}
	return json.RawMessage(b), nil
}
