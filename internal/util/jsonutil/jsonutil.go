// Package jsonutil has the JSON helpers shared by the model-response
// parser and the API handlers. Model output and protocol text routinely
// contain <, > and & (sanitized emphasis spans), so the default
// encoding/json HTML escaping is unwanted on the way out, and payloads
// occasionally arrive quoted one level too deep on the way in.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"strings"
)

// MarshalNoEscape encodes v into JSON without escaping <, >, & into \u003c, etc.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalRaw accepts json.RawMessage directly.
func UnmarshalRaw(raw json.RawMessage, v any) error {
	return UnmarshalFlex([]byte(raw), v)
}

// UnmarshalFlex tries a direct unmarshal first and falls back to
// unwrapping a JSON-string-encoded payload, which model responses
// sometimes produce when the object arrives quoted. Lingering unicode
// escapes in the unwrapped payload are normalized before the inner parse.
func UnmarshalFlex(raw []byte, v any) error {
	direct := json.Unmarshal(raw, v)
	if direct == nil {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return direct
	}
	if norm, err := UnescapeUnicode(s); err == nil {
		s = norm
	}
	return json.Unmarshal([]byte(s), v)
}

// UnescapeUnicode converts lingering escapes like "\u003e" (or the
// double-escaped "\\u003e") inside a plain string into characters.
func UnescapeUnicode(s string) (string, error) {
	esc := strings.ReplaceAll(s, `\`, `\\`)
	esc = strings.ReplaceAll(esc, `"`, `\"`)
	var out string
	if err := json.Unmarshal([]byte(`"`+esc+`"`), &out); err != nil {
		return "", err
	}
	return out, nil
}
