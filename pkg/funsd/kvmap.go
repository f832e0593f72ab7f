package funsd

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// KV is a single key-value entry.
type KV struct {
	Key   string
	Value string
}

// KVMap is an insertion-ordered key-value map. Encoding a page's key-value
// data and serializing it as a tag sequence both depend on the order in
// which pairs were first encountered, so a plain Go map (with randomized
// iteration) cannot represent it.
type KVMap []KV

// Has reports whether a key is present.
func (m KVMap) Has(key string) bool {
	for _, kv := range m {
		if kv.Key == key {
			return true
		}
	}
	return false
}

// Get returns the value for a key and whether it was present.
func (m KVMap) Get(key string) (string, bool) {
	for _, kv := range m {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// MarshalJSON encodes the map as a JSON object with keys in insertion
// order. The bytes produced here carry no HTML escaping, but plain
// json.Marshal re-escapes the output of custom marshalers; callers who
// need sequence tag delimiters to survive verbatim must go through an
// encoder with SetEscapeHTML(false), as the dataset writers do.
func (m KVMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeJSONString(&buf, kv.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeJSONString(&buf, kv.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving the key order of the
// document. Non-string values (numbers, booleans, nested structures) are
// coerced to their compact JSON text, matching the string coercion the
// sequence encoder applies.
func (m *KVMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	result := KVMap{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected string key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		result = append(result, KV{Key: key, Value: coerceString(raw)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = result
	return nil
}

// coerceString turns a raw JSON value into a string: JSON strings are
// unquoted, everything else keeps its literal JSON text. A JSON null
// needs its own check because unmarshaling null into a string is a
// no-op that reports success.
func coerceString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if string(trimmed) == "null" {
		return "null"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(trimmed)
}

// encodeJSONString writes a string as a JSON string literal without HTML
// escaping and without a trailing newline.
func encodeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode always appends a newline; drop it.
	buf.Truncate(buf.Len() - 1)
	return nil
}
