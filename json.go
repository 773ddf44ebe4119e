// FILE: lixenwraith/bonfig/json.go
package bonfig

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// JSONStore is a container over a JSON document. Reads go through gjson and
// writes through sjson, which creates missing intermediate objects.
type JSONStore struct {
	data []byte
}

// NewJSONStore creates a container holding an empty object.
func NewJSONStore() *JSONStore {
	return &JSONStore{data: []byte("{}")}
}

// ParseJSON builds a container from a JSON document whose root is an object.
func ParseJSON(data []byte) (*JSONStore, error) {
	s := NewJSONStore()
	if err := s.Load(data); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the document.
func (s *JSONStore) Load(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("failed to parse JSON data: invalid document")
	}
	if !gjson.ParseBytes(data).IsObject() {
		return fmt.Errorf("failed to parse JSON data: root must be an object")
	}
	s.data = append([]byte(nil), data...)
	return nil
}

// Bytes returns the document, pretty printed.
func (s *JSONStore) Bytes() []byte {
	return pretty.Pretty(s.data)
}

// String returns the compact document.
func (s *JSONStore) String() string {
	return string(pretty.Ugly(s.data))
}

// Get returns the decoded value at keys. Numbers decode as float64 and
// objects as map[string]any.
func (s *JSONStore) Get(keys []string) (any, error) {
	if len(keys) == 0 {
		return gjson.ParseBytes(s.data).Value(), nil
	}
	res := gjson.GetBytes(s.data, jsonPath(keys))
	if !res.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, joinKeys(keys))
	}
	return res.Value(), nil
}

// Set writes value at keys.
func (s *JSONStore) Set(keys []string, value any) error {
	if len(keys) == 0 {
		return fmt.Errorf("%w: empty key path", ErrValueType)
	}
	data, err := sjson.SetBytes(s.data, jsonPath(keys), value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrValueType, joinKeys(keys), err)
	}
	s.data = data
	return nil
}

// Snapshot returns the document as a nested map.
func (s *JSONStore) Snapshot() map[string]any {
	if m, ok := gjson.ParseBytes(s.data).Value().(map[string]any); ok {
		return m
	}
	return make(map[string]any)
}

// Clone copies the document.
func (s *JSONStore) Clone() Container {
	return &JSONStore{data: append([]byte(nil), s.data...)}
}

// jsonPath joins keys into a gjson/sjson path, escaping path syntax.
func jsonPath(keys []string) string {
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = escapePathComponent(key)
	}
	return strings.Join(parts, ".")
}

func escapePathComponent(comp string) string {
	var b strings.Builder
	for i := 0; i < len(comp); i++ {
		c := comp[i]
		if !isSafePathChar(c) {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isSafePathChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c == ' ' || c > '~' || c == '_' || c == '-'
}
