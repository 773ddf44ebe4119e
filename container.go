// FILE: lixenwraith/bonfig/container.go
package bonfig

import (
	"fmt"
	"strings"
)

// Container is the backing store a Store handle is bound to on a Config.
// Keys address a leaf through the container's levels, root first.
type Container interface {
	// Get returns the value at keys, or an error wrapping ErrKeyNotFound.
	Get(keys []string) (any, error)
	// Set writes value at keys, creating missing intermediate levels.
	Set(keys []string, value any) error
}

// Snapshotter is implemented by containers that can export their content
// as a nested map, used by Scan, Dump and file saving.
type Snapshotter interface {
	Snapshot() map[string]any
}

// Cloner is implemented by containers that can deep-copy themselves.
type Cloner interface {
	Clone() Container
}

// Volatile is implemented by containers wrapping a resource shared outside
// the Config, such as the process environment. Non-dynamic fields snapshot
// their value from a volatile container when materialized.
type Volatile interface {
	Volatile() bool
}

func isVolatile(c Container) bool {
	v, ok := c.(Volatile)
	return ok && v.Volatile()
}

// MapStore is a hierarchical container over nested maps.
type MapStore struct {
	data     map[string]any
	newLevel func() map[string]any
}

// NewMapStore creates an empty MapStore.
func NewMapStore() *MapStore {
	return NewMapStoreFrom(nil)
}

// NewMapStoreFrom wraps an existing nested map. Nested map[string]any values
// are treated as levels; the map is not copied.
func NewMapStoreFrom(data map[string]any) *MapStore {
	if data == nil {
		data = make(map[string]any)
	}
	return &MapStore{
		data:     data,
		newLevel: func() map[string]any { return make(map[string]any) },
	}
}

// Map returns the underlying nested map.
func (m *MapStore) Map() map[string]any {
	return m.data
}

// Get walks keys through nested maps.
func (m *MapStore) Get(keys []string) (any, error) {
	if len(keys) == 0 {
		return m.data, nil
	}
	var current any = m.data
	for i, key := range keys {
		level, ok := asLevel(current)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a table", ErrKeyNotFound, strings.Join(keys[:i], "."))
		}
		next, exists := level[key]
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, strings.Join(keys[:i+1], "."))
		}
		current = next
	}
	return current, nil
}

// Set writes value at keys. Missing intermediate levels are created with the
// store's level constructor; a non-map value in the way is an error.
func (m *MapStore) Set(keys []string, value any) error {
	if len(keys) == 0 {
		return fmt.Errorf("%w: empty key path", ErrValueType)
	}
	level := m.data
	for i, key := range keys[:len(keys)-1] {
		next, exists := level[key]
		if !exists {
			child := m.newLevel()
			level[key] = child
			level = child
			continue
		}
		nextLevel, ok := asLevel(next)
		if !ok {
			return fmt.Errorf("%w: %q holds %T, not a table", ErrValueType, strings.Join(keys[:i+1], "."), next)
		}
		level = nextLevel
	}
	level[keys[len(keys)-1]] = value
	return nil
}

// Snapshot returns a deep copy of the data.
func (m *MapStore) Snapshot() map[string]any {
	return cloneMap(m.data)
}

// Clone returns a deep copy of the store.
func (m *MapStore) Clone() Container {
	return &MapStore{data: cloneMap(m.data), newLevel: m.newLevel}
}

func asLevel(v any) (map[string]any, bool) {
	level, ok := v.(map[string]any)
	return level, ok
}

// cloneMap deep-copies nested maps and slices.
func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = cloneValue(v)
	}
	return dst
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
