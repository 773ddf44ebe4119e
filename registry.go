// FILE: lixenwraith/bonfig/registry.go
package bonfig

import (
	"fmt"
	"sort"
	"sync"
)

// Names of the built-in field types.
const (
	TypeField         = "Field"
	TypeIntField      = "IntField"
	TypeFloatField    = "FloatField"
	TypeBoolField     = "BoolField"
	TypeTimeField     = "TimeField"
	TypePathField     = "PathField"
	TypeDurationField = "DurationField"
	TypeListField     = "ListField"
)

// FieldType is a named encode/decode pair fields are built from.
type FieldType struct {
	Name   string
	Decode DecodeFunc
	Encode EncodeFunc
	// Base names the type this one was derived from; empty for Field.
	Base string
	// Options are applied to every field of this type before the caller's.
	Options []FieldOption
}

// FieldFactory builds fields of one type, pre-bound to a store or section.
type FieldFactory func(opts ...FieldOption) *Field

// Registry maps field type names to field types.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*FieldType
}

// DefaultRegistry is consulted by Store.New, Section.New and their factories.
var DefaultRegistry = NewRegistry()

func builtinTypes() []*FieldType {
	return []*FieldType{
		{Name: TypeField, Decode: passThrough, Encode: passThrough},
		{Name: TypeIntField, Decode: decodeInt, Encode: encodeInt, Base: TypeField},
		{Name: TypeFloatField, Decode: decodeFloat, Encode: encodeFloat, Base: TypeField},
		{Name: TypeBoolField, Decode: decodeBool, Encode: encodeBool, Base: TypeField},
		{Name: TypeTimeField, Decode: decodeTime, Encode: encodeTime, Base: TypeField,
			Options: []FieldOption{Layout(DefaultTimeLayout)}},
		{Name: TypePathField, Decode: decodePath, Encode: encodePath, Base: TypeField},
		{Name: TypeDurationField, Decode: decodeDuration, Encode: encodeDuration, Base: TypeField},
		{Name: TypeListField, Decode: decodeList, Encode: encodeList, Base: TypeField,
			Options: []FieldOption{Separator(DefaultListSeparator)}},
	}
}

// NewRegistry creates a registry seeded with the built-in field types.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]*FieldType)}
	for _, ft := range builtinTypes() {
		r.types[ft.Name] = ft
	}
	return r
}

// Register adds ft under its name, replacing any type of the same name.
func (r *Registry) Register(ft *FieldType) (*FieldType, error) {
	if ft == nil || ft.Name == "" {
		return nil, fmt.Errorf("%w: field type requires a name", ErrDefinition)
	}
	if ft.Decode == nil || ft.Encode == nil {
		return nil, fmt.Errorf("%w: field type %q requires decode and encode functions", ErrDefinition, ft.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[ft.Name] = ft
	return ft, nil
}

// MakeQuick derives and registers a new field type from base. Empty base
// means Field; nil decode or encode keep the base's.
func (r *Registry) MakeQuick(name string, decode DecodeFunc, encode EncodeFunc, base string) (*FieldType, error) {
	if base == "" {
		base = TypeField
	}
	parent, err := r.Lookup(base)
	if err != nil {
		return nil, err
	}
	if decode == nil {
		decode = parent.Decode
	}
	if encode == nil {
		encode = parent.Encode
	}
	return r.Register(&FieldType{
		Name:    name,
		Decode:  decode,
		Encode:  encode,
		Base:    parent.Name,
		Options: append([]FieldOption(nil), parent.Options...),
	})
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (*FieldType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ft, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFieldType, name)
	}
	return ft, nil
}

// Names returns the registered type names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds ft to DefaultRegistry.
func Register(ft *FieldType) (*FieldType, error) {
	return DefaultRegistry.Register(ft)
}

// MakeQuick derives a field type in DefaultRegistry.
func MakeQuick(name string, decode DecodeFunc, encode EncodeFunc, base string) (*FieldType, error) {
	return DefaultRegistry.MakeQuick(name, decode, encode, base)
}

// Lookup finds a field type in DefaultRegistry.
func Lookup(name string) (*FieldType, error) {
	return DefaultRegistry.Lookup(name)
}

// mustLookup resolves a built-in type name. Entries are never removed from
// DefaultRegistry, so a failure here means the package is broken.
func mustLookup(name string) *FieldType {
	ft, err := DefaultRegistry.Lookup(name)
	if err != nil {
		panic(err)
	}
	return ft
}
