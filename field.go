// FILE: lixenwraith/bonfig/field.go
package bonfig

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Field binds a declared attribute to a key path inside one store.
// Fields are descriptors: they hold no per-instance state, and every read or
// write goes through the container a Config has bound for the field's store.
type Field struct {
	name    string
	prefix  []string
	attr    string
	store   *Store
	section *Section
	ftype   *FieldType
	decode  DecodeFunc
	encode  EncodeFunc

	val    any
	hasVal bool
	def    any
	hasDef bool

	dynamic bool
	layout  string
	sep     string
}

// FieldOption configures a Field at declaration.
type FieldOption func(*Field)

// Val sets the initial value written into the store when a Config is created.
func Val(v any) FieldOption {
	return func(f *Field) {
		f.val = v
		f.hasVal = true
	}
}

// Default sets the value returned when the store holds nothing at the field's path.
func Default(v any) FieldOption {
	return func(f *Field) {
		f.def = v
		f.hasDef = true
	}
}

// Name sets the leaf key explicitly instead of taking it from the attribute.
func Name(name string) FieldOption {
	return func(f *Field) {
		f.name = name
	}
}

// Keys sets an explicit path below the field's section. The last element is
// the leaf; an empty last element leaves the leaf to the attribute name.
func Keys(keys ...string) FieldOption {
	return func(f *Field) {
		if len(keys) == 0 {
			return
		}
		f.prefix = append([]string(nil), keys[:len(keys)-1]...)
		f.name = keys[len(keys)-1]
	}
}

// Dynamic makes reads hit the container every time, even for volatile
// containers whose values are otherwise snapshot at materialization.
func Dynamic() FieldOption {
	return func(f *Field) {
		f.dynamic = true
	}
}

// Layout sets the time layout used by TimeField.
func Layout(layout string) FieldOption {
	return func(f *Field) {
		f.layout = layout
	}
}

// Separator sets the item separator used by ListField.
func Separator(sep string) FieldOption {
	return func(f *Field) {
		f.sep = sep
	}
}

// Codec overrides the type's decode and encode functions for one field.
// A nil function keeps the type's.
func Codec(decode DecodeFunc, encode EncodeFunc) FieldOption {
	return func(f *Field) {
		if decode != nil {
			f.decode = decode
		}
		if encode != nil {
			f.encode = encode
		}
	}
}

// NewField creates a plain Field on store.
func NewField(store *Store, opts ...FieldOption) (*Field, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: field requires a store", ErrDefinition)
	}
	return newField(store.root(), nil, mustLookup(TypeField), opts), nil
}

func newField(store *Store, section *Section, ft *FieldType, opts []FieldOption) *Field {
	f := &Field{
		store:   store,
		section: section,
		ftype:   ft,
		decode:  ft.Decode,
		encode:  ft.Encode,
	}
	for _, opt := range ft.Options {
		opt(f)
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// resolveName sets the leaf from the attribute name if it is still unset.
func (f *Field) resolveName(attr string) {
	if f.attr == "" {
		f.attr = attr
	}
	if f.name == "" {
		f.name = attr
	}
}

// Name returns the leaf key, empty while deferred.
func (f *Field) Name() string { return f.name }

// Attr returns the attribute the field was collected under.
func (f *Field) Attr() string { return f.attr }

// Store returns the owning store.
func (f *Field) Store() *Store { return f.store }

// Section returns the owning section, nil for fields declared on a store.
func (f *Field) Section() *Section { return f.section }

// Type returns the field type the field was built from.
func (f *Field) Type() *FieldType { return f.ftype }

// IsDynamic reports whether the field always re-reads its container.
func (f *Field) IsDynamic() bool { return f.dynamic }

// Initial returns the initial value and whether one was declared.
func (f *Field) Initial() (any, bool) { return f.val, f.hasVal }

// DefaultValue returns the declared default and whether one was declared.
func (f *Field) DefaultValue() (any, bool) { return f.def, f.hasDef }

// Keys returns the full path: section keys, explicit prefix, then the leaf.
func (f *Field) Keys() ([]string, error) {
	if f.name == "" {
		return nil, fmt.Errorf("%w: field on store %q has no name", ErrMissingName, f.storeName())
	}
	var keys []string
	if f.section != nil {
		sectionKeys, err := f.section.Keys()
		if err != nil {
			return nil, err
		}
		keys = append(keys, sectionKeys...)
	}
	keys = append(keys, f.prefix...)
	return append(keys, f.name), nil
}

// Path returns Keys joined with dots, or the leaf name if keys cannot resolve.
func (f *Field) Path() string {
	keys, err := f.Keys()
	if err != nil {
		return f.name
	}
	return strings.Join(keys, ".")
}

// Get reads the field from c. A missing value falls back to the default,
// normalized through encode and decode; without a default it is ErrKeyNotFound.
func (f *Field) Get(c *Config) (any, error) {
	keys, err := f.Keys()
	if err != nil {
		return nil, err
	}
	raw, err := c.fetch(f, keys)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) && f.hasDef {
			return f.defaultValue()
		}
		return nil, err
	}
	v, err := f.decode(f, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode field %q: %w", f.Path(), err)
	}
	return v, nil
}

func (f *Field) defaultValue() (any, error) {
	enc, err := f.encode(f, f.def)
	if err != nil {
		return nil, fmt.Errorf("failed to encode default of field %q: %w", f.Path(), err)
	}
	v, err := f.decode(f, enc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode default of field %q: %w", f.Path(), err)
	}
	return v, nil
}

// Set encodes v and writes it to c, creating missing intermediate levels.
// It fails with ErrLocked while c is locked.
func (f *Field) Set(c *Config, v any) error {
	if c.IsLocked() {
		return fmt.Errorf("%w: cannot set field %q", ErrLocked, f.Path())
	}
	return f.write(c, v)
}

func (f *Field) write(c *Config, v any) error {
	keys, err := f.Keys()
	if err != nil {
		return err
	}
	enc, err := f.encode(f, v)
	if err != nil {
		return fmt.Errorf("failed to encode field %q: %w", f.Path(), err)
	}
	return c.store(f, keys, enc)
}

// materialize writes the initial value, ignoring the lock. For non-dynamic
// fields on a volatile container it also records the instance snapshot.
func (f *Field) materialize(c *Config) error {
	if f.hasVal {
		if err := f.write(c, f.val); err != nil {
			return err
		}
	} else if err := c.snapshot(f); err != nil {
		return err
	}
	c.logger.Debug("Field materialized",
		zap.String("field", f.Path()),
		zap.String("store", f.storeName()),
		zap.Bool("initial", f.hasVal))
	return nil
}

// Combine builds a new field on f's store and section whose initial value is
// fn applied to the values of f and other in c. With a nil c the operands'
// declared values are combined instead. Fields on different stores or
// sections are incompatible.
func (f *Field) Combine(c *Config, other *Field, fn CombineFunc, opts ...FieldOption) (*Field, error) {
	if other == nil || fn == nil {
		return nil, fmt.Errorf("%w: combine requires another field and a function", ErrDefinition)
	}
	if f.store.root() != other.store.root() || f.section.root() != other.section.root() {
		return nil, fmt.Errorf("%w: %q and %q", ErrIncompatibleFields, f.Path(), other.Path())
	}

	a, err := f.current(c)
	if err != nil {
		return nil, err
	}
	b, err := other.current(c)
	if err != nil {
		return nil, err
	}
	v, err := fn(a, b)
	if err != nil {
		return nil, fmt.Errorf("failed to combine %q and %q: %w", f.Path(), other.Path(), err)
	}

	combined := &Field{
		store:   f.store,
		section: f.section,
		ftype:   f.ftype,
		decode:  f.decode,
		encode:  f.encode,
		dynamic: f.dynamic,
		layout:  f.layout,
		sep:     f.sep,
	}
	Val(v)(combined)
	for _, opt := range opts {
		opt(combined)
	}
	return combined, nil
}

func (f *Field) current(c *Config) (any, error) {
	if c != nil {
		return f.Get(c)
	}
	switch {
	case f.hasVal:
		return f.val, nil
	case f.hasDef:
		return f.def, nil
	default:
		return nil, fmt.Errorf("%w: field %q declares no value", ErrKeyNotFound, f.Path())
	}
}

func (f *Field) storeName() string {
	if f.store == nil {
		return ""
	}
	return f.store.Name()
}

func (f *Field) timeLayout() string {
	if f.layout == "" {
		return DefaultTimeLayout
	}
	return f.layout
}

func (f *Field) listSeparator() string {
	if f.sep == "" {
		return DefaultListSeparator
	}
	return f.sep
}
