// FILE: lixenwraith/bonfig/collect.go
package bonfig

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Struct tag naming the attribute a descriptor is collected under.
const tagName = "bonfig"

// Class is the collected form of a declaration struct: its live fields in
// declaration order, its stores and sections by attribute, and the names of
// every store the fields use.
type Class struct {
	decl       any
	typ        reflect.Type
	fields     []*Field
	fieldAttrs []string
	attrs      map[string]*Field
	stores     map[string]*Store
	sections   map[string]*Section
	storeNames []string
}

var classes sync.Map // decl pointer -> *Class

// Collect builds the Class for decl, a non-nil pointer to a struct whose
// exported fields hold *Field, *Store and *Section values. Embedded structs
// are bases: their descriptors are collected first, and a direct field with
// the same attribute name replaces the inherited one. Deferred names are
// resolved from attribute names. The result is cached per decl.
func Collect(decl any) (*Class, error) {
	rv := reflect.ValueOf(decl)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: declaration must be a non-nil pointer to a struct, got %T", ErrDefinition, decl)
	}
	if cached, ok := classes.Load(decl); ok {
		return cached.(*Class), nil
	}

	set := newDescriptorSet()
	if err := collectStruct(rv.Elem(), set); err != nil {
		return nil, err
	}

	cl, err := set.class(decl, rv.Elem().Type())
	if err != nil {
		return nil, err
	}

	actual, _ := classes.LoadOrStore(decl, cl)
	cl = actual.(*Class)
	Logger().Debug("Class collected",
		zap.String("type", cl.typ.String()),
		zap.Int("fields", len(cl.fields)),
		zap.Strings("stores", cl.storeNames))
	return cl, nil
}

// MustCollect is Collect that panics on error, for package-level declarations.
func MustCollect(decl any) *Class {
	cl, err := Collect(decl)
	if err != nil {
		panic(err)
	}
	return cl
}

// descriptorSet holds descriptors by attribute name. A replaced attribute
// keeps its original position.
type descriptorSet struct {
	order []string
	items map[string]any
}

func newDescriptorSet() *descriptorSet {
	return &descriptorSet{items: make(map[string]any)}
}

func (d *descriptorSet) put(attr string, desc any) {
	if _, exists := d.items[attr]; !exists {
		d.order = append(d.order, attr)
	}
	d.items[attr] = desc
}

func (d *descriptorSet) putMissing(attr string, desc any) {
	if _, exists := d.items[attr]; !exists {
		d.put(attr, desc)
	}
}

var (
	fieldType   = reflect.TypeOf((*Field)(nil))
	storeType   = reflect.TypeOf((*Store)(nil))
	sectionType = reflect.TypeOf((*Section)(nil))
)

func collectStruct(v reflect.Value, set *descriptorSet) error {
	t := v.Type()

	// Bases first, in embedding order. The leftmost base that declares an
	// attribute wins; the struct's own fields override every base.
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.Anonymous || !sf.IsExported() || sf.Tag.Get(tagName) == "-" {
			continue
		}
		fv := v.Field(i)
		if fv.Kind() == reflect.Ptr {
			if fv.IsNil() || fv.Type() == fieldType || fv.Type() == storeType || fv.Type() == sectionType {
				continue
			}
			fv = fv.Elem()
		}
		if fv.Kind() != reflect.Struct {
			continue
		}
		base := newDescriptorSet()
		if err := collectStruct(fv, base); err != nil {
			return err
		}
		for _, attr := range base.order {
			set.putMissing(attr, base.items[attr])
		}
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous || !sf.IsExported() {
			continue
		}
		attr := sf.Name
		if tag := sf.Tag.Get(tagName); tag == "-" {
			continue
		} else if tag != "" {
			attr = tag
		}

		fv := v.Field(i)
		switch fv.Type() {
		case fieldType, storeType, sectionType:
		default:
			continue
		}
		if fv.IsNil() {
			continue
		}

		switch desc := fv.Interface().(type) {
		case *Field:
			if desc.store == nil {
				return fmt.Errorf("%w: field %q has no store", ErrDefinition, attr)
			}
			desc.resolveName(attr)
			set.put(attr, desc)
		case *Store:
			desc.resolveName(attr)
			set.put(attr, desc)
		case *Section:
			if desc.Store() == nil {
				return fmt.Errorf("%w: section %q has no store", ErrDefinition, attr)
			}
			desc.resolveName(attr)
			set.put(attr, desc)
		}
	}
	return nil
}

func (d *descriptorSet) class(decl any, typ reflect.Type) (*Class, error) {
	cl := &Class{
		decl:     decl,
		typ:      typ,
		attrs:    make(map[string]*Field),
		stores:   make(map[string]*Store),
		sections: make(map[string]*Section),
	}

	names := make(map[string]struct{})
	for _, attr := range d.order {
		switch desc := d.items[attr].(type) {
		case *Field:
			if desc.store.Name() == "" {
				return nil, fmt.Errorf("%w: store of field %q has no name", ErrMissingName, attr)
			}
			if _, err := desc.Keys(); err != nil {
				return nil, fmt.Errorf("field %q: %w", attr, err)
			}
			cl.fields = append(cl.fields, desc)
			cl.fieldAttrs = append(cl.fieldAttrs, attr)
			cl.attrs[attr] = desc
			names[desc.store.Name()] = struct{}{}
		case *Store:
			cl.stores[attr] = desc
		case *Section:
			cl.sections[attr] = desc
		}
	}

	for name := range names {
		cl.storeNames = append(cl.storeNames, name)
	}
	sort.Strings(cl.storeNames)
	return cl, nil
}

// Decl returns the declaration the class was collected from.
func (cl *Class) Decl() any { return cl.decl }

// Fields returns the live fields in declaration order.
func (cl *Class) Fields() []*Field {
	return append([]*Field(nil), cl.fields...)
}

// Field returns the field collected under attr.
func (cl *Class) Field(attr string) (*Field, bool) {
	f, ok := cl.attrs[attr]
	return f, ok
}

// Attrs returns the attribute names of the live fields in declaration order.
func (cl *Class) Attrs() []string {
	return append([]string(nil), cl.fieldAttrs...)
}

// Store returns the store handle collected under attr.
func (cl *Class) Store(attr string) (*Store, bool) {
	s, ok := cl.stores[attr]
	return s, ok
}

// Section returns the section collected under attr.
func (cl *Class) Section(attr string) (*Section, bool) {
	s, ok := cl.sections[attr]
	return s, ok
}

// StoreNames returns the sorted names of the stores the fields use.
func (cl *Class) StoreNames() []string {
	return append([]string(nil), cl.storeNames...)
}
