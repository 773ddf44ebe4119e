// FILE: lixenwraith/bonfig/section.go
package bonfig

import "fmt"

// Section is a named prefix inside a store's key space. Sections nest; the
// path of a section is its parent's path followed by its own name.
type Section struct {
	name   string
	store  *Store
	parent *Section
	alias  *Section
}

// NewSection creates a top-level section of store.
func NewSection(store *Store, name string) (*Section, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: section %q requires a store", ErrDefinition, name)
	}
	return store.Section(name), nil
}

func (s *Section) root() *Section {
	if s == nil {
		return nil
	}
	for s.alias != nil {
		s = s.alias
	}
	return s
}

func (s *Section) resolveName(attr string) {
	if r := s.root(); r.name == "" {
		r.name = attr
	}
}

// Name returns the section name, empty while deferred.
func (s *Section) Name() string { return s.root().name }

// Store returns the owning store.
func (s *Section) Store() *Store { return s.root().store }

// Parent returns the enclosing section, nil at the top level.
func (s *Section) Parent() *Section { return s.root().parent }

// Keys returns the parent chain's names root first, then the section's own.
func (s *Section) Keys() ([]string, error) {
	r := s.root()
	if r.name == "" {
		return nil, fmt.Errorf("%w: section on store %q has no name", ErrMissingName, r.store.Name())
	}
	if r.parent == nil {
		return []string{r.name}, nil
	}
	keys, err := r.parent.Keys()
	if err != nil {
		return nil, err
	}
	return append(keys, r.name), nil
}

// Section creates a subsection.
func (s *Section) Section(name string) *Section {
	r := s.root()
	return &Section{name: name, store: r.store, parent: r}
}

// With calls fn with an alias of s. Fields and subsections declared through
// the alias belong to s.
func (s *Section) With(fn func(*Section)) {
	fn(&Section{alias: s.root()})
}

// Get returns the section's subtree in the container c binds for its store.
func (s *Section) Get(c *Config) (any, error) {
	keys, err := s.Keys()
	if err != nil {
		return nil, err
	}
	container, err := c.Container(s.Store().Name())
	if err != nil {
		return nil, err
	}
	return container.Get(keys)
}

// New creates a field of the named registered type in the section.
func (s *Section) New(typeName string, opts ...FieldOption) (*Field, error) {
	ft, err := DefaultRegistry.Lookup(typeName)
	if err != nil {
		return nil, fmt.Errorf("section %q: %w", s.Name(), err)
	}
	r := s.root()
	return newField(r.store, r, ft, opts), nil
}

// Factory returns a constructor for the named registered type bound to the section.
func (s *Section) Factory(typeName string) (FieldFactory, error) {
	ft, err := DefaultRegistry.Lookup(typeName)
	if err != nil {
		return nil, fmt.Errorf("section %q: %w", s.Name(), err)
	}
	r := s.root()
	return func(opts ...FieldOption) *Field {
		return newField(r.store, r, ft, opts)
	}, nil
}

func (s *Section) typed(typeName string, opts []FieldOption) *Field {
	r := s.root()
	return newField(r.store, r, mustLookup(typeName), opts)
}

// Field creates an untyped field in the section whose values are stored as given.
func (s *Section) Field(opts ...FieldOption) *Field { return s.typed(TypeField, opts) }

// IntField creates a field in the section stored as a decimal string and read as int.
func (s *Section) IntField(opts ...FieldOption) *Field { return s.typed(TypeIntField, opts) }

// FloatField creates a field in the section stored as a string and read as float64.
func (s *Section) FloatField(opts ...FieldOption) *Field { return s.typed(TypeFloatField, opts) }

// BoolField creates a field in the section stored as "true"/"false" and read as bool.
func (s *Section) BoolField(opts ...FieldOption) *Field { return s.typed(TypeBoolField, opts) }

// TimeField creates a field in the section stored in the field's layout and read as time.Time.
func (s *Section) TimeField(opts ...FieldOption) *Field { return s.typed(TypeTimeField, opts) }

// PathField creates a field in the section stored with forward slashes and read as a clean OS path.
func (s *Section) PathField(opts ...FieldOption) *Field { return s.typed(TypePathField, opts) }

// DurationField creates a field in the section stored as a duration string and read as time.Duration.
func (s *Section) DurationField(opts ...FieldOption) *Field { return s.typed(TypeDurationField, opts) }

// ListField creates a field in the section stored as a separated string and read as []string.
func (s *Section) ListField(opts ...FieldOption) *Field { return s.typed(TypeListField, opts) }
