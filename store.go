// FILE: lixenwraith/bonfig/store.go
package bonfig

import "fmt"

// Store is a named handle for one backing container. Each Config binds a
// container under the store's name; fields and sections declared on the
// store resolve through it.
type Store struct {
	name  string
	alias *Store
}

// NewStore creates a store handle. An empty name is taken from the attribute
// the store is collected under.
func NewStore(name string) *Store {
	return &Store{name: name}
}

func (s *Store) root() *Store {
	for s.alias != nil {
		s = s.alias
	}
	return s
}

// Name returns the store name, empty while deferred.
func (s *Store) Name() string {
	return s.root().name
}

func (s *Store) resolveName(attr string) {
	if r := s.root(); r.name == "" {
		r.name = attr
	}
}

// With calls fn with an alias of s. Fields and sections declared through the
// alias belong to s.
func (s *Store) With(fn func(*Store)) {
	fn(&Store{alias: s.root()})
}

// Section creates a top-level section of the store.
func (s *Store) Section(name string) *Section {
	return &Section{name: name, store: s.root()}
}

// Container returns the container c has bound for the store.
func (s *Store) Container(c *Config) (Container, error) {
	return c.Container(s.Name())
}

// New creates a field of the named registered type.
func (s *Store) New(typeName string, opts ...FieldOption) (*Field, error) {
	ft, err := DefaultRegistry.Lookup(typeName)
	if err != nil {
		return nil, fmt.Errorf("store %q: %w", s.Name(), err)
	}
	return newField(s.root(), nil, ft, opts), nil
}

// Factory returns a constructor for the named registered type bound to s.
func (s *Store) Factory(typeName string) (FieldFactory, error) {
	ft, err := DefaultRegistry.Lookup(typeName)
	if err != nil {
		return nil, fmt.Errorf("store %q: %w", s.Name(), err)
	}
	root := s.root()
	return func(opts ...FieldOption) *Field {
		return newField(root, nil, ft, opts)
	}, nil
}

func (s *Store) typed(typeName string, opts []FieldOption) *Field {
	return newField(s.root(), nil, mustLookup(typeName), opts)
}

// Field creates an untyped field whose values are stored as given.
func (s *Store) Field(opts ...FieldOption) *Field { return s.typed(TypeField, opts) }

// IntField creates a field stored as a decimal string and read as int.
func (s *Store) IntField(opts ...FieldOption) *Field { return s.typed(TypeIntField, opts) }

// FloatField creates a field stored as a string and read as float64.
func (s *Store) FloatField(opts ...FieldOption) *Field { return s.typed(TypeFloatField, opts) }

// BoolField creates a field stored as "true"/"false" and read as bool.
func (s *Store) BoolField(opts ...FieldOption) *Field { return s.typed(TypeBoolField, opts) }

// TimeField creates a field stored in the field's layout and read as time.Time.
func (s *Store) TimeField(opts ...FieldOption) *Field { return s.typed(TypeTimeField, opts) }

// PathField creates a field stored with forward slashes and read as a clean OS path.
func (s *Store) PathField(opts ...FieldOption) *Field { return s.typed(TypePathField, opts) }

// DurationField creates a field stored as a duration string and read as time.Duration.
func (s *Store) DurationField(opts ...FieldOption) *Field { return s.typed(TypeDurationField, opts) }

// ListField creates a field stored as a separated string and read as []string.
func (s *Store) ListField(opts ...FieldOption) *Field { return s.typed(TypeListField, opts) }
