// FILE: lixenwraith/bonfig/errors.go
package bonfig

import "errors"

// Definition-time errors, raised while declaring or collecting a config class.
var (
	// ErrDefinition reports an invalid declaration: a field or section without
	// a store, a non-struct declaration, a descriptor that cannot be collected.
	ErrDefinition = errors.New("invalid config definition")

	// ErrMissingName reports a descriptor whose deferred name was never resolved.
	ErrMissingName = errors.New("name not resolved")

	// ErrUnknownFieldType reports a registry lookup for an unregistered type.
	ErrUnknownFieldType = errors.New("unknown field type")

	// ErrIncompatibleFields reports a composition of fields bound to different
	// stores or sections.
	ErrIncompatibleFields = errors.New("fields belong to different stores or sections")
)

// Access-time errors.
var (
	// ErrKeyNotFound reports a read with no stored value and no default.
	ErrKeyNotFound = errors.New("key not found")

	// ErrLocked reports a write to a locked config.
	ErrLocked = errors.New("attempting to mutate a locked config")

	// ErrFrozen reports a write to a frozen (read-only) container.
	ErrFrozen = errors.New("container is frozen")

	// ErrValueType reports a value the container cannot hold, e.g. a non-string
	// leaf in an INI store, or a path deeper than the container supports.
	ErrValueType = errors.New("value not accepted by container")

	// ErrStoreNotBound reports a referenced store with no container after load.
	ErrStoreNotBound = errors.New("store not bound")
)

// I/O errors.
var (
	// ErrConfigNotFound reports a missing configuration file.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrUnknownFormat reports a file whose format could not be determined.
	ErrUnknownFormat = errors.New("unknown configuration format")

	// ErrCLIParse reports malformed command-line overrides.
	ErrCLIParse = errors.New("failed to parse command-line arguments")
)
