// File: lixenwraith/bonfig/builder.go
package bonfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ValidatorFunc defines the signature for a function that can validate a Config instance.
// It receives the fully loaded *Config object and should return an error if validation fails.
type ValidatorFunc func(c *Config) error

// Builder provides a fluent interface for creating a Config from a
// declaration with containers from files, the environment and explicit
// values, followed by command-line overrides and validation.
type Builder struct {
	decl       any
	containers map[string]Container
	files      map[string]string
	discovery  map[string]FileDiscoveryOptions
	order      []string
	args       []string
	validators []ValidatorFunc
	opts       []Option
	logger     *zap.Logger
	locked     bool
	frozen     bool
	err        error
}

// NewBuilder creates a builder for decl. Command-line overrides default to os.Args[1:].
func NewBuilder(decl any) *Builder {
	return &Builder{
		decl:       decl,
		containers: make(map[string]Container),
		files:      make(map[string]string),
		discovery:  make(map[string]FileDiscoveryOptions),
		args:       os.Args[1:],
		validators: make([]ValidatorFunc, 0),
	}
}

func (b *Builder) source(store string) {
	if store == "" && b.err == nil {
		b.err = fmt.Errorf("%w: builder source requires a store name", ErrMissingName)
	}
	for _, name := range b.order {
		if name == store {
			return
		}
	}
	b.order = append(b.order, store)
}

// WithStore binds container under store.
func (b *Builder) WithStore(store string, container Container) *Builder {
	if container == nil {
		if b.err == nil {
			b.err = fmt.Errorf("%w: nil container for store %q", ErrDefinition, store)
		}
		return b
	}
	b.source(store)
	delete(b.files, store)
	delete(b.discovery, store)
	b.containers[store] = container
	return b
}

// WithFile binds the container read from path under store. A missing file
// binds an empty container of the file's format and is reported by Build
// as ErrConfigNotFound alongside the Config.
func (b *Builder) WithFile(store, path string) *Builder {
	b.source(store)
	delete(b.containers, store)
	delete(b.discovery, store)
	b.files[store] = path
	return b
}

// WithEnv binds the process environment under store, with variable names
// built by DefaultEnvTransform(prefix).
func (b *Builder) WithEnv(store, prefix string) *Builder {
	return b.WithStore(store, NewEnvStore(prefix))
}

// WithEnvTransform binds the process environment under store with a custom
// key-to-variable mapping.
func (b *Builder) WithEnvTransform(store, prefix string, fn EnvTransformFunc) *Builder {
	return b.WithStore(store, NewEnvStoreWithTransform(prefix, fn))
}

// WithArgs sets the command-line arguments
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// WithLogger sets the logger of the built Config.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithOptions passes extra options to Class.New.
func (b *Builder) WithOptions(opts ...Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Locked locks the Config after overrides and validation.
func (b *Builder) Locked() *Builder {
	b.locked = true
	return b
}

// Frozen freezes the Config after overrides and validation.
func (b *Builder) Frozen() *Builder {
	b.frozen = true
	return b
}

// Build creates the Config instance with all specified options
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}

	cl, err := Collect(b.decl)
	if err != nil {
		return nil, err
	}

	opts := append([]Option(nil), b.opts...)
	if b.logger != nil {
		opts = append(opts, WithLogger(b.logger))
	}

	var missing []error
	for _, store := range b.order {
		container, err := b.resolve(store)
		if err != nil {
			if !errors.Is(err, ErrConfigNotFound) {
				return nil, fmt.Errorf("store %q: %w", store, err)
			}
			missing = append(missing, err)
		}
		opts = append(opts, WithContainer(store, container))
	}

	cfg, err := cl.New(opts...)
	if err != nil {
		return nil, err
	}

	if len(b.args) > 0 {
		if err := ApplyArgs(cfg, b.args); err != nil {
			return nil, err
		}
	}

	// Run validators
	for _, validator := range b.validators {
		if err := validator(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	if b.frozen {
		cfg.Freeze()
	}
	if b.locked {
		cfg.Lock()
	}

	// ErrConfigNotFound or nil
	return cfg, errors.Join(missing...)
}

// resolve produces the container for one store source. A missing file still
// yields an empty container next to the error.
func (b *Builder) resolve(store string) (Container, error) {
	if container, ok := b.containers[store]; ok {
		return container, nil
	}

	path, ok := b.files[store]
	if !ok {
		path = discoverFile(b.discovery[store], b.args)
		if path == "" {
			return emptyContainer(b.discovery[store].firstExtension()), nil
		}
	}

	container, err := LoadFile(path)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			return emptyContainer(filepath.Ext(path)), err
		}
		return nil, err
	}
	return container, nil
}

func emptyContainer(ext string) Container {
	switch detectFileFormat("config" + ext) {
	case FormatINI:
		return NewINIStore()
	case FormatJSON:
		return NewJSONStore()
	default:
		return NewMapStore()
	}
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Config {
	cfg, err := b.Build()
	if err != nil {
		// A missing file is not fatal; the Config runs on initial values.
		if !errors.Is(err, ErrConfigNotFound) || cfg == nil {
			panic(fmt.Sprintf("config build failed: %v", err))
		}
	}
	return cfg
}

// BuildAndScan builds the Config and decodes the named store into target.
func (b *Builder) BuildAndScan(store string, target any) error {
	cfg, err := b.Build()
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		return err
	}

	if err := scanContainer(cfg, store, nil, target); err != nil {
		return fmt.Errorf("failed to scan final config into target: %w", err)
	}

	// ErrConfigNotFound or nil
	return err
}

func (o FileDiscoveryOptions) firstExtension() string {
	if len(o.Extensions) == 0 {
		return ""
	}
	return strings.ToLower(o.Extensions[0])
}
