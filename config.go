// FILE: lixenwraith/bonfig/config.go
package bonfig

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Loader is implemented by declarations that bind their own containers.
type Loader interface {
	Load(c *Config) error
}

// Finaliser is implemented by declarations that post-process a Config after
// its fields are materialized.
type Finaliser interface {
	Finalise(c *Config) error
}

// LoadFunc binds containers on a new Config.
type LoadFunc func(c *Config) error

// FinaliseFunc runs after materialization and before lock or freeze.
type FinaliseFunc func(c *Config) error

// Option configures Class.New.
type Option func(*options)

type options struct {
	load       LoadFunc
	finalise   FinaliseFunc
	containers map[string]Container
	locked     bool
	frozen     bool
	logger     *zap.Logger
}

// WithLoad replaces the load hook.
func WithLoad(fn LoadFunc) Option {
	return func(o *options) { o.load = fn }
}

// WithFinalise replaces the finalise hook.
func WithFinalise(fn FinaliseFunc) Option {
	return func(o *options) { o.finalise = fn }
}

// WithContainer binds container under store before the load hook runs.
func WithContainer(store string, container Container) Option {
	return func(o *options) {
		if o.containers == nil {
			o.containers = make(map[string]Container)
		}
		o.containers[store] = container
	}
}

// Locked locks the Config once it is initialized.
func Locked() Option {
	return func(o *options) { o.locked = true }
}

// Frozen freezes every container once the Config is initialized.
func Frozen() Option {
	return func(o *options) { o.frozen = true }
}

// WithLogger sets the logger of the Config instead of the package logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

type cachedValue struct {
	value   any
	present bool
}

// Config is one instance of a Class: a container per store name, the lock
// and freeze state, and snapshots of non-dynamic fields on volatile
// containers. A Config is not safe for concurrent use.
type Config struct {
	class      *Class
	containers map[string]Container
	cache      map[*Field]cachedValue
	extra      map[string]*Field
	locked     bool
	frozen     bool
	logger     *zap.Logger
}

// New collects decl and creates an instance of it.
func New(decl any, opts ...Option) (*Config, error) {
	cl, err := Collect(decl)
	if err != nil {
		return nil, err
	}
	return cl.New(opts...)
}

// New creates an instance: containers are bound by the load hook (by
// default a fresh MapStore per store), fields are materialized in
// declaration order, the finalise hook runs, then the requested freeze and
// lock are applied.
func (cl *Class) New(opts ...Option) (*Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = Logger()
	}
	c := &Config{
		class:      cl,
		containers: make(map[string]Container),
		cache:      make(map[*Field]cachedValue),
		extra:      make(map[string]*Field),
		logger:     logger.With(zap.String("class", cl.typ.String())),
	}

	for name, container := range o.containers {
		if err := c.Bind(name, container); err != nil {
			return nil, err
		}
	}

	if err := c.load(o.load); err != nil {
		return nil, fmt.Errorf("failed to load stores: %w", err)
	}

	for _, name := range cl.storeNames {
		if c.containers[name] == nil {
			return nil, fmt.Errorf("%w: %s", ErrStoreNotBound, name)
		}
	}

	for i, f := range cl.fields {
		if err := f.materialize(c); err != nil {
			return nil, fmt.Errorf("failed to materialize field %q: %w", cl.fieldAttrs[i], err)
		}
	}

	finalise := o.finalise
	if finalise == nil {
		if fin, ok := cl.decl.(Finaliser); ok {
			finalise = fin.Finalise
		}
	}
	if finalise != nil {
		if err := finalise(c); err != nil {
			return nil, fmt.Errorf("failed to finalise config: %w", err)
		}
	}

	if o.frozen {
		c.Freeze()
	}
	if o.locked {
		c.Lock()
	}
	return c, nil
}

func (c *Config) load(hook LoadFunc) error {
	if hook == nil {
		if loader, ok := c.class.decl.(Loader); ok {
			hook = loader.Load
		}
	}
	if hook != nil {
		return hook(c)
	}
	for _, name := range c.class.storeNames {
		if c.containers[name] != nil {
			continue
		}
		if err := c.Bind(name, NewMapStore()); err != nil {
			return err
		}
	}
	return nil
}

// Class returns the class c is an instance of.
func (c *Config) Class() *Class { return c.class }

// Logger returns the logger of c.
func (c *Config) Logger() *zap.Logger { return c.logger }

// Bind attaches container under the store name, replacing any previous one.
// Snapshots taken from the replaced container are dropped.
func (c *Config) Bind(store string, container Container) error {
	if store == "" {
		return fmt.Errorf("%w: cannot bind a container without a store name", ErrMissingName)
	}
	if container == nil {
		return fmt.Errorf("%w: nil container for store %q", ErrDefinition, store)
	}
	if c.frozen {
		container = Freeze(container)
	}
	c.containers[store] = container
	for f := range c.cache {
		if f.store.Name() == store {
			delete(c.cache, f)
		}
	}
	c.logger.Debug("Store bound",
		zap.String("store", store),
		zap.String("container", fmt.Sprintf("%T", container)))
	return nil
}

// Container returns the container bound under the store name.
func (c *Config) Container(store string) (Container, error) {
	container, ok := c.containers[store]
	if !ok || container == nil {
		return nil, fmt.Errorf("%w: %s", ErrStoreNotBound, store)
	}
	return container, nil
}

// Containers returns the bound store names, sorted.
func (c *Config) Containers() []string {
	names := make([]string, 0, len(c.containers))
	for name := range c.containers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Field returns the field collected or added under attr.
func (c *Config) Field(attr string) (*Field, bool) {
	if f, ok := c.class.Field(attr); ok {
		return f, true
	}
	f, ok := c.extra[attr]
	return f, ok
}

func (c *Config) field(attr string) (*Field, error) {
	f, ok := c.Field(attr)
	if !ok {
		return nil, fmt.Errorf("%w: no field %q", ErrKeyNotFound, attr)
	}
	return f, nil
}

// Get reads the field under attr.
func (c *Config) Get(attr string) (any, error) {
	f, err := c.field(attr)
	if err != nil {
		return nil, err
	}
	return f.Get(c)
}

// Set writes the field under attr.
func (c *Config) Set(attr string, v any) error {
	f, err := c.field(attr)
	if err != nil {
		return err
	}
	return f.Set(c, v)
}

// Add attaches a field built at runtime, such as the result of Combine,
// under attr and materializes it. The field's store must be bound.
func (c *Config) Add(attr string, f *Field) error {
	if f == nil || f.store == nil {
		return fmt.Errorf("%w: field %q has no store", ErrDefinition, attr)
	}
	if _, exists := c.Field(attr); exists {
		return fmt.Errorf("%w: field %q already exists", ErrDefinition, attr)
	}
	f.resolveName(attr)
	if _, err := c.Container(f.store.Name()); err != nil {
		return err
	}
	if err := f.materialize(c); err != nil {
		return fmt.Errorf("failed to materialize field %q: %w", attr, err)
	}
	c.extra[attr] = f
	return nil
}

// Lock makes every Set fail with ErrLocked.
func (c *Config) Lock() {
	c.locked = true
	c.logger.Debug("Config locked")
}

// Unlock allows Set again.
func (c *Config) Unlock() {
	c.locked = false
	c.logger.Debug("Config unlocked")
}

// IsLocked reports whether c is locked.
func (c *Config) IsLocked() bool { return c.locked }

// Unlocked runs fn with c unlocked and locks c again when fn returns,
// whether it returns an error or panics.
func (c *Config) Unlocked(fn func() error) error {
	c.Unlock()
	defer c.Lock()
	return fn()
}

// Freeze replaces every bound container with a read-only deep copy. Writes
// then fail with ErrFrozen. Freezing cannot be undone.
func (c *Config) Freeze() {
	for name, container := range c.containers {
		c.containers[name] = Freeze(container)
	}
	c.frozen = true
	c.logger.Debug("Config frozen", zap.Strings("stores", c.Containers()))
}

// IsFrozen reports whether c is frozen.
func (c *Config) IsFrozen() bool { return c.frozen }

// fetch reads the raw value of f, serving the instance snapshot for
// non-dynamic fields that have one.
func (c *Config) fetch(f *Field, keys []string) (any, error) {
	if !f.dynamic {
		if cached, ok := c.cache[f]; ok {
			if !cached.present {
				return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, f.Path())
			}
			return cached.value, nil
		}
	}
	container, err := c.Container(f.store.Name())
	if err != nil {
		return nil, err
	}
	return container.Get(keys)
}

// store writes an encoded value of f and refreshes its snapshot.
func (c *Config) store(f *Field, keys []string, value any) error {
	container, err := c.Container(f.store.Name())
	if err != nil {
		return err
	}
	if err := container.Set(keys, value); err != nil {
		return fmt.Errorf("failed to set field %q: %w", f.Path(), err)
	}
	if !f.dynamic && isVolatile(container) {
		c.cache[f] = cachedValue{value: value, present: true}
	}
	return nil
}

// snapshot records the current value of a non-dynamic field on a volatile
// container.
func (c *Config) snapshot(f *Field) error {
	if f.dynamic {
		return nil
	}
	container, err := c.Container(f.store.Name())
	if err != nil {
		return err
	}
	if !isVolatile(container) {
		return nil
	}
	keys, err := f.Keys()
	if err != nil {
		return err
	}
	raw, err := container.Get(keys)
	switch {
	case err == nil:
		c.cache[f] = cachedValue{value: raw, present: true}
	case errors.Is(err, ErrKeyNotFound):
		c.cache[f] = cachedValue{}
	default:
		return err
	}
	return nil
}
