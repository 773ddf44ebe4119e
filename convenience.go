// File: lixenwraith/bonfig/convenience.go
package bonfig

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Quick creates a Config for decl with store read from configFile and
// command-line overrides from os.Args. A missing file is reported as
// ErrConfigNotFound next to a usable Config.
func Quick(decl any, store, configFile string) (*Config, error) {
	return NewBuilder(decl).WithFile(store, configFile).Build()
}

// MustQuick is like Quick but panics on error
func MustQuick(decl any, store, configFile string) *Config {
	cfg, err := Quick(decl, store, configFile)
	if err != nil && (cfg == nil || !errors.Is(err, ErrConfigNotFound)) {
		panic(fmt.Sprintf("config initialization failed: %v", err))
	}
	return cfg
}

// GenerateFlags creates a string flag per field, named by its dotted path
// and defaulting to the field's current value.
func (c *Config) GenerateFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	seen := make(map[string]bool)
	for i, f := range c.class.fields {
		name := f.Path()
		if seen[name] {
			name = f.storeName() + "." + name
		}
		seen[name] = true

		var current string
		if v, err := f.Get(c); err == nil && v != nil {
			current = fmt.Sprint(v)
		}
		fs.String(name, current, fmt.Sprintf("Config: %s (%s)", c.class.fieldAttrs[i], f.ftype.Name))
	}
	return fs
}

// BindFlags sets the fields of the flags that were set on fs.
func (c *Config) BindFlags(fs *flag.FlagSet) error {
	var errs []error
	fs.Visit(func(fl *flag.Flag) {
		for _, f := range c.matchFields(fl.Name) {
			v, err := f.decode(f, fl.Value.String())
			if err == nil {
				err = f.Set(c, v)
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("flag %s: %w", fl.Name, err))
			}
		}
	})

	if len(errs) > 0 {
		return fmt.Errorf("failed to bind %d flags: %w", len(errs), errs[0])
	}
	return nil
}

// Validate checks that the fields under the given attributes hold a value in
// their container. A value served only from a default does not count.
func (c *Config) Validate(required ...string) error {
	var missing []string
	for _, attr := range required {
		f, ok := c.Field(attr)
		if !ok {
			missing = append(missing, attr+" (not declared)")
			continue
		}
		keys, err := f.Keys()
		if err != nil {
			return err
		}
		if _, err := c.fetch(f, keys); err != nil {
			if !errors.Is(err, ErrKeyNotFound) {
				return err
			}
			missing = append(missing, attr)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Debug returns a formatted string showing every field, where it lives and
// what it reads as.
func (c *Config) Debug() string {
	var b strings.Builder
	b.WriteString("Configuration Debug Info:\n")
	fmt.Fprintf(&b, "Class: %s (locked=%t, frozen=%t)\n", c.class.typ, c.locked, c.frozen)
	b.WriteString("Fields:\n")

	for i, f := range c.class.fields {
		fmt.Fprintf(&b, "  %s:\n", c.class.fieldAttrs[i])
		fmt.Fprintf(&b, "    Store: %s\n", f.storeName())
		fmt.Fprintf(&b, "    Path: %s\n", f.Path())
		fmt.Fprintf(&b, "    Type: %s\n", f.ftype.Name)
		if v, err := f.Get(c); err != nil {
			fmt.Fprintf(&b, "    Current: <%v>\n", err)
		} else {
			fmt.Fprintf(&b, "    Current: %v\n", v)
		}
		if def, ok := f.DefaultValue(); ok {
			fmt.Fprintf(&b, "    Default: %v\n", def)
		}
		if f.dynamic {
			b.WriteString("    Dynamic: true\n")
		}
	}
	return b.String()
}

// Dump writes every bound container to w in its own format, one section per
// store. The environment and containers that cannot export themselves are
// listed as the flattened values of their fields.
func (c *Config) Dump(w io.Writer) error {
	for _, name := range c.Containers() {
		container := c.containers[name]
		if _, err := fmt.Fprintf(w, "# store: %s\n", name); err != nil {
			return err
		}

		if isVolatile(container) {
			if err := c.dumpFields(w, name); err != nil {
				return err
			}
			continue
		}

		data, err := Encode(container, nativeFormat(container))
		if err == nil {
			if _, err := w.Write(data); err != nil {
				return err
			}
			continue
		}
		if !errors.Is(err, ErrUnknownFormat) {
			return fmt.Errorf("failed to dump store %q: %w", name, err)
		}
		if err := c.dumpFields(w, name); err != nil {
			return err
		}
	}
	return nil
}

// dumpFields lists the fields of one store as path = raw value.
func (c *Config) dumpFields(w io.Writer, store string) error {
	nested := NewMapStore()
	for _, f := range c.class.fields {
		if f.storeName() != store {
			continue
		}
		keys, err := f.Keys()
		if err != nil {
			return err
		}
		raw, err := c.fetch(f, keys)
		if err != nil {
			continue
		}
		if err := nested.Set(keys, raw); err != nil {
			return err
		}
	}

	flat := flattenMap(nested.Map(), "")
	paths := make([]string, 0, len(flat))
	for p := range flat {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if _, err := fmt.Fprintf(w, "%s = %v\n", p, flat[p]); err != nil {
			return err
		}
	}
	return nil
}

// Clone creates an unlocked copy of the configuration with deep-copied
// containers. Containers that cannot copy themselves are shared.
func (c *Config) Clone() *Config {
	clone := &Config{
		class:      c.class,
		containers: make(map[string]Container, len(c.containers)),
		cache:      make(map[*Field]cachedValue, len(c.cache)),
		extra:      make(map[string]*Field, len(c.extra)),
		frozen:     c.frozen,
		logger:     c.logger,
	}

	for name, container := range c.containers {
		if cl, ok := container.(Cloner); ok {
			container = cl.Clone()
		}
		clone.containers[name] = container
	}
	for f, v := range c.cache {
		clone.cache[f] = v
	}
	for attr, f := range c.extra {
		clone.extra[attr] = f
	}
	return clone
}
