// FILE: lixenwraith/bonfig/env.go
package bonfig

import (
	"fmt"
	"os"
	"strings"
)

// EnvTransformFunc maps a key path to an environment variable name.
type EnvTransformFunc func(keys []string) string

// DefaultEnvTransform joins keys with underscores after prefix, keeping case.
func DefaultEnvTransform(prefix string) EnvTransformFunc {
	return func(keys []string) string {
		return prefix + strings.Join(keys, "_")
	}
}

// UpperEnvTransform joins keys with underscores, uppercases the result and
// replaces dots and dashes, so ["server", "max-conns"] becomes
// PREFIX_SERVER_MAX_CONNS.
func UpperEnvTransform(prefix string) EnvTransformFunc {
	replacer := strings.NewReplacer(".", "_", "-", "_")
	return func(keys []string) string {
		env := replacer.Replace(strings.Join(keys, "_"))
		return prefix + strings.ToUpper(env)
	}
}

// EnvStore is a flat container over environment variables. A live store
// reads and writes the process environment; a captured store (from Clone)
// serves a private copy.
type EnvStore struct {
	prefix    string
	transform EnvTransformFunc
	captured  map[string]string
}

// NewEnvStore creates a live environment container using DefaultEnvTransform.
func NewEnvStore(prefix string) *EnvStore {
	return &EnvStore{prefix: prefix, transform: DefaultEnvTransform(prefix)}
}

// NewEnvStoreWithTransform creates a live environment container with a custom
// key-to-variable mapping. prefix only filters Snapshot.
func NewEnvStoreWithTransform(prefix string, fn EnvTransformFunc) *EnvStore {
	if fn == nil {
		fn = DefaultEnvTransform(prefix)
	}
	return &EnvStore{prefix: prefix, transform: fn}
}

// VarName returns the variable name keys map to.
func (e *EnvStore) VarName(keys []string) string {
	return e.transform(keys)
}

// Get looks up the variable for keys.
func (e *EnvStore) Get(keys []string) (any, error) {
	name := e.transform(keys)
	if e.captured != nil {
		if v, ok := e.captured[name]; ok {
			return v, nil
		}
		return nil, fmt.Errorf("%w: environment variable %s", ErrKeyNotFound, name)
	}
	if v, ok := os.LookupEnv(name); ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: environment variable %s", ErrKeyNotFound, name)
}

// Set assigns the variable for keys. Values must be strings.
func (e *EnvStore) Set(keys []string, value any) error {
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: environment values have to be strings, got %T", ErrValueType, value)
	}
	name := e.transform(keys)
	if e.captured != nil {
		e.captured[name] = str
		return nil
	}
	if err := os.Setenv(name, str); err != nil {
		return fmt.Errorf("failed to set environment variable %s: %w", name, err)
	}
	return nil
}

// Volatile reports whether reads hit the shared process environment.
func (e *EnvStore) Volatile() bool {
	return e.captured == nil
}

// Snapshot returns variables carrying the store prefix, prefix stripped.
func (e *EnvStore) Snapshot() map[string]any {
	out := make(map[string]any)
	for name, value := range e.vars() {
		if !strings.HasPrefix(name, e.prefix) {
			continue
		}
		out[strings.TrimPrefix(name, e.prefix)] = value
	}
	return out
}

// Clone captures the current environment into a private copy.
func (e *EnvStore) Clone() Container {
	return &EnvStore{prefix: e.prefix, transform: e.transform, captured: e.vars()}
}

func (e *EnvStore) vars() map[string]string {
	out := make(map[string]string)
	if e.captured != nil {
		for k, v := range e.captured {
			out[k] = v
		}
		return out
	}
	for _, kv := range os.Environ() {
		if name, value, ok := strings.Cut(kv, "="); ok {
			out[name] = value
		}
	}
	return out
}
