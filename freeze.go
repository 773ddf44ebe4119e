// FILE: lixenwraith/bonfig/freeze.go
package bonfig

import "fmt"

// frozenContainer is a read-only view over a private deep copy.
type frozenContainer struct {
	inner Container
}

// Freeze returns a read-only view of c. Containers implementing Cloner are
// deep-copied first, so later changes to c do not show through. Writes to the
// view fail with ErrFrozen.
func Freeze(c Container) Container {
	if _, ok := c.(*frozenContainer); ok {
		return c
	}
	inner := c
	if cl, ok := c.(Cloner); ok {
		inner = cl.Clone()
	}
	return &frozenContainer{inner: inner}
}

// IsFrozen reports whether c is a frozen view.
func IsFrozen(c Container) bool {
	_, ok := c.(*frozenContainer)
	return ok
}

func (f *frozenContainer) Get(keys []string) (any, error) {
	v, err := f.inner.Get(keys)
	if err != nil {
		return nil, err
	}
	return cloneValue(v), nil
}

func (f *frozenContainer) Set(keys []string, _ any) error {
	return fmt.Errorf("%w: cannot assign %s", ErrFrozen, joinKeys(keys))
}

func (f *frozenContainer) Snapshot() map[string]any {
	if s, ok := f.inner.(Snapshotter); ok {
		return s.Snapshot()
	}
	return nil
}

// Unwrap returns the frozen copy. Mutating it bypasses the freeze.
func (f *frozenContainer) Unwrap() Container {
	return f.inner
}
