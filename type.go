// File: lixenwraith/bonfig/type.go
package bonfig

import (
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// String reads the field under attr and converts the result to a string.
func (c *Config) String(attr string) (string, error) {
	val, err := c.Get(attr)
	if err != nil {
		return "", err
	}
	if val == nil {
		return "", nil // nil reads as empty string
	}
	s, err := cast.ToStringE(val)
	if err != nil {
		return "", fmt.Errorf("cannot convert type %T to string for field %s: %w", val, attr, err)
	}
	return s, nil
}

// Int64 reads the field under attr and converts the result to an int64.
// Numeric strings, floats (truncated) and booleans convert.
func (c *Config) Int64(attr string) (int64, error) {
	val, err := c.Get(attr)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, fmt.Errorf("value for field %s is nil, cannot convert to int64", attr)
	}
	i, err := cast.ToInt64E(val)
	if err != nil {
		return 0, fmt.Errorf("cannot convert type %T to int64 for field %s: %w", val, attr, err)
	}
	return i, nil
}

// Int reads the field under attr as an int.
func (c *Config) Int(attr string) (int, error) {
	i, err := c.Int64(attr)
	return int(i), err
}

// Float64 reads the field under attr and converts the result to a float64.
func (c *Config) Float64(attr string) (float64, error) {
	val, err := c.Get(attr)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, fmt.Errorf("value for field %s is nil, cannot convert to float64", attr)
	}
	f, err := cast.ToFloat64E(val)
	if err != nil {
		return 0, fmt.Errorf("cannot convert type %T to float64 for field %s: %w", val, attr, err)
	}
	return f, nil
}

// Bool reads the field under attr and converts the result to a bool.
// Numbers convert as zero=false.
func (c *Config) Bool(attr string) (bool, error) {
	val, err := c.Get(attr)
	if err != nil {
		return false, err
	}
	if val == nil {
		return false, fmt.Errorf("value for field %s is nil, cannot convert to bool", attr)
	}
	b, err := cast.ToBoolE(val)
	if err != nil {
		return false, fmt.Errorf("cannot convert type %T to bool for field %s: %w", val, attr, err)
	}
	return b, nil
}

// Duration reads the field under attr as a time.Duration. Strings use
// time.ParseDuration syntax; bare numbers are nanoseconds.
func (c *Config) Duration(attr string) (time.Duration, error) {
	val, err := c.Get(attr)
	if err != nil {
		return 0, err
	}
	d, err := cast.ToDurationE(val)
	if err != nil {
		return 0, fmt.Errorf("cannot convert type %T to duration for field %s: %w", val, attr, err)
	}
	return d, nil
}

// Time reads the field under attr as a time.Time.
func (c *Config) Time(attr string) (time.Time, error) {
	val, err := c.Get(attr)
	if err != nil {
		return time.Time{}, err
	}
	t, err := cast.ToTimeE(val)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot convert type %T to time for field %s: %w", val, attr, err)
	}
	return t, nil
}

// StringSlice reads the field under attr as a []string.
func (c *Config) StringSlice(attr string) ([]string, error) {
	val, err := c.Get(attr)
	if err != nil {
		return nil, err
	}
	items, err := cast.ToStringSliceE(val)
	if err != nil {
		return nil, fmt.Errorf("cannot convert type %T to []string for field %s: %w", val, attr, err)
	}
	return items, nil
}

// Value reads a field and asserts its decoded value to T.
func Value[T any](c *Config, f *Field) (T, error) {
	var zero T
	val, err := f.Get(c)
	if err != nil {
		return zero, err
	}
	typed, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%w: field %s holds %T, not %T", ErrValueType, f.Path(), val, zero)
	}
	return typed, nil
}
