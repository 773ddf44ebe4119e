// FILE: lixenwraith/bonfig/codec.go
package bonfig

import (
	"fmt"
	"math"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// DecodeFunc converts a raw container value into the value a field returns.
type DecodeFunc func(f *Field, raw any) (any, error)

// EncodeFunc converts a value given to a field into what the container stores.
type EncodeFunc func(f *Field, v any) (any, error)

// CombineFunc merges the values of two fields into the initial value of a new one.
type CombineFunc func(a, b any) (any, error)

// Default layout of TimeField and separator of ListField.
const (
	DefaultTimeLayout    = time.RFC3339
	DefaultListSeparator = ", "
)

func passThrough(_ *Field, v any) (any, error) {
	return v, nil
}

func typeError(v any, target string, err error) error {
	return fmt.Errorf("%w: cannot convert %v (%T) to %s: %v", ErrValueType, v, v, target, err)
}

func encodeInt(f *Field, v any) (any, error) {
	if s, ok := v.(string); ok {
		i, err := decodeInt(f, s)
		if err != nil {
			return nil, err
		}
		v = i
	}
	if err := checkInt64(v); err != nil {
		return nil, typeError(v, "int", err)
	}
	i, err := cast.ToInt64E(v)
	if err != nil {
		return nil, typeError(v, "int", err)
	}
	return strconv.FormatInt(i, 10), nil
}

// checkInt64 rejects numbers that cast would truncate or wrap.
func checkInt64(v any) error {
	var f float64
	switch n := v.(type) {
	case uint:
		if uint64(n) > math.MaxInt64 {
			return fmt.Errorf("%d overflows int64", n)
		}
		return nil
	case uint64:
		if n > math.MaxInt64 {
			return fmt.Errorf("%d overflows int64", n)
		}
		return nil
	case float32:
		f = float64(n)
	case float64:
		f = n
	default:
		return nil
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("%v is not a whole number", f)
	}
	// 2^63 itself is out of range; float64 cannot hold MaxInt64 exactly.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return fmt.Errorf("%v overflows int64", f)
	}
	return nil
}

func decodeInt(_ *Field, raw any) (any, error) {
	if s, ok := raw.(string); ok {
		// ParseInt in base 10 keeps "08" a valid integer.
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 0)
		if err != nil {
			return nil, typeError(raw, "int", err)
		}
		return int(i), nil
	}
	if err := checkInt64(raw); err != nil {
		return nil, typeError(raw, "int", err)
	}
	i, err := cast.ToIntE(raw)
	if err != nil {
		return nil, typeError(raw, "int", err)
	}
	return i, nil
}

func encodeFloat(_ *Field, v any) (any, error) {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, typeError(v, "float", err)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

func decodeFloat(_ *Field, raw any) (any, error) {
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return nil, typeError(raw, "float", err)
	}
	return f, nil
}

func encodeBool(_ *Field, v any) (any, error) {
	b, err := cast.ToBoolE(v)
	if err != nil {
		return nil, typeError(v, "bool", err)
	}
	return strconv.FormatBool(b), nil
}

func decodeBool(_ *Field, raw any) (any, error) {
	b, err := cast.ToBoolE(raw)
	if err != nil {
		return nil, typeError(raw, "bool", err)
	}
	return b, nil
}

func encodeTime(f *Field, v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		var err error
		if t, err = cast.ToTimeE(v); err != nil {
			return nil, typeError(v, "time", err)
		}
	}
	return t.Format(f.timeLayout()), nil
}

func decodeTime(f *Field, raw any) (any, error) {
	if t, ok := raw.(time.Time); ok {
		return t, nil
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return nil, typeError(raw, "time", err)
	}
	t, err := time.Parse(f.timeLayout(), s)
	if err != nil {
		return nil, typeError(raw, "time", err)
	}
	return t, nil
}

func encodeDuration(_ *Field, v any) (any, error) {
	d, err := cast.ToDurationE(v)
	if err != nil {
		return nil, typeError(v, "duration", err)
	}
	return d.String(), nil
}

func decodeDuration(_ *Field, raw any) (any, error) {
	d, err := cast.ToDurationE(raw)
	if err != nil {
		return nil, typeError(raw, "duration", err)
	}
	return d, nil
}

func encodePath(_ *Field, v any) (any, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, typeError(v, "path", err)
	}
	if s == "" {
		return s, nil
	}
	return filepath.ToSlash(filepath.Clean(s)), nil
}

func decodePath(_ *Field, raw any) (any, error) {
	s, err := cast.ToStringE(raw)
	if err != nil {
		return nil, typeError(raw, "path", err)
	}
	if s == "" {
		return s, nil
	}
	return filepath.Clean(filepath.FromSlash(s)), nil
}

func encodeList(f *Field, v any) (any, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	items, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, typeError(v, "list", err)
	}
	return strings.Join(items, f.listSeparator()), nil
}

func decodeList(f *Field, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		items, err := cast.ToStringSliceE(raw)
		if err != nil {
			return nil, typeError(raw, "list", err)
		}
		return items, nil
	}
	if s == "" {
		return []string{}, nil
	}
	return strings.Split(s, f.listSeparator()), nil
}

// ConcatValues concatenates two slices, or two values as strings.
func ConcatValues(a, b any) (any, error) {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Kind() == reflect.Slice && bv.Kind() == reflect.Slice {
		out := make([]any, 0, av.Len()+bv.Len())
		for _, sv := range []reflect.Value{av, bv} {
			for i := 0; i < sv.Len(); i++ {
				out = append(out, sv.Index(i).Interface())
			}
		}
		return out, nil
	}
	as, err := cast.ToStringE(a)
	if err != nil {
		return nil, typeError(a, "string", err)
	}
	bs, err := cast.ToStringE(b)
	if err != nil {
		return nil, typeError(b, "string", err)
	}
	return as + bs, nil
}

// JoinPaths joins two values as filesystem path elements.
func JoinPaths(a, b any) (any, error) {
	as, err := cast.ToStringE(a)
	if err != nil {
		return nil, typeError(a, "path", err)
	}
	bs, err := cast.ToStringE(b)
	if err != nil {
		return nil, typeError(b, "path", err)
	}
	return filepath.Join(as, bs), nil
}
