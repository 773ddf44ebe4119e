// FILE: lixenwraith/bonfig/decode.go
package bonfig

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Scan decodes the section's subtree into target, a non-nil pointer.
// String leaves are converted to the target's field types, so values written
// by typed fields into string-only stores decode back to numbers, durations,
// IPs and URLs.
func (s *Section) Scan(c *Config, target any) error {
	keys, err := s.Keys()
	if err != nil {
		return err
	}
	return scanContainer(c, s.Store().Name(), keys, target)
}

// Scan decodes the whole store into target.
func (s *Store) Scan(c *Config, target any) error {
	return scanContainer(c, s.Name(), nil, target)
}

func scanContainer(c *Config, store string, keys []string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be non-nil pointer, got %T", target)
	}

	container, err := c.Container(store)
	if err != nil {
		return err
	}

	var data any
	if len(keys) == 0 {
		if snap, ok := container.(Snapshotter); ok {
			data = snap.Snapshot()
		} else if data, err = container.Get(nil); err != nil {
			return err
		}
	} else if data, err = container.Get(keys); err != nil {
		return err
	}

	subtree, ok := data.(map[string]any)
	if !ok {
		if data != nil {
			return fmt.Errorf("path %q refers to non-map value (type %T)", joinKeys(keys), data)
		}
		subtree = make(map[string]any)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          tagName,
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
		ZeroFields:       true,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(subtree); err != nil {
		return fmt.Errorf("decode failed for path %q: %w", joinKeys(keys), err)
	}
	return nil
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		stringToNetIPHookFunc(),
		stringToNetIPNetHookFunc(),
		stringToURLHookFunc(),

		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
		trimSliceHookFunc(),
	)
}

func stringToNetIPHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(net.IP{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 45 { // max IPv6 length
			return nil, fmt.Errorf("invalid IP length: %d", len(str))
		}
		ip := net.ParseIP(str)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address: %s", str)
		}
		return ip, nil
	}
}

func stringToNetIPNetHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(net.IPNet{}) {
			return data, nil
		}

		_, ipnet, err := net.ParseCIDR(data.(string))
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR: %w", err)
		}
		if isPtr {
			return ipnet, nil
		}
		return *ipnet, nil
	}
}

func stringToURLHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(url.URL{}) {
			return data, nil
		}

		u, err := url.Parse(data.(string))
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		if isPtr {
			return u, nil
		}
		return *u, nil
	}
}

// trimSliceHookFunc trims items split from ListField values, which use ", ".
func trimSliceHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		items, ok := data.([]string)
		if !ok || t.Kind() != reflect.Slice {
			return data, nil
		}
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = strings.TrimSpace(item)
		}
		return out, nil
	}
}
