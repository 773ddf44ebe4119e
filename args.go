// FILE: lixenwraith/bonfig/args.go
package bonfig

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// argOverride is one --key=value pair from the command line.
type argOverride struct {
	key   string
	value string
}

// ApplyArgs sets fields from command-line overrides. Keys are matched against
// a field's attribute name, its dotted path, or its path qualified with the
// store name ("store.path"). Values are decoded by the field and then set,
// so the lock applies. Unmatched keys are logged and ignored.
func ApplyArgs(c *Config, args []string) error {
	overrides, err := parseArgs(args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCLIParse, err)
	}

	for _, o := range overrides {
		fields := c.matchFields(o.key)
		if len(fields) == 0 {
			c.logger.Warn("Ignoring CLI override for unknown field", zap.String("key", o.key))
			continue
		}
		for _, f := range fields {
			v, err := f.decode(f, o.value)
			if err != nil {
				return fmt.Errorf("%w: --%s: %w", ErrCLIParse, o.key, err)
			}
			if err := f.Set(c, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Config) matchFields(key string) []*Field {
	if f, ok := c.Field(key); ok {
		return []*Field{f}
	}
	var matched []*Field
	for _, f := range c.class.fields {
		path := f.Path()
		if path == key || f.storeName()+"."+path == key {
			matched = append(matched, f)
		}
	}
	return matched
}

// parseArgs collects --key=value, --key value and bare --flag (true) pairs
// in order. Other arguments are skipped.
func parseArgs(args []string) ([]argOverride, error) {
	var result []argOverride
	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			i++
			continue
		}

		argContent := strings.TrimPrefix(arg, "--")
		if argContent == "" {
			// "--" separator
			i++
			continue
		}

		var keyPath, valueStr string
		if key, value, found := strings.Cut(argContent, "="); found {
			keyPath, valueStr = key, value
			i++
		} else {
			keyPath = argContent
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				valueStr = "true"
				i++
			} else {
				valueStr = args[i+1]
				i += 2
			}
		}

		if keyPath == "" {
			continue
		}
		for _, segment := range strings.Split(keyPath, ".") {
			if !isValidKeySegment(segment) {
				return nil, fmt.Errorf("invalid command-line key segment %q in path %q", segment, keyPath)
			}
		}

		result = append(result, argOverride{key: keyPath, value: valueStr})
	}
	return result, nil
}
