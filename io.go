// File: lixenwraith/bonfig/io.go
package bonfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-ini/ini"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"
)

// Format names a document format a container can be read from or written to.
type Format string

const (
	FormatINI  Format = "ini"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	// FormatAuto detects the format from the file extension, then the content.
	FormatAuto Format = ""
)

// LoadFile reads a document into a new container: INI gives an INIStore,
// JSON a JSONStore, TOML and YAML a MapStore.
func LoadFile(path string) (Container, error) {
	return LoadFileAs(path, FormatAuto)
}

// LoadFileAs is LoadFile with an explicit format.
func LoadFileAs(path string, format Format) (Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if format == FormatAuto {
		if format = detectFileFormat(path); format == FormatAuto {
			format = detectFormatFromContent(data)
		}
	}

	container, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("config file '%s': %w", path, err)
	}
	return container, nil
}

// Parse builds a container from document data.
func Parse(data []byte, format Format) (Container, error) {
	switch format {
	case FormatINI:
		return ParseINI(data)
	case FormatJSON:
		return ParseJSON(data)
	case FormatTOML:
		doc := make(map[string]any)
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse TOML data: %w", err)
		}
		return NewMapStoreFrom(doc), nil
	case FormatYAML:
		doc := make(map[string]any)
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML data: %w", err)
		}
		return NewMapStoreFrom(doc), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// SaveFile writes container to path atomically. The format follows the
// extension, or the container's own format when the extension is unknown.
func SaveFile(path string, container Container) error {
	format := detectFileFormat(path)
	if format == FormatAuto {
		format = nativeFormat(container)
	}
	return SaveFileAs(path, container, format)
}

// SaveFileAs writes container to path atomically in format.
func SaveFileAs(path string, container Container, format Format) error {
	data, err := Encode(container, format)
	if err != nil {
		return err
	}
	return atomicWriteFile(path, data)
}

// Encode renders container as a document. INI and JSON stores render
// themselves in their own format; anything else needs to be a Snapshotter.
func Encode(container Container, format Format) ([]byte, error) {
	if frozen, ok := container.(*frozenContainer); ok {
		container = frozen.Unwrap()
	}

	switch store := container.(type) {
	case *INIStore:
		if format == FormatINI {
			return store.Bytes()
		}
	case *JSONStore:
		if format == FormatJSON {
			return store.Bytes(), nil
		}
	}

	snap, ok := container.(Snapshotter)
	if !ok {
		return nil, fmt.Errorf("%w: %T cannot be exported", ErrUnknownFormat, container)
	}
	doc := snap.Snapshot()

	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to marshal config data to TOML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config data to YAML: %w", err)
		}
		return data, nil
	case FormatJSON:
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config data to JSON: %w", err)
		}
		return pretty.Pretty(data), nil
	case FormatINI:
		store, err := iniFromMap(doc)
		if err != nil {
			return nil, err
		}
		return store.Bytes()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// iniFromMap lays out a nested map as INI: top-level scalars go to the
// default section, top-level maps become sections.
func iniFromMap(doc map[string]any) (*INIStore, error) {
	store := NewINIStore()
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if section, ok := doc[key].(map[string]any); ok {
			for option, value := range section {
				if err := setINIValue(store, []string{key, option}, value); err != nil {
					return nil, err
				}
			}
			continue
		}
		if err := setINIValue(store, []string{key}, doc[key]); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func setINIValue(store *INIStore, keys []string, value any) error {
	s, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrValueType, strings.Join(keys, "."), err)
	}
	return store.Set(keys, s)
}

func nativeFormat(container Container) Format {
	if frozen, ok := container.(*frozenContainer); ok {
		container = frozen.Unwrap()
	}
	switch container.(type) {
	case *INIStore:
		return FormatINI
	case *JSONStore:
		return FormatJSON
	default:
		return FormatTOML
	}
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // no-op after a successful rename

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".cfg":
		return FormatINI
	case ".json":
		return FormatJSON
	case ".toml", ".tml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// detectFormatFromContent attempts to detect format by parsing. INI is the
// fallback, as its parser accepts nearly anything.
func detectFormatFromContent(data []byte) Format {
	if gjson.ValidBytes(data) && gjson.ParseBytes(data).IsObject() {
		return FormatJSON
	}

	// YAML reads most text as a scalar, so only a mapping counts.
	var yamlTest map[string]any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil && len(yamlTest) > 0 {
		return FormatYAML
	}

	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return FormatTOML
	}

	if _, err := ini.Load(data); err == nil {
		return FormatINI
	}
	return FormatAuto
}
