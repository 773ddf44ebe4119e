// FILE: lixenwraith/bonfig/ini.go
package bonfig

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-ini/ini"
)

// INIStore is a container over an INI document. Keys are [section, key], or
// [key] for the default section. Leaves must be strings.
type INIStore struct {
	file *ini.File
}

// NewINIStore creates an empty INI container.
func NewINIStore() *INIStore {
	return &INIStore{file: ini.Empty()}
}

// ParseINI builds an INI container from document text.
func ParseINI(data []byte) (*INIStore, error) {
	s := NewINIStore()
	if err := s.Read(data); err != nil {
		return nil, err
	}
	return s, nil
}

// Read merges an INI document into the store. Keys already present are
// overwritten.
func (s *INIStore) Read(data []byte) error {
	parsed, err := ini.Load(data)
	if err != nil {
		return fmt.Errorf("failed to parse INI data: %w", err)
	}
	copySections(s.file, parsed)
	return nil
}

// ReadString is Read for document text.
func (s *INIStore) ReadString(text string) error {
	return s.Read([]byte(text))
}

// WriteTo writes the document in INI format.
func (s *INIStore) WriteTo(w io.Writer) (int64, error) {
	return s.file.WriteTo(w)
}

// Bytes returns the document in INI format.
func (s *INIStore) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := s.file.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode INI data: %w", err)
	}
	return buf.Bytes(), nil
}

// File exposes the underlying ini.File.
func (s *INIStore) File() *ini.File {
	return s.file
}

// Get returns the string at [section, key] or [key]. A single key naming a
// non-default section returns that section as a map.
func (s *INIStore) Get(keys []string) (any, error) {
	switch len(keys) {
	case 0:
		return s.Snapshot(), nil
	case 1:
		v, err := s.lookup(ini.DefaultSection, keys[0])
		if err == nil || keys[0] == ini.DefaultSection {
			return v, err
		}
		if sec, secErr := s.file.GetSection(keys[0]); secErr == nil {
			return sectionMap(sec), nil
		}
		return nil, err
	case 2:
		return s.lookup(keys[0], keys[1])
	default:
		return nil, fmt.Errorf("%w: INI paths have at most two levels, got %v", ErrKeyNotFound, keys)
	}
}

func (s *INIStore) lookup(section, key string) (any, error) {
	sec, err := s.file.GetSection(section)
	if err != nil {
		return nil, fmt.Errorf("%w: section %q", ErrKeyNotFound, section)
	}
	if !sec.HasKey(key) {
		return nil, fmt.Errorf("%w: %s.%s", ErrKeyNotFound, section, key)
	}
	return sec.Key(key).String(), nil
}

// Set writes a string leaf, creating the section when missing.
func (s *INIStore) Set(keys []string, value any) error {
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: INI option values have to be strings, got %T", ErrValueType, value)
	}

	var section, key string
	switch len(keys) {
	case 1:
		section, key = ini.DefaultSection, keys[0]
	case 2:
		section, key = keys[0], keys[1]
	default:
		return fmt.Errorf("%w: INI sections have to be at the top level, got path %v", ErrValueType, keys)
	}

	sec := s.file.Section(section)
	if sec.HasKey(key) {
		sec.Key(key).SetValue(str)
		return nil
	}
	if _, err := sec.NewKey(key, str); err != nil {
		return fmt.Errorf("failed to create INI key %s.%s: %w", section, key, err)
	}
	return nil
}

// Snapshot returns sections as nested maps; default-section keys sit at the top.
func (s *INIStore) Snapshot() map[string]any {
	out := make(map[string]any)
	for _, sec := range s.file.Sections() {
		if sec.Name() == ini.DefaultSection {
			for k, v := range sec.KeysHash() {
				out[k] = v
			}
			continue
		}
		out[sec.Name()] = sectionMap(sec)
	}
	return out
}

// Clone copies every section and key into a new document.
func (s *INIStore) Clone() Container {
	clone := NewINIStore()
	copySections(clone.file, s.file)
	return clone
}

// copySections writes every key of src into dst, overwriting existing keys.
func copySections(dst, src *ini.File) {
	for _, sec := range src.Sections() {
		target := dst.Section(sec.Name())
		for _, key := range sec.Keys() {
			if target.HasKey(key.Name()) {
				target.Key(key.Name()).SetValue(key.Value())
				continue
			}
			// NewKey only fails on empty names, which a parsed file cannot hold.
			_, _ = target.NewKey(key.Name(), key.Value())
		}
	}
}

func sectionMap(sec *ini.Section) map[string]any {
	out := make(map[string]any)
	for k, v := range sec.KeysHash() {
		out[k] = v
	}
	return out
}
