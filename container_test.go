// FILE: lixenwraith/bonfig/container_test.go
package bonfig

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMapStore tests nested map access
func TestMapStore(t *testing.T) {
	m := NewMapStore()

	require.NoError(t, m.Set([]string{"server", "http", "port"}, "8080"))
	require.NoError(t, m.Set([]string{"debug"}, true))

	val, err := m.Get([]string{"server", "http", "port"})
	require.NoError(t, err)
	assert.Equal(t, "8080", val)

	sub, err := m.Get([]string{"server", "http"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"port": "8080"}, sub)

	_, err = m.Get([]string{"server", "missing"})
	assert.ErrorIs(t, err, ErrKeyNotFound)

	_, err = m.Get([]string{"debug", "nested"})
	assert.ErrorIs(t, err, ErrKeyNotFound)

	err = m.Set([]string{"debug", "nested"}, "x")
	assert.ErrorIs(t, err, ErrValueType)

	err = m.Set(nil, "x")
	assert.ErrorIs(t, err, ErrValueType)

	t.Run("CloneIsDeep", func(t *testing.T) {
		clone := m.Clone()
		require.NoError(t, clone.Set([]string{"server", "http", "port"}, "9090"))
		val, err := m.Get([]string{"server", "http", "port"})
		require.NoError(t, err)
		assert.Equal(t, "8080", val)
	})

	t.Run("WrapsExistingMap", func(t *testing.T) {
		data := map[string]any{"a": map[string]any{"b": 1}}
		wrapped := NewMapStoreFrom(data)
		require.NoError(t, wrapped.Set([]string{"a", "c"}, 2))
		assert.Equal(t, 2, data["a"].(map[string]any)["c"])
	})
}

// TestINIStore tests the two-level INI container
func TestINIStore(t *testing.T) {
	s, err := ParseINI([]byte("name = app\n\n[server]\nhost = localhost\nport = 8080\n"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		keys     []string
		expected any
	}{
		{"DefaultSection", []string{"name"}, "app"},
		{"SectionKey", []string{"server", "port"}, "8080"},
		{"WholeSection", []string{"server"}, map[string]any{"host": "localhost", "port": "8080"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val, err := s.Get(tt.keys)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, val)
		})
	}

	t.Run("Missing", func(t *testing.T) {
		_, err := s.Get([]string{"server", "tls"})
		assert.ErrorIs(t, err, ErrKeyNotFound)
		_, err = s.Get([]string{"nope", "key"})
		assert.ErrorIs(t, err, ErrKeyNotFound)
		_, err = s.Get([]string{"a", "b", "c"})
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("SetCreatesSection", func(t *testing.T) {
		require.NoError(t, s.Set([]string{"db", "user"}, "admin"))
		require.NoError(t, s.Set([]string{"server", "port"}, "9090"))
		val, err := s.Get([]string{"db", "user"})
		require.NoError(t, err)
		assert.Equal(t, "admin", val)
		val, err = s.Get([]string{"server", "port"})
		require.NoError(t, err)
		assert.Equal(t, "9090", val)
	})

	t.Run("RejectsNonStrings", func(t *testing.T) {
		assert.ErrorIs(t, s.Set([]string{"server", "port"}, 8080), ErrValueType)
	})

	t.Run("RejectsDeepPaths", func(t *testing.T) {
		assert.ErrorIs(t, s.Set([]string{"a", "b", "c"}, "x"), ErrValueType)
	})

	t.Run("IntFieldOnINI", func(t *testing.T) {
		main := NewStore("main")
		server := main.Section("server")
		decl := &struct {
			Main   *Store
			Server *Section
			Port   *Field `bonfig:"port"`
		}{Main: main, Server: server, Port: server.IntField()}

		cfg, err := New(decl, WithContainer("main", s.Clone()))
		require.NoError(t, err)
		val, err := decl.Port.Get(cfg)
		require.NoError(t, err)
		assert.Equal(t, 9090, val)

		require.NoError(t, decl.Port.Set(cfg, 7070))
		container, err := cfg.Container("main")
		require.NoError(t, err)
		data, err := container.(*INIStore).Bytes()
		require.NoError(t, err)
		assert.Contains(t, string(data), "port = 7070")
	})

	t.Run("DefaultKeySharesSectionName", func(t *testing.T) {
		main := NewStore("main")
		server := main.Section("server")
		decl := &struct {
			Main   *Store
			Server *Section
			Top    *Field
			Port   *Field
		}{
			Main:   main,
			Server: server,
			Top:    main.Field(Name("server"), Val("top")),
			Port:   server.IntField(Name("port"), Val(80)),
		}

		cfg, err := New(decl, WithContainer("main", NewINIStore()))
		require.NoError(t, err)

		top, err := decl.Top.Get(cfg)
		require.NoError(t, err)
		assert.Equal(t, "top", top)

		port, err := decl.Port.Get(cfg)
		require.NoError(t, err)
		assert.Equal(t, 80, port)

		container, err := cfg.Container("main")
		require.NoError(t, err)
		val, err := container.Get([]string{"server"})
		require.NoError(t, err)
		assert.Equal(t, "top", val)
	})

	t.Run("SectionWithoutDefaultKey", func(t *testing.T) {
		doc, err := ParseINI([]byte("[server]\nport = 80\n"))
		require.NoError(t, err)
		val, err := doc.Get([]string{"server"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"port": "80"}, val)

		_, err = doc.Get([]string{"absent"})
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("ReadMerges", func(t *testing.T) {
		m := NewINIStore()
		require.NoError(t, m.ReadString("[a]\nx = 1\n"))
		require.NoError(t, m.ReadString("[a]\nx = 2\ny = 3\n"))
		assert.Equal(t, map[string]any{"a": map[string]any{"x": "2", "y": "3"}}, m.Snapshot())
	})
}

// TestJSONStore tests gjson paths with escaping
func TestJSONStore(t *testing.T) {
	s, err := ParseJSON([]byte(`{"server": {"port": 8080, "hosts": ["a", "b"]}, "a.b": "dotted"}`))
	require.NoError(t, err)

	val, err := s.Get([]string{"server", "port"})
	require.NoError(t, err)
	assert.Equal(t, float64(8080), val)

	val, err = s.Get([]string{"a.b"})
	require.NoError(t, err)
	assert.Equal(t, "dotted", val)

	val, err = s.Get([]string{"server", "hosts"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, val)

	_, err = s.Get([]string{"server", "missing"})
	assert.ErrorIs(t, err, ErrKeyNotFound)

	t.Run("SetVivifies", func(t *testing.T) {
		require.NoError(t, s.Set([]string{"db", "pool", "size"}, "10"))
		require.NoError(t, s.Set([]string{"weird*key?"}, "w"))

		val, err := s.Get([]string{"db", "pool", "size"})
		require.NoError(t, err)
		assert.Equal(t, "10", val)

		val, err = s.Get([]string{"weird*key?"})
		require.NoError(t, err)
		assert.Equal(t, "w", val)
		assert.Contains(t, s.Snapshot(), "weird*key?")
	})

	t.Run("InvalidDocuments", func(t *testing.T) {
		_, err := ParseJSON([]byte(`{"broken"`))
		assert.Error(t, err)
		_, err = ParseJSON([]byte(`[1, 2]`))
		assert.Error(t, err)
	})

	t.Run("CloneIsIndependent", func(t *testing.T) {
		clone := s.Clone()
		require.NoError(t, clone.Set([]string{"server", "port"}, "1"))
		val, err := s.Get([]string{"server", "port"})
		require.NoError(t, err)
		assert.Equal(t, float64(8080), val)
	})
}

// TestEnvStore tests environment lookups and snapshots of volatile values
func TestEnvStore(t *testing.T) {
	t.Setenv("BONFIGTEST_server_port", "8080")
	t.Setenv("BONFIGTEST_SERVER_MAX_CONNS", "10")

	t.Run("Transforms", func(t *testing.T) {
		plain := NewEnvStore("BONFIGTEST_")
		assert.Equal(t, "BONFIGTEST_server_port", plain.VarName([]string{"server", "port"}))
		val, err := plain.Get([]string{"server", "port"})
		require.NoError(t, err)
		assert.Equal(t, "8080", val)

		upper := NewEnvStoreWithTransform("BONFIGTEST_", UpperEnvTransform("BONFIGTEST_"))
		assert.Equal(t, "BONFIGTEST_SERVER_MAX_CONNS", upper.VarName([]string{"server", "max-conns"}))
		val, err = upper.Get([]string{"server", "max-conns"})
		require.NoError(t, err)
		assert.Equal(t, "10", val)

		_, err = plain.Get([]string{"absent"})
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("SetWritesEnvironment", func(t *testing.T) {
		t.Setenv("BONFIGTEST_written", "")
		env := NewEnvStore("BONFIGTEST_")
		require.NoError(t, env.Set([]string{"written"}, "yes"))
		assert.Equal(t, "yes", os.Getenv("BONFIGTEST_written"))
		assert.ErrorIs(t, env.Set([]string{"written"}, 1), ErrValueType)
	})

	t.Run("SnapshotStripsPrefix", func(t *testing.T) {
		env := NewEnvStore("BONFIGTEST_")
		snap := env.Snapshot()
		assert.Equal(t, "8080", snap["server_port"])
		assert.Equal(t, "10", snap["SERVER_MAX_CONNS"])
	})

	t.Run("CloneCaptures", func(t *testing.T) {
		env := NewEnvStore("BONFIGTEST_")
		clone := env.Clone()
		assert.True(t, env.Volatile())
		assert.False(t, clone.(Volatile).Volatile())

		t.Setenv("BONFIGTEST_server_port", "9999")
		val, err := clone.Get([]string{"server", "port"})
		require.NoError(t, err)
		assert.Equal(t, "8080", val)

		require.NoError(t, clone.Set([]string{"server", "port"}, "1"))
		assert.Equal(t, "9999", os.Getenv("BONFIGTEST_server_port"))
	})

	t.Run("FieldSnapshotVersusDynamic", func(t *testing.T) {
		t.Setenv("BONFIGTEST_server_port", "8080")
		env := NewStore("env")
		server := env.Section("server")
		decl := &struct {
			Env  *Store
			Port *Field `bonfig:"port"`
			Live *Field
			None *Field
		}{
			Env:  env,
			Port: server.IntField(),
			Live: server.IntField(Name("port"), Dynamic()),
			None: server.Field(Name("none"), Default("fallback")),
		}

		cfg, err := New(decl, WithContainer("env", NewEnvStore("BONFIGTEST_")))
		require.NoError(t, err)

		t.Setenv("BONFIGTEST_server_port", "9090")

		snap, err := decl.Port.Get(cfg)
		require.NoError(t, err)
		assert.Equal(t, 8080, snap)

		live, err := decl.Live.Get(cfg)
		require.NoError(t, err)
		assert.Equal(t, 9090, live)

		none, err := decl.None.Get(cfg)
		require.NoError(t, err)
		assert.Equal(t, "fallback", none)

		require.NoError(t, decl.Port.Set(cfg, 7070))
		snap, err = decl.Port.Get(cfg)
		require.NoError(t, err)
		assert.Equal(t, 7070, snap)
		assert.Equal(t, "7070", os.Getenv("BONFIGTEST_server_port"))

		require.NoError(t, cfg.Bind("env", NewEnvStore("BONFIGTEST_")))
		t.Setenv("BONFIGTEST_server_port", "6060")
		snap, err = decl.Port.Get(cfg)
		require.NoError(t, err)
		assert.Equal(t, 6060, snap, "rebinding drops snapshots")
	})
}
