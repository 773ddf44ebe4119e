// FILE: lixenwraith/bonfig/convenience_test.go
package bonfig

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestQuick tests the one-call constructor
func TestQuick(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "quick.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = \"9300\"\n"), 0644))

	// Quick reads os.Args; the test binary's own flags must not match fields.
	decl := newAppDecl()
	cfg, err := Quick(decl, "files", path)
	require.NoError(t, err)

	port, err := decl.Port.Get(cfg)
	require.NoError(t, err)
	assert.Equal(t, 9300, port)

	assert.NotPanics(t, func() {
		MustQuick(newAppDecl(), "files", filepath.Join(tmpDir, "absent.toml"))
	})
}

// TestValidate tests the required-field check
func TestValidate(t *testing.T) {
	decl := newServerDecl()
	cfg, err := New(decl)
	require.NoError(t, err)

	assert.NoError(t, cfg.Validate("Host", "Port"))

	err = cfg.Validate("Host", "timeout", "Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
	assert.NotContains(t, err.Error(), "timeout (not declared)", "tagged attributes are declared under their tag")
	assert.Contains(t, err.Error(), "Missing (not declared)")
	assert.NotContains(t, err.Error(), "Host")
}

// TestDebugAndDump tests the human-readable renderings
func TestDebugAndDump(t *testing.T) {
	t.Setenv("DUMPTEST_home", "/home/app")
	decl := newAppDecl()
	files, err := ParseINI([]byte("[server]\nhost = example.com\n"))
	require.NoError(t, err)

	cfg, err := NewBuilder(decl).
		WithStore("files", files).
		WithEnv("env", "DUMPTEST_").
		WithArgs(nil).
		Locked().
		Build()
	require.NoError(t, err)

	debug := cfg.Debug()
	assert.Contains(t, debug, "locked=true")
	assert.Contains(t, debug, "Path: server.port")
	assert.Contains(t, debug, "Type: IntField")
	assert.Contains(t, debug, "Current: example.com")
	assert.Contains(t, debug, "Default: 5s")

	var buf bytes.Buffer
	require.NoError(t, cfg.Dump(&buf))
	out := buf.String()
	assert.Contains(t, out, "# store: env\nhome = /home/app\n")
	assert.Contains(t, out, "# store: files\n")
	assert.Contains(t, out, "[server]")
	assert.NotContains(t, out, "PATH", "only declared environment variables are dumped")
}

// TestClone tests that a clone is independent and unlocked
func TestClone(t *testing.T) {
	decl := newServerDecl()
	cfg, err := New(decl, Locked())
	require.NoError(t, err)

	clone := cfg.Clone()
	assert.False(t, clone.IsLocked())
	require.NoError(t, decl.Port.Set(clone, 9999))

	orig, err := decl.Port.Get(cfg)
	require.NoError(t, err)
	assert.Equal(t, 8080, orig)

	cloned, err := decl.Port.Get(clone)
	require.NoError(t, err)
	assert.Equal(t, 9999, cloned)
}

// TestFlags tests flag generation and binding
func TestFlags(t *testing.T) {
	decl := newServerDecl()
	cfg, err := New(decl)
	require.NoError(t, err)

	fs := cfg.GenerateFlags()
	port := fs.Lookup("Server.Port")
	require.NotNil(t, port)
	assert.Equal(t, "8080", port.DefValue)
	assert.NotNil(t, fs.Lookup("Server.timeout"))

	require.NoError(t, fs.Parse([]string{"-Server.Port=9001", "-Server.timeout=2s"}))
	require.NoError(t, cfg.BindFlags(fs))

	val, err := decl.Port.Get(cfg)
	require.NoError(t, err)
	assert.Equal(t, 9001, val)

	t.Run("BadValue", func(t *testing.T) {
		fs := cfg.GenerateFlags()
		require.NoError(t, fs.Parse([]string{"-Server.Port=abc"}))
		assert.Error(t, cfg.BindFlags(fs))
	})
}
