// FILE: lixenwraith/bonfig/builder_test.go
package bonfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type AppDecl struct {
	Files   *Store
	Env     *Store
	Server  *Section
	Host    *Field
	Port    *Field
	Timeout *Field
	Home    *Field
}

func newAppDecl() *AppDecl {
	files := NewStore("files")
	env := NewStore("env")
	server := files.Section("server")
	return &AppDecl{
		Files:   files,
		Env:     env,
		Server:  server,
		Host:    server.Field(Name("host"), Default("localhost")),
		Port:    server.IntField(Name("port"), Default(8080)),
		Timeout: server.DurationField(Name("timeout"), Default("5s")),
		Home:    env.PathField(Name("home"), Default("/tmp")),
	}
}

// TestBuilder tests assembling a config from files, environment and arguments
func TestBuilder(t *testing.T) {
	tmpDir := t.TempDir()
	iniPath := filepath.Join(tmpDir, "app.ini")
	require.NoError(t, os.WriteFile(iniPath, []byte("[server]\nhost = example.com\nport = 9000\n"), 0644))
	t.Setenv("BUILDERTEST_home", "/srv/app")

	t.Run("FileEnvAndArgs", func(t *testing.T) {
		decl := newAppDecl()
		cfg, err := NewBuilder(decl).
			WithFile("files", iniPath).
			WithEnv("env", "BUILDERTEST_").
			WithArgs([]string{"--server.port=9100", "--Timeout", "1m", "positional"}).
			Build()
		require.NoError(t, err)

		host, err := decl.Host.Get(cfg)
		require.NoError(t, err)
		assert.Equal(t, "example.com", host)

		port, err := decl.Port.Get(cfg)
		require.NoError(t, err)
		assert.Equal(t, 9100, port)

		timeout, err := decl.Timeout.Get(cfg)
		require.NoError(t, err)
		assert.Equal(t, time.Minute, timeout)

		home, err := decl.Home.Get(cfg)
		require.NoError(t, err)
		assert.Equal(t, filepath.Clean("/srv/app"), home)

		container, err := cfg.Container("files")
		require.NoError(t, err)
		assert.IsType(t, &INIStore{}, container)
	})

	t.Run("MissingFileStillBuilds", func(t *testing.T) {
		decl := newAppDecl()
		cfg, err := NewBuilder(decl).
			WithFile("files", filepath.Join(tmpDir, "absent.json")).
			WithArgs(nil).
			Build()
		assert.ErrorIs(t, err, ErrConfigNotFound)
		require.NotNil(t, cfg)

		port, err := decl.Port.Get(cfg)
		require.NoError(t, err)
		assert.Equal(t, 8080, port)

		container, err := cfg.Container("files")
		require.NoError(t, err)
		assert.IsType(t, &JSONStore{}, container)
	})

	t.Run("StoreQualifiedArg", func(t *testing.T) {
		decl := newAppDecl()
		cfg, err := NewBuilder(decl).
			WithArgs([]string{"--files.server.host", "cli.local", "--unknown=1"}).
			Build()
		require.NoError(t, err)

		host, err := decl.Host.Get(cfg)
		require.NoError(t, err)
		assert.Equal(t, "cli.local", host)
	})

	t.Run("InvalidArg", func(t *testing.T) {
		_, err := NewBuilder(newAppDecl()).WithArgs([]string{"--server.port=abc"}).Build()
		assert.ErrorIs(t, err, ErrCLIParse)

		_, err = NewBuilder(newAppDecl()).WithArgs([]string{"--bad key=1"}).Build()
		assert.ErrorIs(t, err, ErrCLIParse)
	})

	t.Run("ValidatorsRunInOrder", func(t *testing.T) {
		var order []string
		errPort := errors.New("port too low")
		_, err := NewBuilder(newAppDecl()).
			WithArgs(nil).
			WithValidator(func(c *Config) error {
				order = append(order, "first")
				return nil
			}).
			WithValidator(func(c *Config) error {
				order = append(order, "second")
				port, err := c.Int("Port")
				if err != nil {
					return err
				}
				if port < 9000 {
					return errPort
				}
				return nil
			}).
			Build()
		assert.ErrorIs(t, err, errPort)
		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("LockedAndFrozen", func(t *testing.T) {
		decl := newAppDecl()
		cfg, err := NewBuilder(decl).WithArgs(nil).Locked().Frozen().Build()
		require.NoError(t, err)
		assert.True(t, cfg.IsLocked())
		assert.True(t, cfg.IsFrozen())

		assert.ErrorIs(t, decl.Port.Set(cfg, 1), ErrLocked)
		err = cfg.Unlocked(func() error { return decl.Port.Set(cfg, 1) })
		assert.ErrorIs(t, err, ErrFrozen)
	})

	t.Run("LastSourceWins", func(t *testing.T) {
		decl := newAppDecl()
		explicit := NewMapStoreFrom(map[string]any{"server": map[string]any{"host": "explicit"}})
		cfg, err := NewBuilder(decl).
			WithFile("files", iniPath).
			WithStore("files", explicit).
			WithArgs(nil).
			Build()
		require.NoError(t, err)

		host, err := decl.Host.Get(cfg)
		require.NoError(t, err)
		assert.Equal(t, "explicit", host)
	})

	t.Run("SourceErrors", func(t *testing.T) {
		_, err := NewBuilder(newAppDecl()).WithStore("files", nil).Build()
		assert.ErrorIs(t, err, ErrDefinition)

		_, err = NewBuilder(newAppDecl()).WithFile("", iniPath).Build()
		assert.ErrorIs(t, err, ErrMissingName)
	})

	t.Run("BuildAndScan", func(t *testing.T) {
		var target struct {
			Server struct {
				Host string `bonfig:"host"`
				Port int    `bonfig:"port"`
			} `bonfig:"server"`
		}
		err := NewBuilder(newAppDecl()).
			WithFile("files", iniPath).
			WithArgs(nil).
			BuildAndScan("files", &target)
		require.NoError(t, err)
		assert.Equal(t, "example.com", target.Server.Host)
		assert.Equal(t, 9000, target.Server.Port)
	})

	t.Run("MustBuildToleratesMissingFile", func(t *testing.T) {
		assert.NotPanics(t, func() {
			cfg := NewBuilder(newAppDecl()).
				WithFile("files", filepath.Join(tmpDir, "absent.ini")).
				WithArgs(nil).
				MustBuild()
			assert.NotNil(t, cfg)
		})
		assert.Panics(t, func() {
			NewBuilder(newAppDecl()).WithArgs([]string{"--server.port=abc"}).MustBuild()
		})
	})
}

// TestFileDiscovery tests locating config files by flag, variable and search path
func TestFileDiscovery(t *testing.T) {
	tmpDir := t.TempDir()
	tomlPath := filepath.Join(tmpDir, "myapp.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("[server]\nport = \"7000\"\n"), 0644))
	altPath := filepath.Join(tmpDir, "alt.json")
	require.NoError(t, os.WriteFile(altPath, []byte(`{"server": {"port": "7100"}}`), 0644))

	opts := DefaultDiscoveryOptions("myapp")
	opts.Paths = []string{tmpDir}
	opts.UseXDG = false
	opts.UseCurrentDir = false

	t.Run("SearchPath", func(t *testing.T) {
		assert.Equal(t, tomlPath, discoverFile(opts, nil))

		decl := newAppDecl()
		cfg, err := NewBuilder(decl).WithFileDiscovery("files", opts).WithArgs(nil).Build()
		require.NoError(t, err)
		port, err := decl.Port.Get(cfg)
		require.NoError(t, err)
		assert.Equal(t, 7000, port)
	})

	t.Run("EnvVar", func(t *testing.T) {
		t.Setenv("MYAPP_CONFIG", altPath)
		assert.Equal(t, altPath, discoverFile(opts, nil))
	})

	t.Run("CLIFlagWins", func(t *testing.T) {
		t.Setenv("MYAPP_CONFIG", tomlPath)
		assert.Equal(t, altPath, discoverFile(opts, []string{"--config", altPath}))
		assert.Equal(t, altPath, discoverFile(opts, []string{"--config=" + altPath}))
	})

	t.Run("NothingFound", func(t *testing.T) {
		empty := opts
		empty.Paths = []string{filepath.Join(tmpDir, "nowhere")}
		assert.Empty(t, discoverFile(empty, nil))

		decl := newAppDecl()
		cfg, err := NewBuilder(decl).WithFileDiscovery("files", empty).WithArgs(nil).Build()
		require.NoError(t, err)
		container, err := cfg.Container("files")
		require.NoError(t, err)
		assert.IsType(t, &INIStore{}, container)
	})

	t.Run("XDGPaths", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/xdg/home")
		t.Setenv("XDG_CONFIG_DIRS", "/xdg/a"+string(os.PathListSeparator)+"/xdg/b")
		assert.Equal(t, []string{
			filepath.Join("/xdg/home", "myapp"),
			filepath.Join("/xdg/a", "myapp"),
			filepath.Join("/xdg/b", "myapp"),
		}, getXDGConfigPaths("myapp"))
	})
}

// TestParseArgs tests command-line override parsing
func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []argOverride
		wantErr  bool
	}{
		{"Equals", []string{"--a.b=1"}, []argOverride{{"a.b", "1"}}, false},
		{"Separate", []string{"--a", "x"}, []argOverride{{"a", "x"}}, false},
		{"BareFlag", []string{"--debug", "--a=1"}, []argOverride{{"debug", "true"}, {"a", "1"}}, false},
		{"TrailingFlag", []string{"--verbose"}, []argOverride{{"verbose", "true"}}, false},
		{"SkipsPositional", []string{"run", "--a=1", "file"}, []argOverride{{"a", "1"}}, false},
		{"Separator", []string{"--", "--a=1"}, []argOverride{{"a", "1"}}, false},
		{"EmptyValue", []string{"--a="}, []argOverride{{"a", ""}}, false},
		{"InvalidSegment", []string{"--a..b=1"}, nil, true},
		{"InvalidChar", []string{"--a$=1"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
