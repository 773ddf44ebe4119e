// FILE: lixenwraith/bonfig/example/main.go
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/lixenwraith/bonfig"
)

const configFilePath = "example.ini"

var (
	files  = bonfig.NewStore("files")
	env    = bonfig.NewStore("env")
	server = files.Section("server")
	paths  = files.Section("paths")
)

// BaseConfig holds settings shared by every service.
type BaseConfig struct {
	Files    *bonfig.Store
	Env      *bonfig.Store
	Server   *bonfig.Section
	Paths    *bonfig.Section
	Host     *bonfig.Field `bonfig:"host"`
	Port     *bonfig.Field `bonfig:"port"`
	LogLevel *bonfig.Field `bonfig:"log_level"`
	Root     *bonfig.Field `bonfig:"root"`
	Logs     *bonfig.Field `bonfig:"logs"`
}

// AppConfig overrides the port and adds service settings.
type AppConfig struct {
	BaseConfig
	Port    *bonfig.Field `bonfig:"port"`
	Timeout *bonfig.Field `bonfig:"timeout"`
	Peers   *bonfig.Field `bonfig:"peers"`
	Home    *bonfig.Field `bonfig:"HOME"`
}

var app = &AppConfig{
	BaseConfig: BaseConfig{
		Files:    files,
		Env:      env,
		Server:   server,
		Paths:    paths,
		Host:     server.Field(bonfig.Default("localhost")),
		Port:     server.IntField(bonfig.Default(80)),
		LogLevel: server.Field(bonfig.Default("info")),
		Root:     paths.PathField(bonfig.Default("/srv/app")),
		Logs:     paths.PathField(bonfig.Default("logs")),
	},
	Port:    server.IntField(bonfig.Default(8080)),
	Timeout: server.DurationField(bonfig.Default(30 * time.Second)),
	Peers:   server.ListField(bonfig.Default([]string{})),
	Home:    env.PathField(bonfig.Dynamic(), bonfig.Default("/")),
}

// validatePort rejects ports outside the unprivileged range.
func validatePort(c *bonfig.Config) error {
	port, err := bonfig.Value[int](c, app.Port)
	if err != nil {
		return err
	}
	if port < 1024 || port > 65535 {
		return fmt.Errorf("port %d is outside the recommended range (1024-65535)", port)
	}
	return nil
}

func main() {
	// =========================================================================
	// PART 1: INITIAL SETUP
	// Write an INI file for the program to read.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 1: Creating initial configuration file...")

	defer func() {
		log.Println("---")
		log.Println("🧹 Cleaning up...")
		os.Remove(configFilePath)
		log.Printf("Removed %s.", configFilePath)
	}()

	initial := bonfig.NewINIStore()
	if err := initial.ReadString("[server]\nhost = example.com\nport = 9000\npeers = a.local, b.local\n"); err != nil {
		log.Fatalf("❌ Failed to build initial document: %v", err)
	}
	if err := bonfig.SaveFile(configFilePath, initial); err != nil {
		log.Fatalf("❌ Failed during initial file creation: %v", err)
	}
	log.Printf("✅ Initial configuration saved to %s.", configFilePath)

	// =========================================================================
	// PART 2: BUILDING A CONFIG
	// File values, environment lookups and command-line overrides.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 2: Building the config...")

	cfg, err := bonfig.NewBuilder(app).
		WithFile("files", configFilePath).
		WithEnv("env", "").
		WithArgs([]string{"--server.log_level=debug"}).
		WithValidator(validatePort).
		Locked().
		Build()
	if err != nil && !errors.Is(err, bonfig.ErrConfigNotFound) {
		log.Fatalf("❌ Builder failed: %v", err)
	}
	log.Println("✅ Builder finished successfully.")
	printCurrentState(cfg, "Initial State (CLI overrides File)")

	// =========================================================================
	// PART 3: LOCKING AND FREEZING
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 3: Locking and freezing...")

	if err := app.Port.Set(cfg, 9100); errors.Is(err, bonfig.ErrLocked) {
		log.Println("✅ Locked config rejected the write.")
	}
	if err := cfg.Unlocked(func() error { return app.Port.Set(cfg, 9100) }); err != nil {
		log.Fatalf("❌ Scoped unlock failed: %v", err)
	}
	log.Printf("✅ Port changed inside the scoped unlock, locked again: %t", cfg.IsLocked())

	logDir, err := app.Root.Combine(cfg, app.Logs, bonfig.JoinPaths)
	if err != nil {
		log.Fatalf("❌ Combine failed: %v", err)
	}
	if err := cfg.Unlocked(func() error { return cfg.Add("LogDir", logDir) }); err != nil {
		log.Fatalf("❌ Add failed: %v", err)
	}

	frozen := cfg.Clone()
	frozen.Freeze()
	if err := app.Host.Set(frozen, "other"); errors.Is(err, bonfig.ErrFrozen) {
		log.Println("✅ Frozen clone rejected the write.")
	}

	printCurrentState(cfg, "Final State")
	if err := bonfig.SaveFile(configFilePath, mustContainer(cfg, "files")); err != nil {
		log.Fatalf("❌ Failed to save: %v", err)
	}
	fmt.Println(cfg.Debug())
}

func mustContainer(cfg *bonfig.Config, store string) bonfig.Container {
	c, err := cfg.Container(store)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	return c
}

// must stops the program when a config read fails.
func must[T any](v T, err error) T {
	if err != nil {
		log.Fatalf("❌ Failed to read config: %v", err)
	}
	return v
}

// printCurrentState is a helper to display the config state.
func printCurrentState(cfg *bonfig.Config, title string) {
	host := must(bonfig.Value[string](cfg, app.Host))
	port := must(bonfig.Value[int](cfg, app.Port))
	level := must(bonfig.Value[string](cfg, app.LogLevel))
	timeout := must(bonfig.Value[time.Duration](cfg, app.Timeout))
	peers := must(bonfig.Value[[]string](cfg, app.Peers))
	home := must(bonfig.Value[string](cfg, app.Home))

	fmt.Println("   --------------------------------------------------")
	fmt.Printf("             %s\n", title)
	fmt.Println("   --------------------------------------------------")
	fmt.Printf("     Server Host:      %s\n", host)
	fmt.Printf("     Server Port:      %d\n", port)
	fmt.Printf("     Server Log Level: %s\n", level)
	fmt.Printf("     Timeout:          %s\n", timeout)
	fmt.Printf("     Peers:            %v\n", peers)
	fmt.Printf("     Home:             %s\n", home)
	if logDir, err := cfg.String("LogDir"); err == nil {
		fmt.Printf("     Log Directory:    %s\n", logDir)
	}
	fmt.Println("   --------------------------------------------------")
}
