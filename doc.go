// File: lixenwraith/bonfig/doc.go

// Package bonfig maps declared configuration fields onto backing stores:
// nested maps, INI documents, JSON documents and the process environment.
//
// A config class is a struct whose exported fields hold *Store, *Section and
// *Field descriptors. A package-level value of the struct is the class body;
// Collect walks it once, resolves deferred names from attribute names and
// records the fields in declaration order. Class.New creates instances: every
// store gets a container, and every field's initial value is written through
// its encoder.
//
// Features:
//   - Deferred naming: fields, sections and stores take their attribute name
//   - Typed fields (int, float, bool, time, path, duration, list) and a
//     registry for custom encode/decode pairs
//   - Nestable sections, scoped With aliases for stores and sections
//   - Inheritance through struct embedding; the derived field wins
//   - Lock/unlock with guaranteed relock, and freeze to read-only copies
//   - INI, JSON, TOML and YAML files, environment variables, CLI overrides
//   - Builder with file discovery and validators
//
// Quick Start:
//
//	var (
//	    store  = bonfig.NewStore("")
//	    server = store.Section("server")
//	)
//
//	type AppConfig struct {
//	    Main    *bonfig.Store
//	    Server  *bonfig.Section
//	    Host    *bonfig.Field
//	    Port    *bonfig.Field
//	    Timeout *bonfig.Field `bonfig:"timeout"`
//	}
//
//	var app = &AppConfig{
//	    Main:    store,
//	    Server:  server,
//	    Host:    server.Field(bonfig.Val("localhost")),
//	    Port:    server.IntField(bonfig.Val(8080)),
//	    Timeout: server.DurationField(bonfig.Default("5s")),
//	}
//
//	cfg, err := bonfig.New(app, bonfig.Locked())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	port, _ := app.Port.Get(cfg) // 8080, stored as "8080" under Main["server"]["Port"]
//
// Lifecycle of New:
//  1. Load: WithLoad, a Load method on the declaration, or a MapStore per store
//  2. Every store used by a field must have a container (ErrStoreNotBound)
//  3. Initial values are written in declaration order
//  4. Finalise: WithFinalise or a Finalise method on the declaration
//  5. Frozen and Locked options apply
//
// Concurrency:
// A Config is not safe for concurrent use. The field registry and the Collect
// cache are safe to use from init functions in several packages.
package bonfig
