// FILE: lixenwraith/bonfig/cmd/bonfig/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lixenwraith/bonfig"
	"go.uber.org/zap"
)

func main() {
	var (
		in      = flag.String("in", "", "config file to read (ini, json, toml or yaml)")
		out     = flag.String("out", "", "file to write; stdout when empty")
		format  = flag.String("format", "", "output format; defaults to the output extension or the input format")
		get     = flag.String("get", "", "print the value at a dotted key path instead of the document")
		set     = flag.String("set", "", "comma-separated key.path=value assignments applied before writing")
		verbose = flag.Bool("verbose", false, "log debug output to stderr")
	)
	flag.Parse()

	logger := newLogger(*verbose)
	defer logger.Sync()
	bonfig.SetLogger(logger)

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: bonfig -in FILE [-get KEY] [-set k=v,...] [-format FMT] [-out FILE]")
		os.Exit(2)
	}

	if err := run(logger, *in, *out, bonfig.Format(*format), *get, *set); err != nil {
		logger.Error("bonfig failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func run(logger *zap.Logger, in, out string, format bonfig.Format, get, set string) error {
	container, err := bonfig.LoadFile(in)
	if err != nil {
		if errors.Is(err, bonfig.ErrConfigNotFound) {
			return fmt.Errorf("no config file at %s", in)
		}
		return err
	}
	logger.Debug("Config file loaded",
		zap.String("path", in),
		zap.String("container", fmt.Sprintf("%T", container)))

	if set != "" {
		for _, assignment := range strings.Split(set, ",") {
			key, value, ok := strings.Cut(strings.TrimSpace(assignment), "=")
			if !ok || key == "" {
				return fmt.Errorf("invalid assignment %q, want key.path=value", assignment)
			}
			if err := container.Set(strings.Split(key, "."), value); err != nil {
				return err
			}
			logger.Debug("Value assigned", zap.String("key", key), zap.String("value", value))
		}
	}

	if get != "" {
		val, err := container.Get(strings.Split(get, "."))
		if err != nil {
			return err
		}
		fmt.Println(val)
		return nil
	}

	if out != "" {
		if format == bonfig.FormatAuto {
			return bonfig.SaveFile(out, container)
		}
		return bonfig.SaveFileAs(out, container, format)
	}

	if format == bonfig.FormatAuto {
		format = inputFormat(container)
	}
	data, err := bonfig.Encode(container, format)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func inputFormat(container bonfig.Container) bonfig.Format {
	switch container.(type) {
	case *bonfig.INIStore:
		return bonfig.FormatINI
	case *bonfig.JSONStore:
		return bonfig.FormatJSON
	default:
		return bonfig.FormatTOML
	}
}
