// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/tally/cmd/tally/cli"
	"github.com/bureau-foundation/tally/lib/config"
)

// globalOptions are the flags shared by every command. Set flags
// override the loaded configuration.
type globalOptions struct {
	configPath string
	logOutput  string
	logLevel   string
	noColor    bool
}

func (options *globalOptions) addFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&options.configPath, "config", "", "configuration file (default: $"+config.EnvVar+")")
	flagSet.StringVar(&options.logOutput, "log-output", "", "also write JSON log records to this file")
	flagSet.StringVar(&options.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flagSet.BoolVar(&options.noColor, "no-color", false, "disable colored output")
}

// commandEnvironment is the resolved configuration and logging for one
// command invocation.
type commandEnvironment struct {
	config *config.Config

	// logger writes to stderr (or only to the log file in TUI mode).
	logger *slog.Logger

	// fileHandler is the --log-output handler, nil when unset.
	fileHandler slog.Handler

	closers []io.Closer
}

// Close releases the log file, if any.
func (environment *commandEnvironment) Close() error {
	for _, closer := range environment.closers {
		closer.Close()
	}
	return nil
}

// setup loads and validates configuration, applies flag overrides, and
// builds the logger. With tui set, nothing is logged to stderr because
// the alternate screen owns the terminal; runTUI adds the status-bar
// handler itself.
func (a *app) setup(tui bool) (*commandEnvironment, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	if a.global.logLevel != "" {
		cfg.Log.Level = a.global.logLevel
	}
	if a.global.logOutput != "" {
		cfg.Log.Output = a.global.logOutput
	}
	if a.global.noColor {
		cfg.Display.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration: %w", err)
	}

	if cfg.Display.NoColor || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return nil, cli.Validation("%w", err)
	}

	environment := &commandEnvironment{config: cfg}
	var handlers []slog.Handler
	if !tui {
		handlers = append(handlers, slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	}
	if cfg.Log.Output != "" {
		file, err := os.Create(cfg.Log.Output)
		if err != nil {
			return nil, cli.Validation("cannot open log file %s: %w", cfg.Log.Output, err)
		}
		environment.closers = append(environment.closers, file)
		environment.fileHandler = slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
		handlers = append(handlers, environment.fileHandler)
	}
	environment.logger = slog.New(slogmulti.Fanout(handlers...))
	return environment, nil
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.global.configPath == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, cli.Validation("%w", err).
				WithHint("Check the file named by $" + config.EnvVar + ".")
		}
		return cfg, nil
	}
	cfg, err := config.LoadFile(a.global.configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cli.NotFound("%w", err)
		}
		return nil, cli.Validation("%w", err)
	}
	return cfg, nil
}
