// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/tally/cmd/tally/cli"
	"github.com/bureau-foundation/tally/lib/scriptwatch"
)

func (a *app) watchCommand() *cli.Command {
	return &cli.Command{
		Name:    "watch",
		Summary: "Re-evaluate a script file whenever it changes",
		Description: `Evaluate a script file and redraw the tape in place every time the
file is saved. Parse errors are shown instead of the tape until the
script is fixed. Stop with Ctrl-C.`,
		Usage: "tally watch [flags] <script-file>",
		Examples: []cli.Example{
			{Description: "Keep a running budget on screen", Command: "tally watch budget.tally"},
		},
		Flags: func() *pflag.FlagSet { return a.flagSet("watch") },
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("watch takes exactly one script file, got %d", len(args))
			}

			environment, err := a.setup(false)
			if err != nil {
				return err
			}
			defer environment.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, environment, args[0])
		},
	}
}

func (a *app) watch(ctx context.Context, environment *commandEnvironment, path string) error {
	watcher, err := scriptwatch.New(scriptwatch.Config{
		Path:   path,
		Output: a.stdout,
		Clock:  a.clock,
		Logger: environment.logger,
	})
	if err != nil {
		return cli.Validation("%w", err)
	}

	environment.logger.Info("watching script", "path", path)
	if err := watcher.Run(ctx); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cli.NotFound("%w", err).
				WithHint("The directory containing the script must exist.")
		}
		return cli.Internal("watching %s: %w", path, err)
	}
	return nil
}
