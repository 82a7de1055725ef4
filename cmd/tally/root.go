// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/tally/cmd/tally/cli"
	"github.com/bureau-foundation/tally/lib/tape"
	"github.com/bureau-foundation/tally/lib/version"
)

func (a *app) rootCommand() *cli.Command {
	var showVersion bool

	return &cli.Command{
		Name:    "tally",
		Summary: "Printing adding machine",
		Description: `tally is a printing adding machine for the terminal.

With no command, tally opens the interactive keypad when attached to a
terminal. When stdin is a pipe or file, it reads a keystroke script and
prints the resulting tape.

Scripts are key presses: digits, ".", "+", "-", "*" or "x", "/", "=" or
"T" for total, "C" to clear all, "E" to clear the entry, and named keys
such as <enter> or <esc>. "#" starts a comment.`,
		Usage:      "tally [command] [flags]",
		HelpOutput: a.stderr,
		Examples: []cli.Example{
			{Description: "Open the interactive adding machine", Command: "tally"},
			{Description: "Evaluate a script from a pipe", Command: "echo '10+5-3=' | tally"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := a.flagSet("tally")
			flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
			return flagSet
		},
		Run: func(args []string) error {
			if showVersion {
				return version.Print(a.stdout, "tally")
			}
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0]).
					WithHint("Run 'tally eval <script>' to evaluate a script given on the command line.")
			}
			interactive := a.interactive()
			environment, err := a.setup(interactive)
			if err != nil {
				return err
			}
			defer environment.Close()

			if interactive {
				return a.runTUI(a, environment)
			}
			script, err := io.ReadAll(a.stdin)
			if err != nil {
				return cli.Internal("reading script from stdin: %w", err)
			}
			return a.evaluate(environment, string(script), tape.FormatText)
		},
		Subcommands: []*cli.Command{
			a.evalCommand(),
			a.recordCommand(),
			a.replayCommand(),
			a.watchCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					return version.Print(a.stdout, "tally")
				},
			},
		},
	}
}

// flagSet returns a flag set carrying the flags every command accepts.
func (a *app) flagSet(name string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	a.global.addFlags(flagSet)
	return flagSet
}

// formatHelp is the --format flag description.
func formatHelp() string {
	names := make([]string, len(tape.Formats))
	for index, format := range tape.Formats {
		names[index] = string(format)
	}
	return "output format: " + strings.Join(names, ", ")
}
