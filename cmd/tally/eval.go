// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/tally/cmd/tally/cli"
	"github.com/bureau-foundation/tally/lib/adder"
	"github.com/bureau-foundation/tally/lib/tape"
)

func (a *app) evalCommand() *cli.Command {
	var formatName string

	return &cli.Command{
		Name:    "eval",
		Summary: "Evaluate a keystroke script and print the tape",
		Description: `Evaluate a keystroke script and print the tape.

Each argument is one line of the script. With no arguments the script
is read from stdin.`,
		Usage: "tally eval [flags] [script...]",
		Examples: []cli.Example{
			{Description: "Add and subtract", Command: "tally eval '10+5-3='"},
			{Description: "Render the tape as a Markdown table", Command: "tally eval --format markdown '6*7='"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := a.flagSet("eval")
			flagSet.StringVarP(&formatName, "format", "f", string(tape.FormatText), formatHelp())
			return flagSet
		},
		Run: func(args []string) error {
			format, err := tape.ParseFormat(formatName)
			if err != nil {
				return cli.Validation("%w", err)
			}

			environment, err := a.setup(false)
			if err != nil {
				return err
			}
			defer environment.Close()

			script, err := a.scriptFrom(args)
			if err != nil {
				return err
			}
			return a.evaluate(environment, script, format)
		},
	}
}

// scriptFrom joins script arguments into one script, or reads stdin
// when there are none.
func (a *app) scriptFrom(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, "\n"), nil
	}
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", cli.Internal("reading script from stdin: %w", err)
	}
	return string(data), nil
}

// parseScript wraps script parse failures as validation errors.
func parseScript(script string) ([]adder.Intent, error) {
	intents, err := adder.ParseScript(script)
	if err != nil {
		var scriptErr *adder.ScriptError
		if errors.As(err, &scriptErr) {
			return nil, cli.Validation("invalid script: %w", err)
		}
		return nil, cli.Internal("parsing script: %w", err)
	}
	return intents, nil
}

// evaluate replays script and writes the export to stdout. Arithmetic
// errors are part of the tape, not command failures, so they are only
// logged.
func (a *app) evaluate(environment *commandEnvironment, script string, format tape.Format) error {
	intents, err := parseScript(script)
	if err != nil {
		return err
	}
	session, err := tape.Record(intents, a.clock)
	if err != nil {
		return cli.Internal("recording session: %w", err)
	}

	state := adder.Replay(intents)
	if state.InError() {
		environment.logger.Warn("arithmetic error",
			"error", state.Err(),
			"tape_lines", len(session.Lines),
		)
	}
	environment.logger.Debug("script evaluated",
		"keys", len(session.Keys),
		"tape_lines", len(session.Lines),
	)

	if err := tape.Export(a.stdout, session, format); err != nil {
		return cli.Internal("writing %s export: %w", format, err)
	}
	return nil
}
