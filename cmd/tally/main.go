// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// tally is a printing adding machine for the terminal.
//
// Run without arguments on a terminal it opens an interactive keypad
// and paper tape. With stdin redirected it evaluates the keystroke
// script it reads and prints the tape. Subcommands evaluate scripts
// (eval), record them into digest-checked, compressed and optionally
// encrypted archives (record), verify and print archives (replay),
// and re-evaluate a script file whenever it changes (watch).
package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/bureau-foundation/tally/lib/clock"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	app := &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		clock:  clock.Real(),
		interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
		runTUI: runTUI,
	}
	return app.rootCommand().Execute(args)
}

// app holds the process environment so commands can be driven from
// tests with buffers and a fake clock.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	clock  clock.Clock

	// interactive reports whether the terminal UI can run.
	interactive func() bool

	// runTUI starts the interactive front-end.
	runTUI func(*app, *commandEnvironment) error

	global globalOptions
}
