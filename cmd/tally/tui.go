// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	slogmulti "github.com/samber/slog-multi"

	"github.com/bureau-foundation/tally/cmd/tally/cli"
	"github.com/bureau-foundation/tally/lib/adderui"
	"github.com/bureau-foundation/tally/lib/tape"
	"github.com/bureau-foundation/tally/lib/tui"
)

// runTUI runs the interactive adding machine on the alternate screen.
//
// Warnings and errors go to the status bar through a TUILogHandler
// instead of stderr, which would corrupt the display. With --log-output
// every record is also written to the JSON log file.
func runTUI(a *app, environment *commandEnvironment) error {
	cfg := environment.config

	theme, err := tui.ThemeByName(cfg.Display.Theme)
	if err != nil {
		return cli.Validation("%w", err)
	}
	compression, err := tape.ParseCompression(cfg.Archive.Compression)
	if err != nil {
		return cli.Validation("%w", err)
	}

	tuiHandler := adderui.NewTUILogHandler(slog.LevelWarn)
	handlers := []slog.Handler{tuiHandler}
	if environment.fileHandler != nil {
		handlers = append(handlers, environment.fileHandler)
	}
	logger := slog.New(slogmulti.Fanout(handlers...))

	model := adderui.NewModel(adderui.Options{
		Theme:  theme,
		Heat:   cfg.Tape.Heat,
		Clock:  a.clock,
		Logger: logger,
		Saver: &archiveSaver{
			config:      cfg,
			compression: compression,
			recipients:  cfg.Archive.Recipients,
			clock:       a.clock,
			logger:      logger,
		},
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	tuiHandler.SetProgram(program)

	_, err = program.Run()
	return err
}
