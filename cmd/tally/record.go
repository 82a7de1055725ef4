// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"filippo.io/age"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/tally/cmd/tally/cli"
	"github.com/bureau-foundation/tally/lib/adder"
	"github.com/bureau-foundation/tally/lib/clock"
	"github.com/bureau-foundation/tally/lib/config"
	"github.com/bureau-foundation/tally/lib/tape"
)

func (a *app) recordCommand() *cli.Command {
	var (
		outputPath      string
		compressionName string
		recipients      []string
	)

	return &cli.Command{
		Name:    "record",
		Summary: "Record a script into a session archive",
		Description: `Evaluate a keystroke script and save the session as a .taly archive.

The archive holds the keys, the tape, the display and a BLAKE3 digest
over them, CBOR-encoded and compressed. With one or more --recipient
keys (or archive.recipients in the configuration) the archive is
encrypted with age.

Without --out the archive is written to archive.directory under a name
built from the recording time and the digest; an existing archive is
never replaced. The written path is printed on stdout.`,
		Usage: "tally record [flags] [script...]",
		Examples: []cli.Example{
			{Description: "Record to the archive directory", Command: "tally record '19.99+5.01='"},
			{Description: "Record an encrypted archive", Command: "tally record --recipient age1... --out lunch.taly '12.50*3='"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := a.flagSet("record")
			flagSet.StringVarP(&outputPath, "out", "o", "", "archive path (default: archive directory)")
			flagSet.StringVar(&compressionName, "compression", "", "payload compression: none, lz4, zstd (default: archive.compression)")
			flagSet.StringArrayVar(&recipients, "recipient", nil, "age recipient public key (repeatable)")
			return flagSet
		},
		Run: func(args []string) error {
			environment, err := a.setup(false)
			if err != nil {
				return err
			}
			defer environment.Close()

			script, err := a.scriptFrom(args)
			if err != nil {
				return err
			}
			intents, err := parseScript(script)
			if err != nil {
				return err
			}

			if compressionName == "" {
				compressionName = environment.config.Archive.Compression
			}
			compression, err := tape.ParseCompression(compressionName)
			if err != nil {
				return cli.Validation("%w", err)
			}
			if len(recipients) == 0 {
				recipients = environment.config.Archive.Recipients
			}
			for _, key := range recipients {
				if _, err := age.ParseX25519Recipient(key); err != nil {
					return cli.Validation("invalid recipient %q: %w", key, err).
						WithHint("Recipients are age X25519 public keys starting with age1.")
				}
			}

			saver := &archiveSaver{
				config:      environment.config,
				path:        outputPath,
				compression: compression,
				recipients:  recipients,
				clock:       a.clock,
				logger:      environment.logger,
			}
			path, err := saver.Save(intents)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, path)
			return nil
		},
	}
}

// archiveSaver records and writes session archives. It backs both
// "tally record" and the save key in the interactive front-end.
type archiveSaver struct {
	// config names the archive directory that receives archives when
	// path is empty.
	config *config.Config
	path   string

	compression tape.Compression
	recipients  []string
	clock       clock.Clock
	logger      *slog.Logger
}

// Save records intents and writes the archive, returning its path.
func (saver *archiveSaver) Save(intents []adder.Intent) (string, error) {
	session, err := tape.Record(intents, saver.clock)
	if err != nil {
		return "", cli.Internal("recording session: %w", err)
	}

	options := tape.SaveOptions{
		Compression: saver.compression,
		Recipients:  saver.recipients,
	}
	var result tape.SaveResult
	if saver.path != "" {
		result, err = tape.Save(saver.path, session, options)
	} else {
		result, err = saver.saveToDirectory(session, options)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", cli.NotFound("saving archive: %w", err).
				WithHint("Check that the output directory exists.")
		}
		return "", cli.Internal("saving archive: %w", err)
	}

	saver.logger.Info("tape recorded",
		"path", result.Path,
		"bytes", result.Bytes,
		"compression", result.Compression.String(),
		"encrypted", result.Encrypted,
		"tape_lines", len(session.Lines),
	)
	return result.Path, nil
}

// maxNameAttempts bounds the suffixes tried when an identical session
// was already archived in the same second.
const maxNameAttempts = 100

func (saver *archiveSaver) saveToDirectory(session tape.Session, options tape.SaveOptions) (tape.SaveResult, error) {
	directory, err := saver.config.EnsureArchiveDirectory()
	if err != nil {
		return tape.SaveResult{}, err
	}
	options.NoReplace = true
	for attempt := 1; attempt <= maxNameAttempts; attempt++ {
		path := filepath.Join(directory, tape.ArchiveNameAttempt(session, attempt))
		result, err := tape.Save(path, session, options)
		if !errors.Is(err, fs.ErrExist) {
			return result, err
		}
	}
	return tape.SaveResult{}, fmt.Errorf("%s: no free archive name after %d attempts", directory, maxNameAttempts)
}
