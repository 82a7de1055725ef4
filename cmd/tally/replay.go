// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io/fs"

	"filippo.io/age"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/tally/cmd/tally/cli"
	"github.com/bureau-foundation/tally/lib/adder"
	"github.com/bureau-foundation/tally/lib/tape"
)

// exitVerifyFailed is the exit code when an archive was printed but
// failed verification.
const exitVerifyFailed = 2

func (a *app) replayCommand() *cli.Command {
	var (
		identityPath string
		formatName   string
		printKeys    bool
	)

	return &cli.Command{
		Name:    "replay",
		Summary: "Verify and print a session archive",
		Description: `Load a .taly archive, replay its keys on a fresh machine, and print
the tape.

Replay fails verification when the recomputed digest or tape does not
match what the archive recorded. The recorded tape is still printed,
a diagnostic goes to stderr, and tally exits with status 2.

With --keys the recorded keystrokes are printed as a script instead of
the tape; "tally eval" accepts that script unchanged.

Encrypted archives need --identity, an age identity file.`,
		Usage: "tally replay [flags] <archive>",
		Examples: []cli.Example{
			{Description: "Print a recorded tape", Command: "tally replay ~/.local/share/tally/20260301T120000Z-1f0c2a9b.taly"},
			{Description: "Decrypt with an age key", Command: "tally replay --identity key.txt lunch.taly"},
			{Description: "Re-run a recording's keys", Command: "tally replay --keys lunch.taly | tally eval"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := a.flagSet("replay")
			flagSet.StringVarP(&identityPath, "identity", "i", "", "age identity file for encrypted archives")
			flagSet.StringVarP(&formatName, "format", "f", string(tape.FormatText), formatHelp())
			flagSet.BoolVar(&printKeys, "keys", false, "print the recorded keys as a script instead of the tape")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("replay takes exactly one archive path, got %d", len(args))
			}
			path := args[0]

			format, err := tape.ParseFormat(formatName)
			if err != nil {
				return cli.Validation("%w", err)
			}

			environment, err := a.setup(false)
			if err != nil {
				return err
			}
			defer environment.Close()

			var identities []age.Identity
			if identityPath != "" {
				if identities, err = tape.LoadIdentities(identityPath); err != nil {
					return cli.Validation("%w", err)
				}
			}

			session, err := tape.Load(path, identities)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				return cli.NotFound("archive %s does not exist", path)
			case errors.Is(err, tape.ErrEncrypted):
				return cli.Validation("archive %s is encrypted", path).
					WithHint("Pass the matching age identity with --identity.")
			case errors.Is(err, tape.ErrBadMagic), errors.Is(err, tape.ErrUnsupportedVersion):
				return cli.Validation("%s is not a tally archive: %w", path, err)
			case err != nil:
				return cli.Internal("loading %s: %w", path, err)
			}

			verifyErr := tape.Verify(session)
			if printKeys {
				intents, err := session.Intents()
				if err != nil {
					return cli.Validation("archive %s: %w", path, err)
				}
				fmt.Fprint(a.stdout, adder.FormatScript(intents))
			} else if err := tape.Export(a.stdout, session, format); err != nil {
				return cli.Internal("writing %s export: %w", format, err)
			}
			if verifyErr != nil {
				environment.logger.Error("archive failed verification",
					"path", path,
					"error", verifyErr,
				)
				fmt.Fprintf(a.stderr, "verification failed: %v\n", verifyErr)
				return &cli.ExitError{Code: exitVerifyFailed}
			}
			environment.logger.Debug("archive verified",
				"path", path,
				"digest", session.Digest,
			)
			return nil
		},
	}
}
