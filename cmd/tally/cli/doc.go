// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the tally binary.
//
// The central type is [Command], a named subcommand with optional nested
// [Command.Subcommands], a [pflag.FlagSet] factory, and a Run function.
// The tree is assembled in cmd/tally and dispatched via
// [Command.Execute], which parses flags, routes subcommands and prints
// help with examples.
//
// Unknown subcommands and flags get a "did you mean" suggestion when a
// known name is within Levenshtein distance 3.
//
// Errors returned from commands are categorized with [Validation],
// [NotFound] or [Internal] and may carry a remediation hint. An
// [ExitError] asks main to exit with a code without printing anything.
package cli
