// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source for tally.
//
// Two places in tally read the clock: session archives stamp their
// creation time, and the script watcher debounces bursts of file
// writes. Both take a [Clock] so tests can substitute [Fake] and
// advance time explicitly instead of sleeping.
package clock
