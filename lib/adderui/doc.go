// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package adderui is the interactive terminal front-end for the adding
// machine, built on bubbletea.
//
// The screen is a narrow column: a title bar, the scrollable tape
// (newest line at the bottom, totals in bold, fresh lines glowing
// briefly), the display, and a clickable keypad laid out like a desk
// adding machine:
//
//	C   CE  /   x
//	7   8   9   -
//	4   5   6   +
//	1   2   3   Total
//	0 (wide) .  Total
//
// Keyboard input and mouse clicks both become [adder.Intent] values
// and go through the same dispatch path, so every input route behaves
// identically. Warnings logged through [TUILogHandler] appear in the
// status bar and fade after a few seconds. Saving an archive is
// delegated to a [Saver] so the model itself performs no I/O.
package adderui
