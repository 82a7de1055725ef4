// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package adder implements the arithmetic controller of a desk adding
// machine: numeric entry, chained addition and subtraction against a
// running total, deferred multiply/divide, and an append-only tape of
// every completed operation.
//
// The controller is a synchronous reducer over [State]. Every user
// action (button press, key press, script character) becomes an
// [Intent] and goes through [State.Dispatch], so keyboard and pointer
// paths share one state machine. Rendering is a pure projection:
// [Render] turns a State into the display string and tape lines
// without touching it.
//
// Plus and minus follow adding-machine convention: the operator key
// applies to the number just entered, not the next one. Keying
// "10 + 5 - =" subtracts 5 from 10 and totals 5. Multiply and divide
// are infix: "6 * 7 =" holds 6 and the multiply operator until the
// second operand arrives.
//
// Division by zero (and products or quotients that overflow float64)
// put the machine into the error phase: the display reads "Error",
// the tape records a separator and an "Error" line, and every intent
// other than clear entry or clear all is ignored. Unparseable entries
// are never errors; the intent is simply a no-op.
//
// Numbers are formatted in en-US style with golang.org/x/text: grouped
// thousands, at most ten fraction digits, and negative values wrapped
// in parentheses rather than prefixed with a minus sign.
//
// [ParseScript] turns a keystroke script ("12.5 * 4 + 3 - T") into
// intents for headless evaluation and session replay.
package adder
