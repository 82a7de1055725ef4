// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package adder

import "strings"

const (
	// ErrorMarker is the entry value while the machine is in the
	// error phase. It is also the last tape line of a failed
	// resolution.
	ErrorMarker = "Error"

	// Separator is the rule drawn on the tape before a total or an
	// error line: ten U+2500 box-drawing characters.
	Separator = "──────────"

	// MaxEntryLength caps the typed entry. Digits pressed while the
	// entry is at the cap are dropped; a new entry is never capped.
	MaxEntryLength = 12

	// TotalSuffix marks grand-total lines on the tape.
	TotalSuffix = " T"
)

// Operator is one of the four arithmetic keys. The zero value means
// no operator.
type Operator byte

const (
	OperatorNone     Operator = 0
	OperatorAdd      Operator = '+'
	OperatorSubtract Operator = '-'
	OperatorMultiply Operator = '*'
	OperatorDivide   Operator = '/'
)

// String returns the tape glyph for the operator.
func (operator Operator) String() string {
	if operator == OperatorNone {
		return ""
	}
	return string(rune(operator))
}

// Multiplicative reports whether the operator is multiply or divide,
// the two operators that defer until a second operand arrives.
func (operator Operator) Multiplicative() bool {
	return operator == OperatorMultiply || operator == OperatorDivide
}

// Additive reports whether the operator is plus or minus.
func (operator Operator) Additive() bool {
	return operator == OperatorAdd || operator == OperatorSubtract
}

// State is the complete calculator state. The zero value is not
// ready for use; start from [New].
//
// Pending multiply/divide is stored as an operator plus operand, and
// the operand is meaningful only while pendingOperator is not
// OperatorNone. That keeps "operand set iff operator set" true by
// construction.
type State struct {
	entry           string
	runningTotal    float64
	pendingOperand  float64
	pendingOperator Operator
	tape            []string
	newEntry        bool

	// err is the resolution failure that put the machine into the
	// error phase. Nil outside the error phase.
	err error
}

// New returns a cleared machine: display "0", empty tape, zero
// running total, waiting for a fresh entry.
func New() State {
	return State{
		entry:    "0",
		newEntry: true,
	}
}

// Entry returns the raw entry buffer: digits as typed, the string
// form of the last result, or [ErrorMarker].
func (state State) Entry() string { return state.entry }

// RunningTotal returns the plus/minus accumulator.
func (state State) RunningTotal() float64 { return state.runningTotal }

// Pending returns the deferred multiply/divide, if any.
func (state State) Pending() (operand float64, operator Operator, ok bool) {
	if state.pendingOperator == OperatorNone {
		return 0, OperatorNone, false
	}
	return state.pendingOperand, state.pendingOperator, true
}

// Tape returns a copy of the tape lines, oldest first.
func (state State) Tape() []string {
	lines := make([]string, len(state.tape))
	copy(lines, state.tape)
	return lines
}

// TapeLen returns the number of tape lines without copying them.
func (state State) TapeLen() int { return len(state.tape) }

// IsNewEntry reports whether the next digit starts a fresh number.
func (state State) IsNewEntry() bool { return state.newEntry }

// InError reports whether the machine is in the error phase.
func (state State) InError() bool { return state.entry == ErrorMarker }

// Err returns the failure that caused the error phase, or nil.
func (state State) Err() error { return state.err }

// Display returns the formatted display string. In the error phase
// this is [ErrorMarker]. An entry containing a decimal point always
// shows at least one fraction digit, so "0." displays as "0.0" while
// the user is still typing.
func (state State) Display() string {
	if state.InError() {
		return ErrorMarker
	}
	value, ok := parseEntry(state.entry)
	if !ok {
		return state.entry
	}
	minimumFraction := 0
	if strings.Contains(state.entry, ".") {
		minimumFraction = 1
	}
	return formatNumber(value, minimumFraction)
}

func (state *State) hasPending() bool {
	return state.pendingOperator != OperatorNone
}

func (state *State) clearPending() {
	state.pendingOperand = 0
	state.pendingOperator = OperatorNone
}

func (state *State) appendTape(lines ...string) {
	state.tape = append(state.tape, lines...)
}
