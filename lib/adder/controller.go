// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package adder

import "strings"

// Digit enters one decimal digit. Starting a new entry replaces the
// buffer; otherwise the digit is appended, replacing a lone "0".
// Ignored in the error phase, for non-digit runes, and when a
// continuing entry is already [MaxEntryLength] characters long.
func (state *State) Digit(digit rune) {
	if digit < '0' || digit > '9' {
		return
	}
	if state.InError() {
		return
	}
	if len(state.entry) >= MaxEntryLength && !state.newEntry {
		return
	}

	if state.newEntry {
		state.entry = string(digit)
		state.newEntry = false
		return
	}
	if state.entry == "0" {
		state.entry = string(digit)
		return
	}
	state.entry += string(digit)
}

// Decimal enters the decimal point. A new entry starts as "0."; an
// entry that already has a point is left alone.
func (state *State) Decimal() {
	if state.InError() {
		return
	}
	if state.newEntry {
		state.entry = "0."
		state.newEntry = false
		return
	}
	if !strings.Contains(state.entry, ".") {
		state.entry += "."
	}
}

// MultiplyDivide records the entry as an operand of a deferred
// multiply or divide. When a previous multiply/divide is still
// pending and the user has typed a new number since, the pending
// operation is resolved first and its result becomes the new
// operand. A failed resolution enters the error phase.
func (state *State) MultiplyDivide(operator Operator) {
	if !operator.Multiplicative() || state.InError() {
		return
	}
	value, ok := parseEntry(state.entry)
	if !ok {
		return
	}

	state.appendTape(FormatNumber(value) + " " + operator.String())

	if state.hasPending() && !state.newEntry {
		result, err := Apply(state.pendingOperand, state.pendingOperator, value)
		if err != nil {
			state.fail(err)
			return
		}
		state.pendingOperand = result
		state.entry = formatEntry(result)
	} else {
		state.pendingOperand = value
	}

	state.pendingOperator = operator
	state.newEntry = true
}

// PlusMinus adds the entry to, or subtracts it from, the running
// total. A pending multiply/divide with a freshly typed second
// operand is resolved first and its result is what gets added or
// subtracted. The display then shows the running total.
func (state *State) PlusMinus(operator Operator) {
	if !operator.Additive() || state.InError() {
		return
	}
	value, ok := parseEntry(state.entry)
	if !ok {
		return
	}

	if state.hasPending() && !state.newEntry {
		result, err := Apply(state.pendingOperand, state.pendingOperator, value)
		if err != nil {
			state.fail(err)
			return
		}
		value = result
		state.clearPending()
	}

	if operator == OperatorAdd {
		state.runningTotal += value
	} else {
		state.runningTotal -= value
	}
	state.appendTape(FormatNumber(value) + " " + operator.String())
	state.entry = formatEntry(state.runningTotal)
	state.newEntry = true
}

// Total finishes the calculation: resolves any pending multiply or
// divide, adds the result to the running total, and prints the grand
// total under a separator. The entry counts as zero when it still
// shows the result of a previous operation.
func (state *State) Total() {
	if state.InError() {
		return
	}

	value, ok := parseEntry(state.entry)
	if !ok || state.newEntry {
		value = 0
	}

	hadPending := state.hasPending()
	resolved := value
	if hadPending {
		result, err := Apply(state.pendingOperand, state.pendingOperator, value)
		if err != nil {
			state.fail(err)
			state.runningTotal = 0
			return
		}
		resolved = result
	}

	grandTotal := state.runningTotal + resolved

	if value != 0 || hadPending {
		state.appendTape(FormatNumber(value))
	}
	state.appendTape(Separator, FormatNumber(grandTotal)+TotalSuffix)

	state.entry = formatEntry(grandTotal)
	state.runningTotal = 0
	state.clearPending()
	state.newEntry = true
}

// ClearEntry discards the current entry, keeping the running total
// and any pending multiply/divide. In the error phase it clears
// everything, the same as [State.ClearAll].
func (state *State) ClearEntry() {
	if state.InError() {
		state.ClearAll()
		return
	}
	state.entry = "0"
	state.newEntry = true
}

// ClearAll resets the machine and tears off the tape.
func (state *State) ClearAll() {
	*state = New()
}

// fail enters the error phase after a resolution error. Callers that
// must also reset the running total do so after fail returns.
func (state *State) fail(err error) {
	state.entry = ErrorMarker
	state.appendTape(Separator, ErrorMarker)
	state.clearPending()
	state.newEntry = true
	state.err = err
}
