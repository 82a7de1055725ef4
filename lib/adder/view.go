// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package adder

import "strings"

// Phase is the derived state-machine phase. It is computed from
// State on demand, never stored.
type Phase int

const (
	// PhaseIdle: nothing entered since the last clear or total. The
	// tape may still hold earlier totals.
	PhaseIdle Phase = iota
	// PhaseAccumulating: a number is being typed, or a running total
	// or tape line has been posted since the last clear or total, and
	// no multiply/divide is pending.
	PhaseAccumulating
	// PhasePending: a multiply or divide awaits its second operand.
	PhasePending
	// PhaseError: a resolution failed; only clears are accepted.
	PhaseError
)

func (phase Phase) String() string {
	switch phase {
	case PhaseIdle:
		return "idle"
	case PhaseAccumulating:
		return "accumulating"
	case PhasePending:
		return "pending"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Phase returns the current phase.
func (state State) Phase() Phase {
	switch {
	case state.InError():
		return PhaseError
	case state.pendingOperator != OperatorNone:
		return PhasePending
	case state.runningTotal != 0 || !state.newEntry || state.postedSinceTotal():
		return PhaseAccumulating
	default:
		return PhaseIdle
	}
}

// postedSinceTotal reports whether the tape has lines after its last
// total.
func (state State) postedSinceTotal() bool {
	if len(state.tape) == 0 {
		return false
	}
	return !strings.HasSuffix(state.tape[len(state.tape)-1], TotalSuffix)
}

// View is everything a front end needs to draw the machine.
type View struct {
	// Display is the formatted entry or "Error".
	Display string

	// Tape is a copy of the tape lines, oldest first.
	Tape []string

	Phase Phase

	// Pending is the deferred multiply/divide as it would print on
	// the tape ("6 *"), or empty when nothing is pending.
	Pending string

	// Err is the resolution failure behind PhaseError.
	Err error
}

// Render projects state into a View. It does not modify state.
func Render(state State) View {
	view := View{
		Display: state.Display(),
		Tape:    state.Tape(),
		Phase:   state.Phase(),
		Err:     state.err,
	}
	if operand, operator, ok := state.Pending(); ok {
		view.Pending = FormatNumber(operand) + " " + operator.String()
	}
	return view
}
