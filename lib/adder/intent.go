// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package adder

import "strings"

// Kind identifies which key an [Intent] represents.
type Kind int

const (
	KindDigit Kind = iota + 1
	KindDecimal
	KindOperator
	KindTotal
	KindClearEntry
	KindClearAll
)

// String returns a lowercase name for the kind, used in log records.
func (kind Kind) String() string {
	switch kind {
	case KindDigit:
		return "digit"
	case KindDecimal:
		return "decimal"
	case KindOperator:
		return "operator"
	case KindTotal:
		return "total"
	case KindClearEntry:
		return "clear_entry"
	case KindClearAll:
		return "clear_all"
	default:
		return "unknown"
	}
}

// Intent is one user action. Digit is set for KindDigit, Operator for
// KindOperator; both are zero otherwise.
type Intent struct {
	Kind     Kind
	Digit    rune
	Operator Operator
}

// Constructors for each intent. Using these keeps Digit and Operator
// consistent with Kind.

func DigitIntent(digit rune) Intent { return Intent{Kind: KindDigit, Digit: digit} }
func DecimalIntent() Intent         { return Intent{Kind: KindDecimal} }
func OperatorIntent(operator Operator) Intent {
	return Intent{Kind: KindOperator, Operator: operator}
}
func TotalIntent() Intent      { return Intent{Kind: KindTotal} }
func ClearEntryIntent() Intent { return Intent{Kind: KindClearEntry} }
func ClearAllIntent() Intent   { return Intent{Kind: KindClearAll} }

// Token returns the script token that reproduces the intent. Joining
// the tokens of an intent sequence yields a script that
// [ParseScript] turns back into the same sequence.
func (intent Intent) Token() string {
	switch intent.Kind {
	case KindDigit:
		return string(intent.Digit)
	case KindDecimal:
		return "."
	case KindOperator:
		return intent.Operator.String()
	case KindTotal:
		return "="
	case KindClearEntry:
		return "<bs>"
	case KindClearAll:
		return "<esc>"
	default:
		return ""
	}
}

// Dispatch applies one intent. This is the single entry point shared
// by keyboard, pointer, and script input. In the error phase only
// clear entry and clear all are accepted.
func (state *State) Dispatch(intent Intent) {
	if state.InError() && intent.Kind != KindClearEntry && intent.Kind != KindClearAll {
		return
	}

	switch intent.Kind {
	case KindDigit:
		state.Digit(intent.Digit)
	case KindDecimal:
		state.Decimal()
	case KindOperator:
		if intent.Operator.Multiplicative() {
			state.MultiplyDivide(intent.Operator)
		} else {
			state.PlusMinus(intent.Operator)
		}
	case KindTotal:
		state.Total()
	case KindClearEntry:
		state.ClearEntry()
	case KindClearAll:
		state.ClearAll()
	}
}

// Replay runs intents against a fresh machine and returns the final
// state.
func Replay(intents []Intent) State {
	state := New()
	for _, intent := range intents {
		state.Dispatch(intent)
	}
	return state
}

// IntentForKey maps a key name to an intent. Accepts single
// characters ("7", ".", "+", "x") and the named keys produced by
// terminal and browser key events ("enter", "Escape", "backspace",
// "Delete"). Named keys match case-insensitively.
func IntentForKey(key string) (Intent, bool) {
	if len(key) == 1 {
		character := rune(key[0])
		switch {
		case character >= '0' && character <= '9':
			return DigitIntent(character), true
		case character == '.':
			return DecimalIntent(), true
		case character == '+':
			return OperatorIntent(OperatorAdd), true
		case character == '-':
			return OperatorIntent(OperatorSubtract), true
		case character == '*', character == 'x', character == 'X':
			return OperatorIntent(OperatorMultiply), true
		case character == '/':
			return OperatorIntent(OperatorDivide), true
		case character == '=':
			return TotalIntent(), true
		}
		return Intent{}, false
	}

	switch strings.ToLower(key) {
	case "enter", "return":
		return TotalIntent(), true
	case "esc", "escape":
		return ClearAllIntent(), true
	case "backspace", "delete", "bs", "del":
		return ClearEntryIntent(), true
	}
	return Intent{}, false
}
