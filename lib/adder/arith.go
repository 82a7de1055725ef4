// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package adder

import (
	"errors"
	"math"
	"strconv"
)

var (
	// ErrDivisionByZero is returned by [Apply] when dividing by zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrOverflow is returned by [Apply] when a product or quotient
	// is not a finite float64.
	ErrOverflow = errors.New("result out of range")
)

// Apply evaluates left op right for the multiplicative operators.
// Additive operators return right unchanged: plus and minus act on
// the running total, not on a pending operand.
func Apply(left float64, operator Operator, right float64) (float64, error) {
	var result float64
	switch operator {
	case OperatorMultiply:
		result = left * right
	case OperatorDivide:
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		result = left / right
	default:
		return right, nil
	}
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, ErrOverflow
	}
	return result, nil
}

// parseEntry parses the entry buffer. Typed entries like "12." and
// "0." parse; the error marker and anything non-finite do not.
func parseEntry(entry string) (float64, bool) {
	value, err := strconv.ParseFloat(entry, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, false
	}
	return value, true
}

// formatEntry renders a computed value back into the entry buffer as
// a plain decimal literal, never in exponent form.
func formatEntry(value float64) string {
	if value == 0 {
		// Collapse negative zero.
		value = 0
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
