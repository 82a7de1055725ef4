// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package adder

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MaxFractionDigits is the most fraction digits shown on the display
// or the tape. Values are rounded, not truncated.
const MaxFractionDigits = 10

// FormatNumber renders value the way the tape prints it: en-US digit
// grouping, up to [MaxFractionDigits] fraction digits, and negative
// values in parentheses, e.g. "(1,234.5)".
func FormatNumber(value float64) string {
	return formatNumber(value, 0)
}

func formatNumber(value float64, minimumFraction int) string {
	if value == 0 {
		value = 0
	}
	negative := value < 0
	if negative {
		value = -value
	}

	options := []number.Option{number.MaxFractionDigits(MaxFractionDigits)}
	if minimumFraction > 0 {
		options = append(options, number.MinFractionDigits(minimumFraction))
	}
	formatted := message.NewPrinter(language.AmericanEnglish).
		Sprint(number.Decimal(value, options...))

	if negative {
		return "(" + formatted + ")"
	}
	return formatted
}
