// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package adder

import (
	"fmt"
	"strings"
	"unicode"
)

// ScriptError reports a character or key name that ParseScript does
// not recognize. Line and Column are 1-based; Column counts runes.
type ScriptError struct {
	Line   int
	Column int
	Text   string
}

func (err *ScriptError) Error() string {
	return fmt.Sprintf("line %d, column %d: unrecognized key %q", err.Line, err.Column, err.Text)
}

// ParseScript converts a keystroke script into intents.
//
// Each character is one key press as understood by [IntentForKey],
// plus these script-only spellings:
//
//	T t      total
//	C        clear all
//	E        clear entry
//	<name>   named key: <esc>, <bs>, <del>, <enter>
//	# ...    comment to end of line
//
// Whitespace separates nothing and is ignored, so "1 2" is twelve.
func ParseScript(script string) ([]Intent, error) {
	var intents []Intent
	line, column := 1, 0

	runes := []rune(script)
	for index := 0; index < len(runes); index++ {
		character := runes[index]
		column++

		switch {
		case character == '\n':
			line++
			column = 0
			continue
		case unicode.IsSpace(character):
			continue
		case character == '#':
			for index+1 < len(runes) && runes[index+1] != '\n' {
				index++
			}
			continue
		case character == 'T' || character == 't':
			intents = append(intents, TotalIntent())
			continue
		case character == 'C':
			intents = append(intents, ClearAllIntent())
			continue
		case character == 'E':
			intents = append(intents, ClearEntryIntent())
			continue
		case character == '<':
			end := index + 1
			for end < len(runes) && runes[end] != '>' && runes[end] != '\n' {
				end++
			}
			if end >= len(runes) || runes[end] != '>' {
				return nil, &ScriptError{Line: line, Column: column, Text: string(runes[index:end])}
			}
			name := string(runes[index+1 : end])
			intent, ok := IntentForKey(name)
			if !ok || len(name) < 2 {
				return nil, &ScriptError{Line: line, Column: column, Text: "<" + name + ">"}
			}
			intents = append(intents, intent)
			column += end - index
			index = end
			continue
		}

		intent, ok := IntentForKey(string(character))
		if !ok {
			return nil, &ScriptError{Line: line, Column: column, Text: string(character)}
		}
		intents = append(intents, intent)
	}
	return intents, nil
}

// FormatScript renders intents as a script that ParseScript accepts.
// Operators are padded with spaces and every total ends a line, so a
// recorded session reads like the tape it produced.
func FormatScript(intents []Intent) string {
	var builder strings.Builder
	for _, intent := range intents {
		switch intent.Kind {
		case KindOperator:
			builder.WriteString(" " + intent.Token() + " ")
		case KindTotal:
			builder.WriteString(intent.Token() + "\n")
		default:
			builder.WriteString(intent.Token())
		}
	}
	return builder.String()
}
