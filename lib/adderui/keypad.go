// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package adderui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/tally/lib/adder"
	"github.com/bureau-foundation/tally/lib/tui"
)

// Keypad cell geometry in terminal cells. Buttons are one line tall
// with a blank line between rows and one column between columns;
// spanning buttons also cover the gaps they cross.
const (
	cellWidth     = 7
	cellHeight    = 1
	columnGap     = 1
	rowGap        = 1
	keypadColumns = 4
	keypadRows    = 5
)

// keypadWidth and keypadHeight are the rendered size of the grid.
const (
	keypadWidth  = keypadColumns*cellWidth + (keypadColumns-1)*columnGap
	keypadHeight = keypadRows*cellHeight + (keypadRows-1)*rowGap
)

// Role groups buttons for colouring.
type Role int

const (
	RoleDigit Role = iota
	RoleOperator
	RoleTotal
	RoleClear
)

// Button is one keypad key. Row and Column are grid coordinates; the
// spans are in grid cells.
type Button struct {
	Label   string
	Intent  adder.Intent
	Role    Role
	Row     int
	Column  int
	RowSpan int
	ColSpan int
}

// Rect returns the button's screen rectangle relative to the keypad's
// top-left corner.
func (button Button) Rect() (x, y, width, height int) {
	x = button.Column * (cellWidth + columnGap)
	y = button.Row * (cellHeight + rowGap)
	width = button.ColSpan*cellWidth + (button.ColSpan-1)*columnGap
	height = button.RowSpan*cellHeight + (button.RowSpan-1)*rowGap
	return x, y, width, height
}

// Contains reports whether the keypad-relative point is on the button.
func (button Button) Contains(x, y int) bool {
	left, top, width, height := button.Rect()
	return x >= left && x < left+width && y >= top && y < top+height
}

// Keypad is the button grid.
type Keypad struct {
	Buttons []Button
}

func button(label string, intent adder.Intent, role Role, row, column int) Button {
	return Button{Label: label, Intent: intent, Role: role, Row: row, Column: column, RowSpan: 1, ColSpan: 1}
}

// NewKeypad returns the standard adding-machine layout.
func NewKeypad() Keypad {
	digit := func(character rune, row, column int) Button {
		return button(string(character), adder.DigitIntent(character), RoleDigit, row, column)
	}
	operator := func(label string, op adder.Operator, row, column int) Button {
		return button(label, adder.OperatorIntent(op), RoleOperator, row, column)
	}

	total := button("Total", adder.TotalIntent(), RoleTotal, 3, 3)
	total.RowSpan = 2
	zero := digit('0', 4, 0)
	zero.ColSpan = 2

	return Keypad{Buttons: []Button{
		button("C", adder.ClearAllIntent(), RoleClear, 0, 0),
		button("CE", adder.ClearEntryIntent(), RoleClear, 0, 1),
		operator("/", adder.OperatorDivide, 0, 2),
		operator("x", adder.OperatorMultiply, 0, 3),

		digit('7', 1, 0), digit('8', 1, 1), digit('9', 1, 2),
		operator("-", adder.OperatorSubtract, 1, 3),

		digit('4', 2, 0), digit('5', 2, 1), digit('6', 2, 2),
		operator("+", adder.OperatorAdd, 2, 3),

		digit('1', 3, 0), digit('2', 3, 1), digit('3', 3, 2),
		total,

		zero,
		button(".", adder.DecimalIntent(), RoleDigit, 4, 2),
	}}
}

// ButtonAt returns the index of the button under the keypad-relative
// point, or -1.
func (keypad Keypad) ButtonAt(x, y int) int {
	for index, button := range keypad.Buttons {
		if button.Contains(x, y) {
			return index
		}
	}
	return -1
}

// IndexFor returns the index of the button that produces intent, or
// -1. Enter, "=" and the Total button share an intent, so keyboard
// presses can flash the matching key.
func (keypad Keypad) IndexFor(intent adder.Intent) int {
	for index, button := range keypad.Buttons {
		if button.Intent == intent {
			return index
		}
	}
	return -1
}

// Render draws the grid. The pressed button (or -1) is drawn in the
// accent colour.
func (keypad Keypad) Render(theme tui.Theme, pressed int) string {
	lines := make([]string, keypadHeight)
	for y := range lines {
		var line strings.Builder
		cursor := 0
		for column := range keypadColumns {
			cellX := column * (cellWidth + columnGap)
			if cursor > cellX {
				// Covered by a button spanning from the left.
				continue
			}
			line.WriteString(strings.Repeat(" ", cellX-cursor))
			cursor = cellX

			index := keypad.ButtonAt(cellX, y)
			if index < 0 {
				line.WriteString(strings.Repeat(" ", cellWidth))
				cursor += cellWidth
				continue
			}
			button := keypad.Buttons[index]
			_, top, width, height := button.Rect()
			label := ""
			if y == top+(height-1)/2 {
				label = button.Label
			}
			line.WriteString(keypad.renderCell(theme, button, label, width, index == pressed))
			cursor += width
		}
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}

func (keypad Keypad) renderCell(theme tui.Theme, button Button, label string, width int, pressed bool) string {
	background := theme.KeyDigit
	switch button.Role {
	case RoleOperator:
		background = theme.KeyOperator
	case RoleTotal:
		background = theme.KeyTotal
	case RoleClear:
		background = theme.KeyClear
	}
	foreground := theme.KeyText
	if pressed {
		background, foreground = theme.Accent, theme.DisplayBackground
	}

	labelWidth := ansi.StringWidth(label)
	left := (width - labelWidth) / 2
	text := strings.Repeat(" ", left) + label + strings.Repeat(" ", width-left-labelWidth)
	return lipgloss.NewStyle().
		Background(background).
		Foreground(foreground).
		Bold(true).
		Render(text)
}
