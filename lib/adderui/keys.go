// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package adderui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the non-calculator key bindings. Calculator keys
// (digits, operators, enter, escape, backspace) are resolved through
// adder.IntentForKey after these bindings are checked.
type KeyMap struct {
	Quit key.Binding
	Save key.Binding
	Help key.Binding

	// Tape scrolling.
	LineUp   key.Binding
	LineDown key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("^S", "save tape"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "keys"),
	),
	LineUp: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "scroll up"),
	),
	LineDown: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "scroll down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("PgUp", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("PgDn", "page down"),
	),
	Top: key.NewBinding(
		key.WithKeys("home"),
		key.WithHelp("Home", "oldest line"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("end"),
		key.WithHelp("End", "newest line"),
	),
}

// calculatorHelp lists the calculator keys for the help overlay, in
// the order they appear on the keypad.
var calculatorHelp = [][2]string{
	{"0-9 .", "enter number"},
	{"+ -", "add / subtract"},
	{"* x /", "multiply / divide"},
	{"Enter =", "total"},
	{"Bksp Del", "clear entry"},
	{"Esc", "clear all"},
}
