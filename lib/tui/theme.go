// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for tally's terminal UI. All colors
// use lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// The number display above the keypad.
	DisplayForeground lipgloss.Color
	DisplayBackground lipgloss.Color
	ErrorForeground   lipgloss.Color

	// Keypad button backgrounds by role.
	KeyDigit    lipgloss.Color
	KeyOperator lipgloss.Color
	KeyTotal    lipgloss.Color
	KeyClear    lipgloss.Color
	KeyText     lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	WarningText      lipgloss.Color
	Accent           lipgloss.Color // Scrollbar thumb and pending-operator indicator.

	// Animation accents: background tint for freshly appended tape
	// lines. HotAccentError is used for the error marker line.
	HotAccentLine  lipgloss.Color
	HotAccentError lipgloss.Color

	// Floating help box.
	TooltipForeground lipgloss.Color
	TooltipBackground lipgloss.Color
}

// DarkTheme is the built-in dark-terminal color scheme and the default.
var DarkTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	DisplayForeground: lipgloss.Color("255"),
	DisplayBackground: lipgloss.Color("236"),
	ErrorForeground:   lipgloss.Color("196"), // bright red

	KeyDigit:    lipgloss.Color("238"),
	KeyOperator: lipgloss.Color("24"),  // steel blue
	KeyTotal:    lipgloss.Color("28"),  // green
	KeyClear:    lipgloss.Color("124"), // dark red
	KeyText:     lipgloss.Color("255"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	WarningText:      lipgloss.Color("220"), // yellow/amber
	Accent:           lipgloss.Color("220"),

	HotAccentLine:  lipgloss.Color("58"), // dark amber background tint
	HotAccentError: lipgloss.Color("52"), // dark red background tint

	TooltipForeground: lipgloss.Color("252"),
	TooltipBackground: lipgloss.Color("237"),
}

// LightTheme suits terminals with a light background.
var LightTheme = Theme{
	NormalText: lipgloss.Color("235"),
	FaintText:  lipgloss.Color("243"),

	DisplayForeground: lipgloss.Color("232"),
	DisplayBackground: lipgloss.Color("254"),
	ErrorForeground:   lipgloss.Color("160"),

	KeyDigit:    lipgloss.Color("250"),
	KeyOperator: lipgloss.Color("153"), // pale blue
	KeyTotal:    lipgloss.Color("151"), // pale green
	KeyClear:    lipgloss.Color("217"), // pale red
	KeyText:     lipgloss.Color("232"),

	HeaderForeground: lipgloss.Color("232"),
	BorderColor:      lipgloss.Color("248"),
	HelpText:         lipgloss.Color("244"),
	WarningText:      lipgloss.Color("130"), // dark orange
	Accent:           lipgloss.Color("130"),

	HotAccentLine:  lipgloss.Color("229"), // pale yellow
	HotAccentError: lipgloss.Color("224"), // pale pink

	TooltipForeground: lipgloss.Color("235"),
	TooltipBackground: lipgloss.Color("253"),
}

// ThemeByName returns the theme for a display.theme config value.
func ThemeByName(name string) (Theme, error) {
	switch name {
	case "", "dark":
		return DarkTheme, nil
	case "light":
		return LightTheme, nil
	default:
		return Theme{}, fmt.Errorf("unknown theme %q", name)
	}
}
