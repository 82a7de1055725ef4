// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package adderui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/tally/lib/adder"
	"github.com/bureau-foundation/tally/lib/tape"
	"github.com/bureau-foundation/tally/lib/tui"
)

// TapePane wraps a bubbles viewport showing the tape, right-aligned
// like a paper roll, with a scrollbar in the last column.
type TapePane struct {
	viewport viewport.Model
	lines    []string
	width    int
	height   int
}

// NewTapePane creates an empty tape pane. Call SetSize before use.
func NewTapePane() TapePane {
	return TapePane{}
}

// SetSize sets the pane dimensions, including the scrollbar column.
func (pane *TapePane) SetSize(width, height int) {
	pane.width = max(width, 2)
	pane.height = max(height, 1)
	pane.viewport.Width = pane.contentWidth()
	pane.viewport.Height = pane.height
	pane.viewport.SetContent(strings.Join(pane.lines, "\n"))
	pane.viewport.GotoBottom()
}

// SetLines replaces the tape. When the tape grew, the pane scrolls so
// the newest line is visible.
func (pane *TapePane) SetLines(lines []string) {
	grew := len(lines) > len(pane.lines)
	pane.lines = lines
	pane.viewport.SetContent(strings.Join(lines, "\n"))
	if grew {
		pane.viewport.GotoBottom()
	}
}

// Lines returns the current tape.
func (pane TapePane) Lines() []string { return pane.lines }

// YOffset is the index of the first visible line.
func (pane TapePane) YOffset() int { return pane.viewport.YOffset }

// AtBottom reports whether the newest line is visible.
func (pane TapePane) AtBottom() bool { return pane.viewport.AtBottom() }

// Scrolling goes through SetYOffset, which clamps to the content.

func (pane *TapePane) LineUp(count int)   { pane.scrollBy(-count) }
func (pane *TapePane) LineDown(count int) { pane.scrollBy(count) }
func (pane *TapePane) PageUp()            { pane.scrollBy(-max(pane.height/2, 1)) }
func (pane *TapePane) PageDown()          { pane.scrollBy(max(pane.height/2, 1)) }
func (pane *TapePane) Top()               { pane.viewport.GotoTop() }
func (pane *TapePane) Bottom()            { pane.viewport.GotoBottom() }

func (pane *TapePane) scrollBy(delta int) {
	pane.viewport.SetYOffset(pane.viewport.YOffset + delta)
}

func (pane TapePane) contentWidth() int {
	return max(pane.width-1, 1)
}

// View renders the visible window with heat tints as of now.
func (pane TapePane) View(theme tui.Theme, heat *tui.HeatTracker, now time.Time) string {
	width := pane.contentWidth()

	if len(pane.lines) == 0 {
		placeholder := lipgloss.NewStyle().
			Foreground(theme.FaintText).
			Italic(true).
			Width(width).
			Height(pane.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(tape.EmptyTape)
		return lipgloss.JoinHorizontal(lipgloss.Top, placeholder, tui.RenderScrollbar(theme, pane.height, 0, pane.height, 0))
	}

	styled := make([]string, len(pane.lines))
	for index, line := range pane.lines {
		styled[index] = renderTapeLine(theme, line, width, heat, index, now)
	}

	// Render on a copy so the styled content never leaks back into
	// the model; only the offset matters there.
	view := pane.viewport
	offset := view.YOffset
	view.SetContent(strings.Join(styled, "\n"))
	view.SetYOffset(offset)

	scrollbar := tui.RenderScrollbar(theme, pane.height, len(pane.lines), pane.height, offset)
	body := lipgloss.NewStyle().Width(width).Height(pane.height).Render(view.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, body, scrollbar)
}

func renderTapeLine(theme tui.Theme, line string, width int, heat *tui.HeatTracker, index int, now time.Time) string {
	style := lipgloss.NewStyle().Foreground(theme.NormalText)
	switch {
	case strings.HasSuffix(line, adder.TotalSuffix):
		style = style.Bold(true).Foreground(theme.HeaderForeground)
	case line == adder.Separator:
		style = style.Foreground(theme.BorderColor)
	case line == adder.ErrorMarker:
		style = style.Bold(true).Foreground(theme.ErrorForeground)
	}

	aligned := tui.AlignRight(line, width)
	if heat != nil && heat.Heat(index, now) > 0 {
		accent := theme.HotAccentLine
		if heat.Kind(index) == tui.HeatError {
			accent = theme.HotAccentError
		}
		style = style.Background(accent)
	}
	return style.Render(aligned)
}
