// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// SpliceOverlay replaces a rectangular region of a rendered view with
// overlay content placed at (anchorX, anchorY) in screen coordinates.
// Truncation is ANSI-aware so escape sequences in the underlying view
// survive on both sides of the overlay.
func SpliceOverlay(view string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return view
	}

	viewLines := strings.Split(view, "\n")
	overlayWidth := ansi.StringWidth(overlayLines[0])

	for index, overlayLine := range overlayLines {
		row := anchorY + index
		if row < 0 || row >= len(viewLines) {
			continue
		}
		viewLine := viewLines[row]

		var result strings.Builder
		if anchorX > 0 {
			prefix := ansi.Truncate(viewLine, anchorX, "")
			result.WriteString(prefix)
			// Short lines leave a gap before the anchor.
			if gap := anchorX - ansi.StringWidth(prefix); gap > 0 {
				result.WriteString(strings.Repeat(" ", gap))
			}
		}
		result.WriteString("\x1b[0m")
		result.WriteString(overlayLine)
		result.WriteString("\x1b[0m")

		if suffixStart := anchorX + overlayWidth; suffixStart < ansi.StringWidth(viewLine) {
			result.WriteString(ansi.TruncateLeft(viewLine, suffixStart, ""))
		}

		viewLines[row] = result.String()
	}

	return strings.Join(viewLines, "\n")
}

// RenderBox draws a titled, bordered box around content lines. Every
// returned line has the same display width, which SpliceOverlay relies
// on to compute the suffix column.
func RenderBox(theme Theme, title string, content []string) []string {
	innerWidth := ansi.StringWidth(title) + 2
	for _, line := range content {
		innerWidth = max(innerWidth, ansi.StringWidth(line))
	}

	borderStyle := lipgloss.NewStyle().
		Foreground(theme.BorderColor).
		Background(theme.TooltipBackground)
	textStyle := lipgloss.NewStyle().
		Foreground(theme.TooltipForeground).
		Background(theme.TooltipBackground)
	titleStyle := textStyle.Bold(true)

	totalWidth := innerWidth + 2
	topFill := totalWidth - ansi.StringWidth(title) - 2
	lines := []string{
		borderStyle.Render("╭ ") + titleStyle.Render(title) + borderStyle.Render(" "+strings.Repeat("─", max(topFill, 0))+"╮"),
	}
	for _, line := range content {
		lines = append(lines,
			borderStyle.Render("│")+PadOverlayLine(textStyle.Render(line), innerWidth, totalWidth, textStyle)+borderStyle.Render("│"))
	}
	lines = append(lines, borderStyle.Render("╰"+strings.Repeat("─", totalWidth)+"╯"))
	return lines
}

// PadOverlayLine takes styled content for the inner area and pads it
// to the full width with background-colored spaces. Returns
// " content  " with background applied to the padding.
func PadOverlayLine(styledContent string, innerWidth, totalWidth int, backgroundStyle lipgloss.Style) string {
	rightPad := max(innerWidth-ansi.StringWidth(styledContent), 0)
	leftPad := max(totalWidth-innerWidth-1, 0)
	return backgroundStyle.Render(strings.Repeat(" ", leftPad)) +
		styledContent +
		backgroundStyle.Render(strings.Repeat(" ", rightPad+1))
}

// TruncationMarker replaces the leading columns of a line that
// AlignRight had to shorten.
const TruncationMarker = "…"

// AlignRight left-pads a possibly styled line to width columns. Lines
// wider than width lose their leading columns so the least significant
// digits stay visible, and start with TruncationMarker so the cut is
// never silent.
func AlignRight(line string, width int) string {
	lineWidth := ansi.StringWidth(line)
	switch {
	case width <= 0:
		return ""
	case lineWidth > width && width == 1:
		return TruncationMarker
	case lineWidth > width:
		return ansi.TruncateLeft(line, lineWidth-width+1, TruncationMarker)
	default:
		return strings.Repeat(" ", width-lineWidth) + line
	}
}
