// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/bureau-foundation/tally/lib/adder"
)

// Format selects an export rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// Formats lists every export format, for flag help.
var Formats = []Format{FormatText, FormatMarkdown, FormatHTML, FormatJSON}

// ParseFormat parses an export format name. "md" is accepted for
// markdown.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "text", "":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, markdown, html, or json)", name)
	}
}

// EmptyTape is printed in place of an empty tape.
const EmptyTape = "Tape is empty"

// Export writes session to w in the given format.
func Export(w io.Writer, session Session, format Format) error {
	switch format {
	case FormatText:
		_, err := io.WriteString(w, renderText(session))
		return err
	case FormatMarkdown:
		_, err := io.WriteString(w, renderMarkdown(session))
		return err
	case FormatHTML:
		return renderHTML(w, session)
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(session)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// renderText right-aligns the tape like a paper roll, then prints the
// display on its own line under a blank gap.
func renderText(session Session) string {
	width := ansi.StringWidth(session.Display)
	for _, line := range session.Lines {
		width = max(width, ansi.StringWidth(line))
	}

	var builder strings.Builder
	if len(session.Lines) == 0 {
		builder.WriteString(EmptyTape + "\n")
	}
	for _, line := range session.Lines {
		builder.WriteString(padLeft(line, width) + "\n")
	}
	builder.WriteString("\n" + padLeft(session.Display, width) + "\n")
	return builder.String()
}

func padLeft(line string, width int) string {
	return strings.Repeat(" ", max(width-ansi.StringWidth(line), 0)) + line
}

// renderMarkdown produces a numbered, right-aligned table with total
// lines in bold, followed by the display.
func renderMarkdown(session Session) string {
	var builder strings.Builder
	builder.WriteString("| # | Tape |\n|--:|-----:|\n")
	if len(session.Lines) == 0 {
		builder.WriteString("|   | *" + EmptyTape + "* |\n")
	}
	for index, line := range session.Lines {
		cell := "`" + line + "`"
		if strings.HasSuffix(line, adder.TotalSuffix) {
			cell = "**" + cell + "**"
		}
		fmt.Fprintf(&builder, "| %d | %s |\n", index+1, cell)
	}
	fmt.Fprintf(&builder, "\n**Display:** `%s`\n", session.Display)
	return builder.String()
}

var (
	markdownOnce     sync.Once
	markdownRenderer goldmark.Markdown
)

func getMarkdownRenderer() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.Table))
	})
	return markdownRenderer
}

func renderHTML(w io.Writer, session Session) error {
	var buffer bytes.Buffer
	if err := getMarkdownRenderer().Convert([]byte(renderMarkdown(session)), &buffer); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	_, err := w.Write(buffer.Bytes())
	return err
}
