// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
)

func TestHeatTrackerDecay(t *testing.T) {
	tracker := NewHeatTracker()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tracker.Ignite(3, HeatLine, start)
	tracker.Ignite(4, HeatError, start)

	if heat := tracker.Heat(3, start); heat != 1.0 {
		t.Errorf("Heat at ignition = %v, want 1.0", heat)
	}
	half := start.Add(HeatDecayDuration / 2)
	if heat := tracker.Heat(3, half); heat < 0.49 || heat > 0.51 {
		t.Errorf("Heat at half decay = %v, want ~0.5", heat)
	}
	if tracker.Kind(4) != HeatError {
		t.Errorf("Kind(4) = %v, want HeatError", tracker.Kind(4))
	}
	if heat := tracker.Heat(99, start); heat != 0 {
		t.Errorf("Heat of unknown line = %v, want 0", heat)
	}

	if !tracker.HasHot(half) {
		t.Error("HasHot should be true during decay")
	}
	if tracker.HasHot(start.Add(HeatDecayDuration)) {
		t.Error("HasHot should be false after full decay")
	}
	if len(tracker.entries) != 0 {
		t.Errorf("decayed entries not collected: %d left", len(tracker.entries))
	}
}

func TestHeatTrackerReset(t *testing.T) {
	tracker := NewHeatTracker()
	now := time.Now()
	tracker.Ignite(0, HeatLine, now)
	tracker.Reset()
	if tracker.Heat(0, now) != 0 {
		t.Error("Reset should cool every line")
	}
}

func TestRenderScrollbar(t *testing.T) {
	// Content that fits renders a blank column.
	fits := RenderScrollbar(DarkTheme, 3, 2, 3, 0)
	if fits != " \n \n " {
		t.Errorf("fitting content scrollbar = %q, want blank column", fits)
	}

	// 20 lines in a 10-row window scrolled to the bottom: the thumb
	// occupies the lower half.
	bar := strings.Split(ansi.Strip(RenderScrollbar(DarkTheme, 10, 20, 10, 10)), "\n")
	if len(bar) != 10 {
		t.Fatalf("scrollbar height = %d, want 10", len(bar))
	}
	for index, cell := range bar {
		want := "│"
		if index >= 5 {
			want = "┃"
		}
		if cell != want {
			t.Errorf("row %d = %q, want %q", index, cell, want)
		}
	}

	if RenderScrollbar(DarkTheme, 0, 10, 5, 0) != "" {
		t.Error("zero height should render nothing")
	}
}

func TestAlignRight(t *testing.T) {
	tests := []struct {
		line  string
		width int
		want  string
	}{
		{"12 +", 8, "    12 +"},
		{"1,234,567 T", 5, "…67 T"},
		{"1,234,567 T", 1, "…"},
		{"exact", 5, "exact"},
		{"anything", 0, ""},
	}
	for _, test := range tests {
		if got := AlignRight(test.line, test.width); got != test.want {
			t.Errorf("AlignRight(%q, %d) = %q, want %q", test.line, test.width, got, test.want)
		}
	}
}

func TestRenderBoxUniformWidth(t *testing.T) {
	box := RenderBox(DarkTheme, "Keys", []string{"0-9  digits", "enter  total"})
	if len(box) != 4 {
		t.Fatalf("box has %d lines, want 4", len(box))
	}
	width := ansi.StringWidth(box[0])
	for index, line := range box {
		if got := ansi.StringWidth(line); got != width {
			t.Errorf("line %d width = %d, want %d", index, got, width)
		}
	}
	if !strings.Contains(ansi.Strip(box[0]), "Keys") {
		t.Errorf("title missing from top border: %q", ansi.Strip(box[0]))
	}
}

func TestSpliceOverlay(t *testing.T) {
	view := "aaaaaaaa\nbbbbbbbb\ncc"
	result := ansi.Strip(SpliceOverlay(view, []string{"XY", "ZW"}, 3, 1))
	want := "aaaaaaaa\nbbbXYbbb\ncc ZW"
	if result != want {
		t.Errorf("SpliceOverlay = %q, want %q", result, want)
	}
}

func TestThemeByName(t *testing.T) {
	if theme, err := ThemeByName("light"); err != nil || theme != LightTheme {
		t.Errorf("ThemeByName(light) = %v, %v", theme, err)
	}
	if theme, err := ThemeByName(""); err != nil || theme != DarkTheme {
		t.Errorf("ThemeByName(\"\") = %v, %v", theme, err)
	}
	if _, err := ThemeByName("sepia"); err == nil {
		t.Error("ThemeByName(sepia) should fail")
	}
}
