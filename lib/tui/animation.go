// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"time"
)

// HeatDecayDuration is how long a tape line glows after it is appended.
// Heat starts at 1.0 and decays linearly to 0.0 over this duration.
const HeatDecayDuration = 5 * time.Second

// HeatTickInterval is the re-render interval while any lines are hot.
// 100ms gives ~10fps animation for smooth color decay.
const HeatTickInterval = 100 * time.Millisecond

// HeatKind distinguishes different types of lines for color selection.
type HeatKind int

const (
	// HeatLine marks an ordinary appended tape line (amber glow).
	HeatLine HeatKind = iota
	// HeatError marks the error marker line (red glow).
	HeatError
)

// heatEntry records when and how a line was appended.
type heatEntry struct {
	ignition time.Time
	kind     HeatKind
}

// HeatTracker maps tape line indexes to ignition timestamps. Each
// append "ignites" a line, which then decays from full intensity to
// zero over [HeatDecayDuration].
type HeatTracker struct {
	entries map[int]heatEntry
}

// NewHeatTracker creates an empty heat tracker.
func NewHeatTracker() *HeatTracker {
	return &HeatTracker{
		entries: make(map[int]heatEntry),
	}
}

// Ignite records an append for a line. Resets the decay timer if the
// line was already hot.
func (tracker *HeatTracker) Ignite(line int, kind HeatKind, now time.Time) {
	tracker.entries[line] = heatEntry{ignition: now, kind: kind}
}

// Heat returns the current intensity for a line: 1.0 at ignition,
// linearly decaying to 0.0 over [HeatDecayDuration]. Returns 0.0 for
// lines that were never ignited or have fully decayed.
func (tracker *HeatTracker) Heat(line int, now time.Time) float64 {
	entry, exists := tracker.entries[line]
	if !exists {
		return 0.0
	}
	elapsed := now.Sub(entry.ignition)
	if elapsed >= HeatDecayDuration {
		return 0.0
	}
	return 1.0 - float64(elapsed)/float64(HeatDecayDuration)
}

// Kind returns the heat kind for a line. Only meaningful when Heat()
// returns > 0.
func (tracker *HeatTracker) Kind(line int) HeatKind {
	entry, exists := tracker.entries[line]
	if !exists {
		return HeatLine
	}
	return entry.kind
}

// HasHot returns true if any tracked line still has heat > 0,
// meaning the tick timer should keep running for animation.
func (tracker *HeatTracker) HasHot(now time.Time) bool {
	hot := false
	for line, entry := range tracker.entries {
		if now.Sub(entry.ignition) < HeatDecayDuration {
			hot = true
			continue
		}
		// Garbage-collect fully decayed entries.
		delete(tracker.entries, line)
	}
	return hot
}

// Reset forgets every line. Called when the tape is cleared so that
// new lines reusing old indexes start cold.
func (tracker *HeatTracker) Reset() {
	clear(tracker.entries)
}
