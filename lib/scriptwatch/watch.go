// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package scriptwatch re-evaluates a keystroke script every time the
// file changes and redraws the resulting tape in place.
//
// The parent directory is watched rather than the file itself so that
// editors which save by writing a temporary file and renaming it over
// the original keep triggering updates. Bursts of events are collapsed
// by a debounce timer on the injected clock.
package scriptwatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gosuri/uilive"

	"github.com/bureau-foundation/tally/lib/adder"
	"github.com/bureau-foundation/tally/lib/clock"
	"github.com/bureau-foundation/tally/lib/tape"
)

// DefaultDebounce is the quiet period after the last file event before
// the script is re-evaluated.
const DefaultDebounce = 150 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	// Path is the script file to evaluate.
	Path string

	// Output receives the live display. Defaults to os.Stdout.
	Output io.Writer

	// Clock drives the debounce timer and the "updated" timestamp.
	// Defaults to clock.Real().
	Clock clock.Clock

	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	// Logger receives watch errors. Defaults to slog.Default().
	Logger *slog.Logger
}

// Watcher evaluates a script file on every change.
type Watcher struct {
	path     string
	clock    clock.Clock
	debounce time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	writer *uilive.Writer
	last   Result
}

// Result is the outcome of one evaluation.
type Result struct {
	// Session is the recorded evaluation. Zero when Err is set.
	Session tape.Session

	// Err is a read or parse failure.
	Err error
}

// New validates config and returns a Watcher. Nothing is watched until
// Run is called.
func New(config Config) (*Watcher, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("scriptwatch: path is required")
	}
	path, err := filepath.Abs(config.Path)
	if err != nil {
		return nil, fmt.Errorf("scriptwatch: resolving %s: %w", config.Path, err)
	}

	writer := uilive.New()
	if config.Output != nil {
		writer.Out = config.Output
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Watcher{
		path:     path,
		clock:    config.Clock,
		debounce: config.Debounce,
		logger:   config.Logger,
		writer:   writer,
	}, nil
}

// Run evaluates the script once, then again after every change, until
// ctx is cancelled. Returns nil on cancellation.
func (watcher *Watcher) Run(ctx context.Context) error {
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("scriptwatch: creating watcher: %w", err)
	}
	defer notifier.Close()

	directory := filepath.Dir(watcher.path)
	if err := notifier.Add(directory); err != nil {
		return fmt.Errorf("scriptwatch: watching %s: %w", directory, err)
	}

	watcher.Evaluate()

	var debounceTimer *clock.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != watcher.path || event.Op == fsnotify.Chmod {
				continue
			}
			watcher.logger.Debug("script changed", "path", event.Name, "op", event.Op.String())
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = watcher.clock.AfterFunc(watcher.debounce, func() {
				watcher.Evaluate()
			})

		case err, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			watcher.logger.Warn("script watch error", "path", watcher.path, "error", err)
		}
	}
}

// Evaluate reads and runs the script now and redraws the display.
func (watcher *Watcher) Evaluate() Result {
	result := evaluateFile(watcher.path, watcher.clock)

	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	watcher.last = result

	var frame bytes.Buffer
	fmt.Fprintf(&frame, "%s (updated %s)\n\n", watcher.path, watcher.clock.Now().Format(time.TimeOnly))
	if result.Err != nil {
		fmt.Fprintf(&frame, "error: %v\n", result.Err)
	} else if err := tape.Export(&frame, result.Session, tape.FormatText); err != nil {
		fmt.Fprintf(&frame, "error: %v\n", err)
	}

	watcher.writer.Write(frame.Bytes())
	if err := watcher.writer.Flush(); err != nil {
		watcher.logger.Warn("redrawing script output", "error", err)
	}
	if result.Err != nil {
		watcher.logger.Debug("script evaluation failed", "path", watcher.path, "error", result.Err)
	}
	return result
}

// Last returns the most recent evaluation.
func (watcher *Watcher) Last() Result {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	return watcher.last
}

func evaluateFile(path string, source clock.Clock) Result {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{Err: err}
	}
	intents, err := adder.ParseScript(string(content))
	if err != nil {
		return Result{Err: fmt.Errorf("%s: %w", filepath.Base(path), err)}
	}
	session, err := tape.Record(intents, source)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Session: session}
}
