// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package adderui

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/tally/lib/adder"
	"github.com/bureau-foundation/tally/lib/clock"
	"github.com/bureau-foundation/tally/lib/tui"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// sizedModel returns a model that has received an 80x30 window size.
func sizedModel(options Options) Model {
	if options.Clock == nil {
		options.Clock = clock.Fake(epoch)
	}
	model := NewModel(options)
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return updated.(Model)
}

func runeKey(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

// typeKeys sends each character of text as its own key press. Spaces
// are skipped.
func typeKeys(model Model, text string) Model {
	for _, character := range text {
		if character == ' ' {
			continue
		}
		updated, _ := model.Update(runeKey(string(character)))
		model = updated.(Model)
	}
	return model
}

func send(model Model, message tea.Msg) (Model, tea.Cmd) {
	updated, command := model.Update(message)
	return updated.(Model), command
}

// click sends a left-button press at screen coordinates.
func click(model Model, x, y int) Model {
	updated, _ := model.Update(tea.MouseMsg{
		X:      x,
		Y:      y,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionPress,
	})
	return updated.(Model)
}

// drain runs a command and any batch it expands to, returning every
// resulting message. Tick commands block for their duration, so only
// use this where the ticks are short or absent.
func drain(command tea.Cmd) []tea.Msg {
	if command == nil {
		return nil
	}
	message := command()
	if batch, ok := message.(tea.BatchMsg); ok {
		var messages []tea.Msg
		for _, inner := range batch {
			messages = append(messages, drain(inner)...)
		}
		return messages
	}
	if message == nil {
		return nil
	}
	return []tea.Msg{message}
}

func TestViewBeforeSize(t *testing.T) {
	model := NewModel(Options{})
	if got := model.View(); got != "Loading..." {
		t.Errorf("View() before WindowSizeMsg = %q, want Loading...", got)
	}
}

func TestKeyboardArithmetic(t *testing.T) {
	model := sizedModel(Options{})
	model = typeKeys(model, "10+5-3")
	model, _ = send(model, tea.KeyMsg{Type: tea.KeyEnter})

	state := model.State()
	if state.Display() != "8" {
		t.Errorf("Display() = %q, want %q", state.Display(), "8")
	}
	want := []string{"10 +", "5 -", "3", adder.Separator, "8 T"}
	if got := state.Tape(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tape() = %q, want %q", got, want)
	}
	if got := model.tape.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("tape pane lines = %q, want %q", got, want)
	}
	if len(model.Intents()) != 7 {
		t.Errorf("Intents() has %d entries, want 7", len(model.Intents()))
	}
}

func TestNamedKeys(t *testing.T) {
	tests := []struct {
		name    string
		key     tea.KeyMsg
		display string
		tape    int
	}{
		{"escape clears all", tea.KeyMsg{Type: tea.KeyEscape}, "0", 0},
		{"backspace clears entry", tea.KeyMsg{Type: tea.KeyBackspace}, "0", 1},
		{"delete clears entry", tea.KeyMsg{Type: tea.KeyDelete}, "0", 1},
		{"unknown key ignored", runeKey("z"), "7", 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			model := typeKeys(sizedModel(Options{}), "5+7")
			model, _ = send(model, test.key)
			if got := model.State().Display(); got != test.display {
				t.Errorf("Display() = %q, want %q", got, test.display)
			}
			if got := model.State().TapeLen(); got != test.tape {
				t.Errorf("TapeLen() = %d, want %d", got, test.tape)
			}
		})
	}
}

func TestQuit(t *testing.T) {
	model := sizedModel(Options{})
	_, command := send(model, runeKey("q"))
	if command == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := command().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestMouseClicksKeypad(t *testing.T) {
	model := sizedModel(Options{})
	top := model.keypadTop()
	if top != 19 {
		t.Fatalf("keypadTop() = %d, want 19 at height 30", top)
	}

	// 7 (row 1, column 0), + (row 2, column 3), 5 (row 2, column 1),
	// then the tall Total button at its bottom edge.
	model = click(model, 3, top+2)
	model = click(model, 27, top+4)
	model = click(model, 10, top+4)
	model = click(model, 24, top+8)

	if got := model.State().Display(); got != "12" {
		t.Errorf("Display() = %q, want %q", got, "12")
	}
	want := []string{"7 +", "5 +", adder.Separator, "12 T"}
	if got := model.State().Tape(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tape() = %q, want %q", got, want)
	}
}

func TestMouseMissesAndReleases(t *testing.T) {
	model := sizedModel(Options{})
	top := model.keypadTop()

	tests := []struct {
		name    string
		message tea.MouseMsg
	}{
		{"gap between rows", tea.MouseMsg{X: 3, Y: top + 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}},
		{"right of keypad", tea.MouseMsg{X: 40, Y: top + 2, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}},
		{"above keypad", tea.MouseMsg{X: 3, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}},
		{"release", tea.MouseMsg{X: 3, Y: top + 2, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease}},
		{"right button", tea.MouseMsg{X: 3, Y: top + 2, Button: tea.MouseButtonRight, Action: tea.MouseActionPress}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			updated, _ := send(model, test.message)
			if len(updated.Intents()) != 0 {
				t.Errorf("dispatched %d intents, want none", len(updated.Intents()))
			}
		})
	}
}

func TestWideZeroButton(t *testing.T) {
	model := sizedModel(Options{})
	top := model.keypadTop()
	model = click(model, 1, top+2) // 7
	for _, x := range []int{0, 7, 14} {
		model = click(model, x, top+8)
	}
	if got := model.State().Entry(); got != "7000" {
		t.Errorf("Entry() = %q, want %q", got, "7000")
	}
}

func TestKeyboardAndMouseAgree(t *testing.T) {
	typed := typeKeys(sizedModel(Options{}), "6*7")
	typed, _ = send(typed, tea.KeyMsg{Type: tea.KeyEnter})

	clicked := sizedModel(Options{})
	top := clicked.keypadTop()
	clicked = click(clicked, 17, top+4) // 6
	clicked = click(clicked, 25, top)   // x
	clicked = click(clicked, 1, top+2)  // 7
	clicked = click(clicked, 25, top+6) // Total

	if !reflect.DeepEqual(typed.State().Tape(), clicked.State().Tape()) {
		t.Errorf("keyboard tape %q != mouse tape %q", typed.State().Tape(), clicked.State().Tape())
	}
	if typed.State().Display() != "42" || clicked.State().Display() != "42" {
		t.Errorf("displays = %q / %q, want 42", typed.State().Display(), clicked.State().Display())
	}
}

func TestPressFlash(t *testing.T) {
	model := sizedModel(Options{})
	model, _ = send(model, runeKey("7"))
	index := model.keypad.IndexFor(adder.DigitIntent('7'))
	if model.pressed != index {
		t.Fatalf("pressed = %d, want %d", model.pressed, index)
	}

	// A stale fade from an earlier press leaves the new flash alone.
	model, _ = send(model, pressFadeMsg{sequence: model.pressSequence - 1})
	if model.pressed != index {
		t.Errorf("stale fade cleared the flash")
	}
	model, _ = send(model, pressFadeMsg{sequence: model.pressSequence})
	if model.pressed != -1 {
		t.Errorf("pressed = %d after fade, want -1", model.pressed)
	}
}

func TestErrorBlocksInputUntilCleared(t *testing.T) {
	model := typeKeys(sizedModel(Options{}), "5/0")
	model, _ = send(model, tea.KeyMsg{Type: tea.KeyEnter})
	if !model.State().InError() {
		t.Fatal("expected the error phase after dividing by zero")
	}

	model = typeKeys(model, "9+")
	if got := model.State().Display(); got != adder.ErrorMarker {
		t.Errorf("Display() = %q, want %q", got, adder.ErrorMarker)
	}

	// Clear entry in the error phase clears everything.
	model, _ = send(model, tea.KeyMsg{Type: tea.KeyBackspace})
	if model.State().InError() {
		t.Error("clear entry should leave the error phase")
	}
	if got := model.State().TapeLen(); got != 0 {
		t.Errorf("TapeLen() = %d, want 0", got)
	}
}

func TestArithmeticErrorIsLogged(t *testing.T) {
	handler := &recordingHandler{}
	logger := slog.New(handler)
	model := typeKeys(sizedModel(Options{Logger: logger}), "5/0")
	model, command := send(model, tea.KeyMsg{Type: tea.KeyEnter})
	if len(handler.messages) != 0 {
		t.Fatal("logging should happen in a command, not inside Update")
	}
	drain(command)
	if !reflect.DeepEqual(handler.messages, []string{"arithmetic error"}) {
		t.Errorf("logged %q, want one arithmetic error", handler.messages)
	}

	// Further keys in the error phase log nothing new.
	_, command = send(model, runeKey("1"))
	drain(command)
	if len(handler.messages) != 1 {
		t.Errorf("logged %q after ignored key", handler.messages)
	}
}

func TestHeatIgnitesNewLines(t *testing.T) {
	fake := clock.Fake(epoch)
	model := sizedModel(Options{Heat: true, Clock: fake})

	model = typeKeys(model, "5")
	if model.tickRunning {
		t.Error("a digit adds no tape line, so no animation should start")
	}

	model, command := send(model, runeKey("+"))
	if command == nil || !model.tickRunning {
		t.Fatal("a new tape line should start the heat animation")
	}
	if heat := model.heatTracker.Heat(0, fake.Now()); heat <= 0 {
		t.Errorf("Heat(0) = %v, want hot", heat)
	}

	// Once everything has cooled the tick stops rescheduling.
	fake.Advance(time.Minute)
	model, command = send(model, heatTickMsg{})
	if command != nil || model.tickRunning {
		t.Error("heat tick should stop once nothing is hot")
	}
}

func TestHeatMarksErrorLine(t *testing.T) {
	fake := clock.Fake(epoch)
	model := typeKeys(sizedModel(Options{Heat: true, Clock: fake}), "5/0")
	model, _ = send(model, tea.KeyMsg{Type: tea.KeyEnter})
	last := model.State().TapeLen() - 1
	if kind := model.heatTracker.Kind(last); kind != tui.HeatError {
		t.Errorf("Kind(error line) = %v, want HeatError", kind)
	}

	model, _ = send(model, tea.KeyMsg{Type: tea.KeyEscape})
	if model.heatTracker.HasHot(fake.Now()) {
		t.Error("clear all should reset the heat tracker")
	}
}

func TestHeatDisabled(t *testing.T) {
	model := typeKeys(sizedModel(Options{Heat: false}), "5+")
	if model.tickRunning || model.heatTracker.HasHot(epoch) {
		t.Error("heat disabled should never ignite lines")
	}
}

func TestHelpOverlay(t *testing.T) {
	model := sizedModel(Options{})
	model, _ = send(model, runeKey("?"))
	if !model.showHelp {
		t.Fatal("? should open help")
	}
	if view := ansi.Strip(model.View()); !strings.Contains(view, "clear entry") {
		t.Errorf("help overlay missing key descriptions:\n%s", view)
	}

	// The key that closes help is not dispatched.
	model, _ = send(model, runeKey("7"))
	if model.showHelp {
		t.Error("any key should close help")
	}
	if len(model.Intents()) != 0 {
		t.Error("the closing key should not reach the machine")
	}
}

func TestTapeScrolling(t *testing.T) {
	model := sizedModel(Options{})
	for range 30 {
		model = typeKeys(model, "1+")
	}
	if !model.tape.AtBottom() {
		t.Fatal("tape should follow the newest line")
	}
	bottom := model.tape.YOffset()

	model, _ = send(model, tea.KeyMsg{Type: tea.KeyHome})
	if model.tape.YOffset() != 0 {
		t.Errorf("YOffset after home = %d, want 0", model.tape.YOffset())
	}
	model, _ = send(model, tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if model.tape.YOffset() != 3 {
		t.Errorf("YOffset after wheel = %d, want 3", model.tape.YOffset())
	}
	model, _ = send(model, tea.KeyMsg{Type: tea.KeyEnd})
	if model.tape.YOffset() != bottom {
		t.Errorf("YOffset after end = %d, want %d", model.tape.YOffset(), bottom)
	}
}

func TestViewLayout(t *testing.T) {
	model := typeKeys(sizedModel(Options{}), "6*")
	model = typeKeys(model, "4")
	view := ansi.Strip(model.View())
	lines := strings.Split(view, "\n")

	if len(lines) != 30 {
		t.Fatalf("View() has %d lines, want 30", len(lines))
	}
	if !strings.HasPrefix(lines[0], Title) || !strings.HasSuffix(strings.TrimRight(lines[0], " "), "6 *") {
		t.Errorf("title line = %q, want title and pending 6 *", lines[0])
	}
	display := lines[2+model.tapeHeight()]
	if strings.TrimSpace(display) != "4" {
		t.Errorf("display line = %q, want 4", display)
	}
	if !strings.Contains(lines[model.keypadTop()], "CE") {
		t.Errorf("keypad top line = %q, want the clear row", lines[model.keypadTop()])
	}
}

func TestWideNumbersAreMarkedWhenCut(t *testing.T) {
	model := typeKeys(sizedModel(Options{}), "999999999999*999999999999=")
	const product = "999,999,999,998,000,004,857,856"
	if got := model.State().Display(); got != product {
		t.Fatalf("Display() = %q, want %q", got, product)
	}

	lines := strings.Split(ansi.Strip(model.View()), "\n")
	display := strings.TrimSpace(lines[2+model.tapeHeight()])
	if display != product && !strings.HasPrefix(display, tui.TruncationMarker) {
		t.Errorf("display line = %q, want the full product or a leading %s", display, tui.TruncationMarker)
	}
	if !strings.HasSuffix(display, "857,856") {
		t.Errorf("display line = %q, want the low digits visible", display)
	}

	var total string
	for _, line := range lines[titleRows : 2+model.tapeHeight()] {
		if strings.Contains(line, "857,856 T") {
			total = strings.TrimSpace(line)
		}
	}
	if total == "" {
		t.Fatalf("no total line on screen:\n%s", strings.Join(lines, "\n"))
	}
	if total != product+adder.TotalSuffix && !strings.HasPrefix(total, tui.TruncationMarker) {
		t.Errorf("tape total line = %q, want the full total or a leading %s", total, tui.TruncationMarker)
	}
}

func TestEmptyTapePlaceholder(t *testing.T) {
	view := ansi.Strip(sizedModel(Options{}).View())
	if !strings.Contains(view, "Tape is empty") {
		t.Errorf("empty tape should show a placeholder:\n%s", view)
	}
}

type fakeSaver struct {
	location string
	err      error
	saved    [][]adder.Intent
}

func (saver *fakeSaver) Save(intents []adder.Intent) (string, error) {
	saver.saved = append(saver.saved, intents)
	return saver.location, saver.err
}

func TestSave(t *testing.T) {
	saver := &fakeSaver{location: "/tmp/tape.taly"}
	model := typeKeys(sizedModel(Options{Saver: saver}), "2+")

	model, command := send(model, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !model.saving || command == nil {
		t.Fatal("ctrl+s should start a save")
	}
	result, ok := command().(saveResultMsg)
	if !ok {
		t.Fatalf("save command returned %T, want saveResultMsg", result)
	}
	if len(saver.saved) != 1 || len(saver.saved[0]) != 2 {
		t.Errorf("saver received %v, want the two intents", saver.saved)
	}

	model, _ = send(model, result)
	if model.saving {
		t.Error("saving flag should clear on result")
	}
	if !strings.Contains(model.status.text, "/tmp/tape.taly") {
		t.Errorf("status = %q, want the saved location", model.status.text)
	}
}

func TestSaveFailure(t *testing.T) {
	saver := &fakeSaver{err: errors.New("disk full")}
	model := sizedModel(Options{Saver: saver})
	model, command := send(model, tea.KeyMsg{Type: tea.KeyCtrlS})
	model, _ = send(model, command())
	if !strings.Contains(model.status.text, "disk full") {
		t.Errorf("status = %q, want the failure", model.status.text)
	}
}

func TestSaveWithoutSaver(t *testing.T) {
	model, _ := send(sizedModel(Options{}), tea.KeyMsg{Type: tea.KeyCtrlS})
	if model.saving {
		t.Error("no saver configured, nothing to start")
	}
	if model.status.text == "" {
		t.Error("expected a status explaining saving is unavailable")
	}
}

func TestStatusFade(t *testing.T) {
	model := sizedModel(Options{})
	model, _ = send(model, logRecordMsg{Summary: "first", Level: slog.LevelWarn})
	model, _ = send(model, logRecordMsg{Summary: "second", Level: slog.LevelWarn})

	model, _ = send(model, statusFadeMsg{sequence: model.statusSequence - 1})
	if model.status.text != "second" {
		t.Errorf("stale fade cleared status %q", model.status.text)
	}
	model, _ = send(model, statusFadeMsg{sequence: model.statusSequence})
	if model.status.text != "" {
		t.Errorf("status = %q after fade, want empty", model.status.text)
	}
}
