// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package adderui

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/tally/lib/adder"
	"github.com/bureau-foundation/tally/lib/clock"
	"github.com/bureau-foundation/tally/lib/tui"
)

// Title is shown in the title bar and the terminal window title.
const Title = "Adding Machine"

// Saver persists the keys pressed so far. It runs inside a tea.Cmd,
// off the update loop, and returns a description of where the session
// went (typically a file path).
type Saver interface {
	Save(intents []adder.Intent) (string, error)
}

// Options configure a Model. The zero value is usable.
type Options struct {
	Theme tui.Theme

	// Heat enables the glow on freshly appended tape lines.
	Heat bool

	// Clock is read for heat timing. Defaults to clock.Real().
	Clock clock.Clock

	// Logger receives arithmetic errors and save failures. Pair it with
	// a TUILogHandler to surface them in the status bar.
	Logger *slog.Logger

	// Saver handles the save key. Nil disables saving.
	Saver Saver
}

// Fixed chrome rows around the tape pane: title, rule, display, gap,
// keypad, rule, status.
const (
	titleRows  = 2
	chromeRows = titleRows + 2 + keypadHeight + 2
	minTape    = 3
)

// pressFlashDuration is how long a pressed keypad button stays lit.
const pressFlashDuration = 120 * time.Millisecond

// heatTickMsg drives the heat decay animation.
type heatTickMsg struct{}

// pressFadeMsg un-highlights the button lit by the matching press.
type pressFadeMsg struct {
	sequence int
}

// saveResultMsg reports the outcome of a Saver call.
type saveResultMsg struct {
	location string
	err      error
}

// statusMessage is a transient line shown in place of the key help.
type statusMessage struct {
	text  string
	level slog.Level
}

// Model is the bubbletea model for the adding machine.
type Model struct {
	state   adder.State
	intents []adder.Intent // Every intent dispatched, for saving.

	theme  tui.Theme
	keys   KeyMap
	keypad Keypad
	tape   TapePane
	clock  clock.Clock
	logger *slog.Logger
	saver  Saver

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	showHelp bool

	// Keypad press feedback.
	pressed       int
	pressSequence int

	// Status bar message; empty shows the key help.
	status         statusMessage
	statusSequence int
	saving         bool

	// Tape glow animation.
	heatEnabled bool
	heatTracker *tui.HeatTracker
	tickRunning bool
}

// NewModel creates a Model with a fresh machine.
func NewModel(options Options) Model {
	theme := options.Theme
	if theme == (tui.Theme{}) {
		theme = tui.DarkTheme
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}

	return Model{
		state:       adder.New(),
		theme:       theme,
		keys:        DefaultKeyMap,
		keypad:      NewKeypad(),
		tape:        NewTapePane(),
		clock:       options.Clock,
		logger:      options.Logger,
		saver:       options.Saver,
		pressed:     -1,
		heatEnabled: options.Heat,
		heatTracker: tui.NewHeatTracker(),
	}
}

// State returns the current machine state.
func (model Model) State() adder.State { return model.state }

// Intents returns a copy of every intent dispatched so far.
func (model Model) Intents() []adder.Intent { return slices.Clone(model.intents) }

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return tea.SetWindowTitle(Title)
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return model.handleKey(message)

	case tea.MouseMsg:
		return model.handleMouse(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.tape.SetSize(keypadWidth, model.tapeHeight())

	case heatTickMsg:
		if model.heatTracker.HasHot(model.clock.Now()) {
			return model, scheduleHeatTick()
		}
		model.tickRunning = false

	case pressFadeMsg:
		if message.sequence == model.pressSequence {
			model.pressed = -1
		}

	case logRecordMsg:
		command := model.setStatus(message.Summary, message.Level)
		return model, command

	case statusFadeMsg:
		if message.sequence == model.statusSequence {
			model.status = statusMessage{}
		}

	case saveResultMsg:
		model.saving = false
		logger := model.logger
		if message.err != nil {
			status := model.setStatus("save failed: "+message.err.Error(), slog.LevelError)
			return model, tea.Batch(status, logCommand(func() {
				logger.Error("saving tape failed", "error", message.err)
			}))
		}
		keys := len(model.intents)
		status := model.setStatus("saved "+message.location, slog.LevelInfo)
		return model, tea.Batch(status, logCommand(func() {
			logger.Info("tape saved", "location", message.location, "keys", keys)
		}))
	}
	return model, nil
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The help overlay swallows the key that closes it.
	if model.showHelp {
		model.showHelp = false
		if key.Matches(message, model.keys.Quit) {
			return model, tea.Quit
		}
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(message, model.keys.Help):
		model.showHelp = true
	case key.Matches(message, model.keys.Save):
		return model.save()
	case key.Matches(message, model.keys.LineUp):
		model.tape.LineUp(1)
	case key.Matches(message, model.keys.LineDown):
		model.tape.LineDown(1)
	case key.Matches(message, model.keys.PageUp):
		model.tape.PageUp()
	case key.Matches(message, model.keys.PageDown):
		model.tape.PageDown()
	case key.Matches(message, model.keys.Top):
		model.tape.Top()
	case key.Matches(message, model.keys.Bottom):
		model.tape.Bottom()
	default:
		intent, ok := adder.IntentForKey(message.String())
		if !ok {
			return model, nil
		}
		return model.press(intent, model.keypad.IndexFor(intent))
	}
	return model, nil
}

func (model Model) handleMouse(message tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch message.Button {
	case tea.MouseButtonWheelUp:
		model.tape.LineUp(3)
	case tea.MouseButtonWheelDown:
		model.tape.LineDown(3)
	case tea.MouseButtonLeft:
		if message.Action != tea.MouseActionPress {
			return model, nil
		}
		if model.showHelp {
			model.showHelp = false
			return model, nil
		}
		index := model.keypad.ButtonAt(message.X, message.Y-model.keypadTop())
		if index < 0 {
			return model, nil
		}
		return model.press(model.keypad.Buttons[index].Intent, index)
	}
	return model, nil
}

// press dispatches an intent and lights the keypad button it came from
// (or -1 for none).
func (model Model) press(intent adder.Intent, button int) (tea.Model, tea.Cmd) {
	var commands []tea.Cmd
	if command := model.dispatch(intent); command != nil {
		commands = append(commands, command)
	}
	if button >= 0 {
		model.pressed = button
		model.pressSequence++
		sequence := model.pressSequence
		commands = append(commands, tea.Tick(pressFlashDuration, func(time.Time) tea.Msg {
			return pressFadeMsg{sequence: sequence}
		}))
	}
	return model, tea.Batch(commands...)
}

// dispatch is the single path from any input to the machine. It keeps
// the tape pane and heat tracker in step with the state.
func (model *Model) dispatch(intent adder.Intent) tea.Cmd {
	before := model.state.TapeLen()
	wasError := model.state.InError()

	model.state.Dispatch(intent)
	model.intents = append(model.intents, intent)

	after := model.state.TapeLen()
	if after < before {
		model.heatTracker.Reset()
	}

	var commands []tea.Cmd
	if !wasError && model.state.InError() {
		logger, err := model.logger, model.state.Err()
		commands = append(commands, logCommand(func() {
			logger.Warn("arithmetic error", "error", err, "tape_lines", after)
		}))
	}

	model.tape.SetLines(model.state.Tape())
	if !model.heatEnabled || after <= before {
		return tea.Batch(commands...)
	}

	now := model.clock.Now()
	for index, line := range model.state.Tape()[before:] {
		kind := tui.HeatLine
		if line == adder.ErrorMarker {
			kind = tui.HeatError
		}
		model.heatTracker.Ignite(before+index, kind, now)
	}
	if !model.tickRunning {
		model.tickRunning = true
		commands = append(commands, scheduleHeatTick())
	}
	return tea.Batch(commands...)
}

// logCommand runs log off the update loop. A TUILogHandler answers
// with program.Send, which would block if called from inside Update.
func logCommand(log func()) tea.Cmd {
	return func() tea.Msg {
		log()
		return nil
	}
}

func (model Model) save() (tea.Model, tea.Cmd) {
	if model.saver == nil {
		command := model.setStatus("saving is not configured", slog.LevelWarn)
		return model, command
	}
	if model.saving {
		return model, nil
	}
	model.saving = true
	saver := model.saver
	intents := model.Intents()
	return model, func() tea.Msg {
		location, err := saver.Save(intents)
		return saveResultMsg{location: location, err: err}
	}
}

// setStatus shows text in the status bar and schedules its fade.
func (model *Model) setStatus(text string, level slog.Level) tea.Cmd {
	model.status = statusMessage{text: text, level: level}
	model.statusSequence++
	sequence := model.statusSequence
	return tea.Tick(statusFadeDelay, func(time.Time) tea.Msg {
		return statusFadeMsg{sequence: sequence}
	})
}

// scheduleHeatTick sends a heatTickMsg after the animation interval.
func scheduleHeatTick() tea.Cmd {
	return tea.Tick(tui.HeatTickInterval, func(time.Time) tea.Msg {
		return heatTickMsg{}
	})
}

func (model Model) tapeHeight() int {
	return max(model.height-chromeRows, minTape)
}

// keypadTop is the screen row of the keypad's first line.
func (model Model) keypadTop() int {
	return titleRows + model.tapeHeight() + 2
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	rule := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", keypadWidth))

	sections := []string{
		model.renderTitle(),
		rule,
		model.tape.View(model.theme, model.heatTracker, model.clock.Now()),
		model.renderDisplay(),
		"",
		model.keypad.Render(model.theme, model.pressed),
		rule,
		model.renderStatus(),
	}
	output := strings.Join(sections, "\n")

	if model.showHelp {
		output = tui.SpliceOverlay(output, model.renderHelpBox(), 1, titleRows)
	}
	return output
}

// renderTitle shows the title with the pending multiply/divide, if
// any, at the right edge.
func (model Model) renderTitle() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground).Render(Title)
	view := adder.Render(model.state)
	if view.Pending == "" {
		return title
	}
	pending := lipgloss.NewStyle().Foreground(model.theme.Accent).Render(view.Pending)
	gap := max(keypadWidth-lipgloss.Width(title)-lipgloss.Width(pending), 1)
	return title + strings.Repeat(" ", gap) + pending
}

func (model Model) renderDisplay() string {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(model.theme.DisplayForeground).
		Background(model.theme.DisplayBackground)
	if model.state.InError() {
		style = style.Foreground(model.theme.ErrorForeground)
	}
	return style.Render(tui.AlignRight(model.state.Display()+" ", keypadWidth))
}

func (model Model) renderStatus() string {
	if model.status.text != "" {
		color := model.theme.NormalText
		switch {
		case model.status.level >= slog.LevelError:
			color = model.theme.ErrorForeground
		case model.status.level >= slog.LevelWarn:
			color = model.theme.WarningText
		}
		return lipgloss.NewStyle().Foreground(color).Render(" " + model.status.text)
	}

	help := fmt.Sprintf(" %s %s  %s %s  %s %s",
		model.keys.Quit.Help().Key, model.keys.Quit.Help().Desc,
		model.keys.Help.Help().Key, model.keys.Help.Help().Desc,
		model.keys.Save.Help().Key, model.keys.Save.Help().Desc)
	if model.saving {
		help += "  saving..."
	}
	return lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(help)
}

func (model Model) renderHelpBox() []string {
	var lines []string
	for _, entry := range calculatorHelp {
		lines = append(lines, fmt.Sprintf("%-9s %s", entry[0], entry[1]))
	}
	for _, binding := range []key.Binding{
		model.keys.Save, model.keys.PageUp, model.keys.PageDown, model.keys.Top, model.keys.Bottom, model.keys.Quit,
	} {
		lines = append(lines, fmt.Sprintf("%-9s %s", binding.Help().Key, binding.Help().Desc))
	}
	return tui.RenderBox(model.theme, "Keys", lines)
}
