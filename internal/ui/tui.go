// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskflow/internal/theme"
	"github.com/nibzard/taskflow/internal/todo"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	altScreen bool
	output    io.Writer
}

// WithAltScreen controls whether the TUI takes over the full screen.
func WithAltScreen(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.altScreen = enabled
	}
}

// WithOutput sets the terminal the TUI draws to. It defaults to stdout.
func WithOutput(w io.Writer) TUIOption {
	return func(c *tuiConfig) {
		if w != nil {
			c.output = w
		}
	}
}

// RunTUI runs the task list until the user quits or ctx is cancelled.
func RunTUI(ctx context.Context, ctrl *todo.Controller, themes *theme.Manager, opts ...TUIOption) error {
	c := &tuiConfig{
		altScreen: true,
		output:    os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(c.output) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(ctx, ctrl, themes)
	return runProgram(ctx, model, c)
}

func runProgram(ctx context.Context, model *tuiModel, c *tuiConfig) error {
	programOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(c.output)}
	if c.altScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(model, programOpts...)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

type mode int

const (
	modeNormal mode = iota
	modeAdd
	modeEdit
	modeHelp
)

type tuiModel struct {
	ctx    context.Context
	ctrl   *todo.Controller
	themes *theme.Manager
	styles theme.Styles
	keys   keyMap
	input  textinput.Model
	mode   mode
	cursor int
	width  int
	notice string
}

func newTUIModel(ctx context.Context, ctrl *todo.Controller, themes *theme.Manager) *tuiModel {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 500
	ti.Prompt = "> "

	return &tuiModel{
		ctx:    ctx,
		ctrl:   ctrl,
		themes: themes,
		styles: theme.StylesFor(themes.Mode()),
		keys:   defaultKeyMap(),
		input:  ti,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	if !m.ctrl.Loaded() {
		m.report(m.ctrl.Load(m.ctx), "Could not load tasks")
	}
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 8 {
			m.input.Width = msg.Width - 8
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd, modeEdit:
			return m.updateInput(msg)
		case modeHelp:
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			m.mode = modeNormal
			return m, nil
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m *tuiModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.ctrl.Filtered())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(); ok {
			m.report(m.ctrl.Toggle(m.ctx, t.ID), "Could not update task")
		}
	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selected(); ok {
			m.ctrl.StartEdit(t)
			m.mode = modeEdit
			m.input.SetValue(t.Text)
			m.input.CursorEnd()
			return m, m.input.Focus()
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			m.report(m.ctrl.Delete(m.ctx, t.ID), "Could not delete task")
		}
	case key.Matches(msg, m.keys.ClearCompleted):
		m.report(m.ctrl.ClearCompleted(m.ctx), "Could not clear completed tasks")
	case key.Matches(msg, m.keys.FilterAll):
		m.ctrl.SetFilter(todo.FilterAll)
	case key.Matches(msg, m.keys.FilterActive):
		m.ctrl.SetFilter(todo.FilterActive)
	case key.Matches(msg, m.keys.FilterDone):
		m.ctrl.SetFilter(todo.FilterCompleted)
	case key.Matches(msg, m.keys.Theme):
		m.styles = theme.StylesFor(m.themes.Toggle(m.ctx))
	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
	}
	m.clampCursor()
	return m, nil
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.submit()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		if m.mode == modeEdit {
			m.ctrl.CancelEdit()
		}
		m.leaveInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeEdit {
		m.ctrl.SetEditText(m.input.Value())
	}
	return m, cmd
}

// submit commits the input line. Adding keeps the input open for the next
// task; saving an edit returns to the list.
func (m *tuiModel) submit() {
	switch m.mode {
	case modeAdd:
		_, err := m.ctrl.Add(m.ctx, m.input.Value())
		if errors.Is(err, todo.ErrEmptyText) {
			return
		}
		if m.report(err, "Could not add task") {
			return
		}
		m.input.SetValue("")
		m.cursor = 0
	case modeEdit:
		id, _, ok := m.ctrl.Editing()
		if ok {
			m.ctrl.SetEditText(m.input.Value())
			m.report(m.ctrl.SaveEdit(m.ctx, id), "Could not save task")
		}
		m.leaveInput()
	}
	m.clampCursor()
}

func (m *tuiModel) leaveInput() {
	m.mode = modeNormal
	m.input.Blur()
	m.input.SetValue("")
}

// report shows a notice for a failed operation and reports whether err was
// set. The controller has already logged the details.
func (m *tuiModel) report(err error, notice string) bool {
	if err == nil {
		return false
	}
	m.notice = notice
	return true
}

func (m *tuiModel) selected() (todo.Task, bool) {
	tasks := m.ctrl.Filtered()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return todo.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *tuiModel) clampCursor() {
	n := len(m.ctrl.Filtered())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
