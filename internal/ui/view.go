package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskflow/internal/theme"
	"github.com/nibzard/taskflow/internal/todo"
)

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.styles)

	if m.mode == modeHelp {
		writeHelp(&b, m.styles, m.keys)
		writeFooter(&b, m.styles, m.mode, m.themes.Mode())
		return b.String()
	}

	if !m.ctrl.Loaded() {
		b.WriteString("Loading...\n\n")
		writeFooter(&b, m.styles, m.mode, m.themes.Mode())
		return b.String()
	}

	if m.mode == modeAdd || m.mode == modeEdit {
		label := "New task"
		if m.mode == modeEdit {
			label = "Edit task"
		}
		b.WriteString(m.styles.Help.Render(label) + "\n")
		b.WriteString(m.styles.Input.Render(m.input.View()) + "\n\n")
	}

	writeTasks(&b, m.styles, m.ctrl.Filtered(), m.cursor, m.ctrl.Filter())
	writeSummary(&b, m.styles, m.ctrl)
	if m.notice != "" {
		b.WriteString(m.styles.Notice.Render(m.notice) + "\n")
	}
	writeFooter(&b, m.styles, m.mode, m.themes.Mode())
	return b.String()
}

func writeTitle(b *strings.Builder, s theme.Styles) {
	b.WriteString(s.Title.Render("todos") + "\n")
}

func writeTasks(b *strings.Builder, s theme.Styles, tasks []todo.Task, cursor int, filter todo.Filter) {
	if len(tasks) == 0 {
		b.WriteString(s.Placeholder.Render(emptyMessage(filter)) + "\n\n")
		return
	}
	for i, t := range tasks {
		b.WriteString(formatTask(s, t, i == cursor) + "\n")
	}
	b.WriteString("\n")
}

func emptyMessage(filter todo.Filter) string {
	switch filter {
	case todo.FilterActive:
		return "  Nothing left to do."
	case todo.FilterCompleted:
		return "  No completed tasks."
	default:
		return "  No tasks yet. Press a to add one."
	}
}

func formatTask(s theme.Styles, t todo.Task, selected bool) string {
	pointer := "  "
	if selected {
		pointer = "> "
	}
	box := "[ ]"
	text := s.Task.Render(t.Text)
	if t.Completed {
		box = "[x]"
		text = s.Completed.Render(t.Text)
	}
	line := fmt.Sprintf("%s%s %s", pointer, box, text)
	if selected {
		return s.Selected.Render(line)
	}
	return line
}

func writeSummary(b *strings.Builder, s theme.Styles, ctrl *todo.Controller) {
	left := itemsLeft(ctrl.ActiveCount())

	tabs := make([]string, 0, 3)
	for _, f := range todo.Filters() {
		label := filterLabel(f)
		if f == ctrl.Filter() {
			tabs = append(tabs, s.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, s.Filter.Render(label))
		}
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top, s.Help.Render(left+"  "), lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	if n := ctrl.CompletedCount(); n > 0 {
		line += s.Help.Render(fmt.Sprintf("  c: clear completed (%d)", n))
	}
	b.WriteString(line + "\n")
}

// itemsLeft formats the active count as "1 item left" or "N items left".
func itemsLeft(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", n)
}

func filterLabel(f todo.Filter) string {
	switch f {
	case todo.FilterActive:
		return "2 Active"
	case todo.FilterCompleted:
		return "3 Completed"
	default:
		return "1 All"
	}
}

func writeHelp(b *strings.Builder, s theme.Styles, keys keyMap) {
	b.WriteString("Keyboard Shortcuts\n\n")
	for _, binding := range keys.helpRows() {
		h := binding.Help()
		b.WriteString(s.Help.Render(fmt.Sprintf("  %-12s %s", h.Key, h.Desc)) + "\n")
	}
	b.WriteString("\n")
}

func writeFooter(b *strings.Builder, s theme.Styles, m mode, current theme.Mode) {
	var text string
	switch m {
	case modeAdd:
		text = "enter add | esc done"
	case modeEdit:
		text = "enter save (empty deletes) | esc cancel"
	case modeHelp:
		text = "Press any key to return"
	default:
		text = fmt.Sprintf("Press ? for help | t theme (%s) | q to quit", current)
	}
	b.WriteString(s.Footer.Render(text) + "\n")
}
