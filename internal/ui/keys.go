package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add            key.Binding
	Submit         key.Binding
	Cancel         key.Binding
	Up             key.Binding
	Down           key.Binding
	Toggle         key.Binding
	Edit           key.Binding
	Delete         key.Binding
	ClearCompleted key.Binding
	FilterAll      key.Binding
	FilterActive   key.Binding
	FilterDone     key.Binding
	Theme          key.Binding
	Help           key.Binding
	Quit           key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Add:            key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a, n", "add task")),
		Submit:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up, k", "move up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down, j", "move down")),
		Toggle:         key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space, x", "toggle done")),
		Edit:           key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit task")),
		Delete:         key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d, del", "delete task")),
		ClearCompleted: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed")),
		FilterAll:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "show all")),
		FilterActive:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "show active")),
		FilterDone:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "show completed")),
		Theme:          key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle theme")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q, ctrl+c", "quit")),
	}
}

// helpRows lists the bindings shown on the help screen, in order.
func (k keyMap) helpRows() []key.Binding {
	return []key.Binding{
		k.Add, k.Submit, k.Cancel, k.Up, k.Down, k.Toggle, k.Edit, k.Delete,
		k.ClearCompleted, k.FilterAll, k.FilterActive, k.FilterDone, k.Theme,
		k.Help, k.Quit,
	}
}
