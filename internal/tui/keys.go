package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Tab     key.Binding
	Enter   key.Binding
	Add     key.Binding
	Toggle  key.Binding
	Delete  key.Binding
	Project key.Binding
	Theme   key.Binding
	Logout  key.Binding
	Quit    key.Binding
	Escape  key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
	Toggle:  key.NewBinding(key.WithKeys("x", " "), key.WithHelp("x", "toggle done")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Project: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "new project")),
	Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle theme")),
	Logout:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}
