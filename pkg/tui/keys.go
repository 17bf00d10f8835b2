package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Right   key.Binding
	Left    key.Binding
	Tab     key.Binding
	Delete  key.Binding
	Reload  key.Binding
	Layout  key.Binding
	Quit    key.Binding
	Confirm key.Binding
	Yes     key.Binding
	No      key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Right:   key.NewBinding(key.WithKeys("right", "l", "enter"), key.WithHelp("→", "open")),
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "back")),
	Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "recordings/documents")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Layout:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "layout")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Yes:     key.NewBinding(key.WithKeys("y")),
	No:      key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("esc", "cancel")),
}

// ShortHelp is the footer line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Right, k.Left, k.Tab, k.Delete, k.Reload, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Layout, k.Confirm, k.No}}
}
