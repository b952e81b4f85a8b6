package types

import "github.com/charmbracelet/bubbles/key"

// KeyMap is the picker's key bindings, shared by the mode handlers and the
// help views
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Top       key.Binding
	Bottom    key.Binding
	Pane      key.Binding
	Expand    key.Binding
	Collapse  key.Binding
	Toggle    key.Binding
	SelectAll key.Binding
	Wildcard  key.Binding
	Root      key.Binding
	Filter    key.Binding
	Retry     key.Binding
	Save      key.Binding
	Cancel    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the standard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:       key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:    key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Pane:      key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch pane")),
		Expand:    key.NewBinding(key.WithKeys("enter", "right", "l"), key.WithHelp("enter/→", "expand")),
		Collapse:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "collapse")),
		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		SelectAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all in branch")),
		Wildcard:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "whole scope")),
		Root:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "country")),
		Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Retry:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Save:      key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Cancel:    key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc/q", "cancel")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.SelectAll, k.Wildcard, k.Save, k.Cancel, k.Help}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Pane},
		{k.Expand, k.Collapse, k.Toggle, k.SelectAll, k.Wildcard},
		{k.Root, k.Filter, k.Retry, k.Save, k.Cancel, k.Help},
	}
}
