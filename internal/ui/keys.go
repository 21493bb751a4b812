package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the dashboard's keyboard bindings. Printable keys that
// match nothing here are typed into the input line.
type keyMap struct {
	// Input line
	Submit      key.Binding
	Backspace   key.Binding
	HistoryPrev key.Binding
	HistoryNext key.Binding
	Find        key.Binding

	// Log viewport
	LineUp      key.Binding
	LineDown    key.Binding
	HalfPageUp  key.Binding
	HalfPageDn  key.Binding
	Top         key.Binding
	Bottom      key.Binding
	ScrollLeft  key.Binding
	ScrollRight key.Binding
	LineStart   key.Binding
	LineEnd     key.Binding

	// Global
	Redraw  key.Binding
	Keycode key.Binding
	Exit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Send utterance or command"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("backspace", "Delete character"),
		),
		HistoryPrev: key.NewBinding(
			key.WithKeys("ctrl+p", "ctrl+left"),
			key.WithHelp("ctrl+p", "Previous utterance"),
		),
		HistoryNext: key.NewBinding(
			key.WithKeys("ctrl+n", "ctrl+right"),
			key.WithHelp("ctrl+n", "Next utterance"),
		),
		Find: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "Find in log"),
		),

		LineUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "Scroll log back"),
		),
		LineDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "Scroll log forward"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Half page back"),
		),
		HalfPageDn: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "Half page forward"),
		),
		Top: key.NewBinding(
			key.WithKeys("ctrl+t", "ctrl+pgup"),
			key.WithHelp("ctrl+t", "Oldest log line"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("ctrl+b", "ctrl+pgdown"),
			key.WithHelp("ctrl+b", "Newest log line"),
		),
		ScrollLeft: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "Scroll long lines"),
		),
		ScrollRight: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "Scroll long lines back"),
		),
		LineStart: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "Start of long lines"),
		),
		LineEnd: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "End of long lines"),
		),

		Redraw: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Redraw screen"),
		),
		Keycode: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "Toggle keycode display"),
		),
		Exit: key.NewBinding(
			key.WithKeys("ctrl+x", "ctrl+c"),
			key.WithHelp("ctrl+x", "End search, cancel command or exit"),
		),
	}
}
