package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap contains all key bindings for the TUI
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// View navigation
	NextTab key.Binding
	Timer   key.Binding
	History key.Binding

	// Actions
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
	Help   key.Binding
	Theme  key.Binding

	// Timer-specific
	Start   key.Binding
	Stop    key.Binding
	Toggle  key.Binding
	Display key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),

		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch view"),
		),
		Timer: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "timer"),
		),
		History: key.NewBinding(
			key.WithKeys("h", "2"),
			key.WithHelp("h", "history"),
		),

		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "next theme"),
		),

		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space/p", "pause/resume"),
		),
		Display: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "show/hide"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Toggle, k.History, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.Toggle, k.Display},
		{k.NextTab, k.Timer, k.History, k.Up, k.Down},
		{k.Theme, k.Help, k.Quit},
	}
}

// InputKeyMap is shown while the start prompt has focus.
type InputKeyMap struct {
	Select key.Binding
	Back   key.Binding
}

// ShortHelp implements help.KeyMap.
func (k InputKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Back}
}

// FullHelp implements help.KeyMap.
func (k InputKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// Input returns the bindings active in the start prompt.
func (k KeyMap) Input() InputKeyMap {
	return InputKeyMap{Select: k.Select, Back: k.Back}
}
