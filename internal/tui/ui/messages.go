package ui

import "github.com/xolan/pomidor/internal/engine"

// ThemeChangedMsg is broadcast to all views when the theme changes.
type ThemeChangedMsg struct {
	ThemeName string
	Styles    Styles
}

// EngineEventMsg carries one event from the timer engine.
type EngineEventMsg struct {
	Event engine.Event
}

// HistoryChangedMsg is sent when the history file changes on disk.
type HistoryChangedMsg struct{}
