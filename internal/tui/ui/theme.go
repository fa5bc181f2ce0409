package ui

import (
	tint "github.com/lrstanley/bubbletint"
)

// DefaultTheme is used when the config names no theme or an unknown one.
const DefaultTheme = "dracula"

// ThemeProvider tracks the bubbletint palette the timer and history views
// are drawn with.
type ThemeProvider struct {
	registry *tint.Registry
	unknown  string
}

// NewThemeProvider selects the configured theme. An unknown name falls back
// to DefaultTheme and is remembered so the TUI can tell the user.
func NewThemeProvider(configured string) *ThemeProvider {
	tints := tint.DefaultTints()
	registry := tint.NewRegistry(findTint(tints, DefaultTheme), tints...)

	tp := &ThemeProvider{registry: registry}
	if configured != "" && !registry.SetTintID(configured) {
		tp.unknown = configured
	}
	return tp
}

// findTint returns the tint with the given ID, or the first tint.
func findTint(tints []tint.Tint, id string) tint.Tint {
	for _, t := range tints {
		if t.ID() == id {
			return t
		}
	}
	if len(tints) > 0 {
		return tints[0]
	}
	return nil
}

// UnknownTheme returns the configured theme name that could not be found,
// or "" when the configured theme is in use.
func (tp *ThemeProvider) UnknownTheme() string {
	return tp.unknown
}

// SetTheme switches to the named theme and reports whether it exists.
func (tp *ThemeProvider) SetTheme(name string) bool {
	if !tp.registry.SetTintID(name) {
		return false
	}
	tp.unknown = ""
	return true
}

// NextTheme cycles to the next theme and returns its ID, which is what
// gets saved as the theme setting.
func (tp *ThemeProvider) NextTheme() string {
	tp.registry.NextTint()
	tp.unknown = ""
	return tp.registry.ID()
}

// CurrentName returns the ID of the current theme.
func (tp *ThemeProvider) CurrentName() string {
	return tp.registry.ID()
}

// CurrentDisplayName returns the human-readable name of the current theme.
func (tp *ThemeProvider) CurrentDisplayName() string {
	return tp.registry.DisplayName()
}

// Styles returns the timer and history styles for the current theme.
func (tp *ThemeProvider) Styles() Styles {
	return NewStylesFromRegistry(tp.registry)
}
