package ui

import (
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
)

// Styles contains all the styles used in the TUI
type Styles struct {
	App lipgloss.Style

	// Tab bar
	TabBar      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	ViewTitle lipgloss.Style
	StatusBar lipgloss.Style

	// Timer
	Countdown       lipgloss.Style
	CountdownPaused lipgloss.Style
	TimerLabel      lipgloss.Style
	TimerIdle       lipgloss.Style
	Banner          lipgloss.Style

	// History
	DateHeader  lipgloss.Style
	Completed   lipgloss.Style
	Interrupted lipgloss.Style
	Summary     lipgloss.Style

	Label lipgloss.Style
	Muted lipgloss.Style

	Input lipgloss.Style

	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
}

// palette is the set of semantic colors a Styles is built from.
type palette struct {
	primary, secondary, accent, muted    lipgloss.TerminalColor
	success, warning, errorColor, fg, bg lipgloss.TerminalColor
}

// DefaultStyles returns styles using the 256-color palette, for terminals
// where no theme is loaded.
func DefaultStyles() Styles {
	return newStyles(palette{
		primary:    lipgloss.Color("99"),
		secondary:  lipgloss.Color("39"),
		accent:     lipgloss.Color("212"),
		muted:      lipgloss.Color("240"),
		success:    lipgloss.Color("82"),
		warning:    lipgloss.Color("214"),
		errorColor: lipgloss.Color("196"),
		fg:         lipgloss.Color("252"),
		bg:         lipgloss.Color("236"),
	})
}

// NewStylesFromRegistry creates a Styles struct using colors from a bubbletint registry.
// Purple is the primary color (tabs, titles), cyan the secondary (dates, keys),
// bright purple the accent (the countdown) and bright black the muted one.
func NewStylesFromRegistry(r *tint.Registry) Styles {
	return newStyles(palette{
		primary:    r.Purple(),
		secondary:  r.Cyan(),
		accent:     r.BrightPurple(),
		muted:      r.BrightBlack(),
		success:    r.Green(),
		warning:    r.Yellow(),
		errorColor: r.Red(),
		fg:         r.Fg(),
		bg:         r.Bg(),
	})
}

func newStyles(p palette) Styles {
	return Styles{
		App: lipgloss.NewStyle().Padding(1, 2),

		TabBar: lipgloss.NewStyle().
			MarginBottom(1).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.muted),
		TabActive: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			Padding(0, 2),
		TabInactive: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 2),

		ViewTitle: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			MarginBottom(1),
		StatusBar: lipgloss.NewStyle().
			Foreground(p.fg).
			Background(p.bg).
			Padding(0, 1),

		Countdown: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true).
			Padding(0, 1),
		CountdownPaused: lipgloss.NewStyle().
			Foreground(p.muted).
			Bold(true).
			Padding(0, 1),
		TimerLabel: lipgloss.NewStyle().
			Foreground(p.fg),
		TimerIdle: lipgloss.NewStyle().
			Foreground(p.muted),
		Banner: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.success).
			Foreground(p.success).
			Bold(true).
			Padding(0, 2),

		DateHeader: lipgloss.NewStyle().
			Foreground(p.secondary).
			Bold(true),
		Completed: lipgloss.NewStyle().
			Foreground(p.success),
		Interrupted: lipgloss.NewStyle().
			Foreground(p.warning),
		Summary: lipgloss.NewStyle().
			Foreground(p.muted),

		Label: lipgloss.NewStyle().
			Foreground(p.muted).
			Width(12),
		Muted: lipgloss.NewStyle().
			Foreground(p.muted),

		Input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.primary).
			Padding(0, 1),

		Error: lipgloss.NewStyle().
			Foreground(p.errorColor),
		Warning: lipgloss.NewStyle().
			Foreground(p.warning),
		Success: lipgloss.NewStyle().
			Foreground(p.success),
	}
}
