// Package cli provides the CLI presentation layer for the pomidor application.
// It handles command-line output formatting and user interaction.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/xolan/pomidor/internal/engine"
	"github.com/xolan/pomidor/internal/session"
	"github.com/xolan/pomidor/internal/storage"
)

// History output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatDuration formats minutes as a human-readable string
// Examples: "30m", "2h", "1h 30m"
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// FormatCountdown renders remaining seconds as MM:SS. Minutes are not
// wrapped into hours, so 90 minutes is "90:00".
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatStatusLine is the one-line status text, e.g. "25:00 Focus".
// It is empty when the engine is idle.
func FormatStatusLine(st engine.Status) string {
	if st.State == engine.StateIdle {
		return ""
	}
	line := FormatCountdown(st.RemainingSeconds) + " " + st.Label
	if st.State == engine.StatePaused {
		line += " (paused)"
	}
	return line
}

// FormatSession renders one history row: "14:05  25m  completed  Focus".
func FormatSession(s session.Session) string {
	return fmt.Sprintf("%s  %4s  %-11s  %s", s.Time, FormatDuration(s.Duration), s.Status(), s.Label)
}

// FormatSummary renders a day's totals.
func FormatSummary(sum storage.Summary) string {
	return fmt.Sprintf("%d completed (%s), %d interrupted",
		sum.Completed, FormatDuration(sum.CompletedMinutes), sum.Interrupted)
}

var (
	dateStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	summaryStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	interruptedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

// RenderHistoryText writes groups as a date-grouped listing, newest first.
func RenderHistoryText(w io.Writer, groups []storage.DayGroup) {
	if len(groups) == 0 {
		_, _ = fmt.Fprintln(w, "No sessions recorded yet")
		return
	}

	for i, g := range groups {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintln(w, dateStyle.Render(g.Date))
		for _, s := range g.Sessions {
			row := FormatSession(s)
			if !s.Completed {
				row = interruptedStyle.Render(row)
			}
			_, _ = fmt.Fprintf(w, "  %s\n", row)
		}
		_, _ = fmt.Fprintf(w, "  %s\n", summaryStyle.Render(strings.TrimSpace(FormatSummary(g.Summary))))
	}
}

// WriteHistory writes groups in the given format. An empty log encodes as
// an empty list rather than null.
func WriteHistory(w io.Writer, groups []storage.DayGroup, format string) error {
	if groups == nil {
		groups = []storage.DayGroup{}
	}
	switch format {
	case FormatText, "":
		RenderHistoryText(w, groups)
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(groups)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(groups); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (use %s, %s or %s)", format, FormatText, FormatJSON, FormatYAML)
	}
}
