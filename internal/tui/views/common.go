package views

import (
	"fmt"
	"strings"

	"github.com/xolan/pomidor/internal/cli"
	"github.com/xolan/pomidor/internal/storage"
	"github.com/xolan/pomidor/internal/tui/ui"
)

// RenderDayGroups renders the history listing with one block per day.
func RenderDayGroups(groups []storage.DayGroup, styles ui.Styles) string {
	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.DateHeader.Render(g.Date))
		b.WriteString("\n")
		for _, s := range g.Sessions {
			status := styles.Completed.Render(fmt.Sprintf("%-11s", s.Status()))
			if !s.Completed {
				status = styles.Interrupted.Render(fmt.Sprintf("%-11s", s.Status()))
			}
			_, _ = fmt.Fprintf(&b, "  %s  %4s  %s  %s\n", s.Time, cli.FormatDuration(s.Duration), status, s.Label)
		}
		b.WriteString("  ")
		b.WriteString(styles.Summary.Render(cli.FormatSummary(g.Summary)))
		b.WriteString("\n")
	}
	return b.String()
}

func pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
