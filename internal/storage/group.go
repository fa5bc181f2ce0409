package storage

import (
	"sort"

	"github.com/xolan/pomidor/internal/session"
)

// Summary aggregates the sessions of one day.
type Summary struct {
	Completed        int `json:"completed" yaml:"completed"`
	Interrupted      int `json:"interrupted" yaml:"interrupted"`
	CompletedMinutes int `json:"completed_minutes" yaml:"completed_minutes"`
}

// DayGroup holds the sessions recorded on one calendar date.
type DayGroup struct {
	Date     string            `json:"date" yaml:"date"`
	Sessions []session.Session `json:"sessions" yaml:"sessions"`
	Summary  Summary           `json:"summary" yaml:"summary"`
}

// GroupedByDateDescending groups sessions by Date, newest date first.
// Sessions inside a group keep their insertion order. Dates are fixed-width
// ISO strings, so lexicographic order is chronological.
func GroupedByDateDescending(sessions []session.Session) []DayGroup {
	index := make(map[string]int)
	var groups []DayGroup

	for _, s := range sessions {
		i, ok := index[s.Date]
		if !ok {
			i = len(groups)
			index[s.Date] = i
			groups = append(groups, DayGroup{Date: s.Date})
		}

		g := &groups[i]
		g.Sessions = append(g.Sessions, s)
		if s.Completed {
			g.Summary.Completed++
			g.Summary.CompletedMinutes += s.Duration
		} else {
			g.Summary.Interrupted++
		}
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Date > groups[b].Date
	})

	if groups == nil {
		return []DayGroup{}
	}
	return groups
}

// LimitDays keeps only the first n groups. n <= 0 keeps everything.
func LimitDays(groups []DayGroup, n int) []DayGroup {
	if n <= 0 || n >= len(groups) {
		return groups
	}
	return groups[:n]
}
