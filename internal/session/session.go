// Package session defines the history record written when a timer ends.
package session

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DateLayout is the fixed-width calendar date format stored in history.
	DateLayout = "2006-01-02"
	// TimeLayout is the minute-resolution clock time stored in history.
	TimeLayout = "15:04"
	// DefaultLabel is used when a timer is started without a label.
	DefaultLabel = "Pomidor"
)

// Session is one historical record of a timer run, completed or interrupted.
// Sessions are immutable once created.
type Session struct {
	Date      string `json:"date" yaml:"date"`
	Time      string `json:"time" yaml:"time"`
	Duration  int    `json:"duration" yaml:"duration"`
	Label     string `json:"label" yaml:"label"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// New builds a session stamped with the given wall-clock time.
func New(at time.Time, durationMinutes int, label string, completed bool) Session {
	return Session{
		Date:      at.Format(DateLayout),
		Time:      at.Format(TimeLayout),
		Duration:  durationMinutes,
		Label:     label,
		Completed: completed,
	}
}

// Timestamp parses Date and Time back into a local time.
func (s Session) Timestamp() (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, s.Date+" "+s.Time, time.Local)
}

// Validate reports whether the session could have been produced by the engine.
func (s Session) Validate() error {
	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return fmt.Errorf("invalid date %q: %w", s.Date, err)
	}
	if _, err := time.Parse(TimeLayout, s.Time); err != nil {
		return fmt.Errorf("invalid time %q: %w", s.Time, err)
	}
	if s.Duration <= 0 {
		return errors.New("duration must be positive")
	}
	return nil
}

// Status returns "completed" or "interrupted".
func (s Session) Status() string {
	if s.Completed {
		return "completed"
	}
	return "interrupted"
}
