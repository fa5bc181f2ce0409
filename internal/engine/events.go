package engine

import (
	"time"

	"github.com/xolan/pomidor/internal/session"
)

// State is the engine's current mode.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// EventType identifies an engine event.
type EventType string

const (
	// EventTick carries the refreshed countdown.
	EventTick EventType = "tick"
	// EventCompleted fires when a countdown reaches zero.
	EventCompleted EventType = "completed"
	// EventInterrupted fires on stop or when a start supersedes a timer.
	EventInterrupted EventType = "interrupted"
	EventPaused      EventType = "paused"
	EventResumed     EventType = "resumed"
	// EventDisplay fires when the status display is toggled.
	EventDisplay EventType = "display"
	// EventCleared tells adapters to remove the rendered status text.
	EventCleared EventType = "cleared"
	// EventStorageError reports a failed write that had no caller to return to.
	EventStorageError EventType = "storage_error"
)

// Severity of a notification.
type Severity string

const SeverityInfo Severity = "info"

// CompletionMessage is the notification body for a finished timer.
const CompletionMessage = "Timer Complete!"

// Notification is what adapters should pop up when a timer completes.
type Notification struct {
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	Severity Severity      `json:"severity"`
	Duration time.Duration `json:"duration"`
}

// Event is an engine update for presentation adapters.
type Event struct {
	Type           EventType
	State          State
	Remaining      int // seconds
	Label          string
	DisplayEnabled bool
	Session        *session.Session
	Notification   *Notification
	Err            error
	At             time.Time
}

// Status is a read-only copy of the live timer.
type Status struct {
	State            State  `json:"state"`
	RemainingSeconds int    `json:"remaining_seconds"`
	InitialMinutes   int    `json:"initial_minutes"`
	Label            string `json:"label"`
	DisplayEnabled   bool   `json:"display_enabled"`
}
