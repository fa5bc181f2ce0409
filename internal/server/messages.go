package server

import (
	"time"

	"github.com/xolan/pomidor/internal/engine"
	"github.com/xolan/pomidor/internal/session"
)

// StartRequest is the body of POST /timer/start.
type StartRequest struct {
	Minutes int    `json:"minutes"`
	Label   string `json:"label"`
}

// CommandResponse is returned by every timer command. Warning is set when
// the command took effect but a history or snapshot write failed.
type CommandResponse struct {
	Status  engine.Status `json:"status"`
	Warning string        `json:"warning,omitempty"`
}

// EventMessage is one engine event on the /ws stream.
type EventMessage struct {
	Type           engine.EventType     `json:"type"`
	State          engine.State         `json:"state"`
	Remaining      int                  `json:"remaining_seconds"`
	Label          string               `json:"label,omitempty"`
	DisplayEnabled bool                 `json:"display_enabled"`
	Session        *session.Session     `json:"session,omitempty"`
	Notification   *engine.Notification `json:"notification,omitempty"`
	Error          string               `json:"error,omitempty"`
	At             time.Time            `json:"at"`
}

// NewEventMessage converts an engine event for the wire.
func NewEventMessage(ev engine.Event) EventMessage {
	msg := EventMessage{
		Type:           ev.Type,
		State:          ev.State,
		Remaining:      ev.Remaining,
		Label:          ev.Label,
		DisplayEnabled: ev.DisplayEnabled,
		Session:        ev.Session,
		Notification:   ev.Notification,
		At:             ev.At,
	}
	if ev.Err != nil {
		msg.Error = ev.Err.Error()
	}
	return msg
}

type errorResponse struct {
	Error string `json:"error"`
}
