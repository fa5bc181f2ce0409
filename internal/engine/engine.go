// Package engine implements the single-active-timer state machine.
//
// An Engine counts down one timer at a time, writes a snapshot of the live
// timer after every transition and at every minute boundary, and appends a
// session to history whenever a timer completes or is interrupted.
// Commands and ticks are serialized by the engine's mutex.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/xolan/pomidor/internal/clock"
	"github.com/xolan/pomidor/internal/session"
	"github.com/xolan/pomidor/internal/snapshot"
	"github.com/xolan/pomidor/internal/storage"
)

const (
	// DefaultTickInterval is the countdown cadence.
	DefaultTickInterval = time.Second
	// DefaultNotificationDuration is how long adapters should show the
	// completion notification.
	DefaultNotificationDuration = 10 * time.Second
	// checkpointEvery is the number of seconds between snapshot checkpoints
	// while ticking.
	checkpointEvery = 60
)

// Config contains runtime options for the Engine.
type Config struct {
	TickInterval         time.Duration
	DefaultLabel         string
	DisplayEnabled       bool
	NotificationDuration time.Duration
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		TickInterval:         DefaultTickInterval,
		DefaultLabel:         session.DefaultLabel,
		DisplayEnabled:       true,
		NotificationDuration: DefaultNotificationDuration,
	}
}

// Deps are the collaborators an Engine writes through to.
type Deps struct {
	History   storage.HistoryStore
	Snapshots snapshot.Store
	Scheduler clock.Scheduler
	Clock     clock.Clock
	Logger    *slog.Logger
}

// Engine is the timer state machine. Create it with New.
type Engine struct {
	mu        sync.Mutex
	config    Config
	history   storage.HistoryStore
	snapshots snapshot.Store
	scheduler clock.Scheduler
	clock     clock.Clock
	logger    *slog.Logger

	remaining int // seconds
	initial   int // minutes
	label     string
	running   bool
	display   bool

	// clockGen identifies the live schedule; ticks from older schedules
	// are dropped.
	clockGen uint64
	events   []chan Event
	closed   bool
}

// New creates an idle Engine.
func New(config Config, deps Deps) *Engine {
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultTickInterval
	}
	if config.NotificationDuration <= 0 {
		config.NotificationDuration = DefaultNotificationDuration
	}
	if deps.Scheduler == nil {
		deps.Scheduler = clock.NewTickerScheduler()
	}
	if deps.Clock == nil {
		deps.Clock = clock.SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &Engine{
		config:    config,
		history:   deps.History,
		snapshots: deps.Snapshots,
		scheduler: deps.Scheduler,
		clock:     deps.Clock,
		logger:    deps.Logger,
		display:   config.DisplayEnabled,
	}
}

// Subscribe registers a new observer channel. Sends never block; a full
// channel drops the event.
func (e *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		close(ch)
		return ch
	}
	e.events = append(e.events, ch)
	return ch
}

// Status returns a copy of the live timer.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statusLocked()
}

// Start begins a countdown of minutes. A timer that is already running or
// paused is first recorded as interrupted with its planned duration.
// An empty label falls back to the configured default.
func (e *Engine) Start(minutes int, label string) error {
	if minutes <= 0 {
		return &UsageError{Arg: "minutes", Value: strconv.Itoa(minutes), Reason: "must be a positive integer"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.startLocked(minutes, label)
}

func (e *Engine) startLocked(minutes int, label string) error {
	var errs []error
	if e.stateLocked() != StateIdle {
		errs = append(errs, e.interruptLocked())
	}

	e.remaining = minutes * 60
	e.initial = minutes
	e.label = session.NormalizeLabel(label, e.config.DefaultLabel)
	e.running = true
	e.startClockLocked()

	e.logger.Info("timer started", "minutes", minutes, "label", e.label)
	e.emitLocked(e.eventLocked(EventTick))
	errs = append(errs, e.writeSnapshotLocked())
	return errors.Join(errs...)
}

// Stop records the active timer as interrupted and returns to idle.
// Stop on an idle engine does nothing.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.stateLocked() == StateIdle {
		return nil
	}

	var errs []error
	errs = append(errs, e.interruptLocked())
	e.resetLocked()
	e.emitLocked(e.eventLocked(EventCleared))
	errs = append(errs, e.writeSnapshotLocked())
	return errors.Join(errs...)
}

// Toggle pauses a running timer or resumes a paused one. No history is
// recorded on pause. Toggle on an idle engine does nothing.
func (e *Engine) Toggle() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	switch e.stateLocked() {
	case StateRunning:
		e.cancelClockLocked()
		e.running = false
		e.logger.Info("timer paused", "remaining", e.remaining, "label", e.label)
		e.emitLocked(e.eventLocked(EventPaused))
	case StatePaused:
		e.running = true
		e.startClockLocked()
		e.logger.Info("timer resumed", "remaining", e.remaining, "label", e.label)
		e.emitLocked(e.eventLocked(EventResumed))
		e.emitLocked(e.eventLocked(EventTick))
	default:
		return nil
	}
	return e.writeSnapshotLocked()
}

// ToggleDisplay flips whether adapters should render the countdown. It has
// no effect on the countdown or on history.
func (e *Engine) ToggleDisplay() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	e.display = !e.display
	e.emitLocked(e.eventLocked(EventDisplay))
	return e.writeSnapshotLocked()
}

// Recover resumes the timer found in the snapshot store, if any. The
// remaining time is rounded up to whole minutes and restarted, so the
// recovered countdown can be up to 59 seconds longer than what was left.
// Call it once at startup, before accepting commands.
func (e *Engine) Recover() error {
	snap, err := e.snapshots.Read()
	if err != nil {
		return fmt.Errorf("recover timer: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	if snap.IsEmpty() {
		if snap.Display != nil && *snap.Display != e.display {
			e.display = *snap.Display
			e.emitLocked(e.eventLocked(EventDisplay))
		}
		return nil
	}
	active := *snap.Active

	minutes := (active.RemainingSeconds + 59) / 60
	e.logger.Info("recovering timer", "remaining", active.RemainingSeconds, "minutes", minutes, "label", active.Label)

	var errs []error
	errs = append(errs, e.startLocked(minutes, active.Label))
	if e.display != active.DisplayEnabled {
		e.display = active.DisplayEnabled
		e.emitLocked(e.eventLocked(EventDisplay))
		errs = append(errs, e.writeSnapshotLocked())
	}
	return errors.Join(errs...)
}

// History returns the recorded sessions grouped by date, newest first.
func (e *Engine) History() []storage.DayGroup {
	return storage.GroupedByDateDescending(e.history.Sessions())
}

// Close stops the clock, writes a final snapshot of an active timer and
// closes all subscriber channels. The timer is left in the snapshot so it
// can be recovered by the next process.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}

	e.cancelClockLocked()
	var err error
	if e.stateLocked() != StateIdle {
		err = e.writeSnapshotLocked()
	}

	e.closed = true
	for _, ch := range e.events {
		close(ch)
	}
	e.events = nil
	return err
}

func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || gen != e.clockGen || !e.running {
		return
	}

	if e.remaining > 0 {
		e.remaining--
		if e.remaining > 0 {
			e.emitLocked(e.eventLocked(EventTick))
			if e.remaining%checkpointEvery == 0 {
				e.reportLocked(e.writeSnapshotLocked())
			}
			return
		}
	}

	e.completeLocked()
}

func (e *Engine) completeLocked() {
	e.cancelClockLocked()
	e.running = false

	s := session.New(e.clock.Now(), e.initial, e.label, true)
	e.logger.Info("timer completed", "minutes", s.Duration, "label", s.Label)

	e.reportLocked(e.appendLocked(s))

	done := e.eventLocked(EventCompleted)
	done.Session = &s
	done.Notification = &Notification{
		Title:    s.Label,
		Message:  CompletionMessage,
		Severity: SeverityInfo,
		Duration: e.config.NotificationDuration,
	}
	e.resetLocked()
	done.State = StateIdle
	done.Remaining = 0
	e.emitLocked(done)
	e.emitLocked(e.eventLocked(EventCleared))

	e.reportLocked(e.writeSnapshotLocked())
}

// interruptLocked cancels the clock and records the active timer as
// interrupted. The recorded duration is the planned length, not the time
// actually spent.
func (e *Engine) interruptLocked() error {
	e.cancelClockLocked()
	e.running = false

	s := session.New(e.clock.Now(), e.initial, e.label, false)
	e.logger.Info("timer interrupted", "minutes", s.Duration, "label", s.Label, "remaining", e.remaining)

	ev := e.eventLocked(EventInterrupted)
	ev.Session = &s
	e.emitLocked(ev)
	return e.appendLocked(s)
}

func (e *Engine) appendLocked(s session.Session) error {
	if err := e.history.Append(s); err != nil {
		e.logger.Warn("history write failed", "error", err)
		return fmt.Errorf("record session: %w", err)
	}
	return nil
}

func (e *Engine) writeSnapshotLocked() error {
	snap := snapshot.Idle(e.display)
	if e.stateLocked() != StateIdle {
		snap = snapshot.Of(snapshot.ActiveTimer{
			RemainingSeconds: e.remaining,
			Label:            e.label,
			InitialMinutes:   e.initial,
			DisplayEnabled:   e.display,
		})
	}
	if err := e.snapshots.Write(snap); err != nil {
		e.logger.Warn("snapshot write failed", "error", err)
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// reportLocked surfaces a write failure from a tick, which has no caller.
func (e *Engine) reportLocked(err error) {
	if err == nil {
		return
	}
	ev := e.eventLocked(EventStorageError)
	ev.Err = err
	e.emitLocked(ev)
}

func (e *Engine) resetLocked() {
	e.remaining = 0
	e.initial = 0
	e.label = ""
	e.running = false
}

func (e *Engine) startClockLocked() {
	e.scheduler.Cancel()
	e.clockGen++
	gen := e.clockGen
	e.scheduler.Start(e.config.TickInterval, func() { e.tick(gen) })
}

func (e *Engine) cancelClockLocked() {
	e.clockGen++
	e.scheduler.Cancel()
}

func (e *Engine) stateLocked() State {
	switch {
	case e.running:
		return StateRunning
	case e.remaining > 0:
		return StatePaused
	default:
		return StateIdle
	}
}

func (e *Engine) statusLocked() Status {
	return Status{
		State:            e.stateLocked(),
		RemainingSeconds: e.remaining,
		InitialMinutes:   e.initial,
		Label:            e.label,
		DisplayEnabled:   e.display,
	}
}

func (e *Engine) eventLocked(t EventType) Event {
	return Event{
		Type:           t,
		State:          e.stateLocked(),
		Remaining:      e.remaining,
		Label:          e.label,
		DisplayEnabled: e.display,
		At:             e.clock.Now(),
	}
}

func (e *Engine) emitLocked(event Event) {
	for _, ch := range e.events {
		select {
		case ch <- event:
		default:
		}
	}
}
