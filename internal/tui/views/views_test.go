package views

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/pomidor/internal/engine"
	"github.com/xolan/pomidor/internal/session"
	"github.com/xolan/pomidor/internal/storage"
	"github.com/xolan/pomidor/internal/tui/ui"
)

type startCall struct {
	minutes int
	label   string
}

// fakeController records commands and reports a fixed status.
type fakeController struct {
	status   engine.Status
	starts   []startCall
	stops    int
	toggles  int
	displays int
	err      error
}

func (f *fakeController) Start(minutes int, label string) error {
	f.starts = append(f.starts, startCall{minutes, label})
	if f.err != nil {
		return f.err
	}
	f.status = engine.Status{State: engine.StateRunning, RemainingSeconds: minutes * 60, InitialMinutes: minutes, Label: label, DisplayEnabled: true}
	return nil
}

func (f *fakeController) Stop() error {
	f.stops++
	f.status = engine.Status{State: engine.StateIdle, DisplayEnabled: f.status.DisplayEnabled}
	return f.err
}

func (f *fakeController) Toggle() error {
	f.toggles++
	return f.err
}

func (f *fakeController) ToggleDisplay() error {
	f.displays++
	f.status.DisplayEnabled = !f.status.DisplayEnabled
	return f.err
}

func (f *fakeController) Status() engine.Status {
	return f.status
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTimerModel(ctrl *fakeController) TimerModel {
	return NewTimerModel(ctrl, 25, ui.DefaultStyles(), ui.DefaultKeyMap())
}

// typeInto sends each rune of s to the model as a key press.
func typeInto(m TimerModel, s string) TimerModel {
	for _, r := range s {
		m, _ = m.Update(keyRunes(string(r)))
	}
	return m
}

func TestParseStartInput(t *testing.T) {
	tests := []struct {
		input       string
		wantMinutes int
		wantLabel   string
		wantErr     bool
	}{
		{"", 25, "", false},
		{"   ", 25, "", false},
		{"5", 5, "", false},
		{"50 deep work", 50, "deep work", false},
		{"  10   tea  break ", 10, "tea break", false},
		{"0", 0, "", true},
		{"-3 x", 0, "", true},
		{"abc", 0, "", true},
		{"2.5", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			minutes, label, err := parseStartInput(tt.input, 25)
			if tt.wantErr {
				if !engine.IsUsage(err) {
					t.Errorf("expected usage error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseStartInput() returned error: %v", err)
			}
			if minutes != tt.wantMinutes || label != tt.wantLabel {
				t.Errorf("expected (%d, %q), got (%d, %q)", tt.wantMinutes, tt.wantLabel, minutes, label)
			}
		})
	}
}

func TestTimerModel_StartPrompt(t *testing.T) {
	ctrl := &fakeController{status: engine.Status{State: engine.StateIdle, DisplayEnabled: true}}
	m := newTimerModel(ctrl)

	m, _ = m.Update(keyRunes("s"))
	if !m.IsInputMode() {
		t.Fatal("expected input mode after 's'")
	}

	m = typeInto(m, "15 Review")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.IsInputMode() {
		t.Error("expected input mode to end after enter")
	}
	if cmd == nil {
		t.Fatal("expected a start command")
	}
	m, _ = m.Update(cmd())

	if len(ctrl.starts) != 1 || ctrl.starts[0] != (startCall{15, "Review"}) {
		t.Errorf("unexpected starts: %+v", ctrl.starts)
	}
	if !strings.Contains(m.View(), "15:00") {
		t.Errorf("expected countdown in view, got %q", m.View())
	}
}

func TestTimerModel_StartPromptInvalid(t *testing.T) {
	ctrl := &fakeController{status: engine.Status{State: engine.StateIdle, DisplayEnabled: true}}
	m := newTimerModel(ctrl)

	m, _ = m.Update(keyRunes("s"))
	m = typeInto(m, "soon")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Error("expected no command for invalid input")
	}
	if !m.IsInputMode() {
		t.Error("expected to stay in input mode")
	}
	if len(ctrl.starts) != 0 {
		t.Error("expected engine not to be started")
	}
	if !strings.Contains(m.View(), "invalid minutes") {
		t.Errorf("expected error in view, got %q", m.View())
	}
}

func TestTimerModel_StartPromptEscape(t *testing.T) {
	ctrl := &fakeController{status: engine.Status{State: engine.StateIdle, DisplayEnabled: true}}
	m := newTimerModel(ctrl)

	m, _ = m.Update(keyRunes("s"))
	m = typeInto(m, "5")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if m.IsInputMode() {
		t.Error("expected input mode to end after esc")
	}
	if cmd != nil || len(ctrl.starts) != 0 {
		t.Error("expected escape not to start a timer")
	}
}

func TestTimerModel_IdleKeysIgnored(t *testing.T) {
	ctrl := &fakeController{status: engine.Status{State: engine.StateIdle, DisplayEnabled: true}}
	m := newTimerModel(ctrl)

	for _, k := range []string{"x", "p"} {
		_, cmd := m.Update(keyRunes(k))
		if cmd != nil {
			t.Errorf("expected %q to do nothing while idle", k)
		}
	}
	if !strings.Contains(m.View(), "No timer running") {
		t.Errorf("expected idle view, got %q", m.View())
	}
}

func TestTimerModel_Commands(t *testing.T) {
	ctrl := &fakeController{status: engine.Status{State: engine.StateRunning, RemainingSeconds: 600, InitialMinutes: 10, Label: "Focus", DisplayEnabled: true}}
	m := newTimerModel(ctrl)

	_, cmd := m.Update(keyRunes("p"))
	m, _ = m.Update(cmd())
	if ctrl.toggles != 1 {
		t.Errorf("expected 1 toggle, got %d", ctrl.toggles)
	}

	_, cmd = m.Update(keyRunes("d"))
	m, _ = m.Update(cmd())
	if ctrl.displays != 1 {
		t.Errorf("expected 1 display toggle, got %d", ctrl.displays)
	}
	if !strings.Contains(m.View(), "Countdown hidden") {
		t.Errorf("expected hidden countdown, got %q", m.View())
	}

	_, cmd = m.Update(keyRunes("x"))
	m, _ = m.Update(cmd())
	if ctrl.stops != 1 {
		t.Errorf("expected 1 stop, got %d", ctrl.stops)
	}
	if m.Status().State != engine.StateIdle {
		t.Errorf("expected idle status after stop, got %s", m.Status().State)
	}
}

func TestTimerModel_CommandError(t *testing.T) {
	ctrl := &fakeController{
		status: engine.Status{State: engine.StateRunning, RemainingSeconds: 60, InitialMinutes: 1, Label: "A", DisplayEnabled: true},
		err:    errors.New("disk full"),
	}
	m := newTimerModel(ctrl)

	_, cmd := m.Update(keyRunes("p"))
	m, _ = m.Update(cmd())

	if !strings.Contains(m.View(), "Error: disk full") {
		t.Errorf("expected error in view, got %q", m.View())
	}
}

func TestTimerModel_PausedView(t *testing.T) {
	ctrl := &fakeController{status: engine.Status{State: engine.StatePaused, RemainingSeconds: 125, InitialMinutes: 5, Label: "Read", DisplayEnabled: true}}
	m := newTimerModel(ctrl)

	view := m.View()
	for _, want := range []string{"02:05", "paused", "Read", "5m"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view, got %q", want, view)
		}
	}
}

func TestTimerModel_CompletionBanner(t *testing.T) {
	ctrl := &fakeController{status: engine.Status{State: engine.StateIdle, DisplayEnabled: true}}
	m := newTimerModel(ctrl)

	m, cmd := m.Update(ui.EngineEventMsg{Event: engine.Event{
		Type:  engine.EventCompleted,
		State: engine.StateIdle,
		Notification: &engine.Notification{
			Title:    "Focus",
			Message:  engine.CompletionMessage,
			Duration: time.Millisecond,
		},
	}})
	if m.Banner() != engine.CompletionMessage {
		t.Fatalf("expected banner %q, got %q", engine.CompletionMessage, m.Banner())
	}
	if !strings.Contains(m.View(), engine.CompletionMessage) {
		t.Errorf("expected banner in view, got %q", m.View())
	}
	if cmd == nil {
		t.Fatal("expected a banner expiry command")
	}

	m, _ = m.Update(cmd())
	if m.Banner() != "" {
		t.Errorf("expected banner to expire, got %q", m.Banner())
	}
}

func TestTimerModel_StaleBannerExpiry(t *testing.T) {
	ctrl := &fakeController{status: engine.Status{State: engine.StateIdle, DisplayEnabled: true}}
	m := newTimerModel(ctrl)

	completed := ui.EngineEventMsg{Event: engine.Event{
		Type:         engine.EventCompleted,
		Notification: &engine.Notification{Message: engine.CompletionMessage, Duration: time.Millisecond},
	}}
	m, first := m.Update(completed)
	m, _ = m.Update(completed)

	m, _ = m.Update(first())
	if m.Banner() == "" {
		t.Error("expected the second banner to survive the first expiry")
	}
}

func TestTimerModel_StorageErrorEvent(t *testing.T) {
	ctrl := &fakeController{status: engine.Status{State: engine.StateRunning, RemainingSeconds: 60, InitialMinutes: 1, Label: "A", DisplayEnabled: true}}
	m := newTimerModel(ctrl)

	m, _ = m.Update(ui.EngineEventMsg{Event: engine.Event{
		Type: engine.EventStorageError,
		Err:  errors.New("write snapshot: permission denied"),
	}})

	if !strings.Contains(m.View(), "permission denied") {
		t.Errorf("expected storage error in view, got %q", m.View())
	}
}

func testGroups() []storage.DayGroup {
	at := func(day, hour int) time.Time { return time.Date(2024, 1, day, hour, 0, 0, 0, time.Local) }
	return storage.GroupedByDateDescending([]session.Session{
		session.New(at(14, 9), 25, "Morning", true),
		session.New(at(15, 10), 25, "Focus", true),
		session.New(at(15, 11), 50, "Deep work", false),
	})
}

func newHistoryModel(load HistoryLoader) HistoryModel {
	m := NewHistoryModel(load, ui.DefaultStyles(), ui.DefaultKeyMap())
	m.SetSize(80, 30)
	return m
}

func TestHistoryModel_Load(t *testing.T) {
	m := newHistoryModel(func() ([]storage.DayGroup, error) { return testGroups(), nil })

	if !strings.Contains(m.View(), "Loading...") {
		t.Errorf("expected loading view, got %q", m.View())
	}

	m, _ = m.Update(m.Init()())

	view := m.View()
	for _, want := range []string{"History (2 days)", "2024-01-15", "2024-01-14", "Deep work", "interrupted", "1 completed (25m), 1 interrupted"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view, got %q", want, view)
		}
	}
	if strings.Index(view, "2024-01-15") > strings.Index(view, "2024-01-14") {
		t.Error("expected newest day first")
	}
}

func TestHistoryModel_Empty(t *testing.T) {
	m := newHistoryModel(func() ([]storage.DayGroup, error) { return []storage.DayGroup{}, nil })

	m, _ = m.Update(m.Init()())

	if !strings.Contains(m.View(), "No sessions recorded yet") {
		t.Errorf("expected empty message, got %q", m.View())
	}
}

func TestHistoryModel_Error(t *testing.T) {
	m := newHistoryModel(func() ([]storage.DayGroup, error) {
		return nil, &storage.ParseError{Path: "history.json", Err: errors.New("unexpected end of JSON input")}
	})

	m, _ = m.Update(m.Init()())

	if !strings.Contains(m.View(), "Error:") {
		t.Errorf("expected error in view, got %q", m.View())
	}
}

func TestHistoryModel_Reloads(t *testing.T) {
	m := newHistoryModel(func() ([]storage.DayGroup, error) { return testGroups(), nil })

	tests := []struct {
		name     string
		msg      tea.Msg
		wantLoad bool
	}{
		{"file changed", ui.HistoryChangedMsg{}, true},
		{"completed", ui.EngineEventMsg{Event: engine.Event{Type: engine.EventCompleted}}, true},
		{"interrupted", ui.EngineEventMsg{Event: engine.Event{Type: engine.EventInterrupted}}, true},
		{"tick", ui.EngineEventMsg{Event: engine.Event{Type: engine.EventTick}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cmd := m.Update(tt.msg)
			if (cmd != nil) != tt.wantLoad {
				t.Errorf("expected reload=%v, got command %v", tt.wantLoad, cmd != nil)
			}
		})
	}
}
