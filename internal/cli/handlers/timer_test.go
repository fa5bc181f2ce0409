package handlers

import (
	"strings"
	"testing"

	"github.com/xolan/pomidor/internal/engine"
	"github.com/xolan/pomidor/internal/snapshot"
)

func TestStartTimer(t *testing.T) {
	env := newTestEnv(t, true)

	StartTimer(env.deps, []string{"25", "write", "report"})

	if *env.exitCode != 0 {
		t.Errorf("expected exit code 0, got %d (stderr %q)", *env.exitCode, env.stderr.String())
	}
	if !strings.Contains(env.stdout.String(), "Timer started: 25:00 write report") {
		t.Errorf("expected start message in output, got %q", env.stdout.String())
	}

	st := env.runtime.Engine.Status()
	if st.State != engine.StateRunning || st.Label != "write report" {
		t.Errorf("unexpected engine status: %+v", st)
	}
}

func TestStartTimer_DefaultLabel(t *testing.T) {
	env := newTestEnv(t, true)

	StartTimer(env.deps, []string{"5"})

	if !strings.Contains(env.stdout.String(), "05:00 Pomidor") {
		t.Errorf("expected default label in output, got %q", env.stdout.String())
	}
}

func TestStartTimer_InvalidMinutes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing", nil, "Missing minutes"},
		{"zero", []string{"0"}, "Invalid minutes '0'"},
		{"negative", []string{"-5"}, "Invalid minutes '-5'"},
		{"word", []string{"ten"}, "Invalid minutes 'ten'"},
		{"fraction", []string{"2.5"}, "Invalid minutes '2.5'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, true)

			StartTimer(env.deps, tt.args)

			if *env.exitCode != 1 {
				t.Errorf("expected exit code 1, got %d", *env.exitCode)
			}
			if !strings.Contains(env.stderr.String(), tt.want) {
				t.Errorf("expected %q in stderr, got %q", tt.want, env.stderr.String())
			}
			if env.runtime.Engine.Status().State != engine.StateIdle {
				t.Error("expected engine to stay idle")
			}
		})
	}
}

func TestStartTimer_NotRunning(t *testing.T) {
	deps, _, stderr, exitCode := setupTestDeps(t)

	StartTimer(deps, []string{"25"})

	if *exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", *exitCode)
	}
	if !strings.Contains(stderr.String(), "pomidor is not running") {
		t.Errorf("expected not running error, got %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "Hint:") {
		t.Errorf("expected hint, got %q", stderr.String())
	}
}

func TestStopTimer(t *testing.T) {
	env := newTestEnv(t, true)

	StartTimer(env.deps, []string{"15", "Review"})
	env.stdout.Reset()
	StopTimer(env.deps)

	if *env.exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", *env.exitCode)
	}
	if !strings.Contains(env.stdout.String(), "Stopped: Review (15m, recorded as interrupted)") {
		t.Errorf("expected stop message, got %q", env.stdout.String())
	}

	sessions, err := env.services.History.Sessions()
	if err != nil {
		t.Fatalf("Sessions() returned error: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Completed {
		t.Errorf("expected one interrupted session, got %+v", sessions)
	}
}

func TestStopTimer_Idle(t *testing.T) {
	env := newTestEnv(t, true)

	StopTimer(env.deps)

	if *env.exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", *env.exitCode)
	}
	if !strings.Contains(env.stdout.String(), "No timer running") {
		t.Errorf("expected 'No timer running', got %q", env.stdout.String())
	}
}

func TestToggleTimer(t *testing.T) {
	env := newTestEnv(t, true)

	StartTimer(env.deps, []string{"2", "A"})
	env.scheduler.FireN(10)
	env.stdout.Reset()

	ToggleTimer(env.deps)
	if !strings.Contains(env.stdout.String(), "Paused: 01:50 A (paused)") {
		t.Errorf("expected pause message, got %q", env.stdout.String())
	}

	env.stdout.Reset()
	ToggleTimer(env.deps)
	if !strings.Contains(env.stdout.String(), "Resumed: 01:50 A") {
		t.Errorf("expected resume message, got %q", env.stdout.String())
	}
}

func TestToggleTimer_Idle(t *testing.T) {
	env := newTestEnv(t, true)

	ToggleTimer(env.deps)

	if !strings.Contains(env.stdout.String(), "No timer running") {
		t.Errorf("expected 'No timer running', got %q", env.stdout.String())
	}
}

func TestToggleDisplay(t *testing.T) {
	env := newTestEnv(t, true)

	ToggleDisplay(env.deps)
	if !strings.Contains(env.stdout.String(), "Display disabled") {
		t.Errorf("expected 'Display disabled', got %q", env.stdout.String())
	}

	env.stdout.Reset()
	ToggleDisplay(env.deps)
	if !strings.Contains(env.stdout.String(), "Display enabled") {
		t.Errorf("expected 'Display enabled', got %q", env.stdout.String())
	}
}

func TestShowTimerStatus_Live(t *testing.T) {
	env := newTestEnv(t, true)

	StartTimer(env.deps, []string{"25", "Focus"})
	env.scheduler.FireN(61)
	env.stdout.Reset()

	ShowTimerStatus(env.deps)

	out := env.stdout.String()
	if !strings.Contains(out, "Timer running:") || !strings.Contains(out, "Focus") {
		t.Errorf("expected running status, got %q", out)
	}
	if !strings.Contains(out, "Remaining: 23:59 of 25m") {
		t.Errorf("expected remaining time, got %q", out)
	}
	if strings.Contains(out, "not running") {
		t.Errorf("did not expect snapshot fallback, got %q", out)
	}
}

func TestShowTimerStatus_SnapshotFallback(t *testing.T) {
	env := newTestEnv(t, false)

	err := snapshot.NewFileStore(env.services.Paths.Snapshot).Write(snapshot.Of(snapshot.ActiveTimer{
		RemainingSeconds: 125,
		Label:            "Saved",
		InitialMinutes:   25,
		DisplayEnabled:   false,
	}))
	if err != nil {
		t.Fatal(err)
	}

	ShowTimerStatus(env.deps)

	out := env.stdout.String()
	if *env.exitCode != 0 {
		t.Errorf("expected exit code 0, got %d (stderr %q)", *env.exitCode, env.stderr.String())
	}
	for _, want := range []string{"showing the last saved timer", "Saved", "Remaining: 02:05 of 25m", "Display: hidden"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got %q", want, out)
		}
	}
}

func TestShowTimerStatus_IdleFallback(t *testing.T) {
	deps, stdout, _, exitCode := setupTestDeps(t)

	ShowTimerStatus(deps)

	if *exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", *exitCode)
	}
	if !strings.Contains(stdout.String(), "No timer running") {
		t.Errorf("expected 'No timer running', got %q", stdout.String())
	}
}
