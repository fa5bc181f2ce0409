package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xolan/pomidor/internal/cli"
	"github.com/xolan/pomidor/internal/engine"
	"github.com/xolan/pomidor/internal/server"
	"github.com/xolan/pomidor/internal/session"
)

// StartTimer parses "<minutes> [label...]" and starts a countdown on the
// running pomidor process.
func StartTimer(deps *cli.Deps, args []string) {
	if len(args) == 0 {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Missing minutes")
		_, _ = fmt.Fprintln(deps.Stderr, "Usage: pomidor start <minutes> [label]")
		_, _ = fmt.Fprintln(deps.Stderr, "Example: pomidor start 25 write report")
		deps.Exit(1)
		return
	}

	minutes, err := session.ParseMinutes(args[0])
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid minutes '%s'\n", args[0])
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Minutes must be a positive whole number, e.g. 'pomidor start 25'")
		deps.Exit(1)
		return
	}
	label := strings.Join(args[1:], " ")

	resp, err := deps.Timer().Start(context.Background(), minutes, label)
	if err != nil {
		reportClientError(deps, err)
		return
	}
	reportWarning(deps, resp)

	_, _ = fmt.Fprintf(deps.Stdout, "Timer started: %s\n", cli.FormatStatusLine(resp.Status))
}

// StopTimer interrupts the active timer. The session is recorded with its
// planned duration.
func StopTimer(deps *cli.Deps) {
	client := deps.Timer()

	before, err := client.Status(context.Background())
	if err != nil {
		reportClientError(deps, err)
		return
	}
	if before.State == engine.StateIdle {
		_, _ = fmt.Fprintln(deps.Stdout, "No timer running")
		return
	}

	resp, err := client.Stop(context.Background())
	if err != nil {
		reportClientError(deps, err)
		return
	}
	reportWarning(deps, resp)

	_, _ = fmt.Fprintf(deps.Stdout, "Stopped: %s (%s, recorded as interrupted)\n",
		before.Label, cli.FormatDuration(before.InitialMinutes))
}

// ToggleTimer pauses or resumes the active timer.
func ToggleTimer(deps *cli.Deps) {
	resp, err := deps.Timer().Toggle(context.Background())
	if err != nil {
		reportClientError(deps, err)
		return
	}
	reportWarning(deps, resp)

	switch resp.Status.State {
	case engine.StatePaused:
		_, _ = fmt.Fprintf(deps.Stdout, "Paused: %s\n", cli.FormatStatusLine(resp.Status))
	case engine.StateRunning:
		_, _ = fmt.Fprintf(deps.Stdout, "Resumed: %s\n", cli.FormatStatusLine(resp.Status))
	default:
		_, _ = fmt.Fprintln(deps.Stdout, "No timer running")
	}
}

// ToggleDisplay flips whether the countdown is shown.
func ToggleDisplay(deps *cli.Deps) {
	resp, err := deps.Timer().ToggleDisplay(context.Background())
	if err != nil {
		reportClientError(deps, err)
		return
	}
	reportWarning(deps, resp)

	if resp.Status.DisplayEnabled {
		_, _ = fmt.Fprintln(deps.Stdout, "Display enabled")
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, "Display disabled")
	}
}

// ShowTimerStatus prints the live timer. When no pomidor process is
// running it falls back to the last saved snapshot.
func ShowTimerStatus(deps *cli.Deps) {
	status, err := deps.Timer().Status(context.Background())
	fromSnapshot := false
	if errors.Is(err, server.ErrNotRunning) {
		if !requireServices(deps) {
			return
		}
		status, err = deps.Services.Timer.SnapshotStatus()
		fromSnapshot = true
	}
	if err != nil {
		reportClientError(deps, err)
		return
	}

	if fromSnapshot {
		_, _ = fmt.Fprintln(deps.Stdout, "pomidor is not running; showing the last saved timer")
	}

	if status.State == engine.StateIdle {
		_, _ = fmt.Fprintln(deps.Stdout, "No timer running")
		_, _ = fmt.Fprintln(deps.Stdout, "Start a timer with: pomidor start <minutes> [label]")
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Timer %s:\n", status.State)
	_, _ = fmt.Fprintf(deps.Stdout, "  %s\n", status.Label)
	_, _ = fmt.Fprintf(deps.Stdout, "  Remaining: %s of %s\n",
		cli.FormatCountdown(status.RemainingSeconds), cli.FormatDuration(status.InitialMinutes))
	if !status.DisplayEnabled {
		_, _ = fmt.Fprintln(deps.Stdout, "  Display: hidden")
	}
}

func reportClientError(deps *cli.Deps, err error) {
	var apiErr *server.APIError
	switch {
	case errors.Is(err, server.ErrNotRunning):
		_, _ = fmt.Fprintln(deps.Stderr, "Error: pomidor is not running")
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Launch it with 'pomidor' (interactive) or 'pomidor serve' (background)")
	case errors.As(err, &apiErr):
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %s\n", apiErr.Message)
	default:
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
	}
	deps.Exit(1)
}

func reportWarning(deps *cli.Deps, resp server.CommandResponse) {
	if resp.Warning != "" {
		_, _ = fmt.Fprintf(deps.Stderr, "Warning: %s\n", resp.Warning)
	}
}

func requireServices(deps *cli.Deps) bool {
	if deps.Services != nil {
		return true
	}
	_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to initialize pomidor")
	if deps.InitErr != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", deps.InitErr)
	}
	_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check your config file and that your home directory is accessible")
	deps.Exit(1)
	return false
}
