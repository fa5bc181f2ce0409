package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/xolan/pomidor/internal/cli"
	"github.com/xolan/pomidor/internal/server"
	"github.com/xolan/pomidor/internal/service"
	"github.com/xolan/pomidor/internal/storage"
)

// Serve runs the timer engine without a UI and serves the control API
// until ctx is done. Logs go to stderr as JSON.
func Serve(ctx context.Context, deps *cli.Deps) {
	if !requireServices(deps) {
		return
	}

	logger := service.NewLogger(deps.Stderr, deps.Config, true)
	services := deps.Services.WithLogger(logger)

	ln, err := server.Bind(deps.Config.ListenAddr)
	if err != nil {
		reportStartupError(deps, err)
		return
	}

	rt, err := services.Timer.Open(nil)
	if err != nil {
		_ = ln.Close()
		reportStartupError(deps, err)
		return
	}
	if rt.RecoverErr != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Warning: Could not restore the previous timer: %v\n", rt.RecoverErr)
	}

	srv := server.New(rt.Engine, logger)
	srv.SetListener(ln)
	serveErr := srv.Serve(ctx)

	if err := errors.Join(serveErr, rt.Close()); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: pomidor stopped with an error")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
	}
}

// reportStartupError explains why the engine could not be started. It is
// shared by serve and the TUI.
func reportStartupError(deps *cli.Deps, err error) {
	var parseErr *storage.ParseError
	switch {
	case errors.Is(err, server.ErrAlreadyRunning):
		_, _ = fmt.Fprintln(deps.Stderr, "Error: pomidor is already running")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Control it with 'pomidor start', 'pomidor stop' or 'pomidor toggle'")
	case errors.As(err, &parseErr):
		_, _ = fmt.Fprintln(deps.Stderr, "Error: History file is corrupted")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: List backups with 'pomidor history backups' and restore one with 'pomidor history restore [n]'")
	default:
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to start pomidor")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
	}
	deps.Exit(1)
}

// RunInteractive launches the terminal UI through run and reports startup
// failures the same way Serve does.
func RunInteractive(deps *cli.Deps, run func(*service.Services) error) {
	if !requireServices(deps) {
		return
	}
	if err := run(deps.Services); err != nil {
		reportStartupError(deps, err)
	}
}
