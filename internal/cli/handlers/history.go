package handlers

import (
	"errors"
	"fmt"

	"github.com/xolan/pomidor/internal/cli"
	"github.com/xolan/pomidor/internal/storage"
)

// ShowHistory prints the session log grouped by day, newest first. It reads
// the store directly, so it works whether or not pomidor is running.
func ShowHistory(deps *cli.Deps, format string, limit int) {
	if !requireServices(deps) {
		return
	}

	groups, err := deps.Services.History.Grouped(limit)
	if err != nil {
		var parseErr *storage.ParseError
		if errors.As(err, &parseErr) {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: History file is corrupted")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: List backups with 'pomidor history backups' and restore one with 'pomidor history restore [n]'")
		} else {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to read history")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		}
		deps.Exit(1)
		return
	}

	if err := cli.WriteHistory(deps.Stdout, groups, format); err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		deps.Exit(1)
	}
}

// ListBackups prints the available history backups.
func ListBackups(deps *cli.Deps) {
	if !requireServices(deps) {
		return
	}

	backups, err := deps.Services.History.Backups()
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		deps.Exit(1)
		return
	}

	if len(backups) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No backups available")
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Available backups (1 is the most recent):")
	for _, b := range backups {
		if b.Sessions < 0 {
			_, _ = fmt.Fprintf(deps.Stdout, "  %d: %s (unreadable)\n", b.Number, b.Path)
			continue
		}
		_, _ = fmt.Fprintf(deps.Stdout, "  %d: %s (%d sessions)\n", b.Number, b.Path, b.Sessions)
	}
}

// RestoreHistory replaces the history file with backup n.
func RestoreHistory(deps *cli.Deps, n int) {
	if !requireServices(deps) {
		return
	}

	count, err := deps.Services.History.Restore(n)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to restore history")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: List backups with 'pomidor history backups'")
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Restored history from backup %d (%d sessions)\n", n, count)
	_, _ = fmt.Fprintln(deps.Stdout, "Restart pomidor if it is running so it picks up the restored file.")
}
