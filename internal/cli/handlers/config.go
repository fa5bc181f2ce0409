package handlers

import (
	"fmt"
	"strings"

	"github.com/xolan/pomidor/internal/cli"
)

// ShowConfig displays the effective configuration
func ShowConfig(deps *cli.Deps) {
	if !requireServices(deps) {
		return
	}
	path := deps.Services.Config.GetPath()

	_, _ = fmt.Fprintln(deps.Stdout, "Configuration:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "Config file: %s\n", path)
	if deps.Services.Config.Exists() {
		_, _ = fmt.Fprintln(deps.Stdout, "Status: File exists")
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, "Status: Using defaults (no config file)")
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))

	content, err := deps.Services.Config.Show()
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		deps.Exit(1)
		return
	}
	_, _ = fmt.Fprint(deps.Stdout, content)
}

// ShowConfigPath prints the config file location.
func ShowConfigPath(deps *cli.Deps) {
	if !requireServices(deps) {
		return
	}
	_, _ = fmt.Fprintln(deps.Stdout, deps.Services.Config.GetPath())
}

// InitConfig creates a sample config file
func InitConfig(deps *cli.Deps) {
	if !requireServices(deps) {
		return
	}

	if err := deps.Services.Config.Init(); err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		deps.Exit(1)
		return
	}

	path := deps.Services.Config.GetPath()
	_, _ = fmt.Fprintf(deps.Stdout, "Created config file: %s\n", path)
	_, _ = fmt.Fprintln(deps.Stdout, "Edit this file to customize your settings.")
}
