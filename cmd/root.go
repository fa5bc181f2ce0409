package cmd

import (
	"github.com/spf13/cobra"
	"github.com/xolan/pomidor/internal/cli"
	"github.com/xolan/pomidor/internal/cli/handlers"
	"github.com/xolan/pomidor/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "pomidor",
	Short: "A countdown timer that keeps a log of finished sessions",
	Long: `pomidor is a countdown timer for focused work sessions.

Running pomidor without arguments opens the terminal UI, which owns the timer.
While it runs, the other commands control the timer from any terminal:

  pomidor                         Open the terminal UI
  pomidor start 25 write report   Start a 25 minute timer labelled "write report"
  pomidor toggle                  Pause or resume the timer
  pomidor stop                    Stop the timer (recorded as interrupted)
  pomidor display                 Show or hide the countdown
  pomidor status                  Show the current timer
  pomidor history                 Show finished sessions grouped by day
  pomidor serve                   Run the timer without a UI

A running timer survives restarts: it is saved on every tick and restored
the next time pomidor starts.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runTUI()
	},
}

// runTUI is replaced in tests so that no terminal is taken over.
var runTUI = func() {
	handlers.RunInteractive(cli.GetDeps(), tui.Run)
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"pomidor version {{.Version}}\n" +
			"commit: " + commit + "\n" +
			"built: " + date + "\n",
	)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
