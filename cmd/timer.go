package cmd

import (
	"github.com/spf13/cobra"
	"github.com/xolan/pomidor/internal/cli"
	"github.com/xolan/pomidor/internal/cli/handlers"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start <minutes> [label...]",
	Short: "Start a countdown timer",
	Long: `Start a countdown of the given whole number of minutes.

Everything after the minutes becomes the label. Without a label the timer is
called "Pomidor". Starting while a timer is active records the old one as
interrupted before the new countdown begins.

Examples:
  pomidor start 25
  pomidor start 25 write report
  pomidor start 5 break`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.StartTimer(cli.GetDeps(), args)
	},
}

// stopCmd represents the stop command
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the timer and record it as interrupted",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.StopTimer(cli.GetDeps())
	},
}

// toggleCmd represents the toggle command
var toggleCmd = &cobra.Command{
	Use:     "toggle",
	Aliases: []string{"pause", "resume"},
	Short:   "Pause or resume the timer",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.ToggleTimer(cli.GetDeps())
	},
}

// displayCmd represents the display command
var displayCmd = &cobra.Command{
	Use:   "display",
	Short: "Show or hide the countdown",
	Long: `Toggle whether the countdown is shown. The timer keeps running either way
and the setting is restored after a restart.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.ToggleDisplay(cli.GetDeps())
	},
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current timer",
	Long: `Show the timer owned by the running pomidor process. When pomidor is not
running, the timer saved by the last process is shown instead; it resumes
the next time pomidor starts.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.ShowTimerStatus(cli.GetDeps())
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(displayCmd)
	rootCmd.AddCommand(statusCmd)
}
