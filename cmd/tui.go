package cmd

import (
	"github.com/spf13/cobra"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	Long: `Launch the interactive Terminal User Interface for pomidor.

The TUI runs the timer and serves the control API, so 'pomidor start',
'pomidor stop' and the other timer commands work from other terminals while
it is open. Only one pomidor process can own the timer at a time.

Views available:
  - Timer: the countdown, with start, pause, stop and display controls
  - History: finished sessions grouped by day, refreshed as they are logged

Keyboard shortcuts:
  - Tab: Switch between views
  - 1/h: Jump to Timer or History
  - s: Start a timer
  - p/space: Pause or resume
  - x: Stop
  - d: Show or hide the countdown
  - t: Next color theme
  - ?: Show help
  - q: Quit`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runTUI()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
