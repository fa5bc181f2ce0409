package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/xolan/pomidor/internal/cli"
	"github.com/xolan/pomidor/internal/cli/handlers"
)

var (
	historyFormat string
	historyLimit  int
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show finished sessions grouped by day",
	Long: `Show the session log, newest day first. Each session is either completed
(the countdown reached zero) or interrupted (stopped early).

Examples:
  pomidor history
  pomidor history --limit 7
  pomidor history --format json`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.ShowHistory(cli.GetDeps(), historyFormat, historyLimit)
	},
}

// historyBackupsCmd represents the history backups command
var historyBackupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List history backups",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.ListBackups(cli.GetDeps())
	},
}

// historyRestoreCmd represents the history restore command
var historyRestoreCmd = &cobra.Command{
	Use:   "restore [n]",
	Short: "Restore the history file from a backup",
	Long: `Replace the history file with backup n (1 is the most recent, up to 3).
Without n the most recent backup is used.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		restoreHistory(args)
	},
}

func init() {
	historyCmd.Flags().StringVarP(&historyFormat, "format", "f", "text", "output format: text, json or yaml")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show only the most recent N days (0 shows all)")

	historyCmd.AddCommand(historyBackupsCmd)
	historyCmd.AddCommand(historyRestoreCmd)
	rootCmd.AddCommand(historyCmd)
}

func restoreHistory(args []string) {
	deps := cli.GetDeps()

	n := 1
	if len(args) == 1 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 1 || parsed > 3 {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid backup number '%s'\n", args[0])
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use a number from 1 (most recent) to 3")
			deps.Exit(1)
			return
		}
		n = parsed
	}

	handlers.RestoreHistory(deps, n)
}
