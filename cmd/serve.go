package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xolan/pomidor/internal/cli"
	"github.com/xolan/pomidor/internal/cli/handlers"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the timer without a UI",
	Long: `Run the timer engine and its control API in the foreground without the
terminal UI. Use the timer commands from another terminal to drive it, and
stop it with Ctrl+C. A running timer is saved on shutdown and restored on
the next start.

Logs are written to stderr as JSON.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		handlers.Serve(ctx, cli.GetDeps())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
