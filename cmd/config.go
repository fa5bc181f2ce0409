package cmd

import (
	"github.com/spf13/cobra"
	"github.com/xolan/pomidor/internal/cli"
	"github.com/xolan/pomidor/internal/cli/handlers"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display or manage configuration settings",
	Long: `Display the current effective configuration for pomidor.

pomidor works without a configuration file. Values from config.toml are
merged over the defaults, and POMIDOR_* environment variables override both.

Examples:
  pomidor config          Show all current settings
  pomidor config init     Write a commented sample config file
  pomidor config path     Print the config file location`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.ShowConfig(cli.GetDeps())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a sample config file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.InitConfig(cli.GetDeps())
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.ShowConfigPath(cli.GetDeps())
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
