package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xolan/pomidor/internal/cli"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate a tab-completion script for pomidor commands and flags.

Load it for the current session:
  source <(pomidor completion bash)
  source <(pomidor completion zsh)

Install it permanently:
  pomidor completion bash > ~/.local/share/bash-completion/completions/pomidor
  pomidor completion zsh > "${fpath[1]}/_pomidor"
  pomidor completion fish > ~/.config/fish/completions/pomidor.fish
  pomidor completion powershell | Out-String | Invoke-Expression`,
	ValidArgs: completionShells,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		generateCompletion(args[0])
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionGenerators = map[string]func(w io.Writer) error{
	"bash":       func(w io.Writer) error { return rootCmd.GenBashCompletionV2(w, true) },
	"zsh":        func(w io.Writer) error { return rootCmd.GenZshCompletion(w) },
	"fish":       func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
	"powershell": func(w io.Writer) error { return rootCmd.GenPowerShellCompletionWithDesc(w) },
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// generateCompletion writes the completion script for shell to stdout.
func generateCompletion(shell string) {
	deps := cli.GetDeps()

	gen, ok := completionGenerators[shell]
	if !ok {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Unsupported shell '%s'\n", shell)
		_, _ = fmt.Fprintln(deps.Stderr, "Supported shells: bash, zsh, fish, powershell")
		deps.Exit(1)
		return
	}

	if err := gen(deps.Stdout); err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to generate %s completion: %v\n", shell, err)
		deps.Exit(1)
	}
}
