package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell. Rover names, DONKI kinds
and catalog names complete as arguments.

  bash:        source <(orbit completion bash)
  zsh:         orbit completion zsh > "${fpath[1]}/_orbit"
  fish:        orbit completion fish > ~/.config/fish/completions/orbit.fish
  powershell:  orbit completion powershell | Out-String | Invoke-Expression

zsh needs "autoload -U compinit; compinit" in ~/.zshrc if completion is
not enabled yet. Open a new shell afterwards.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(stdout, true)
			case "zsh":
				return root.GenZshCompletion(stdout)
			case "fish":
				return root.GenFishCompletion(stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(stdout)
			}
		},
	}
}
