package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/setlist/pkg/config"
	"github.com/matzehuels/setlist/pkg/i18n"
)

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for setlist. Flag values such as --locale
and --source complete too.

  $ source <(setlist completion bash)
  $ setlist completion zsh > "${fpath[1]}/_setlist"
  $ setlist completion fish > ~/.config/fish/completions/setlist.fish
  PS> setlist completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// registerFlagCompletions offers the bundled locales and the known
// collection sources for the persistent flags.
func registerFlagCompletions(root *cobra.Command) {
	_ = root.RegisterFlagCompletionFunc("locale", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return i18n.Default().Locales(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = root.RegisterFlagCompletionFunc("source", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{config.SourceAPI, config.SourceMongo}, cobra.ShellCompDirectiveNoFileComp
	})
}
