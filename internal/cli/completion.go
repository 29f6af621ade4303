package cli

import (
	"github.com/spf13/cobra"
)

// graphExtensions are the input formats graph.ReadFile understands.
var graphExtensions = []string{"json", "yaml", "yml", "toml"}

// completeGraphFile restricts positional completion to a single graph file.
func completeGraphFile(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return graphExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for forcegraph.

Bash:
  $ source <(forcegraph completion bash)

Zsh:
  $ forcegraph completion zsh > "${fpath[1]}/_forcegraph"

Fish:
  $ forcegraph completion fish > ~/.config/fish/completions/forcegraph.fish

PowerShell:
  PS> forcegraph completion powershell | Out-String | Invoke-Expression

Graph file arguments complete to .json, .yaml and .toml files.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(c.out, true)
			case "zsh":
				return root.GenZshCompletion(c.out)
			case "fish":
				return root.GenFishCompletion(c.out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(c.out)
			}
		},
	}
}
