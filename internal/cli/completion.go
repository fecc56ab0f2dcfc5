package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	var noDesc bool

	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for orngkit.

To load completions:

Bash:
  $ source <(orngkit completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ orngkit completion bash > /etc/bash_completion.d/orngkit
  # macOS:
  $ orngkit completion bash > $(brew --prefix)/etc/bash_completion.d/orngkit

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ orngkit completion zsh > "${fpath[1]}/_orngkit"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ orngkit completion fish | source

  # To load completions for each session, execute once:
  $ orngkit completion fish > ~/.config/fish/completions/orngkit.fish

PowerShell:
  PS> orngkit completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> orngkit completion powershell > orngkit.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, !noDesc)
			case "zsh":
				if noDesc {
					return root.GenZshCompletionNoDesc(out)
				}
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, !noDesc)
			case "powershell":
				if noDesc {
					return root.GenPowerShellCompletion(out)
				}
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noDesc, "no-descriptions", false, "omit command and flag descriptions")

	return cmd
}
