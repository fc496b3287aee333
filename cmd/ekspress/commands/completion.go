package commands

import (
	"os"

	"github.com/spf13/cobra"
)

// Completion returns the completion command for shell autocompletion.
func Completion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for ekspress.

To load completions:

Bash:
  $ source <(ekspress completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ ekspress completion bash > /etc/bash_completion.d/ekspress
  # macOS:
  $ ekspress completion bash > $(brew --prefix)/etc/bash_completion.d/ekspress

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ ekspress completion zsh > "${fpath[1]}/_ekspress"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ ekspress completion fish | source
  # To load completions for each session, execute once:
  $ ekspress completion fish > ~/.config/fish/completions/ekspress.fish

PowerShell:
  PS> ekspress completion powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> ekspress completion powershell > ekspress.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}
