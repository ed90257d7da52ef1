package cmd

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// completionCmd represents the completion command.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for safecompanion.

To load completions:

Bash:
  $ source <(safecompanion completion bash)

Zsh:
  $ safecompanion completion zsh > "${fpath[1]}/_safecompanion"

Fish:
  $ safecompanion completion fish | source
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// completeReminderIDs completes reminder ids with their titles.
func completeReminderIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || ctx == nil || ctx.Reminders == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	list, err := ctx.Reminders.List(commandContext(cmd))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, r := range list {
		id := strconv.Itoa(r.ID)
		if strings.HasPrefix(id, toComplete) {
			completions = append(completions, id+"\t"+r.Time+" "+r.Title)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeContactIDs completes contact short ids with their names.
func completeContactIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || ctx == nil || ctx.Contacts == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	contacts, err := ctx.Contacts.List(commandContext(cmd))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, c := range contacts {
		if strings.HasPrefix(c.ID, toComplete) {
			completions = append(completions, c.ShortID()+"\t"+c.Name)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
