package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/safecompanion/internal/tui"
)

// homeCmd opens the interactive home screen.
var homeCmd = &cobra.Command{
	Use:     "home",
	Aliases: []string{"ui", "tui"},
	Short:   "Open the interactive home screen",
	Long: `Open the home screen: today's reminders, your emergency contact and
a large SOS button.

Keyboard Controls:
  s          - Send an SOS alert (asks to confirm)
  space      - Mark the selected reminder done or pending
  j/k        - Move between reminders
  r          - Refresh
  q          - Quit

Examples:
  safecompanion home
  safecompanion ui`,
	Args: cobra.NoArgs,
	RunE: runHomeScreen,
}

func init() {
	rootCmd.AddCommand(homeCmd)
}

func runHomeScreen(cmd *cobra.Command, args []string) error {
	svc, err := ctx.Alert()
	if err != nil {
		return err
	}

	return tui.Run(commandContext(cmd), tui.HomeConfig{
		Reminders: ctx.Reminders,
		Contacts:  ctx.Contacts,
		Activity:  ctx.Activity,
		Alert:     svc,
	})
}
