package cmd

import (
	"context"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/manav03panchal/safecompanion/internal/alert"
	"github.com/manav03panchal/safecompanion/internal/errors"
	"github.com/manav03panchal/safecompanion/internal/output"
)

// SOS command flags.
var (
	sosFlagYes bool
)

// sosCmd sends the emergency alert.
var sosCmd = &cobra.Command{
	Use:     "sos",
	Aliases: []string{"alert"},
	Short:   "Send an emergency alert to your contacts",
	Long: `Send an emergency alert with your current location to every
emergency contact that can receive messages. The emergency number itself
is never messaged.

You are asked to confirm first. Pass --yes to send without asking,
for example from a script or a hardware button.

Examples:
  safecompanion sos
  safecompanion sos --yes
  safecompanion sos --yes --format json`,
	Args: cobra.NoArgs,
	RunE: runSOS,
}

func init() {
	sosCmd.Flags().BoolVarP(&sosFlagYes, "yes", "y", false, "Send without asking for confirmation")
	rootCmd.AddCommand(sosCmd)
}

func runSOS(cmd *cobra.Command, args []string) error {
	c := commandContext(cmd)

	if !sosFlagYes {
		confirmed, err := confirmSOS(c)
		if err != nil {
			return err
		}
		if !confirmed {
			if !ctx.IsJSON() {
				ctx.CLIFormatter().Muted("Alert cancelled.")
			}
			return nil
		}
	}

	svc, err := ctx.Alert()
	if err != nil {
		return err
	}

	outcome, err := svc.Send(c)
	if err != nil {
		if !ctx.IsJSON() {
			ctx.CLIFormatter().PrintNotice(alert.FailedNotice())
		}
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintAlertOutcome(outcome)
	}
	cli := ctx.CLIFormatter()
	cli.PrintNotice(alert.SentNotice())
	cli.PrintAlertOutcome(outcome)
	return nil
}

// confirmSOS asks for confirmation on an interactive terminal. Without one
// the alert is refused rather than sent unconfirmed.
func confirmSOS(c context.Context) (bool, error) {
	if ctx.IsJSON() || !output.IsTerminal(os.Stdin) || !output.IsTerminal(os.Stdout) {
		return false, errors.NewUserError(
			"confirmation required to send an emergency alert",
			"Run 'safecompanion sos --yes' to send without a prompt.",
		)
	}

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(alert.ConfirmTitle).
				Description(alert.ConfirmMessage).
				Affirmative(alert.ConfirmSend).
				Negative(alert.ConfirmCancel).
				Value(&confirmed),
		),
	)
	if err := form.RunWithContext(c); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return confirmed, nil
}
