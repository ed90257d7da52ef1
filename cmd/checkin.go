package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/safecompanion/internal/parser"
)

// activitySourceCheckIn marks activity recorded by the checkin command.
const activitySourceCheckIn = "checkin"

// Check-in command flags.
var (
	checkinFlagAt string
)

// checkinCmd records that the user is active.
var checkinCmd = &cobra.Command{
	Use:     "checkin",
	Aliases: []string{"ok", "ci"},
	Short:   "Tell SafeCompanion you are fine",
	Long: `Record activity now, or at the time given with --at. The monitor
raises an inactivity notice when no activity is recorded for too long.

Examples:
  safecompanion checkin
  safecompanion checkin --at "20 minutes ago"
  safecompanion checkin --at 9am`,
	Args: cobra.NoArgs,
	RunE: runCheckIn,
}

func init() {
	checkinCmd.Flags().StringVar(&checkinFlagAt, "at", "", "When you were last active (e.g. '10 minutes ago', '9am')")
	rootCmd.AddCommand(checkinCmd)
}

func runCheckIn(cmd *cobra.Command, args []string) error {
	at := time.Now()
	if checkinFlagAt != "" {
		parsed, err := parser.ParseActivityTime(checkinFlagAt, at)
		if err != nil {
			return err
		}
		at = parsed
	}

	activity, err := ctx.Activity.Touch(commandContext(cmd), at, activitySourceCheckIn)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintCheckIn(*activity)
	}
	ctx.CLIFormatter().PrintCheckIn(*activity)
	return nil
}
