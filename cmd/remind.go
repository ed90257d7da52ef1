package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/safecompanion/internal/errors"
	"github.com/manav03panchal/safecompanion/internal/model"
)

// Remind command flags.
var (
	remindListPending bool
)

// remindCmd represents the remind command.
var remindCmd = &cobra.Command{
	Use:     "remind",
	Aliases: []string{"r", "reminders"},
	Short:   "Show and complete today's reminders",
	Long: `Show today's medication and health reminders and mark them done.

Without a subcommand, lists every reminder in schedule order.

Examples:
  safecompanion remind
  safecompanion remind pending
  safecompanion remind toggle 2`,
	Args: cobra.NoArgs,
	RunE: runRemindList,
}

// remindListCmd lists reminders.
var remindListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List reminders",
	Long: `List today's reminders. Use --pending to hide completed ones.

Examples:
  safecompanion remind list
  safecompanion remind list --pending`,
	Args: cobra.NoArgs,
	RunE: runRemindList,
}

// remindPendingCmd lists pending reminders.
var remindPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List reminders not yet completed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		remindListPending = true
		return runRemindList(cmd, args)
	},
}

// remindToggleCmd flips a reminder between pending and completed.
var remindToggleCmd = &cobra.Command{
	Use:     "toggle ID",
	Aliases: []string{"done", "t"},
	Short:   "Mark a reminder done, or pending again",
	Long: `Flip the completed state of the reminder with the given id.
An id that does not exist leaves every reminder unchanged.

Examples:
  safecompanion remind toggle 1
  safecompanion remind done 3`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeReminderIDs,
	RunE:              runRemindToggle,
}

func init() {
	remindListCmd.Flags().BoolVarP(&remindListPending, "pending", "p", false, "Only show pending reminders")

	remindCmd.AddCommand(remindListCmd)
	remindCmd.AddCommand(remindPendingCmd)
	remindCmd.AddCommand(remindToggleCmd)
	rootCmd.AddCommand(remindCmd)
}

func runRemindList(cmd *cobra.Command, args []string) error {
	c := commandContext(cmd)

	var (
		list []model.Reminder
		err  error
	)
	if remindListPending {
		list, err = ctx.Reminders.Pending(c)
	} else {
		list, err = ctx.Reminders.List(c)
	}
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintReminders(list)
	}

	cli := ctx.CLIFormatter()
	cli.Title(fmt.Sprintf("Today's Reminders %s", cli.Badge(len(model.PendingReminders(list)))))
	cli.PrintReminders(list)
	return nil
}

func runRemindToggle(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.NewUserErrorWithField("id", args[0],
			"reminder id must be a number",
			"Use 'safecompanion remind list' to see reminder ids.")
	}

	list, found, err := ctx.Reminders.Toggle(commandContext(cmd), id)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintToggled(list, id, found)
	}

	cli := ctx.CLIFormatter()
	if !found {
		cli.Warning(fmt.Sprintf("No reminder with id %d; nothing changed.", id))
		return nil
	}
	cli.PrintToggled(list, id)
	return nil
}
