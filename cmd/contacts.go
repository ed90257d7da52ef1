package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/safecompanion/internal/errors"
	"github.com/manav03panchal/safecompanion/internal/model"
	"github.com/manav03panchal/safecompanion/internal/validate"
)

// contactsCmd represents the contacts command.
var contactsCmd = &cobra.Command{
	Use:     "contacts",
	Aliases: []string{"contact", "c"},
	Short:   "Manage emergency contacts",
	Long: `Manage the people notified when you send an SOS alert.

The first contact is your primary contact. A contact whose phone is the
emergency number is shown but never messaged.

Examples:
  safecompanion contacts
  safecompanion contacts add "Jane Doe" "+1 555 010 2000"
  safecompanion contacts remove 3f2a9c1d
  safecompanion contacts call`,
	Args: cobra.NoArgs,
	RunE: runContactsList,
}

// contactsListCmd lists contacts.
var contactsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List emergency contacts",
	Args:    cobra.NoArgs,
	RunE:    runContactsList,
}

// contactsAddCmd adds a contact.
var contactsAddCmd = &cobra.Command{
	Use:   "add NAME PHONE",
	Short: "Add an emergency contact",
	Long: `Add an emergency contact. The phone number may contain spaces,
dashes and parentheses; they are removed before saving.

Examples:
  safecompanion contacts add "Jane Doe" "+1 555 010 2000"
  safecompanion contacts add Sam 5550102001`,
	Args: cobra.ExactArgs(2),
	RunE: runContactsAdd,
}

// contactsRemoveCmd removes a contact.
var contactsRemoveCmd = &cobra.Command{
	Use:     "remove ID",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove an emergency contact",
	Long: `Remove the contact with the given id or id prefix (at least 4
characters). The last remaining contact cannot be removed.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeContactIDs,
	RunE:              runContactsRemove,
}

// contactsCallCmd prints the dial URI of the primary contact.
var contactsCallCmd = &cobra.Command{
	Use:   "call [ID]",
	Short: "Call your primary contact",
	Long: `Print the tel: link for the primary contact, or for the contact
with the given id. Pipe it to your phone integration or open it with your
system handler.

Examples:
  safecompanion contacts call
  xdg-open "$(safecompanion contacts call --format plain | tail -1)"`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeContactIDs,
	RunE:              runContactsCall,
}

func init() {
	contactsCmd.AddCommand(contactsListCmd)
	contactsCmd.AddCommand(contactsAddCmd)
	contactsCmd.AddCommand(contactsRemoveCmd)
	contactsCmd.AddCommand(contactsCallCmd)
	rootCmd.AddCommand(contactsCmd)
}

func runContactsList(cmd *cobra.Command, args []string) error {
	contacts, err := ctx.Contacts.List(commandContext(cmd))
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintContacts(contacts, ctx.Sentinel())
	}
	cli := ctx.CLIFormatter()
	cli.Title("Emergency Contacts")
	cli.PrintContacts(contacts, ctx.Sentinel())
	return nil
}

func runContactsAdd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return errors.NewUserError("Contact name cannot be empty", "Provide a name like \"Jane Doe\"")
	}
	phone := validate.NormalizePhone(args[1])
	if err := validate.Phone(phone); err != nil {
		return err
	}

	contact := model.NewContact(name, phone)
	contacts, err := ctx.Contacts.Add(commandContext(cmd), contact)
	if err != nil {
		return err
	}
	ctx.Debugf("contacts now: %d", len(contacts))
	added := contacts[len(contacts)-1]

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintContact(added, ctx.Sentinel())
	}
	ctx.CLIFormatter().PrintContactAdded(added)
	return nil
}

func runContactsRemove(cmd *cobra.Command, args []string) error {
	removed, err := ctx.Contacts.Remove(commandContext(cmd), args[0])
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintContact(*removed, ctx.Sentinel())
	}
	ctx.CLIFormatter().Success("Removed " + removed.Name)
	return nil
}

func runContactsCall(cmd *cobra.Command, args []string) error {
	c := commandContext(cmd)

	var contact *model.EmergencyContact
	if len(args) == 1 {
		contacts, err := ctx.Contacts.List(c)
		if err != nil {
			return err
		}
		idx := model.FindContact(contacts, args[0])
		if idx < 0 {
			return errors.NewUserErrorWithField("id", args[0], "Emergency contact not found", "").
				WithCause(errors.ErrContactNotFound)
		}
		contact = &contacts[idx]
	} else {
		var err error
		contact, err = ctx.Contacts.Primary(c)
		if err != nil {
			return err
		}
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]string{
			"name": contact.Name,
			"uri":  contact.DialURI(),
		})
	}
	ctx.CLIFormatter().PrintCall(*contact)
	return nil
}
