package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/manav03panchal/safecompanion/internal/alert"
	"github.com/manav03panchal/safecompanion/internal/model"
	"github.com/manav03panchal/safecompanion/internal/output"
)

// RemindersComponent lists today's reminders with a cursor.
type RemindersComponent struct {
	Reminders []model.Reminder
	Cursor    int
	Width     int
}

// View renders the reminders box.
func (rc *RemindersComponent) View() string {
	var content strings.Builder

	pending := len(model.PendingReminders(rc.Reminders))
	content.WriteString(StyleTitle.Render(fmt.Sprintf("Today's Reminders (%d pending)", pending)))
	content.WriteString("\n")

	if len(rc.Reminders) == 0 {
		content.WriteString(StyleMuted.Render("No reminders"))
	}
	for i, r := range rc.Reminders {
		content.WriteString("\n")
		content.WriteString(rc.renderReminder(r, i == rc.Cursor))
	}

	return StyleBox.Width(boxWidth(rc.Width)).Render(content.String())
}

func (rc *RemindersComponent) renderReminder(r model.Reminder, selected bool) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}
	mark := "○"
	if r.Completed {
		mark = "●"
	}
	line := fmt.Sprintf("%s %s  %s", mark, r.Time, r.Title)

	switch {
	case selected:
		line = StyleSelected.Render(line)
	case r.Completed:
		line = StyleDone.Render(line)
	}
	return cursor + line
}

// ContactComponent shows the primary contact and the last check-in.
type ContactComponent struct {
	Primary  *model.EmergencyContact
	Activity *model.Activity
	Now      time.Time
	Width    int
}

// View renders the contact box.
func (cc *ContactComponent) View() string {
	var content strings.Builder

	content.WriteString(StyleTitle.Render("Emergency Contact"))
	content.WriteString("\n")
	if cc.Primary == nil {
		content.WriteString(StyleWarning.Render("No emergency contacts configured"))
	} else {
		content.WriteString(StyleContact.Render(cc.Primary.Name))
		content.WriteString("  ")
		content.WriteString(StyleMuted.Render(cc.Primary.Phone))
	}

	var last time.Time
	if cc.Activity != nil {
		last = cc.Activity.LastActivity
	}
	content.WriteString("\n")
	content.WriteString(StyleMuted.Render("Last activity: " + output.FormatAgo(last, cc.Now)))

	return StyleBox.Width(boxWidth(cc.Width)).Render(content.String())
}

// SOSComponent is the emergency button, or the confirmation dialog while
// the user is deciding.
type SOSComponent struct {
	Confirming bool
	Sending    bool
	Width      int
}

// View renders the SOS box.
func (sc *SOSComponent) View() string {
	switch {
	case sc.Sending:
		return StyleSOSBox.Width(boxWidth(sc.Width)).Render("Sending emergency alert...")
	case sc.Confirming:
		var content strings.Builder
		content.WriteString(StyleError.Bold(true).Render(alert.ConfirmTitle))
		content.WriteString("\n\n")
		content.WriteString(alert.ConfirmMessage)
		content.WriteString("\n\n")
		content.WriteString(HelpBar(helpKey{"y", alert.ConfirmSend}, helpKey{"n", alert.ConfirmCancel}))
		return StyleConfirmBox.Width(boxWidth(sc.Width)).Render(content.String())
	default:
		return StyleSOSBox.Width(boxWidth(sc.Width)).Render("SOS\npress s for emergency help")
	}
}
