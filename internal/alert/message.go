package alert

import (
	"strings"

	"github.com/manav03panchal/safecompanion/internal/model"
)

// Dialog and notice texts shown around an alert.
const (
	ConfirmTitle   = "Emergency Alert"
	ConfirmMessage = "Are you sure you want to send an emergency alert?"
	ConfirmCancel  = "Cancel"
	ConfirmSend    = "Send Alert"

	SentTitle   = "Emergency Alert Sent"
	SentMessage = "Your emergency contacts have been notified."

	FailedTitle   = "Error"
	FailedMessage = "Failed to send emergency alert. Please try again."
)

const (
	messageHeader      = "🚨 EMERGENCY ALERT 🚨\n\nI need immediate assistance!\n\n"
	locationUnknown    = "Location: Unable to determine location"
	defaultSenderName  = "SafeCompanion"
	locationLinePrefix = "Location: "
)

// ComposeMessage renders the alert body. A nil fix produces the degraded
// location line.
func ComposeMessage(fix *model.LocationFix, sender string) string {
	if sender == "" {
		sender = defaultSenderName
	}

	var b strings.Builder
	b.WriteString(messageHeader)
	if fix != nil {
		b.WriteString(locationLinePrefix)
		b.WriteString(fix.MapLink())
	} else {
		b.WriteString(locationUnknown)
	}
	b.WriteString("\n\nSent from ")
	b.WriteString(sender)
	return b.String()
}

// SentNotice is the notice shown after an alert completes.
func SentNotice() model.Notice {
	return model.Notice{Title: SentTitle, Message: SentMessage, Level: model.NoticeInfo}
}

// FailedNotice is the notice shown when an alert could not be attempted.
func FailedNotice() model.Notice {
	return model.Notice{Title: FailedTitle, Message: FailedMessage, Level: model.NoticeError}
}
