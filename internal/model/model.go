// Package model defines the domain models for SafeCompanion.
package model

// Storage keys. Each list is stored as a single JSON blob and every
// mutation overwrites the whole value.
const (
	KeyContacts  = "emergencyContacts"
	KeyReminders = "reminders"
	KeyActivity  = "activity"
)

// NoticeLevel describes how a notice should be presented.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user-facing message raised by a workflow. The presentation
// layer decides how to render it.
type Notice struct {
	Title   string      `json:"title"`
	Message string      `json:"message"`
	Level   NoticeLevel `json:"level"`
}

// NewWarning creates a warning notice.
func NewWarning(title, message string) Notice {
	return Notice{Title: title, Message: message, Level: NoticeWarning}
}
