package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	ErrContactNotFound:  "Use 'safecompanion contacts list' to see your emergency contacts.",
	ErrReminderNotFound: "Use 'safecompanion remind list' to see reminder ids.",
	ErrLastContact:      "Add another contact first with 'safecompanion contacts add NAME PHONE'.",
	ErrInvalidPhone:     "Use international format like '+15551234567'.",
	ErrInvalidClock:     "Use 24-hour HH:MM format like '08:00' or '20:30'.",
	ErrInvalidTimestamp: "Try formats like '2 hours ago', 'yesterday at 3pm' or '9am'.",

	ErrAlertFailed:          "Failed to send emergency alert. Please try again.",
	ErrAlertInFlight:        "An emergency alert is already being sent. Wait for it to finish.",
	ErrTransportUnavailable: "Check the messaging settings with 'safecompanion config show'.",
	ErrStoreUnavailable:     "Check the store settings with 'safecompanion config show'.",
	ErrStoreCorrupted:       "Stored data could not be decoded. Back up and remove the data directory to reseed defaults.",
	ErrLockHeld:             "Another safecompanion process holds the database. Stop it with 'safecompanion monitor stop'.",
	ErrTimeout:              "The operation took too long. Try again or check your network connection.",
	ErrPermissionDenied:     "Enable the permission in the 'permissions' section of the config file.",
	ErrMonitorRunning:       "Use 'safecompanion monitor status' to inspect the running monitor.",
	ErrMonitorNotRunning:    "Start it with 'safecompanion monitor run'.",
}

// GetSuggestion returns a suggestion for an error, if available.
// A UserError's own suggestion takes precedence over the sentinel table.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}

	return ""
}
