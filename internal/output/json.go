package output

import (
	"time"

	"github.com/manav03panchal/safecompanion/internal/daemon"
	"github.com/manav03panchal/safecompanion/internal/model"
	"github.com/manav03panchal/safecompanion/internal/monitor"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// HomeResponse represents the home summary in JSON.
type HomeResponse struct {
	PendingCount   int                     `json:"pending_count"`
	Pending        []model.Reminder        `json:"pending"`
	PrimaryContact *model.EmergencyContact `json:"primary_contact,omitempty"`
	LastActivity   *time.Time              `json:"last_activity,omitempty"`
}

// ContactsResponse represents the contact list in JSON.
type ContactsResponse struct {
	Contacts []ContactOutput `json:"contacts"`
	Total    int             `json:"total"`
}

// ContactOutput represents a contact in JSON output.
type ContactOutput struct {
	model.EmergencyContact
	Messageable bool `json:"messageable"`
}

// RemindersResponse represents a reminder list in JSON.
type RemindersResponse struct {
	Reminders []model.Reminder `json:"reminders"`
	Pending   int              `json:"pending"`
}

// ToggleResponse represents the result of toggling a reminder.
type ToggleResponse struct {
	Status    string           `json:"status"`
	ID        int              `json:"id"`
	Reminders []model.Reminder `json:"reminders"`
}

// AlertResponse represents an SOS outcome in JSON.
type AlertResponse struct {
	Status    string              `json:"status"`
	Outcome   *model.AlertOutcome `json:"outcome"`
	Attempted int                 `json:"attempted"`
	Notified  int                 `json:"notified"`
	Skipped   int                 `json:"skipped"`
	Failed    int                 `json:"failed"`
}

// NewAlertResponse summarizes an outcome.
func NewAlertResponse(o *model.AlertOutcome) *AlertResponse {
	return &AlertResponse{
		Status:    "sent",
		Outcome:   o,
		Attempted: o.Attempted(),
		Notified:  o.Notified(),
		Skipped:   o.Skipped(),
		Failed:    o.Failed(),
	}
}

// CheckResponse represents an inactivity check in JSON.
type CheckResponse struct {
	*monitor.CheckResult
	IdleSeconds      int64 `json:"idle_seconds"`
	ThresholdSeconds int64 `json:"threshold_seconds"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// PrintHome outputs the home summary.
func (j *JSONFormatter) PrintHome(h Home) error {
	resp := HomeResponse{
		PendingCount:   len(h.Pending),
		Pending:        h.Pending,
		PrimaryContact: h.Primary,
	}
	if resp.Pending == nil {
		resp.Pending = []model.Reminder{}
	}
	if !h.Activity.LastActivity.IsZero() {
		t := h.Activity.LastActivity
		resp.LastActivity = &t
	}
	return j.JSON(resp)
}

// PrintContacts outputs the contact list.
func (j *JSONFormatter) PrintContacts(contacts []model.EmergencyContact, sentinel string) error {
	out := make([]ContactOutput, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, ContactOutput{EmergencyContact: c, Messageable: c.Messageable(sentinel)})
	}
	return j.JSON(ContactsResponse{Contacts: out, Total: len(out)})
}

// PrintContact outputs a single contact.
func (j *JSONFormatter) PrintContact(c model.EmergencyContact, sentinel string) error {
	return j.JSON(ContactOutput{EmergencyContact: c, Messageable: c.Messageable(sentinel)})
}

// PrintReminders outputs a reminder list.
func (j *JSONFormatter) PrintReminders(list []model.Reminder) error {
	if list == nil {
		list = []model.Reminder{}
	}
	return j.JSON(RemindersResponse{Reminders: list, Pending: len(model.PendingReminders(list))})
}

// PrintToggled outputs the list after a toggle.
func (j *JSONFormatter) PrintToggled(list []model.Reminder, id int, found bool) error {
	status := "toggled"
	if !found {
		status = "not_found"
	}
	return j.JSON(ToggleResponse{Status: status, ID: id, Reminders: list})
}

// PrintAlertOutcome outputs an SOS outcome.
func (j *JSONFormatter) PrintAlertOutcome(o *model.AlertOutcome) error {
	return j.JSON(NewAlertResponse(o))
}

// PrintCheckIn outputs the recorded activity.
func (j *JSONFormatter) PrintCheckIn(a model.Activity) error {
	return j.JSON(a)
}

// PrintCheckResult outputs one inactivity check.
func (j *JSONFormatter) PrintCheckResult(r *monitor.CheckResult) error {
	return j.JSON(CheckResponse{
		CheckResult:      r,
		IdleSeconds:      int64(r.Idle.Seconds()),
		ThresholdSeconds: int64(r.Threshold.Seconds()),
	})
}

// PrintMonitorStatus outputs the monitor process status.
func (j *JSONFormatter) PrintMonitorStatus(s *daemon.Status) error {
	return j.JSON(s)
}

// PrintError outputs an error in JSON format.
func (j *JSONFormatter) PrintError(status, errMsg, message string) error {
	return j.JSON(ErrorResponse{
		Status:  status,
		Error:   errMsg,
		Message: message,
	})
}
