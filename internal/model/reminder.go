package model

// ReminderType classifies a reminder.
type ReminderType string

const (
	ReminderMedication ReminderType = "medication"
	ReminderTask       ReminderType = "task"
)

// Valid reports whether t is a known reminder type.
func (t ReminderType) Valid() bool {
	return t == ReminderMedication || t == ReminderTask
}

// Reminder is a daily item on the home screen.
type Reminder struct {
	ID        int          `json:"id" validate:"required"`
	Title     string       `json:"title" validate:"required,max=200"`
	Time      string       `json:"time" validate:"required,clock"`
	Completed bool         `json:"completed"`
	Type      ReminderType `json:"type" validate:"oneof=medication task"`
}

// IsPending returns true if the reminder is not completed.
func (r Reminder) IsPending() bool {
	return !r.Completed
}

// DefaultReminders returns the reminder list written on first launch.
func DefaultReminders() []Reminder {
	return []Reminder{
		{ID: 1, Title: "Take morning medication", Time: "08:00", Type: ReminderMedication},
		{ID: 2, Title: "Check blood pressure", Time: "14:00", Type: ReminderTask},
		{ID: 3, Title: "Evening medication", Time: "20:00", Type: ReminderMedication},
	}
}

// ToggleReminder returns a copy of list with the completed flag of the
// reminder matching id flipped. Order and all other fields are preserved.
// When no reminder matches, the original list is returned with false.
func ToggleReminder(list []Reminder, id int) ([]Reminder, bool) {
	idx := -1
	for i, r := range list {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return list, false
	}

	out := make([]Reminder, len(list))
	copy(out, list)
	out[idx].Completed = !out[idx].Completed
	return out, true
}

// PendingReminders returns the incomplete reminders in list order.
func PendingReminders(list []Reminder) []Reminder {
	pending := make([]Reminder, 0, len(list))
	for _, r := range list {
		if r.IsPending() {
			pending = append(pending, r)
		}
	}
	return pending
}
