package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Contact Tests
// =============================================================================

func TestDefaultContacts(t *testing.T) {
	contacts := DefaultContacts("")
	require.Len(t, contacts, 1)
	assert.Equal(t, "1", contacts[0].ID)
	assert.Equal(t, "Family Member", contacts[0].Name)
	assert.Equal(t, "911", contacts[0].Phone)

	custom := DefaultContacts("112")
	assert.Equal(t, "112", custom[0].Phone)
}

func TestNewContact(t *testing.T) {
	c := NewContact("  Jane  ", " +15551234567 ")
	assert.Equal(t, "Jane", c.Name)
	assert.Equal(t, "+15551234567", c.Phone)
	assert.Len(t, c.ID, 36)
	assert.Len(t, c.ShortID(), 8)
}

func TestContactMessageable(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  bool
	}{
		{"dialable", "+15551234567", true},
		{"sentinel", "911", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := EmergencyContact{ID: "x", Name: "X", Phone: tt.phone}
			assert.Equal(t, tt.want, c.Messageable(DefaultEmergencySentinel))
		})
	}
}

func TestContactDialURI(t *testing.T) {
	c := EmergencyContact{Phone: "+1 555 123 4567"}
	assert.Equal(t, "tel:+15551234567", c.DialURI())
}

func TestRemoveContact(t *testing.T) {
	list := []EmergencyContact{
		{ID: "1", Name: "A", Phone: "911"},
		{ID: "2", Name: "B", Phone: "+15550000002"},
		{ID: "3", Name: "C", Phone: "+15550000003"},
	}

	out, ok := RemoveContact(list, "2")
	require.True(t, ok)
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "3", out[1].ID)
	assert.Len(t, list, 3, "input must not be modified")

	same, ok := RemoveContact(list, "missing")
	assert.False(t, ok)
	assert.Equal(t, list, same)
}

func TestFindContactByPrefix(t *testing.T) {
	list := []EmergencyContact{
		{ID: "1"},
		{ID: "abcdef12-0000-0000-0000-000000000000"},
	}
	assert.Equal(t, 0, FindContact(list, "1"))
	assert.Equal(t, 1, FindContact(list, "abcdef12"))
	assert.Equal(t, -1, FindContact(list, "abc"))
}

// =============================================================================
// Reminder Tests
// =============================================================================

func TestDefaultReminders(t *testing.T) {
	list := DefaultReminders()
	require.Len(t, list, 3)

	assert.Equal(t, Reminder{ID: 1, Title: "Take morning medication", Time: "08:00", Type: ReminderMedication}, list[0])
	assert.Equal(t, Reminder{ID: 2, Title: "Check blood pressure", Time: "14:00", Type: ReminderTask}, list[1])
	assert.Equal(t, Reminder{ID: 3, Title: "Evening medication", Time: "20:00", Type: ReminderMedication}, list[2])
	for _, r := range list {
		assert.False(t, r.Completed)
	}
}

func TestToggleReminder(t *testing.T) {
	list := DefaultReminders()

	out, found := ToggleReminder(list, 2)
	require.True(t, found)
	require.Len(t, out, 3)
	assert.True(t, out[1].Completed)
	assert.False(t, out[0].Completed)
	assert.False(t, out[2].Completed)
	assert.Equal(t, list[1].Title, out[1].Title)
	assert.False(t, list[1].Completed, "input must not be modified")

	back, found := ToggleReminder(out, 2)
	require.True(t, found)
	assert.Equal(t, list, back)
}

func TestToggleReminderUnknownID(t *testing.T) {
	list := DefaultReminders()
	out, found := ToggleReminder(list, 99)
	assert.False(t, found)
	assert.Equal(t, list, out)
}

func TestPendingReminders(t *testing.T) {
	list := DefaultReminders()
	list[0].Completed = true

	pending := PendingReminders(list)
	require.Len(t, pending, 2)
	assert.Equal(t, 2, pending[0].ID)
	assert.Equal(t, 3, pending[1].ID)
}

func TestReminderTypeValid(t *testing.T) {
	assert.True(t, ReminderMedication.Valid())
	assert.True(t, ReminderTask.Valid())
	assert.False(t, ReminderType("chore").Valid())
}

// =============================================================================
// Location Tests
// =============================================================================

func TestLocationMapLink(t *testing.T) {
	fix := LocationFix{Latitude: 40.0, Longitude: -70.0}
	assert.Equal(t, "https://maps.google.com/?q=40,-70", fix.MapLink())

	precise := LocationFix{Latitude: 37.4219983, Longitude: -122.084}
	assert.Equal(t, "https://maps.google.com/?q=37.4219983,-122.084", precise.MapLink())
}

// =============================================================================
// Alert Outcome Tests
// =============================================================================

func TestAlertOutcomeCounts(t *testing.T) {
	o := &AlertOutcome{
		Results: []ContactResult{
			{Status: DeliveryExcluded},
			{Status: DeliveryDelivered},
			{Status: DeliveryDelivered},
			{Status: DeliveryUnavailable},
			{Status: DeliveryFailed},
		},
	}

	assert.Equal(t, 4, o.Attempted())
	assert.Equal(t, 2, o.Notified())
	assert.Equal(t, 1, o.Skipped())
	assert.Equal(t, 1, o.Failed())
}

func TestAlertOutcomeDuration(t *testing.T) {
	start := time.Now()
	o := &AlertOutcome{StartedAt: start}
	assert.Zero(t, o.Duration())

	o.FinishedAt = start.Add(2 * time.Second)
	assert.Equal(t, 2*time.Second, o.Duration())
}

// =============================================================================
// Activity Tests
// =============================================================================

func TestActivityIdleFor(t *testing.T) {
	now := time.Now()
	a := Activity{LastActivity: now.Add(-5 * time.Hour)}
	assert.Equal(t, 5*time.Hour, a.IdleFor(now))

	assert.Zero(t, Activity{}.IdleFor(now))
	assert.Zero(t, Activity{LastActivity: now.Add(time.Hour)}.IdleFor(now))
}

func TestActivityNoticedWithin(t *testing.T) {
	now := time.Now()
	assert.False(t, Activity{}.NoticedWithin(now, time.Hour))

	a := Activity{LastNotice: now.Add(-10 * time.Minute)}
	assert.True(t, a.NoticedWithin(now, 30*time.Minute))
	assert.False(t, a.NoticedWithin(now, 5*time.Minute))
}
