package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/safecompanion/internal/daemon"
	"github.com/manav03panchal/safecompanion/internal/model"
	"github.com/manav03panchal/safecompanion/internal/monitor"
)

func newCLI(buf *bytes.Buffer) *CLIFormatter {
	return NewCLIFormatter(&Formatter{Writer: buf, Format: FormatCLI, ColorMode: ColorNever})
}

func newJSON(buf *bytes.Buffer) *JSONFormatter {
	return NewJSONFormatter(&Formatter{Writer: buf, Format: FormatJSON})
}

// =============================================================================
// Formatter Tests
// =============================================================================

func TestNewFormatter(t *testing.T) {
	f := NewFormatter()
	assert.NotNil(t, f)
	assert.Equal(t, FormatCLI, f.Format)
	assert.Equal(t, ColorAuto, f.ColorMode)
}

func TestParseFlags(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatPlain, ParseFormat("plain"))
	assert.Equal(t, FormatCLI, ParseFormat("fancy"))

	assert.Equal(t, ColorAlways, ParseColorMode("always"))
	assert.Equal(t, ColorNever, ParseColorMode("never"))
	assert.Equal(t, ColorAuto, ParseColorMode(""))
}

func TestFormatterIsColorEnabled(t *testing.T) {
	t.Run("color_always", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorAlways}
		assert.True(t, f.IsColorEnabled())
	})

	t.Run("color_never", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorNever}
		assert.False(t, f.IsColorEnabled())
	})

	t.Run("plain_is_never_colored", func(t *testing.T) {
		f := &Formatter{Format: FormatPlain, ColorMode: ColorAlways}
		assert.False(t, f.IsColorEnabled())
	})

	t.Run("color_auto_non_terminal", func(t *testing.T) {
		var buf bytes.Buffer
		f := &Formatter{Writer: &buf, ColorMode: ColorAuto}
		assert.False(t, f.IsColorEnabled())
	})
}

func TestFormatterJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf}

	require.NoError(t, f.JSON(map[string]string{"key": "value"}))
	assert.Contains(t, buf.String(), `"key": "value"`)
}

func TestFormatAgo(t *testing.T) {
	now := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "never", FormatAgo(time.Time{}, now))
	assert.Equal(t, "just now", FormatAgo(now.Add(-10*time.Second), now))
	assert.Equal(t, "3 hours ago", FormatAgo(now.Add(-3*time.Hour), now))
	assert.Equal(t, "5 minutes ago", FormatAgo(now.Add(-5*time.Minute), now))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░", ProgressBar(50, 10))
	assert.Equal(t, "██████████", ProgressBar(250, 10))
	assert.Equal(t, "░░░░░░░░░░", ProgressBar(-5, 10))
}

// =============================================================================
// Home Tests
// =============================================================================

func TestMoreReminders(t *testing.T) {
	assert.Empty(t, MoreReminders(0))
	assert.Empty(t, MoreReminders(2))
	assert.Equal(t, "+1 more reminders", MoreReminders(3))
	assert.Equal(t, "+5 more reminders", MoreReminders(7))
}

func TestPrintHome(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	primary := model.DefaultContacts("")[0]

	newCLI(&buf).PrintHome(Home{
		Pending:  model.DefaultReminders(),
		Primary:  &primary,
		Activity: model.Activity{LastActivity: now.Add(-3 * time.Hour)},
		Now:      now,
	})

	out := buf.String()
	assert.Contains(t, out, "Today's Reminders 3")
	assert.Contains(t, out, "08:00  Take morning medication")
	assert.Contains(t, out, "14:00  Check blood pressure")
	assert.NotContains(t, out, "Evening medication")
	assert.Contains(t, out, "+1 more reminders")
	assert.Contains(t, out, "Primary contact: Family Member (911)")
	assert.Contains(t, out, "Last activity: 3 hours ago")
}

func TestPrintHomeEmpty(t *testing.T) {
	var buf bytes.Buffer
	newCLI(&buf).PrintHome(Home{Now: time.Now()})

	out := buf.String()
	assert.Contains(t, out, "No pending reminders.")
	assert.Contains(t, out, "No emergency contacts configured.")
	assert.Contains(t, out, "Last activity: never")
	assert.NotContains(t, out, "more reminders")
}

func TestPrintHomeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newJSON(&buf).PrintHome(Home{Pending: model.DefaultReminders()[:1]}))

	var resp HomeResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, 1, resp.PendingCount)
	assert.Nil(t, resp.PrimaryContact)
	assert.Nil(t, resp.LastActivity)
}

// =============================================================================
// Contact Tests
// =============================================================================

func TestPrintContacts(t *testing.T) {
	var buf bytes.Buffer
	contacts := []model.EmergencyContact{
		{ID: "1", Name: "Family Member", Phone: "911"},
		{ID: "abcdef12-3456", Name: "Jane", Phone: "+15551234567"},
	}

	newCLI(&buf).PrintContacts(contacts, "911")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[2], "emergency number, not messaged")
	assert.Contains(t, lines[3], "abcdef12")
	assert.Contains(t, lines[3], "+15551234567")
}

func TestPrintContactsJSON(t *testing.T) {
	var buf bytes.Buffer
	contacts := []model.EmergencyContact{
		{ID: "1", Name: "Family Member", Phone: "911"},
		{ID: "2", Name: "Jane", Phone: "+15551234567"},
	}
	require.NoError(t, newJSON(&buf).PrintContacts(contacts, "911"))

	var resp ContactsResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Equal(t, 2, resp.Total)
	assert.False(t, resp.Contacts[0].Messageable)
	assert.True(t, resp.Contacts[1].Messageable)
	assert.Equal(t, "Jane", resp.Contacts[1].Name)
}

func TestPrintCall(t *testing.T) {
	var buf bytes.Buffer
	newCLI(&buf).PrintCall(model.EmergencyContact{Name: "Jane", Phone: "+1 555 123 4567"})
	assert.Contains(t, buf.String(), "tel:+15551234567")
}

// =============================================================================
// Reminder Tests
// =============================================================================

func TestPrintReminders(t *testing.T) {
	var buf bytes.Buffer
	list := model.DefaultReminders()
	list[0].Completed = true

	newCLI(&buf).PrintReminders(list)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "[x]"))
	assert.True(t, strings.HasPrefix(lines[1], "[ ]"))
	assert.Contains(t, lines[2], "Evening medication (medication)")
}

func TestPrintToggled(t *testing.T) {
	var buf bytes.Buffer
	list, _ := model.ToggleReminder(model.DefaultReminders(), 2)

	newCLI(&buf).PrintToggled(list, 2)
	assert.Contains(t, buf.String(), "Completed: Check blood pressure")
}

func TestPrintRemindersJSON(t *testing.T) {
	var buf bytes.Buffer
	list := model.DefaultReminders()
	list[1].Completed = true
	require.NoError(t, newJSON(&buf).PrintReminders(list))

	var resp RemindersResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Len(t, resp.Reminders, 3)
	assert.Equal(t, 2, resp.Pending)
}

// =============================================================================
// Alert Tests
// =============================================================================

func sampleOutcome() *model.AlertOutcome {
	return &model.AlertOutcome{
		ID:        "a1",
		Transport: "http",
		Location:  &model.LocationFix{Latitude: 40, Longitude: -70},
		Results: []model.ContactResult{
			{Name: "Family Member", Phone: "911", Status: model.DeliveryExcluded},
			{Name: "Jane", Phone: "+15551234567", Status: model.DeliveryDelivered},
			{Name: "Bob", Phone: "+15557654321", Status: model.DeliveryFailed, Error: "gateway returned 500"},
		},
	}
}

func TestPrintAlertOutcome(t *testing.T) {
	var buf bytes.Buffer
	newCLI(&buf).PrintAlertOutcome(sampleOutcome())

	out := buf.String()
	assert.Contains(t, out, "Location: https://maps.google.com/?q=40,-70")
	assert.Contains(t, out, "gateway returned 500")
	assert.Contains(t, out, "Notified 1 of 2 contacts, 1 failed")
}

func TestPrintAlertOutcomeNoLocation(t *testing.T) {
	var buf bytes.Buffer
	o := sampleOutcome()
	o.Location = nil
	o.Shared = true
	newCLI(&buf).PrintAlertOutcome(o)

	out := buf.String()
	assert.Contains(t, out, "Location: unavailable")
	assert.Contains(t, out, "already in progress")
}

func TestPrintAlertOutcomeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newJSON(&buf).PrintAlertOutcome(sampleOutcome()))

	var resp AlertResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "sent", resp.Status)
	assert.Equal(t, 2, resp.Attempted)
	assert.Equal(t, 1, resp.Notified)
	assert.Equal(t, 1, resp.Failed)
	assert.Zero(t, resp.Skipped)
}

// =============================================================================
// Notice and Monitor Tests
// =============================================================================

func TestPrintNotices(t *testing.T) {
	var buf bytes.Buffer
	newCLI(&buf).PrintNotices([]model.Notice{
		{Title: "Emergency Alert Sent", Message: "Your emergency contacts have been notified.", Level: model.NoticeInfo},
		model.NewWarning("Inactivity Alert", "Are you okay?"),
		{Title: "Error", Message: "Failed.", Level: model.NoticeError},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "✓ Emergency Alert Sent: Your emergency contacts have been notified.", lines[0])
	assert.Equal(t, "⚠ Inactivity Alert: Are you okay?", lines[1])
	assert.Equal(t, "✗ Error: Failed.", lines[2])
}

func TestPrintCheckResult(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	newCLI(&buf).PrintCheckResult(&monitor.CheckResult{
		At:           at,
		LastActivity: at.Add(-5 * time.Hour),
		Idle:         5 * time.Hour,
		Threshold:    4 * time.Hour,
		Inactive:     true,
		Notices:      []model.Notice{model.NewWarning(monitor.InactivityTitle, monitor.InactivityMessage(4*time.Hour))},
	})

	out := buf.String()
	assert.Contains(t, out, "Last activity: 5 hours ago")
	assert.Contains(t, out, "100% of 4 hours")
	assert.Contains(t, out, "Inactivity Alert: No movement detected for over 4 hours.")
}

func TestPrintCheckResultJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newJSON(&buf).PrintCheckResult(&monitor.CheckResult{
		Idle:      90 * time.Minute,
		Threshold: 4 * time.Hour,
	}))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.EqualValues(t, 5400, resp["idle_seconds"])
	assert.EqualValues(t, 14400, resp["threshold_seconds"])
	assert.Equal(t, false, resp["inactive"])
}

func TestPrintMonitorStatus(t *testing.T) {
	t.Run("stopped", func(t *testing.T) {
		var buf bytes.Buffer
		newCLI(&buf).PrintMonitorStatus(&daemon.Status{})
		assert.Contains(t, buf.String(), "Monitor is not running.")
	})

	t.Run("running", func(t *testing.T) {
		var buf bytes.Buffer
		newCLI(&buf).PrintMonitorStatus(&daemon.Status{
			Running:     true,
			PID:         4242,
			Uptime:      "3 hours",
			MetricsAddr: "127.0.0.1:9464",
			LogFile:     "/tmp/monitor.log",
		})
		out := buf.String()
		assert.Contains(t, out, "Monitor running (PID 4242)")
		assert.Contains(t, out, "Uptime: 3 hours")
		assert.Contains(t, out, "http://127.0.0.1:9464/metrics")
	})
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newJSON(&buf).PrintError("error", "contact not found", "Run 'safecompanion contacts list'"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "contact not found", resp.Error)
}
