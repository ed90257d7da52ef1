package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/safecompanion/internal/daemon"
	"github.com/manav03panchal/safecompanion/internal/model"
	"github.com/manav03panchal/safecompanion/internal/monitor"
	"github.com/manav03panchal/safecompanion/internal/validate"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary = lipgloss.Color("#2563EB") // Blue
	colorDanger  = lipgloss.Color("#DC2626") // Red
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorWarning = lipgloss.Color("#F59E0B") // Yellow
	colorSuccess = lipgloss.Color("#10B981") // Green

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorDanger)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleContact = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorDanger).
			Padding(0, 1)
)

// maxNameWidth bounds the NAME column of the contact table.
const maxNameWidth = 32

// HomePreviewCount is how many pending reminders the home summary lists.
const HomePreviewCount = 2

// Home is the data behind the home summary.
type Home struct {
	Pending  []model.Reminder
	Primary  *model.EmergencyContact
	Activity model.Activity
	Now      time.Time
}

// MoreReminders returns the "+N more reminders" line, or "" when every
// pending reminder is already listed.
func MoreReminders(pending int) string {
	if pending <= HomePreviewCount {
		return ""
	}
	return fmt.Sprintf("+%d more reminders", pending-HomePreviewCount)
}

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) render(style lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return style.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.render(styleMuted, text))
}

// ContactName formats a contact name.
func (c *CLIFormatter) ContactName(name string) string {
	return c.render(styleContact, name)
}

// Badge formats a count badge.
func (c *CLIFormatter) Badge(n int) string {
	return c.render(styleBadge, fmt.Sprintf("%d", n))
}

// PrintNotice prints a notice using its level.
func (c *CLIFormatter) PrintNotice(n model.Notice) {
	text := n.Title
	if n.Message != "" {
		text += ": " + n.Message
	}
	switch n.Level {
	case model.NoticeError:
		c.Error(text)
	case model.NoticeWarning:
		c.Warning(text)
	default:
		c.Success(text)
	}
}

// PrintNotices prints every notice in order.
func (c *CLIFormatter) PrintNotices(notices []model.Notice) {
	for _, n := range notices {
		c.PrintNotice(n)
	}
}

// PrintHome prints the home summary.
func (c *CLIFormatter) PrintHome(h Home) {
	c.Title("SafeCompanion")
	c.Println()

	c.Printf("Today's Reminders %s\n", c.Badge(len(h.Pending)))
	if len(h.Pending) == 0 {
		c.Muted("  No pending reminders.")
	}
	for i, r := range h.Pending {
		if i == HomePreviewCount {
			break
		}
		c.Printf("  ○ %s  %s\n", r.Time, r.Title)
	}
	if more := MoreReminders(len(h.Pending)); more != "" {
		c.Muted("  " + more)
	}
	c.Println()

	if h.Primary != nil {
		c.Printf("Primary contact: %s (%s)\n", c.ContactName(h.Primary.Name), h.Primary.Phone)
	} else {
		c.Warning("No emergency contacts configured.")
	}
	c.Printf("Last activity: %s\n", FormatAgo(h.Activity.LastActivity, h.Now))
	c.Println()
	c.Muted("Run 'safecompanion sos' to alert your emergency contacts.")
}

// PrintContacts prints the contact list as a table.
func (c *CLIFormatter) PrintContacts(contacts []model.EmergencyContact, sentinel string) {
	if len(contacts) == 0 {
		c.Muted("No emergency contacts.")
		return
	}
	rows := make([]TableRow, 0, len(contacts))
	for _, ct := range contacts {
		note := ""
		if ct.IsSentinel(sentinel) {
			note = "emergency number, not messaged"
		}
		rows = append(rows, TableRow{Columns: []string{ct.ShortID(), validate.TruncateString(ct.Name, maxNameWidth), ct.Phone, note}})
	}
	c.PrintTable([]string{"ID", "NAME", "PHONE", "NOTE"}, rows)
}

// PrintContactAdded prints a confirmation for a new contact.
func (c *CLIFormatter) PrintContactAdded(ct model.EmergencyContact) {
	c.Success(fmt.Sprintf("Added %s (%s)", c.ContactName(ct.Name), ct.Phone))
	c.Muted("  ID: " + ct.ShortID())
}

// PrintCall prints the dial URI for a contact.
func (c *CLIFormatter) PrintCall(ct model.EmergencyContact) {
	c.Printf("Calling %s\n", c.ContactName(ct.Name))
	c.Println(ct.DialURI())
}

// PrintReminders prints reminders in list order.
func (c *CLIFormatter) PrintReminders(list []model.Reminder) {
	if len(list) == 0 {
		c.Muted("No reminders.")
		return
	}
	for _, r := range list {
		mark := "[ ]"
		title := r.Title
		if r.Completed {
			mark = "[x]"
			title = c.render(styleMuted, title)
		}
		c.Printf("%s %2d  %s  %s %s\n", mark, r.ID, r.Time, title, c.render(styleMuted, "("+string(r.Type)+")"))
	}
}

// PrintToggled prints the state of the toggled reminder.
func (c *CLIFormatter) PrintToggled(list []model.Reminder, id int) {
	for _, r := range list {
		if r.ID != id {
			continue
		}
		if r.Completed {
			c.Success(fmt.Sprintf("Completed: %s", r.Title))
		} else {
			c.Success(fmt.Sprintf("Marked pending: %s", r.Title))
		}
		return
	}
}

// PrintAlertOutcome prints the per-contact results of an SOS alert.
func (c *CLIFormatter) PrintAlertOutcome(o *model.AlertOutcome) {
	if o.Shared {
		c.Muted("An alert was already in progress; showing its result.")
	}
	if o.Location != nil {
		c.Printf("Location: %s\n", o.Location.MapLink())
	} else {
		c.Muted("Location: unavailable")
	}
	c.Printf("Transport: %s\n", o.Transport)

	rows := make([]TableRow, 0, len(o.Results))
	for _, r := range o.Results {
		rows = append(rows, TableRow{Columns: []string{r.Name, r.Phone, string(r.Status), r.Error}})
	}
	c.PrintTable([]string{"CONTACT", "PHONE", "STATUS", "ERROR"}, rows)
	c.Printf("Notified %d of %d contacts", o.Notified(), o.Attempted())
	if skipped := o.Skipped(); skipped > 0 {
		c.Printf(", %d skipped", skipped)
	}
	if failed := o.Failed(); failed > 0 {
		c.Printf(", %d failed", failed)
	}
	c.Println()
}

// PrintCheckIn prints a recorded check-in.
func (c *CLIFormatter) PrintCheckIn(a model.Activity) {
	c.Success(fmt.Sprintf("Checked in at %s", FormatTime(a.LastActivity)))
}

// PrintCheckResult prints one inactivity check.
func (c *CLIFormatter) PrintCheckResult(r *monitor.CheckResult) {
	c.Printf("Last activity: %s\n", FormatAgo(r.LastActivity, r.At))
	if r.Threshold > 0 {
		pct := float64(r.Idle) / float64(r.Threshold) * 100
		c.Printf("Idle: %s %3.0f%% of %s\n", ProgressBar(pct, 20), min(pct, 100), monitor.FormatThreshold(r.Threshold))
	}
	switch {
	case r.CoolingDown:
		c.Warning("Inactive, notice already raised recently.")
	case r.Inactive:
		c.Warning("Inactive.")
	default:
		c.Success("Active.")
	}
	c.PrintNotices(r.Notices)
	if r.Alert != nil {
		c.PrintAlertOutcome(r.Alert)
	}
}

// PrintMonitorStatus prints the monitor process status.
func (c *CLIFormatter) PrintMonitorStatus(s *daemon.Status) {
	if !s.Running {
		c.Muted("Monitor is not running.")
		c.Muted("Use 'safecompanion monitor start' to start it.")
		return
	}
	c.Success(fmt.Sprintf("Monitor running (PID %d)", s.PID))
	if s.Uptime != "" {
		c.Printf("  Uptime: %s\n", s.Uptime)
	}
	if s.MetricsAddr != "" {
		c.Printf("  Metrics: http://%s/metrics\n", s.MetricsAddr)
	}
	c.Printf("  Log: %s\n", s.LogFile)
}

// ProgressBar creates a simple progress bar.
func ProgressBar(percentage float64, width int) string {
	percentage = max(0, min(percentage, 100))
	filled := int(float64(width) * percentage / 100)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// TableRow is one row of PrintTable.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(col))
			}
		}
	}

	var header strings.Builder
	var sep strings.Builder
	for i, h := range headers {
		fmt.Fprintf(&header, "%-*s  ", widths[i], h)
		sep.WriteString(strings.Repeat("─", widths[i]) + "  ")
	}
	c.Println(strings.TrimRight(c.render(styleBold, header.String()), " "))
	c.Println(strings.TrimRight(sep.String(), " "))

	for _, row := range rows {
		var line strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				line.WriteString(col + strings.Repeat(" ", widths[i]-lipgloss.Width(col)) + "  ")
			}
		}
		c.Println(strings.TrimRight(line.String(), " "))
	}
}
