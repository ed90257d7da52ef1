package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/manav03panchal/safecompanion/internal/alert"
	"github.com/manav03panchal/safecompanion/internal/logging"
	"github.com/manav03panchal/safecompanion/internal/model"
)

// Inactivity notice texts.
const (
	InactivityTitle = "Inactivity Alert"
	ImFine          = "I'm Fine"
)

// CheckResult describes one run of the inactivity check.
type CheckResult struct {
	At           time.Time           `json:"at"`
	LastActivity time.Time           `json:"last_activity"`
	Idle         time.Duration       `json:"idle"`
	Threshold    time.Duration       `json:"threshold"`
	Inactive     bool                `json:"inactive"`
	CoolingDown  bool                `json:"cooling_down"`
	Notices      []model.Notice      `json:"notices,omitempty"`
	DueReminders []model.Reminder    `json:"due_reminders,omitempty"`
	Alert        *model.AlertOutcome `json:"alert,omitempty"`
	AlertError   string              `json:"alert_error,omitempty"`
}

// InactivityMessage returns the question asked after threshold of inactivity.
func InactivityMessage(threshold time.Duration) string {
	return fmt.Sprintf("No movement detected for over %s. Are you okay?", FormatThreshold(threshold))
}

// FormatThreshold renders whole hours as "4 hours" and anything else in
// minutes.
func FormatThreshold(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		if h := int(d / time.Hour); h != 1 {
			return fmt.Sprintf("%d hours", h)
		}
		return "1 hour"
	}
	if m := int(d / time.Minute); m != 1 {
		return fmt.Sprintf("%d minutes", m)
	}
	return "1 minute"
}

// Check runs one inactivity check. Idle time above the threshold raises a
// notice unless one was raised within the cooldown, and sends an SOS when
// auto-alert is on. Due reminders raise one notice per reminder per day.
func (m *Monitor) Check(ctx context.Context) (result *CheckResult, err error) {
	defer func() {
		if m.recorder != nil {
			m.recorder.RecordCheck(result, err)
		}
	}()

	session, err := m.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	if session.Close != nil {
		defer func() {
			if cerr := session.Close(); cerr != nil {
				logging.WarnContext(ctx, "failed to close session", logging.KeyError, cerr)
			}
		}()
	}

	now := m.opts.Now()
	activity, err := session.Activity.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read activity: %w", err)
	}

	result = &CheckResult{
		At:           now,
		LastActivity: activity.LastActivity,
		Idle:         activity.IdleFor(now),
		Threshold:    m.opts.Threshold,
	}
	result.Inactive = m.opts.Threshold > 0 && result.Idle > m.opts.Threshold

	if result.Inactive {
		if err := m.handleInactive(ctx, session, activity, result); err != nil {
			return nil, err
		}
	} else {
		logging.DebugLog("user active", logging.KeyIdle, result.Idle.Round(time.Minute))
	}

	if session.Reminders != nil {
		m.checkReminders(ctx, session.Reminders, result)
	}

	m.mu.Lock()
	m.lastCheck = now
	m.lastResult = result
	m.mu.Unlock()
	return result, nil
}

func (m *Monitor) handleInactive(ctx context.Context, session *Session, activity *model.Activity, result *CheckResult) error {
	if activity.NoticedWithin(result.At, m.opts.Cooldown) {
		result.CoolingDown = true
		logging.DebugLog("inactivity notice suppressed by cooldown",
			logging.KeyIdle, result.Idle.Round(time.Minute))
		return nil
	}

	notice := model.NewWarning(InactivityTitle, InactivityMessage(m.opts.Threshold))
	m.notify(ctx, notice, result)
	if err := session.Activity.MarkNoticed(ctx, result.At); err != nil {
		return fmt.Errorf("record notice: %w", err)
	}

	if !m.opts.AutoAlert || session.Alert == nil {
		return nil
	}

	outcome, err := session.Alert.Send(ctx)
	if err != nil {
		result.AlertError = err.Error()
		m.notify(ctx, alert.FailedNotice(), result)
		return nil
	}
	result.Alert = outcome
	m.notify(ctx, alert.SentNotice(), result)
	return nil
}

func (m *Monitor) checkReminders(ctx context.Context, lister DueLister, result *CheckResult) {
	due, err := lister.Due(ctx, result.At)
	if err != nil {
		logging.WarnContext(ctx, "failed to list due reminders", logging.KeyError, err)
		return
	}
	result.DueReminders = due

	day := result.At.Format(time.DateOnly)
	seen := make(map[string]bool, len(due))
	for _, r := range due {
		key := fmt.Sprintf("%d@%s", r.ID, day)
		seen[key] = true

		m.mu.Lock()
		_, done := m.notified[key]
		if !done {
			m.notified[key] = result.At
		}
		m.mu.Unlock()
		if done {
			continue
		}

		m.notify(ctx, model.NewWarning(
			fmt.Sprintf("Reminder Due: %s", r.Title),
			fmt.Sprintf("Scheduled for %s.", r.Time),
		), result)
	}

	// Forget reminders that were completed or belong to a past day.
	m.mu.Lock()
	for key := range m.notified {
		if !seen[key] {
			delete(m.notified, key)
		}
	}
	m.mu.Unlock()
}

func (m *Monitor) notify(ctx context.Context, notice model.Notice, result *CheckResult) {
	result.Notices = append(result.Notices, notice)
	if err := m.notifier.Notify(ctx, notice); err != nil {
		logging.WarnContext(ctx, "failed to deliver notice", "title", notice.Title, logging.KeyError, err)
	}
}
