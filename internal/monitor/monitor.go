// Package monitor runs periodic inactivity and reminder checks.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/manav03panchal/safecompanion/internal/logging"
	"github.com/manav03panchal/safecompanion/internal/model"
)

// ActivityStore reads and updates the activity record.
type ActivityStore interface {
	Get(ctx context.Context) (*model.Activity, error)
	MarkNoticed(ctx context.Context, at time.Time) error
}

// DueLister lists reminders whose time has passed.
type DueLister interface {
	Due(ctx context.Context, now time.Time) ([]model.Reminder, error)
}

// Alerter raises an emergency alert.
type Alerter interface {
	Send(ctx context.Context) (*model.AlertOutcome, error)
}

// Session holds the collaborators of one check. The store is opened per
// check so other processes can use it between runs.
type Session struct {
	Activity  ActivityStore
	Reminders DueLister
	Alert     Alerter
	Close     func() error
}

// OpenFunc opens a session for a single check.
type OpenFunc func(ctx context.Context) (*Session, error)

// Notifier delivers notices raised by a check.
type Notifier interface {
	Notify(ctx context.Context, notice model.Notice) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, notice model.Notice) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, notice model.Notice) error {
	return f(ctx, notice)
}

// LogNotifier writes notices to the log.
var LogNotifier = NotifierFunc(func(ctx context.Context, notice model.Notice) error {
	logging.WarnContext(ctx, notice.Title, "message", notice.Message, "level", string(notice.Level))
	return nil
})

// Recorder observes finished checks.
type Recorder interface {
	RecordCheck(result *CheckResult, err error)
}

// Options tune the monitor.
type Options struct {
	Interval  time.Duration
	Threshold time.Duration
	Cooldown  time.Duration
	AutoAlert bool
	Now       func() time.Time
}

// Monitor schedules checks with cron.
type Monitor struct {
	cron     *cron.Cron
	open     OpenFunc
	notifier Notifier
	recorder Recorder
	opts     Options

	mu         sync.Mutex
	running    bool
	lastCheck  time.Time
	lastResult *CheckResult
	// reminder id and date -> when the due notice was sent
	notified map[string]time.Time
}

// New creates a monitor. A nil notifier logs notices.
func New(open OpenFunc, notifier Notifier, opts Options) *Monitor {
	if notifier == nil {
		notifier = LogNotifier
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Monitor{
		cron:     cron.New(),
		open:     open,
		notifier: notifier,
		opts:     opts,
		notified: make(map[string]time.Time),
	}
}

// SetRecorder installs a recorder for finished checks.
func (m *Monitor) SetRecorder(r Recorder) {
	m.recorder = r
}

// Start schedules the check every Interval and returns immediately.
func (m *Monitor) Start() error {
	if m.opts.Interval <= 0 {
		return fmt.Errorf("monitor interval must be positive, got %s", m.opts.Interval)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return fmt.Errorf("monitor already started")
	}

	schedule := "@every " + m.opts.Interval.String()
	if _, err := m.cron.AddFunc(schedule, m.scheduledCheck); err != nil {
		return fmt.Errorf("failed to schedule inactivity check: %w", err)
	}
	m.cron.Start()
	m.running = true

	logging.Info("monitor started",
		"interval", m.opts.Interval,
		"threshold", m.opts.Threshold,
		"auto_alert", m.opts.AutoAlert)
	return nil
}

// Stop stops the scheduler and waits for a running check to finish.
func (m *Monitor) Stop() {
	m.mu.Lock()
	running := m.running
	m.running = false
	m.mu.Unlock()

	if !running {
		return
	}
	<-m.cron.Stop().Done()
	logging.Info("monitor stopped")
}

// NextRun returns the next scheduled check, or the zero time when stopped.
func (m *Monitor) NextRun() time.Time {
	entries := m.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	next := entries[0].Next
	for _, e := range entries[1:] {
		if e.Next.Before(next) {
			next = e.Next
		}
	}
	return next
}

// LastCheck returns when the last check finished.
func (m *Monitor) LastCheck() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCheck
}

// LastResult returns the result of the last successful check.
func (m *Monitor) LastResult() *CheckResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastResult
}

func (m *Monitor) scheduledCheck() {
	ctx := logging.NewRequestContext(context.Background())
	if _, err := m.Check(ctx); err != nil {
		logging.ErrorContext(ctx, "inactivity check failed", logging.KeyError, err)
	}
}
