package tui

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/safecompanion/internal/errors"
	"github.com/manav03panchal/safecompanion/internal/model"
	"github.com/manav03panchal/safecompanion/internal/reminders"
	"github.com/manav03panchal/safecompanion/internal/storage"
)

type fakeAlerter struct {
	calls int
	err   error
}

func (a *fakeAlerter) Send(context.Context) (*model.AlertOutcome, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return &model.AlertOutcome{ID: "alert-1"}, nil
}

type failingContacts struct{}

func (failingContacts) List(context.Context) ([]model.EmergencyContact, error) {
	return nil, errors.ErrStoreUnavailable
}

var testNow = time.Date(2026, 4, 2, 12, 0, 0, 0, time.Local)

func newHome(t *testing.T, alerter *fakeAlerter) *HomeModel {
	t.Helper()
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	_, err = storage.NewSeeder(db, "").Seed(ctx)
	require.NoError(t, err)
	activity := storage.NewActivityRepo(db)
	_, err = activity.Touch(ctx, testNow.Add(-3*time.Hour), "test")
	require.NoError(t, err)

	m := NewHomeModel(ctx, HomeConfig{
		Reminders: reminders.NewService(storage.NewReminderRepo(db)),
		Contacts:  storage.NewContactRepo(db),
		Activity:  activity,
		Alert:     alerter,
		Now:       func() time.Time { return testNow },
	})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	m.Update(m.loadCmd()())
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs any resulting command once.
func press(m *HomeModel, s string) tea.Cmd {
	_, cmd := m.Update(key(s))
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if _, quit := msg.(tea.QuitMsg); quit {
		return cmd
	}
	m.Update(msg)
	return nil
}

// =============================================================================
// Component Tests
// =============================================================================

func TestRemindersComponentView(t *testing.T) {
	list := model.DefaultReminders()
	list[0].Completed = true

	view := (&RemindersComponent{Reminders: list, Cursor: 1, Width: 80}).View()
	assert.Contains(t, view, "Today's Reminders (2 pending)")
	assert.Contains(t, view, "> ○ 14:00  Check blood pressure")
	assert.Contains(t, view, "● 08:00  Take morning medication")
}

func TestRemindersComponentEmpty(t *testing.T) {
	view := (&RemindersComponent{Width: 80}).View()
	assert.Contains(t, view, "No reminders")
}

func TestContactComponentView(t *testing.T) {
	t.Run("with_contact", func(t *testing.T) {
		primary := model.EmergencyContact{ID: "1", Name: "Family Member", Phone: "911"}
		view := (&ContactComponent{
			Primary:  &primary,
			Activity: &model.Activity{LastActivity: testNow.Add(-2 * time.Hour)},
			Now:      testNow,
			Width:    80,
		}).View()
		assert.Contains(t, view, "Family Member")
		assert.Contains(t, view, "911")
		assert.Contains(t, view, "Last activity: 2 hours ago")
	})

	t.Run("no_contact", func(t *testing.T) {
		view := (&ContactComponent{Now: testNow, Width: 80}).View()
		assert.Contains(t, view, "No emergency contacts configured")
		assert.Contains(t, view, "Last activity: never")
	})
}

func TestSOSComponentView(t *testing.T) {
	assert.Contains(t, (&SOSComponent{Width: 80}).View(), "SOS")

	confirm := (&SOSComponent{Confirming: true, Width: 80}).View()
	assert.Contains(t, confirm, "Emergency Alert")
	assert.Contains(t, confirm, "Are you sure you want to send an emergency alert?")
	assert.Contains(t, confirm, "Send Alert")
	assert.Contains(t, confirm, "Cancel")

	assert.Contains(t, (&SOSComponent{Sending: true, Width: 80}).View(), "Sending emergency alert")
}

func TestHelpBar(t *testing.T) {
	bar := HelpBar(homeKeys...)
	for _, k := range homeKeys {
		assert.Contains(t, bar, k.key)
		assert.Contains(t, bar, k.desc)
	}
}

// =============================================================================
// Home Model Tests
// =============================================================================

func TestHomeLoad(t *testing.T) {
	m := newHome(t, &fakeAlerter{})

	require.Len(t, m.reminders, 3)
	require.NotNil(t, m.primary())
	assert.Equal(t, "Family Member", m.primary().Name)
	assert.NoError(t, m.err)

	view := m.View()
	assert.Contains(t, view, "SafeCompanion")
	assert.Contains(t, view, "Take morning medication")
	assert.Contains(t, view, "Last activity: 3 hours ago")
}

func TestHomeViewBeforeResize(t *testing.T) {
	m := NewHomeModel(context.Background(), HomeConfig{})
	assert.Equal(t, "Loading...", m.View())
}

func TestHomeLoadError(t *testing.T) {
	m := newHome(t, &fakeAlerter{})
	m.cfg.Contacts = failingContacts{}

	m.Update(m.loadCmd()())
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "Error:")
}

func TestHomeCursorMovement(t *testing.T) {
	m := newHome(t, &fakeAlerter{})

	press(m, "k")
	assert.Equal(t, 0, m.cursor, "cursor stays at the top")

	press(m, "j")
	press(m, "j")
	press(m, "j")
	assert.Equal(t, 2, m.cursor, "cursor stays at the bottom")

	press(m, "k")
	assert.Equal(t, 1, m.cursor)
}

func TestHomeToggle(t *testing.T) {
	m := newHome(t, &fakeAlerter{})

	press(m, "j")
	press(m, " ")
	assert.True(t, m.reminders[1].Completed)
	assert.False(t, m.reminders[0].Completed)

	press(m, "enter")
	assert.False(t, m.reminders[1].Completed)

	// Persisted: a reload sees the same state.
	press(m, " ")
	m.Update(m.loadCmd()())
	assert.True(t, m.reminders[1].Completed)
}

func TestHomeSOSConfirmAndSend(t *testing.T) {
	alerter := &fakeAlerter{}
	m := newHome(t, alerter)

	press(m, "s")
	assert.True(t, m.confirming)
	assert.Zero(t, alerter.calls, "nothing is sent before confirmation")
	assert.Contains(t, m.View(), "Are you sure you want to send an emergency alert?")

	press(m, "y")
	assert.False(t, m.confirming)
	assert.False(t, m.sending)
	assert.Equal(t, 1, alerter.calls)
	require.NotNil(t, m.notice)
	assert.Equal(t, "Emergency Alert Sent", m.notice.Title)
	assert.Contains(t, m.View(), "Your emergency contacts have been notified.")
}

func TestHomeSOSCancel(t *testing.T) {
	alerter := &fakeAlerter{}
	m := newHome(t, alerter)

	press(m, "s")
	press(m, "n")
	assert.False(t, m.confirming)
	assert.Zero(t, alerter.calls)

	press(m, "s")
	press(m, "esc")
	assert.False(t, m.confirming)
	assert.Zero(t, alerter.calls)
}

func TestHomeSOSFailure(t *testing.T) {
	alerter := &fakeAlerter{err: fmt.Errorf("%w: store down", errors.ErrAlertFailed)}
	m := newHome(t, alerter)

	press(m, "s")
	press(m, "y")
	require.NotNil(t, m.notice)
	assert.Equal(t, "Error", m.notice.Title)
	assert.Equal(t, model.NoticeError, m.notice.Level)
	assert.Contains(t, m.View(), "Failed to send emergency alert. Please try again.")
}

func TestHomeNoticeExpires(t *testing.T) {
	m := newHome(t, &fakeAlerter{})
	now := testNow
	m.cfg.Now = func() time.Time { return now }

	press(m, "s")
	press(m, "y")
	require.NotNil(t, m.notice)

	now = now.Add(10 * time.Second)
	m.Update(tickMsg(now))
	assert.Nil(t, m.notice)
}

func TestHomeQuit(t *testing.T) {
	m := newHome(t, &fakeAlerter{})
	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHomeQuitWhileConfirmingCancels(t *testing.T) {
	m := newHome(t, &fakeAlerter{})
	press(m, "s")
	assert.Nil(t, press(m, "q"))
	assert.False(t, m.confirming)
}
