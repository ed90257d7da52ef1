package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/safecompanion/internal/alert"
	"github.com/manav03panchal/safecompanion/internal/model"
)

// ReminderService lists and toggles reminders.
type ReminderService interface {
	List(ctx context.Context) ([]model.Reminder, error)
	Toggle(ctx context.Context, id int) ([]model.Reminder, bool, error)
}

// ContactLister lists emergency contacts.
type ContactLister interface {
	List(ctx context.Context) ([]model.EmergencyContact, error)
}

// ActivityReader returns the last recorded activity.
type ActivityReader interface {
	Get(ctx context.Context) (*model.Activity, error)
}

// Alerter sends the emergency alert.
type Alerter interface {
	Send(ctx context.Context) (*model.AlertOutcome, error)
}

// tickMsg is sent when the clock ticks.
type tickMsg time.Time

// loadedMsg carries freshly loaded data.
type loadedMsg struct {
	reminders []model.Reminder
	contacts  []model.EmergencyContact
	activity  *model.Activity
}

// toggledMsg carries the reminder list after a toggle.
type toggledMsg struct {
	reminders []model.Reminder
	id        int
	found     bool
}

// sentMsg carries the result of an SOS alert.
type sentMsg struct {
	outcome *model.AlertOutcome
	err     error
}

// errMsg is sent when an error occurs.
type errMsg struct {
	err error
}

// HomeConfig holds the services behind the home screen.
type HomeConfig struct {
	Reminders       ReminderService
	Contacts        ContactLister
	Activity        ActivityReader
	Alert           Alerter
	RefreshInterval time.Duration
	Now             func() time.Time
}

// HomeModel is the bubbletea model for the home screen.
type HomeModel struct {
	ctx context.Context
	cfg HomeConfig

	// Data
	reminders []model.Reminder
	contacts  []model.EmergencyContact
	activity  *model.Activity
	outcome   *model.AlertOutcome

	// UI state
	cursor     int
	confirming bool
	sending    bool
	width      int
	height     int
	err        error
	notice     *model.Notice
	noticeExp  time.Time
}

// NewHomeModel creates a new home screen model.
func NewHomeModel(ctx context.Context, cfg HomeConfig) *HomeModel {
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &HomeModel{ctx: ctx, cfg: cfg}
}

// Init loads data and starts the clock.
func (m *HomeModel) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.loadCmd())
}

// Update handles messages and updates the model.
func (m *HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if !m.noticeExp.IsZero() && m.cfg.Now().After(m.noticeExp) {
			m.notice = nil
			m.noticeExp = time.Time{}
		}
		return m, m.tickCmd()

	case loadedMsg:
		m.reminders = msg.reminders
		m.contacts = msg.contacts
		m.activity = msg.activity
		m.cursor = min(m.cursor, max(len(m.reminders)-1, 0))
		m.err = nil
		return m, nil

	case toggledMsg:
		m.reminders = msg.reminders
		if !msg.found {
			m.setNotice(model.NewWarning("Reminder", fmt.Sprintf("Reminder %d no longer exists.", msg.id)), 3*time.Second)
		}
		return m, nil

	case sentMsg:
		m.sending = false
		m.outcome = msg.outcome
		if msg.err != nil {
			m.setNotice(alert.FailedNotice(), 5*time.Second)
		} else {
			m.setNotice(alert.SentNotice(), 5*time.Second)
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input.
func (m *HomeModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.confirming {
		switch key {
		case "y", "enter":
			m.confirming = false
			m.sending = true
			return m, m.sendCmd()
		case "n", "esc", "q":
			m.confirming = false
		}
		return m, nil
	}

	switch key {
	case "q":
		return m, tea.Quit

	case "s":
		if !m.sending {
			m.confirming = true
		}
		return m, nil

	case "j", "down":
		if m.cursor < len(m.reminders)-1 {
			m.cursor++
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case " ", "space", "enter":
		if m.cursor < len(m.reminders) {
			return m, m.toggleCmd(m.reminders[m.cursor].ID)
		}
		return m, nil

	case "r":
		return m, m.loadCmd()
	}

	return m, nil
}

// View renders the home screen.
func (m *HomeModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sections := []string{m.renderHeader()}

	if m.err != nil {
		sections = append(sections, StyleError.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	if m.notice != nil {
		sections = append(sections, m.renderNotice(*m.notice))
	}
	if m.outcome != nil {
		sections = append(sections, StyleMuted.Render(fmt.Sprintf("Last alert: notified %d of %d contacts",
			m.outcome.Notified(), m.outcome.Attempted())))
	}

	sos := &SOSComponent{Confirming: m.confirming, Sending: m.sending, Width: m.width}
	sections = append(sections, sos.View())

	reminders := &RemindersComponent{Reminders: m.reminders, Cursor: m.cursor, Width: m.width}
	sections = append(sections, reminders.View())

	contact := &ContactComponent{Primary: m.primary(), Activity: m.activity, Now: m.cfg.Now(), Width: m.width}
	sections = append(sections, contact.View())

	sections = append(sections, HelpBar(homeKeys...))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *HomeModel) renderHeader() string {
	title := StyleTitle.Render("SafeCompanion")
	now := StyleMuted.Render(m.cfg.Now().Format("Mon Jan 2, 15:04"))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", now) + "\n"
}

func (m *HomeModel) renderNotice(n model.Notice) string {
	text := n.Title + ": " + n.Message
	switch n.Level {
	case model.NoticeError:
		return StyleError.Render(text)
	case model.NoticeWarning:
		return StyleWarning.Render(text)
	default:
		return StyleSuccess.Render(text)
	}
}

func (m *HomeModel) primary() *model.EmergencyContact {
	if len(m.contacts) == 0 {
		return nil
	}
	return &m.contacts[0]
}

// setNotice shows a notice until d has passed.
func (m *HomeModel) setNotice(n model.Notice, d time.Duration) {
	m.notice = &n
	m.noticeExp = m.cfg.Now().Add(d)
}

func (m *HomeModel) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *HomeModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		reminders, err := m.cfg.Reminders.List(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		contacts, err := m.cfg.Contacts.List(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		activity, err := m.cfg.Activity.Get(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return loadedMsg{reminders: reminders, contacts: contacts, activity: activity}
	}
}

func (m *HomeModel) toggleCmd(id int) tea.Cmd {
	return func() tea.Msg {
		list, found, err := m.cfg.Reminders.Toggle(m.ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return toggledMsg{reminders: list, id: id, found: found}
	}
}

func (m *HomeModel) sendCmd() tea.Cmd {
	return func() tea.Msg {
		outcome, err := m.cfg.Alert.Send(m.ctx)
		return sentMsg{outcome: outcome, err: err}
	}
}

// Run starts the home screen.
func Run(ctx context.Context, cfg HomeConfig) error {
	p := tea.NewProgram(NewHomeModel(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
