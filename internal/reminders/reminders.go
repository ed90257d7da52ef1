// Package reminders implements the daily reminder workflows.
package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/manav03panchal/safecompanion/internal/logging"
	"github.com/manav03panchal/safecompanion/internal/model"
)

// Store is the persistence the service needs. *storage.ReminderRepo
// satisfies it.
type Store interface {
	List(ctx context.Context) ([]model.Reminder, error)
	Update(ctx context.Context, fn func([]model.Reminder) ([]model.Reminder, bool)) ([]model.Reminder, bool, error)
}

// Service reads and toggles reminders.
type Service struct {
	store Store
}

// NewService creates a reminder service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns all reminders in stored order.
func (s *Service) List(ctx context.Context) ([]model.Reminder, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return list, nil
}

// Pending returns the incomplete reminders in stored order.
func (s *Service) Pending(ctx context.Context) ([]model.Reminder, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return model.PendingReminders(list), nil
}

// Toggle flips the completed flag of the reminder with the given id and
// persists the full list in one write. An unknown id leaves the store
// untouched and returns the current list with found set to false.
func (s *Service) Toggle(ctx context.Context, id int) (list []model.Reminder, found bool, err error) {
	list, found, err = s.store.Update(ctx, func(current []model.Reminder) ([]model.Reminder, bool) {
		return model.ToggleReminder(current, id)
	})
	if err != nil {
		return nil, false, fmt.Errorf("toggle reminder %d: %w", id, err)
	}

	if !found {
		logging.DebugLog("toggle ignored unknown reminder", logging.KeyReminderID, id)
		return list, false, nil
	}
	for _, r := range list {
		if r.ID == id {
			logging.InfoContext(ctx, "reminder toggled",
				logging.KeyReminderID, id,
				logging.KeyStatus, completedLabel(r.Completed))
			break
		}
	}
	return list, true, nil
}

// Due returns the pending reminders whose time of day has passed at now.
// Reminders with an unparseable time are never due.
func (s *Service) Due(ctx context.Context, now time.Time) ([]model.Reminder, error) {
	pending, err := s.Pending(ctx)
	if err != nil {
		return nil, err
	}

	due := make([]model.Reminder, 0, len(pending))
	for _, r := range pending {
		at, ok := TimeOn(r, now)
		if ok && !now.Before(at) {
			due = append(due, r)
		}
	}
	return due, nil
}

// TimeOn returns the reminder's time of day on the date of day, in day's
// location.
func TimeOn(r model.Reminder, day time.Time) (time.Time, bool) {
	clock, err := time.Parse("15:04", r.Time)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, day.Location()), true
}

func completedLabel(completed bool) string {
	if completed {
		return "completed"
	}
	return "pending"
}
