package storage

import (
	"context"
	"sync"

	"github.com/manav03panchal/safecompanion/internal/model"
)

// ReminderRepo provides operations for the reminder list.
type ReminderRepo struct {
	kv KV
	mu sync.Mutex
}

// NewReminderRepo creates a new reminder repository.
func NewReminderRepo(kv KV) *ReminderRepo {
	return &ReminderRepo{kv: kv}
}

// List returns the stored reminders in order. A missing key yields an empty list.
func (r *ReminderRepo) List(ctx context.Context) ([]model.Reminder, error) {
	var reminders []model.Reminder
	if err := getJSON(ctx, r.kv, model.KeyReminders, &reminders); err != nil {
		if IsErrKeyNotFound(err) {
			return []model.Reminder{}, nil
		}
		return nil, err
	}
	return reminders, nil
}

// Save overwrites the whole reminder list.
func (r *ReminderRepo) Save(ctx context.Context, reminders []model.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(ctx, reminders)
}

func (r *ReminderRepo) save(ctx context.Context, reminders []model.Reminder) error {
	if reminders == nil {
		reminders = []model.Reminder{}
	}
	return setJSON(ctx, r.kv, model.KeyReminders, reminders)
}

// Update runs a read-modify-write cycle under the repository lock. fn returns
// the new list and whether it changed; unchanged lists are not written.
func (r *ReminderRepo) Update(ctx context.Context, fn func([]model.Reminder) ([]model.Reminder, bool)) ([]model.Reminder, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.List(ctx)
	if err != nil {
		return nil, false, err
	}

	next, changed := fn(current)
	if !changed {
		return current, false, nil
	}
	if err := r.save(ctx, next); err != nil {
		return nil, false, err
	}
	return next, true, nil
}
