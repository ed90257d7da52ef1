package storage

import (
	"context"

	"github.com/manav03panchal/safecompanion/internal/logging"
	"github.com/manav03panchal/safecompanion/internal/model"
)

// SeedResult reports which defaults were written.
type SeedResult struct {
	ContactsSeeded  bool `json:"contacts_seeded"`
	RemindersSeeded bool `json:"reminders_seeded"`
}

// Seeder writes the first-launch defaults.
type Seeder struct {
	kv       KV
	sentinel string
}

// NewSeeder creates a seeder. sentinel is the phone of the default contact.
func NewSeeder(kv KV, sentinel string) *Seeder {
	return &Seeder{kv: kv, sentinel: sentinel}
}

// Seed writes the default contacts and reminders for any key that has never
// been written. Present values, including empty lists, are left untouched.
func (s *Seeder) Seed(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{}

	seeded, err := s.seedKey(ctx, model.KeyContacts, model.DefaultContacts(s.sentinel))
	if err != nil {
		return nil, err
	}
	result.ContactsSeeded = seeded

	seeded, err = s.seedKey(ctx, model.KeyReminders, model.DefaultReminders())
	if err != nil {
		return nil, err
	}
	result.RemindersSeeded = seeded

	return result, nil
}

func (s *Seeder) seedKey(ctx context.Context, key string, defaults any) (bool, error) {
	ok, err := exists(ctx, s.kv, key)
	if err != nil || ok {
		return false, err
	}
	if err := setJSON(ctx, s.kv, key, defaults); err != nil {
		return false, err
	}
	logging.DebugLog("seeded defaults", "key", key)
	return true, nil
}
