package storage

import (
	"context"
	"sync"

	"github.com/manav03panchal/safecompanion/internal/errors"
	"github.com/manav03panchal/safecompanion/internal/model"
	"github.com/manav03panchal/safecompanion/internal/validate"
)

// ContactRepo provides operations for the emergency contact list.
type ContactRepo struct {
	kv KV
	mu sync.Mutex
}

// NewContactRepo creates a new contact repository.
func NewContactRepo(kv KV) *ContactRepo {
	return &ContactRepo{kv: kv}
}

// List returns the stored contacts in order. A missing key yields an empty list.
func (r *ContactRepo) List(ctx context.Context) ([]model.EmergencyContact, error) {
	var contacts []model.EmergencyContact
	if err := getJSON(ctx, r.kv, model.KeyContacts, &contacts); err != nil {
		if IsErrKeyNotFound(err) {
			return []model.EmergencyContact{}, nil
		}
		return nil, err
	}
	return contacts, nil
}

// Save overwrites the whole contact list.
func (r *ContactRepo) Save(ctx context.Context, contacts []model.EmergencyContact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(ctx, contacts)
}

func (r *ContactRepo) save(ctx context.Context, contacts []model.EmergencyContact) error {
	if contacts == nil {
		contacts = []model.EmergencyContact{}
	}
	return setJSON(ctx, r.kv, model.KeyContacts, contacts)
}

// Add validates c and appends it to the list.
func (r *ContactRepo) Add(ctx context.Context, c model.EmergencyContact) ([]model.EmergencyContact, error) {
	c.Name = validate.SanitizeName(c.Name)
	if err := validate.Contact(c); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	contacts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	contacts = append(contacts, c)
	if err := r.save(ctx, contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// Remove deletes the contact matching id. The last contact cannot be removed.
func (r *ContactRepo) Remove(ctx context.Context, id string) (*model.EmergencyContact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contacts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	idx := model.FindContact(contacts, id)
	if idx < 0 {
		return nil, errors.NewUserErrorWithField("id", id, "Emergency contact not found", "").
			WithCause(errors.ErrContactNotFound)
	}
	if len(contacts) == 1 {
		return nil, errors.ErrLastContact
	}

	removed := contacts[idx]
	remaining, _ := model.RemoveContact(contacts, contacts[idx].ID)
	if err := r.save(ctx, remaining); err != nil {
		return nil, err
	}
	return &removed, nil
}

// Primary returns the first contact in the list.
func (r *ContactRepo) Primary(ctx context.Context) (*model.EmergencyContact, error) {
	contacts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, errors.ErrContactNotFound
	}
	return &contacts[0], nil
}
