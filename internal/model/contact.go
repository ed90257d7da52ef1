package model

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultEmergencySentinel is the phone value that stands for the public
// emergency number. Contacts carrying it are never messaged.
const DefaultEmergencySentinel = "911"

// EmergencyContact is a person notified when an SOS alert is raised.
type EmergencyContact struct {
	ID    string `json:"id" validate:"required,max=64"`
	Name  string `json:"name" validate:"required,max=100"`
	Phone string `json:"phone" validate:"required,phone"`
}

// NewContact creates a contact with a fresh id.
func NewContact(name, phone string) EmergencyContact {
	return EmergencyContact{
		ID:    uuid.New().String(),
		Name:  strings.TrimSpace(name),
		Phone: strings.TrimSpace(phone),
	}
}

// Messageable reports whether an alert may be sent to this contact.
func (c EmergencyContact) Messageable(sentinel string) bool {
	return c.Phone != "" && c.Phone != sentinel
}

// IsSentinel reports whether the contact is the generic emergency number.
func (c EmergencyContact) IsSentinel(sentinel string) bool {
	return c.Phone == sentinel
}

// DialURI returns a tel: URI for the contact's phone.
func (c EmergencyContact) DialURI() string {
	return "tel:" + strings.ReplaceAll(c.Phone, " ", "")
}

// ShortID returns the first 8 characters of the id for display.
func (c EmergencyContact) ShortID() string {
	if len(c.ID) > 8 {
		return c.ID[:8]
	}
	return c.ID
}

// DefaultContacts returns the contact list written on first launch.
func DefaultContacts(sentinel string) []EmergencyContact {
	if sentinel == "" {
		sentinel = DefaultEmergencySentinel
	}
	return []EmergencyContact{
		{ID: "1", Name: "Family Member", Phone: sentinel},
	}
}

// FindContact returns the index of the contact whose id or short id matches.
// It returns -1 when nothing matches.
func FindContact(list []EmergencyContact, id string) int {
	for i, c := range list {
		if c.ID == id {
			return i
		}
	}
	for i, c := range list {
		if len(id) >= 4 && strings.HasPrefix(c.ID, id) {
			return i
		}
	}
	return -1
}

// RemoveContact returns a copy of list without the contact matching id.
// The second result reports whether a contact was removed.
func RemoveContact(list []EmergencyContact, id string) ([]EmergencyContact, bool) {
	idx := FindContact(list, id)
	if idx < 0 {
		return list, false
	}
	out := make([]EmergencyContact, 0, len(list)-1)
	out = append(out, list[:idx]...)
	out = append(out, list[idx+1:]...)
	return out, true
}
