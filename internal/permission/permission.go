// Package permission models the platform permission prompts the app needs.
package permission

import (
	"context"

	"github.com/manav03panchal/safecompanion/internal/config"
	"github.com/manav03panchal/safecompanion/internal/logging"
	"github.com/manav03panchal/safecompanion/internal/model"
)

// Status is the answer to a permission request.
type Status string

const (
	Granted      Status = "granted"
	Denied       Status = "denied"
	Undetermined Status = "undetermined"
)

// Granted reports whether the permission may be used.
func (s Status) Granted() bool {
	return s == Granted
}

// Notice texts shown when a permission is refused.
const (
	LocationNotice = "Location permission is needed for emergency services."
	ContactsNotice = "Contacts permission is needed to set emergency contacts."
)

// Gateway asks the platform for permissions.
type Gateway interface {
	RequestLocation(ctx context.Context) (Status, error)
	RequestContacts(ctx context.Context) (Status, error)
}

// ConfigGateway answers permission requests from configuration.
type ConfigGateway struct {
	location Status
	contacts Status
}

// NewConfigGateway creates a gateway from the permissions config section.
func NewConfigGateway(cfg config.PermissionsConfig) *ConfigGateway {
	return &ConfigGateway{
		location: Status(cfg.Location),
		contacts: Status(cfg.Contacts),
	}
}

// RequestLocation returns the configured location answer.
func (g *ConfigGateway) RequestLocation(context.Context) (Status, error) {
	return g.location, nil
}

// RequestContacts returns the configured contacts answer.
func (g *ConfigGateway) RequestContacts(context.Context) (Status, error) {
	return g.contacts, nil
}

// Result is the outcome of the startup permission round.
type Result struct {
	Location Status         `json:"location"`
	Contacts Status         `json:"contacts"`
	Notices  []model.Notice `json:"notices,omitempty"`
}

// RequestAll asks for location then contacts. A refusal or an error adds one
// warning notice and never stops startup.
func RequestAll(ctx context.Context, g Gateway) Result {
	res := Result{Location: Undetermined, Contacts: Undetermined}

	status, err := g.RequestLocation(ctx)
	if err != nil {
		logging.WarnContext(ctx, "location permission request failed", logging.KeyError, err)
	} else {
		res.Location = status
	}
	if !res.Location.Granted() {
		res.Notices = append(res.Notices, model.NewWarning("Permission Required", LocationNotice))
	}

	status, err = g.RequestContacts(ctx)
	if err != nil {
		logging.WarnContext(ctx, "contacts permission request failed", logging.KeyError, err)
	} else {
		res.Contacts = status
	}
	if !res.Contacts.Granted() {
		res.Notices = append(res.Notices, model.NewWarning("Permission Required", ContactsNotice))
	}

	return res
}
