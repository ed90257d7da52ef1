package model

import "time"

// DeliveryStatus is the result of one contact in an alert fan-out.
type DeliveryStatus string

const (
	// DeliveryDelivered means the transport accepted the message.
	DeliveryDelivered DeliveryStatus = "delivered"
	// DeliveryUnavailable means the transport reported itself unavailable.
	DeliveryUnavailable DeliveryStatus = "unavailable"
	// DeliveryFailed means the transport returned an error.
	DeliveryFailed DeliveryStatus = "failed"
	// DeliveryExcluded means the contact was filtered out before sending.
	DeliveryExcluded DeliveryStatus = "excluded"
)

// ContactResult records what happened for one contact.
type ContactResult struct {
	ContactID string         `json:"contact_id"`
	Name      string         `json:"name"`
	Phone     string         `json:"phone"`
	Status    DeliveryStatus `json:"status"`
	Error     string         `json:"error,omitempty"`
}

// AlertOutcome summarizes a single SOS fan-out. It is never persisted.
type AlertOutcome struct {
	ID               string          `json:"id"`
	StartedAt        time.Time       `json:"started_at"`
	FinishedAt       time.Time       `json:"finished_at"`
	Message          string          `json:"message"`
	LocationIncluded bool            `json:"location_included"`
	Location         *LocationFix    `json:"location,omitempty"`
	Transport        string          `json:"transport"`
	Results          []ContactResult `json:"results"`
	// Shared is true when the caller joined an alert already in flight.
	Shared bool `json:"shared"`
}

func (o *AlertOutcome) count(status DeliveryStatus) int {
	n := 0
	for _, r := range o.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Attempted is the number of contacts that passed the sentinel filter.
func (o *AlertOutcome) Attempted() int {
	return len(o.Results) - o.count(DeliveryExcluded)
}

// Notified is the number of contacts the transport accepted.
func (o *AlertOutcome) Notified() int {
	return o.count(DeliveryDelivered)
}

// Skipped is the number of contacts skipped because the transport was down.
func (o *AlertOutcome) Skipped() int {
	return o.count(DeliveryUnavailable)
}

// Failed is the number of contacts whose send returned an error.
func (o *AlertOutcome) Failed() int {
	return o.count(DeliveryFailed)
}

// Duration returns how long the fan-out took.
func (o *AlertOutcome) Duration() time.Duration {
	if o.FinishedAt.IsZero() {
		return 0
	}
	return o.FinishedAt.Sub(o.StartedAt)
}
