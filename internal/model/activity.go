package model

import "time"

// Activity tracks the last sign of life from the user.
type Activity struct {
	LastActivity time.Time `json:"last_activity"`
	LastNotice   time.Time `json:"last_notice,omitempty"`
	Source       string    `json:"source,omitempty"`
}

// IdleFor returns how long the user has been inactive at now.
func (a Activity) IdleFor(now time.Time) time.Duration {
	if a.LastActivity.IsZero() {
		return 0
	}
	d := now.Sub(a.LastActivity)
	if d < 0 {
		return 0
	}
	return d
}

// NoticedWithin reports whether a notice was raised within d of now.
func (a Activity) NoticedWithin(now time.Time, d time.Duration) bool {
	if a.LastNotice.IsZero() {
		return false
	}
	return now.Sub(a.LastNotice) < d
}
