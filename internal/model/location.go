package model

import (
	"strconv"
	"time"
)

// MapsBaseURL is the prefix of the map link embedded in alerts.
const MapsBaseURL = "https://maps.google.com/?q="

// LocationFix is a single position reading. It is never persisted.
type LocationFix struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy_m,omitempty"`
	CapturedAt time.Time `json:"captured_at"`
	Source     string    `json:"source,omitempty"`
}

// MapLink returns a maps URL pointing at the fix. Coordinates use the
// shortest decimal form, so 40.0 renders as "40".
func (f LocationFix) MapLink() string {
	return MapsBaseURL + formatCoord(f.Latitude) + "," + formatCoord(f.Longitude)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
