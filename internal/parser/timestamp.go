// Package parser turns human-entered times and durations into values.
package parser

import (
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// TimestampResult holds the parsed timestamp and any error.
type TimestampResult struct {
	Time  time.Time
	Error error
}

// ParseTimestamp parses a natural language timestamp relative to now, such
// as "2 hours ago", "9am" or "yesterday at 3pm". An empty input or "now"
// yields now.
func ParseTimestamp(input string, now time.Time) TimestampResult {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "now") {
		return TimestampResult{Time: now}
	}

	// Clock times such as "14:30" are read as today.
	if clock, err := time.ParseInLocation("15:04", input, now.Location()); err == nil {
		y, m, d := now.Date()
		return TimestampResult{Time: time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, now.Location())}
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return TimestampResult{Error: NewTimestampError(input)}
	}
	return TimestampResult{Time: result.Time}
}

// ParseActivityTime parses the time of a check-in. Activity cannot be
// recorded in the future.
func ParseActivityTime(input string, now time.Time) (time.Time, error) {
	result := ParseTimestamp(input, now)
	if result.Error != nil {
		return time.Time{}, result.Error
	}
	if result.Time.After(now.Add(time.Minute)) {
		perr := NewTimestampError(input)
		perr.Message = "check-in time is in the future"
		return time.Time{}, perr
	}
	return result.Time, nil
}
