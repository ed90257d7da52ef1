package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DurationResult is the outcome of ParseDuration.
type DurationResult struct {
	Duration time.Duration
	Valid    bool
}

// durationTerm matches one "<number><unit>" term; the unit may be empty.
var durationTerm = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([a-z]*)`)

var unitScale = map[string]time.Duration{
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
}

// ParseDuration reads inactivity windows and intervals written by people:
// "4h", "30 minutes", "1h 30m", "2.5h". A lone number means hours.
func ParseDuration(input string) DurationResult {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return DurationResult{}
	}

	if d, err := time.ParseDuration(input); err == nil {
		return DurationResult{Duration: d, Valid: d > 0}
	}

	terms := durationTerm.FindAllStringSubmatchIndex(input, -1)
	if len(terms) == 0 {
		return DurationResult{}
	}

	var total time.Duration
	pos := 0
	for _, loc := range terms {
		if strings.TrimSpace(input[pos:loc[0]]) != "" {
			return DurationResult{}
		}
		pos = loc[1]

		value, err := strconv.ParseFloat(input[loc[2]:loc[3]], 64)
		if err != nil {
			return DurationResult{}
		}
		unit := input[loc[4]:loc[5]]
		if unit == "" {
			if len(terms) > 1 {
				return DurationResult{}
			}
			unit = "h"
		}
		scale, ok := unitScale[unit]
		if !ok {
			return DurationResult{}
		}
		total += time.Duration(value * float64(scale))
	}
	if strings.TrimSpace(input[pos:]) != "" || total <= 0 {
		return DurationResult{}
	}

	return DurationResult{Duration: total, Valid: true}
}

// ParsePositiveDuration is ParseDuration returning a *TimeParseError for
// anything that is not a positive duration.
func ParsePositiveDuration(input string) (time.Duration, error) {
	if r := ParseDuration(input); r.Valid {
		return r.Duration, nil
	}
	return 0, NewDurationError(input)
}
