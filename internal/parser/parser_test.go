package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/safecompanion/internal/errors"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		valid    bool
	}{
		{"go_duration_hours", "4h", 4 * time.Hour, true},
		{"go_duration_combined", "1h30m", 90 * time.Minute, true},
		{"hours_word", "2 hours", 2 * time.Hour, true},
		{"hours_hrs", "2hrs", 2 * time.Hour, true},
		{"minutes_word", "30 minutes", 30 * time.Minute, true},
		{"minutes_min", "30min", 30 * time.Minute, true},
		{"seconds_word", "45 seconds", 45 * time.Second, true},
		{"decimal_hours", "2.5h", 150 * time.Minute, true},
		{"combined_spaced", "1h 30m", 90 * time.Minute, true},
		{"number_only", "2", 2 * time.Hour, true},

		{"empty_string", "", 0, false},
		{"whitespace_only", "   ", 0, false},
		{"invalid_format", "abc", 0, false},
		{"zero", "0m", 0, false},
		{"negative", "-5m", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseDuration(tt.input)
			assert.Equal(t, tt.valid, result.Valid)
			if tt.valid {
				assert.Equal(t, tt.expected, result.Duration)
			}
		})
	}
}

func TestParsePositiveDuration(t *testing.T) {
	d, err := ParsePositiveDuration("30 minutes")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, d)

	_, err = ParsePositiveDuration("soon")
	require.Error(t, err)
	var perr *TimeParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "duration", perr.Field)
}

func TestParseTimestamp(t *testing.T) {
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)

	t.Run("empty_returns_now", func(t *testing.T) {
		result := ParseTimestamp("", now)
		assert.NoError(t, result.Error)
		assert.Equal(t, now, result.Time)
	})

	t.Run("now_case_insensitive", func(t *testing.T) {
		result := ParseTimestamp("  NOW ", now)
		assert.NoError(t, result.Error)
		assert.Equal(t, now, result.Time)
	})

	t.Run("clock_time_is_today", func(t *testing.T) {
		result := ParseTimestamp("09:15", now)
		require.NoError(t, result.Error)
		assert.Equal(t, time.Date(2026, 5, 10, 9, 15, 0, 0, time.UTC), result.Time)
	})

	t.Run("relative", func(t *testing.T) {
		result := ParseTimestamp("2 hours ago", now)
		require.NoError(t, result.Error)
		assert.WithinDuration(t, now.Add(-2*time.Hour), result.Time, time.Minute)
	})

	t.Run("garbage", func(t *testing.T) {
		result := ParseTimestamp("blorp quux zzz", now)
		require.Error(t, result.Error)
		assert.True(t, errors.Is(result.Error, errors.ErrInvalidTimestamp))
	})
}

func TestParseActivityTime(t *testing.T) {
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)

	at, err := ParseActivityTime("10 minutes ago", now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(-10*time.Minute), at, time.Minute)

	_, err = ParseActivityTime("23:00", now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "future")
}

func TestTimeParseErrorToUserError(t *testing.T) {
	ue := NewTimestampError("blorp").ToUserError()
	assert.Equal(t, "time", ue.Field)
	assert.Equal(t, "blorp", ue.Value)
	assert.True(t, errors.Is(ue, errors.ErrInvalidTimestamp))

	text := NewDurationError("x").FormatWithExamples()
	assert.Contains(t, text, "Valid examples:")
	assert.Contains(t, text, "  - 4h")
}
