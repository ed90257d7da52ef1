package errors

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// UserError Tests
// =============================================================================

func TestNewUserError(t *testing.T) {
	err := NewUserError("invalid input", "try again")
	assert.NotNil(t, err)
	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, "try again", err.Suggestion)
}

func TestUserErrorError(t *testing.T) {
	t.Run("without_field", func(t *testing.T) {
		err := NewUserError("invalid input", "")
		assert.Equal(t, "invalid input", err.Error())
	})

	t.Run("with_field", func(t *testing.T) {
		err := NewUserErrorWithField("phone", "abc", "invalid phone", "")
		assert.Equal(t, "invalid phone: 'abc'", err.Error())
	})
}

func TestUserErrorWithCause(t *testing.T) {
	err := NewUserErrorWithField("phone", "abc", "invalid phone", "").WithCause(ErrInvalidPhone)
	assert.True(t, errors.Is(err, ErrInvalidPhone))

	wrapped := fmt.Errorf("add contact: %w", err)
	ue, ok := AsUserError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "phone", ue.Field)
}

func TestIsUserError(t *testing.T) {
	assert.True(t, IsUserError(NewUserError("test", "")))
	assert.True(t, IsUserError(fmt.Errorf("context: %w", NewUserError("test", ""))))
	assert.False(t, IsUserError(errors.New("plain")))
}

// =============================================================================
// SystemError Tests
// =============================================================================

func TestSystemErrorError(t *testing.T) {
	t.Run("without_op", func(t *testing.T) {
		err := NewSystemError("store failed", nil)
		assert.Equal(t, "store failed", err.Error())
	})

	t.Run("with_op", func(t *testing.T) {
		err := NewSystemErrorWithOp("sos", "store failed", nil)
		assert.Equal(t, "store failed during sos", err.Error())
	})
}

func TestSystemErrorUnwrap(t *testing.T) {
	err := NewSystemError("alert", fmt.Errorf("%w: boom", ErrAlertFailed))
	assert.True(t, errors.Is(err, ErrAlertFailed))
	assert.True(t, IsSystemError(err))
}

// =============================================================================
// RecoverableError Tests
// =============================================================================

func TestRecoverableError(t *testing.T) {
	err := NewRecoverableError("broker unreachable", ErrTransportUnavailable)
	assert.Equal(t, "broker unreachable", err.Error())
	assert.True(t, errors.Is(err, ErrTransportUnavailable))
	assert.True(t, IsRecoverableError(err))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ctx"))

	err := Wrap(ErrLockHeld, "open store")
	assert.Equal(t, "open store: database locked by another process", err.Error())
	assert.True(t, Is(err, ErrLockHeld))
}

// =============================================================================
// Classification Tests
// =============================================================================

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "user", CategoryUser.String())
	assert.Equal(t, "system", CategorySystem.String())
	assert.Equal(t, "recoverable", CategoryRecoverable.String())
	assert.Equal(t, "unknown", CategoryUnknown.String())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, CategoryUnknown},
		{"user_error", NewUserError("bad", ""), CategoryUser},
		{"contact_not_found", fmt.Errorf("remove: %w", ErrContactNotFound), CategoryUser},
		{"last_contact", ErrLastContact, CategoryUser},
		{"alert_failed", NewSystemError("x", ErrAlertFailed), CategorySystem},
		{"store_unavailable", ErrStoreUnavailable, CategorySystem},
		{"disk_full", syscall.ENOSPC, CategorySystem},
		{"lock_held", ErrLockHeld, CategoryRecoverable},
		{"deadline", context.DeadlineExceeded, CategoryRecoverable},
		{"conn_refused", syscall.ECONNREFUSED, CategoryRecoverable},
		{"plain", errors.New("weird"), CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestFormatByCategory(t *testing.T) {
	assert.Empty(t, FormatByCategory(nil))

	user := FormatByCategory(ErrInvalidPhone)
	assert.Contains(t, user, "invalid phone number")
	assert.Contains(t, user, "Try: ")

	system := FormatByCategory(NewSystemError("cannot read contacts", ErrStoreUnavailable))
	assert.Contains(t, system, "System error: cannot read contacts")

	assert.Equal(t, "weird", FormatByCategory(errors.New("weird")))
}

// =============================================================================
// Suggestion Tests
// =============================================================================

func TestGetSuggestion(t *testing.T) {
	assert.Empty(t, GetSuggestion(nil))
	assert.Empty(t, GetSuggestion(errors.New("unknown")))

	assert.Contains(t, GetSuggestion(ErrContactNotFound), "contacts list")
	assert.Contains(t, GetSuggestion(fmt.Errorf("wrap: %w", ErrReminderNotFound)), "remind list")

	ue := NewUserError("bad", "do this instead").WithCause(ErrInvalidPhone)
	assert.Equal(t, "do this instead", GetSuggestion(ue))
}

func TestEverySentinelHasSuggestion(t *testing.T) {
	sentinels := []error{
		ErrContactNotFound, ErrReminderNotFound, ErrLastContact, ErrInvalidPhone,
		ErrAlertFailed, ErrAlertInFlight, ErrStoreUnavailable, ErrLockHeld,
	}
	for _, s := range sentinels {
		assert.NotEmpty(t, Suggestions[s], s.Error())
	}
}
