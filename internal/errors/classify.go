package errors

import (
	"context"
	"errors"
	"syscall"
)

// Category represents the type of error for display and handling purposes.
type Category int

const (
	// CategoryUnknown is the default for unclassified errors.
	CategoryUnknown Category = iota
	// CategoryUser indicates an error the user can fix (bad input, missing args).
	CategoryUser
	// CategorySystem indicates a system-level error (store unreadable, disk issues).
	CategorySystem
	// CategoryRecoverable indicates a transient error worth trying again.
	CategoryRecoverable
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryUser:
		return "user"
	case CategorySystem:
		return "system"
	case CategoryRecoverable:
		return "recoverable"
	default:
		return "unknown"
	}
}

// Classify determines the category of an error.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	if IsUserError(err) {
		return CategoryUser
	}
	if IsRecoverableError(err) || isRecoverablePattern(err) {
		return CategoryRecoverable
	}
	if IsSystemError(err) || isSystemLevel(err) {
		return CategorySystem
	}
	if isUserSentinel(err) {
		return CategoryUser
	}

	return CategoryUnknown
}

func isUserSentinel(err error) bool {
	return errors.Is(err, ErrContactNotFound) ||
		errors.Is(err, ErrReminderNotFound) ||
		errors.Is(err, ErrLastContact) ||
		errors.Is(err, ErrInvalidPhone) ||
		errors.Is(err, ErrInvalidClock) ||
		errors.Is(err, ErrInvalidTimestamp)
}

func isSystemLevel(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOSPC, syscall.EACCES, syscall.EPERM, syscall.EIO, syscall.EROFS:
			return true
		}
	}

	return errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, ErrStoreCorrupted) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrAlertFailed)
}

func isRecoverablePattern(err error) bool {
	if errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrLockHeld) ||
		errors.Is(err, ErrAlertInFlight) ||
		errors.Is(err, ErrTransportUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EAGAIN, syscall.EINTR, syscall.ETIMEDOUT, syscall.ECONNREFUSED, syscall.ECONNRESET:
			return true
		}
	}

	return false
}

// FormatByCategory returns a user-appropriate error message based on category.
func FormatByCategory(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	suggestion := GetSuggestion(err)

	switch Classify(err) {
	case CategoryUser:
		if suggestion != "" {
			return msg + "\n\nTry: " + suggestion
		}
		return msg
	case CategorySystem:
		if suggestion != "" {
			return "System error: " + msg + "\n\n" + suggestion
		}
		return "System error: " + msg
	case CategoryRecoverable:
		if suggestion != "" {
			return msg + "\n\n" + suggestion
		}
		return msg + " (try again in a moment)"
	default:
		return msg
	}
}
