package runtime

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/manav03panchal/safecompanion/internal/errors"
)

// ErrDiskFull is returned when the store cannot be written for lack of space.
var ErrDiskFull = errors.New("disk full: unable to write to the store")

func init() {
	errors.Suggestions[ErrDiskFull] = "Free up disk space and try again. Your contacts and reminders are unchanged."
}

// GetSuggestion returns a suggestion for an error, if available.
func GetSuggestion(err error) string {
	return errors.GetSuggestion(err)
}

// FormatError formats an error for the terminal, with its suggestion.
func FormatError(err error) string {
	return errors.FormatByCategory(err)
}

// DiskFullError represents a disk full condition with additional context.
type DiskFullError struct {
	Op      string // The operation that failed (e.g., "write", "sync")
	Path    string // The path involved, if known
	wrapped error
}

func (e *DiskFullError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("disk full during %s on %s: %v", e.Op, e.Path, e.wrapped)
	}
	return fmt.Sprintf("disk full during %s: %v", e.Op, e.wrapped)
}

func (e *DiskFullError) Unwrap() []error {
	return []error{ErrDiskFull, e.wrapped}
}

// NewDiskFullError creates a new DiskFullError.
func NewDiskFullError(op, path string, err error) *DiskFullError {
	return &DiskFullError{
		Op:      op,
		Path:    path,
		wrapped: err,
	}
}

var diskFullPatterns = []string{
	"no space left on device",
	"disk full",
	"enospc",
	"not enough space",
	"insufficient disk space",
	"out of disk space",
}

// IsDiskFullError checks if an error indicates a disk full condition.
// It checks for ENOSPC and common disk full messages.
func IsDiskFullError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrDiskFull) {
		return true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) && errno == syscall.ENOSPC {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range diskFullPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// WrapDiskFullError wraps an error as a DiskFullError if it indicates disk full.
// Other errors are returned unchanged.
func WrapDiskFullError(err error, op, path string) error {
	if err == nil || errors.Is(err, ErrDiskFull) {
		return err
	}
	if IsDiskFullError(err) {
		return NewDiskFullError(op, path, err)
	}
	return err
}
