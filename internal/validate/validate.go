// Package validate provides input validation helpers for the SafeCompanion CLI.
package validate

import (
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/manav03panchal/safecompanion/internal/errors"
	"github.com/manav03panchal/safecompanion/internal/model"
)

const (
	// MaxNameLength is the maximum length for a contact name.
	MaxNameLength = 100
	// MaxURLLength is the maximum length for a gateway URL.
	MaxURLLength = 2048
)

var (
	// phoneRegex accepts an optional leading '+' followed by digits and
	// common separators.
	phoneRegex = regexp.MustCompile(`^\+?[0-9(][0-9 ()-]*$`)
	clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

var (
	instance *validator.Validate
	once     sync.Once
)

// Validator returns the shared validator with the custom tags registered.
func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		_ = instance.RegisterValidation("phone", validatePhone)
		_ = instance.RegisterValidation("clock", validateClock)
	})
	return instance
}

func validatePhone(fl validator.FieldLevel) bool {
	return IsPhone(fl.Field().String())
}

func validateClock(fl validator.FieldLevel) bool {
	return clockRegex.MatchString(fl.Field().String())
}

// IsPhone reports whether s looks like a dialable number. Short codes such
// as the emergency sentinel are accepted.
func IsPhone(s string) bool {
	if !phoneRegex.MatchString(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits == 3 || (digits >= 7 && digits <= 15)
}

// Phone validates a phone number.
func Phone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return errors.NewUserError("Phone number cannot be empty", "Provide a phone number like '+15551234567'").
			WithCause(errors.ErrInvalidPhone)
	}
	if !IsPhone(phone) {
		return errors.NewUserErrorWithField("phone", phone,
			"Invalid phone number",
			"Use digits with an optional leading '+', for example '+15551234567'").
			WithCause(errors.ErrInvalidPhone)
	}
	return nil
}

// Clock validates an HH:MM reminder time.
func Clock(value string) error {
	if !clockRegex.MatchString(value) {
		return errors.NewUserErrorWithField("time", value,
			"Invalid reminder time",
			"Use 24-hour HH:MM format like '08:00'").
			WithCause(errors.ErrInvalidClock)
	}
	return nil
}

// Contact validates an emergency contact.
func Contact(c model.EmergencyContact) error {
	return Struct(c)
}

// Reminder validates a reminder.
func Reminder(r model.Reminder) error {
	return Struct(r)
}

// Struct runs tag validation and converts the first failure to a UserError.
func Struct(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	value := ""
	if s, ok := fe.Value().(string); ok {
		value = s
	}
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "phone":
		return Phone(value)
	case "clock":
		return Clock(value)
	case "required":
		return errors.NewUserError(fe.Field()+" is required", "Provide a value for "+field)
	case "max":
		return errors.NewUserErrorWithField(field, value,
			fe.Field()+" too long",
			fe.Field()+" must be "+fe.Param()+" characters or fewer")
	case "oneof":
		return errors.NewUserErrorWithField(field, value,
			"Invalid "+field,
			"Use one of: "+fe.Param())
	default:
		return errors.NewUserErrorWithField(field, value, "Invalid "+field, "")
	}
}

// URL validates a gateway endpoint. Plain HTTP is only allowed for localhost.
func URL(rawURL string) error {
	if rawURL == "" {
		return errors.NewUserError("URL cannot be empty", "Provide a valid URL")
	}
	if len(rawURL) > MaxURLLength {
		return errors.NewUserError("URL too long", "URLs must be 2048 characters or fewer")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.NewUserErrorWithField("url", rawURL,
			"Invalid URL format",
			"Provide a valid URL starting with https://")
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return errors.NewUserErrorWithField("url", rawURL,
			"Invalid URL scheme",
			"URLs must use https:// (or http:// for localhost)")
	}

	hostname := parsed.Hostname()
	if hostname == "" {
		return errors.NewUserErrorWithField("url", rawURL,
			"Invalid URL: missing hostname",
			"Provide a valid URL like https://sms.example.com/send")
	}

	isLocalhost := hostname == "localhost" || hostname == "127.0.0.1" || hostname == "::1"
	if parsed.Scheme == "http" && !isLocalhost {
		return errors.NewUserErrorWithField("url", rawURL,
			"HTTP not allowed for external URLs",
			"Use https:// for security. HTTP is only allowed for localhost.")
	}

	return nil
}
