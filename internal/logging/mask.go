package logging

import (
	"strings"
)

const (
	// MaskChar is the character used for masking.
	MaskChar = "*"
	// DefaultMaskLength is how many mask characters to show.
	DefaultMaskLength = 3
)

// SensitiveFields contains field names whose values are never logged.
var SensitiveFields = map[string]bool{
	"token":         true,
	"secret":        true,
	"password":      true,
	"api_key":       true,
	"authorization": true,
	"bearer":        true,
}

// MaskPhone keeps the leading four and trailing four characters of a phone
// number. Short values and the emergency sentinel are returned unchanged.
func MaskPhone(phone string) string {
	if len(phone) <= 8 {
		return phone
	}
	return phone[:4] + strings.Repeat(MaskChar, DefaultMaskLength) + phone[len(phone)-4:]
}

// MaskPhones masks every number in a recipient list.
func MaskPhones(phones []string) []string {
	out := make([]string, len(phones))
	for i, p := range phones {
		out[i] = MaskPhone(p)
	}
	return out
}

// MaskValue masks a sensitive value completely.
func MaskValue(value string) string {
	if value == "" {
		return ""
	}
	return strings.Repeat(MaskChar, min(len(value), 8))
}

// IsSensitiveField checks if a field name indicates sensitive data.
func IsSensitiveField(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	if SensitiveFields[lower] {
		return true
	}
	for keyword := range SensitiveFields {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// MaskArgs masks sensitive values in a slice of logging arguments.
// Arguments are expected in key-value pairs: key1, value1, key2, value2, ...
func MaskArgs(args []any) []any {
	if len(args) < 2 {
		return args
	}

	result := make([]any, len(args))
	copy(result, args)

	for i := 0; i < len(result)-1; i += 2 {
		key, ok := result[i].(string)
		if !ok {
			continue
		}

		switch {
		case key == KeyPhone:
			if s, ok := result[i+1].(string); ok {
				result[i+1] = MaskPhone(s)
			}
		case IsSensitiveField(key):
			if s, ok := result[i+1].(string); ok {
				result[i+1] = MaskValue(s)
			} else {
				result[i+1] = strings.Repeat(MaskChar, 8)
			}
		}
	}

	return result
}
