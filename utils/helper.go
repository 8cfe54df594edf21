package utils

import (
	"strings"
)

// StringPtr returns a pointer to the string value
func StringPtr(s string) *string {
	return &s
}

// NormalizeOptional trims the value and returns nil for empty strings
func NormalizeOptional(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
