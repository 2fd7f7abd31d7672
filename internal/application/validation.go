package application

import (
	"fmt"
	"slices"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// ValidateOneOf checks that value is one of allowed
func ValidateOneOf(fieldName, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return &ValidationError{
		Field:   fieldName,
		Message: fmt.Sprintf("expected one of %s, got: %q", strings.Join(allowed, ", "), value),
	}
}

// formatFieldName converts flag-style names to words for error messages
// (e.g., "out-path" -> "out path")
func formatFieldName(fieldName string) string {
	return strings.NewReplacer("-", " ", "_", " ").Replace(fieldName)
}
