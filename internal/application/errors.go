package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions outside the domain taxonomy
var (
	ErrNotConfigured = errors.New("not configured")
	ErrEmptySnapshot = errors.New("empty snapshot")
)

// ValidationError represents an invalid command argument
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SnapshotError represents a failure while copying one resource
type SnapshotError struct {
	Resource string
	Err      error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot %s: %v", e.Resource, e.Err)
}

func (e *SnapshotError) Unwrap() error {
	return e.Err
}
