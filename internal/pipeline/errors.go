package pipeline

import (
	"errors"
	"fmt"
)

// ValidationError reports an absent or malformed request field. It is
// returned before any model call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
