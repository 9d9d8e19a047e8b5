package reasoning

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInput is returned when a request lacks a declared input field.
	ErrMissingInput = errors.New("missing input field")
	// ErrMalformedOutput is returned when the model output is not a JSON object.
	ErrMalformedOutput = errors.New("malformed model output")
	// ErrInvalidOutput is returned when the model output violates the task's output schema.
	ErrInvalidOutput = errors.New("invalid model output")
)

// GenerationError reports a failed reasoning step. It wraps the provider,
// parsing or validation error unchanged.
type GenerationError struct {
	Task string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Task, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsGenerationError reports whether err is or wraps a *GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
