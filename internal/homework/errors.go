package homework

import "errors"

// ErrNotFound is returned when an operation targets a missing row.
var ErrNotFound = errors.New("not found")

// ValidationError rejects bad input before anything is written.
type ValidationError struct {
	msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg}
}

func (e *ValidationError) Error() string {
	return e.msg
}

// IsValidation reports whether err is a validation rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
