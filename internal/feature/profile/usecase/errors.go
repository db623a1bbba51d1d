// Package usecase implements the business logic for the profile feature.
package usecase

import "errors"

// ErrProfileNotFound is returned when an account has no profile row.
var ErrProfileNotFound = errors.New("profile not found")

// FieldError reports an input problem tied to a single form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}
