// Package usecase implements the business logic for the account feature.
package usecase

import (
	"errors"
	"strings"
)

var (
	// ErrAccountNotFound is returned when an account cannot be found by username or ID.
	ErrAccountNotFound = errors.New("account not found")

	// ErrUsernameTaken is returned when attempting to register a username that already exists.
	ErrUsernameTaken = errors.New("a user with that username already exists")

	// ErrInvalidCredentials is returned when the username or password is wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionRevoked is returned when attempting to use a logged-out session.
	ErrSessionRevoked = errors.New("session has been revoked")

	// ErrSessionExpired is returned when attempting to use an expired session.
	ErrSessionExpired = errors.New("session has expired")

	// ErrInvalidSessionToken is returned when a session cookie is malformed or badly signed.
	ErrInvalidSessionToken = errors.New("invalid session token")
)

// PasswordPolicyError lists every password rule a candidate password breaks.
type PasswordPolicyError struct {
	Problems []string
}

func (e *PasswordPolicyError) Error() string {
	return "password rejected: " + strings.Join(e.Problems, "; ")
}
