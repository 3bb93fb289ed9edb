// Package services defines the business logic for bean logs and the users who
// own them. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import (
	"errors"
	"strings"

	"github.com/tbourn/go-beanlog-backend/internal/repo"
)

// Bean log errors.
var (
	// ErrLogNotFound indicates that the requested bean log does not exist or
	// belongs to another owner.
	ErrLogNotFound = errors.New("bean log not found")

	// ErrNoOwner is returned when a bean log operation has no owner to act for.
	ErrNoOwner = errors.New("no owner")
)

// Identity errors.
var (
	// ErrInvalidEmail is returned when an email address cannot be parsed.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrWeakPassword is returned when a password is shorter than
	// MinPasswordLen.
	ErrWeakPassword = errors.New("password too short")

	// ErrEmailTaken is returned when registering an email that already has
	// an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound indicates the session refers to a user that no longer
	// exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidToken is returned for session tokens that fail signature,
	// expiry or claim checks.
	ErrInvalidToken = errors.New("invalid session token")
)

// ValidationError lists every field that failed validation on submit.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

// PersistenceError wraps a store failure with the operation that hit it
// ("fetch", "create", "update", "delete", "delete_all").
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *PersistenceError) Unwrap() error { return e.Err }

// Unavailable reports whether the store could not be reached at all, as
// opposed to rejecting the operation.
func (e *PersistenceError) Unavailable() bool { return errors.Is(e.Err, repo.ErrUnavailable) }

// IsUnavailable reports whether err carries a store-unavailable failure.
func IsUnavailable(err error) bool { return errors.Is(err, repo.ErrUnavailable) }

// persistErr maps repository errors to service errors. Not-found stays a
// plain sentinel; anything else is wrapped with op.
func persistErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return ErrLogNotFound
	case errors.Is(err, repo.ErrNoOwner):
		return ErrNoOwner
	}
	return &PersistenceError{Op: op, Err: err}
}

// ErrSaveInProgress is returned when Submit is called on a form whose
// previous submit has not completed.
var ErrSaveInProgress = errors.New("save already in progress")
