package errors

import (
	"errors"
	"fmt"
)

// Common error types for the storefront auth core
var (
	// Authentication errors
	ErrUnknownUsername = errors.New("there is no account associated with this username")
	ErrWrongPassword   = errors.New("incorrect password")

	// User errors
	ErrUserNotFound  = errors.New("user not found")
	ErrUserProtected = errors.New("reserved main admin account cannot be modified")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrNoActiveSession = errors.New("no active session")

	// Escalation errors
	ErrRequestNotFound   = errors.New("minor admin request not found")
	ErrMissingRecipient  = errors.New("no delivery address for approval code")
	ErrRequestNotPending = errors.New("request is not pending")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
