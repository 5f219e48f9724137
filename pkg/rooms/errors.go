package rooms

import (
	"errors"
	"fmt"
)

// NotFoundError indicates the targeted room does not exist
type NotFoundError struct {
	RoomID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("room not found: %s", e.RoomID)
}

// ConflictError indicates a room with the same id already exists
type ConflictError struct {
	RoomID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("room already exists: %s", e.RoomID)
}

// UnavailableError indicates a transient transport or backend failure.
// Callers may retry with backoff; all other error kinds are permanent.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("backend unavailable during %s: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// ValidationError indicates malformed input that can never succeed
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AccessDeniedError indicates the caller has no access to the room
type AccessDeniedError struct {
	RoomID string
	Email  string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied to room %s for %s", e.RoomID, e.Email)
}

// IsNotFound checks if an error is a room not found error
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflict checks if an error is a room conflict error
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsUnavailable checks if an error is a transient backend failure
func IsUnavailable(err error) bool {
	var target *UnavailableError
	return errors.As(err, &target)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsAccessDenied checks if an error is an access denied error
func IsAccessDenied(err error) bool {
	var target *AccessDeniedError
	return errors.As(err, &target)
}
