package domain

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when credentials or a bearer token do not check
// out. It deliberately carries no detail about which part failed.
var ErrUnauthorized = errors.New("invalid credentials")

// NotFoundError reports that the requested row does not exist. Reads, updates
// and deletes all surface it; an update never falls back to inserting.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

// ValidationError reports input that fails a domain rule before persistence.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on field '%s': %s", e.Field, e.Message)
}

// ConflictError reports a delete that was denied because other rows still
// reference the target.
type ConflictError struct {
	Entity string
	ID     int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with id %d cannot be deleted: referenced by other records", e.Entity, e.ID)
}

// StorageError wraps an unexpected persistence failure that is neither an
// absent row nor a constraint violation. It is surfaced as-is, never retried.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
