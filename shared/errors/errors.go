package errors

import (
	"errors"
	"fmt"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// Storage and service level conditions. Backends wrap these with the entity
// and key that failed, callers match them with errors.Is or the helpers below.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
	ErrConflict  = errors.New("modified concurrently")
	ErrForbidden = errors.New("not permitted")
)

// ValidationError reports a caller-supplied value or reference that does not resolve.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

func NewValidation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func NotFound(entity string, key any) error {
	return fmt.Errorf("%s %v: %w", entity, key, ErrNotFound)
}

func Duplicate(entity string, key any) error {
	return fmt.Errorf("%s %v: %w", entity, key, ErrDuplicate)
}

func Conflict(entity string, key any) error {
	return fmt.Errorf("%s %v: %w", entity, key, ErrConflict)
}

func Forbidden(action string) error {
	return fmt.Errorf("%s: %w", action, ErrForbidden)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
