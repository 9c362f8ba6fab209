package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrInvalidID       = errors.New("invalid student id")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrVersionConflict = errors.New("ledger version conflict")
)

// PersistenceError is an opaque storage failure. The payment or rollover it
// belongs to is treated as not applied.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence wraps err unless it is already a domain error the caller maps
// to its own status.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStudentNotFound) || errors.Is(err, ErrVersionConflict) {
		return err
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// Validation tags err as a request validation failure.
func Validation(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
