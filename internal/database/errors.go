package database

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup by identity finds no row.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write would violate a uniqueness rule.
	ErrConflict = errors.New("record already exists")
	// ErrUnavailable is returned when the relational store cannot complete an operation.
	ErrUnavailable = errors.New("persistence unavailable")
)

type unavailableError struct {
	cause error
}

func (e *unavailableError) Error() string        { return ErrUnavailable.Error() + ": " + e.cause.Error() }
func (e *unavailableError) Is(target error) bool { return target == ErrUnavailable }
func (e *unavailableError) Cause() error         { return e.cause }
func (e *unavailableError) Unwrap() error        { return e.cause }

// Classify maps driver and GORM errors onto ErrNotFound, ErrConflict or ErrUnavailable.
// Errors that are already classified pass through untouched.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict), errors.Is(err, ErrUnavailable):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Wrap(ErrConflict, err.Error())
	default:
		return errors.WithStack(&unavailableError{cause: err})
	}
}
