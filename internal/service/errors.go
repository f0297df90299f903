package service

import (
	"errors"
	"fmt"

	"habittracker/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrAccountTaken       = errors.New("email or username already taken")
)

// NotFoundError names the missing record. It matches repository.ErrNotFound.
type NotFoundError struct {
	Entity string
	Key    any
}

func (e *NotFoundError) Error() string {
	if s, ok := e.Key.(string); ok {
		return fmt.Sprintf("could not find %s %q", e.Entity, s)
	}
	return fmt.Sprintf("could not find %s %v", e.Entity, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return repository.ErrNotFound
}

// notFound converts repository.ErrNotFound into a NotFoundError and passes
// other errors through.
func notFound(err error, entity string, key any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entity, Key: key}
	}
	return err
}
