package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvariantViolation = errors.New("internal invariant violation")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
	ErrUnknownCommand     = errors.New("unknown command")
)

type notFoundError struct {
	EntityType string
	ID         string
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("%s with ID '%s' not found", e.EntityType, e.ID)
}

func NewNotFoundError(entityType string, id string) error {
	return &notFoundError{
		EntityType: entityType,
		ID:         id,
	}
}

func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var notFoundError *notFoundError
	ok := errors.As(err, &notFoundError)
	return ok
}
