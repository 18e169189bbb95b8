package errors

import "fmt"

// ErrNotFound indicates a resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized indicates missing or invalid credentials
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}

// ErrValidation indicates a request that fails input validation
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}
