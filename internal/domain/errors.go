package domain

import (
	"errors"
	"fmt"
)

// ValidationError rejects a request because of a missing or malformed field.
// No state is mutated when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError means a referenced record does not resolve. It is always
// surfaced before any write.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NewNotFoundError(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: fmt.Sprintf("%v", id)}
}

// AuthorizationError means the actor's role is not in the allow-list for the
// attempted action. Distinct from validation failures.
type AuthorizationError struct {
	Role   string
	Action string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("role %s may not %s", e.Role, e.Action)
}

func NewAuthorizationError(role, action string) *AuthorizationError {
	return &AuthorizationError{Role: role, Action: action}
}

// ConflictError marks a retryable collision, e.g. a duplicate document code
// under racing creates.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
