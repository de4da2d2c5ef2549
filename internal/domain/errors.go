package domain

import (
	"errors"
	"fmt"
)

// Error categories returned by workflow operations. The HTTP layer maps
// these to status codes; services never deal with HTTP directly.

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

func NewAuthorizationError(format string, args ...any) error {
	return &AuthorizationError{Msg: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func NewNotFoundError(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError signals an operation that is not valid in the document's
// current state (illegal status transition, duplicate invoice, etc).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func NewConflictError(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// UnavailableError signals a failed inventory availability check.
type UnavailableError struct {
	Msg string
}

func (e *UnavailableError) Error() string { return e.Msg }

func NewUnavailableError(format string, args ...any) error {
	return &UnavailableError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsAuthorization(err error) bool {
	var e *AuthorizationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsUnavailable(err error) bool {
	var e *UnavailableError
	return errors.As(err, &e)
}
