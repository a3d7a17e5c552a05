// Package apperrors holds the error types shared by the appointment and
// password reset services and mapped to HTTP statuses by the handlers.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidToken is returned when a reset token matches no patient.
	ErrInvalidToken = errors.New("invalid reset token")
	// ErrTokenExpired is returned when a reset token matched but its expiry has passed.
	ErrTokenExpired = errors.New("reset token expired")
	// ErrIncorrectPassword is returned when a password change presents the wrong current password.
	ErrIncorrectPassword = errors.New("current password is incorrect")
)

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFound builds a NotFoundError.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError reports malformed input.
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

// NewValidation builds a ValidationError.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError reports a write that collides with existing data, such as
// a second account on the same email.
type ConflictError struct {
	Resource string
	Message  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Resource, e.Message)
}

func NewConflict(resource, message string) *ConflictError {
	return &ConflictError{Resource: resource, Message: message}
}

// NotificationError wraps a failed delivery that the caller must see.
type NotificationError struct {
	Kind string
	Err  error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("%s notification failed: %v", e.Kind, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotification reports whether err is or wraps a NotificationError.
func IsNotification(err error) bool {
	var ne *NotificationError
	return errors.As(err, &ne)
}

// IsConflict reports whether err is or wraps a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
