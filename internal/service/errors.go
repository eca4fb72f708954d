package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConflict is returned when a registration collides with an existing email or username.
	ErrConflict = errors.New("email or username already exists")
	// ErrInvalidCredentials deliberately does not say whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized indicates a missing, unknown or expired session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound covers both nonexistent resources and resources owned by someone else.
	ErrNotFound = errors.New("not found")
	// ErrStore marks failures of the underlying persistence layer.
	ErrStore = errors.New("store failure")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned before any store access when input is malformed.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}
