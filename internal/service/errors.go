package service

import (
    "errors"
    "fmt"
)

// ErrProRequired is returned when a free-plan user asks for a pro
// feature such as a custom theme color.
var ErrProRequired = errors.New("this feature requires the pro plan")

// ErrEventStarted is returned when registering for an event that has
// already begun.
var ErrEventStarted = errors.New("event has already started")

// ErrForbidden is returned when the caller does not own the resource.
var ErrForbidden = errors.New("forbidden")

// ValidationError reports a rejected input field.
type ValidationError struct {
    Field string
    Msg   string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Msg) }

func invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }
