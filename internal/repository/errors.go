// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without inspecting driver errors.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrEventNotFound indicates that an event was not located in the DB.
var ErrEventNotFound = errors.New("event not found")

// ErrRegistrationNotFound is returned when a scanned or requested code
// does not resolve to a registration.
var ErrRegistrationNotFound = errors.New("registration not found")

// ErrAlreadyCheckedIn is returned by CheckIn when the registration was
// checked in earlier.  It is an expected outcome, not a failure.
var ErrAlreadyCheckedIn = errors.New("already checked in")

// ErrAlreadyRegistered signals a second registration for the same
// (event, user) pair.
var ErrAlreadyRegistered = errors.New("already registered for this event")

// ErrEventFull is returned when an event has no capacity left.
var ErrEventFull = errors.New("event is full")

// ErrFreeLimitReached is returned when a free-plan user already created
// the allowed number of events.
var ErrFreeLimitReached = errors.New("free plan event limit reached")

// ErrEmailExists is returned when registering an email twice.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound indicates that no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrTokenInvalid covers unknown, revoked and expired refresh tokens.
var ErrTokenInvalid = errors.New("refresh token invalid")

// isUniqueViolation reports whether err is a unique-key violation in
// either supported dialect.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// escapeLike escapes LIKE wildcards using '!' so the pattern is portable
// between MySQL and SQLite (queries add ESCAPE '!').
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}
