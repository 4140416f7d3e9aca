// Package clock supplies the current time to services so that "now" is
// an explicit input rather than an ambient read.
package clock

import "time"

// Clock returns the current instant.
type Clock interface {
    Now() time.Time
}

// System reads the wall clock in UTC.
type System struct{}

// Now implements Clock.
func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant.  Tests use it to pin "now".
type Fixed time.Time

// Now implements Clock.
func (f Fixed) Now() time.Time { return time.Time(f) }

// Millis converts t to Unix milliseconds, the storage format for every
// timestamp column.
func Millis(t time.Time) int64 { return t.UnixMilli() }

// FromMillis converts Unix milliseconds back to a UTC time.
func FromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
