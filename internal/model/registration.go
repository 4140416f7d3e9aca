package model

import "time"

// Registration is one attendee's claim on an Event.  QRCode is the
// opaque value rendered into the attendee's QR image and scanned at the
// door.  CheckedInAt is nil until the first successful check-in and is
// never overwritten afterwards.
type Registration struct {
    ID            uint64     `json:"id"`
    EventID       uint64     `json:"event_id"`
    UserID        uint64     `json:"user_id"`
    AttendeeName  string     `json:"attendee_name"`
    AttendeeEmail string     `json:"attendee_email"`
    QRCode        string     `json:"qr_code"`
    CheckedIn     bool       `json:"checked_in"`
    CheckedInAt   *time.Time `json:"checked_in_at,omitempty"`
    CreatedAt     time.Time  `json:"created_at"`
}

// Ticket pairs a registration with the event it admits to.
type Ticket struct {
    Registration Registration `json:"registration"`
    Event        Event        `json:"event"`
}
