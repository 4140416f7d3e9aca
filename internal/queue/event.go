// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names.  Each payload type goes to the queue of the same name
// through the default exchange.
const (
    EventCreatedQueue        = "event.created"
    RegistrationCreatedQueue = "registration.created"
    AttendeeCheckedInQueue   = "attendee.checked_in"
)

// EventCreatedEvent is published after an organizer creates an event.
type EventCreatedEvent struct {
    EventID   uint64 `json:"event_id"`
    Title     string `json:"title"`
    Category  string `json:"category"`
    City      string `json:"city"`
    StartDate string `json:"start_date"`
    Capacity  int    `json:"capacity"`
    CreatedBy uint64 `json:"created_by"`
    CreatedAt string `json:"created_at"`
}

// RegistrationCreatedEvent is published when a user registers.  It
// carries enough for a notifier to email the ticket without a lookup.
type RegistrationCreatedEvent struct {
    RegistrationID uint64 `json:"registration_id"`
    EventID        uint64 `json:"event_id"`
    EventTitle     string `json:"event_title"`
    UserID         uint64 `json:"user_id"`
    AttendeeName   string `json:"attendee_name"`
    AttendeeEmail  string `json:"attendee_email"`
    QRCode         string `json:"qr_code"`
    CreatedAt      string `json:"created_at"`
}

// AttendeeCheckedInEvent is published after a check-in commits.
type AttendeeCheckedInEvent struct {
    RegistrationID uint64 `json:"registration_id"`
    EventID        uint64 `json:"event_id"`
    UserID         uint64 `json:"user_id"`
    AttendeeName   string `json:"attendee_name"`
    AttendeeEmail  string `json:"attendee_email"`
    CheckedInAt    string `json:"checked_in_at"`
}
