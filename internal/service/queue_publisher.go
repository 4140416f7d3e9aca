package service

import (
    "context"
    "log"
    "time"

    "github.com/spott-events/spott/internal/model"
    q "github.com/spott-events/spott/internal/queue"
)

// Notifier turns domain changes into broker messages.  Publishing runs in
// the background after the write has committed; failures are logged and
// never reach the caller.
type Notifier struct {
    pub     q.Publisher
    timeout time.Duration
    inline  bool
}

// NewNotifier wraps pub.  A nil pub drops every message.
func NewNotifier(pub q.Publisher) *Notifier {
    if pub == nil {
        pub = q.NopPublisher{}
    }
    return &Notifier{pub: pub, timeout: 5 * time.Second}
}

// publish sends payload without holding up the request.
func (n *Notifier) publish(ctx context.Context, queue string, payload interface{}) {
    if n == nil {
        return
    }
    send := func() {
        ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
        defer cancel()
        if err := n.pub.Publish(ctx, queue, payload); err != nil {
            log.Printf("notifier: publish %s: %v", queue, err)
        }
    }
    if n.inline {
        send()
        return
    }
    go send()
}

// EventCreated announces a new event.
func (n *Notifier) EventCreated(ctx context.Context, e *model.Event) {
    n.publish(ctx, q.EventCreatedQueue, q.EventCreatedEvent{
        EventID:   e.ID,
        Title:     e.Title,
        Category:  e.Category,
        City:      e.City,
        StartDate: e.StartDate.UTC().Format(time.RFC3339),
        Capacity:  e.Capacity,
        CreatedBy: e.CreatedBy,
        CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
    })
}

// RegistrationCreated announces a new ticket.
func (n *Notifier) RegistrationCreated(ctx context.Context, reg *model.Registration, e *model.Event) {
    n.publish(ctx, q.RegistrationCreatedQueue, q.RegistrationCreatedEvent{
        RegistrationID: reg.ID,
        EventID:        reg.EventID,
        EventTitle:     e.Title,
        UserID:         reg.UserID,
        AttendeeName:   reg.AttendeeName,
        AttendeeEmail:  reg.AttendeeEmail,
        QRCode:         reg.QRCode,
        CreatedAt:      reg.CreatedAt.UTC().Format(time.RFC3339),
    })
}

// AttendeeCheckedIn announces a committed check-in.
func (n *Notifier) AttendeeCheckedIn(ctx context.Context, reg *model.Registration) {
    at := ""
    if reg.CheckedInAt != nil {
        at = reg.CheckedInAt.UTC().Format(time.RFC3339)
    }
    n.publish(ctx, q.AttendeeCheckedInQueue, q.AttendeeCheckedInEvent{
        RegistrationID: reg.ID,
        EventID:        reg.EventID,
        UserID:         reg.UserID,
        AttendeeName:   reg.AttendeeName,
        AttendeeEmail:  reg.AttendeeEmail,
        CheckedInAt:    at,
    })
}
