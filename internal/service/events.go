// Package service holds the write-side workflows: creating events,
// registering attendees and onboarding users.  Each multi-row change
// runs in one transaction and is announced through the Notifier after
// commit.
package service

import (
    "context"
    "net/url"
    "regexp"
    "strings"
    "time"
    "unicode/utf8"

    "github.com/google/uuid"

    "github.com/spott-events/spott/internal/clock"
    "github.com/spott-events/spott/internal/model"
    "github.com/spott-events/spott/internal/repository"
)

// Field limits for event creation.
const (
    MinTitleLength       = 5
    MinDescriptionLength = 20
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// CreateEventInput carries the organizer-supplied event fields.
type CreateEventInput struct {
    Title        string     `json:"title"`
    Description  string     `json:"description"`
    Category     string     `json:"category"`
    StartDate    time.Time  `json:"start_date"`
    EndDate      time.Time  `json:"end_date"`
    Timezone     string     `json:"timezone"`
    LocationType string     `json:"location_type"`
    Venue        string     `json:"venue"`
    Address      string     `json:"address"`
    City         string     `json:"city"`
    State        string     `json:"state"`
    Country      string     `json:"country"`
    Capacity     int        `json:"capacity"`
    TicketType   string     `json:"ticket_type"`
    TicketPrice  *float64   `json:"ticket_price"`
    CoverImage   string     `json:"cover_image"`
    ThemeColor   string     `json:"theme_color"`
}

// EventService creates events and registers attendees.
type EventService struct {
    Events        *repository.EventRepo
    Users         *repository.UserRepo
    Registrations *repository.RegistrationRepo
    Clock         clock.Clock
    Notify        *Notifier
}

// NewEventService wires an EventService.  A nil clock uses the system
// clock and a nil notifier publishes nothing.
func NewEventService(events *repository.EventRepo, users *repository.UserRepo, regs *repository.RegistrationRepo, clk clock.Clock, n *Notifier) *EventService {
    if clk == nil {
        clk = clock.System{}
    }
    if n == nil {
        n = NewNotifier(nil)
    }
    return &EventService{Events: events, Users: users, Registrations: regs, Clock: clk, Notify: n}
}

// normalize trims text fields and fills defaults.
func (in *CreateEventInput) normalize() {
    in.Title = strings.TrimSpace(in.Title)
    in.Description = strings.TrimSpace(in.Description)
    in.Category = strings.TrimSpace(in.Category)
    in.City = strings.TrimSpace(in.City)
    in.State = strings.TrimSpace(in.State)
    in.Country = strings.TrimSpace(in.Country)
    in.Venue = strings.TrimSpace(in.Venue)
    in.Address = strings.TrimSpace(in.Address)
    in.LocationType = strings.ToLower(strings.TrimSpace(in.LocationType))
    if in.LocationType == "" {
        in.LocationType = model.LocationPhysical
    }
    in.TicketType = strings.ToLower(strings.TrimSpace(in.TicketType))
    if in.TicketType == "" {
        in.TicketType = model.TicketFree
    }
    in.ThemeColor = strings.TrimSpace(in.ThemeColor)
    if in.ThemeColor == "" {
        in.ThemeColor = model.DefaultThemeColor
    }
}

// Validate checks in after normalization and returns the first
// *ValidationError found.
func (in CreateEventInput) Validate() error {
    switch {
    case utf8.RuneCountInString(in.Title) < MinTitleLength:
        return invalid("title", "must be at least 5 characters")
    case utf8.RuneCountInString(in.Description) < MinDescriptionLength:
        return invalid("description", "must be at least 20 characters")
    case !model.IsCategory(in.Category):
        return invalid("category", "unknown category")
    case in.City == "":
        return invalid("city", "required")
    case in.Capacity < 1:
        return invalid("capacity", "must be at least 1")
    case in.StartDate.IsZero() || in.EndDate.IsZero():
        return invalid("start_date", "start and end dates are required")
    case !in.EndDate.After(in.StartDate):
        return invalid("end_date", "must be after the start date")
    case in.LocationType != model.LocationPhysical && in.LocationType != model.LocationOnline:
        return invalid("location_type", "must be physical or online")
    case in.TicketType != model.TicketFree && in.TicketType != model.TicketPaid:
        return invalid("ticket_type", "must be free or paid")
    case in.TicketType == model.TicketPaid && (in.TicketPrice == nil || *in.TicketPrice <= 0):
        return invalid("ticket_price", "paid events need a positive price")
    case in.TicketType == model.TicketFree && in.TicketPrice != nil && *in.TicketPrice != 0:
        return invalid("ticket_price", "free events have no price")
    case !hexColor.MatchString(in.ThemeColor):
        return invalid("theme_color", "must be a #rrggbb color")
    }
    if in.Venue != "" {
        u, err := url.ParseRequestURI(in.Venue)
        if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
            return invalid("venue", "must be an http(s) URL")
        }
    }
    return nil
}

// Create validates in and stores a new event owned by user.  Free-plan
// users may only use the default theme color and create
// model.FreeEventLimit events; the limit is consumed in the same
// transaction as the insert.
func (s *EventService) Create(ctx context.Context, user *model.User, in CreateEventInput) (*model.Event, error) {
    in.normalize()
    if err := in.Validate(); err != nil {
        return nil, err
    }
    pro := user.IsPro()
    if !pro && !strings.EqualFold(in.ThemeColor, model.DefaultThemeColor) {
        return nil, ErrProRequired
    }
    country := in.Country
    if country == "" && user.Location != nil {
        country = user.Location.Country
    }
    e := &model.Event{
        Title:        in.Title,
        Description:  in.Description,
        Category:     in.Category,
        Tags:         []string{in.Category},
        StartDate:    in.StartDate.UTC(),
        EndDate:      in.EndDate.UTC(),
        Timezone:     in.Timezone,
        LocationType: in.LocationType,
        Venue:        in.Venue,
        Address:      in.Address,
        City:         in.City,
        State:        in.State,
        Country:      country,
        Capacity:     in.Capacity,
        TicketType:   in.TicketType,
        CoverImage:   in.CoverImage,
        ThemeColor:   in.ThemeColor,
        CreatedBy:    user.ID,
        CreatedAt:    s.Clock.Now(),
    }
    if in.TicketType == model.TicketPaid {
        e.TicketPrice = in.TicketPrice
    }

    tx, err := s.Events.DB().BeginTxx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if !pro {
        if err := s.Users.IncrementFreeEventsTx(ctx, tx, user.ID); err != nil {
            return nil, err
        }
    }
    if err := s.Events.CreateTx(ctx, tx, e); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true

    s.Notify.EventCreated(ctx, e)
    return e, nil
}

// Register gives user a ticket for the event.  It fails with
// repository.ErrEventNotFound, ErrEventStarted,
// repository.ErrAlreadyRegistered or repository.ErrEventFull.
func (s *EventService) Register(ctx context.Context, eventID uint64, user *model.User) (*model.Registration, error) {
    now := s.Clock.Now()
    tx, err := s.Events.DB().BeginTxx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    e, err := s.Events.GetByIDTx(ctx, tx, eventID)
    if err != nil {
        return nil, err
    }
    if e.HasStarted(now) {
        return nil, ErrEventStarted
    }
    reg := &model.Registration{
        EventID:       e.ID,
        UserID:        user.ID,
        AttendeeName:  user.Name,
        AttendeeEmail: user.Email,
        QRCode:        uuid.NewString(),
        CreatedAt:     now,
    }
    // Insert first so a duplicate reports ErrAlreadyRegistered even when
    // the event is also full.
    if err := s.Registrations.CreateTx(ctx, tx, reg); err != nil {
        return nil, err
    }
    if err := s.Events.IncrementRegistrationsTx(ctx, tx, e.ID); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    e.RegistrationCount++

    s.Notify.RegistrationCreated(ctx, reg, e)
    return reg, nil
}

// Attendees lists an event's registrations for its organizer.
func (s *EventService) Attendees(ctx context.Context, eventID, organizerID uint64) ([]model.Registration, error) {
    e, err := s.Events.GetByID(ctx, eventID)
    if err != nil {
        return nil, err
    }
    if e.CreatedBy != organizerID {
        return nil, ErrForbidden
    }
    return s.Registrations.ListByEvent(ctx, eventID)
}

// Ticket loads a registration and its event for the ticket holder or the
// event's organizer.
func (s *EventService) Ticket(ctx context.Context, code string, userID uint64) (*model.Ticket, error) {
    reg, err := s.Registrations.GetByCode(ctx, code)
    if err != nil {
        return nil, err
    }
    e, err := s.Events.GetByID(ctx, reg.EventID)
    if err != nil {
        return nil, err
    }
    if reg.UserID != userID && e.CreatedBy != userID {
        return nil, ErrForbidden
    }
    return &model.Ticket{Registration: *reg, Event: *e}, nil
}
