package model

import "time"

// Location types and ticket types accepted on an event.
const (
    LocationPhysical = "physical"
    LocationOnline   = "online"

    TicketFree = "free"
    TicketPaid = "paid"
)

// DefaultThemeColor is the only theme color available on the free plan.
const DefaultThemeColor = "#1e3a8a"

// Event represents a plannable happening that users can discover and
// register for.  Events are written once by their creator; the only
// field that changes afterwards is RegistrationCount, which the
// registration flow increments.
//
// Fields:
//  ID                – primary key identifier.
//  Title/Description – display text.
//  Category          – one of Categories.
//  Tags              – category-like labels (currently [Category]).
//  StartDate/EndDate – absolute times; EndDate is after StartDate.
//  Timezone          – IANA zone the creator entered the times in.
//  LocationType      – physical or online.
//  Venue             – optional URL (map or meeting link).
//  City/State        – used by location browsing.
//  Capacity          – maximum registrations (>= 1).
//  TicketType        – free or paid; TicketPrice is set iff paid.
//  CoverImage        – reference to a hosted asset.
//  ThemeColor        – hex color; non-default values need the pro plan.
//  RegistrationCount – number of registrations, never decreases.
//  CreatedBy         – owning user.
type Event struct {
    ID                uint64    `json:"id"`
    Title             string    `json:"title"`
    Description       string    `json:"description"`
    Category          string    `json:"category"`
    Tags              []string  `json:"tags"`
    StartDate         time.Time `json:"start_date"`
    EndDate           time.Time `json:"end_date"`
    Timezone          string    `json:"timezone,omitempty"`
    LocationType      string    `json:"location_type"`
    Venue             string    `json:"venue,omitempty"`
    Address           string    `json:"address,omitempty"`
    City              string    `json:"city"`
    State             string    `json:"state,omitempty"`
    Country           string    `json:"country,omitempty"`
    Capacity          int       `json:"capacity"`
    TicketType        string    `json:"ticket_type"`
    TicketPrice       *float64  `json:"ticket_price,omitempty"`
    CoverImage        string    `json:"cover_image,omitempty"`
    ThemeColor        string    `json:"theme_color"`
    RegistrationCount int       `json:"registration_count"`
    CreatedBy         uint64    `json:"created_by"`
    CreatedAt         time.Time `json:"created_at"`
}

// HasStarted reports whether the event start lies strictly before now.
func (e Event) HasStarted(now time.Time) bool {
    return e.StartDate.Before(now)
}

// SpotsLeft returns the remaining capacity, never negative.
func (e Event) SpotsLeft() int {
    if n := e.Capacity - e.RegistrationCount; n > 0 {
        return n
    }
    return 0
}
