package model

import (
    "strings"
    "time"
)

// Plans a user can hold.  The pro plan unlocks custom theme colors and
// lifts the free-tier limit of one created event.
const (
    PlanFree = "free"
    PlanPro  = "pro"
)

// FreeEventLimit is the number of events a free-plan user may create.
const FreeEventLimit = 1

// Location is where a user browses from by default.
type Location struct {
    City    string `json:"city"`
    State   string `json:"state"`
    Country string `json:"country,omitempty"`
}

// User represents an application user record as stored in the `users`
// table.  PasswordHash never leaves the server.
//
// Fields:
//  ID                     – primary key identifier of the user.
//  Email                  – unique, lower-cased email address.
//  PasswordHash           – bcrypt hashed password.
//  Name                   – display name used on tickets.
//  Plan                   – free or pro.
//  Location               – default browsing location.
//  Interests              – categories picked during onboarding.
//  HasCompletedOnboarding – true once interests and location are set.
//  FreeEventsCreated      – events created while on the free plan.
type User struct {
    ID                     uint64    `json:"id"`
    Email                  string    `json:"email"`
    PasswordHash           string    `json:"-"`
    Name                   string    `json:"name"`
    Plan                   string    `json:"plan"`
    Location               *Location `json:"location,omitempty"`
    Interests              []string  `json:"interests"`
    HasCompletedOnboarding bool      `json:"has_completed_onboarding"`
    FreeEventsCreated      int       `json:"free_events_created"`
    CreatedAt              time.Time `json:"created_at"`
    UpdatedAt              time.Time `json:"updated_at"`
}

// IsPro reports whether the user holds the pro entitlement.
func (u *User) IsPro() bool {
    return u != nil && u.Plan == PlanPro
}

// InterestSet returns the user's interests lower-cased for matching.
// It is empty for nil users and users who have not onboarded.
func (u *User) InterestSet() map[string]bool {
    if u == nil || !u.HasCompletedOnboarding {
        return nil
    }
    set := make(map[string]bool, len(u.Interests))
    for _, i := range u.Interests {
        set[strings.ToLower(i)] = true
    }
    return set
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is not stored; only its SHA‑256 hash.
type RefreshToken struct {
    ID        uint64
    UserID    uint64
    TokenHash string
    ExpiresAt time.Time
    RevokedAt *time.Time
    CreatedAt time.Time
}
