package service

import (
    "context"
    "strings"

    "github.com/spott-events/spott/internal/clock"
    "github.com/spott-events/spott/internal/model"
    "github.com/spott-events/spott/internal/repository"
)

// MinInterests is how many categories a user picks during onboarding.
const MinInterests = 3

// OnboardingInput is the location and interest selection a user submits.
type OnboardingInput struct {
    Location  model.Location `json:"location"`
    Interests []string       `json:"interests"`
}

// Onboarding records a user's location and interests.
type Onboarding struct {
    Users *repository.UserRepo
    Clock clock.Clock
}

// NewOnboarding wires an Onboarding service.
func NewOnboarding(users *repository.UserRepo, clk clock.Clock) *Onboarding {
    if clk == nil {
        clk = clock.System{}
    }
    return &Onboarding{Users: users, Clock: clk}
}

// Complete validates in, stores it and returns the updated user.
// Interests are lower-cased and de-duplicated; each must be a known
// category.  It may be called again later to change location or
// interests.
func (o *Onboarding) Complete(ctx context.Context, userID uint64, in OnboardingInput) (*model.User, error) {
    loc := model.Location{
        City:    strings.TrimSpace(in.Location.City),
        State:   strings.TrimSpace(in.Location.State),
        Country: strings.TrimSpace(in.Location.Country),
    }
    if loc.City == "" {
        return nil, invalid("location.city", "required")
    }
    if loc.State == "" {
        return nil, invalid("location.state", "required")
    }

    seen := make(map[string]bool, len(in.Interests))
    interests := make([]string, 0, len(in.Interests))
    for _, raw := range in.Interests {
        c := strings.ToLower(strings.TrimSpace(raw))
        if !model.IsCategory(c) {
            return nil, invalid("interests", "unknown category "+raw)
        }
        if !seen[c] {
            seen[c] = true
            interests = append(interests, c)
        }
    }
    if len(interests) < MinInterests {
        return nil, invalid("interests", "pick at least 3 categories")
    }

    if err := o.Users.CompleteOnboarding(ctx, userID, loc, interests, o.Clock.Now()); err != nil {
        return nil, err
    }
    return o.Users.GetByID(ctx, userID)
}
