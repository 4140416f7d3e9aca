package explore

import (
	"sort"
	"strings"

	"github.com/spott-events/spott/internal/model"
)

// Policy decides which events a user sees and in what order.  Narrow
// selects the subset worth showing and keeps the input order.  Rank
// narrows and then orders for the featured and popular sections.
// Implementations must not modify the input slice.
type Policy interface {
	Narrow(events []model.Event, user *model.User) []model.Event
	Rank(events []model.Event, user *model.User) []model.Event
}

// Popularity ranks by registration count, highest first.  Ties keep
// storage order.
type Popularity struct{}

func (Popularity) Narrow(events []model.Event, _ *model.User) []model.Event {
	return events
}

func (Popularity) Rank(events []model.Event, _ *model.User) []model.Event {
	out := make([]model.Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RegistrationCount > out[j].RegistrationCount
	})
	return out
}

// Interests narrows to events in the user's interest categories when the
// user has onboarded and at least one event matches.  Otherwise it falls
// back to the full set.  Ranking is by popularity.
type Interests struct{}

func (Interests) Narrow(events []model.Event, user *model.User) []model.Event {
	set := user.InterestSet()
	if len(set) == 0 {
		return events
	}
	var matched []model.Event
	for _, e := range events {
		if set[strings.ToLower(e.Category)] {
			matched = append(matched, e)
		}
	}
	if len(matched) == 0 {
		return events
	}
	return matched
}

func (p Interests) Rank(events []model.Event, user *model.User) []model.Event {
	return Popularity{}.Rank(p.Narrow(events, user), user)
}

// PolicyByName maps a configured policy name to its implementation.
// Unknown names select Popularity.
func PolicyByName(name string) Policy {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "interests":
		return Interests{}
	default:
		return Popularity{}
	}
}
