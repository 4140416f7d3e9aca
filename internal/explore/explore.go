// Package explore answers which future events to show and in what
// order: featured, nearby, popular, per category and category counts.
// All operations read; none mutate storage.
package explore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spott-events/spott/internal/clock"
	"github.com/spott-events/spott/internal/model"
)

// Default result sizes used when the caller passes a non-positive limit.
const (
	DefaultFeaturedLimit = 3
	DefaultLocationLimit = 4
	DefaultPopularLimit  = 6
	DefaultCategoryLimit = 12
	DefaultSearchLimit   = 5
)

// MinSearchLength is the shortest trimmed query SearchEvents will run.
const MinSearchLength = 2

// ErrInvalidInput is returned when a required argument is missing.
var ErrInvalidInput = errors.New("invalid input")

// Store is the read side of event storage.  Implementations return only
// events starting at or after now.
type Store interface {
	// FutureEvents is ordered by start date, then insertion order.
	FutureEvents(ctx context.Context, now time.Time) ([]model.Event, error)
	// FutureEventsInCategory matches category exactly, in insertion order.
	FutureEventsInCategory(ctx context.Context, category string, now time.Time) ([]model.Event, error)
	// SearchFuture does a case-insensitive substring match over title,
	// description, city and category, ordered by start date.
	SearchFuture(ctx context.Context, term string, now time.Time, limit int) ([]model.Event, error)
}

// LocationFilter selects events by place.  A non-empty City wins and
// State is ignored; both match case-insensitively.
type LocationFilter struct {
	City  string
	State string
}

// Service implements the event queries.
type Service struct {
	store  Store
	clock  clock.Clock
	policy Policy
}

// NewService wires a Service.  A nil clock uses the system clock and a
// nil policy ranks by plain popularity.
func NewService(store Store, clk clock.Clock, policy Policy) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	if policy == nil {
		policy = Popularity{}
	}
	return &Service{store: store, clock: clk, policy: policy}
}

// FeaturedEvents returns the most registered future events.
func (s *Service) FeaturedEvents(ctx context.Context, user *model.User, limit int) ([]model.Event, error) {
	return s.ranked(ctx, user, limitOr(limit, DefaultFeaturedLimit))
}

// PopularEvents ranks exactly like FeaturedEvents with a larger default.
func (s *Service) PopularEvents(ctx context.Context, user *model.User, limit int) ([]model.Event, error) {
	return s.ranked(ctx, user, limitOr(limit, DefaultPopularLimit))
}

func (s *Service) ranked(ctx context.Context, user *model.User, limit int) ([]model.Event, error) {
	events, err := s.future(ctx)
	if err != nil {
		return nil, err
	}
	return truncate(s.policy.Rank(events, user), limit), nil
}

// EventsByLocation returns future events in the filter's city, or in its
// state when no city is given.  An empty filter matches everything.
// Storage order is kept.
func (s *Service) EventsByLocation(ctx context.Context, user *model.User, f LocationFilter, limit int) ([]model.Event, error) {
	events, err := s.future(ctx)
	if err != nil {
		return nil, err
	}
	city := strings.TrimSpace(f.City)
	state := strings.TrimSpace(f.State)
	var matched []model.Event
	for _, e := range events {
		switch {
		case city != "":
			if !strings.EqualFold(e.City, city) {
				continue
			}
		case state != "":
			if !strings.EqualFold(e.State, state) {
				continue
			}
		}
		matched = append(matched, e)
	}
	return truncate(s.policy.Narrow(matched, user), limitOr(limit, DefaultLocationLimit)), nil
}

// EventsByCategory returns future events whose category equals category
// exactly.  An unknown category yields an empty result; an empty one is
// ErrInvalidInput.
func (s *Service) EventsByCategory(ctx context.Context, category string, limit int) ([]model.Event, error) {
	if category == "" {
		return nil, ErrInvalidInput
	}
	now := s.clock.Now()
	events, err := s.store.FutureEventsInCategory(ctx, category, now)
	if err != nil {
		return nil, err
	}
	var matched []model.Event
	for _, e := range upcoming(events, now) {
		if e.Category == category {
			matched = append(matched, e)
		}
	}
	return truncate(matched, limitOr(limit, DefaultCategoryLimit)), nil
}

// CategoryCounts maps each category with at least one future event to
// its event count.
func (s *Service) CategoryCounts(ctx context.Context) (map[string]int, error) {
	events, err := s.future(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.Category]++
	}
	return counts, nil
}

// SearchEvents returns future events matching query.  Queries shorter
// than MinSearchLength after trimming return an empty result.
func (s *Service) SearchEvents(ctx context.Context, query string, limit int) ([]model.Event, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinSearchLength {
		return []model.Event{}, nil
	}
	now := s.clock.Now()
	limit = limitOr(limit, DefaultSearchLimit)
	events, err := s.store.SearchFuture(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	return truncate(upcoming(events, now), limit), nil
}

func (s *Service) future(ctx context.Context) ([]model.Event, error) {
	now := s.clock.Now()
	events, err := s.store.FutureEvents(ctx, now)
	if err != nil {
		return nil, err
	}
	return upcoming(events, now), nil
}

// upcoming drops anything that started before now, whatever the store
// returned.
func upcoming(events []model.Event, now time.Time) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if !e.HasStarted(now) {
			out = append(out, e)
		}
	}
	return out
}

func limitOr(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}

func truncate(events []model.Event, limit int) []model.Event {
	if events == nil {
		return []model.Event{}
	}
	if len(events) > limit {
		return events[:limit]
	}
	return events
}
