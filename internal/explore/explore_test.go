package explore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spott-events/spott/internal/clock"
	"github.com/spott-events/spott/internal/model"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// memStore keeps events in insertion order and applies the same
// filters the SQL store does.
type memStore struct {
	events []model.Event
}

func (m *memStore) add(e model.Event) {
	e.ID = uint64(len(m.events) + 1)
	m.events = append(m.events, e)
}

func (m *memStore) FutureEvents(_ context.Context, now time.Time) ([]model.Event, error) {
	var out []model.Event
	for _, e := range m.events {
		if !e.StartDate.Before(now) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (m *memStore) FutureEventsInCategory(_ context.Context, category string, now time.Time) ([]model.Event, error) {
	var out []model.Event
	for _, e := range m.events {
		if e.Category == category && !e.StartDate.Before(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) SearchFuture(ctx context.Context, term string, now time.Time, limit int) ([]model.Event, error) {
	all, _ := m.FutureEvents(ctx, now)
	term = strings.ToLower(term)
	var out []model.Event
	for _, e := range all {
		if strings.Contains(strings.ToLower(e.Title+" "+e.Description+" "+e.City+" "+e.Category), term) {
			out = append(out, e)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func ev(title, category, city, state string, startIn time.Duration, regs int) model.Event {
	return model.Event{
		Title:             title,
		Category:          category,
		City:              city,
		State:             state,
		StartDate:         now.Add(startIn),
		EndDate:           now.Add(startIn + 2*time.Hour),
		Capacity:          100,
		RegistrationCount: regs,
	}
}

func seeded() *memStore {
	s := &memStore{}
	s.add(ev("Old jam", "music", "Pune", "Maharashtra", -time.Hour, 99))
	s.add(ev("Go meetup", "tech", "Pune", "Maharashtra", 24*time.Hour, 10))
	s.add(ev("Jazz night", "music", "pune", "Maharashtra", 48*time.Hour, 40))
	s.add(ev("Art walk", "art", "Mumbai", "Maharashtra", 72*time.Hour, 40))
	s.add(ev("Indie fest", "music", "Bengaluru", "Karnataka", 96*time.Hour, 5))
	s.add(ev("Rust workshop", "tech", "Bengaluru", "Karnataka", 0, 70))
	return s
}

func titles(events []model.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Title)
	}
	return out
}

func TestFeaturedEvents_RankedByRegistrations(t *testing.T) {
	svc := NewService(seeded(), clock.Fixed(now), Popularity{})

	got, err := svc.FeaturedEvents(context.Background(), nil, 0)
	require.NoError(t, err)
	// Rust workshop starts exactly now and counts as future; the two
	// 40-count events keep start-date order.
	assert.Equal(t, []string{"Rust workshop", "Jazz night", "Art walk"}, titles(got))
}

func TestPopularEvents_SameRankingLargerDefault(t *testing.T) {
	svc := NewService(seeded(), clock.Fixed(now), Popularity{})

	popular, err := svc.PopularEvents(context.Background(), nil, 0)
	require.NoError(t, err)
	require.Len(t, popular, 5)
	for i := 1; i < len(popular); i++ {
		assert.GreaterOrEqual(t, popular[i-1].RegistrationCount, popular[i].RegistrationCount)
	}

	featured, err := svc.FeaturedEvents(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.Equal(t, titles(featured), titles(popular))
}

func TestQueries_NeverReturnPastEvents(t *testing.T) {
	svc := NewService(seeded(), clock.Fixed(now), Popularity{})
	ctx := context.Background()

	var all []model.Event
	featured, err := svc.FeaturedEvents(ctx, nil, 100)
	require.NoError(t, err)
	all = append(all, featured...)
	popular, err := svc.PopularEvents(ctx, nil, 100)
	require.NoError(t, err)
	all = append(all, popular...)
	local, err := svc.EventsByLocation(ctx, nil, LocationFilter{City: "Pune"}, 100)
	require.NoError(t, err)
	all = append(all, local...)
	music, err := svc.EventsByCategory(ctx, "music", 100)
	require.NoError(t, err)
	all = append(all, music...)

	for _, e := range all {
		assert.False(t, e.StartDate.Before(now), "past event %q returned", e.Title)
	}

	counts, err := svc.CategoryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts["music"])
}

func TestEventsByLocation_CityBeatsState(t *testing.T) {
	svc := NewService(seeded(), clock.Fixed(now), Popularity{})

	got, err := svc.EventsByLocation(context.Background(), nil, LocationFilter{City: "PUNE", State: "Karnataka"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go meetup", "Jazz night"}, titles(got))
}

func TestEventsByLocation_StateWhenNoCity(t *testing.T) {
	svc := NewService(seeded(), clock.Fixed(now), Popularity{})

	got, err := svc.EventsByLocation(context.Background(), nil, LocationFilter{State: "karnataka"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rust workshop", "Indie fest"}, titles(got))
}

func TestEventsByLocation_DefaultLimit(t *testing.T) {
	svc := NewService(seeded(), clock.Fixed(now), Popularity{})

	got, err := svc.EventsByLocation(context.Background(), nil, LocationFilter{}, -3)
	require.NoError(t, err)
	assert.Len(t, got, DefaultLocationLimit)
}

func TestEventsByCategory(t *testing.T) {
	s := seeded()
	s.add(ev("Loud", "Music", "Pune", "", time.Hour, 0))
	svc := NewService(s, clock.Fixed(now), Popularity{})
	ctx := context.Background()

	got, err := svc.EventsByCategory(ctx, "music", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jazz night", "Indie fest"}, titles(got))

	none, err := svc.EventsByCategory(ctx, "knitting", 0)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = svc.EventsByCategory(ctx, "", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCategoryCounts_ExcludesPastEvents(t *testing.T) {
	s := &memStore{}
	s.add(ev("a", "music", "X", "", time.Hour, 0))
	s.add(ev("b", "music", "X", "", 2*time.Hour, 0))
	s.add(ev("c", "art", "X", "", 3*time.Hour, 0))
	s.add(ev("d", "art", "X", "", -time.Hour, 0))
	svc := NewService(s, clock.Fixed(now), Popularity{})

	counts, err := svc.CategoryCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"music": 2, "art": 1}, counts)
}

func TestSearchEvents(t *testing.T) {
	svc := NewService(seeded(), clock.Fixed(now), Popularity{})
	ctx := context.Background()

	short, err := svc.SearchEvents(ctx, "  j ", 0)
	require.NoError(t, err)
	assert.Empty(t, short)

	got, err := svc.SearchEvents(ctx, "JAZZ", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jazz night"}, titles(got))

	byCity, err := svc.SearchEvents(ctx, "bengal", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rust workshop"}, titles(byCity))
}

func TestInterestsPolicy_PersonalizesAndFallsBack(t *testing.T) {
	svc := NewService(seeded(), clock.Fixed(now), Interests{})
	ctx := context.Background()

	fan := &model.User{HasCompletedOnboarding: true, Interests: []string{"Music", "food", "art"}}
	got, err := svc.FeaturedEvents(ctx, fan, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jazz night", "Art walk", "Indie fest"}, titles(got))

	gamer := &model.User{HasCompletedOnboarding: true, Interests: []string{"gaming", "outdoor", "health"}}
	got, err = svc.FeaturedEvents(ctx, gamer, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rust workshop", "Jazz night", "Art walk"}, titles(got))

	fresh := &model.User{Interests: []string{"music"}}
	got, err = svc.FeaturedEvents(ctx, fresh, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rust workshop", "Jazz night", "Art walk"}, titles(got))
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) FutureEvents(ctx context.Context, now time.Time) ([]model.Event, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *mockStore) FutureEventsInCategory(ctx context.Context, category string, now time.Time) ([]model.Event, error) {
	args := m.Called(ctx, category, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *mockStore) SearchFuture(ctx context.Context, term string, now time.Time, limit int) ([]model.Event, error) {
	args := m.Called(ctx, term, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func TestService_UsesInjectedClockAndSurfacesStoreErrors(t *testing.T) {
	store := new(mockStore)
	boom := errors.New("db down")
	store.On("FutureEvents", mock.Anything, now).Return(nil, boom).Once()
	store.On("SearchFuture", mock.Anything, "meetup", now, DefaultSearchLimit).Return([]model.Event{}, nil).Once()

	svc := NewService(store, clock.Fixed(now), nil)
	_, err := svc.PopularEvents(context.Background(), nil, 0)
	assert.ErrorIs(t, err, boom)

	_, err = svc.SearchEvents(context.Background(), " meetup ", 0)
	assert.NoError(t, err)
	store.AssertExpectations(t)
}
