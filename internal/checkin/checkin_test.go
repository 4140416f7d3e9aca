package checkin

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spott-events/spott/internal/clock"
	"github.com/spott-events/spott/internal/database"
	"github.com/spott-events/spott/internal/model"
	"github.com/spott-events/spott/internal/repository"
)

var start = time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)

type recorder struct {
	mu   sync.Mutex
	regs []model.Registration
}

func (r *recorder) AttendeeCheckedIn(_ context.Context, reg *model.Registration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regs = append(r.regs, *reg)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.regs)
}

type fixture struct {
	db      *sqlx.DB
	regs    *repository.RegistrationRepo
	owner   uint64
	code    string
	eventID uint64
}

// newFixture creates an organizer, one event and one registration.
func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenMemory(ctx, uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := repository.NewUserRepo(db)
	owner, err := users.Create(ctx, "host@example.com", "password123", "Host", 4, start)
	require.NoError(t, err)
	guest, err := users.Create(ctx, "guest@example.com", "password123", "Guest", 4, start)
	require.NoError(t, err)

	events := repository.NewEventRepo(db)
	regs := repository.NewRegistrationRepo(db)
	e := &model.Event{
		Title: "Launch party", Description: "An evening of demos and drinks.",
		Category: "tech", Tags: []string{"tech"}, City: "Pune",
		StartDate: start.Add(24 * time.Hour), EndDate: start.Add(27 * time.Hour),
		LocationType: model.LocationPhysical, TicketType: model.TicketFree,
		Capacity: 10, ThemeColor: model.DefaultThemeColor, CreatedBy: owner.ID, CreatedAt: start,
	}
	reg := &model.Registration{
		UserID: guest.ID, AttendeeName: guest.Name, AttendeeEmail: guest.Email,
		QRCode: uuid.NewString(), CreatedAt: start,
	}

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, events.CreateTx(ctx, tx, e))
	reg.EventID = e.ID
	require.NoError(t, events.IncrementRegistrationsTx(ctx, tx, e.ID))
	require.NoError(t, regs.CreateTx(ctx, tx, reg))
	require.NoError(t, tx.Commit())

	return fixture{db: db, regs: regs, owner: owner.ID, code: reg.QRCode, eventID: e.ID}
}

func TestCheckIn_SuccessThenAlreadyCheckedIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec := &recorder{}
	first := start.Add(23 * time.Hour)
	svc := NewService(f.regs, clock.Fixed(first), rec)

	res, err := svc.CheckIn(ctx, f.code)
	require.NoError(t, err)
	assert.Equal(t, Result{Success: true, Message: MsgSuccess}, res)

	later := NewService(f.regs, clock.Fixed(first.Add(time.Hour)), rec)
	res, err = later.CheckIn(ctx, f.code)
	require.NoError(t, err)
	assert.Equal(t, Result{Success: false, Message: MsgAlreadyChecked}, res)

	reg, err := f.regs.GetByCode(ctx, f.code)
	require.NoError(t, err)
	assert.True(t, reg.CheckedIn)
	require.NotNil(t, reg.CheckedInAt)
	assert.True(t, first.Equal(*reg.CheckedInAt), "timestamp from the first scan must be kept")
	assert.Equal(t, 1, rec.count())
}

func TestCheckIn_UnknownCode(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.regs, clock.Fixed(start), nil)

	for _, code := range []string{"bogus", "", "   "} {
		res, err := svc.CheckIn(context.Background(), code)
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, MsgNotFound, res.Message)
	}
}

func TestCheckIn_ConcurrentScansAdmitOnce(t *testing.T) {
	f := newFixture(t)
	rec := &recorder{}
	svc := NewService(f.regs, clock.Fixed(start), rec)

	const scans = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  int
		errs      []error
	)
	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.CheckIn(context.Background(), f.code)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				errs = append(errs, err)
			case res.Success:
				successes++
			default:
				assert.Equal(t, MsgAlreadyChecked, res.Message)
				failures++
			}
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Equal(t, 1, successes)
	assert.Equal(t, scans-1, failures)
	assert.Equal(t, 1, rec.count())
}

func TestCheckInAs_RequiresOrganizer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewService(f.regs, clock.Fixed(start), nil)

	res, err := svc.CheckInAs(ctx, f.owner+100, f.code)
	require.NoError(t, err)
	assert.Equal(t, Result{Success: false, Message: MsgNotOrganizer}, res)

	reg, err := f.regs.GetByCode(ctx, f.code)
	require.NoError(t, err)
	assert.False(t, reg.CheckedIn)

	res, err = svc.CheckInAs(ctx, f.owner, "bogus")
	require.NoError(t, err)
	assert.Equal(t, MsgNotFound, res.Message)

	res, err = svc.CheckInAs(ctx, f.owner, f.code)
	require.NoError(t, err)
	assert.True(t, res.Success)
}
