package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/spott-events/spott/internal/clock"
	"github.com/spott-events/spott/internal/model"
)

// RegistrationRepo persists registrations and performs the check-in
// transition.
type RegistrationRepo struct {
	db *sqlx.DB
}

// NewRegistrationRepo returns a RegistrationRepo bound to db.
func NewRegistrationRepo(db *sqlx.DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

type registrationRow struct {
	ID            uint64        `db:"id"`
	EventID       uint64        `db:"event_id"`
	UserID        uint64        `db:"user_id"`
	AttendeeName  string        `db:"attendee_name"`
	AttendeeEmail string        `db:"attendee_email"`
	QRCode        string        `db:"qr_code"`
	CheckedIn     bool          `db:"checked_in"`
	CheckedInAt   sql.NullInt64 `db:"checked_in_at"`
	CreatedAt     int64         `db:"created_at"`
}

const registrationColumns = `id, event_id, user_id, attendee_name, attendee_email, qr_code,
	checked_in, checked_in_at, created_at`

func (row registrationRow) toModel() model.Registration {
	reg := model.Registration{
		ID:            row.ID,
		EventID:       row.EventID,
		UserID:        row.UserID,
		AttendeeName:  row.AttendeeName,
		AttendeeEmail: row.AttendeeEmail,
		QRCode:        row.QRCode,
		CheckedIn:     row.CheckedIn,
		CreatedAt:     clock.FromMillis(row.CreatedAt),
	}
	if row.CheckedInAt.Valid {
		t := clock.FromMillis(row.CheckedInAt.Int64)
		reg.CheckedInAt = &t
	}
	return reg
}

// CreateTx inserts a registration inside the caller's transaction.  A
// second registration for the same (event, user) pair yields
// ErrAlreadyRegistered.
func (r *RegistrationRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, reg *model.Registration) error {
	const q = `INSERT INTO registrations (event_id, user_id, attendee_name, attendee_email, qr_code, checked_in, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)`
	res, err := tx.ExecContext(ctx, q,
		reg.EventID, reg.UserID, reg.AttendeeName, reg.AttendeeEmail, reg.QRCode, clock.Millis(reg.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyRegistered
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	reg.ID = uint64(id)
	reg.CheckedIn = false
	reg.CheckedInAt = nil
	return nil
}

// GetByCode looks a registration up by its scannable code.
func (r *RegistrationRepo) GetByCode(ctx context.Context, code string) (*model.Registration, error) {
	return getRegistration(ctx, r.db, code)
}

func getRegistration(ctx context.Context, q sqlx.QueryerContext, code string) (*model.Registration, error) {
	var row registrationRow
	err := sqlx.GetContext(ctx, q, &row, `SELECT `+registrationColumns+` FROM registrations WHERE qr_code = ?`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	reg := row.toModel()
	return &reg, nil
}

// EventOwnerByCode returns the creator of the event a code admits to.
func (r *RegistrationRepo) EventOwnerByCode(ctx context.Context, code string) (uint64, error) {
	var owner uint64
	err := r.db.GetContext(ctx, &owner,
		`SELECT e.created_by FROM registrations r JOIN events e ON e.id = r.event_id WHERE r.qr_code = ?`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrRegistrationNotFound
		}
		return 0, err
	}
	return owner, nil
}

// CheckIn flips the registration identified by code from unchecked to
// checked-in, stamping at.  The flip is a single conditional UPDATE so at
// most one of any number of concurrent callers succeeds.  When nothing was
// updated the row is re-read in the same transaction to tell a missing
// code (ErrRegistrationNotFound) from a repeat scan (ErrAlreadyCheckedIn,
// returned together with the stored registration).
func (r *RegistrationRepo) CheckIn(ctx context.Context, code string, at time.Time) (*model.Registration, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE registrations SET checked_in = 1, checked_in_at = ? WHERE qr_code = ? AND checked_in = 0`,
		clock.Millis(at), code)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	reg, err := getRegistration(ctx, tx, code)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	if n == 0 {
		return reg, ErrAlreadyCheckedIn
	}
	return reg, nil
}

// ListByEvent returns the registrations for an event in registration order.
func (r *RegistrationRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Registration, error) {
	var rows []registrationRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+registrationColumns+` FROM registrations WHERE event_id = ? ORDER BY id ASC`, eventID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Registration, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

// ListTicketsByUser returns a user's registrations together with their
// events, most recent registration first.
func (r *RegistrationRepo) ListTicketsByUser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
	var rows []registrationRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+registrationColumns+` FROM registrations WHERE user_id = ? ORDER BY id DESC`, userID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []model.Ticket{}, nil
	}
	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.EventID)
	}
	q, args, err := sqlx.In(`SELECT `+eventColumns+` FROM events WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var events []eventRow
	if err := r.db.SelectContext(ctx, &events, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	byID := make(map[uint64]model.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e.toModel()
	}
	out := make([]model.Ticket, 0, len(rows))
	for _, row := range rows {
		ev, ok := byID[row.EventID]
		if !ok {
			continue
		}
		out = append(out, model.Ticket{Registration: row.toModel(), Event: ev})
	}
	return out, nil
}
