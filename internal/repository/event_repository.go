package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/spott-events/spott/internal/clock"
	"github.com/spott-events/spott/internal/model"
)

// EventRepo manages persistence for events.  Range scans are served by
// the (start_date) and (category, start_date) indexes.
type EventRepo struct {
	db *sqlx.DB
}

// NewEventRepo constructs an EventRepo with the given DB handle.
func NewEventRepo(db *sqlx.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle so services can begin transactions
// spanning multiple repositories.
func (r *EventRepo) DB() *sqlx.DB { return r.db }

// eventRow mirrors the events table.  Times are Unix milliseconds and
// tags are a JSON array.
type eventRow struct {
	ID                uint64          `db:"id"`
	Title             string          `db:"title"`
	Description       string          `db:"description"`
	Category          string          `db:"category"`
	Tags              string          `db:"tags"`
	StartDate         int64           `db:"start_date"`
	EndDate           int64           `db:"end_date"`
	Timezone          string          `db:"timezone"`
	LocationType      string          `db:"location_type"`
	Venue             string          `db:"venue"`
	Address           string          `db:"address"`
	City              string          `db:"city"`
	State             string          `db:"state"`
	Country           string          `db:"country"`
	Capacity          int             `db:"capacity"`
	TicketType        string          `db:"ticket_type"`
	TicketPrice       sql.NullFloat64 `db:"ticket_price"`
	CoverImage        string          `db:"cover_image"`
	ThemeColor        string          `db:"theme_color"`
	RegistrationCount int             `db:"registration_count"`
	CreatedBy         uint64          `db:"created_by"`
	CreatedAt         int64           `db:"created_at"`
}

const eventColumns = `id, title, description, category, tags, start_date, end_date, timezone,
	location_type, venue, address, city, state, country, capacity, ticket_type, ticket_price,
	cover_image, theme_color, registration_count, created_by, created_at`

func (row eventRow) toModel() model.Event {
	e := model.Event{
		ID:                row.ID,
		Title:             row.Title,
		Description:       row.Description,
		Category:          row.Category,
		StartDate:         clock.FromMillis(row.StartDate),
		EndDate:           clock.FromMillis(row.EndDate),
		Timezone:          row.Timezone,
		LocationType:      row.LocationType,
		Venue:             row.Venue,
		Address:           row.Address,
		City:              row.City,
		State:             row.State,
		Country:           row.Country,
		Capacity:          row.Capacity,
		TicketType:        row.TicketType,
		CoverImage:        row.CoverImage,
		ThemeColor:        row.ThemeColor,
		RegistrationCount: row.RegistrationCount,
		CreatedBy:         row.CreatedBy,
		CreatedAt:         clock.FromMillis(row.CreatedAt),
	}
	if row.TicketPrice.Valid {
		p := row.TicketPrice.Float64
		e.TicketPrice = &p
	}
	if err := json.Unmarshal([]byte(row.Tags), &e.Tags); err != nil || e.Tags == nil {
		e.Tags = []string{}
	}
	return e
}

func toModels(rows []eventRow) []model.Event {
	out := make([]model.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out
}

// CreateTx inserts a new event inside the caller's transaction and assigns
// the generated ID.  RegistrationCount always starts at zero.
func (r *EventRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, e *model.Event) error {
	tags, err := json.Marshal(e.Tags)
	if err != nil {
		return err
	}
	if e.Tags == nil {
		tags = []byte("[]")
	}
	var price sql.NullFloat64
	if e.TicketPrice != nil {
		price = sql.NullFloat64{Float64: *e.TicketPrice, Valid: true}
	}
	const q = `INSERT INTO events (title, description, category, tags, start_date, end_date, timezone,
		location_type, venue, address, city, state, country, capacity, ticket_type, ticket_price,
		cover_image, theme_color, registration_count, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		e.Title, e.Description, e.Category, string(tags),
		clock.Millis(e.StartDate), clock.Millis(e.EndDate), e.Timezone,
		e.LocationType, e.Venue, e.Address, e.City, e.State, e.Country,
		e.Capacity, e.TicketType, price, e.CoverImage, e.ThemeColor,
		e.CreatedBy, clock.Millis(e.CreatedAt),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	e.RegistrationCount = 0
	return nil
}

// GetByID retrieves an event by its ID.  It returns ErrEventNotFound if
// there is no matching row.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	return getEvent(ctx, r.db, id)
}

// GetByIDTx is GetByID within the caller's transaction.
func (r *EventRepo) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uint64) (*model.Event, error) {
	return getEvent(ctx, tx, id)
}

func getEvent(ctx context.Context, q sqlx.QueryerContext, id uint64) (*model.Event, error) {
	var row eventRow
	err := sqlx.GetContext(ctx, q, &row, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	e := row.toModel()
	return &e, nil
}

// FutureEvents returns every event starting at or after now, ordered by
// start date then insertion order.
func (r *EventRepo) FutureEvents(ctx context.Context, now time.Time) ([]model.Event, error) {
	var rows []eventRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+eventColumns+` FROM events WHERE start_date >= ? ORDER BY start_date ASC, id ASC`,
		clock.Millis(now))
	if err != nil {
		return nil, err
	}
	return toModels(rows), nil
}

// FutureEventsInCategory returns future events whose category equals
// category exactly, in insertion order.
func (r *EventRepo) FutureEventsInCategory(ctx context.Context, category string, now time.Time) ([]model.Event, error) {
	var rows []eventRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+eventColumns+` FROM events WHERE category = ? AND start_date >= ? ORDER BY id ASC`,
		category, clock.Millis(now))
	if err != nil {
		return nil, err
	}
	// MySQL's default collation compares case-insensitively; keep the
	// match exact.
	out := make([]model.Event, 0, len(rows))
	for _, row := range rows {
		if row.Category == category {
			out = append(out, row.toModel())
		}
	}
	return out, nil
}

// SearchFuture returns up to limit future events whose title,
// description, city or category contains term, case-insensitively.
func (r *EventRepo) SearchFuture(ctx context.Context, term string, now time.Time, limit int) ([]model.Event, error) {
	pattern := "%" + escapeLike(term) + "%"
	const q = `SELECT ` + eventColumns + ` FROM events
		WHERE start_date >= ?
		  AND (LOWER(title) LIKE LOWER(?) ESCAPE '!'
		    OR LOWER(description) LIKE LOWER(?) ESCAPE '!'
		    OR LOWER(city) LIKE LOWER(?) ESCAPE '!'
		    OR LOWER(category) LIKE LOWER(?) ESCAPE '!')
		ORDER BY start_date ASC, id ASC
		LIMIT ?`
	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, q, clock.Millis(now), pattern, pattern, pattern, pattern, limit); err != nil {
		return nil, err
	}
	return toModels(rows), nil
}

// ListByCreator returns the events a user created, newest start first.
func (r *EventRepo) ListByCreator(ctx context.Context, userID uint64) ([]model.Event, error) {
	var rows []eventRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+eventColumns+` FROM events WHERE created_by = ? ORDER BY start_date DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return toModels(rows), nil
}

// IncrementRegistrationsTx adds one registration to the event if capacity
// remains.  The conditional UPDATE is the capacity guard: concurrent
// registrations can never push the count past capacity.
func (r *EventRepo) IncrementRegistrationsTx(ctx context.Context, tx *sqlx.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE events SET registration_count = registration_count + 1
		 WHERE id = ? AND registration_count < capacity`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := getEvent(ctx, tx, id); err != nil {
			return err
		}
		return ErrEventFull
	}
	return nil
}
