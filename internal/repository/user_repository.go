package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/spott-events/spott/internal/clock"
	"github.com/spott-events/spott/internal/model"
	"github.com/spott-events/spott/internal/utils"
)

// userRow mirrors the 'users' table.
type userRow struct {
	ID                     uint64 `db:"id"`
	Email                  string `db:"email"`
	PasswordHash           string `db:"password_hash"`
	Name                   string `db:"name"`
	Plan                   string `db:"plan"`
	City                   string `db:"city"`
	State                  string `db:"state"`
	Country                string `db:"country"`
	Interests              string `db:"interests"`
	HasCompletedOnboarding bool   `db:"has_completed_onboarding"`
	FreeEventsCreated      int    `db:"free_events_created"`
	CreatedAt              int64  `db:"created_at"`
	UpdatedAt              int64  `db:"updated_at"`
}

const userColumns = `id, email, password_hash, name, plan, city, state, country, interests,
	has_completed_onboarding, free_events_created, created_at, updated_at`

func (row userRow) toModel() *model.User {
	u := &model.User{
		ID:                     row.ID,
		Email:                  row.Email,
		PasswordHash:           row.PasswordHash,
		Name:                   row.Name,
		Plan:                   row.Plan,
		HasCompletedOnboarding: row.HasCompletedOnboarding,
		FreeEventsCreated:      row.FreeEventsCreated,
		CreatedAt:              clock.FromMillis(row.CreatedAt),
		UpdatedAt:              clock.FromMillis(row.UpdatedAt),
	}
	if row.City != "" || row.State != "" || row.Country != "" {
		u.Location = &model.Location{City: row.City, State: row.State, Country: row.Country}
	}
	if err := json.Unmarshal([]byte(row.Interests), &u.Interests); err != nil || u.Interests == nil {
		u.Interests = []string{}
	}
	return u
}

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a free-plan user and returns it.
func (r *UserRepo) Create(ctx context.Context, email, password, name string, cost int, now time.Time) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	ms := clock.Millis(now)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, name, plan, interests, created_at, updated_at) VALUES (?,?,?,?,?,?,?)",
		email, hash, strings.TrimSpace(name), model.PlanFree, "[]", ms, ms)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg interface{}) (*model.User, error) {
	var row userRow
	if err := r.DB.GetContext(ctx, &row, q, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

// CompleteOnboarding stores the user's location and interests and marks
// onboarding done.  Callers validate the values.
func (r *UserRepo) CompleteOnboarding(ctx context.Context, id uint64, loc model.Location, interests []string, now time.Time) error {
	raw, err := json.Marshal(interests)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET city=?, state=?, country=?, interests=?, has_completed_onboarding=1, updated_at=?
		 WHERE id=?`,
		loc.City, loc.State, loc.Country, string(raw), clock.Millis(now), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// IncrementFreeEventsTx consumes one free-plan event creation.  The
// conditional UPDATE keeps concurrent creations from exceeding the limit.
func (r *UserRepo) IncrementFreeEventsTx(ctx context.Context, tx *sqlx.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE users SET free_events_created = free_events_created + 1 WHERE id=? AND free_events_created < ?",
		id, model.FreeEventLimit)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFreeLimitReached
	}
	return nil
}
