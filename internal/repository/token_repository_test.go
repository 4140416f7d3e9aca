package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spott-events/spott/internal/database"
)

var tokenNow = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

func newTokenRepo(t *testing.T) (*TokenRepo, uint64) {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenMemory(ctx, uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	u, err := NewUserRepo(db).Create(ctx, "a@example.com", "password123", "A", 4, tokenNow)
	require.NoError(t, err)
	return NewTokenRepo(db), u.ID
}

func TestConsumeRefresh_SingleUse(t *testing.T) {
	repo, uid := newTokenRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.StoreRefresh(ctx, uid, "h1", tokenNow.Add(time.Hour), tokenNow))

	got, err := repo.ConsumeRefresh(ctx, "h1", tokenNow)
	require.NoError(t, err)
	assert.Equal(t, uid, got)

	_, err = repo.ConsumeRefresh(ctx, "h1", tokenNow)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = repo.ConsumeRefresh(ctx, "unknown", tokenNow)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestConsumeRefresh_ExpiredAndRevoked(t *testing.T) {
	repo, uid := newTokenRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.StoreRefresh(ctx, uid, "expiring", tokenNow.Add(time.Minute), tokenNow))
	require.NoError(t, repo.StoreRefresh(ctx, uid, "revoked", tokenNow.Add(time.Hour), tokenNow))

	_, err := repo.ConsumeRefresh(ctx, "expiring", tokenNow.Add(time.Minute))
	assert.ErrorIs(t, err, ErrTokenInvalid)

	require.NoError(t, repo.RevokeAllForUser(ctx, uid, tokenNow))
	_, err = repo.ConsumeRefresh(ctx, "revoked", tokenNow)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestConsumeRefresh_ConcurrentRedemptionsWinOnce(t *testing.T) {
	repo, uid := newTokenRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.StoreRefresh(ctx, uid, "shared", tokenNow.Add(time.Hour), tokenNow))

	const attempts = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		wins     int
		rejected int
		other    []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ConsumeRefresh(ctx, "shared", tokenNow)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case err == ErrTokenInvalid:
				rejected++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, rejected)
}
