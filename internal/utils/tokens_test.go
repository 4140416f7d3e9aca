package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spott-events/spott/internal/clock"
	"github.com/spott-events/spott/internal/model"
)

func TestIssuer_AccessCarriesUserAndPlan(t *testing.T) {
	now := time.Now().UTC()
	iss := NewIssuer("s3cret", 15, 7, clock.Fixed(now))

	at, err := iss.Access(&model.User{ID: 42, Plan: model.PlanPro})
	require.NoError(t, err)
	assert.Equal(t, now.Truncate(time.Second).Add(15*time.Minute), at.Exp)

	claims, err := ParseAccess("s3cret", at.Token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
	assert.Equal(t, model.PlanPro, claims.Plan)

	_, err = ParseAccess("other", at.Token)
	assert.ErrorIs(t, err, ErrInvalidAccess)

	_, err = iss.Access(&model.User{})
	assert.Error(t, err)
}

func TestParseAccess_RejectsExpiredAndForeignAlgorithms(t *testing.T) {
	old := NewIssuer("s3cret", 1, 7, clock.Fixed(time.Now().Add(-time.Hour)))
	at, err := old.Access(&model.User{ID: 1, Plan: model.PlanFree})
	require.NoError(t, err)
	_, err = ParseAccess("s3cret", at.Token)
	assert.ErrorIs(t, err, ErrInvalidAccess)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "1", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = ParseAccess("s3cret", hs512)
	assert.ErrorIs(t, err, ErrInvalidAccess)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = ParseAccess("s3cret", noSubject)
	assert.ErrorIs(t, err, ErrInvalidAccess)
}

func TestIssuer_RefreshUsesClock(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	iss := NewIssuer("s3cret", 15, 7, clock.Fixed(now))

	a, err := iss.Refresh()
	require.NoError(t, err)
	b, err := iss.Refresh()
	require.NoError(t, err)

	assert.Len(t, a.Raw, 2*refreshBytes)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.Equal(t, RefreshHash(a.Raw), a.Hash)
	assert.Len(t, a.Hash, 64)
	assert.Equal(t, now.Add(7*24*time.Hour), a.Exp)
}
