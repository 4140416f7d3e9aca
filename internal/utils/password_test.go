package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spott-events/spott/internal/model"
)

func TestHashPassword_Policy(t *testing.T) {
	_, err := HashPassword("short", 4)
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	_, err = HashPassword(strings.Repeat("a", MaxPasswordBytes+1), 4)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	// Eight runes, more than eight bytes.
	assert.NoError(t, CheckPasswordPolicy("pässwörd"))
}

func TestPasswordMatches(t *testing.T) {
	h, err := HashPassword("correct horse", 4)
	require.NoError(t, err)
	u := &model.User{ID: 1, PasswordHash: h}

	assert.True(t, PasswordMatches(u, "correct horse"))
	assert.False(t, PasswordMatches(u, "wrong horse"))
	assert.False(t, PasswordMatches(nil, "correct horse"))
}
