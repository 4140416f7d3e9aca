package utils

import (
    "errors"
    "sync"
    "unicode/utf8"

    "golang.org/x/crypto/bcrypt"

    "github.com/spott-events/spott/internal/model"
)

// Password limits.  bcrypt ignores input past 72 bytes, so longer
// passwords are refused rather than silently truncated.
const (
    MinPasswordLength = 8
    MaxPasswordBytes  = 72
)

var (
    ErrPasswordTooShort = errors.New("password must be at least 8 characters")
    ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
)

var (
    decoyOnce sync.Once
    decoyHash []byte
)

// CheckPasswordPolicy reports why plain cannot be used as a password.
func CheckPasswordPolicy(plain string) error {
    switch {
    case utf8.RuneCountInString(plain) < MinPasswordLength:
        return ErrPasswordTooShort
    case len(plain) > MaxPasswordBytes:
        return ErrPasswordTooLong
    }
    return nil
}

// HashPassword applies the policy and returns a bcrypt hash.  Costs
// outside bcrypt's range fall back to bcrypt.DefaultCost.
func HashPassword(plain string, cost int) (string, error) {
    if err := CheckPasswordPolicy(plain); err != nil {
        return "", err
    }
    if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
        cost = bcrypt.DefaultCost
    }
    b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
    if err != nil {
        return "", err
    }
    return string(b), nil
}

// PasswordMatches reports whether plain is u's password.  A nil user is
// compared against a decoy hash so an unknown email costs as much as a
// wrong password.
func PasswordMatches(u *model.User, plain string) bool {
    if u == nil {
        decoyOnce.Do(func() {
            decoyHash, _ = bcrypt.GenerateFromPassword([]byte("decoy-password"), bcrypt.DefaultCost)
        })
        _ = bcrypt.CompareHashAndPassword(decoyHash, []byte(plain))
        return false
    }
    return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}
