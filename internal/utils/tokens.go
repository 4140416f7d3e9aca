package utils // package utils issues and verifies session credentials

import (
    "crypto/rand"
    "crypto/sha256"
    "encoding/hex"
    "errors"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5"

    "github.com/spott-events/spott/internal/clock"
    "github.com/spott-events/spott/internal/model"
)

// refreshBytes is the entropy of a refresh token before hex encoding.
const refreshBytes = 48

// ErrInvalidAccess is returned by ParseAccess for any token that does not
// verify, has expired or names no user.
var ErrInvalidAccess = errors.New("invalid access token")

// Claims is the access token payload.  Subject holds the user ID in
// decimal and Plan mirrors model.User.Plan at issue time; handlers that
// gate on the plan reload the user instead of trusting it.
type Claims struct {
    Plan string `json:"plan"`
    jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uint64, error) {
    id, err := strconv.ParseUint(c.Subject, 10, 64)
    if err != nil || id == 0 {
        return 0, ErrInvalidAccess
    }
    return id, nil
}

// AccessToken is a signed JWT and the instant it stops verifying.
type AccessToken struct {
    Token string
    Exp   time.Time
}

// RefreshToken is the raw value handed to the client once.  Only Hash is
// persisted.
type RefreshToken struct {
    Raw  string
    Hash string
    Exp  time.Time
}

// Issuer mints session credentials.  Expiries are taken from Clock so
// stored refresh rows and the rest of the write path share one notion of
// now.
type Issuer struct {
    Secret     []byte
    AccessTTL  time.Duration
    RefreshTTL time.Duration
    Clock      clock.Clock
}

// NewIssuer builds an Issuer from the configured TTLs.  A nil clock uses
// the system clock.
func NewIssuer(secret string, accessTTLMin, refreshTTLDays int, clk clock.Clock) *Issuer {
    if clk == nil {
        clk = clock.System{}
    }
    return &Issuer{
        Secret:     []byte(secret),
        AccessTTL:  time.Duration(accessTTLMin) * time.Minute,
        RefreshTTL: time.Duration(refreshTTLDays) * 24 * time.Hour,
        Clock:      clk,
    }
}

// Access signs an HS256 token for u.
func (i *Issuer) Access(u *model.User) (AccessToken, error) {
    if u == nil || u.ID == 0 {
        return AccessToken{}, errors.New("access token needs a stored user")
    }
    now := i.Clock.Now().Truncate(time.Second)
    exp := now.Add(i.AccessTTL)
    claims := Claims{
        Plan: u.Plan,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(u.ID, 10),
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.Secret)
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// Refresh returns a fresh random refresh token with its storage hash.
func (i *Issuer) Refresh() (RefreshToken, error) {
    buf := make([]byte, refreshBytes)
    if _, err := rand.Read(buf); err != nil {
        return RefreshToken{}, err
    }
    raw := hex.EncodeToString(buf)
    return RefreshToken{Raw: raw, Hash: RefreshHash(raw), Exp: i.Clock.Now().Add(i.RefreshTTL)}, nil
}

// RefreshHash is the SHA-256 hex digest stored for a raw refresh token.
func RefreshHash(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// ParseAccess verifies raw against secret and returns its claims.  Only
// HS256 is accepted so a token cannot choose its own algorithm.
func ParseAccess(secret, raw string) (*Claims, error) {
    claims := &Claims{}
    tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
        return []byte(secret), nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
    if err != nil || !tok.Valid {
        return nil, ErrInvalidAccess
    }
    if _, err := claims.UserID(); err != nil {
        return nil, err
    }
    return claims, nil
}
