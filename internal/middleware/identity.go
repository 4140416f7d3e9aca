package middleware

// identity.go holds helpers shared across middleware and handlers for
// reading the authenticated user that JWTAuth or OptionalAuth stored in
// the Echo context.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// UserID returns the authenticated user's ID and whether one is present.
func UserID(c echo.Context) (uint64, bool) {
    switch v := c.Get(CtxUserID).(type) {
    case uint64:
        return v, v != 0
    case string:
        n, err := strconv.ParseUint(v, 10, 64)
        return n, err == nil && n != 0
    }
    return 0, false
}

// userKey identifies the caller for cache and rate-limit keys. It
// returns "guest" when no user is authenticated.
func userKey(c echo.Context) string {
    if id, ok := UserID(c); ok {
        return strconv.FormatUint(id, 10)
    }
    return "guest"
}
