package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "errors"
    "net/http" // HTTP status codes for responses
    "strings" // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/spott-events/spott/internal/utils" // access token verification
)

// Context keys set by the auth middleware.
const (
    CtxUserID = "user_id"
    CtxPlan   = "plan"
)

var errNoBearer = errors.New("missing bearer token")

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's subject and plan claims into the request context.  The
// provided secret must match the one used when issuing tokens.  Handlers read
// the authenticated user via UserID(c).
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            uid, plan, err := parseBearer(secret, c.Request().Header.Get("Authorization"))
            if errors.Is(err, errNoBearer) {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            c.Set(CtxUserID, uid)
            c.Set(CtxPlan, plan)
            return next(c)
        }
    }
}

// OptionalAuth is JWTAuth for public routes that personalise when a user
// is known.  A missing or invalid token leaves the request anonymous.
func OptionalAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if uid, plan, err := parseBearer(secret, c.Request().Header.Get("Authorization")); err == nil {
                c.Set(CtxUserID, uid)
                c.Set(CtxPlan, plan)
            }
            return next(c)
        }
    }
}

// parseBearer validates an "Authorization: Bearer <jwt>" header value and
// returns the subject as a user ID together with the plan claim.
func parseBearer(secret, header string) (uint64, string, error) {
    if !strings.HasPrefix(header, "Bearer ") {
        return 0, "", errNoBearer
    }
    claims, err := utils.ParseAccess(secret, strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
    if err != nil {
        return 0, "", err
    }
    uid, err := claims.UserID()
    if err != nil {
        return 0, "", err
    }
    return uid, claims.Plan, nil
}
