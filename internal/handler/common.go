package handler // handler defines http handlers

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/spott-events/spott/internal/explore"
    "github.com/spott-events/spott/internal/middleware"
    "github.com/spott-events/spott/internal/repository"
    "github.com/spott-events/spott/internal/service"
)

// getUserID returns the authenticated user's ID or an error when the
// request carries none.
func getUserID(c echo.Context) (uint64, error) {
    if id, ok := middleware.UserID(c); ok {
        return id, nil
    }
    return 0, errors.New("invalid user_id in context")
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    return id, err == nil && id > 0
}

// MaxQueryLimit is the largest ?limit a list endpoint honours.
const MaxQueryLimit = 100

// queryLimit reads ?limit.  Missing, malformed or non-positive values
// yield 0, which the services replace with their default; larger values
// are clamped to MaxQueryLimit.
func queryLimit(c echo.Context) int {
    n, err := strconv.Atoi(c.QueryParam("limit"))
    if err != nil || n <= 0 {
        return 0
    }
    if n > MaxQueryLimit {
        return MaxQueryLimit
    }
    return n
}

// fail maps domain errors onto HTTP responses.
func fail(c echo.Context, err error) error {
    var ve *service.ValidationError
    switch {
    case errors.As(err, &ve):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Msg, "field": ve.Field})
    case errors.Is(err, explore.ErrInvalidInput):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, repository.ErrEventNotFound),
        errors.Is(err, repository.ErrRegistrationNotFound),
        errors.Is(err, repository.ErrUserNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    case errors.Is(err, service.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
    case errors.Is(err, service.ErrProRequired),
        errors.Is(err, repository.ErrFreeLimitReached):
        return c.JSON(http.StatusPaymentRequired, echo.Map{"error": err.Error()})
    case errors.Is(err, repository.ErrAlreadyRegistered),
        errors.Is(err, repository.ErrEventFull),
        errors.Is(err, repository.ErrEmailExists),
        errors.Is(err, service.ErrEventStarted):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    }
    c.Logger().Errorf("request failed: %v", err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
