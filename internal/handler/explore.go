package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/spott-events/spott/internal/explore"
    "github.com/spott-events/spott/internal/model"
    "github.com/spott-events/spott/internal/repository"
)

// ExploreHandler serves the public discovery endpoints.  Routes run
// behind OptionalAuth; when a user is known their profile is passed to
// the ranking policy.
type ExploreHandler struct {
    Svc   *explore.Service
    Users *repository.UserRepo
}

// NewExploreHandler constructs an ExploreHandler.
func NewExploreHandler(svc *explore.Service, users *repository.UserRepo) *ExploreHandler {
    return &ExploreHandler{Svc: svc, Users: users}
}

// viewer loads the authenticated user, or nil for anonymous requests.
// A lookup failure degrades to anonymous rather than failing the query.
func (h *ExploreHandler) viewer(c echo.Context) *model.User {
    uid, err := getUserID(c)
    if err != nil {
        return nil
    }
    u, err := h.Users.GetByID(c.Request().Context(), uid)
    if err != nil {
        return nil
    }
    return u
}

func items(c echo.Context, events []model.Event) error {
    return c.JSON(http.StatusOK, echo.Map{"items": events})
}

// Featured handles GET /v1/explore/featured.
func (h *ExploreHandler) Featured(c echo.Context) error {
    events, err := h.Svc.FeaturedEvents(c.Request().Context(), h.viewer(c), queryLimit(c))
    if err != nil {
        return fail(c, err)
    }
    return items(c, events)
}

// Popular handles GET /v1/explore/popular.
func (h *ExploreHandler) Popular(c echo.Context) error {
    events, err := h.Svc.PopularEvents(c.Request().Context(), h.viewer(c), queryLimit(c))
    if err != nil {
        return fail(c, err)
    }
    return items(c, events)
}

// ByLocation handles GET /v1/explore/location?city=&state=.  With neither
// parameter the viewer's saved location is used.
func (h *ExploreHandler) ByLocation(c echo.Context) error {
    user := h.viewer(c)
    f := explore.LocationFilter{City: c.QueryParam("city"), State: c.QueryParam("state")}
    if f.City == "" && f.State == "" && user != nil && user.Location != nil {
        f = explore.LocationFilter{City: user.Location.City, State: user.Location.State}
    }
    events, err := h.Svc.EventsByLocation(c.Request().Context(), user, f, queryLimit(c))
    if err != nil {
        return fail(c, err)
    }
    return items(c, events)
}

// ByCategory handles GET /v1/explore/categories/:category.
func (h *ExploreHandler) ByCategory(c echo.Context) error {
    events, err := h.Svc.EventsByCategory(c.Request().Context(), c.Param("category"), queryLimit(c))
    if err != nil {
        return fail(c, err)
    }
    return items(c, events)
}

// CategoryCounts handles GET /v1/explore/categories.
func (h *ExploreHandler) CategoryCounts(c echo.Context) error {
    counts, err := h.Svc.CategoryCounts(c.Request().Context())
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"counts": counts})
}

// Search handles GET /v1/search/events?q=.
func (h *ExploreHandler) Search(c echo.Context) error {
    events, err := h.Svc.SearchEvents(c.Request().Context(), c.QueryParam("q"), queryLimit(c))
    if err != nil {
        return fail(c, err)
    }
    return items(c, events)
}
