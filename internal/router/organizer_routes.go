package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/spott-events/spott/internal/handler"    // event and check-in handlers
	"github.com/spott-events/spott/internal/middleware" // JWT middleware
)

// RegisterOrganizer registers endpoints used by event creators.  Every
// route requires a valid JWT; ownership of the event is checked by the
// handlers.  Check-in is additionally rate limited so a misbehaving
// scanner cannot hammer the registrations table.
func RegisterOrganizer(e *echo.Echo, ev *handler.EventHandler, ck *handler.CheckinHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	auth := middleware.JWTAuth(jwtSecret)

	// ---- Events ----
	e.POST("/v1/events", ev.Create, auth)
	e.GET("/v1/me/events", ev.Mine, auth)
	e.GET("/v1/events/:id/registrations", ev.Attendees, auth)

	// ---- Check-in ----
	// JWTAuth runs first so the limiter can key on the organizer.
	e.POST("/v1/checkin", ck.CheckIn, auth, limit)
}
