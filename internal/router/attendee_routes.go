package router

import (
	"github.com/labstack/echo/v4"

	"github.com/spott-events/spott/internal/handler"
	"github.com/spott-events/spott/internal/middleware"
)

// RegisterAttendee registers event detail (public) and the endpoints a
// signed-in attendee uses to register and fetch tickets.  Ticket images
// are served to the holder and to the event's organizer only.
func RegisterAttendee(e *echo.Echo, ev *handler.EventHandler, jwtSecret string) {
	auth := middleware.JWTAuth(jwtSecret)

	e.GET("/v1/events/:id", ev.Get)
	e.POST("/v1/events/:id/register", ev.Register, auth)
	e.GET("/v1/me/registrations", ev.MyTickets, auth)
	e.GET("/v1/registrations/:code/qr.png", ev.TicketQR, auth)
	e.GET("/v1/registrations/:code/ticket.pdf", ev.TicketPDF, auth)
}
