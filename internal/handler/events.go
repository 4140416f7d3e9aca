package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/spott-events/spott/internal/repository"
    "github.com/spott-events/spott/internal/service"
    "github.com/spott-events/spott/internal/ticket"
)

// EventHandler serves event creation, detail, registration and tickets.
// Every write runs through service.EventService, which owns the
// transactions.
type EventHandler struct {
    Svc   *service.EventService
    Users *repository.UserRepo
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService, users *repository.UserRepo) *EventHandler {
    return &EventHandler{Svc: svc, Users: users}
}

// Create handles POST /v1/events.
func (h *EventHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var in service.CreateEventInput
    if err := c.Bind(&in); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    ctx := c.Request().Context()
    // Entitlements come from the stored user, never from token claims.
    u, err := h.Users.GetByID(ctx, uid)
    if err != nil {
        return fail(c, err)
    }
    e, err := h.Svc.Create(ctx, u, in)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, e)
}

// Get handles GET /v1/events/:id.
func (h *EventHandler) Get(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    e, err := h.Svc.Events.GetByID(c.Request().Context(), id)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, e)
}

// Mine handles GET /v1/me/events.
func (h *EventHandler) Mine(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    events, err := h.Svc.Events.ListByCreator(c.Request().Context(), uid)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": events})
}

// Register handles POST /v1/events/:id/register.
func (h *EventHandler) Register(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    ctx := c.Request().Context()
    u, err := h.Users.GetByID(ctx, uid)
    if err != nil {
        return fail(c, err)
    }
    reg, err := h.Svc.Register(ctx, id, u)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, reg)
}

// Attendees handles GET /v1/events/:id/registrations for the organizer.
func (h *EventHandler) Attendees(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    regs, err := h.Svc.Attendees(c.Request().Context(), id, uid)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": regs})
}

// MyTickets handles GET /v1/me/registrations.
func (h *EventHandler) MyTickets(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    tickets, err := h.Svc.Registrations.ListTicketsByUser(c.Request().Context(), uid)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": tickets})
}

// TicketQR handles GET /v1/registrations/:code/qr.png.
func (h *EventHandler) TicketQR(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    t, err := h.Svc.Ticket(c.Request().Context(), c.Param("code"), uid)
    if err != nil {
        return fail(c, err)
    }
    png, err := ticket.QRPNG(t.Registration.QRCode, ticket.DefaultQRSize)
    if err != nil {
        return fail(c, err)
    }
    c.Response().Header().Set("Cache-Control", "private, max-age=3600")
    return c.Blob(http.StatusOK, "image/png", png)
}

// TicketPDF handles GET /v1/registrations/:code/ticket.pdf.
func (h *EventHandler) TicketPDF(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    t, err := h.Svc.Ticket(c.Request().Context(), c.Param("code"), uid)
    if err != nil {
        return fail(c, err)
    }
    pdf, err := ticket.PDF(*t)
    if err != nil {
        return fail(c, err)
    }
    c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=ticket-"+t.Registration.QRCode+".pdf")
    return c.Blob(http.StatusOK, "application/pdf", pdf)
}
