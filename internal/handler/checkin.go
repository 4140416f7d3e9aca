package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/spott-events/spott/internal/checkin"
)

// CheckinHandler serves the door scanner.
type CheckinHandler struct {
    Svc *checkin.Service
}

// NewCheckinHandler constructs a CheckinHandler.
func NewCheckinHandler(svc *checkin.Service) *CheckinHandler {
    return &CheckinHandler{Svc: svc}
}

type checkinReq struct {
    QRCode string `json:"qr_code"`
}

// CheckIn handles POST /v1/checkin.  Every scan outcome, including an
// unknown or repeated code, is a 200 with {success, message}; only
// infrastructure failures produce an error status.
func (h *CheckinHandler) CheckIn(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req checkinReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    res, err := h.Svc.CheckInAs(c.Request().Context(), uid, req.QRCode)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, res)
}
