package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-seat-map/internal/service"
)

// checkoutRequest is the body of POST /v1/shows/:id/checkout.
type checkoutRequest struct {
	SeatIDs      []string `json:"seat_ids" validate:"required,max=64,dive,required,max=8"`
	ContactEmail string   `json:"contact_email" validate:"required,email"`
	ContactPhone string   `json:"contact_phone" validate:"omitempty,max=32"`
}

// Checkout handles POST /v1/shows/:id/checkout for an authenticated
// customer. The selection is re-quoted here and the booking backend has
// the final word; 409 means it found some seats already booked.
func (h *SeatMapHandler) Checkout(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, err := parseShowID(c)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	var req checkoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, h.Logger, err)
	}

	res, err := h.Service.Checkout(c.Request().Context(), service.CheckoutInput{
		ShowID:       showID,
		UserID:       userID,
		SeatIDs:      req.SeatIDs,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusCreated, res)
}
