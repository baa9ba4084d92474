package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-seat-map/internal/seatmap"
	"github.com/iliyamo/cinema-seat-map/internal/service"
)

// SeatMaps is the service surface used by SeatMapHandler.
type SeatMaps interface {
	SeatMap(ctx context.Context, showID int64) (service.ShowSeatMap, error)
	Quote(ctx context.Context, showID int64, seatIDs []string) (seatmap.PriceQuote, error)
	Checkout(ctx context.Context, in service.CheckoutInput) (service.CheckoutResult, error)
	Rules() seatmap.Rules
}

// SeatMapHandler serves layouts, tiers, seat maps, quotes and checkout.
type SeatMapHandler struct {
	Service SeatMaps
	Logger  *logrus.Logger
}

// NewSeatMapHandler panics on a nil service.
func NewSeatMapHandler(svc SeatMaps, logger *logrus.Logger) *SeatMapHandler {
	if svc == nil {
		panic("nil service passed to NewSeatMapHandler")
	}
	return &SeatMapHandler{Service: svc, Logger: logger}
}

// seatMapResponse is the body of GET /v1/shows/:id/seat-map.
type seatMapResponse struct {
	service.ShowSeatMap
	Summary           map[seatmap.Status]int `json:"summary"`
	MaxSeats          int                    `json:"max_seats"`
	BookingFeePerSeat int64                  `json:"booking_fee_per_seat"`
}

// quoteRequest is the body of POST /v1/shows/:id/quote.
type quoteRequest struct {
	SeatIDs []string `json:"seat_ids" validate:"required,max=64,dive,required,max=8"`
}

// ListLayouts handles GET /v1/screen-layouts.
func (h *SeatMapHandler) ListLayouts(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": seatmap.Layouts()})
}

// ListTiers handles GET /v1/seat-tiers.
func (h *SeatMapHandler) ListTiers(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": seatmap.TierInfos()})
}

// GetSeatMap handles GET /v1/shows/:id/seat-map. Booked seats reported by
// the backend come back as sold.
func (h *SeatMapHandler) GetSeatMap(c echo.Context) error {
	showID, err := parseShowID(c)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	sm, err := h.Service.SeatMap(c.Request().Context(), showID)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	rules := h.Service.Rules()
	return c.JSON(http.StatusOK, seatMapResponse{
		ShowSeatMap:       sm,
		Summary:           sm.Map.CountByStatus(),
		MaxSeats:          rules.MaxSeats,
		BookingFeePerSeat: rules.BookingFeePerSeat,
	})
}

// Quote handles POST /v1/shows/:id/quote. A selection breaking a rule is
// answered with 400 and, where relevant, the offending seat ids.
func (h *SeatMapHandler) Quote(c echo.Context) error {
	showID, err := parseShowID(c)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	var req quoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, h.Logger, err)
	}
	q, err := h.Service.Quote(c.Request().Context(), showID, req.SeatIDs)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, q)
}
