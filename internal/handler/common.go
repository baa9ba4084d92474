// Package handler exposes the seat map HTTP handlers. Handlers parse and
// validate input, call the service and map its sentinel errors onto
// status codes.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-seat-map/internal/backend"
	"github.com/iliyamo/cinema-seat-map/internal/middleware"
	"github.com/iliyamo/cinema-seat-map/internal/model"
	"github.com/iliyamo/cinema-seat-map/internal/seatmap"
	"github.com/iliyamo/cinema-seat-map/internal/service"
)

var errInvalidShowID = errors.New("invalid show id")

// parseShowID reads the positive :id path parameter.
func parseShowID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidShowID
	}
	return id, nil
}

// getUserID returns the authenticated user set by JWTAuth.
func getUserID(c echo.Context) (string, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return "", errors.New("invalid user_id in context")
	}
	return id, nil
}

// requestError is a malformed or invalid request body.
type requestError struct {
	msg     string
	details map[string]string
}

func (e *requestError) Error() string { return e.msg }

// bindAndValidate decodes the JSON body into v and runs the validator.
func bindAndValidate(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return &requestError{msg: "invalid request body"}
	}
	if err := c.Validate(v); err != nil {
		return &requestError{msg: "validation failed", details: validationDetails(err)}
	}
	return nil
}

// writeError maps service errors to responses. Unexpected errors are
// logged and reported as 500 without detail.
func writeError(c echo.Context, logger *logrus.Logger, err error) error {
	var (
		reqErr  *requestError
		seatErr *seatmap.SeatError
	)
	switch {
	case errors.As(err, &reqErr):
		body := echo.Map{"error": reqErr.msg}
		if len(reqErr.details) > 0 {
			body["details"] = reqErr.details
		}
		return c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, errInvalidShowID):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrShowNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	case errors.As(err, &seatErr) && errors.Is(err, seatmap.ErrUnknownSeat):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seats", "unknown": seatErr.SeatIDs})
	case errors.As(err, &seatErr) && errors.Is(err, seatmap.ErrSeatUnavailable):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "some seats are unavailable", "unavailable": seatErr.SeatIDs})
	case errors.Is(err, seatmap.ErrNoSeats), errors.Is(err, seatmap.ErrTooManySeats):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, backend.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seats already booked"})
	case errors.Is(err, service.ErrCheckoutDisabled):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
	}

	logger.WithFields(logrus.Fields{
		"request_id": middleware.RequestIDFrom(c),
		"path":       c.Request().URL.Path,
	}).WithError(err).Error("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
