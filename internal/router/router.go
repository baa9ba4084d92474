// Package router registers the HTTP routes of the seat map server.
package router

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-seat-map/internal/handler"
	"github.com/iliyamo/cinema-seat-map/internal/middleware"
)

// CustomerRole is the JWT role allowed to check out.
const CustomerRole = "customer"

// Options are the per-route middleware and secrets shared by the groups.
type Options struct {
	JWTSecret string
	Cache     echo.MiddlewareFunc // seat map responses
	RateLimit echo.MiddlewareFunc // quote and checkout
}

func (o Options) cache() echo.MiddlewareFunc     { return orPassthrough(o.Cache) }
func (o Options) rateLimit() echo.MiddlewareFunc { return orPassthrough(o.RateLimit) }

func orPassthrough(m echo.MiddlewareFunc) echo.MiddlewareFunc {
	if m == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return m
}

const seatMapRoute = "/shows/:id/seat-map"

// SeatMapPath is the request path of a show's seat map.
func SeatMapPath(showID int64) string {
	return "/v1/shows/" + strconv.FormatInt(showID, 10) + "/seat-map"
}

// SeatMapCache adapts a CacheInvalidator to the show-level invalidation
// the checkout flow needs.
type SeatMapCache struct {
	Invalidator *middleware.CacheInvalidator
}

// InvalidateSeatMap drops the cached seat map responses of showID.
func (c SeatMapCache) InvalidateSeatMap(ctx context.Context, showID int64) error {
	_, err := c.Invalidator.InvalidatePath(ctx, SeatMapPath(showID))
	return err
}

// RegisterRoutes registers routes that need no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the guest seat map endpoints under /v1.
func RegisterPublic(e *echo.Echo, h *handler.SeatMapHandler, opts Options) {
	g := e.Group("/v1")
	g.GET("/screen-layouts", h.ListLayouts)
	g.GET("/seat-tiers", h.ListTiers)
	g.GET(seatMapRoute, h.GetSeatMap, opts.cache())
	g.POST("/shows/:id/quote", h.Quote, opts.rateLimit())
}

// RegisterCustomer registers endpoints that need a valid JWT with the
// customer role.
func RegisterCustomer(e *echo.Echo, h *handler.SeatMapHandler, opts Options) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(opts.JWTSecret),
		middleware.RequireRole(CustomerRole),
	)
	// rate limit runs after auth so buckets are per user
	g.POST("/shows/:id/checkout", h.Checkout, opts.rateLimit())
}
