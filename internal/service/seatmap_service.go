// Package service holds the seat map use cases shared by the HTTP
// handlers: building a show's map, quoting a selection and checking out.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-seat-map/internal/model"
	"github.com/iliyamo/cinema-seat-map/internal/queue"
	"github.com/iliyamo/cinema-seat-map/internal/seatmap"
)

// ShowSource resolves shows and their booked seats. Both the booking
// backend client and the SQL repository implement it.
type ShowSource interface {
	Show(ctx context.Context, id int64) (model.Show, error)
	BookedSeats(ctx context.Context, showID int64) ([]string, error)
}

// BookingCreator forwards a checkout to the booking backend.
type BookingCreator interface {
	CreateBooking(ctx context.Context, req model.BookingRequest) (model.Booking, error)
}

// EventPublisher announces confirmed bookings.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// SeatMapCache forgets any cached seat map response of a show.
type SeatMapCache interface {
	InvalidateSeatMap(ctx context.Context, showID int64) error
}

// ShowSeatMap is a show together with its seat map.
type ShowSeatMap struct {
	Show model.Show      `json:"show"`
	Map  seatmap.SeatMap `json:"seat_map"`
}

// CheckoutInput is what a customer submits at checkout.
type CheckoutInput struct {
	ShowID       int64
	UserID       string
	SeatIDs      []string
	ContactEmail string
	ContactPhone string
}

// CheckoutResult is the accepted booking and the totals it was charged.
type CheckoutResult struct {
	BookingID int64              `json:"booking_id"`
	Reference string             `json:"reference"`
	Status    string             `json:"status"`
	Quote     seatmap.PriceQuote `json:"quote"`
}

// SeatMapService wires the generator to the show catalog.
type SeatMapService struct {
	shows     ShowSource
	bookings  BookingCreator
	publisher EventPublisher
	cache     SeatMapCache
	memo      *seatmap.Memo
	rules     seatmap.Rules
	logger    *logrus.Logger
	now       func() time.Time
}

// NewSeatMapService builds the service. bookings and publisher may be nil,
// in which case Checkout is unavailable or silent respectively.
func NewSeatMapService(logger *logrus.Logger, shows ShowSource, bookings BookingCreator, publisher EventPublisher, memo *seatmap.Memo, rules seatmap.Rules) *SeatMapService {
	if memo == nil {
		memo = seatmap.NewMemo()
	}
	return &SeatMapService{
		shows:     shows,
		bookings:  bookings,
		publisher: publisher,
		memo:      memo,
		rules:     rules,
		logger:    logger,
		now:       time.Now,
	}
}

// UseSeatMapCache makes Checkout drop the show's cached seat map once a
// booking is accepted.
func (s *SeatMapService) UseSeatMapCache(c SeatMapCache) { s.cache = c }

// ErrCheckoutDisabled is returned when no booking backend is configured.
var ErrCheckoutDisabled = errors.New("checkout is not available")

// Rules are the checkout limits quotes are checked against.
func (s *SeatMapService) Rules() seatmap.Rules { return s.rules }

// SeatMap returns the show's generated map with backend-booked seats
// marked Sold.
func (s *SeatMapService) SeatMap(ctx context.Context, showID int64) (ShowSeatMap, error) {
	show, err := s.shows.Show(ctx, showID)
	if err != nil {
		return ShowSeatMap{}, err
	}

	m := s.memo.Get(show.ScreenName, show.Seed())

	booked, err := s.shows.BookedSeats(ctx, showID)
	if err != nil {
		// the generated map is still usable on its own
		s.logger.WithContext(ctx).WithError(err).WithField("show_id", showID).Warn("booked seats unavailable")
		booked = nil
	}
	if len(booked) > 0 {
		m = m.WithSold(booked)
	}
	return ShowSeatMap{Show: show, Map: m}, nil
}

// Quote prices a selection for the show under the configured rules.
func (s *SeatMapService) Quote(ctx context.Context, showID int64, seatIDs []string) (seatmap.PriceQuote, error) {
	sm, err := s.SeatMap(ctx, showID)
	if err != nil {
		return seatmap.PriceQuote{}, err
	}
	return seatmap.Quote(seatIDs, sm.Show.TicketPrice, sm.Map, s.rules)
}

// Checkout re-quotes the selection, forwards it to the booking backend and
// publishes a booking.confirmed event. The backend's answer is final; a
// failed publish only gets logged.
func (s *SeatMapService) Checkout(ctx context.Context, in CheckoutInput) (CheckoutResult, error) {
	if s.bookings == nil {
		return CheckoutResult{}, ErrCheckoutDisabled
	}

	sm, err := s.SeatMap(ctx, in.ShowID)
	if err != nil {
		return CheckoutResult{}, err
	}
	q, err := seatmap.Quote(in.SeatIDs, sm.Show.TicketPrice, sm.Map, s.rules)
	if err != nil {
		return CheckoutResult{}, err
	}

	req := model.BookingRequest{
		ShowID:       in.ShowID,
		UserID:       in.UserID,
		SeatNumbers:  q.SeatIDs,
		TotalAmount:  float64(q.GrandTotal),
		ContactEmail: in.ContactEmail,
		ContactPhone: in.ContactPhone,
	}
	b, err := s.bookings.CreateBooking(ctx, req)
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("create booking: %w", err)
	}

	log := s.logger.WithContext(ctx).WithFields(logrus.Fields{"booking_id": b.ID, "show_id": in.ShowID, "seats": len(q.SeatIDs)})
	log.Info("booking created")

	if s.cache != nil {
		if err := s.cache.InvalidateSeatMap(ctx, in.ShowID); err != nil {
			log.WithError(err).Warn("seat map cache not invalidated")
		}
	}

	if b.ContactEmail == "" {
		b.ContactEmail = in.ContactEmail
	}
	if b.ContactPhone == "" {
		b.ContactPhone = in.ContactPhone
	}
	ev := queue.NewBookingConfirmedEvent(sm.Show, in.UserID, b, q.SeatIDs, q.SeatTotal, q.BookingFee, s.now())
	if s.publisher != nil {
		if err := s.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
			log.WithError(err).Warn("booking event not published")
		}
	}

	status := b.Status
	if status == "" {
		status = "confirmed"
	}
	return CheckoutResult{
		BookingID: b.ID,
		Reference: ev.Reference(),
		Status:    status,
		Quote:     q,
	}, nil
}
