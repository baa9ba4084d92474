// Package queue carries booking events over RabbitMQ: the payload, a
// publisher used by checkout and the background consumer.
package queue

import (
	"strconv"
	"time"

	"github.com/iliyamo/cinema-seat-map/internal/model"
)

// BookingQueue is the durable queue every booking event goes through.
const BookingQueue = "booking.confirmed"

// BookingConfirmedEvent is published after the booking backend accepted a
// checkout. It carries enough for the consumer to log and mail the
// confirmation without calling the backend again.
type BookingConfirmedEvent struct {
	BookingID    int64    `json:"booking_id"`
	UserID       string   `json:"user_id"`
	ShowID       int64    `json:"show_id"`
	CinemaName   string   `json:"cinema_name"`
	ScreenName   string   `json:"screen_name"`
	StartsAt     string   `json:"starts_at"`
	Seats        []string `json:"seats"`
	SeatTotal    int64    `json:"seat_total"`
	BookingFee   int64    `json:"booking_fee"`
	GrandTotal   int64    `json:"grand_total"`
	ContactEmail string   `json:"contact_email,omitempty"`
	ContactPhone string   `json:"contact_phone,omitempty"`
	ConfirmedAt  string   `json:"confirmed_at"`
}

// NewBookingConfirmedEvent assembles the event for a created booking.
// Seats come from the booking when the backend echoed them back.
func NewBookingConfirmedEvent(show model.Show, userID string, b model.Booking, seats []string, seatTotal, fee int64, at time.Time) BookingConfirmedEvent {
	if booked := b.SeatNumbers(); len(booked) > 0 {
		seats = booked
	}
	return BookingConfirmedEvent{
		BookingID:    b.ID,
		UserID:       userID,
		ShowID:       show.ID,
		CinemaName:   show.CinemaName(),
		ScreenName:   show.ScreenName,
		StartsAt:     show.StartTime.UTC().Format(time.RFC3339),
		Seats:        seats,
		SeatTotal:    seatTotal,
		BookingFee:   fee,
		GrandTotal:   seatTotal + fee,
		ContactEmail: b.ContactEmail,
		ContactPhone: b.ContactPhone,
		ConfirmedAt:  at.UTC().Format(time.RFC3339),
	}
}

// Reference is the code printed on the e-ticket.
func (e BookingConfirmedEvent) Reference() string {
	return "BK" + strconv.FormatInt(e.BookingID, 10)
}
