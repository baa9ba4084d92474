package model

// BookingRequest is the payload the booking backend accepts when a
// customer checks out. TotalAmount is forwarded exactly as quoted.
type BookingRequest struct {
	ShowID       int64    `json:"show_id"`
	UserID       string   `json:"user_id"`
	SeatNumbers  []string `json:"seat_numbers"`
	TotalAmount  float64  `json:"total_amount"`
	ContactEmail string   `json:"contact_email"`
	ContactPhone string   `json:"contact_phone"`
}

// Booking is the backend's answer to a BookingRequest.
//
// Fields:
//  ID           – backend booking id.
//  Status       – "confirmed" or "cancelled".
//  ContactEmail – where the confirmation goes.
//  Seats        – booked seat numbers.
type Booking struct {
	ID           int64         `json:"booking_id"`
	Status       string        `json:"status"`
	ContactEmail string        `json:"contact_email"`
	ContactPhone string        `json:"contact_phone"`
	Seats        []BookingSeat `json:"seats"`
}

// BookingSeat is one seat of a Booking.
type BookingSeat struct {
	SeatNumber string `json:"seat_number"`
}

// SeatNumbers flattens the booked seats.
func (b Booking) SeatNumbers() []string {
	out := make([]string, 0, len(b.Seats))
	for _, s := range b.Seats {
		out = append(out, s.SeatNumber)
	}
	return out
}
