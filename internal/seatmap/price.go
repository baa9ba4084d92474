package seatmap

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// TotalPrice sums basePrice times the tier multiplier of every selected
// seat and rounds to a whole currency unit. Ids missing from the map add
// nothing and duplicates are counted each time, so callers should pass a
// de-duplicated selection.
func TotalPrice(selectedSeatIDs []string, basePrice float64, m SeatMap) int64 {
	total := 0.0
	for _, id := range selectedSeatIDs {
		if s, ok := m.Seat(id); ok {
			total += basePrice * s.PriceMultiplier
		}
	}
	return int64(math.Round(total))
}

var (
	ErrNoSeats         = errors.New("no seats selected")
	ErrTooManySeats    = errors.New("too many seats selected")
	ErrUnknownSeat     = errors.New("unknown seat")
	ErrSeatUnavailable = errors.New("seat unavailable")
)

// SeatError carries the seat ids that made a quote fail.
type SeatError struct {
	Err     error
	SeatIDs []string
}

func (e *SeatError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, strings.Join(e.SeatIDs, ", "))
}

func (e *SeatError) Unwrap() error { return e.Err }

// Rules are the checkout limits applied to a selection.
type Rules struct {
	MaxSeats          int
	BookingFeePerSeat int64
}

// DefaultRules match the limits of the seat selection page.
var DefaultRules = Rules{MaxSeats: 8, BookingFeePerSeat: 150}

// PriceQuote is the running total for a selection.
type PriceQuote struct {
	SeatIDs    []string `json:"seat_ids"`
	BasePrice  float64  `json:"base_price"`
	SeatTotal  int64    `json:"seat_total"`
	BookingFee int64    `json:"booking_fee"`
	GrandTotal int64    `json:"grand_total"`
}

// Quote validates a selection against m and prices it. Duplicate ids are
// dropped while keeping the first occurrence order. Unknown ids are
// reported before unavailable ones.
func Quote(selected []string, basePrice float64, m SeatMap, rules Rules) (PriceQuote, error) {
	ids := dedupe(selected)
	if len(ids) == 0 {
		return PriceQuote{}, ErrNoSeats
	}
	if rules.MaxSeats > 0 && len(ids) > rules.MaxSeats {
		return PriceQuote{}, fmt.Errorf("%w: %d of at most %d", ErrTooManySeats, len(ids), rules.MaxSeats)
	}

	var unknown, unavailable []string
	for _, id := range ids {
		s, ok := m.Seat(id)
		switch {
		case !ok:
			unknown = append(unknown, id)
		case s.Status.Unavailable():
			unavailable = append(unavailable, id)
		}
	}
	if len(unknown) > 0 {
		return PriceQuote{}, &SeatError{Err: ErrUnknownSeat, SeatIDs: unknown}
	}
	if len(unavailable) > 0 {
		return PriceQuote{}, &SeatError{Err: ErrSeatUnavailable, SeatIDs: unavailable}
	}

	seatTotal := TotalPrice(ids, basePrice, m)
	fee := rules.BookingFeePerSeat * int64(len(ids))
	return PriceQuote{
		SeatIDs:    ids,
		BasePrice:  basePrice,
		SeatTotal:  seatTotal,
		BookingFee: fee,
		GrandTotal: seatTotal + fee,
	}, nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.ToUpper(strings.TrimSpace(id))
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
