package seatmap

import (
	"strconv"
	"strings"
)

// Status thresholds on the 0..99 pseudo-random value of a seat.
const (
	soldBelow = 15
	heldBelow = 17
)

// Seat is one cell of the grid. ID is the row label followed by the
// 1-based column, e.g. "C7".
type Seat struct {
	ID              string  `json:"id"`
	Row             string  `json:"row"`
	Number          int     `json:"number"`
	Tier            Tier    `json:"type"`
	Status          Status  `json:"status"`
	PriceMultiplier float64 `json:"price_multiplier"`
}

// Row holds the seats sharing a row label, ordered by column.
type Row struct {
	Label string `json:"row_label"`
	Seats []Seat `json:"seats"`
}

// SeatMap is the generated grid of a screen. Rows run from the front of
// the house (Standard) to the back (VIP).
type SeatMap struct {
	ScreenName string `json:"screen_name"`
	TotalSeats int    `json:"total_seats"`
	Rows       []Row  `json:"rows"`
}

// Generate builds the seat map for screenType. The seed, normally the
// show id, drives which seats are shown as sold or held so that the same
// show always looks the same.
func Generate(screenType string, seed int64) SeatMap {
	layout := ResolveLayout(screenType)

	rows := make([]Row, 0, layout.Rows)
	for r := 0; r < layout.Rows; r++ {
		label := RowLabel(r)
		tier := layout.TierOfRow(r)
		mult := Multiplier(tier)

		seats := make([]Seat, 0, layout.Cols)
		for c := 1; c <= layout.Cols; c++ {
			seats = append(seats, Seat{
				ID:              label + strconv.Itoa(c),
				Row:             label,
				Number:          c,
				Tier:            tier,
				Status:          seatStatus(seed, r, c),
				PriceMultiplier: mult,
			})
		}
		rows = append(rows, Row{Label: label, Seats: seats})
	}

	return SeatMap{
		ScreenName: screenType,
		TotalSeats: layout.TotalSeats(),
		Rows:       rows,
	}
}

// seatStatus must stay byte-for-byte compatible with maps generated
// elsewhere for the same show.
func seatStatus(seed int64, r, c int) Status {
	row, col := int64(r), int64(c)
	v := (seed*row*col + col + row) % 100
	switch {
	case v < soldBelow:
		return StatusSold
	case v < heldBelow:
		return StatusHeld
	default:
		return StatusAvailable
	}
}

// Seat finds a seat by its exact id. Ids of the "<row><number>" form go
// straight to their cell; anything else falls back to a scan.
func (m SeatMap) Seat(id string) (Seat, bool) {
	if s, ok := m.seatAt(id); ok {
		return s, true
	}
	for _, row := range m.Rows {
		for _, s := range row.Seats {
			if s.ID == id {
				return s, true
			}
		}
	}
	return Seat{}, false
}

func (m SeatMap) seatAt(id string) (Seat, bool) {
	split := strings.IndexAny(id, "0123456789")
	if split <= 0 {
		return Seat{}, false
	}
	r, ok := RowIndex(id[:split])
	if !ok || r >= len(m.Rows) {
		return Seat{}, false
	}
	n, err := strconv.Atoi(id[split:])
	seats := m.Rows[r].Seats
	if err != nil || n < 1 || n > len(seats) {
		return Seat{}, false
	}
	// RowIndex ignores case; ids do not
	if s := seats[n-1]; s.ID == id {
		return s, true
	}
	return Seat{}, false
}

// CountByStatus tallies the seats per status.
func (m SeatMap) CountByStatus() map[Status]int {
	out := make(map[Status]int, 3)
	for _, row := range m.Rows {
		for _, s := range row.Seats {
			out[s.Status]++
		}
	}
	return out
}

// WithSold returns a copy of m in which every seat listed in ids is sold.
// Ids that are not on the map are ignored. m itself is left untouched, so
// a memoized map can be shared between requests.
func (m SeatMap) WithSold(ids []string) SeatMap {
	sold := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		sold[id] = struct{}{}
	}

	out := SeatMap{ScreenName: m.ScreenName, TotalSeats: m.TotalSeats, Rows: make([]Row, len(m.Rows))}
	for i, row := range m.Rows {
		seats := make([]Seat, len(row.Seats))
		copy(seats, row.Seats)
		for j := range seats {
			if _, ok := sold[seats[j].ID]; ok {
				seats[j].Status = StatusSold
			}
		}
		out.Rows[i] = Row{Label: row.Label, Seats: seats}
	}
	return out
}
