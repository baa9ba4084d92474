package config

import "time"

// SeatConfig holds the checkout limits and the seat map memo settings.
type SeatConfig struct {
	MaxSeats          int           // seats allowed in one selection
	BookingFeePerSeat int64         // flat fee added per seat
	MemoMaxIdle       time.Duration // memoized maps unused for this long are dropped
	MemoPruneEvery    time.Duration // how often the prune job runs
}

func LoadSeatConfig() SeatConfig {
	cfg := SeatConfig{
		MaxSeats:          envInt("SEAT_MAX_PER_BOOKING", 8),
		BookingFeePerSeat: int64(envInt("SEAT_BOOKING_FEE", 150)),
		MemoMaxIdle:       envDur("SEATMAP_MEMO_MAX_IDLE", 30*time.Minute),
		MemoPruneEvery:    envDur("SEATMAP_MEMO_PRUNE_EVERY", 5*time.Minute),
	}
	if cfg.MaxSeats < 1 {
		cfg.MaxSeats = 1
	}
	if cfg.BookingFeePerSeat < 0 {
		cfg.BookingFeePerSeat = 0
	}
	if cfg.MemoPruneEvery <= 0 {
		cfg.MemoPruneEvery = time.Minute
	}
	return cfg
}
