package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Show is a scheduled screening as recorded by the booking backend.
// Only the fields the seat map needs are carried.
//
// Fields:
//  ID          – backend show id; doubles as the seat map seed.
//  MovieID     – movie being screened.
//  CinemaID    – cinema hosting the show.
//  ScreenName  – free-form screen label, e.g. "IMAX" or "Gold Class".
//  ScreenType  – optional secondary label.
//  StartTime   – scheduled start.
//  TicketPrice – base price per seat in whole currency units.
//  Cinema      – cinema details when the source provides them.
type Show struct {
	ID          int64     `json:"show_id"`
	MovieID     int64     `json:"movie_id"`
	CinemaID    int64     `json:"cinema_id"`
	ScreenName  string    `json:"screen_name"`
	ScreenType  *string   `json:"screen_type,omitempty"`
	StartTime   time.Time `json:"start_time"`
	TicketPrice float64   `json:"ticket_price"`
	Cinema      *Cinema   `json:"cinema,omitempty"`
}

// Seed is the value driving the show's seat statuses.
func (s Show) Seed() int64 { return s.ID }

// CinemaName returns the cinema name or a generic placeholder.
func (s Show) CinemaName() string {
	if s.Cinema != nil && s.Cinema.Name != "" {
		return s.Cinema.Name
	}
	return "Cinema"
}

// timestampLayouts are tried in order. The booking backend stores naive
// timestamps and serialises them without an offset; those are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp reads an RFC3339 or naive ISO-8601 timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// UnmarshalJSON accepts start_time with or without a UTC offset.
func (s *Show) UnmarshalJSON(b []byte) error {
	type plain Show
	aux := struct {
		*plain
		StartTime *string `json:"start_time"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.StartTime == nil || *aux.StartTime == "" {
		return nil
	}
	t, err := ParseTimestamp(*aux.StartTime)
	if err != nil {
		return fmt.Errorf("show start_time: %w", err)
	}
	s.StartTime = t
	return nil
}
