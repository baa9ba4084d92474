// Package repository reads show records and booked seats straight from the
// booking backend's database. It never writes: seat state is owned by the
// backend and only mirrored here for display.
package repository

import "github.com/iliyamo/cinema-seat-map/internal/model"

// ErrShowNotFound is model.ErrShowNotFound, re-exported so callers of this
// package need not import model just to compare errors.
var ErrShowNotFound = model.ErrShowNotFound
