package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-seat-map/internal/model"
)

// ShowRepo reads shows and their booked seats from the backend schema
// (shows, cinemas, bookings, booking_seats).
type ShowRepo struct {
	logger  *logrus.Logger
	db      *sql.DB
	dialect Dialect
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(logger *logrus.Logger, db *sql.DB, dialect Dialect) *ShowRepo {
	return &ShowRepo{logger: logger, db: db, dialect: dialect}
}

// Show retrieves a show by its ID together with its cinema. It returns
// ErrShowNotFound if there is no matching row.
func (r *ShowRepo) Show(ctx context.Context, id int64) (model.Show, error) {
	const q = `SELECT s.show_id, s.movie_id, s.cinema_id, s.screen_name, s.screen_type, s.start_time, s.ticket_price,
                      c.cinema_id, c.name, c.location
               FROM shows s
               LEFT JOIN cinemas c ON c.cinema_id = s.cinema_id
               WHERE s.show_id = ?`

	var (
		s          model.Show
		screenType sql.NullString
		start      time.Time
		cinemaID   sql.NullInt64
		cinemaName sql.NullString
		cinemaLoc  sql.NullString
	)
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(q), id).Scan(
		&s.ID, &s.MovieID, &s.CinemaID, &s.ScreenName, &screenType, &start, &s.TicketPrice,
		&cinemaID, &cinemaName, &cinemaLoc,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Show{}, ErrShowNotFound
		}
		r.logger.WithContext(ctx).WithError(err).WithField("show_id", id).Error("load show")
		return model.Show{}, fmt.Errorf("load show %d: %w", id, err)
	}
	s.StartTime = start.UTC()
	if screenType.Valid {
		v := screenType.String
		s.ScreenType = &v
	}
	if cinemaID.Valid {
		s.Cinema = &model.Cinema{ID: cinemaID.Int64, Name: cinemaName.String, Location: cinemaLoc.String}
	}
	return s, nil
}

// BookedSeats lists the seat numbers of every booking of the show that
// has not been cancelled, in booking order. An unknown show gives
// ErrShowNotFound.
func (r *ShowRepo) BookedSeats(ctx context.Context, showID int64) ([]string, error) {
	var one int
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(`SELECT 1 FROM shows WHERE show_id = ?`), showID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		r.logger.WithContext(ctx).WithError(err).WithField("show_id", showID).Error("check show")
		return nil, fmt.Errorf("check show %d: %w", showID, err)
	}

	const q = `SELECT bs.seat_number
               FROM booking_seats bs
               JOIN bookings b ON b.booking_id = bs.booking_id
               WHERE b.show_id = ? AND b.status <> 'cancelled'
               ORDER BY bs.booking_seat_id ASC`
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(q), showID)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("show_id", showID).Error("list booked seats")
		return nil, fmt.Errorf("list booked seats %d: %w", showID, err)
	}
	defer rows.Close()

	seats := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		seats = append(seats, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}
