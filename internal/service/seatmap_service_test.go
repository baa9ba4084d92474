package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-map/internal/model"
	"github.com/iliyamo/cinema-seat-map/internal/queue"
	"github.com/iliyamo/cinema-seat-map/internal/seatmap"
)

type fakeShows struct {
	show      model.Show
	booked    []string
	bookedErr error
}

func (f *fakeShows) Show(_ context.Context, id int64) (model.Show, error) {
	if id != f.show.ID {
		return model.Show{}, model.ErrShowNotFound
	}
	return f.show, nil
}

func (f *fakeShows) BookedSeats(context.Context, int64) ([]string, error) {
	return f.booked, f.bookedErr
}

type fakeBookings struct {
	got  []model.BookingRequest
	resp model.Booking
	err  error
}

func (f *fakeBookings) CreateBooking(_ context.Context, req model.BookingRequest) (model.Booking, error) {
	f.got = append(f.got, req)
	return f.resp, f.err
}

type fakePublisher struct {
	events []queue.BookingConfirmedEvent
	err    error
}

func (f *fakePublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	f.events = append(f.events, ev)
	return f.err
}

type fakeSeatMapCache struct {
	shows []int64
	err   error
}

func (f *fakeSeatMapCache) InvalidateSeatMap(_ context.Context, showID int64) error {
	f.shows = append(f.shows, showID)
	return f.err
}

func quiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// show 7 on IMAX: B2 Available Standard, J1 Available VIP, A1 Sold, A15 Held.
func imaxShow() model.Show {
	return model.Show{
		ID:          7,
		ScreenName:  "IMAX",
		TicketPrice: 1000,
		StartTime:   time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC),
		Cinema:      &model.Cinema{ID: 1, Name: "PVR"},
	}
}

func TestSeatMapService_SeatMap(t *testing.T) {
	shows := &fakeShows{show: imaxShow(), booked: []string{"B2"}}
	svc := NewSeatMapService(quiet(), shows, nil, nil, nil, seatmap.DefaultRules)

	sm, err := svc.SeatMap(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "IMAX", sm.Map.ScreenName)
	assert.Equal(t, 160, sm.Map.TotalSeats)

	b2, ok := sm.Map.Seat("B2")
	require.True(t, ok)
	assert.Equal(t, seatmap.StatusSold, b2.Status)

	// the memoized map is untouched by the overlay
	again := svc.memo.Get("IMAX", 7)
	b2, _ = again.Seat("B2")
	assert.Equal(t, seatmap.StatusAvailable, b2.Status)
}

func TestSeatMapService_SeatMap_NotFound(t *testing.T) {
	svc := NewSeatMapService(quiet(), &fakeShows{show: imaxShow()}, nil, nil, nil, seatmap.DefaultRules)

	_, err := svc.SeatMap(context.Background(), 99)
	assert.ErrorIs(t, err, model.ErrShowNotFound)
}

func TestSeatMapService_SeatMap_BookedSeatsFailureIsTolerated(t *testing.T) {
	shows := &fakeShows{show: imaxShow(), bookedErr: errors.New("timeout")}
	svc := NewSeatMapService(quiet(), shows, nil, nil, nil, seatmap.DefaultRules)

	sm, err := svc.SeatMap(context.Background(), 7)
	require.NoError(t, err)
	b2, _ := sm.Map.Seat("B2")
	assert.Equal(t, seatmap.StatusAvailable, b2.Status)
}

func TestSeatMapService_Quote(t *testing.T) {
	svc := NewSeatMapService(quiet(), &fakeShows{show: imaxShow()}, nil, nil, nil, seatmap.DefaultRules)

	q, err := svc.Quote(context.Background(), 7, []string{"B2", "J1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2500), q.SeatTotal)
	assert.Equal(t, int64(300), q.BookingFee)
	assert.Equal(t, int64(2800), q.GrandTotal)

	_, err = svc.Quote(context.Background(), 7, []string{"A1"})
	assert.ErrorIs(t, err, seatmap.ErrSeatUnavailable)
}

func TestSeatMapService_Quote_BookedSeatRejected(t *testing.T) {
	shows := &fakeShows{show: imaxShow(), booked: []string{"B2"}}
	svc := NewSeatMapService(quiet(), shows, nil, nil, nil, seatmap.DefaultRules)

	_, err := svc.Quote(context.Background(), 7, []string{"B2"})
	var se *seatmap.SeatError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{"B2"}, se.SeatIDs)
}

func TestSeatMapService_Checkout(t *testing.T) {
	bookings := &fakeBookings{resp: model.Booking{ID: 42, Status: "confirmed"}}
	pub := &fakePublisher{}
	svc := NewSeatMapService(quiet(), &fakeShows{show: imaxShow()}, bookings, pub, nil, seatmap.DefaultRules)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }

	res, err := svc.Checkout(context.Background(), CheckoutInput{
		ShowID:       7,
		UserID:       "user_1",
		SeatIDs:      []string{"b2", "J1", "B2"},
		ContactEmail: "guest@example.com",
		ContactPhone: "0771234567",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.BookingID)
	assert.Equal(t, "BK42", res.Reference)
	assert.Equal(t, "confirmed", res.Status)
	assert.Equal(t, int64(2800), res.Quote.GrandTotal)

	require.Len(t, bookings.got, 1)
	req := bookings.got[0]
	assert.Equal(t, int64(7), req.ShowID)
	assert.Equal(t, "user_1", req.UserID)
	assert.Equal(t, []string{"B2", "J1"}, req.SeatNumbers)
	assert.Equal(t, 2800.0, req.TotalAmount)
	assert.Equal(t, "guest@example.com", req.ContactEmail)

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, int64(42), ev.BookingID)
	assert.Equal(t, "guest@example.com", ev.ContactEmail)
	assert.Equal(t, []string{"B2", "J1"}, ev.Seats)
	assert.Equal(t, "2025-03-01T10:00:00Z", ev.ConfirmedAt)
}

func TestSeatMapService_Checkout_Errors(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		svc := NewSeatMapService(quiet(), &fakeShows{show: imaxShow()}, nil, nil, nil, seatmap.DefaultRules)
		_, err := svc.Checkout(context.Background(), CheckoutInput{ShowID: 7, SeatIDs: []string{"B2"}})
		assert.ErrorIs(t, err, ErrCheckoutDisabled)
	})

	t.Run("invalid selection never reaches the backend", func(t *testing.T) {
		bookings := &fakeBookings{}
		svc := NewSeatMapService(quiet(), &fakeShows{show: imaxShow()}, bookings, nil, nil, seatmap.DefaultRules)
		_, err := svc.Checkout(context.Background(), CheckoutInput{ShowID: 7, SeatIDs: []string{"A1"}})
		assert.ErrorIs(t, err, seatmap.ErrSeatUnavailable)
		assert.Empty(t, bookings.got)
	})

	t.Run("backend error is wrapped", func(t *testing.T) {
		sentinel := errors.New("seats already booked")
		bookings := &fakeBookings{err: sentinel}
		pub := &fakePublisher{}
		svc := NewSeatMapService(quiet(), &fakeShows{show: imaxShow()}, bookings, pub, nil, seatmap.DefaultRules)
		_, err := svc.Checkout(context.Background(), CheckoutInput{ShowID: 7, SeatIDs: []string{"B2"}})
		assert.ErrorIs(t, err, sentinel)
		assert.Empty(t, pub.events)
	})

	t.Run("publish failure does not fail checkout", func(t *testing.T) {
		bookings := &fakeBookings{resp: model.Booking{ID: 5}}
		pub := &fakePublisher{err: errors.New("broker down")}
		svc := NewSeatMapService(quiet(), &fakeShows{show: imaxShow()}, bookings, pub, nil, seatmap.DefaultRules)
		res, err := svc.Checkout(context.Background(), CheckoutInput{ShowID: 7, SeatIDs: []string{"B2"}})
		require.NoError(t, err)
		assert.Equal(t, "confirmed", res.Status)
		assert.Len(t, pub.events, 1)
	})
}

func TestSeatMapService_Checkout_InvalidatesSeatMapCache(t *testing.T) {
	t.Run("after an accepted booking", func(t *testing.T) {
		cache := &fakeSeatMapCache{}
		bookings := &fakeBookings{resp: model.Booking{ID: 9}}
		svc := NewSeatMapService(quiet(), &fakeShows{show: imaxShow()}, bookings, nil, nil, seatmap.DefaultRules)
		svc.UseSeatMapCache(cache)

		_, err := svc.Checkout(context.Background(), CheckoutInput{ShowID: 7, SeatIDs: []string{"B2"}})
		require.NoError(t, err)
		assert.Equal(t, []int64{7}, cache.shows)
	})

	t.Run("invalidation failure does not fail checkout", func(t *testing.T) {
		cache := &fakeSeatMapCache{err: errors.New("redis down")}
		bookings := &fakeBookings{resp: model.Booking{ID: 9}}
		svc := NewSeatMapService(quiet(), &fakeShows{show: imaxShow()}, bookings, nil, nil, seatmap.DefaultRules)
		svc.UseSeatMapCache(cache)

		_, err := svc.Checkout(context.Background(), CheckoutInput{ShowID: 7, SeatIDs: []string{"B2"}})
		require.NoError(t, err)
		assert.Len(t, cache.shows, 1)
	})

	t.Run("not after a rejected booking", func(t *testing.T) {
		cache := &fakeSeatMapCache{}
		bookings := &fakeBookings{err: errors.New("seats already booked")}
		svc := NewSeatMapService(quiet(), &fakeShows{show: imaxShow()}, bookings, nil, nil, seatmap.DefaultRules)
		svc.UseSeatMapCache(cache)

		_, err := svc.Checkout(context.Background(), CheckoutInput{ShowID: 7, SeatIDs: []string{"B2"}})
		require.Error(t, err)
		assert.Empty(t, cache.shows)
	})
}
