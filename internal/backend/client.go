// Package backend talks to the booking backend's REST API: show lookup,
// booked seats and booking creation.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-seat-map/internal/model"
)

// ErrConflict is returned when the backend refuses a booking because some
// seats were already booked.
var ErrConflict = errors.New("seats already booked")

// StatusError is any other non-2xx answer.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("booking backend: status %d: %s", e.Code, e.Detail)
}

// Client is a thin JSON client. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logrus.Logger
}

// New returns a Client for baseURL with the given per-request timeout.
func New(logger *logrus.Logger, baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Show fetches GET /shows/{id}.
func (c *Client) Show(ctx context.Context, id int64) (model.Show, error) {
	var s model.Show
	if err := c.do(ctx, http.MethodGet, "/shows/"+strconv.FormatInt(id, 10), nil, &s); err != nil {
		return model.Show{}, err
	}
	return s, nil
}

// BookedSeats fetches GET /bookings/show/{id}/booked-seats.
func (c *Client) BookedSeats(ctx context.Context, showID int64) ([]string, error) {
	var body struct {
		BookedSeats []string `json:"booked_seats"`
	}
	path := "/bookings/show/" + strconv.FormatInt(showID, 10) + "/booked-seats"
	if err := c.do(ctx, http.MethodGet, path, nil, &body); err != nil {
		return nil, err
	}
	if body.BookedSeats == nil {
		return []string{}, nil
	}
	return body.BookedSeats, nil
}

// CreateBooking posts the checkout payload to POST /bookings/.
func (c *Client) CreateBooking(ctx context.Context, req model.BookingRequest) (model.Booking, error) {
	var b model.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings/", req, &b); err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		bs, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).WithFields(logrus.Fields{"method": method, "path": path}).Error("booking backend call failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.WithContext(ctx).WithFields(logrus.Fields{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"latency": time.Since(start).String(),
	}).Debug("booking backend call")

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// statusError maps the backend's {"detail": "..."} errors onto sentinels.
func statusError(code int, raw []byte) error {
	var e struct {
		Detail string `json:"detail"`
	}
	detail := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &e) == nil && e.Detail != "" {
		detail = e.Detail
	}

	switch {
	case code == http.StatusNotFound && strings.Contains(strings.ToLower(detail), "show"):
		return model.ErrShowNotFound
	case code == http.StatusConflict,
		code == http.StatusBadRequest && strings.Contains(strings.ToLower(detail), "already booked"):
		return fmt.Errorf("%w: %s", ErrConflict, detail)
	}
	return &StatusError{Code: code, Detail: detail}
}
