package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const maxBackoff = 30 * time.Second

// Notifier delivers a confirmation for a booking event, e.g. by mail.
type Notifier interface {
	NotifyBookingConfirmed(ctx context.Context, ev BookingConfirmedEvent) error
}

// Consumer drains BookingQueue. Every event becomes one line in
// <logDir>/booking.log and, when a Notifier is set and the event has a
// contact email, a confirmation.
type Consumer struct {
	url      string
	logDir   string
	notifier Notifier
	logger   *logrus.Logger
}

// NewConsumer builds a Consumer. notifier may be nil.
func NewConsumer(logger *logrus.Logger, url, logDir string, notifier Notifier) *Consumer {
	if logDir == "" {
		logDir = "logs"
	}
	return &Consumer{url: url, logDir: logDir, notifier: notifier, logger: logger}
}

// Run connects, consumes and reconnects with exponential backoff until ctx
// is cancelled. It always returns ctx.Err().
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.WithError(err).WithField("retry_in", backoff.String()).Warn("booking-consumer: failed to dial broker")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = nextBackoff(backoff)
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.WithError(err).Warn("booking-consumer: consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.logger.WithError(err).Warn("booking-consumer: set QoS failed")
	}
	if _, err := declareBookingQueue(ch); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(BookingQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.logger.WithField("queue", BookingQueue).Info("booking-consumer: consuming")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handleMessage(ctx, d.Body); err != nil {
				c.logger.WithError(err).Error("booking-consumer: handle message failed")
				_ = d.Nack(false, false) // no requeue, a poison message would loop
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, body []byte) error {
	var ev BookingConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.BookingID <= 0 {
		return fmt.Errorf("event without booking id")
	}
	if err := c.appendLog(ev); err != nil {
		return err
	}

	if c.notifier != nil && ev.ContactEmail != "" {
		// the log line is written; a mail failure must not drop the event
		if err := c.notifier.NotifyBookingConfirmed(ctx, ev); err != nil {
			c.logger.WithError(err).WithField("booking_id", ev.BookingID).Warn("booking-consumer: confirmation not sent")
		}
	}
	return nil
}

func (c *Consumer) appendLog(ev BookingConfirmedEvent) error {
	if err := os.MkdirAll(c.logDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.logDir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.logDir, "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatLogLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func formatLogLine(ev BookingConfirmedEvent) string {
	return fmt.Sprintf("[%s] Booking confirmed | booking_id=%d | ref=%s | user_id=%s | show_id=%d | cinema=%q | screen=%q | starts_at=%s | total=%d | seats=[%s]\n",
		ev.ConfirmedAt, ev.BookingID, ev.Reference(), ev.UserID, ev.ShowID, ev.CinemaName, ev.ScreenName, ev.StartsAt, ev.GrandTotal, strings.Join(ev.Seats, ","))
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

// sleep waits d or until ctx is done; false means ctx ended.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
