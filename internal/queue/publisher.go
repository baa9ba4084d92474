package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Publisher sends booking events to the broker. Each call dials its own
// connection, so a broker outage only fails the publish that hit it.
type Publisher struct {
	url    string
	logger *logrus.Logger
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(logger *logrus.Logger, url string) *Publisher {
	return &Publisher{url: url, logger: logger}
}

// PublishBookingConfirmed publishes ev as a persistent message on
// BookingQueue. Errors are logged and returned; callers may ignore them.
func (p *Publisher) PublishBookingConfirmed(ctx context.Context, ev BookingConfirmedEvent) error {
	log := p.logger.WithContext(ctx).WithFields(logrus.Fields{"queue": BookingQueue, "booking_id": ev.BookingID})

	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.WithError(err).Warn("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.WithError(err).Warn("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := declareBookingQueue(ch); err != nil {
		log.WithError(err).Warn("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.WithError(err).Error("rabbitmq: marshal event failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", BookingQueue, false, false, pub); err != nil {
		log.WithError(err).Warn("rabbitmq: publish failed")
		return err
	}
	log.Debug("rabbitmq: booking event published")
	return nil
}

func declareBookingQueue(ch *amqp.Channel) (amqp.Queue, error) {
	return ch.QueueDeclare(
		BookingQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
}
