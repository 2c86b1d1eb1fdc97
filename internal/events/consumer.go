package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Handler processes one decoded event. A returned error rejects the message.
type Handler func(ctx context.Context, event BookingConfirmedEvent) error

// Consumer reads booking events and hands them to a Handler, reconnecting
// with exponential backoff until its context is cancelled.
type Consumer struct {
	url        string
	queue      string
	prefetch   int
	maxBackoff time.Duration
	handler    Handler
	logger     *logrus.Logger
}

// NewConsumer creates a consumer for the given queue
func NewConsumer(url, queue string, handler Handler, logger *logrus.Logger) *Consumer {
	return &Consumer{
		url:        url,
		queue:      queue,
		prefetch:   50,
		maxBackoff: 30 * time.Second,
		handler:    handler,
		logger:     logger,
	}
}

// Run consumes until ctx is cancelled
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.WithError(err).WithField("retry_in", backoff.String()).Warn("Failed to dial broker")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < c.maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.logger.WithError(err).Warn("Consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		c.logger.WithError(err).Warn("Failed to set QoS")
	}

	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	c.logger.WithField("queue", c.queue).Info("Consuming booking events")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.handleDelivery(ctx, d)
		}
	}
}

// handleDelivery acks processed messages and rejects undecodable or failed
// ones without requeue so a poison message cannot spin the consumer
func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var event BookingConfirmedEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		c.logger.WithError(err).WithField("message_id", d.MessageId).Error("Discarding malformed booking event")
		_ = d.Nack(false, false)
		return
	}

	if err := c.handler(ctx, event); err != nil {
		c.logger.WithError(err).WithField("booking_id", event.BookingID).Error("Failed to handle booking event")
		_ = d.Nack(false, false)
		return
	}

	_ = d.Ack(false)
}

// LogHandler writes each confirmed booking as a structured log line
func LogHandler(logger *logrus.Logger) Handler {
	return func(ctx context.Context, event BookingConfirmedEvent) error {
		fields := logrus.Fields{
			"booking_id":       event.BookingID,
			"experience_id":    event.ExperienceID,
			"experience_title": event.ExperienceTitle,
			"slot_id":          event.SlotID,
			"date":             event.Date,
			"time":             event.Time,
			"customer_email":   event.CustomerEmail,
			"total_price":      event.TotalPrice,
			"discount":         event.Discount,
			"confirmed_at":     event.ConfirmedAt,
		}
		if event.PromoCode != nil {
			fields["promo_code"] = *event.PromoCode
		}
		logger.WithFields(fields).Info("Booking confirmed")
		return nil
	}
}
