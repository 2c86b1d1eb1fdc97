package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bookit/bookit-backend/internal/config"
	"github.com/bookit/bookit-backend/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// channel is the part of an AMQP session the publisher needs
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// session owns a connection and its channel
type session struct {
	conn *amqp.Connection
	*amqp.Channel
}

func (s *session) Close() error {
	_ = s.Channel.Close()
	return s.conn.Close()
}

// dialTimeout bounds a dial when the caller's context carries no deadline
const dialTimeout = 5 * time.Second

// dialQueue connects, opens a channel and declares the durable queue.
// The TCP connect and AMQP handshake finish before ctx's deadline.
func dialQueue(ctx context.Context, url, queue string) (channel, error) {
	timeout := dialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	return &session{conn: conn, Channel: ch}, nil
}

// Publisher sends booking events to a durable queue on the default exchange.
// A broken session is dropped and redialled on the next publish. Waiting for
// the session and redialling both stop at the caller's deadline.
type Publisher struct {
	sem     chan struct{} // holds the session; capacity 1
	queue   string
	connect func(ctx context.Context) (channel, error)
	ch      channel
	logger  *logrus.Logger
}

// NewPublisher connects to the broker configured in cfg
func NewPublisher(cfg config.QueueConfig, logger *logrus.Logger) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is not configured")
	}

	p := newPublisher(cfg.BookingEventsQueue, func(ctx context.Context) (channel, error) {
		return dialQueue(ctx, cfg.URL, cfg.BookingEventsQueue)
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*dialTimeout)
	defer cancel()

	if err := p.acquire(ctx); err != nil {
		return nil, err
	}
	defer p.release()
	if err := p.ensureChannel(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func newPublisher(queue string, connect func(ctx context.Context) (channel, error), logger *logrus.Logger) *Publisher {
	return &Publisher{
		sem:     make(chan struct{}, 1),
		queue:   queue,
		connect: connect,
		logger:  logger,
	}
}

// acquire takes the session or gives up when ctx is done
func (p *Publisher) acquire(ctx context.Context) error {
	select {
	case p.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for broker session: %w", ctx.Err())
	}
}

func (p *Publisher) release() {
	<-p.sem
}

func (p *Publisher) ensureChannel(ctx context.Context) error {
	if p.ch != nil {
		return nil
	}
	ch, err := p.connect(ctx)
	if err != nil {
		return err
	}
	p.ch = ch
	return nil
}

// PublishBookingConfirmed publishes a persistent JSON BookingConfirmedEvent
func (p *Publisher) PublishBookingConfirmed(ctx context.Context, booking *models.BookingDetails) error {
	body, err := json.Marshal(NewBookingConfirmedEvent(booking))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    booking.ID,
		Type:         "booking.confirmed",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := p.acquire(ctx); err != nil {
		return err
	}
	defer p.release()

	if err := p.ensureChannel(ctx); err != nil {
		return err
	}

	if err := p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		msg,
	); err != nil {
		p.logger.WithError(err).WithField("queue", p.queue).Warn("Publish failed, dropping broker session")
		_ = p.ch.Close()
		p.ch = nil
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"queue":      p.queue,
		"booking_id": booking.ID,
	}).Debug("Published booking event")

	return nil
}

// Close closes the broker session
func (p *Publisher) Close() error {
	p.sem <- struct{}{}
	defer p.release()

	if p.ch == nil {
		return nil
	}
	err := p.ch.Close()
	p.ch = nil
	return err
}
