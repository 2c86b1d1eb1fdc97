package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/bookit/bookit-backend/internal/config"
	"github.com/bookit/bookit-backend/internal/events"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// booking-events tails the booking confirmation queue and logs each event.
// It is the hook point for notification side effects such as emails.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	_ = godotenv.Load()

	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		logger.Fatal("RABBITMQ_URL is required")
	}
	queue := os.Getenv("BOOKING_EVENTS_QUEUE")
	if queue == "" {
		queue = config.DefaultBookingEventsQueue
	}

	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := events.NewConsumer(url, queue, events.LogHandler(logger), logger)

	logger.WithField("queue", queue).Info("Consuming booking events")
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Consumer stopped: %v", err)
	}
	logger.Info("Consumer exited")
}
