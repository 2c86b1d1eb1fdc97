package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/bookit/bookit-backend/internal/config"
	"github.com/bookit/bookit-backend/internal/database"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		dbURLFlag string
		reset     bool
		migrate   bool
	)
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.BoolVar(&reset, "reset", true, "truncate bookings, slots and experiences before seeding")
	flag.BoolVar(&migrate, "migrate", true, "apply the schema before seeding")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Try loading .env from current working directory (optional)
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	// Build minimal database config without loading full app config
	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     5,
		MaxIdleConnections: 2,
	})
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if migrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatalf("failed to apply schema: %v", err)
		}
	}

	seeder := database.NewSeeder(db, logger)

	if reset {
		logger.Info("Clearing existing catalog and bookings...")
		if err := seeder.Reset(ctx); err != nil {
			logger.Fatalf("failed to clear data: %v", err)
		}
	}

	result, err := seeder.Seed(ctx)
	if err != nil {
		logger.Fatalf("failed to seed database: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"experiences": result.Experiences,
		"slots":       result.Slots,
	}).Info("Database seeded successfully")
}
