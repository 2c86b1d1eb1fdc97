package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookit/bookit-backend/internal/config"
	"github.com/bookit/bookit-backend/internal/database"
	"github.com/bookit/bookit-backend/internal/events"
	"github.com/bookit/bookit-backend/internal/handlers"
	"github.com/bookit/bookit-backend/internal/middleware"
	"github.com/bookit/bookit-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting BookIt API server")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	defer cancelStartup()

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(startupCtx, db); err != nil {
			logger.Fatalf("Failed to apply schema: %v", err)
		}
		logger.Info("Database schema is up to date")
	}

	if cfg.Server.SeedOnStartup && !cfg.IsProduction() {
		seeded, err := database.NewSeeder(db, logger).SeedIfEmpty(startupCtx)
		if err != nil {
			logger.Fatalf("Failed to seed catalog: %v", err)
		}
		if seeded {
			logger.Info("Seeded empty catalog with sample experiences")
		}
	}

	// Redis backs the response cache and rate limiter; both are skipped without it
	var redisClient redis.UniversalClient
	if cfg.Redis.Enabled() {
		client, err := database.NewRedisClient(startupCtx, cfg.Redis)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, caching and rate limiting disabled")
		} else {
			defer client.Close()
			redisClient = client
			logger.Info("Redis connection established")
		}
	}

	// Booking confirmations go to RabbitMQ when a broker is configured
	var publisher services.BookingPublisher
	if cfg.Queue.URL != "" {
		eventPublisher, err := events.NewPublisher(cfg.Queue, logger)
		if err != nil {
			logger.WithError(err).Warn("RabbitMQ unavailable, booking events disabled")
		} else {
			defer eventPublisher.Close()
			publisher = eventPublisher
			logger.WithField("queue", cfg.Queue.BookingEventsQueue).Info("Booking events enabled")
		}
	}

	promoCodes, err := config.LoadPromoCodes(cfg.Promo.CodesFile)
	if err != nil {
		logger.Fatalf("Failed to load promo codes: %v", err)
	}

	// Initialize repositories and services
	logger.Info("Initializing services...")
	experienceRepository := database.NewExperienceRepository(db)
	slotRepository := database.NewSlotRepository(db)
	bookingRepository := database.NewBookingRepository(db)

	promoService := services.NewPromoService(promoCodes)
	experienceService := services.NewExperienceService(experienceRepository, slotRepository, logger)
	bookingService := services.NewBookingService(
		experienceRepository,
		slotRepository,
		bookingRepository,
		promoService,
		publisher,
		services.DefaultBookingServiceConfig(),
		logger,
	)
	logger.WithField("promo_codes", len(promoCodes)).Info("Services initialized")

	responseCache := middleware.NewResponseCache(redisClient, cfg.Cache, logger)

	// Frees slots left claimed by a booking write whose release also failed
	if cfg.Jobs.ReconcileEnabled {
		cronService := services.NewCronService(slotRepository, responseCache, services.CronConfig{
			ReconcileSchedule: cfg.Jobs.ReconcileSchedule,
			ReconcileGrace:    cfg.Jobs.ReconcileGrace,
		}, logger)
		if err := cronService.Start(); err != nil {
			logger.Fatalf("Failed to start cron service: %v", err)
		}
		defer cronService.Stop()
	}

	var limiter *middleware.RateLimiter
	if redisClient != nil {
		limiter = middleware.NewRateLimiter(redisClient, cfg.RateLimit, logger)
	}

	router := newRouter(cfg.CORS, routes{
		experiences: handlers.NewExperienceHandler(experienceService, logger),
		bookings:    handlers.NewBookingHandler(bookingService, responseCache, logger),
		promos:      handlers.NewPromoHandler(promoService, logger),
		health:      handlers.NewHealthHandler(db, version),
		cache:       responseCache,
		limiter:     limiter,
	}, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}
