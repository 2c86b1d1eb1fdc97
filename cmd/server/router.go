package main

import (
	"time"

	"github.com/bookit/bookit-backend/internal/config"
	"github.com/bookit/bookit-backend/internal/handlers"
	"github.com/bookit/bookit-backend/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// routes bundles everything the HTTP surface is built from
type routes struct {
	experiences *handlers.ExperienceHandler
	bookings    *handlers.BookingHandler
	promos      *handlers.PromoHandler
	health      *handlers.HealthHandler
	cache       *middleware.ResponseCache
	limiter     *middleware.RateLimiter
}

func newRouter(cfg config.CORSConfig, r routes, logger *logrus.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowMethods:  cfg.AllowedMethods,
		AllowHeaders:  cfg.AllowedHeaders,
		ExposeHeaders: []string{"Content-Length", "Retry-After", "X-Cache", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/", r.health.Root)
	router.GET("/health", r.health.Health)

	api := router.Group("/api")
	{
		api.GET("/health", r.health.Health)

		// Catalog reads are cached; bookings invalidate the detail page
		experiences := api.Group("/experiences")
		experiences.Use(r.cache.Middleware())
		{
			experiences.GET("", r.experiences.ListExperiences)
			experiences.GET("/:id", r.experiences.GetExperience)
		}

		limited := r.limiter.Middleware()

		bookings := api.Group("/bookings")
		{
			bookings.POST("", limited, r.bookings.CreateBooking)
			bookings.GET("/:id", r.bookings.GetBooking)
		}

		promo := api.Group("/promo")
		{
			promo.POST("/validate", limited, r.promos.ValidatePromo)
		}
	}

	router.NoRoute(handlers.NotFound)

	return router
}
