package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"fleet/internal/handler"
	"fleet/internal/metrics"
	"fleet/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler    *handler.TripHandler
	GPSHandler     *handler.GPSHandler
	PresetHandler  *handler.PresetHandler
	BillingHandler *handler.BillingHandler
	TariffHandler  *handler.TariffHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
	Metrics        *metrics.Collector
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Trip routes.
		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.CreateTrip)
			trips.GET("", deps.TripHandler.ListTrips)
			trips.GET("/:id", deps.TripHandler.GetTrip)
			trips.POST("/:id/start", deps.TripHandler.StartTrip)
			trips.POST("/:id/end", deps.TripHandler.EndTrip)
		}

		// GPS routes.
		gps := v1.Group("/gps")
		{
			gps.POST("/update", deps.GPSHandler.UpdateGPS)
			gps.GET("/vehicles/live", deps.GPSHandler.ListLive)
			gps.GET("/vehicles/:vehicle_id/live", deps.GPSHandler.GetLiveVehicle)
		}

		// Preset geofence routes.
		presets := v1.Group("/presets")
		{
			presets.GET("/detect", deps.PresetHandler.DetectPreset)
		}

		// Billing routes.
		billing := v1.Group("/billing")
		{
			billing.GET("/invoices", deps.BillingHandler.ListInvoices)
			billing.GET("/invoices/:id", deps.BillingHandler.GetInvoice)
			billing.POST("/generate/:trip_id", deps.BillingHandler.GenerateInvoice)
		}

		// Tariff routes.
		tariffs := v1.Group("/tariffs")
		{
			tariffs.GET("/fixed", deps.TariffHandler.GetFixedTariff)
			tariffs.GET("/distance", deps.TariffHandler.GetDistanceQuote)
			tariffs.GET("/fallback", deps.TariffHandler.GetFallbackRate)
			tariffs.PUT("/fallback", deps.TariffHandler.UpdateFallbackRate)
		}
	}

	return router
}
