package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"fleet/internal/app"
	"fleet/internal/config"
	"fleet/internal/handler"
	"fleet/internal/metrics"
	internalRedis "fleet/internal/redis"
	"fleet/internal/repository/postgres"
	"fleet/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	collector := metrics.NewCollector(cfg.Billing.DefaultRatePerKm)

	// Initialize Redis stores.
	liveStore := internalRedis.NewLiveStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	tripRepo := postgres.NewTripRepository(db)
	pointRepo := postgres.NewTrackPointRepository(db)
	invoiceRepo := postgres.NewInvoiceRepository(db)
	presetRepo := postgres.NewPresetRepository(db)
	tariffRepo := postgres.NewTariffRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)

	// Initialize services.
	billingService := service.NewBillingService(
		tariffRepo, invoiceRepo, tripRepo, lockStore,
		cfg.Billing.DefaultRatePerKm, collector)
	tripService := service.NewTripService(tripRepo, pointRepo, billingService, collector)
	geofenceService := service.NewGeofenceService(presetRepo)
	gpsService := service.NewGPSService(
		liveStore, cacheStore, pointRepo, tripRepo, presetRepo, vehicleRepo, collector)

	// Initialize handlers.
	tripHandler := handler.NewTripHandler(tripService)
	gpsHandler := handler.NewGPSHandler(gpsService)
	presetHandler := handler.NewPresetHandler(geofenceService)
	billingHandler := handler.NewBillingHandler(billingService)
	tariffHandler := handler.NewTariffHandler(billingService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		TripHandler:    tripHandler,
		GPSHandler:     gpsHandler,
		PresetHandler:  presetHandler,
		BillingHandler: billingHandler,
		TariffHandler:  tariffHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
		Metrics:        collector,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
