package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/devaki001/HillTech-Growers/internal/alerts"
	"github.com/devaki001/HillTech-Growers/internal/api"
	"github.com/devaki001/HillTech-Growers/internal/conditions"
	"github.com/devaki001/HillTech-Growers/internal/config"
	"github.com/devaki001/HillTech-Growers/internal/crops"
	"github.com/devaki001/HillTech-Growers/internal/scheduler"
	"github.com/devaki001/HillTech-Growers/internal/storage"
	"github.com/devaki001/HillTech-Growers/pkg/client"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting HillTech Growers farm monitoring service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Durable storage: alert history and tracked crops
	store, err := storage.Open(cfg.Storage.SQLitePath, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer store.Close()

	// Crop catalog, loaded once and read-only afterwards
	catalog, err := crops.LoadCatalog(cfg.Storage.CatalogPath, logger)
	if err != nil {
		logger.Fatal("Failed to load crop catalog", zap.Error(err))
	}

	// Upstream clients
	weatherClient := client.NewOpenWeatherClient(cfg.Weather.APIKey, cfg.Weather.BaseURL, client.ClientConfig{
		Timeout:        cfg.Weather.Timeout,
		MaxRetries:     cfg.Retry.MaxRetries,
		RetryDelay:     cfg.Retry.Delay,
		Multiplier:     cfg.Retry.Multiplier,
		BreakerTimeout: cfg.Retry.BreakerTimeout,
	}, logger)

	sensorClient := client.NewFieldSensorClient(cfg.Sensor.Endpoint, client.ClientConfig{
		Timeout:        cfg.Sensor.Timeout,
		MaxRetries:     cfg.Retry.MaxRetries,
		RetryDelay:     cfg.Retry.Delay,
		Multiplier:     cfg.Retry.Multiplier,
		BreakerTimeout: cfg.Retry.BreakerTimeout,
	}, logger)

	// Core engine
	normalizer := conditions.NewNormalizer(weatherClient, sensorClient, cfg.Weather.City,
		cfg.Tank.HeightCm, cfg.Tank.RadiusCm, logger)
	sink := alerts.NewSink(alerts.NewFeed(), store, logger)
	engine := alerts.NewEngine(normalizer, sink, logger)

	// Daily alert scheduler
	alertScheduler := scheduler.New(engine, logger)
	if err := alertScheduler.Schedule(
		cfg.Schedule.DailyWeatherAlertTime,
		cfg.Schedule.TankAlertTimeMorning,
		cfg.Schedule.TankAlertTimeEvening,
	); err != nil {
		logger.Fatal("Failed to schedule alert jobs", zap.Error(err))
	}
	alertScheduler.Start()

	// Seed the feed on boot, like the scheduled runs would
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		engine.DailyWeatherCheck(ctx)
		engine.TankCheck(ctx)
	}()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: errorHandler,
	})

	handler := api.NewHandler(engine, normalizer, catalog, store, sensorClient, logger)
	api.SetupRoutes(app, handler)

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	alertScheduler.Stop()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func errorHandler(c *fiber.Ctx, err error) error {
	zap.L().Error("HTTP error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))

	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   err.Error(),
		"success": false,
	})
}
