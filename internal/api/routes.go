package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func SetupRoutes(app *fiber.App, handler *Handler) {
	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(logger.New(logger.Config{
		Format:     "${time} ${pid} ${locals:requestid} ${status} - ${method} ${path}\n",
		TimeFormat: time.RFC3339,
	}))

	// API v1 routes
	api := app.Group("/api/v1")

	api.Get("/health", handler.GetHealth)
	api.Get("/dashboard", handler.GetDashboard)
	api.Get("/sensor", handler.GetSensorData)

	// Alert feed and manual triggers
	alerts := api.Group("/alerts")
	alerts.Get("/", handler.GetAlerts)
	alerts.Post("/run", handler.RunAlerts)
	alerts.Post("/weather", handler.RunWeatherAlert)
	alerts.Post("/tank", handler.RunTankAlert)
	alerts.Post("/irrigation", handler.RunIrrigationAlert)

	// Tank readings
	tank := api.Group("/tank")
	tank.Get("/", handler.GetTank)
	tank.Get("/simulated", handler.GetSimulatedTank)

	// Crop catalog and calculators
	api.Get("/crops", handler.GetCrops)
	api.Get("/crops/:name", handler.GetCropDetail)
	api.Post("/water/calc", handler.CalcWater)

	// Per-farmer crop tracking
	api.Post("/user_crops", handler.TrackCrop)
	api.Get("/user_crops", handler.ListUserCrops)
	api.Delete("/user_crops/:id", handler.RemoveUserCrop)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
			"path":  c.Path(),
		})
	})
}
