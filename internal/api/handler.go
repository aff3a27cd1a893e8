package api

import (
	"database/sql"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devaki001/HillTech-Growers/internal/alerts"
	"github.com/devaki001/HillTech-Growers/internal/conditions"
	"github.com/devaki001/HillTech-Growers/internal/crops"
	"github.com/devaki001/HillTech-Growers/internal/models"
	"github.com/devaki001/HillTech-Growers/internal/storage"
	"github.com/devaki001/HillTech-Growers/pkg/client"
)

var startTime = time.Now()

type Handler struct {
	engine     *alerts.Engine
	normalizer *conditions.Normalizer
	catalog    *crops.Catalog
	store      *storage.Store
	sensor     *client.FieldSensorClient
	simulator  *conditions.LevelSimulator
	validate   *validator.Validate
	logger     *zap.Logger
}

func NewHandler(
	engine *alerts.Engine,
	normalizer *conditions.Normalizer,
	catalog *crops.Catalog,
	store *storage.Store,
	sensor *client.FieldSensorClient,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		engine:     engine,
		normalizer: normalizer,
		catalog:    catalog,
		store:      store,
		sensor:     sensor,
		simulator:  conditions.NewLevelSimulator(45),
		validate:   validator.New(),
		logger:     logger,
	}
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":       "healthy",
		"timestamp":    time.Now().UTC(),
		"uptime":       time.Since(startTime).String(),
		"catalog_rows": len(h.catalog.Records),
		"feed_size":    h.engine.Sink().Feed().Len(),
	})
}

// GetDashboard handles GET /api/v1/dashboard. It returns the live snapshot
// plus the crops matching current conditions. soil_type optionally narrows
// the match to one soil type.
func (h *Handler) GetDashboard(c *fiber.Ctx) error {
	soilType := strings.TrimSpace(c.Query("soil_type"))

	soil := h.normalizer.Soil(c.Context())
	weather := h.normalizer.CurrentWeather(c.Context())
	bucket := models.BucketForSoil(soil)

	payload := fiber.Map{
		"soil":          soil,
		"weather":       weather,
		"irrigation":    staticIrrigationStatus(),
		"tank_level":    h.simulator.Step(),
		"current_time":  time.Now().Format("2006-01-02 15:04:05"),
		"soil_category": displayBucket(bucket),
	}

	recommended, err := h.catalog.Recommend(soil, soilType)
	if err != nil {
		if errors.Is(err, crops.ErrNoSoilData) {
			payload["crops"] = []crops.Record{}
			payload["message"] = "No live soil sensor data. Connect the field sensor to see crop recommendations."
			return c.JSON(payload)
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if recommended == nil {
		recommended = []crops.Record{}
	}
	payload["crops"] = recommended
	return c.JSON(payload)
}

// GetAlerts handles GET /api/v1/alerts
func (h *Handler) GetAlerts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"alerts": h.engine.Sink().Feed().All()})
}

// RunAlerts handles POST /api/v1/alerts/run, the "run alerts now" action.
func (h *Handler) RunAlerts(c *fiber.Ctx) error {
	created := h.engine.RunAll(c.Context())
	if created == nil {
		created = []models.Alert{}
	}
	return c.JSON(fiber.Map{"status": "ok", "created": created})
}

// RunWeatherAlert handles POST /api/v1/alerts/weather
func (h *Handler) RunWeatherAlert(c *fiber.Ctx) error {
	alert := h.engine.CheckRain(c.Context())
	if alert == nil {
		return c.JSON(fiber.Map{"status": "no_alert", "message": "No rain alert needed"})
	}
	h.engine.Sink().Record(c.Context(), *alert, "")
	return c.JSON(fiber.Map{"status": "success", "alert": alert})
}

// RunTankAlert handles POST /api/v1/alerts/tank
func (h *Handler) RunTankAlert(c *fiber.Ctx) error {
	alert, err := h.engine.CheckTank(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"status":  "error",
			"message": "Sensor offline. Unable to read tank.",
		})
	}
	h.engine.Sink().Record(c.Context(), *alert, "")
	return c.JSON(fiber.Map{"status": "success", "alert": alert})
}

// RunIrrigationAlert handles POST /api/v1/alerts/irrigation
func (h *Handler) RunIrrigationAlert(c *fiber.Ctx) error {
	alert := h.engine.CheckIrrigation(c.Context())
	h.engine.Sink().Record(c.Context(), *alert, "")
	return c.JSON(fiber.Map{"status": "success", "alert": alert})
}

// GetTank handles GET /api/v1/tank, returning the live tank snapshot.
func (h *Handler) GetTank(c *fiber.Ctx) error {
	snap, err := h.normalizer.Tank(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"status":  "error",
			"message": "Sensor offline. Unable to read tank.",
		})
	}
	return c.JSON(fiber.Map{"status": "success", "tank": snap})
}

// GetSimulatedTank handles GET /api/v1/tank/simulated, the demo gauge feed.
func (h *Handler) GetSimulatedTank(c *fiber.Ctx) error {
	level := h.simulator.Step()
	const capacity = 5000
	return c.JSON(fiber.Map{
		"status":          "success",
		"tank_level":      level,
		"tank_capacity":   capacity,
		"available_water": int(capacity * level / 100),
		"timestamp":       time.Now().Format("2006-01-02 15:04:05"),
		"sensor_status":   "active",
	})
}

// GetSensorData handles GET /api/v1/sensor, a raw field device passthrough.
func (h *Handler) GetSensorData(c *fiber.Ctx) error {
	payload, err := h.sensor.ReadRaw(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(payload)
}

// GetCrops handles GET /api/v1/crops
func (h *Handler) GetCrops(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"crops": h.catalog.Names()})
}

// GetCropDetail handles GET /api/v1/crops/:name. Optional query parameters
// drive the calculators: acres for water volume, acres_profit and
// other_expenses for the profit estimate.
func (h *Handler) GetCropDetail(c *fiber.Ctx) error {
	name, err := decodeParam(c, "name")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid crop name")
	}

	rec, err := h.catalog.Find(name)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "crop not found")
	}

	payload := fiber.Map{"crop": rec}

	if acres := c.QueryFloat("acres", -1); acres >= 0 {
		var waterMM float64
		if rec.TotalWaterMM != nil {
			waterMM = *rec.TotalWaterMM
		}
		payload["water_mm"] = waterMM
		payload["total_litres"] = crops.WaterVolumeLitres(acres, waterMM)
	}

	if acresProfit := c.QueryFloat("acres_profit", -1); acresProfit > 0 {
		revenue, profit := crops.ProfitEstimate(rec, acresProfit, c.QueryFloat("other_expenses", 0))
		payload["revenue"] = revenue
		payload["profit"] = profit
	}

	return c.JSON(payload)
}

type waterCalcRequest struct {
	Crop  string  `json:"crop" validate:"required"`
	Acres float64 `json:"acres" validate:"gt=0"`
}

// CalcWater handles POST /api/v1/water/calc
func (h *Handler) CalcWater(c *fiber.Ctx) error {
	var req waterCalcRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	rec, err := h.catalog.Find(req.Crop)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "crop not found")
	}
	var waterMM float64
	if rec.TotalWaterMM != nil {
		waterMM = *rec.TotalWaterMM
	}

	return c.JSON(fiber.Map{
		"crop":         rec.Crop,
		"acres":        req.Acres,
		"water_mm":     waterMM,
		"total_litres": crops.WaterVolumeLitres(req.Acres, waterMM),
	})
}

type trackCropRequest struct {
	FarmerID         string  `json:"farmer_id" validate:"required"`
	CropName         string  `json:"crop_name" validate:"required"`
	SoilType         string  `json:"soil_type" validate:"required"`
	WaterRequirement float64 `json:"water_requirement" validate:"gte=0"`
	StartDate        string  `json:"start_date" validate:"required"`
}

// TrackCrop handles POST /api/v1/user_crops: records the crop and emits a
// "now growing" irrigation alert owned by the farmer.
func (h *Handler) TrackCrop(c *fiber.Ctx) error {
	var req trackCropRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	cropID, err := h.store.AddUserCrop(c.Context(), models.UserCrop{
		FarmerID:         req.FarmerID,
		CropName:         req.CropName,
		SoilType:         req.SoilType,
		WaterRequirement: req.WaterRequirement,
		StartDate:        req.StartDate,
	})
	if err != nil {
		h.logger.Error("Failed to add user crop", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "database error")
	}

	alert := growingAlert(req)
	h.engine.Sink().Record(c.Context(), alert, req.FarmerID)

	return c.JSON(fiber.Map{
		"status":  "success",
		"crop_id": cropID,
		"alert":   alert,
	})
}

// ListUserCrops handles GET /api/v1/user_crops?farmer_id=...
func (h *Handler) ListUserCrops(c *fiber.Ctx) error {
	farmerID := strings.TrimSpace(c.Query("farmer_id"))
	if farmerID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "farmer_id parameter is required")
	}

	list, err := h.store.ListUserCrops(c.Context(), farmerID)
	if err != nil {
		h.logger.Error("Failed to list user crops", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "database error")
	}
	if list == nil {
		list = []models.UserCrop{}
	}
	return c.JSON(fiber.Map{"crops": list})
}

// RemoveUserCrop handles DELETE /api/v1/user_crops/:id?farmer_id=...
func (h *Handler) RemoveUserCrop(c *fiber.Ctx) error {
	farmerID := strings.TrimSpace(c.Query("farmer_id"))
	if farmerID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "farmer_id parameter is required")
	}
	cropID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid crop id")
	}

	err = h.store.RemoveUserCrop(c.Context(), farmerID, int64(cropID))
	if errors.Is(err, sql.ErrNoRows) {
		return fiber.NewError(fiber.StatusNotFound, "crop not found or not authorized")
	}
	if err != nil {
		h.logger.Error("Failed to remove user crop", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "database error")
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Crop deleted successfully"})
}

func growingAlert(req trackCropRequest) models.Alert {
	return models.Alert{
		ID:       uuid.NewString(),
		Type:     models.TypeIrrigationAlert,
		Title:    "Growing " + req.CropName,
		Message: "You are now growing " + req.CropName + " in " + req.SoilType +
			" soil. Started on " + req.StartDate + ".",
		Severity:         models.SeverityMedium,
		Category:         models.CategoryIrrigation,
		Timestamp:        time.Now().UTC(),
		Recommendation:   "Monitor soil moisture regularly.",
		Icon:             "🌱",
		CropName:         req.CropName,
		SoilType:         req.SoilType,
		WaterRequirement: req.WaterRequirement,
		StartDate:        req.StartDate,
	}
}

func staticIrrigationStatus() fiber.Map {
	// No controllable irrigation hardware is wired up; the dashboard shows a
	// fixed schedule block.
	return fiber.Map{
		"schedule":      "Active",
		"next_watering": "14:30",
		"duration":      25,
		"pressure":      2.8,
	}
}

func displayBucket(bucket models.MoistureBucket) string {
	if bucket == models.MoistureUnknown {
		return "Unknown"
	}
	return strings.ToUpper(string(bucket[0])) + string(bucket[1:])
}

func decodeParam(c *fiber.Ctx, name string) (string, error) {
	raw := c.Params(name)
	return url.PathUnescape(raw)
}
