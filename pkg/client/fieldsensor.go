package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/devaki001/HillTech-Growers/internal/models"
	"go.uber.org/zap"
)

// FieldSensorClient reads the on-site ESP32 device. The device serves one
// JSON document with soil, climate and ultrasonic readings.
type FieldSensorClient struct {
	*BaseClient
	endpoint string
}

// SensorPayload is the raw device document, passed through to the dashboard
// gauges unmodified.
type SensorPayload struct {
	SoilRaw          *int     `json:"soil_raw"`
	SoilPct          *float64 `json:"soil_pct"`
	UltrasonicCm     *float64 `json:"ultrasonic_cm"`
	TempC            *float64 `json:"temp_c"`
	HumidityPct      *float64 `json:"humidity_pct"`
	PumpOn           *bool    `json:"pump_on"`
	AutoMode         *bool    `json:"auto_mode"`
	SoilThresholdRaw *int     `json:"soil_threshold_raw"`
	IP               string   `json:"ip,omitempty"`
	UptimeS          *int64   `json:"uptime_s"`
	WifiSSID         string   `json:"wifi_ssid,omitempty"`
}

func NewFieldSensorClient(endpoint string, config ClientConfig, logger *zap.Logger) *FieldSensorClient {
	return &FieldSensorClient{
		BaseClient: NewBaseClient("fieldsensor", config, logger),
		endpoint:   endpoint,
	}
}

// ReadRaw returns the device document as-is.
func (c *FieldSensorClient) ReadRaw(ctx context.Context) (*SensorPayload, error) {
	data, err := c.Get(ctx, c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("field sensor unreachable: %w", err)
	}

	var payload SensorPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse sensor payload: %w", err)
	}
	return &payload, nil
}

// ReadSoil returns the soil reading from the device. Missing fields read as
// zero, matching the device's own behaviour during warm-up.
func (c *FieldSensorClient) ReadSoil(ctx context.Context) (*models.SoilReading, error) {
	payload, err := c.ReadRaw(ctx)
	if err != nil {
		return nil, err
	}

	reading := &models.SoilReading{}
	if payload.SoilPct != nil {
		reading.Moisture = *payload.SoilPct
	}
	if payload.TempC != nil {
		reading.Temperature = *payload.TempC
	}
	if payload.HumidityPct != nil {
		reading.Humidity = *payload.HumidityPct
	}
	return reading, nil
}

// ReadUltrasonic returns the tank distance reading in centimeters.
func (c *FieldSensorClient) ReadUltrasonic(ctx context.Context) (float64, error) {
	payload, err := c.ReadRaw(ctx)
	if err != nil {
		return 0, err
	}
	if payload.UltrasonicCm == nil {
		return 0, fmt.Errorf("sensor payload missing ultrasonic_cm")
	}
	return *payload.UltrasonicCm, nil
}
