package conditions

import (
	"context"
	"errors"

	"github.com/devaki001/HillTech-Growers/internal/models"
	"go.uber.org/zap"
)

// ErrSensorUnavailable is returned when the field device cannot be read.
// Tank callers must suppress their alert rather than fabricate a reading.
var ErrSensorUnavailable = errors.New("field sensor unavailable")

// WeatherProvider is the upstream weather API as consumed by the normalizer.
type WeatherProvider interface {
	GetCurrent(ctx context.Context, city string) (models.WeatherSnapshot, error)
	GetForecast(ctx context.Context, city string) (models.ForecastSnapshot, error)
}

// FieldSensor is the on-site device as consumed by the normalizer.
type FieldSensor interface {
	ReadSoil(ctx context.Context) (*models.SoilReading, error)
	ReadUltrasonic(ctx context.Context) (float64, error)
}

// Snapshot is a canonical read of all condition sources at one instant.
// Weather is always populated; Soil is nil when the sensor was unreachable.
type Snapshot struct {
	Weather  models.WeatherSnapshot  `json:"weather"`
	Forecast models.ForecastSnapshot `json:"forecast"`
	Soil     *models.SoilReading     `json:"soil"`
}

// Normalizer coerces the three independent upstream fetches into a canonical
// snapshot. Each source degrades on its own:
//
//   - weather failure substitutes the fixed default, never an error
//   - forecast failure substitutes an empty forecast
//   - soil failure propagates as the absent sentinel (nil)
//
// The asymmetry is deliberate: weather unavailability should not silence the
// engine, but assuming a moisture level that was never measured would be
// actively wrong.
type Normalizer struct {
	weather      WeatherProvider
	sensor       FieldSensor
	city         string
	tankHeightCm float64
	tankRadiusCm float64
	logger       *zap.Logger
}

func NewNormalizer(weather WeatherProvider, sensor FieldSensor, city string, tankHeightCm, tankRadiusCm float64, logger *zap.Logger) *Normalizer {
	return &Normalizer{
		weather:      weather,
		sensor:       sensor,
		city:         city,
		tankHeightCm: tankHeightCm,
		tankRadiusCm: tankRadiusCm,
		logger:       logger,
	}
}

// Take fetches all three sources and returns the canonical snapshot. It
// never returns an error: a failure in one source must not prevent
// evaluation using the other two.
func (n *Normalizer) Take(ctx context.Context) Snapshot {
	return Snapshot{
		Weather:  n.CurrentWeather(ctx),
		Forecast: n.TodayForecast(ctx),
		Soil:     n.Soil(ctx),
	}
}

// CurrentWeather returns the live weather, or the fixed default when the
// provider is unreachable.
func (n *Normalizer) CurrentWeather(ctx context.Context) models.WeatherSnapshot {
	w, err := n.weather.GetCurrent(ctx, n.city)
	if err != nil {
		n.logger.Warn("Weather fetch failed, using defaults", zap.Error(err))
		return models.DefaultWeather()
	}
	return w
}

// TodayForecast returns today's forecast, or an empty forecast on failure.
func (n *Normalizer) TodayForecast(ctx context.Context) models.ForecastSnapshot {
	f, err := n.weather.GetForecast(ctx, n.city)
	if err != nil {
		n.logger.Warn("Forecast fetch failed, treating as no forecast", zap.Error(err))
		return models.ForecastSnapshot{}
	}
	return f
}

// Soil returns the live soil reading, or nil when the device is unreachable.
func (n *Normalizer) Soil(ctx context.Context) *models.SoilReading {
	soil, err := n.sensor.ReadSoil(ctx)
	if err != nil {
		n.logger.Warn("Soil read failed, treating soil as absent", zap.Error(err))
		return nil
	}
	return soil
}

// Tank reads the live ultrasonic distance and derives the tank snapshot.
// Unlike the other sources a failed read propagates: a substituted tank
// level could trigger a false "refill now" alert.
func (n *Normalizer) Tank(ctx context.Context) (models.TankSnapshot, error) {
	u, err := n.sensor.ReadUltrasonic(ctx)
	if err != nil {
		n.logger.Warn("Tank read failed", zap.Error(err))
		return models.TankSnapshot{}, errors.Join(ErrSensorUnavailable, err)
	}
	return ComputeTank(u, n.tankHeightCm, n.tankRadiusCm), nil
}
