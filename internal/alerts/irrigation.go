package alerts

import (
	"fmt"
	"time"

	"github.com/devaki001/HillTech-Growers/internal/conditions"
	"github.com/devaki001/HillTech-Growers/internal/models"
)

type irrigationInputs struct {
	totalRain float64
	maxRain   float64
	weather   models.WeatherSnapshot
	soil      *models.SoilReading
	ts        time.Time
}

type irrigationRule struct {
	when  func(in irrigationInputs) bool
	build func(in irrigationInputs) *models.Alert
}

// The ordered irrigation decision list. Rain branches come first because
// they hold regardless of soil; the sensor-offline branch then shields the
// soil-dependent branches below it.
var irrigationRules = []irrigationRule{
	{
		when: func(in irrigationInputs) bool {
			return in.totalRain > 5.0 || in.maxRain > 2.0 || in.weather.Rainfall > 1.0
		},
		build: func(in irrigationInputs) *models.Alert {
			msg := fmt.Sprintf("Heavy rain expected. Wx: %s.", wxLine(in.weather))
			if in.soil != nil {
				msg = fmt.Sprintf("Heavy rain expected. Wx: %s. Soil: %d%%, %d°C, %d%%.",
					wxLine(in.weather), int(in.soil.Moisture), int(in.soil.Temperature), int(in.soil.Humidity))
			}
			return newAlert(in.ts, models.TypeIrrigationRecommendation, models.CategoryIrrigation,
				"Heavy Rain Alert - No Irrigation", models.SeverityHigh, msg,
				"Skip irrigation today.", "🌧")
		},
	},
	{
		when: func(in irrigationInputs) bool {
			return in.totalRain > 1.0 || in.maxRain > 0.5 || in.weather.Rainfall > 0.1
		},
		build: func(in irrigationInputs) *models.Alert {
			return newAlert(in.ts, models.TypeIrrigationRecommendation, models.CategoryIrrigation,
				"Medium Rain - Limited Irrigation", models.SeverityMedium,
				fmt.Sprintf("May rain today. Reduce irrigation by ~50%%. Wx: %s.", wxLine(in.weather)),
				"Use minimal irrigation and monitor.", "🌦")
		},
	},
	{
		when: func(in irrigationInputs) bool { return in.soil == nil },
		build: func(in irrigationInputs) *models.Alert {
			return newAlert(in.ts, models.TypeIrrigationRecommendation, models.CategoryIrrigation,
				"Normal Weather - Sensor Offline", models.SeverityLow,
				fmt.Sprintf("Normal conditions. Soil sensor data unavailable. Wx: %s.", wxLine(in.weather)),
				"Check sensor and follow your usual schedule.", "🌤")
		},
	},
	{
		when: func(in irrigationInputs) bool {
			return in.totalRain == 0 && in.weather.Rainfall == 0 &&
				in.weather.Temperature > 25 && in.weather.Humidity < 60
		},
		build: func(in irrigationInputs) *models.Alert {
			return newAlert(in.ts, models.TypeIrrigationRecommendation, models.CategoryIrrigation,
				"Perfect Irrigation Day", models.SeverityLow,
				fmt.Sprintf("Sunny and dry. Wx: %s.", wxLine(in.weather)),
				"Proceed with normal schedule.", "☀")
		},
	},
	{
		when: func(in irrigationInputs) bool { return true },
		build: func(in irrigationInputs) *models.Alert {
			return newAlert(in.ts, models.TypeIrrigationRecommendation, models.CategoryIrrigation,
				"Normal Weather - Regular Irrigation", models.SeverityLow,
				fmt.Sprintf("Normal conditions. Wx: %s.", wxLine(in.weather)),
				"Follow your regular schedule.", "🌤")
		},
	},
}

// EvaluateIrrigation runs the irrigation decision list over a snapshot. It
// always returns exactly one alert.
func EvaluateIrrigation(snap conditions.Snapshot, ts time.Time) *models.Alert {
	in := irrigationInputs{
		totalRain: snap.Forecast.TotalRain(),
		maxRain:   snap.Forecast.MaxRain(),
		weather:   snap.Weather,
		soil:      snap.Soil,
		ts:        ts,
	}
	for _, rule := range irrigationRules {
		if rule.when(in) {
			return rule.build(in)
		}
	}
	return nil
}

// weatherUnavailableAlert is the defensive fallback for the irrigation tree:
// when gathering its three upstream sources fails outright, it reports that
// instead of raising.
func weatherUnavailableAlert(ts time.Time) *models.Alert {
	return newAlert(ts, models.TypeIrrigationRecommendation, models.CategoryIrrigation,
		"Weather Data Unavailable", models.SeverityMedium,
		"Unable to fetch weather data.",
		"Check conditions manually.", "⚠")
}

func wxLine(w models.WeatherSnapshot) string {
	return fmt.Sprintf("%.0f°C, %.0f%%, %.0f km/h", w.Temperature, w.Humidity, w.WindSpeed)
}
