package alerts

import (
	"fmt"
	"time"

	"github.com/devaki001/HillTech-Growers/internal/conditions"
	"github.com/devaki001/HillTech-Growers/internal/models"
)

// rainInputs are the derived metrics the rain/weather decision list runs on.
type rainInputs struct {
	totalRain float64
	maxRain   float64
	weather   models.WeatherSnapshot
	soil      *models.SoilReading
	ts        time.Time
}

// rainRule is one (predicate, builder) pair of the rain decision list.
type rainRule struct {
	when  func(in rainInputs) bool
	build func(in rainInputs) *models.Alert
}

// The ordered rain/weather decision list. First match wins: severity
// decreases monotonically from heavy rain down to a clear-day status update,
// and earlier conditions take precedence even if a later one would also
// match.
var rainRules = []rainRule{
	{
		when: func(in rainInputs) bool { return in.totalRain > 5.0 || in.maxRain > 2.0 },
		build: func(in rainInputs) *models.Alert {
			return newAlert(in.ts, models.TypeRainAlert, models.CategoryWeather,
				"Heavy Rain Alert", models.SeverityHigh,
				fmt.Sprintf("Warning! Heavy rainfall expected today. Current: %s.", weatherLine(in.weather)),
				"Cover young plants; delay irrigation.", "🌧")
		},
	},
	{
		when: func(in rainInputs) bool { return in.totalRain > 1.0 || in.maxRain > 0.5 },
		build: func(in rainInputs) *models.Alert {
			return newAlert(in.ts, models.TypeRainAlert, models.CategoryWeather,
				"Rain Expected Today", models.SeverityMedium,
				fmt.Sprintf("Rain expected. Conditions: %s.", weatherLine(in.weather)),
				"Skip irrigation today; recheck tomorrow.", "☔")
		},
	},
	{
		when: func(in rainInputs) bool { return in.totalRain > 0.1 },
		build: func(in rainInputs) *models.Alert {
			msg := "Light rain chance."
			if in.soil != nil {
				msg = fmt.Sprintf("Light rain chance. Soil %d%%.", int(in.soil.Moisture))
			}
			return newAlert(in.ts, models.TypeRainAlert, models.CategoryWeather,
				"Uncertain Weather", models.SeverityLow, msg,
				"Check soil before irrigating.", "🌫")
		},
	},
	{
		// Irrigation-needed call is only made when soil data actually exists.
		when: func(in rainInputs) bool { return in.soil != nil && in.soil.Moisture < 40 },
		build: func(in rainInputs) *models.Alert {
			return newAlert(in.ts, models.TypeIrrigationAlert, models.CategoryIrrigation,
				"No Rain, Irrigation Needed", models.SeverityMedium,
				fmt.Sprintf("No rain expected. Soil %d%%.", int(in.soil.Moisture)),
				"Follow normal irrigation schedule.", "🌤")
		},
	},
	{
		when: func(in rainInputs) bool { return true },
		build: func(in rainInputs) *models.Alert {
			msg := "Clear weather."
			if in.soil != nil {
				msg = "Clear weather; soil moisture adequate."
			}
			return newAlert(in.ts, models.TypeWeatherUpdate, models.CategoryWeather,
				"Good Weather Day", models.SeverityLow, msg,
				"Continue regular activities.", "🌤")
		},
	},
}

// EvaluateRain runs the rain/weather decision list over a snapshot. It
// returns nil only when the forecast sequence is empty, the one state with
// nothing to reason about.
func EvaluateRain(snap conditions.Snapshot, ts time.Time) *models.Alert {
	if len(snap.Forecast) == 0 {
		return nil
	}

	in := rainInputs{
		totalRain: snap.Forecast.TotalRain(),
		maxRain:   snap.Forecast.MaxRain(),
		weather:   snap.Weather,
		soil:      snap.Soil,
		ts:        ts,
	}
	for _, rule := range rainRules {
		if rule.when(in) {
			return rule.build(in)
		}
	}
	return nil
}

func weatherLine(w models.WeatherSnapshot) string {
	return fmt.Sprintf("%.0f°C, %.0f%%, %.1fmm, %.0f km/h",
		w.Temperature, w.Humidity, w.Rainfall, w.WindSpeed)
}
