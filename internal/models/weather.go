package models

// WeatherSnapshot is a normalized read of the current ambient weather.
// It is always fully populated: when the provider is unreachable the
// normalizer substitutes DefaultWeather instead of propagating the error.
type WeatherSnapshot struct {
	Temperature float64 `json:"temperature"` // °C
	Humidity    float64 `json:"humidity"`    // %
	Rainfall    float64 `json:"rainfall"`    // mm over the last hour
	WindSpeed   float64 `json:"wind_speed"`  // km/h
}

// DefaultWeather is the fallback used when the weather provider cannot be
// reached. Weather absence must never block alert evaluation.
func DefaultWeather() WeatherSnapshot {
	return WeatherSnapshot{Temperature: 22, Humidity: 70, Rainfall: 0, WindSpeed: 5}
}

// ForecastPoint is one 3-hour forecast bucket for the current day.
type ForecastPoint struct {
	Time        string  `json:"time"` // HH:MM
	RainMM      float64 `json:"rain_mm"`
	Description string  `json:"description"`
	Humidity    float64 `json:"humidity"`
}

// ForecastSnapshot is the ordered sequence of today's forecast points.
// An empty slice is a valid "no forecast" state, distinct from a fetch error.
type ForecastSnapshot []ForecastPoint

// TotalRain sums the 3-hour rain buckets over the day.
func (f ForecastSnapshot) TotalRain() float64 {
	var total float64
	for _, p := range f {
		total += p.RainMM
	}
	return total
}

// MaxRain returns the largest single 3-hour bucket, or 0 when empty.
func (f ForecastSnapshot) MaxRain() float64 {
	var max float64
	for _, p := range f {
		if p.RainMM > max {
			max = p.RainMM
		}
	}
	return max
}
