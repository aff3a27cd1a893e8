package client

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/devaki001/HillTech-Growers/internal/models"
	"go.uber.org/zap"
)

// OpenWeatherClient fetches current conditions and the 3-hourly forecast for
// a single configured location from OpenWeatherMap.
type OpenWeatherClient struct {
	*BaseClient
	apiKey  string
	baseURL string

	// now is swappable in tests so "today" is deterministic.
	now func() time.Time
}

type openWeatherCurrentResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	Cod int `json:"cod"`
}

type openWeatherForecastResponse struct {
	Cod  string `json:"cod"`
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Rain struct {
			ThreeHour float64 `json:"3h"`
		} `json:"rain"`
	} `json:"list"`
}

func NewOpenWeatherClient(apiKey, baseURL string, config ClientConfig, logger *zap.Logger) *OpenWeatherClient {
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org/data/2.5"
	}
	return &OpenWeatherClient{
		BaseClient: NewBaseClient("openweather", config, logger),
		apiKey:     apiKey,
		baseURL:    baseURL,
		now:        time.Now,
	}
}

// GetCurrent returns the live weather snapshot for city.
func (c *OpenWeatherClient) GetCurrent(ctx context.Context, city string) (models.WeatherSnapshot, error) {
	u := fmt.Sprintf("%s/weather?q=%s&appid=%s&units=metric", c.baseURL, url.QueryEscape(city), c.apiKey)

	data, err := c.Get(ctx, u)
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("failed to fetch current weather: %w", err)
	}

	var response openWeatherCurrentResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if response.Cod != 200 {
		return models.WeatherSnapshot{}, fmt.Errorf("API error: %d", response.Cod)
	}

	return models.WeatherSnapshot{
		Temperature: math.Round(response.Main.Temp),
		Humidity:    math.Round(response.Main.Humidity),
		Rainfall:    math.Round(response.Rain.OneHour*10) / 10,
		WindSpeed:   math.Round(response.Wind.Speed),
	}, nil
}

// GetForecast returns today's 3-hourly forecast points for city. Buckets
// falling on later calendar days are dropped, so late in the evening the
// result can legitimately be empty.
func (c *OpenWeatherClient) GetForecast(ctx context.Context, city string) (models.ForecastSnapshot, error) {
	u := fmt.Sprintf("%s/forecast?q=%s&appid=%s&units=metric", c.baseURL, url.QueryEscape(city), c.apiKey)

	data, err := c.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	var response openWeatherForecastResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse forecast response: %w", err)
	}
	if response.Cod != "200" {
		return nil, fmt.Errorf("API error: %s", response.Cod)
	}

	today := c.now().Local()
	forecast := make(models.ForecastSnapshot, 0, len(response.List))
	for _, item := range response.List {
		dt := time.Unix(item.Dt, 0).Local()
		if dt.Year() != today.Year() || dt.YearDay() != today.YearDay() {
			continue
		}

		point := models.ForecastPoint{
			Time:     dt.Format("15:04"),
			RainMM:   item.Rain.ThreeHour,
			Humidity: item.Main.Humidity,
		}
		if len(item.Weather) > 0 {
			point.Description = item.Weather[0].Description
		}
		forecast = append(forecast, point)
	}

	return forecast, nil
}
