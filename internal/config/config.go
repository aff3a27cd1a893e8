package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
	}

	Weather struct {
		APIKey  string
		BaseURL string
		City    string
		Timeout time.Duration
	}

	Sensor struct {
		Endpoint string
		Timeout  time.Duration
	}

	Tank struct {
		HeightCm float64 // internal cylinder height
		RadiusCm float64
	}

	Schedule struct {
		DailyWeatherAlertTime string // HH:MM, 24h
		TankAlertTimeMorning  string
		TankAlertTimeEvening  string
	}

	Storage struct {
		SQLitePath  string
		CatalogPath string
	}

	Retry struct {
		MaxRetries     int
		Delay          time.Duration
		Multiplier     float64
		BreakerTimeout time.Duration
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("SERVER_READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("SERVER_WRITE_TIMEOUT", "10s"))

	cfg.Weather.APIKey = getEnv("OWM_API_KEY", "")
	cfg.Weather.BaseURL = getEnv("OWM_BASE_URL", "https://api.openweathermap.org/data/2.5")
	cfg.Weather.City = getEnv("OWM_CITY", "Jorethang,IN")
	cfg.Weather.Timeout = parseDuration(getEnv("OWM_TIMEOUT", "8s"))

	cfg.Sensor.Endpoint = getEnv("SENSOR_ENDPOINT", "http://10.64.119.95/data")
	cfg.Sensor.Timeout = parseDuration(getEnv("SENSOR_TIMEOUT", "2500ms"))

	cfg.Tank.HeightCm = parseFloat(getEnv("TANK_HEIGHT_CM", "9.5"))
	cfg.Tank.RadiusCm = parseFloat(getEnv("TANK_RADIUS_CM", "4.85"))

	cfg.Schedule.DailyWeatherAlertTime = getEnv("DAILY_WEATHER_ALERT_TIME", "07:00")
	cfg.Schedule.TankAlertTimeMorning = getEnv("TANK_ALERT_TIME_MORNING", "06:00")
	cfg.Schedule.TankAlertTimeEvening = getEnv("TANK_ALERT_TIME_EVENING", "18:00")

	cfg.Storage.SQLitePath = getEnv("SQLITE_PATH", "hilltech.db")
	cfg.Storage.CatalogPath = getEnv("CROP_CATALOG_PATH", "cropsnew.csv")

	cfg.Retry.MaxRetries = parseInt(getEnv("MAX_RETRIES", "2"))
	cfg.Retry.Delay = parseDuration(getEnv("RETRY_DELAY", "500ms"))
	cfg.Retry.Multiplier = parseFloat(getEnv("RETRY_MULTIPLIER", "2"))
	cfg.Retry.BreakerTimeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}

func parseFloat(value string) float64 {
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		zap.L().Warn("Failed to parse float", zap.String("value", value), zap.Error(err))
		return 0
	}
	return floatValue
}
