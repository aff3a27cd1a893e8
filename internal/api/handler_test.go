package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/devaki001/HillTech-Growers/internal/alerts"
	"github.com/devaki001/HillTech-Growers/internal/conditions"
	"github.com/devaki001/HillTech-Growers/internal/crops"
	"github.com/devaki001/HillTech-Growers/internal/models"
	"github.com/devaki001/HillTech-Growers/internal/storage"
	"github.com/devaki001/HillTech-Growers/pkg/client"
)

type stubWeather struct {
	forecast models.ForecastSnapshot
}

func (s *stubWeather) GetCurrent(ctx context.Context, city string) (models.WeatherSnapshot, error) {
	return models.DefaultWeather(), nil
}

func (s *stubWeather) GetForecast(ctx context.Context, city string) (models.ForecastSnapshot, error) {
	return s.forecast, nil
}

type stubSensor struct {
	soil *models.SoilReading
	down bool
}

func (s *stubSensor) ReadSoil(ctx context.Context) (*models.SoilReading, error) {
	if s.down {
		return nil, errors.New("device unreachable")
	}
	return s.soil, nil
}

func (s *stubSensor) ReadUltrasonic(ctx context.Context) (float64, error) {
	if s.down {
		return 0, errors.New("device unreachable")
	}
	return 4.75, nil
}

const handlerTestCSV = `Crop,Soil Type,Soil Moisture,Min Temp,Max temp,Min Humidity,Max Humidity,Total Water ( mm ),Yield(Kg),Price
Maize,Loamy,Low/Medium,10,30,40,80,500,1800,22
Paddy,Clay,High/Flooded,18,35,60,95,1200,2200,20
`

func newTestApp(t *testing.T, weather conditions.WeatherProvider, sensor conditions.FieldSensor) *fiber.App {
	t.Helper()
	logger := zap.NewNop()

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "crops.csv")
	if err := os.WriteFile(catalogPath, []byte(handlerTestCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	catalog, err := crops.LoadCatalog(catalogPath, logger)
	if err != nil {
		t.Fatal(err)
	}

	store, err := storage.Open(filepath.Join(dir, "test.db"), logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	normalizer := conditions.NewNormalizer(weather, sensor, "Jorethang,IN", 9.5, 4.85, logger)
	engine := alerts.NewEngine(normalizer, alerts.NewSink(alerts.NewFeed(), store, logger), logger)

	// The raw-passthrough client is never exercised in these tests.
	sensorClient := client.NewFieldSensorClient("http://127.0.0.1:0/data", client.ClientConfig{
		Timeout: time.Second,
	}, logger)

	app := fiber.New()
	SetupRoutes(app, NewHandler(engine, normalizer, catalog, store, sensorClient, logger))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload := map[string]any{}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if len(data) > 0 {
		_ = json.Unmarshal(data, &payload)
	}
	return resp, payload
}

func TestGetHealth(t *testing.T) {
	app := newTestApp(t, &stubWeather{}, &stubSensor{})

	resp, payload := doJSON(t, app, http.MethodGet, "/api/v1/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if payload["status"] != "healthy" {
		t.Errorf("payload = %v", payload)
	}
}

func TestGetDashboardWithoutSoil(t *testing.T) {
	app := newTestApp(t, &stubWeather{}, &stubSensor{down: true})

	resp, payload := doJSON(t, app, http.MethodGet, "/api/v1/dashboard", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if payload["soil"] != nil {
		t.Errorf("soil = %v, want null", payload["soil"])
	}
	if payload["soil_category"] != "Unknown" {
		t.Errorf("soil_category = %v", payload["soil_category"])
	}
	if _, ok := payload["message"]; !ok {
		t.Error("missing no-live-data message")
	}
	if crops, ok := payload["crops"].([]any); !ok || len(crops) != 0 {
		t.Errorf("crops = %v, want empty list", payload["crops"])
	}
}

func TestGetDashboardRecommendsCrops(t *testing.T) {
	sensor := &stubSensor{soil: &models.SoilReading{Moisture: 35, Temperature: 22, Humidity: 70}}
	app := newTestApp(t, &stubWeather{}, sensor)

	resp, payload := doJSON(t, app, http.MethodGet, "/api/v1/dashboard", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if payload["soil_category"] != "Low" {
		t.Errorf("soil_category = %v, want Low", payload["soil_category"])
	}

	matched, ok := payload["crops"].([]any)
	if !ok || len(matched) != 1 {
		t.Fatalf("crops = %v, want exactly Maize", payload["crops"])
	}
}

func TestRunAlertsCreatesFeedEntries(t *testing.T) {
	weather := &stubWeather{forecast: models.ForecastSnapshot{{Time: "09:00", RainMM: 3.0}}}
	sensor := &stubSensor{soil: &models.SoilReading{Moisture: 50}}
	app := newTestApp(t, weather, sensor)

	resp, payload := doJSON(t, app, http.MethodPost, "/api/v1/alerts/run", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	created, ok := payload["created"].([]any)
	if !ok || len(created) != 3 {
		t.Fatalf("created = %v, want 3 alerts", payload["created"])
	}

	_, payload = doJSON(t, app, http.MethodGet, "/api/v1/alerts", "")
	if feed, ok := payload["alerts"].([]any); !ok || len(feed) != 3 {
		t.Errorf("feed = %v, want 3 alerts", payload["alerts"])
	}
}

func TestRunTankAlertSensorOffline(t *testing.T) {
	app := newTestApp(t, &stubWeather{}, &stubSensor{down: true})

	resp, payload := doJSON(t, app, http.MethodPost, "/api/v1/alerts/tank", "")
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
	if payload["status"] != "error" {
		t.Errorf("payload = %v", payload)
	}
}

func TestGetCropDetailWithCalculators(t *testing.T) {
	app := newTestApp(t, &stubWeather{}, &stubSensor{})

	resp, payload := doJSON(t, app, http.MethodGet,
		"/api/v1/crops/Maize?acres=2&acres_profit=2&other_expenses=5000", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	if got := payload["total_litres"].(float64); got != 2*4046.86*500 {
		t.Errorf("total_litres = %v", got)
	}
	if got := payload["revenue"].(float64); got != 2*1800*22 {
		t.Errorf("revenue = %v", got)
	}
	if got := payload["profit"].(float64); got != 2*1800*22-5000 {
		t.Errorf("profit = %v", got)
	}
}

func TestGetCropDetailNotFound(t *testing.T) {
	app := newTestApp(t, &stubWeather{}, &stubSensor{})

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/crops/Quinoa", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCalcWaterValidation(t *testing.T) {
	app := newTestApp(t, &stubWeather{}, &stubSensor{})

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/water/calc", `{"crop":"Maize"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing acres: status = %d, want 400", resp.StatusCode)
	}

	resp, payload := doJSON(t, app, http.MethodPost, "/api/v1/water/calc",
		`{"crop":"Maize","acres":1.5}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := payload["total_litres"].(float64); got != 1.5*4046.86*500 {
		t.Errorf("total_litres = %v", got)
	}
}

func TestUserCropLifecycle(t *testing.T) {
	app := newTestApp(t, &stubWeather{}, &stubSensor{})

	resp, payload := doJSON(t, app, http.MethodPost, "/api/v1/user_crops",
		`{"farmer_id":"1001","crop_name":"Maize","soil_type":"Loamy","water_requirement":500,"start_date":"2026-09-01"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("track: status = %d body=%v", resp.StatusCode, payload)
	}
	alert, ok := payload["alert"].(map[string]any)
	if !ok || alert["crop_name"] != "Maize" {
		t.Errorf("alert = %v", payload["alert"])
	}

	resp, payload = doJSON(t, app, http.MethodGet, "/api/v1/user_crops?farmer_id=1001", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: status = %d", resp.StatusCode)
	}
	list, ok := payload["crops"].([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("crops = %v, want 1", payload["crops"])
	}
	id := int(list[0].(map[string]any)["id"].(float64))

	resp, _ = doJSON(t, app, http.MethodDelete,
		"/api/v1/user_crops/"+strconv.Itoa(id)+"?farmer_id=9999", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("wrong owner delete: status = %d, want 404", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodDelete,
		"/api/v1/user_crops/"+strconv.Itoa(id)+"?farmer_id=1001", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: status = %d", resp.StatusCode)
	}
}

func TestTrackCropValidation(t *testing.T) {
	app := newTestApp(t, &stubWeather{}, &stubSensor{})

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/user_crops",
		`{"crop_name":"Maize"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
