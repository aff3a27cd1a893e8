package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devaki001/HillTech-Growers/internal/conditions"
	"github.com/devaki001/HillTech-Growers/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine wires the condition normalizer to the rule trees and pushes any
// produced alert into the sink. It is invoked both by the daily scheduler
// and by ad-hoc API calls; all shared state lives in the injected feed.
type Engine struct {
	normalizer *conditions.Normalizer
	sink       *Sink
	logger     *zap.Logger
	now        func() time.Time
}

func NewEngine(normalizer *conditions.Normalizer, sink *Sink, logger *zap.Logger) *Engine {
	return &Engine{
		normalizer: normalizer,
		sink:       sink,
		logger:     logger,
		now:        time.Now,
	}
}

// CheckRain pulls a fresh snapshot and runs the rain/weather tree. Returns
// nil when there is no forecast to reason about.
func (e *Engine) CheckRain(ctx context.Context) *models.Alert {
	snap := e.normalizer.Take(ctx)
	return EvaluateRain(snap, e.now().UTC())
}

// CheckTank reads the live tank and runs the tank tree. When the sensor is
// unreachable no alert is produced and the error is returned; callers decide
// whether to substitute an offline notice.
func (e *Engine) CheckTank(ctx context.Context) (*models.Alert, error) {
	tank, err := e.normalizer.Tank(ctx)
	if err != nil {
		return nil, err
	}
	return EvaluateTank(tank, e.now().UTC()), nil
}

// CheckIrrigation pulls a fresh snapshot and runs the irrigation tree. The
// tree aggregates three upstream sources, so if the overall gather was cut
// short it reports "weather data unavailable" rather than guessing.
func (e *Engine) CheckIrrigation(ctx context.Context) *models.Alert {
	snap := e.normalizer.Take(ctx)
	if ctx.Err() != nil {
		return weatherUnavailableAlert(e.now().UTC())
	}
	return EvaluateIrrigation(snap, e.now().UTC())
}

// DailyWeatherCheck is the scheduler's morning entry point: run the rain
// tree, fall back to a plain daily update when it is skippable, then run the
// tank tree. Everything produced is recorded anonymously.
func (e *Engine) DailyWeatherCheck(ctx context.Context) {
	if alert := e.CheckRain(ctx); alert != nil {
		e.sink.Record(ctx, *alert, "")
	} else {
		w := e.normalizer.CurrentWeather(ctx)
		update := newAlert(e.now().UTC(), models.TypeWeatherUpdate, models.CategoryWeather,
			"Daily Weather Update", models.SeverityLow,
			fmt.Sprintf("Today's weather: %.0f°C, %.0f%% humidity. No significant rain expected.",
				w.Temperature, w.Humidity),
			"Normal irrigation schedule can be followed.", "")
		e.sink.Record(ctx, *update, "")
	}

	if alert, err := e.CheckTank(ctx); err == nil {
		e.sink.Record(ctx, *alert, "")
	}
}

// TankCheck is the scheduler's tank entry point. A failed sensor read is
// reported as a harmless offline notice, never as fabricated tank data.
func (e *Engine) TankCheck(ctx context.Context) {
	alert, err := e.CheckTank(ctx)
	if err != nil {
		if !errors.Is(err, conditions.ErrSensorUnavailable) {
			e.logger.Error("Tank check failed", zap.Error(err))
		}
		offline := newAlert(e.now().UTC(), models.TypeWaterStatus, models.CategoryWater,
			"Water Tank Status", models.SeverityLow,
			"Sensor offline. Unable to read tank just now.",
			"Check the device connection.", "💧")
		e.sink.Record(ctx, *offline, "")
		return
	}
	e.sink.Record(ctx, *alert, "")
}

// RunAll runs all three rule trees once and records whatever they produce.
// It returns the created alerts for the caller's response payload.
func (e *Engine) RunAll(ctx context.Context) []models.Alert {
	var created []models.Alert

	if alert := e.CheckRain(ctx); alert != nil {
		e.sink.Record(ctx, *alert, "")
		created = append(created, *alert)
	}
	if alert, err := e.CheckTank(ctx); err == nil {
		e.sink.Record(ctx, *alert, "")
		created = append(created, *alert)
	}
	if alert := e.CheckIrrigation(ctx); alert != nil {
		e.sink.Record(ctx, *alert, "")
		created = append(created, *alert)
	}

	e.logger.Info("Manual alert run completed", zap.Int("created", len(created)))
	return created
}

// Sink exposes the engine's sink for callers that record their own alerts,
// such as the crop-tracking endpoint.
func (e *Engine) Sink() *Sink {
	return e.sink
}

func newAlert(ts time.Time, typ, category, title, severity, message, recommendation, icon string) *models.Alert {
	return &models.Alert{
		ID:             uuid.NewString(),
		Type:           typ,
		Title:          title,
		Message:        message,
		Severity:       severity,
		Category:       category,
		Timestamp:      ts,
		Recommendation: recommendation,
		Icon:           icon,
	}
}
