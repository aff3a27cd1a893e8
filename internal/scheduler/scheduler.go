package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/devaki001/HillTech-Growers/internal/alerts"
)

const jobTimeout = 60 * time.Second

// Scheduler fires the alert engine's entry points at fixed wall-clock times
// each day. It knows nothing about the rules themselves.
type Scheduler struct {
	cron   *cron.Cron
	engine *alerts.Engine
	logger *zap.Logger
}

func New(engine *alerts.Engine, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		engine: engine,
		logger: logger,
	}
}

// Schedule registers the daily weather check and the morning/evening tank
// checks. Times are "HH:MM" in the server's local time.
func (s *Scheduler) Schedule(weatherAt, tankMorning, tankEvening string) error {
	jobs := []struct {
		at   string
		name string
		run  func(context.Context)
	}{
		{weatherAt, "daily_weather_check", s.engine.DailyWeatherCheck},
		{tankMorning, "tank_check_morning", s.engine.TankCheck},
		{tankEvening, "tank_check_evening", s.engine.TankCheck},
	}

	for _, job := range jobs {
		spec, err := cronSpec(job.at)
		if err != nil {
			return fmt.Errorf("schedule %s: %w", job.name, err)
		}

		name, run := job.name, job.run
		if _, err := s.cron.AddFunc(spec, func() {
			start := time.Now()
			s.logger.Info("Running scheduled job", zap.String("job", name))

			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			run(ctx)

			s.logger.Info("Scheduled job completed",
				zap.String("job", name),
				zap.Duration("duration", time.Since(start)))
		}); err != nil {
			return fmt.Errorf("schedule %s: %w", job.name, err)
		}

		s.logger.Info("Job scheduled", zap.String("job", name), zap.String("at", job.at))
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the cron loop and waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// cronSpec converts "HH:MM" into a daily cron expression.
func cronSpec(at string) (string, error) {
	parts := strings.SplitN(at, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, want HH:MM", at)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", at)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", at)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
