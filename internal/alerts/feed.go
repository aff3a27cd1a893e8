package alerts

import (
	"context"
	"sync"

	"github.com/devaki001/HillTech-Growers/internal/models"
	"go.uber.org/zap"
)

// History is the durable side of the alert sink.
type History interface {
	SaveAlert(ctx context.Context, alert models.Alert, ownerID string) error
}

// Feed is the process-lifetime, append-only alert log. It is unbounded and
// shared by the scheduler and the API; appends are atomic, entries are never
// mutated or removed.
type Feed struct {
	mu     sync.Mutex
	alerts []models.Alert
}

func NewFeed() *Feed {
	return &Feed{}
}

func (f *Feed) Append(alert models.Alert) {
	f.mu.Lock()
	f.alerts = append(f.alerts, alert)
	f.mu.Unlock()
}

// All returns a copy of the feed in append order.
func (f *Feed) All() []models.Alert {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.Alert, len(f.alerts))
	copy(out, f.alerts)
	return out
}

func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.alerts)
}

// Sink records accepted alerts: append to the in-memory feed, then write
// through to durable history. There is no dedup or rate limiting; repeated
// evaluations with unchanged inputs produce repeated, distinct alerts.
type Sink struct {
	feed    *Feed
	history History
	logger  *zap.Logger
}

func NewSink(feed *Feed, history History, logger *zap.Logger) *Sink {
	return &Sink{feed: feed, history: history, logger: logger}
}

// Record appends alert to the feed and mirrors it into history. ownerID may
// be empty for anonymous alerts. A failed history write is logged but does
// not remove the alert from the feed.
func (s *Sink) Record(ctx context.Context, alert models.Alert, ownerID string) {
	s.feed.Append(alert)

	if err := s.history.SaveAlert(ctx, alert, ownerID); err != nil {
		s.logger.Error("Failed to persist alert",
			zap.String("alert_id", alert.ID),
			zap.String("type", alert.Type),
			zap.Error(err))
	}
}

// Feed exposes the underlying feed for read paths.
func (s *Sink) Feed() *Feed {
	return s.feed
}
