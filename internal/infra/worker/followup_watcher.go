package worker

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var overdueFollowups = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "crm_followups_overdue",
		Help: "Pending follow-ups whose due date has passed",
	},
)

type OverdueCounter interface {
	CountOverdue(ctx context.Context, now time.Time) (int, error)
}

// FollowupWatcher periodically counts overdue pending follow-ups and exports the gauge.
type FollowupWatcher struct {
	repo         OverdueCounter
	tickInterval time.Duration
	gauge        prometheus.Gauge
	now          func() time.Time
}

func NewFollowupWatcher(repo OverdueCounter, interval time.Duration) *FollowupWatcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &FollowupWatcher{
		repo:         repo,
		tickInterval: interval,
		gauge:        overdueFollowups,
		now:          time.Now,
	}
}

func (w *FollowupWatcher) Start(ctx context.Context) {
	log.Printf("[worker] follow-up watcher started (every %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.check(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("[worker] follow-up watcher stopped")
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *FollowupWatcher) check(ctx context.Context) int {
	n, err := w.repo.CountOverdue(ctx, w.now())
	if err != nil {
		log.Printf("[worker] count overdue follow-ups: %v", err)
		return -1
	}
	w.gauge.Set(float64(n))
	if n > 0 {
		log.Printf("[worker] %d overdue follow-up(s) pending", n)
	}
	return n
}
