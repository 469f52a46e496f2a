package refreshwkr

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"exusiai.dev/drawbank/internal/pkg/observability"
	"exusiai.dev/drawbank/internal/service"
)

type Worker struct {
	// count counts the reloads the worker has completed so far, failed ones included
	count atomic.Int64

	// interval describes the interval in-between reloads
	interval time.Duration

	Gallery *service.Gallery
}

func New(interval time.Duration, gallery *service.Gallery) *Worker {
	return &Worker{
		interval: interval,
		Gallery:  gallery,
	}
}

// Run reloads the gallery every interval until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	if w.interval <= 0 {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.reload(ctx)
		}
	}
}

func (w *Worker) reload(ctx context.Context) {
	count := w.count.Load()
	log.Info().Int64("count", count).Msg("worker reload started")

	start := time.Now()
	err := w.Gallery.Reload(ctx)
	observability.StageDuration.WithLabelValues("refresh").Set(time.Since(start).Seconds())
	w.count.Add(1)

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		observability.Refreshes.WithLabelValues("failed").Inc()
		log.Warn().Err(err).Int64("count", count).Msg("worker reload failed, keeping the loaded tally")
		return
	}

	observability.Refreshes.WithLabelValues("ok").Inc()
	log.Info().
		Int64("count", count).
		Dur("took", time.Since(start)).
		Msg("worker reload finished")
}

func (w *Worker) Count() int {
	return int(w.count.Load())
}
