package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultMarkerSchedule runs the marker at 00:05 UTC, shortly after the
// day boundary so yesterday is unambiguously over.
const DefaultMarkerSchedule = "5 0 * * *"

// ErrRunnerAlreadyStarted is returned when Start is called twice.
var ErrRunnerAlreadyStarted = errors.New("marker runner already started")

// MarkerRunner owns the cron-driven lifecycle of the missed marker. The
// job itself logs and swallows failures; a failed run is retried on the
// next tick at the latest.
type MarkerRunner struct {
	marker  *MissedMarker
	cron    *cron.Cron
	logger  *slog.Logger
	started bool
}

// NewMarkerRunner creates a runner on the given cron schedule, always in UTC.
func NewMarkerRunner(marker *MissedMarker, schedule string, logger *slog.Logger) (*MarkerRunner, error) {
	if schedule == "" {
		schedule = DefaultMarkerSchedule
	}

	r := &MarkerRunner{
		marker: marker,
		cron:   cron.New(cron.WithLocation(time.UTC)),
		logger: logger,
	}

	if _, err := r.cron.AddFunc(schedule, r.tick); err != nil {
		return nil, err
	}
	return r, nil
}

// Start begins scheduling marker runs.
func (r *MarkerRunner) Start() error {
	if r.started {
		return ErrRunnerAlreadyStarted
	}
	r.started = true
	r.cron.Start()
	r.logger.Info("marker runner started")
	return nil
}

// Stop stops scheduling and waits for an in-flight run to finish.
func (r *MarkerRunner) Stop() {
	if !r.started {
		return
	}
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.started = false
	r.logger.Info("marker runner stopped")
}

func (r *MarkerRunner) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Failures are logged by the marker; the run is idempotent and will
	// be retried on the next tick.
	_, _ = r.marker.Run(ctx, time.Now())
}
