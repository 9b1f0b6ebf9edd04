package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Job periodically clears exact coordinates that have gone stale, so a
// traveller's last reported position does not outlive its usefulness.
type Job struct {
	geoCleaner exactGeoCleaner
	retention  time.Duration
	interval   time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

type exactGeoCleaner interface {
	ClearExactGeoOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

func New(cleaner exactGeoCleaner, retention, interval time.Duration, logger *zap.Logger) *Job {
	if retention <= 0 {
		retention = 48 * time.Hour
	}
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		geoCleaner: cleaner,
		retention:  retention,
		interval:   interval,
		now:        time.Now,
		logger:     logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.geoCleaner == nil {
		return nil
	}

	cutoff := j.now().Add(-j.retention)
	rows, err := j.geoCleaner.ClearExactGeoOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("cleanup exact geo coordinates: %w", err)
	}
	if rows > 0 {
		j.logger.Info("cleanup exact geo coordinates completed", zap.Int64("cleared", rows))
	}

	return nil
}

// RunPeriodic runs the sweep on the configured interval until ctx is done.
func (j *Job) RunPeriodic(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Warn("geo retention sweep failed", zap.Error(err))
			}
		}
	}
}
