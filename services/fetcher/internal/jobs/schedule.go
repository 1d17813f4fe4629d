package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Every runs job once immediately and then on every tick of interval until
// ctx is done. Failures are logged by the job and never stop the loop.
func Every(ctx context.Context, interval time.Duration, job Runner, log *zap.Logger) {
	if interval <= 0 {
		return
	}
	run := func() {
		if _, err := job.Run(ctx); err != nil {
			log.Warn("cron: refresh failed", zap.Error(err))
		}
	}
	run()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}
