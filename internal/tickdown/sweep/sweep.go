// Package sweep runs periodic background maintenance on a fixed cadence.
package sweep

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper performs one maintenance pass.
type Sweeper interface {
	SweepExpired(ctx context.Context) error
}

// Start runs one pass immediately, then one per interval, until ctx is
// cancelled. Failures are logged and never stop the loop.
func Start(ctx context.Context, s Sweeper, interval time.Duration) {
	run := func() {
		if err := s.SweepExpired(ctx); err != nil {
			log.Warn().Err(err).Msg("task sweep failed")
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
