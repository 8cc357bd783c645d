package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper removes scratch artifacts older than maxAge.
type Sweeper interface {
	Sweep(maxAge time.Duration, now time.Time) (int, error)
}

// SweepArtifacts runs one pass over the scratch directory.
func SweepArtifacts(s Sweeper, maxAge time.Duration) error {
	removed, err := s.Sweep(maxAge, time.Now())
	if err != nil {
		log.Error().Err(err).Int("removed", removed).Msg("Worker: artifact sweep failed")
		return err
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Dur("max_age", maxAge).Msg("Worker: removed stale artifacts")
	} else {
		log.Debug().Msg("Worker: no stale artifacts")
	}
	return nil
}

// RunArtifactSweeper sweeps immediately and then every interval until ctx is
// cancelled.
func RunArtifactSweeper(ctx context.Context, s Sweeper, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	SweepArtifacts(s, maxAge)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			SweepArtifacts(s, maxAge)
		}
	}
}
