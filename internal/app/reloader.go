package app

import (
	"context"
	"time"

	"github.com/pscheid92/rogrow/internal/platform/correlation"
)

// RunReloader reloads the dataset every interval so edited CSV files are
// picked up without a restart. It blocks until ctx is cancelled.
func (s *Service) RunReloader(ctx context.Context, interval time.Duration) {
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			_, _ = s.Reload(correlation.WithID(ctx, correlation.NewID()))
		}
	}
}
