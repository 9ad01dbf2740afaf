package providers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/logging"
)

// rateLimitedProvider wraps a FixtureProvider and enforces a minimum interval between calls.
type rateLimitedProvider struct {
	next     FixtureProvider
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu   sync.Mutex
	last time.Time
}

// NewRateLimitedProvider returns a FixtureProvider that spaces calls at least interval apart.
// The first call goes straight through; later calls block until the interval elapses.
func NewRateLimitedProvider(next FixtureProvider, interval time.Duration, logger *slog.Logger) FixtureProvider {
	if interval <= 0 {
		interval = time.Second
	}
	return &rateLimitedProvider{
		next:     next,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

func (p *rateLimitedProvider) FetchFixtures(ctx context.Context, date string) ([]Fixture, error) {
	if p.next == nil {
		logging.Warn(p.logger, "provider unavailable", "provider", "rate-limited")
		return nil, ErrProviderUnavailable
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.last.IsZero() {
		if wait := p.interval - p.now().Sub(p.last); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				logging.Warn(p.logger, "rate-limited fetch canceled", "provider", "rate-limited")
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.last = p.now()

	logging.Debug(p.logger, "rate-limited provider fetch", "provider", "rate-limited", "date", date)
	return p.next.FetchFixtures(ctx, date)
}
