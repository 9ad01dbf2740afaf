package providers

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/logging"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
	maxRetryAfter        = 30 * time.Second
)

type backoffFunc func(attempt int) time.Duration

// retryingProvider wraps a FixtureProvider with retry/backoff behavior.
type retryingProvider struct {
	inner        FixtureProvider
	logger       *slog.Logger
	providerName string
	maxAttempts  int
	backoffFn    backoffFunc

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewRetryingProvider wraps the given provider with retries. If maxAttempts/backoff are <= 0, defaults are used.
func NewRetryingProvider(inner FixtureProvider, logger *slog.Logger, name string, maxAttempts int, backoff time.Duration) FixtureProvider {
	return NewRetryingProviderWithRNG(inner, logger, name, nil, maxAttempts, backoff)
}

// NewRetryingProviderWithRNG is NewRetryingProvider with a caller-supplied jitter source.
func NewRetryingProviderWithRNG(inner FixtureProvider, logger *slog.Logger, name string, rng *rand.Rand, maxAttempts int, backoff time.Duration) FixtureProvider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	if name == "" {
		name = "provider"
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &retryingProvider{
		inner:        inner,
		logger:       logger,
		providerName: name,
		maxAttempts:  maxAttempts,
		rng:          rng,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
	}
}

func (r *retryingProvider) FetchFixtures(ctx context.Context, date string) ([]Fixture, error) {
	if r.inner == nil {
		return nil, ErrProviderUnavailable
	}
	logger := logging.FromContext(ctx, r.logger)

	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		fixtures, err := r.inner.FetchFixtures(ctx, date)
		if err == nil {
			return fixtures, nil
		}
		lastErr = err
		if attempt == r.maxAttempts {
			break
		}

		delay := r.computeDelay(err, attempt)
		logging.Warn(logger, "fixture fetch retry",
			"provider", r.providerName,
			logging.FieldAttempt, attempt,
			"delay_ms", delay.Milliseconds(),
			"error", err,
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	logging.Error(logger, "fixture fetch failed", lastErr, "provider", r.providerName, logging.FieldAttempt, r.maxAttempts)
	return nil, lastErr
}

// computeDelay honours a feed's Retry-After and otherwise jitters the backoff into [base/2, base].
func (r *retryingProvider) computeDelay(err error, attempt int) time.Duration {
	if rl, ok := AsRateLimitError(err); ok && rl.RetryAfter > 0 {
		return min(rl.RetryAfter, maxRetryAfter)
	}
	base := r.backoffFn(attempt)
	if base <= 1 {
		return base
	}
	half := base / 2
	r.rngMu.Lock()
	jitter := time.Duration(r.rng.Int63n(int64(half) + 1))
	r.rngMu.Unlock()
	return half + jitter
}
