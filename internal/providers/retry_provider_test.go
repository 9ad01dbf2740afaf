package providers

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/testutil"
)

type flakeyProvider struct {
	failures int
	calls    int
	err      error
}

func (f *flakeyProvider) FetchFixtures(ctx context.Context, date string) ([]Fixture, error) {
	_ = ctx
	_ = date
	f.calls++
	if f.calls <= f.failures {
		if f.err != nil {
			return nil, f.err
		}
		return nil, errors.New("boom")
	}
	return []Fixture{{Ref: "ok"}}, nil
}

func TestRetryingProviderRetriesAndSucceeds(t *testing.T) {
	fp := &flakeyProvider{failures: 2}
	logger, buf := testutil.NewBufferLogger()
	rp := NewRetryingProvider(fp, logger, "flakey", 3, time.Millisecond)

	fixtures, err := rp.FetchFixtures(context.Background(), "")
	if err != nil {
		t.Fatalf("expected success, got error %v", err)
	}
	if len(fixtures) != 1 || fixtures[0].Ref != "ok" {
		t.Fatalf("unexpected fixtures %+v", fixtures)
	}
	if fp.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", fp.calls)
	}
	if !strings.Contains(buf.String(), "fixture fetch retry") {
		t.Fatalf("expected retry to be logged, got %q", buf.String())
	}
}

func TestRetryingProviderStopsAfterMaxAttempts(t *testing.T) {
	fp := &flakeyProvider{failures: 5}
	rp := NewRetryingProvider(fp, nil, "flakey", 2, time.Millisecond)

	if _, err := rp.FetchFixtures(context.Background(), ""); err == nil {
		t.Fatal("expected error after retries")
	}
	if fp.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", fp.calls)
	}
}

func TestRetryingProviderRespectsContextCancel(t *testing.T) {
	fp := &flakeyProvider{failures: 5}
	rp := NewRetryingProvider(fp, nil, "flakey", 3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := rp.FetchFixtures(ctx, ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if fp.calls != 1 {
		t.Fatalf("expected a single attempt before cancel, got %d", fp.calls)
	}
}

func TestRetryingProviderWaitsForRetryAfter(t *testing.T) {
	fp := &flakeyProvider{failures: 1, err: &RateLimitError{StatusCode: 429, RetryAfter: 5 * time.Millisecond}}
	rp := NewRetryingProvider(fp, nil, "feed", 2, time.Hour)

	start := time.Now()
	if _, err := rp.FetchFixtures(context.Background(), "2024-03-01"); err != nil {
		t.Fatalf("expected success after rate limit, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond || elapsed > time.Minute {
		t.Fatalf("expected retry-after wait instead of backoff, elapsed %s", elapsed)
	}
}

func TestRetryingProviderDelaySelection(t *testing.T) {
	rp := NewRetryingProviderWithRNG(&flakeyProvider{}, nil, "feed", rand.New(rand.NewSource(1)), 2, time.Millisecond).(*retryingProvider)
	rp.backoffFn = func(attempt int) time.Duration {
		_ = attempt
		return 50 * time.Millisecond
	}

	if got := rp.computeDelay(&RateLimitError{RetryAfter: 3 * time.Second}, 1); got != 3*time.Second {
		t.Fatalf("expected retry-after delay, got %s", got)
	}
	if got := rp.computeDelay(&RateLimitError{RetryAfter: time.Hour}, 1); got != maxRetryAfter {
		t.Fatalf("expected retry-after capped at %s, got %s", maxRetryAfter, got)
	}
	for i := 0; i < 20; i++ {
		got := rp.computeDelay(errors.New("boom"), 1)
		if got < 25*time.Millisecond || got > 50*time.Millisecond {
			t.Fatalf("expected jittered delay between 25ms and 50ms, got %s", got)
		}
	}
}

func TestNewRetryingProviderDefaults(t *testing.T) {
	rp := NewRetryingProviderWithRNG(nil, nil, "", nil, 0, 0).(*retryingProvider)
	if rp.providerName != "provider" {
		t.Fatalf("expected fallback provider name, got %s", rp.providerName)
	}
	if rp.maxAttempts != defaultRetryAttempts {
		t.Fatalf("expected default attempts, got %d", rp.maxAttempts)
	}
	if rp.backoffFn(1) != defaultBackoff {
		t.Fatalf("expected default backoff")
	}
	if _, err := rp.FetchFixtures(context.Background(), ""); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
