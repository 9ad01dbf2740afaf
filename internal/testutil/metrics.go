package testutil

import (
	"context"
	"sync/atomic"

	"github.com/preston-bernstein/live-scoring-service/internal/metrics"
)

// NewRecorderWithShutdown returns a recorder and a shutdown func that counts its calls.
func NewRecorderWithShutdown() (*metrics.Recorder, func(context.Context) error, *atomic.Int32) {
	var calls atomic.Int32
	return metrics.NewRecorder(), func(context.Context) error {
		calls.Add(1)
		return nil
	}, &calls
}
