package testutil

import (
	"strconv"
	"sync/atomic"
	"time"

	appmatches "github.com/preston-bernstein/live-scoring-service/internal/app/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/store"
)

// ServiceFixture bundles a match service with its in-memory collaborators.
type ServiceFixture struct {
	Service *appmatches.Service
	Store   *store.MemoryStore
	Emitter *RecordingEmitter
}

// NewMatchService builds a service over a fresh memory store with a fixed clock.
func NewMatchService() ServiceFixture {
	st := store.NewMemoryStore()
	em := &RecordingEmitter{}
	var n atomic.Int64
	svc := appmatches.NewService(st, appmatches.Options{
		Emitter:      em,
		MaxRetries:   3,
		RetryBackoff: time.Millisecond,
		Clock:        NowAt(FixedTime),
		NewID: func() string {
			return "match-" + strconv.FormatInt(n.Add(1), 10)
		},
	})
	return ServiceFixture{Service: svc, Store: st, Emitter: em}
}
