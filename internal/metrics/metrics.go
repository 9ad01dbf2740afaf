package metrics

import (
	"sync"
	"time"
)

type sportStats struct {
	events      int
	failures    int
	conflicts   int
	failKinds   map[string]int
	lastLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about scoring activity and
// forwards them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu        sync.Mutex
	stats     map[string]*sportStats
	broadcast broadcastStats
	otel      *otelInstruments
}

type broadcastStats struct {
	sent    int
	dropped int
	clients int
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*sportStats),
		otel:  otel,
	}
}

// RecordScoringEvent counts one applied (or rejected) event. kind is empty on success.
func (r *Recorder) RecordScoringEvent(sport, action, kind string, duration time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(sport)
	stats.events++
	stats.lastLatency = duration
	if kind != "" {
		stats.failures++
		stats.failKinds[kind]++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordScoringEvent(sport, action, kind, duration)
	}
}

// RecordConflict tracks an optimistic-lock collision that forced a retry.
func (r *Recorder) RecordConflict(sport string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.ensureStats(sport).conflicts++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordConflict(sport)
	}
}

// RecordBroadcast tracks a notification fan-out: delivered counts clients
// that accepted the message, dropped counts slow clients that were skipped.
func (r *Recorder) RecordBroadcast(event string, delivered, dropped int) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.broadcast.sent += delivered
	r.broadcast.dropped += dropped
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordBroadcast(event, delivered, dropped)
	}
}

// RecordClients adjusts the connected subscriber gauge by delta.
func (r *Recorder) RecordClients(delta int) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.broadcast.clients += delta
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordClients(delta)
	}
}

// Snapshot returns a copy of the current stats for a sport.
type Snapshot struct {
	Events      int
	Failures    int
	Conflicts   int
	FailKinds   map[string]int
	LastLatency time.Duration
}

func (r *Recorder) Snapshot(sport string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[sport]
	if !ok || stats == nil {
		return Snapshot{}
	}
	kinds := make(map[string]int, len(stats.failKinds))
	for k, v := range stats.failKinds {
		kinds[k] = v
	}
	return Snapshot{
		Events:      stats.events,
		Failures:    stats.failures,
		Conflicts:   stats.conflicts,
		FailKinds:   kinds,
		LastLatency: stats.lastLatency,
	}
}

// BroadcastSnapshot reports delivered, dropped and currently connected counts.
func (r *Recorder) BroadcastSnapshot() (sent, dropped, clients int) {
	if r == nil {
		return 0, 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.broadcast.sent, r.broadcast.dropped, r.broadcast.clients
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordSnapshotCycle tracks one scoreboard snapshot pass.
func (r *Recorder) RecordSnapshotCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordSnapshotCycle(duration, err)
}

// ensureStats must be called with mu held.
func (r *Recorder) ensureStats(sport string) *sportStats {
	stats, ok := r.stats[sport]
	if !ok {
		stats = &sportStats{failKinds: make(map[string]int)}
		r.stats[sport] = stats
	}
	return stats
}
