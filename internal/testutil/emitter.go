package testutil

import (
	"context"
	"sync"
)

// Notification is one captured Emit call.
type Notification struct {
	Event   string
	MatchID string
	Payload any
}

// RecordingEmitter captures notifications in memory. Err, when set, is returned from Emit.
type RecordingEmitter struct {
	mu     sync.Mutex
	events []Notification
	Err    error
}

func (e *RecordingEmitter) Emit(_ context.Context, event, matchID string, payload any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, Notification{Event: event, MatchID: matchID, Payload: payload})
	return e.Err
}

// Events returns a copy of the captured notifications.
func (e *RecordingEmitter) Events() []Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Notification(nil), e.events...)
}

// Names returns the captured event names in order.
func (e *RecordingEmitter) Names() []string {
	events := e.Events()
	out := make([]string, len(events))
	for i, n := range events {
		out[i] = n.Event
	}
	return out
}
