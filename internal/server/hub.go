package server

import (
	"context"
	"net/http"
)

// Hub defines the broadcast behavior the server needs.
type Hub interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	ServeWS(w http.ResponseWriter, r *http.Request)
	Emit(ctx context.Context, event, matchID string, payload any) error
}

// snapshotPoller refreshes scoreboard snapshots in the background.
type snapshotPoller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
}
