package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/preston-bernstein/live-scoring-service/internal/http/middleware"
	"github.com/preston-bernstein/live-scoring-service/internal/metrics"
)

// NewRouter mounts the API handler and the websocket endpoint behind the logging middleware.
// A nil ws handler leaves /ws to the API handler's 404.
func NewRouter(api nethttp.Handler, ws nethttp.HandlerFunc, logger *slog.Logger, recorder *metrics.Recorder) nethttp.Handler {
	mux := nethttp.NewServeMux()
	if ws != nil {
		mux.HandleFunc("GET /ws", ws)
	}
	mux.Handle("/", api)
	return middleware.LoggingMiddleware(logger, recorder, mux)
}
