package handlers

import (
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/live-scoring-service/internal/http/requestutil"
	"github.com/preston-bernstein/live-scoring-service/internal/logging"
)

// requireAdmin guards mutating routes with the bearer token when one is configured.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.token == "" {
			next(w, r)
			return
		}
		token, ok := requestutil.BearerToken(r)
		if !ok || !requestutil.TokenMatches(token, h.token) {
			logging.Warn(loggerFromContext(r, h.logger), "admin unauthorized",
				slog.String(logging.FieldPath, r.URL.Path),
				slog.String("client_ip", requestutil.ClientIP(r)),
			)
			w.Header().Set("WWW-Authenticate", `Bearer realm="scoring"`)
			writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
			return
		}
		next(w, r)
	}
}
