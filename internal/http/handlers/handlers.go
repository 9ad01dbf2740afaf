package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/logging"
	"github.com/preston-bernstein/live-scoring-service/internal/poller"
	"github.com/preston-bernstein/live-scoring-service/internal/store"
)

const readyTimeout = 2 * time.Second

// MatchService is the application surface the handlers drive.
type MatchService interface {
	Create(ctx context.Context, p matches.NewMatchParams) (matches.Match, error)
	Get(ctx context.Context, id string) (matches.Match, error)
	List(ctx context.Context, f store.ListFilter) ([]matches.Match, error)
	Apply(ctx context.Context, ev matches.Event) (matches.Match, error)
}

// Pinger reports whether the backing store can serve traffic.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ListResponse wraps match listings.
type ListResponse struct {
	Matches []matches.Match `json:"matches"`
	Count   int             `json:"count"`
}

// Handler wires HTTP routes to the match service.
type Handler struct {
	svc         MatchService
	ready       Pinger
	boards      ScoreboardReader
	boardStatus func() poller.Status
	token       string
	logger      *slog.Logger
	mux         *http.ServeMux
}

// NewHandler constructs a Handler. An empty token leaves mutating routes open.
func NewHandler(svc MatchService, ready Pinger, token string, logger *slog.Logger) *Handler {
	h := &Handler{
		svc:    svc,
		ready:  ready,
		token:  token,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	h.mux.HandleFunc("/health", h.Health)
	h.mux.HandleFunc("/ready", h.Ready)
	h.mux.HandleFunc("GET /matches", h.ListMatches)
	h.mux.HandleFunc("POST /matches", h.requireAdmin(h.CreateMatch))
	h.mux.HandleFunc("GET /matches/{id}", h.GetMatch)
	h.mux.HandleFunc("POST /matches/{id}/events", h.requireAdmin(h.ApplyEvent))
	h.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not found", h.logger)
	})
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic by pinging the store.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	if h.ready == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()
	if err := h.ready.Ping(ctx); err != nil {
		logging.Warn(loggerFromContext(r, h.logger), "readiness check failed", "error", err)
		writeError(w, r, http.StatusServiceUnavailable, "store unavailable", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

// ListMatches returns matches filtered by optional sport, status and limit.
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ListFilter{
		Sport:  matches.Sport(strings.TrimSpace(q.Get("sport"))),
		Status: matches.Status(strings.ToUpper(strings.TrimSpace(q.Get("status")))),
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeErrorKind(w, r, http.StatusUnprocessableEntity, matches.KindInvalidRequest, "limit must be a non-negative integer", h.logger)
			return
		}
		filter.Limit = limit
	}

	list, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	if list == nil {
		list = []matches.Match{}
	}
	writeJSON(w, http.StatusOK, ListResponse{Matches: list, Count: len(list)}, h.logger)
}

// CreateMatch registers a new SCHEDULED match.
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var params matches.NewMatchParams
	if err := decodeJSON(w, r, &params); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	m, err := h.svc.Create(r.Context(), params)
	if err != nil {
		writeDomainError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	w.Header().Set("Location", "/matches/"+m.ID)
	writeJSON(w, http.StatusCreated, m, h.logger)
}

// GetMatch returns a single match.
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}
	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, http.StatusOK, m, h.logger)
}

// ApplyEvent runs one scoring event against the match named in the path.
func (h *Handler) ApplyEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}
	var ev matches.Event
	if err := decodeJSON(w, r, &ev); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	if ev.MatchID != "" && ev.MatchID != id {
		writeErrorKind(w, r, http.StatusUnprocessableEntity, matches.KindInvalidRequest, "matchId does not match the path", h.logger)
		return
	}
	ev.MatchID = id

	m, err := h.svc.Apply(r.Context(), ev)
	if err != nil {
		writeDomainError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, http.StatusOK, m, h.logger)
}

func pathID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (string, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" || strings.ContainsAny(id, " \t") {
		writeErrorKind(w, r, http.StatusBadRequest, matches.KindInvalidRequest, "invalid match id", logger)
		return "", false
	}
	return id, true
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string, logger *slog.Logger) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", logger)
	return false
}
