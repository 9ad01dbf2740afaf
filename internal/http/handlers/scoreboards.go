package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/logging"
	"github.com/preston-bernstein/live-scoring-service/internal/poller"
	"github.com/preston-bernstein/live-scoring-service/internal/snapshots"
	"github.com/preston-bernstein/live-scoring-service/internal/timeutil"
)

// ScoreboardReader serves stored per-day scoreboard snapshots.
type ScoreboardReader interface {
	LoadScoreboard(date string) (snapshots.Scoreboard, error)
	Dates() ([]string, error)
}

// RefreshStatus summarises the background scoreboard refresher.
type RefreshStatus struct {
	Ready               bool       `json:"ready"`
	ConsecutiveFailures int        `json:"consecutiveFailures"`
	LastError           string     `json:"lastError,omitempty"`
	LastSuccess         *time.Time `json:"lastSuccess,omitempty"`
}

// DatesResponse lists the days with a stored scoreboard.
type DatesResponse struct {
	Dates   []string       `json:"dates"`
	Refresh *RefreshStatus `json:"refresh,omitempty"`
}

// WithScoreboards mounts the read-only scoreboard routes. status may be nil.
func (h *Handler) WithScoreboards(boards ScoreboardReader, status func() poller.Status) *Handler {
	if boards == nil {
		return h
	}
	h.boards = boards
	h.boardStatus = status
	h.mux.HandleFunc("GET /scoreboards", h.ListScoreboards)
	h.mux.HandleFunc("GET /scoreboards/{date}", h.GetScoreboard)
	return h
}

// ListScoreboards returns the stored days, oldest first.
func (h *Handler) ListScoreboards(w http.ResponseWriter, r *http.Request) {
	dates, err := h.boards.Dates()
	if err != nil {
		logging.Error(loggerFromContext(r, h.logger), "scoreboard manifest unreadable", err)
		writeError(w, r, http.StatusServiceUnavailable, "snapshots unavailable", h.logger)
		return
	}
	sorted := append([]string(nil), dates...)
	sort.Strings(sorted)
	if sorted == nil {
		sorted = []string{}
	}
	resp := DatesResponse{Dates: sorted}
	if h.boardStatus != nil {
		resp.Refresh = refreshStatus(h.boardStatus())
	}
	writeJSON(w, http.StatusOK, resp, h.logger)
}

func refreshStatus(st poller.Status) *RefreshStatus {
	out := &RefreshStatus{
		Ready:               st.IsReady(),
		ConsecutiveFailures: st.ConsecutiveFailures,
		LastError:           st.LastError,
	}
	if !st.LastSuccess.IsZero() {
		at := st.LastSuccess.UTC()
		out.LastSuccess = &at
	}
	return out
}

// GetScoreboard returns the snapshot for one YYYY-MM-DD day.
func (h *Handler) GetScoreboard(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.PathValue("date"))
	if _, err := timeutil.ParseDate(date); err != nil {
		writeErrorKind(w, r, http.StatusUnprocessableEntity, matches.KindInvalidRequest, err.Error(), h.logger)
		return
	}
	board, err := h.boards.LoadScoreboard(date)
	if errors.Is(err, snapshots.ErrNoSnapshot) {
		writeError(w, r, http.StatusNotFound, "no scoreboard for "+date, h.logger)
		return
	}
	if err != nil {
		logging.Error(loggerFromContext(r, h.logger), "scoreboard unreadable", err, "date", date)
		writeError(w, r, http.StatusServiceUnavailable, "snapshots unavailable", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, board, h.logger)
}
