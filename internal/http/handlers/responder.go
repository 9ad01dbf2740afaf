package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/http/middleware"
	"github.com/preston-bernstein/live-scoring-service/internal/http/requestutil"
	"github.com/preston-bernstein/live-scoring-service/internal/logging"
)

const maxBodyBytes = 1 << 20

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

var kindStatus = map[matches.Kind]int{
	matches.KindInvalidRequest: http.StatusUnprocessableEntity,
	matches.KindUnknownAction:  http.StatusUnprocessableEntity,
	matches.KindNoActiveSet:    http.StatusUnprocessableEntity,
	matches.KindNothingToUndo:  http.StatusUnprocessableEntity,
	matches.KindAllOut:         http.StatusUnprocessableEntity,
	matches.KindMatchNotFound:  http.StatusNotFound,
	matches.KindMatchCompleted: http.StatusConflict,
	matches.KindConflict:       http.StatusConflict,
	matches.KindPersistence:    http.StatusServiceUnavailable,
}

// statusForKind maps a domain error kind to an HTTP status.
func statusForKind(kind matches.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error(logger, "failed to encode response", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	writeErrorKind(w, r, status, "", message, logger)
}

func writeErrorKind(w http.ResponseWriter, r *http.Request, status int, kind matches.Kind, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get(requestutil.HeaderRequestID)
	}
	writeJSON(w, status, errorBody{Error: message, Kind: string(kind), RequestID: reqID}, logger)
}

// writeDomainError renders a service error with its kind and mapped status.
// Persistence failures hide the underlying cause from the client.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	kind := matches.KindOf(err)
	status := statusForKind(kind)
	message := err.Error()
	if kind == matches.KindPersistence {
		logging.Error(logger, "storage unavailable", err)
		message = "storage unavailable"
	}
	writeErrorKind(w, r, status, kind, message, logger)
}

// decodeJSON reads a bounded JSON body into dest. Malformed input is reported
// as a plain 400 so it stays distinct from domain validation failures.
func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return fmt.Errorf("malformed JSON: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
