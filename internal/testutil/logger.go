package testutil

import (
	"bytes"
	"log/slog"

	"github.com/preston-bernstein/live-scoring-service/internal/logging"
)

// NewBufferLogger returns a text logger writing to a buffer, for assertions on log output.
func NewBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Config{Level: "debug", Format: "text", Output: &buf})
	return logger, &buf
}
