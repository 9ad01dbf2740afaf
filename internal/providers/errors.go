package providers

import (
	"errors"
	"fmt"
	"time"
)

// ErrProviderUnavailable is returned when a wrapper has nothing to call.
var ErrProviderUnavailable = errors.New("fixture provider unavailable")

// RateLimitError reports a feed refusing requests until RetryAfter has passed.
type RateLimitError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "rate limited"
	}
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.RetryAfter > 0 {
		msg = fmt.Sprintf("%s, retry after %s", msg, e.RetryAfter)
	}
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}
