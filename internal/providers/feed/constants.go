package feed

import "time"

const (
	providerName       = "feed"
	defaultPerPage     = 100
	defaultHTTPTimeout = 10 * time.Second
	defaultTimezone    = "UTC"
	defaultMaxPages    = 5
	errorBodyLimit     = 512
)
