package server

import "time"

// Upgraded websocket connections set their own deadlines in the hub; these
// bound plain HTTP requests only.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 90 * time.Second
)

// shutdownTimeout bounds graceful shutdown. Tests shorten it.
var shutdownTimeout = 15 * time.Second
