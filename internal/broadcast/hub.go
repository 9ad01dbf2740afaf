package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/preston-bernstein/live-scoring-service/internal/logging"
	"github.com/preston-bernstein/live-scoring-service/internal/metrics"
)

const (
	defaultPingInterval = 30 * time.Second
	defaultWriteTimeout = 5 * time.Second
	defaultBuffer       = 32
	maxInboundBytes     = 512
)

// ErrClosed is returned by Emit after the hub has been stopped.
var ErrClosed = errors.New("broadcast hub closed")

// Message is the frame written to every subscriber.
type Message struct {
	Event   string    `json:"event"`
	MatchID string    `json:"matchId,omitempty"`
	Data    any       `json:"data,omitempty"`
	SentAt  time.Time `json:"sentAt"`
}

// Options tunes a Hub. Zero values fall back to defaults.
type Options struct {
	PingInterval time.Duration
	WriteTimeout time.Duration
	Buffer       int
	CheckOrigin  func(r *http.Request) bool
}

// Hub fans scoring notifications out to websocket subscribers.
type Hub struct {
	upgrader     websocket.Upgrader
	logger       *slog.Logger
	metrics      *metrics.Recorder
	pingInterval time.Duration
	writeTimeout time.Duration
	buffer       int
	now          func() time.Time

	mu      sync.RWMutex
	clients map[*subscriber]struct{}
	closed  bool

	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool
}

type subscriber struct {
	conn    *websocket.Conn
	send    chan []byte
	matchID string
	remote  string
}

// NewHub constructs a Hub with sane defaults.
func NewHub(opts Options, logger *slog.Logger, recorder *metrics.Recorder) *Hub {
	if opts.PingInterval <= 0 {
		opts.PingInterval = defaultPingInterval
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	if opts.Buffer <= 0 {
		opts.Buffer = defaultBuffer
	}
	checkOrigin := opts.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger:       logger,
		metrics:      recorder,
		pingInterval: opts.PingInterval,
		writeTimeout: opts.WriteTimeout,
		buffer:       opts.Buffer,
		now:          time.Now,
		clients:      make(map[*subscriber]struct{}),
		done:         make(chan struct{}),
	}
}

// Emit queues a notification for every matching subscriber. Subscribers whose
// buffer is full miss the message; delivery never blocks the caller.
func (h *Hub) Emit(ctx context.Context, event, matchID string, payload any) error {
	raw, err := json.Marshal(Message{Event: event, MatchID: matchID, Data: payload, SentAt: h.now().UTC()})
	if err != nil {
		return err
	}

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return ErrClosed
	}
	delivered, dropped := 0, 0
	for c := range h.clients {
		if c.matchID != "" && matchID != "" && c.matchID != matchID {
			continue
		}
		select {
		case c.send <- raw:
			delivered++
		default:
			dropped++
		}
	}
	h.mu.RUnlock()

	h.metrics.RecordBroadcast(event, delivered, dropped)
	if dropped > 0 {
		logging.Warn(logging.FromContext(ctx, h.logger), "slow subscribers skipped",
			"event", event,
			logging.FieldMatchID, matchID,
			"dropped", dropped,
		)
	}
	return nil
}

// ServeWS upgrades the request and registers a subscriber. An optional
// matchId query parameter limits delivery to one match.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the handshake error.
		logging.Warn(h.logger, "websocket upgrade failed", "error", err)
		return
	}

	c := &subscriber{
		conn:    conn,
		send:    make(chan []byte, h.buffer),
		matchID: strings.TrimSpace(r.URL.Query().Get("matchId")),
		remote:  r.RemoteAddr,
	}
	if !h.register(c) {
		_ = conn.Close()
		return
	}

	go h.writeLoop(c)
	go h.readLoop(c)
}

// Start runs the keepalive loop until the context is cancelled or Stop is called.
func (h *Hub) Start(ctx context.Context) {
	h.startMu.Lock()
	if h.started {
		h.startMu.Unlock()
		return
	}
	h.started = true
	h.startMu.Unlock()

	ticker := time.NewTicker(h.pingInterval)
	go func() {
		defer ticker.Stop()
		logging.Info(h.logger, "broadcast hub started", slog.Int64(logging.FieldDurationMS, h.pingInterval.Milliseconds()))
		for {
			select {
			case <-ctx.Done():
				logging.Info(h.logger, "broadcast hub stopped")
				return
			case <-h.done:
				logging.Info(h.logger, "broadcast hub stopped")
				return
			case <-ticker.C:
				h.pingAll()
			}
		}
	}()
}

// Stop disconnects every subscriber and rejects further emits.
func (h *Hub) Stop(ctx context.Context) error {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		h.closed = true
		clients := make([]*subscriber, 0, len(h.clients))
		for c := range h.clients {
			clients = append(clients, c)
			delete(h.clients, c)
			close(c.send)
		}
		h.mu.Unlock()

		deadline := h.now().Add(h.writeTimeout)
		if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
			deadline = d
		}
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		for _, c := range clients {
			_ = c.conn.WriteControl(websocket.CloseMessage, msg, deadline)
			h.metrics.RecordClients(-1)
		}
	})
	return nil
}

// Clients reports the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *subscriber) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.metrics.RecordClients(1)
	logging.Info(h.logger, "subscriber connected",
		logging.FieldClient, c.remote,
		logging.FieldMatchID, c.matchID,
	)
	return true
}

func (h *Hub) unregister(c *subscriber) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.mu.Unlock()

	h.metrics.RecordClients(-1)
	logging.Info(h.logger, "subscriber disconnected", logging.FieldClient, c.remote)
}

// writeLoop is the only goroutine writing data frames to the connection.
func (h *Hub) writeLoop(c *subscriber) {
	defer c.conn.Close()
	for raw := range c.send {
		_ = c.conn.SetWriteDeadline(h.now().Add(h.writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			h.unregister(c)
			// drain until unregister closes the channel
			for range c.send {
			}
			return
		}
	}
}

// readLoop discards inbound frames and detects disconnects.
func (h *Hub) readLoop(c *subscriber) {
	defer h.unregister(c)
	c.conn.SetReadLimit(maxInboundBytes)
	_ = c.conn.SetReadDeadline(h.now().Add(2 * h.pingInterval))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(h.now().Add(2 * h.pingInterval))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) pingAll() {
	h.mu.RLock()
	clients := make([]*subscriber, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	deadline := h.now().Add(h.writeTimeout)
	for _, c := range clients {
		if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
			logging.Warn(h.logger, "ping failed", logging.FieldClient, c.remote, "error", err)
			h.unregister(c)
			_ = c.conn.Close()
		}
	}
}
