package testutil

import (
	"context"
	"net/http"
	"sync"
)

// StubHub implements the server's broadcast hub for tests.
type StubHub struct {
	RecordingEmitter

	mu         sync.Mutex
	StartCalls int
	StopCalls  int
	StopErr    error
}

func (h *StubHub) Start(ctx context.Context) {
	_ = ctx
	h.mu.Lock()
	h.StartCalls++
	h.mu.Unlock()
}

func (h *StubHub) Stop(ctx context.Context) error {
	_ = ctx
	h.mu.Lock()
	defer h.mu.Unlock()
	h.StopCalls++
	return h.StopErr
}

func (h *StubHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "websocket disabled in tests", http.StatusNotImplemented)
}

// Calls returns the recorded start and stop counts.
func (h *StubHub) Calls() (start, stop int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.StartCalls, h.StopCalls
}

// StubHTTPServer stands in for the server's listener. ListenAndServe returns
// ListenErr immediately, which is http.ErrServerClosed for a clean stop.
type StubHTTPServer struct {
	ListenAddr  string
	Routes      http.Handler
	ListenErr   error
	ShutdownErr error

	mu       sync.Mutex
	listens  int
	shutdown int
}

func (s *StubHTTPServer) ListenAndServe() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listens++
	return s.ListenErr
}

func (s *StubHTTPServer) Shutdown(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdown++
	return s.ShutdownErr
}

func (s *StubHTTPServer) Addr() string {
	if s.ListenAddr == "" {
		return ":0"
	}
	return s.ListenAddr
}

func (s *StubHTTPServer) Handler() http.Handler {
	if s.Routes == nil {
		return http.NotFoundHandler()
	}
	return s.Routes
}

// Calls returns how often ListenAndServe and Shutdown ran.
func (s *StubHTTPServer) Calls() (listen, shutdown int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listens, s.shutdown
}

// StubStore is a closeable, pingable store stand-in. PingErr and CloseErr are returned as set.
type StubStore struct {
	PingErr    error
	CloseErr   error
	mu         sync.Mutex
	CloseCalls int
}

func (s *StubStore) Ping(ctx context.Context) error {
	_ = ctx
	return s.PingErr
}

func (s *StubStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CloseCalls++
	return s.CloseErr
}
