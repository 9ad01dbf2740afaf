package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/metrics"
)

func TestNetHTTPServerServesOnListener(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	s := netHTTPServer{srv: &http.Server{Handler: mux, ReadHeaderTimeout: time.Second}, listener: l}

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe() }()

	resp, err := http.Get("http://" + l.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	select {
	case err := <-done:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Fatalf("expected ErrServerClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("serve did not return after shutdown")
	}
}

func TestBuiltHTTPServerAppliesTimeouts(t *testing.T) {
	cfg := testConfig()
	cfg.Port = "4555"
	srv, err := newServerWithMetrics(context.Background(), cfg, nil, metrics.NewRecorder())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	built, ok := srv.httpServer.(netHTTPServer)
	if !ok {
		t.Fatalf("expected netHTTPServer, got %T", srv.httpServer)
	}
	if built.Addr() != ":4555" || built.Handler() == nil {
		t.Fatalf("unexpected addr %q or nil handler", built.Addr())
	}
	if built.srv.ReadHeaderTimeout != readHeaderTimeout || built.srv.WriteTimeout != writeTimeout || built.srv.IdleTimeout != idleTimeout {
		t.Fatalf("timeouts not applied: %+v", built.srv)
	}
}
