package server

import (
	"context"
	"log/slog"
	"net/http"

	appmatches "github.com/preston-bernstein/live-scoring-service/internal/app/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/broadcast"
	"github.com/preston-bernstein/live-scoring-service/internal/config"
	httpserver "github.com/preston-bernstein/live-scoring-service/internal/http"
	"github.com/preston-bernstein/live-scoring-service/internal/http/handlers"
	"github.com/preston-bernstein/live-scoring-service/internal/logging"
	"github.com/preston-bernstein/live-scoring-service/internal/metrics"
	"github.com/preston-bernstein/live-scoring-service/internal/poller"
	"github.com/preston-bernstein/live-scoring-service/internal/snapshots"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         MatchStore
	matches       *appmatches.Service
	hub           Hub
	snapshots     snapshotPoller
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

// New constructs a server with the configured store, broadcast hub and telemetry.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithMetrics(ctx, cfg, logger, nil)
}

func newServerWithMetrics(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	st, err := buildStore(ctx, cfg.Storage, logger)
	if err != nil {
		if metricsShutdown != nil {
			_ = metricsShutdown(ctx)
		}
		return nil, err
	}

	hub := broadcast.NewHub(broadcast.Options{
		PingInterval: cfg.Broadcast.PingInterval,
		WriteTimeout: cfg.Broadcast.WriteTimeout,
		Buffer:       cfg.Broadcast.Buffer,
	}, logger, recorder)

	svc := buildService(cfg, st, hub, logger, recorder)
	snapPoller, boards := buildSnapshots(cfg.Snapshots, svc, logger, recorder)
	httpSrv := buildHTTPServer(cfg, svc, st, hub, logger, recorder, func(h *handlers.Handler) {
		if snapPoller != nil {
			h.WithScoreboards(boards, snapPoller.Status)
		}
	})

	srv := &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         st,
		matches:       svc,
		hub:           hub,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}
	if snapPoller != nil {
		srv.snapshots = snapPoller
	}
	return srv, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, st MatchStore, hub Hub, httpSrv httpServer) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		store:      st,
		hub:        hub,
		httpServer: httpSrv,
	}
}

func buildService(cfg config.Config, st MatchStore, hub Hub, logger *slog.Logger, recorder *metrics.Recorder) *appmatches.Service {
	return appmatches.NewService(st, appmatches.Options{
		Logger:       logger,
		Metrics:      recorder,
		Emitter:      hub,
		MaxRetries:   cfg.Scoring.MaxRetries,
		RetryBackoff: cfg.Scoring.RetryBackoff,
		Timeout:      cfg.Scoring.SaveTimeout,
	})
}

// buildSnapshots returns nil values when the poller is disabled.
func buildSnapshots(cfg config.SnapshotConfig, svc *appmatches.Service, logger *slog.Logger, recorder *metrics.Recorder) (*poller.Poller, handlers.ScoreboardReader) {
	if !cfg.Enabled {
		return nil, nil
	}
	writer := snapshots.NewWriter(cfg.Dir, cfg.RetentionDays)
	return poller.New(svc, writer, logger, recorder, cfg.Interval), snapshots.NewFSStore(cfg.Dir)
}

func buildHTTPServer(cfg config.Config, svc *appmatches.Service, st MatchStore, hub Hub, logger *slog.Logger, recorder *metrics.Recorder, mount ...func(*handlers.Handler)) httpServer {
	handler := handlers.NewHandler(svc, st, cfg.AdminToken, logger)
	for _, fn := range mount {
		fn(handler)
	}
	router := httpserver.NewRouter(handler, hub.ServeWS, logger, recorder)
	if cfg.AdminToken == "" {
		logging.Warn(logger, "ADMIN_TOKEN not set, mutating routes are open")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the hub and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.hub.Start(ctx)
	if s.snapshots != nil {
		s.snapshots.Start(ctx)
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

// gracefulShutdown stops intake first, then subscribers and the snapshot poller, then storage.
func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if err := s.hub.Stop(shutdownCtx); err != nil {
		logging.Error(s.logger, "failed to stop broadcast hub", err)
	}

	if s.snapshots != nil {
		if err := s.snapshots.Stop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "snapshot poller stop failed", "error", err)
		}
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			logging.Error(s.logger, "failed to close store", err)
		}
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:        cfg.Metrics.Enabled,
		Port:           cfg.Metrics.Port,
		ServiceName:    cfg.Metrics.ServiceName,
		OtlpEndpoint:   cfg.Metrics.OtlpEndpoint,
		OtlpInsecure:   cfg.Metrics.OtlpInsecure,
		ExportInterval: cfg.Metrics.ExportInterval,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readHeaderTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
