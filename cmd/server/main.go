package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/preston-bernstein/live-scoring-service/internal/config"
	"github.com/preston-bernstein/live-scoring-service/internal/logging"
	"github.com/preston-bernstein/live-scoring-service/internal/server"
)

const (
	serviceName = "live-scoring-service"
	appVersion  = "dev"
)

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := newLogger(cfg, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logging.Error(logger, "server setup failed", err)
		stop()
		os.Exit(1)
	}
	srv.Run(ctx, stop)
}

func newLogger(cfg config.Config, out io.Writer) *slog.Logger {
	return logging.NewLogger(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
		Version: appVersion,
		Output:  out,
	})
}
