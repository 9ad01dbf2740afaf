package server

import (
	"context"
	"fmt"
	"log/slog"

	appmatches "github.com/preston-bernstein/live-scoring-service/internal/app/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/config"
	"github.com/preston-bernstein/live-scoring-service/internal/logging"
	"github.com/preston-bernstein/live-scoring-service/internal/store"
	"github.com/preston-bernstein/live-scoring-service/internal/store/sqlite"
)

// MatchStore is the repository plus the lifecycle hooks the server drives.
type MatchStore interface {
	appmatches.Store
	Ping(ctx context.Context) error
	Close() error
}

// openSQLite remains a var for tests to override.
var openSQLite = func(ctx context.Context, path string) (MatchStore, error) {
	return sqlite.Open(ctx, path)
}

// buildStore selects the repository named by STORAGE_DRIVER.
func buildStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (MatchStore, error) {
	switch cfg.Driver {
	case "", config.DriverMemory:
		logging.Info(logger, "using in-memory match store")
		return store.NewMemoryStore(), nil
	case config.DriverSQLite:
		st, err := openSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store %s: %w", cfg.Path, err)
		}
		logging.Info(logger, "using sqlite match store", slog.String(logging.FieldPath, cfg.Path))
		return st, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
