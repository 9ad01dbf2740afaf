package config

import "time"

// Config holds runtime configuration for the server and CLI.
type Config struct {
	Port       string `env:"PORT" envDefault:"4000"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"LOG_FORMAT" envDefault:"text"`
	AdminToken string `env:"ADMIN_TOKEN"`

	Storage   StorageConfig
	Metrics   MetricsConfig
	Broadcast BroadcastConfig
	Scoring   ScoringConfig
	Snapshots SnapshotConfig
	Feed      FeedConfig
}

// StorageConfig selects the match repository.
type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"memory"`
	Path   string `env:"STORAGE_PATH" envDefault:"data/scoring.db"`
}

// BroadcastConfig tunes the websocket hub.
type BroadcastConfig struct {
	PingInterval time.Duration `env:"BROADCAST_PING_INTERVAL" envDefault:"30s"`
	WriteTimeout time.Duration `env:"BROADCAST_WRITE_TIMEOUT" envDefault:"5s"`
	Buffer       int           `env:"BROADCAST_BUFFER" envDefault:"32"`
}

// ScoringConfig tunes the load/apply/save cycle.
type ScoringConfig struct {
	MaxRetries   int           `env:"SCORING_MAX_RETRIES" envDefault:"3"`
	RetryBackoff time.Duration `env:"SCORING_RETRY_BACKOFF" envDefault:"25ms"`
	SaveTimeout  time.Duration `env:"SCORING_SAVE_TIMEOUT" envDefault:"5s"`
}

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)
