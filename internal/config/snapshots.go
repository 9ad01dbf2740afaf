package config

import "time"

// SnapshotConfig controls the scoreboard snapshot poller.
type SnapshotConfig struct {
	Enabled       bool          `env:"SNAPSHOT_ENABLED" envDefault:"false"`
	Dir           string        `env:"SNAPSHOT_DIR" envDefault:"data/snapshots"`
	Interval      time.Duration `env:"SNAPSHOT_INTERVAL" envDefault:"30s"`
	RetentionDays int           `env:"SNAPSHOT_RETENTION_DAYS" envDefault:"14"`
}
