package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(envConfigFile, "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.Storage.Driver != defaultDriver {
		t.Fatalf("expected default driver %s, got %s", defaultDriver, cfg.Storage.Driver)
	}
	if cfg.Metrics.Port != defaultMetricsPort || !cfg.Metrics.Enabled || cfg.Metrics.ExportInterval != 15*time.Second {
		t.Fatalf("unexpected metrics defaults %+v", cfg.Metrics)
	}
	if cfg.Scoring.MaxRetries != defaultMaxRetries || cfg.Scoring.SaveTimeout != 5*time.Second {
		t.Fatalf("unexpected scoring defaults %+v", cfg.Scoring)
	}
	if cfg.Broadcast.PingInterval != 30*time.Second || cfg.Broadcast.Buffer != 32 {
		t.Fatalf("unexpected broadcast defaults %+v", cfg.Broadcast)
	}
	if cfg.AdminToken != "" {
		t.Fatalf("expected empty admin token by default, got %s", cfg.AdminToken)
	}
	if cfg.Snapshots.Enabled || cfg.Snapshots.Interval != 30*time.Second || cfg.Snapshots.RetentionDays != 14 {
		t.Fatalf("unexpected snapshot defaults %+v", cfg.Snapshots)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "5000")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("STORAGE_PATH", "/tmp/matches.db")
	t.Setenv("ADMIN_TOKEN", "secret")
	t.Setenv("SCORING_RETRY_BACKOFF", "100ms")
	t.Setenv("BROADCAST_PING_INTERVAL", "10s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "5000" {
		t.Fatalf("expected port 5000, got %s", cfg.Port)
	}
	if cfg.Storage.Driver != DriverSQLite || cfg.Storage.Path != "/tmp/matches.db" {
		t.Fatalf("unexpected storage %+v", cfg.Storage)
	}
	if cfg.AdminToken != "secret" {
		t.Fatalf("expected admin token override, got %s", cfg.AdminToken)
	}
	if cfg.Scoring.RetryBackoff != 100*time.Millisecond {
		t.Fatalf("expected backoff 100ms, got %s", cfg.Scoring.RetryBackoff)
	}
	if cfg.Broadcast.PingInterval != 10*time.Second {
		t.Fatalf("expected ping interval 10s, got %s", cfg.Broadcast.PingInterval)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfigFile(t, "PORT: 6000\nLOG_FORMAT: json\nSCORING_MAX_RETRIES: 7\n")
	t.Setenv(envConfigFile, path)
	t.Setenv("PORT", "6100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "6100" {
		t.Fatalf("expected env to win over file, got %s", cfg.Port)
	}
	if cfg.LogFormat != "json" || cfg.Scoring.MaxRetries != 7 {
		t.Fatalf("expected file values to apply, got %+v", cfg)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("SCORING_SAVE_TIMEOUT", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error for invalid duration")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestLoadRejectsNonPositiveBuffer(t *testing.T) {
	t.Setenv("BROADCAST_BUFFER", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero buffer")
	}
}

func TestLoadSnapshotSettings(t *testing.T) {
	t.Setenv("SNAPSHOT_ENABLED", "true")
	t.Setenv("SNAPSHOT_DIR", "/var/lib/scoring/snapshots")
	t.Setenv("SNAPSHOT_INTERVAL", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Snapshots.Enabled || cfg.Snapshots.Dir != "/var/lib/scoring/snapshots" || cfg.Snapshots.Interval != time.Minute {
		t.Fatalf("unexpected snapshot config %+v", cfg.Snapshots)
	}
}

func TestLoadRejectsEnabledSnapshotsWithoutDir(t *testing.T) {
	t.Setenv(envConfigFile, writeConfigFile(t, "SNAPSHOT_ENABLED: true\nSNAPSHOT_DIR: \" \"\n"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for blank snapshot dir")
	}
}

func TestLoadFeedSettings(t *testing.T) {
	t.Setenv(envConfigFile, writeConfigFile(t, "FEED_URL: https://feed.example.com/v2\nFEED_MAX_PAGES: 2\n"))
	t.Setenv("FEED_API_KEY", "k")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Feed.URL != "https://feed.example.com/v2" || cfg.Feed.APIKey != "k" || cfg.Feed.MaxPages != 2 {
		t.Fatalf("unexpected feed config %+v", cfg.Feed)
	}
	if cfg.Feed.Timezone != "UTC" || cfg.Feed.Retries != 3 || cfg.Feed.MinInterval != time.Second {
		t.Fatalf("unexpected feed defaults %+v", cfg.Feed)
	}
}

func TestLoadRejectsNegativeFeedRetries(t *testing.T) {
	t.Setenv(envConfigFile, "")
	t.Setenv("FEED_RETRIES", "-1")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative feed retries")
	}
}
