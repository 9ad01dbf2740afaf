package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from an optional YAML file named by CONFIG_FILE,
// then the environment. Environment values win over file values, which win over defaults.
func Load() (Config, error) {
	values, err := readFile(os.Getenv(envConfigFile))
	if err != nil {
		return Config{}, err
	}
	for _, kv := range os.Environ() {
		key, val, ok := strings.Cut(kv, "=")
		if ok && val != "" {
			values[key] = val
		}
	}
	return parse(values)
}

func parse(values map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: values}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// readFile loads a flat YAML map keyed by the same names as the environment.
func readFile(path string) (map[string]string, error) {
	values := map[string]string{}
	if strings.TrimSpace(path) == "" {
		return values, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	for key, val := range raw {
		if val == nil {
			continue
		}
		values[strings.ToUpper(key)] = fmt.Sprint(val)
	}
	return values, nil
}

func (c Config) validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Scoring.MaxRetries < 0 {
		return fmt.Errorf("SCORING_MAX_RETRIES must not be negative")
	}
	if c.Broadcast.Buffer <= 0 {
		return fmt.Errorf("BROADCAST_BUFFER must be positive")
	}
	if c.Snapshots.Enabled && strings.TrimSpace(c.Snapshots.Dir) == "" {
		return fmt.Errorf("SNAPSHOT_DIR is required when SNAPSHOT_ENABLED is set")
	}
	if c.Feed.Retries < 0 || c.Feed.MaxPages < 0 {
		return fmt.Errorf("FEED_RETRIES and FEED_MAX_PAGES must not be negative")
	}
	return nil
}
