package config

import "time"

// FeedConfig points scorectl import at a league fixture feed.
type FeedConfig struct {
	URL         string        `env:"FEED_URL"`
	APIKey      string        `env:"FEED_API_KEY"`
	Timezone    string        `env:"FEED_TIMEZONE" envDefault:"UTC"`
	Timeout     time.Duration `env:"FEED_TIMEOUT" envDefault:"10s"`
	MaxPages    int           `env:"FEED_MAX_PAGES" envDefault:"5"`
	Retries     int           `env:"FEED_RETRIES" envDefault:"3"`
	MinInterval time.Duration `env:"FEED_MIN_INTERVAL" envDefault:"1s"`
}
