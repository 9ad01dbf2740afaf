package config

import "time"

// MetricsConfig controls telemetry export settings.
type MetricsConfig struct {
	Enabled        bool          `env:"METRICS_ENABLED" envDefault:"true"`
	Port           string        `env:"METRICS_PORT" envDefault:"9090"`
	OtlpEndpoint   string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName    string        `env:"OTEL_SERVICE_NAME" envDefault:"live-scoring-service"`
	OtlpInsecure   bool          `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	ExportInterval time.Duration `env:"METRICS_EXPORT_INTERVAL" envDefault:"15s"`
}
