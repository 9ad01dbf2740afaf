package config

const (
	envConfigFile = "CONFIG_FILE"

	defaultPort        = "4000"
	defaultMetricsPort = "9090"
	defaultDriver      = DriverMemory
	defaultMaxRetries  = 3
)
