package metrics

// Default values for the metrics server configuration.
const (
	DefaultAddress     = ":9090"
	DefaultServiceName = "vectordesk"
)

// Config holds settings for the Prometheus metrics server.
type Config struct {
	// Address the /metrics HTTP server listens on, e.g. ":9090".
	Address string `yaml:"address" env:"METRICS_ADDRESS"`

	// ServiceName is attached as a constant "service" label to every
	// metric emitted through this registry.
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`

	// EnableDefaultCollectors controls registration of the standard Go,
	// process, and build info collectors.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" env:"METRICS_ENABLE_DEFAULT_COLLECTORS"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Address:                 DefaultAddress,
		ServiceName:             DefaultServiceName,
		EnableDefaultCollectors: true,
	}
}
