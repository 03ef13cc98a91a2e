package tracer

// Default values for the tracer configuration.
const (
	DefaultServiceName = "vectordesk"
	DefaultAppEnv      = "development"
)

// Config holds settings for the OpenTelemetry tracer provider.
type Config struct {
	// ServiceName identifies this process in exported traces.
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`

	// AppEnv tags spans with the deployment environment,
	// e.g. "development" or "production".
	AppEnv string `yaml:"app_env" env:"APP_ENV"`

	// EnableExport turns on the OTLP HTTP exporter. When false, spans are
	// still created (so log correlation works) but never leave the process.
	EnableExport bool `yaml:"enable_export" env:"TRACER_ENABLE_EXPORT"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		ServiceName:  DefaultServiceName,
		AppEnv:       DefaultAppEnv,
		EnableExport: false,
	}
}
