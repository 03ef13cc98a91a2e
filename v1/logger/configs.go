package logger

// Log level names accepted by Config.Level.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// DefaultServiceName is used when no service name is configured. It shows up
// as the "service" field on every log entry.
const DefaultServiceName = "vectordesk"

// Config controls the behavior of the logger.
//
// Example:
//
//	cfg := logger.DefaultConfig()
//	cfg.Level = logger.Debug
//	log := logger.NewLoggerClient(cfg)
type Config struct {
	// Minimum level that gets emitted. One of "debug", "info",
	// "warning", "error". Unknown values fall back to "info".
	Level string `yaml:"level" env:"LOG_LEVEL"`

	// Logical service name attached to every entry.
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`

	// When true, the *WithContext logging methods extract the active
	// trace and span IDs from the context and attach them to the entry.
	EnableTracing bool `yaml:"enable_tracing" env:"LOG_ENABLE_TRACING"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Level:         Info,
		ServiceName:   DefaultServiceName,
		EnableTracing: false,
	}
}
