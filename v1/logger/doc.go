// Package logger provides structured logging for the vectordesk core.
//
// The package wraps Uber's Zap logger behind a small, stable surface: leveled
// logging methods taking a message, an optional error, and optional field
// maps, plus context-aware variants that attach OpenTelemetry trace and span
// IDs when tracing integration is enabled. It integrates with the fx
// dependency injection framework for lifecycle management.
//
// # Features
//
//   - Structured JSON logging with key-value pairs
//   - Log levels: Debug, Info, Warning, Error (plus Fatal)
//   - ISO8601 timestamps, caller information, pid and service initial fields
//   - Automatic trace and span ID extraction from context when enabled
//   - fx module with a Sync-on-shutdown lifecycle hook
//
// # Direct Usage (Without FX)
//
// For simple applications or tests, create a logger directly:
//
//	import "github.com/vectordesk/core/v1/logger"
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:       logger.Info,
//		ServiceName: "collection-browser",
//	})
//
//	log.Info("connected to backend", nil, map[string]interface{}{
//		"profile": "local-chroma",
//		"backend": "chroma",
//	})
//
// # FX Module Integration
//
// For applications using Uber's fx, include the FXModule and supply a Config:
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Provide(func() logger.Config {
//			return logger.DefaultConfig()
//		}),
//	)
//
// Consumer packages in this module accept the logging surface as a local
// interface, so any implementation with the same method set can stand in
// during tests.
package logger
