// Package metrics provides Prometheus-based monitoring and metrics collection
// for the vectordesk core.
//
// The package keeps one isolated Prometheus registry per instance, labels
// every metric with the owning service, exposes a configurable /metrics HTTP
// endpoint, and ships the built-in instruments the rest of this module
// reports into:
//
//   - store_operations_total{component, operation, status}
//   - store_operation_duration_seconds{component, operation}
//   - embeddings_generated_total{provider}
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" design pattern:
//   - MetricsCollector interface: Defines the contract for metrics operations
//   - Metrics struct: Concrete implementation of the MetricsCollector interface
//   - Observer: adapts Metrics to the observability.Observer contract, so
//     backend adapters, the embedding resolver, and the copier feed the
//     built-in instruments without importing Prometheus themselves
//   - FX module: Provides *Metrics and the observability.Observer binding
//
// # Direct Usage (Without FX)
//
// For simple applications or tests, create metrics directly:
//
//	import "github.com/vectordesk/core/v1/metrics"
//
//	m := metrics.NewMetrics(metrics.DefaultConfig())
//	go m.Server.ListenAndServe()
//
//	observer := metrics.NewObserver(m)
//	// hand the observer to any instrumented component
//
// Custom metrics register through the factory helpers:
//
//	copies := m.CreateCounter("collection_copies_total",
//	    "Completed collection copy operations", []string{"status"})
//	copies.WithLabelValues("complete").Inc()
//
// # FX Module Integration
//
//	app := fx.New(
//	    logger.FXModule,
//	    metrics.FXModule,
//	    fx.Provide(func() metrics.Config { return metrics.DefaultConfig() }),
//	)
//
// The module starts the exposition server on application start and shuts it
// down gracefully on stop.
package metrics
