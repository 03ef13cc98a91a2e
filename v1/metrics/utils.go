package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IncrementOperations increments the operation counter for a component.
// Example: metrics.IncrementOperations("chroma", "search", "success")
func (m *Metrics) IncrementOperations(component, operation, status string) {
	m.operationsTotal.WithLabelValues(component, operation, status).Inc()
}

// RecordOperationDuration records the duration (in seconds) of an operation.
// Example: defer metrics.RecordOperationDuration(time.Now(), "qdrant", "insert")
func (m *Metrics) RecordOperationDuration(start time.Time, component, operation string) {
	duration := time.Since(start).Seconds()
	m.operationDuration.WithLabelValues(component, operation).Observe(duration)
}

// ObserveOperationDuration records an already-measured operation duration.
func (m *Metrics) ObserveOperationDuration(d time.Duration, component, operation string) {
	m.operationDuration.WithLabelValues(component, operation).Observe(d.Seconds())
}

// AddEmbeddingsGenerated adds to the generated-embeddings counter for a provider.
// Example: metrics.AddEmbeddingsGenerated("openai", 64)
func (m *Metrics) AddEmbeddingsGenerated(provider string, count float64) {
	m.embeddingsGenerated.WithLabelValues(provider).Add(count)
}

// CreateCounter creates a new CounterVec metric and registers it.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(name, help, labels)
	m.Registry.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec metric and registers it.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(name, help, labels, buckets)
	m.Registry.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec metric and registers it.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := createGaugeVec(name, help, labels)
	m.Registry.MustRegister(gauge)
	return gauge
}

// createCounterVec defines a new CounterVec with standard options.
// Used internally by NewMetrics to maintain consistency.
func createCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}

// createHistogramVec defines a new HistogramVec with configurable buckets.
// Used internally by NewMetrics for latency tracking.
func createHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		},
		labels,
	)
}

// createGaugeVec defines a new GaugeVec safely for resource monitoring.
func createGaugeVec(name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}
