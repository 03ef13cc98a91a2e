package metrics

import (
	"github.com/vectordesk/core/v1/observability"
)

// Observer adapts the Metrics registry to the observability.Observer
// contract. Components report completed operations once; the observer fans
// them out to the built-in counters and histograms.
type Observer struct {
	metrics *Metrics
}

// NewObserver returns an Observer backed by the given Metrics instance.
func NewObserver(m *Metrics) *Observer {
	return &Observer{metrics: m}
}

// ObserveOperation records one completed operation.
//
// Every operation increments store_operations_total and, when a duration is
// present, feeds store_operation_duration_seconds. Successful embedding
// generation additionally counts the produced vectors per provider
// (the reporting component carries the provider in SubResource).
func (o *Observer) ObserveOperation(ctx observability.OperationContext) {
	if o == nil || o.metrics == nil {
		return
	}

	status := "success"
	if ctx.Error != nil {
		status = "error"
	}

	o.metrics.IncrementOperations(ctx.Component, ctx.Operation, status)

	if ctx.Duration > 0 {
		o.metrics.ObserveOperationDuration(ctx.Duration, ctx.Component, ctx.Operation)
	}

	if ctx.Component == "embedding" && ctx.Operation == "embed" && ctx.Error == nil && ctx.Size > 0 {
		o.metrics.AddEmbeddingsGenerated(ctx.SubResource, float64(ctx.Size))
	}
}
