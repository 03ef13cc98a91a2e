// Package observability defines the contract between instrumented components
// and whatever consumes their telemetry.
//
// Components in this module (backend adapters, the embedding resolver, the
// collection copier) accept an optional Observer and report every completed
// operation as an OperationContext value: component, operation, resource,
// duration, outcome, and a size where one applies. The package deliberately
// contains no implementation; v1/metrics ships a Prometheus-backed Observer,
// and tests use hand-rolled recorders.
//
// Attaching an observer is always optional. Components treat a nil observer
// as "no instrumentation" and skip reporting entirely.
package observability
