package observability

import "time"

// OperationContext carries everything an observer needs to know about a
// single completed operation. Producers fill in what applies and leave the
// rest zero-valued.
type OperationContext struct {
	// Component is the emitting package, e.g. "chroma", "pinecone",
	// "qdrant", "embedding", "copier".
	Component string

	// Operation is the logical action, e.g. "search", "insert", "resolve".
	Operation string

	// Resource is the primary object of the operation, typically a
	// collection or namespace name.
	Resource string

	// SubResource is additional context such as a document id or a
	// provider name.
	SubResource string

	// Duration is the wall-clock time the operation took.
	Duration time.Duration

	// Error is the operation outcome; nil on success.
	Error error

	// Size is an operation-defined magnitude, such as the number of
	// documents written or results returned.
	Size int64

	// Metadata holds free-form extra context.
	Metadata map[string]interface{}
}

// Observer receives operation notifications from instrumented components.
// Implementations typically forward to a metrics registry or tracing system.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}
