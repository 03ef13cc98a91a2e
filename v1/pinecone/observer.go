package pinecone

import (
	"time"

	"github.com/vectordesk/core/v1/observability"
)

// observe reports one backend operation to the configured observer. Size
// carries the record count the operation touched, when known.
func (s *Store) observe(operation, resource, subResource string, start time.Time, size int64, err error) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(observability.OperationContext{
		Component:   "pinecone",
		Operation:   operation,
		Resource:    resource,
		SubResource: subResource,
		Duration:    time.Since(start),
		Size:        size,
		Error:       err,
	})
}
