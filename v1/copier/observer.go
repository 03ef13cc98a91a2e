package copier

import (
	"time"

	"github.com/vectordesk/core/v1/observability"
)

// observe reports one finished copy to the configured observer. Size
// carries the number of documents written.
func (c *Copier) observe(operation, resource, subResource string, start time.Time, size int64, err error) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveOperation(observability.OperationContext{
		Component:   "copier",
		Operation:   operation,
		Resource:    resource,
		SubResource: subResource,
		Duration:    time.Since(start),
		Size:        size,
		Error:       err,
	})
}
