package embedding

import (
	"time"

	"github.com/vectordesk/core/v1/observability"
)

// observeEmbed reports one embed call to the configured observer. Size
// carries the number of texts embedded.
func (g *Generator) observeEmbed(collection, providerID string, start time.Time, count int, err error) {
	if g.observer == nil {
		return
	}
	g.observer.ObserveOperation(observability.OperationContext{
		Component:   "embedding",
		Operation:   "embed",
		Resource:    collection,
		SubResource: providerID,
		Duration:    time.Since(start),
		Size:        int64(count),
		Error:       err,
	})
}
