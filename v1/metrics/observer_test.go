package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/vectordesk/core/v1/observability"
)

func gatherCounterValue(t *testing.T, m *Metrics, family string) float64 {
	t.Helper()

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	var total float64
	for _, f := range families {
		if f.GetName() != family {
			continue
		}
		for _, metric := range f.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func TestObserver_CountsOperations(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "test", EnableDefaultCollectors: false})
	obs := NewObserver(m)

	obs.ObserveOperation(observability.OperationContext{
		Component: "chroma",
		Operation: "search",
		Duration:  5 * time.Millisecond,
	})
	obs.ObserveOperation(observability.OperationContext{
		Component: "chroma",
		Operation: "search",
		Error:     errors.New("boom"),
	})

	if got := gatherCounterValue(t, m, "store_operations_total"); got != 2 {
		t.Errorf("expected 2 observed operations, got %v", got)
	}
}

func TestObserver_CountsEmbeddings(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "test", EnableDefaultCollectors: false})
	obs := NewObserver(m)

	obs.ObserveOperation(observability.OperationContext{
		Component:   "embedding",
		Operation:   "embed",
		SubResource: "openai",
		Size:        64,
	})

	if got := gatherCounterValue(t, m, "embeddings_generated_total"); got != 64 {
		t.Errorf("expected 64 embeddings counted, got %v", got)
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var obs *Observer

	// Must not panic.
	obs.ObserveOperation(observability.OperationContext{Component: "x", Operation: "y"})
}
