package pool

import (
	"context"
	"fmt"
	"sync"

	"github.com/vectordesk/core/v1/chroma"
	"github.com/vectordesk/core/v1/embedding"
	"github.com/vectordesk/core/v1/observability"
	"github.com/vectordesk/core/v1/pinecone"
	"github.com/vectordesk/core/v1/qdrant"
	"github.com/vectordesk/core/v1/vectorstore"
)

//go:generate mockgen -source=setup.go -destination=mock_logger.go -package=pool

// Logger captures the logging methods the pool emits on.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Factory builds a disconnected adapter for a backend kind. The pool calls
// it once per profile, when the first caller connects.
type Factory func(backend vectorstore.BackendKind) (vectorstore.Store, error)

// DefaultFactory wires the built-in backend adapters. The document-store
// backend embeds server-side and takes no override source.
func DefaultFactory(log Logger, observer observability.Observer, overrides embedding.OverrideSource) Factory {
	return func(backend vectorstore.BackendKind) (vectorstore.Store, error) {
		switch backend {
		case vectorstore.BackendChroma:
			return chroma.NewStore(log, observer), nil
		case vectorstore.BackendPinecone:
			return pinecone.NewStore(log, observer, overrides), nil
		case vectorstore.BackendQdrant:
			return qdrant.NewStore(log, observer, overrides), nil
		default:
			return nil, fmt.Errorf("pool: no adapter for backend %q", backend)
		}
	}
}

// Pool is the reference-counted registry of live backend connections,
// keyed by profile id. Several callers sharing one profile share one
// adapter instance; the adapter disconnects only when the last caller
// releases it. The pool also tracks at most one in-flight collection copy
// per profile.
type Pool struct {
	log     Logger
	factory Factory

	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	store vectorstore.Store
	refs  int
	copy  *copyHandle
}

// copyHandle identifies one registered copy so a late release cannot
// unregister a copy that started after it.
type copyHandle struct {
	cancel context.CancelFunc
}

// NewPool constructs an empty pool around the given adapter factory.
func NewPool(log Logger, factory Factory) *Pool {
	return &Pool{
		log:     log,
		factory: factory,
		entries: make(map[string]*entry),
	}
}
