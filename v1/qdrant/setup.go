package qdrant

import (
	"sync"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/vectordesk/core/v1/embedding"
	"github.com/vectordesk/core/v1/observability"
	"github.com/vectordesk/core/v1/vectorstore"
)

//go:generate mockgen -source=setup.go -destination=mock_logger.go -package=qdrant

// Logger captures the logging methods this adapter emits on.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Store is the qdrant backend adapter. Collections are real server-side
// collections; document text travels inside reserved payload metadata,
// foreign ids map onto point UUIDs, and every embedding is computed
// client-side through the resolver built on Connect.
type Store struct {
	log       Logger
	observer  observability.Observer
	overrides embedding.OverrideSource

	mu          sync.RWMutex
	api         *qdrant.Client
	profile     *vectorstore.ConnectionProfile
	collections map[string]vectorstore.CollectionInfo
	registered  map[string]vectorstore.CollectionInfo
	resolver    *embedding.Resolver
	generator   *embedding.Generator
}

// NewStore constructs a disconnected adapter. observer and overrides may be
// nil; without an override source only request-time descriptors and session
// registrations can resolve an embedding function.
func NewStore(log Logger, observer observability.Observer, overrides embedding.OverrideSource) *Store {
	return &Store{
		log:       log,
		observer:  observer,
		overrides: overrides,
	}
}

// Backend names this adapter.
func (s *Store) Backend() vectorstore.BackendKind {
	return vectorstore.BackendQdrant
}

// Capabilities declares what this backend supports: collections are
// first-class so copies between separate servers work, but there is no
// server-side embedding and no native text field.
func (s *Store) Capabilities() vectorstore.Capabilities {
	return vectorstore.Capabilities{CrossStoreCopy: true}
}
