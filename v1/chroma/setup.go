package chroma

import (
	"sync"

	"github.com/vectordesk/core/v1/observability"
	"github.com/vectordesk/core/v1/vectorstore"
)

//go:generate mockgen -source=setup.go -destination=mock_logger.go -package=chroma

// Logger captures the logging methods this adapter emits on.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Store is the document-store backend adapter. Records are first-class
// {id, text, metadata, vector} and the server computes embeddings from the
// provider configuration attached to each collection, so no client-side
// embedding happens here.
type Store struct {
	log      Logger
	observer observability.Observer

	mu          sync.RWMutex
	api         *apiClient
	profile     *vectorstore.ConnectionProfile
	collections map[string]vectorstore.CollectionInfo
}

// NewStore constructs a disconnected adapter. observer may be nil.
func NewStore(log Logger, observer observability.Observer) *Store {
	return &Store{
		log:      log,
		observer: observer,
	}
}

// Backend names this adapter.
func (s *Store) Backend() vectorstore.BackendKind {
	return vectorstore.BackendChroma
}

// Capabilities declares what the document-store backend supports.
func (s *Store) Capabilities() vectorstore.Capabilities {
	return vectorstore.Capabilities{
		ServerSideEmbedding: true,
		CrossStoreCopy:      true,
		NativeDocumentText:  true,
	}
}
