package vectorstore

import (
	"context"

	"github.com/vectordesk/core/v1/embedding"
)

//go:generate mockgen -source=interface.go -destination=mock_store.go -package=vectorstore

// Store is the common capability surface every backend adapter implements.
// Orchestration code (pool, copier, CLI) depends only on this interface;
// backend-specific behavior stays inside each adapter.
//
// Every data operation must fail with ErrNotConnected when no live client
// exists. Connect must never leave an adapter half-connected: on any
// failure the internal client is cleared so IsConnected reports false.
type Store interface {
	// Connect validates the profile's required fields for this backend,
	// performs a liveness check and fails fast with a descriptive error.
	Connect(ctx context.Context, profile ConnectionProfile) error

	// Disconnect is idempotent, clears session caches and is safe to call
	// on a never-connected adapter.
	Disconnect(ctx context.Context) error

	// IsConnected reports whether a live client exists.
	IsConnected() bool

	// Profile returns a copy of the connected profile, or nil when
	// disconnected. Orchestration uses it to tell two adapter instances
	// bound to the same endpoint apart from a cross-store pair.
	Profile() *ConnectionProfile

	// Backend names the concrete implementation.
	Backend() BackendKind

	// Capabilities declares what this adapter supports.
	Capabilities() Capabilities

	// ListCollections rebuilds the collection listing from the backend and
	// refreshes the session cache used for embedding-function lookups.
	ListCollections(ctx context.Context) ([]CollectionInfo, error)

	// GetCollection resolves one collection, from the session cache when
	// possible. Unknown names fail with ErrCollectionNotFound.
	GetCollection(ctx context.Context, name string) (*CollectionInfo, error)

	// CreateCollection creates a collection per spec and returns its info.
	CreateCollection(ctx context.Context, spec CollectionSpec) (*CollectionInfo, error)

	// DeleteCollection removes a collection and its documents.
	DeleteCollection(ctx context.Context, name string) error

	// CountDocuments reads the live document count, bypassing session
	// caches.
	CountDocuments(ctx context.Context, name string) (int64, error)

	// SearchDocuments runs one of three modes selected by the request
	// shape: semantic query, direct id fetch, or filtered listing. The
	// override descriptor, when non-nil, takes precedence over stored
	// embedding configuration for this call only.
	SearchDocuments(ctx context.Context, req SearchRequest, override *embedding.Descriptor) ([]DocumentRecord, error)

	// CreateDocument writes one document.
	CreateDocument(ctx context.Context, collection string, doc DocumentRecord) error

	// UpdateDocument overwrites an existing document by id.
	UpdateDocument(ctx context.Context, collection string, doc DocumentRecord) error

	// DeleteDocuments removes documents by id.
	DeleteDocuments(ctx context.Context, collection string, ids []string) error

	// CreateDocumentsBatch writes documents in DefaultBatchSize chunks,
	// continuing past failed chunks and collecting their errors.
	CreateDocumentsBatch(ctx context.Context, collection string, docs []DocumentRecord) (*BatchResult, error)

	// FetchAllDocuments bulk-reads every document in the collection with
	// text, metadata and vectors. The whole result is held in memory.
	FetchAllDocuments(ctx context.Context, collection string) ([]DocumentRecord, error)
}
