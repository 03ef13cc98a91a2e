package vectorstore

import (
	"strings"

	"github.com/vectordesk/core/v1/embedding"
)

// BackendKind identifies a concrete vector store implementation.
type BackendKind string

const (
	// BackendChroma is the document-store backend: records are first-class
	// {id, text, metadata, vector} and the server computes embeddings.
	BackendChroma BackendKind = "chroma"

	// BackendPinecone is the namespace backend: one physical index holds
	// namespaces of {id, vector, metadata} and embedding happens client-side.
	BackendPinecone BackendKind = "pinecone"

	// BackendQdrant stores points per collection with client-side embedding.
	BackendQdrant BackendKind = "qdrant"
)

const (
	// DefaultBatchSize is the chunk size for batched document writes.
	DefaultBatchSize = 100

	// DocumentTextKey is the reserved metadata key used to smuggle document
	// text through backends whose wire format stores no native text field.
	// It must never leak into metadata returned to callers.
	DocumentTextKey = "__document__"

	// DefaultSearchLimit caps semantic search results when the request
	// names no limit.
	DefaultSearchLimit = 10

	// DefaultListLimit is the page size for listing mode when the request
	// names no limit.
	DefaultListLimit = 100
)

// ConnectionProfile carries everything needed to reach one backend. Which
// fields are required depends on the backend; adapters validate on Connect
// and fail before any network call when a required field is missing.
type ConnectionProfile struct {
	ID      string      `json:"id" yaml:"id"`
	Name    string      `json:"name" yaml:"name"`
	Backend BackendKind `json:"backend" yaml:"backend"`

	// Document-store backend fields.
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	Tenant   string `json:"tenant,omitempty" yaml:"tenant,omitempty"`
	Database string `json:"database,omitempty" yaml:"database,omitempty"`

	// Namespace backend fields.
	IndexName string `json:"index_name,omitempty" yaml:"index_name,omitempty"`

	// Qdrant fields.
	Host   string `json:"host,omitempty" yaml:"host,omitempty"`
	Port   int    `json:"port,omitempty" yaml:"port,omitempty"`
	UseTLS bool   `json:"use_tls,omitempty" yaml:"use_tls,omitempty"`

	// APIKey authenticates against backends that require one.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// CollectionSpec describes a collection to create.
type CollectionSpec struct {
	Name              string                 `json:"name"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
	Dimension         int                    `json:"dimension,omitempty"`
	Distance          string                 `json:"distance,omitempty"`
	EmbeddingFunction *embedding.Descriptor  `json:"embedding_function,omitempty"`
}

// CollectionInfo describes one collection as reported by the backend. For
// the namespace backend each entry is a synthetic projection of one
// namespace within the single physical index.
type CollectionInfo struct {
	ID                string                 `json:"id"`
	Name              string                 `json:"name"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
	Count             int64                  `json:"count"`
	Dimension         int                    `json:"dimension,omitempty"`
	EmbeddingFunction *embedding.Descriptor  `json:"embedding_function,omitempty"`
}

// DocumentRecord is one stored document. Document is empty when the backend
// holds no text for the record; Embedding is nil unless the caller asked for
// vectors; Distance is set only on semantic search results.
type DocumentRecord struct {
	ID        string                 `json:"id"`
	Document  string                 `json:"document,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Embedding []float32              `json:"embedding,omitempty"`
	Distance  *float64               `json:"distance,omitempty"`
}

// SearchMode is the operating mode a SearchRequest selects by its shape.
type SearchMode int

const (
	// ModeSemantic embeds the query text and runs a similarity search.
	ModeSemantic SearchMode = iota
	// ModeFetch fetches records directly by id.
	ModeFetch
	// ModeList pages through records filtered by a metadata predicate.
	ModeList
)

// SearchRequest drives SearchDocuments. The three modes are mutually
// exclusive and selected by shape: query text wins over an id list, which
// wins over plain listing.
type SearchRequest struct {
	Collection        string                 `json:"collection"`
	Query             string                 `json:"query,omitempty"`
	IDs               []string               `json:"ids,omitempty"`
	Where             map[string]interface{} `json:"where,omitempty"`
	Limit             int                    `json:"limit,omitempty"`
	Offset            int                    `json:"offset,omitempty"`
	IncludeEmbeddings bool                   `json:"include_embeddings,omitempty"`
}

// Mode reports which of the three search modes the request shape selects.
func (r SearchRequest) Mode() SearchMode {
	switch {
	case strings.TrimSpace(r.Query) != "":
		return ModeSemantic
	case len(r.IDs) > 0:
		return ModeFetch
	default:
		return ModeList
	}
}

// EffectiveLimit applies the per-mode default result cap.
func (r SearchRequest) EffectiveLimit() int {
	if r.Limit > 0 {
		return r.Limit
	}
	if r.Mode() == ModeSemantic {
		return DefaultSearchLimit
	}
	return DefaultListLimit
}

// BatchResult reports a batched write: every created id plus one error entry
// per failed chunk. A batch with failed chunks still succeeds partially.
type BatchResult struct {
	CreatedIDs []string `json:"created_ids"`
	Errors     []string `json:"errors,omitempty"`
}

// Capabilities declares what a backend adapter can do, so orchestration
// code can refuse unsupported operations instead of failing mid-flight.
type Capabilities struct {
	// ServerSideEmbedding means documents can be written as text and the
	// backend computes vectors itself.
	ServerSideEmbedding bool

	// CrossStoreCopy means a collection from a different store instance can
	// be copied into this one. The namespace backend refuses this: its
	// collections are namespaces inside one physical index and there is no
	// bulk path between separate indexes.
	CrossStoreCopy bool

	// NativeDocumentText means the backend stores document text as a
	// first-class field rather than inside reserved metadata.
	NativeDocumentText bool
}
