// Package vectorstore defines the backend-agnostic capability surface for
// vector database adapters, plus the shared types, errors and helpers every
// adapter builds on.
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" design
// pattern:
//   - Store interface: the common operation set (connect, list, document
//     CRUD, batched create, three-mode search, collection lifecycle, bulk
//     fetch) implemented once per backend
//   - Concrete adapters live in sibling packages (chroma, pinecone, qdrant)
//     and return their own struct types
//   - Orchestration (pool, copier) depends only on Store and Capabilities
//
// The two backend data models differ structurally. The document-store
// model keeps {id, text, metadata, vector} records and embeds server-side.
// The namespace model keeps only {id, vector, metadata} partitioned into
// namespaces of one physical index; document text is smuggled through the
// reserved DocumentTextKey metadata entry and embedding happens client-side.
// Capabilities lets callers refuse unsupported operations up front instead
// of failing mid-flight.
//
// # Search Modes
//
// SearchDocuments runs one of three mutually exclusive modes selected by
// the request shape:
//
//	vectorstore.SearchRequest{Collection: "docs", Query: "hello"}   // semantic
//	vectorstore.SearchRequest{Collection: "docs", IDs: []string{"a"}} // fetch
//	vectorstore.SearchRequest{Collection: "docs", Where: pred}       // listing
//
// Metadata predicates accept {field: value} shorthand, normalized to the
// explicit {"$eq": value} operator form before backend translation.
package vectorstore
