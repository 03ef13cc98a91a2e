// Package chroma implements the vectorstore.Store capability against a
// Chroma server over its v2 REST API.
//
// # Connection
//
// Connect performs a healthcheck against the configured URL and pins the
// tenant and database for the session, falling back to the server
// defaults when the profile leaves them empty. All subsequent calls are
// scoped to that tenant and database.
//
// # Embeddings
//
// Chroma computes embeddings on the server from each collection's stored
// embedding function, so this backend reports ServerSideEmbedding and
// ignores per-request embedding overrides. Semantic search submits raw
// query text and lets the server embed it.
//
// # Collections
//
// Collection metadata, record counts and embedding function descriptors
// are cached per session after ListCollections. Record operations address
// collections by their server id, resolved from the cache or a fresh
// listing on miss.
package chroma
