// Package pinecone implements the vectorstore.Store capability against a
// single Pinecone index over its REST API.
//
// # Namespaces as collections
//
// One connection binds to one physical index. Collections are synthetic
// projections of the index's namespaces: listings come from index
// statistics, plus collections registered this session that have not
// received their first write (namespaces only materialize server-side on
// write). The unnamed namespace appears under the reserved
// DefaultNamespaceLabel and is translated back on the wire.
//
// # Document text
//
// The wire format stores {id, vector, metadata} with no text field.
// Document text travels inside metadata under the reserved
// vectorstore.DocumentTextKey; it is injected before every write and
// stripped back out of every read, so callers never see the reserved key.
//
// # Embeddings
//
// Every embedding is computed client-side. Connect builds an embedding
// resolver for the profile whose precedence is request descriptor, then
// persisted override, then the descriptor registered with the collection
// this session; Disconnect drops its cached provider clients. Metadata is
// sanitized before write to the value kinds the wire accepts.
package pinecone
