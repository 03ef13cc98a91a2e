// Package qdrant implements the vectorstore.Store capability against a
// Qdrant server over its gRPC API.
//
// # Collections
//
// Collections are first-class server-side objects, created with an
// explicit vector dimension and distance metric (cosine by default) and
// listed with live point counts. The server holds no collection metadata
// and no embedding configuration, so both live as session registrations
// made by CreateCollection and merged into listings.
//
// # Document text and ids
//
// Points store {id, vector, payload} with no text field, and point ids
// must be UUIDs or integers. Document text travels inside the payload
// under the reserved vectorstore.DocumentTextKey. Ids that are not
// canonical UUIDs map onto a deterministic SHA1 UUID and keep their
// original form under the reserved IDKey, so foreign ids survive a round
// trip and repeated writes address the same point. Neither reserved key is
// ever visible to callers.
//
// # Embeddings
//
// Every embedding is computed client-side. Connect builds an embedding
// resolver for the profile whose precedence is request descriptor, then
// persisted override, then the descriptor registered with the collection
// this session; Disconnect drops its cached provider clients.
//
// # Filters
//
// Metadata predicates in the operator dialect translate into native
// filters: equality and $in into must conditions, $ne into must_not,
// range operators fold into one range condition per field, and $and/$or
// nest as sub-filters.
package qdrant
