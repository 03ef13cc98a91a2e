// Package copier transfers whole collections between connected vector
// stores, within one backend or across two different ones.
//
// # Phases
//
// A copy moves through creating, copying and complete, with error and
// cancelled as terminal phases reachable from anywhere. Copy always
// returns a Result and never panics: transport failures, refused
// operations and recovered panics all arrive as an error-phase Result.
// The source is read in one bulk snapshot before writing starts, so very
// large collections cost memory proportional to their size.
//
// # Cancellation
//
// Cancellation is cooperative through the context and honored before the
// target is created and between batches, never mid-batch; an in-flight
// batch always finishes or fails on its own. A cancelled copy deletes the
// partially filled target collection best-effort and reports the counts
// written so far. Callers typically derive the context from the pool's
// BeginCopy so one cancel reaches both the copy and its context.
//
// # Embedding functions
//
// The target collection's embedding function is chosen by precedence:
// explicit Params.Descriptor, then the persisted override saved for the
// target profile and collection, then whatever the source collection
// declares. With RegenerateEmbeddings the source vectors are dropped per
// batch and the target adapter re-embeds from document text, server-side
// or client-side depending on the backend; without it, vectors carry over
// byte for byte.
package copier
