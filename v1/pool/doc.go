// Package pool keeps one live backend connection per connection profile
// and shares it between callers by reference counting.
//
// # Sharing
//
// Connect returns the existing adapter instance when the profile is
// already pooled and only dials a new one on first use. Every successful
// Connect must be paired with one Disconnect; the adapter's own
// Disconnect runs exactly once, when the last reference goes. This lets
// several windows or commands work against the same profile without
// double-connecting or tearing the connection down under each other.
//
// # Copy guard
//
// A collection copy holds bulk state on its source connection, so the
// pool admits at most one copy per profile. BeginCopy derives the
// cancellable context the copy must run under and refuses a second copy
// with ErrCopyInProgress until the first one's release runs. CancelCopy
// signals the running copy by profile id; the copier notices at its next
// batch boundary.
//
// # Lifecycle
//
// Shutdown force-disconnects everything and is registered as the fx
// OnStop hook by FXModule.
package pool
