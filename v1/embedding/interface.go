package embedding

import "context"

// OverrideSource looks up the persisted per-(profile, collection) embedding
// function overrides a user has saved. Implementations read local settings
// and must not reach the network.
type OverrideSource interface {
	// OverrideFor returns the saved override for the collection, or nil
	// when none exists.
	OverrideFor(profileID, collection string) *Descriptor
}

// ServerConfigSource reports the embedding function a collection declares
// server-side, typically answered from a session-cached collection listing.
type ServerConfigSource interface {
	// DescriptorFor returns the collection's declared embedding function.
	// A nil descriptor with a nil error means the collection declares none.
	DescriptorFor(ctx context.Context, collection string) (*Descriptor, error)
}
