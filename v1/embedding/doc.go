// Package embedding resolves embedding function descriptors into provider
// clients and generates vectors for backends that embed client-side.
//
// # Overview
//
// Every collection can declare which embedding function produced its
// vectors. The declaration may live in three places, in increasing
// precedence:
//
//  1. the collection's server-declared configuration
//  2. a persisted per-(profile, collection) user override
//  3. a request-scoped descriptor passed explicitly by the caller
//
// The Resolver evaluates this precedence on every call, classifies the
// winning descriptor (known, legacy or unknown) and constructs a provider
// client for known functions. Legacy and unknown functions resolve to
// ErrNoEmbeddingFunction, since only the server can run them; callers
// degrade to "no embedding function available" instead of producing wrong
// vectors.
//
// # Caching
//
// Constructed clients are cached under `collection + ":" + canonical JSON of
// the descriptor config`. Identical collection+config pairs always return
// the same client instance without re-running credential checks; any config
// difference occupies its own slot. The cache lives as long as the owning
// adapter instance and is dropped by ClearCache on disconnect.
//
// Two overlapping resolutions of the same cold key may both construct a
// client; the second write wins. Construction is side-effect-free beyond
// the credential check, so the duplicated work is tolerated and sequential
// calls still construct exactly once.
//
// # Usage
//
//	resolver := embedding.NewResolver(profileID, overrideStore, store, log)
//	generator := embedding.NewGenerator(resolver, observer)
//
//	vectors, err := generator.EmbedMany(ctx, "articles", texts, nil)
//	if provider.IsCredentialsError(err) {
//		// prompt the user for the missing key
//	}
//
// Credential errors from provider construction pass through unwrapped, so
// errors.As against *provider.CredentialsError keeps working at any call
// depth.
package embedding
