package embedding

import (
	"context"
	"fmt"

	"github.com/vectordesk/core/v1/provider"
)

// Resolve returns a ready-to-use provider client for the collection.
//
// The descriptor is chosen by precedence: the request descriptor when
// non-nil, else the persisted override for (profile, collection), else the
// collection's server-declared configuration. Precedence is evaluated per
// call and never mutates stored state.
//
// A collection without a usable descriptor resolves to ErrNoEmbeddingFunction
// so callers degrade to "no embedding function available" instead of
// crashing. Credential and configuration errors from construction reach
// callers unwrapped.
func (r *Resolver) Resolve(ctx context.Context, collection string, request *Descriptor) (provider.EmbeddingClient, error) {
	descriptor, source, err := r.descriptorFor(ctx, collection, request)
	if err != nil {
		return nil, err
	}
	if descriptor == nil {
		r.log.Debug("no embedding function declared for collection", nil, map[string]interface{}{
			"collection": collection,
			"profile_id": r.profileID,
		})
		return nil, fmt.Errorf("%w: collection %q", ErrNoEmbeddingFunction, collection)
	}
	if kind := descriptor.Kind(); kind != KindKnown {
		r.log.Warn("embedding function cannot run client-side", nil, map[string]interface{}{
			"collection": collection,
			"function":   descriptor.Name,
			"kind":       string(kind),
			"source":     source,
		})
		return nil, fmt.Errorf("%w: collection %q declares %s function %q", ErrNoEmbeddingFunction, collection, kind, descriptor.Name)
	}

	key := CacheKey(collection, *descriptor)

	r.mu.RLock()
	client, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return client, nil
	}

	// Construction happens outside the lock. Two overlapping misses on the
	// same key may both construct; the second write wins and the clients
	// are interchangeable.
	client, err = r.build(descriptor.Name, descriptor.providerConfig())
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[key] = client
	r.mu.Unlock()

	r.log.Debug("embedding client constructed", nil, map[string]interface{}{
		"collection": collection,
		"provider":   client.Provider(),
		"model":      client.Model(),
		"source":     source,
	})
	return client, nil
}

// descriptorFor picks the effective descriptor and names the source it came
// from: "request", "override" or "server".
func (r *Resolver) descriptorFor(ctx context.Context, collection string, request *Descriptor) (*Descriptor, string, error) {
	if request != nil {
		return request, "request", nil
	}
	if r.overrides != nil {
		if override := r.overrides.OverrideFor(r.profileID, collection); override != nil {
			return override, "override", nil
		}
	}
	if r.server != nil {
		descriptor, err := r.server.DescriptorFor(ctx, collection)
		if err != nil {
			return nil, "", err
		}
		return descriptor, "server", nil
	}
	return nil, "", nil
}

// ClearCache drops every cached client. Invoked on disconnect.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]provider.EmbeddingClient)
}
