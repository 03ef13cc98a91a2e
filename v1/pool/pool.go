package pool

import (
	"context"
	"errors"
	"fmt"

	"github.com/vectordesk/core/v1/vectorstore"
)

// Connect hands out the live connection for the profile, creating and
// connecting an adapter on first use. Every successful call increments the
// profile's reference count and must be paired with one Disconnect. A
// failed connect registers nothing.
func (p *Pool) Connect(ctx context.Context, profile vectorstore.ConnectionProfile) (vectorstore.Store, error) {
	if profile.ID == "" {
		return nil, fmt.Errorf("pool: profile id is required")
	}

	p.mu.Lock()
	if e, ok := p.entries[profile.ID]; ok {
		e.refs++
		refs := e.refs
		p.mu.Unlock()
		p.log.Debug("sharing pooled connection", nil, map[string]interface{}{
			"profile": profile.ID,
			"refs":    refs,
		})
		return e.store, nil
	}
	p.mu.Unlock()

	store, err := p.factory(profile.Backend)
	if err != nil {
		return nil, err
	}
	if err := store.Connect(ctx, profile); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if e, ok := p.entries[profile.ID]; ok {
		// A concurrent caller registered first; share theirs and drop the
		// duplicate connection.
		e.refs++
		p.mu.Unlock()
		if err := store.Disconnect(ctx); err != nil {
			p.log.Warn("closing duplicate connection", err, map[string]interface{}{
				"profile": profile.ID,
			})
		}
		return e.store, nil
	}
	p.entries[profile.ID] = &entry{store: store, refs: 1}
	p.mu.Unlock()

	p.log.Info("pooled new connection", nil, map[string]interface{}{
		"profile": profile.ID,
		"backend": string(profile.Backend),
	})
	return store, nil
}

// Disconnect releases one reference. The adapter disconnects and leaves
// the pool only when the last reference goes; a final teardown also
// cancels any copy still running on the profile.
func (p *Pool) Disconnect(ctx context.Context, id string) error {
	p.mu.Lock()
	e, ok := p.entries[id]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownProfile, id)
	}
	e.refs--
	if e.refs > 0 {
		refs := e.refs
		p.mu.Unlock()
		p.log.Debug("connection still shared", nil, map[string]interface{}{
			"profile": id,
			"refs":    refs,
		})
		return nil
	}
	delete(p.entries, id)
	running := e.copy
	p.mu.Unlock()

	if running != nil {
		running.cancel()
	}
	if err := e.store.Disconnect(ctx); err != nil {
		p.log.Warn("disconnecting pooled connection", err, map[string]interface{}{
			"profile": id,
		})
		return err
	}
	p.log.Info("released pooled connection", nil, map[string]interface{}{
		"profile": id,
	})
	return nil
}

// Get returns the live connection for the profile without touching the
// reference count.
func (p *Pool) Get(id string) (vectorstore.Store, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.entries[id]
	if !ok {
		return nil, false
	}
	return e.store, true
}

// IsConnected reports whether the pool holds a live connection for the
// profile.
func (p *Pool) IsConnected(id string) bool {
	store, ok := p.Get(id)
	return ok && store.IsConnected()
}

// BeginCopy registers a collection copy on the profile and derives the
// context the copy must run under. Only one copy may run per profile at a
// time. The release function unregisters the copy and is safe to call more
// than once; callers must invoke it when the copy finishes however it
// ends.
func (p *Pool) BeginCopy(ctx context.Context, id string) (context.Context, func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownProfile, id)
	}
	if e.copy != nil {
		return nil, nil, fmt.Errorf("%w on profile %q", ErrCopyInProgress, id)
	}

	copyCtx, cancel := context.WithCancel(ctx)
	handle := &copyHandle{cancel: cancel}
	e.copy = handle

	release := func() {
		cancel()
		p.mu.Lock()
		defer p.mu.Unlock()
		if cur, ok := p.entries[id]; ok && cur.copy == handle {
			cur.copy = nil
		}
	}
	return copyCtx, release, nil
}

// CancelCopy signals the copy running on the profile, if any. The copy
// stays registered until its release runs, so a replacement copy cannot
// start while the cancelled one is still winding down.
func (p *Pool) CancelCopy(id string) error {
	p.mu.RLock()
	e, ok := p.entries[id]
	if !ok {
		p.mu.RUnlock()
		return fmt.Errorf("%w: %q", ErrUnknownProfile, id)
	}
	running := e.copy
	p.mu.RUnlock()

	if running == nil {
		return nil
	}
	running.cancel()
	p.log.Info("cancelled copy", nil, map[string]interface{}{"profile": id})
	return nil
}

// Shutdown force-disconnects every pooled connection regardless of
// reference counts, cancelling in-flight copies first. The pool is empty
// and reusable afterwards.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	entries := p.entries
	p.entries = make(map[string]*entry)
	p.mu.Unlock()

	var errs []error
	for id, e := range entries {
		if e.copy != nil {
			e.copy.cancel()
		}
		if err := e.store.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("profile %q: %w", id, err))
		}
	}
	if len(entries) > 0 {
		p.log.Info("pool shut down", nil, map[string]interface{}{
			"connections": len(entries),
		})
	}
	return errors.Join(errs...)
}
