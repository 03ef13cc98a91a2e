package chroma

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vectordesk/core/v1/embedding"
	"github.com/vectordesk/core/v1/vectorstore"
)

// countConcurrency bounds the per-collection count fan-out during listing.
const countConcurrency = 8

// Connect validates the profile, performs a liveness check and arms the
// adapter. The internal client is only set after the check passes, so a
// failed connect leaves IsConnected reliably false.
func (s *Store) Connect(ctx context.Context, profile vectorstore.ConnectionProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.api != nil {
		return vectorstore.ErrAlreadyConnected
	}
	if strings.TrimSpace(profile.URL) == "" {
		return &vectorstore.ConfigError{Backend: vectorstore.BackendChroma, Field: "url"}
	}

	tenant := profile.Tenant
	if tenant == "" {
		tenant = defaultTenant
	}
	database := profile.Database
	if database == "" {
		database = defaultDatabase
	}

	api := newAPIClient(strings.TrimRight(profile.URL, "/"), tenant, database, profile.APIKey)

	start := time.Now()
	err := api.healthCheck(ctx)
	s.observe("connect", profile.Name, "", start, 0, err)
	if err != nil {
		return fmt.Errorf("chroma: connect to %s failed: %w", profile.URL, err)
	}

	s.api = api
	s.profile = &profile
	s.collections = make(map[string]vectorstore.CollectionInfo)

	s.log.Info("connected to chroma", nil, map[string]interface{}{
		"url":      profile.URL,
		"tenant":   tenant,
		"database": database,
	})
	return nil
}

// Disconnect drops the client and the collection cache. Idempotent.
func (s *Store) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.api == nil {
		return nil
	}
	s.api = nil
	s.profile = nil
	s.collections = nil

	s.log.Info("disconnected from chroma", nil)
	return nil
}

// IsConnected reports whether a live client exists.
func (s *Store) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.api != nil
}

// Profile returns a copy of the connected profile, or nil when
// disconnected.
func (s *Store) Profile() *vectorstore.ConnectionProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	profile := *s.profile
	return &profile
}

// client hands out the live API client or fails with ErrNotConnected.
func (s *Store) client() (*apiClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.api == nil {
		return nil, vectorstore.ErrNotConnected
	}
	return s.api, nil
}

// ListCollections rebuilds the listing with live record counts and
// refreshes the session cache used for embedding-function lookups.
func (s *Store) ListCollections(ctx context.Context) ([]vectorstore.CollectionInfo, error) {
	api, err := s.client()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	objects, err := api.listCollections(ctx)
	if err != nil {
		s.observe("list_collections", "", "", start, 0, err)
		return nil, err
	}

	infos := make([]vectorstore.CollectionInfo, len(objects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(countConcurrency)
	for i, obj := range objects {
		g.Go(func() error {
			count, err := api.countRecords(gctx, obj.ID)
			if err != nil {
				return fmt.Errorf("counting collection %q: %w", obj.Name, err)
			}
			info := infoFromObject(obj)
			info.Count = count
			infos[i] = info
			return nil
		})
	}
	err = g.Wait()
	s.observe("list_collections", "", "", start, int64(len(infos)), err)
	if err != nil {
		return nil, err
	}

	s.cacheCollections(infos)
	return infos, nil
}

// GetCollection answers from the session cache when possible and re-lists
// on a miss, so callers can look up a collection's embedding descriptor
// without listing themselves.
func (s *Store) GetCollection(ctx context.Context, name string) (*vectorstore.CollectionInfo, error) {
	if _, err := s.client(); err != nil {
		return nil, err
	}

	if info, ok := s.cachedCollection(name); ok {
		return &info, nil
	}

	if _, err := s.ListCollections(ctx); err != nil {
		return nil, err
	}
	if info, ok := s.cachedCollection(name); ok {
		return &info, nil
	}
	return nil, fmt.Errorf("%w: %q", vectorstore.ErrCollectionNotFound, name)
}

// CreateCollection creates a collection, attaching the embedding function
// descriptor to the server-side collection configuration when present.
func (s *Store) CreateCollection(ctx context.Context, spec vectorstore.CollectionSpec) (*vectorstore.CollectionInfo, error) {
	api, err := s.client()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(spec.Name) == "" {
		return nil, fmt.Errorf("chroma: collection name is required")
	}

	req := createCollectionRequest{
		Name:     spec.Name,
		Metadata: spec.Metadata,
	}
	if spec.EmbeddingFunction != nil {
		req.Configuration = map[string]interface{}{
			"embedding_function": map[string]interface{}{
				"name":   spec.EmbeddingFunction.Name,
				"config": spec.EmbeddingFunction.Config,
			},
		}
	}

	start := time.Now()
	obj, err := api.createCollection(ctx, req)
	s.observe("create_collection", spec.Name, "", start, 0, err)
	if err != nil {
		return nil, err
	}

	info := infoFromObject(*obj)
	s.cacheCollection(info)

	s.log.Info("created collection", nil, map[string]interface{}{
		"collection": info.Name,
		"id":         info.ID,
	})
	return &info, nil
}

// DeleteCollection removes the collection and evicts it from the cache.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	api, err := s.client()
	if err != nil {
		return err
	}

	info, err := s.GetCollection(ctx, name)
	if err != nil {
		return err
	}

	start := time.Now()
	err = api.deleteCollection(ctx, info.ID)
	s.observe("delete_collection", name, "", start, 0, err)
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.collections, name)
	s.mu.Unlock()

	s.log.Info("deleted collection", nil, map[string]interface{}{"collection": name})
	return nil
}

// CountDocuments reads the live record count, bypassing the cached value
// from the last listing.
func (s *Store) CountDocuments(ctx context.Context, name string) (int64, error) {
	api, err := s.client()
	if err != nil {
		return 0, err
	}

	id, err := s.resolveCollectionID(ctx, name)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	count, err := api.countRecords(ctx, id)
	s.observe("count_documents", name, "", start, count, err)
	return count, err
}

// resolveCollectionID maps a collection name to its backend id.
func (s *Store) resolveCollectionID(ctx context.Context, name string) (string, error) {
	info, err := s.GetCollection(ctx, name)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

func (s *Store) cacheCollections(infos []vectorstore.CollectionInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections == nil {
		return
	}
	s.collections = make(map[string]vectorstore.CollectionInfo, len(infos))
	for _, info := range infos {
		s.collections[info.Name] = info
	}
}

func (s *Store) cacheCollection(info vectorstore.CollectionInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections == nil {
		return
	}
	s.collections[info.Name] = info
}

func (s *Store) cachedCollection(name string) (vectorstore.CollectionInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.collections[name]
	return info, ok
}

// infoFromObject converts a wire collection into the shared shape,
// extracting the embedding function descriptor from the server-side
// collection configuration.
func infoFromObject(obj collectionObject) vectorstore.CollectionInfo {
	return vectorstore.CollectionInfo{
		ID:                obj.ID,
		Name:              obj.Name,
		Metadata:          obj.Metadata,
		Dimension:         obj.Dimension,
		EmbeddingFunction: descriptorFromConfiguration(obj.ConfigurationJSON),
	}
}

func descriptorFromConfiguration(cfg map[string]interface{}) *embedding.Descriptor {
	raw, ok := cfg["embedding_function"].(map[string]interface{})
	if !ok {
		return nil
	}
	name, _ := raw["name"].(string)
	if name == "" {
		return nil
	}
	d := &embedding.Descriptor{Name: name}
	if config, ok := raw["config"].(map[string]interface{}); ok {
		d.Config = config
	}
	return d
}
