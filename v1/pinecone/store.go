package pinecone

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vectordesk/core/v1/embedding"
	"github.com/vectordesk/core/v1/vectorstore"
)

// DefaultNamespaceLabel is the display name for the unnamed namespace. The
// wire format addresses it as the empty string; callers always see and pass
// this label instead.
const DefaultNamespaceLabel = "__default__"

func toNamespace(collection string) string {
	if collection == DefaultNamespaceLabel {
		return ""
	}
	return collection
}

func fromNamespace(namespace string) string {
	if namespace == "" {
		return DefaultNamespaceLabel
	}
	return namespace
}

// Connect validates the profile, resolves the index host and verifies the
// index answers. On any failure the adapter stays fully disconnected. The
// embedding resolver for this connection is built here and lives until
// Disconnect.
func (s *Store) Connect(ctx context.Context, profile vectorstore.ConnectionProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.api != nil {
		return vectorstore.ErrAlreadyConnected
	}
	if strings.TrimSpace(profile.IndexName) == "" {
		return &vectorstore.ConfigError{Backend: vectorstore.BackendPinecone, Field: "index_name"}
	}
	if strings.TrimSpace(profile.APIKey) == "" {
		return &vectorstore.ConfigError{Backend: vectorstore.BackendPinecone, Field: "api_key"}
	}

	api := newAPIClient(profile.URL, profile.APIKey)

	start := time.Now()
	host := profile.Host
	if host == "" {
		desc, err := api.describeIndex(ctx, profile.IndexName)
		if err != nil {
			s.observe("connect", profile.Name, profile.IndexName, start, 0, err)
			return fmt.Errorf("pinecone: describing index %q: %w", profile.IndexName, err)
		}
		host = desc.Host
	}
	api.setHost(host)

	stats, err := api.describeStats(ctx)
	s.observe("connect", profile.Name, profile.IndexName, start, 0, err)
	if err != nil {
		return fmt.Errorf("pinecone: connect to index %q failed: %w", profile.IndexName, err)
	}

	s.api = api
	s.profile = &profile
	s.dimension = stats.Dimension
	s.collections = make(map[string]vectorstore.CollectionInfo)
	s.registered = make(map[string]vectorstore.CollectionInfo)
	s.resolver = embedding.NewResolver(profile.ID, s.overrides, s, s.log)
	s.generator = embedding.NewGenerator(s.resolver, s.observer)

	s.log.Info("connected to pinecone index", nil, map[string]interface{}{
		"index":     profile.IndexName,
		"host":      host,
		"dimension": stats.Dimension,
	})
	return nil
}

// Disconnect drops the client, the session caches and every cached
// embedding client. Idempotent.
func (s *Store) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.api == nil {
		return nil
	}
	s.resolver.ClearCache()
	s.api = nil
	s.profile = nil
	s.dimension = 0
	s.collections = nil
	s.registered = nil
	s.resolver = nil
	s.generator = nil

	s.log.Info("disconnected from pinecone", nil)
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

// session hands out the live client and generator or fails with
// ErrNotConnected.
func (s *Store) session() (*apiClient, *embedding.Generator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.api == nil {
		return nil, nil, vectorstore.ErrNotConnected
	}
	return s.api, s.generator, nil
}

// DescriptorFor implements embedding.ServerConfigSource. The index stores
// no embedding configuration, so only collections registered through
// CreateCollection this session can declare one.
func (s *Store) DescriptorFor(ctx context.Context, collection string) (*embedding.Descriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if info, ok := s.registered[collection]; ok {
		return info.EmbeddingFunction, nil
	}
	return nil, nil
}

// ListCollections projects every namespace the index reports into a
// synthetic collection entry, merging in collections registered this
// session that have not received their first write yet.
func (s *Store) ListCollections(ctx context.Context) ([]vectorstore.CollectionInfo, error) {
	api, _, err := s.session()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	stats, err := api.describeStats(ctx)
	if err != nil {
		s.observe("list_collections", "", "", start, 0, err)
		return nil, err
	}

	s.mu.RLock()
	dimension := s.dimension
	registered := make(map[string]vectorstore.CollectionInfo, len(s.registered))
	for name, info := range s.registered {
		registered[name] = info
	}
	s.mu.RUnlock()

	infos := make([]vectorstore.CollectionInfo, 0, len(stats.Namespaces)+len(registered))
	for namespace, ns := range stats.Namespaces {
		name := fromNamespace(namespace)
		info := vectorstore.CollectionInfo{
			ID:        name,
			Name:      name,
			Count:     ns.VectorCount,
			Dimension: dimension,
		}
		if reg, ok := registered[name]; ok {
			info.Metadata = reg.Metadata
			info.EmbeddingFunction = reg.EmbeddingFunction
		}
		infos = append(infos, info)
		delete(registered, name)
	}
	for _, info := range registered {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	s.observe("list_collections", "", "", start, int64(len(infos)), nil)
	s.cacheCollections(infos)
	return infos, nil
}

// GetCollection answers from the session cache when possible and re-lists
// on a miss.
func (s *Store) GetCollection(ctx context.Context, name string) (*vectorstore.CollectionInfo, error) {
	if _, _, err := s.session(); err != nil {
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

// CreateCollection registers a synthetic collection. Namespaces come into
// existence on their first write, so creation is a session registration
// that makes the collection listable and queryable immediately; the
// embedding descriptor attached here is what searches resolve against.
func (s *Store) CreateCollection(ctx context.Context, spec vectorstore.CollectionSpec) (*vectorstore.CollectionInfo, error) {
	if _, _, err := s.session(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(spec.Name) == "" {
		return nil, fmt.Errorf("pinecone: collection name is required")
	}

	s.mu.RLock()
	dimension := s.dimension
	indexName := ""
	if s.profile != nil {
		indexName = s.profile.IndexName
	}
	s.mu.RUnlock()
	if spec.Dimension != 0 && spec.Dimension != dimension {
		return nil, fmt.Errorf("pinecone: index %q has fixed dimension %d, cannot create collection with dimension %d",
			indexName, dimension, spec.Dimension)
	}

	start := time.Now()
	if _, err := s.GetCollection(ctx, spec.Name); err == nil {
		s.observe("create_collection", spec.Name, "", start, 0, vectorstore.ErrCollectionExists)
		return nil, fmt.Errorf("%w: %q", vectorstore.ErrCollectionExists, spec.Name)
	} else if !vectorstore.IsCollectionNotFoundError(err) {
		return nil, err
	}

	info := vectorstore.CollectionInfo{
		ID:                spec.Name,
		Name:              spec.Name,
		Metadata:          spec.Metadata,
		Dimension:         dimension,
		EmbeddingFunction: spec.EmbeddingFunction,
	}

	s.mu.Lock()
	if s.registered == nil {
		s.mu.Unlock()
		return nil, vectorstore.ErrNotConnected
	}
	s.registered[spec.Name] = info
	s.collections[spec.Name] = info
	s.mu.Unlock()

	s.observe("create_collection", spec.Name, "", start, 0, nil)
	s.log.Info("registered collection", nil, map[string]interface{}{
		"collection": spec.Name,
		"namespace":  toNamespace(spec.Name),
	})
	return &info, nil
}

// DeleteCollection removes every vector in the namespace. A namespace that
// never received a write has nothing server-side; deletion then only drops
// the session registration.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	api, _, err := s.session()
	if err != nil {
		return err
	}

	if _, err := s.GetCollection(ctx, name); err != nil {
		return err
	}

	start := time.Now()
	err = api.deleteVectors(ctx, deleteRequest{DeleteAll: true, Namespace: toNamespace(name)})
	if err != nil && !vectorstore.IsCollectionNotFoundError(err) {
		s.observe("delete_collection", name, "", start, 0, err)
		return err
	}
	s.observe("delete_collection", name, "", start, 0, nil)

	s.mu.Lock()
	delete(s.collections, name)
	delete(s.registered, name)
	s.mu.Unlock()

	s.log.Info("deleted collection", nil, map[string]interface{}{"collection": name})
	return nil
}

// CountDocuments reads the live vector count for the namespace from index
// statistics.
func (s *Store) CountDocuments(ctx context.Context, name string) (int64, error) {
	api, _, err := s.session()
	if err != nil {
		return 0, err
	}

	if _, err := s.GetCollection(ctx, name); err != nil {
		return 0, err
	}

	start := time.Now()
	stats, err := api.describeStats(ctx)
	if err != nil {
		s.observe("count_documents", name, "", start, 0, err)
		return 0, err
	}

	count := stats.Namespaces[toNamespace(name)].VectorCount
	s.observe("count_documents", name, "", start, count, nil)
	return count, nil
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

func (s *Store) cachedCollection(name string) (vectorstore.CollectionInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.collections[name]
	return info, ok
}
