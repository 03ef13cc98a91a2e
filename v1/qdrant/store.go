package qdrant

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
	"golang.org/x/sync/errgroup"

	"github.com/vectordesk/core/v1/embedding"
	"github.com/vectordesk/core/v1/vectorstore"
)

// Connect validates the profile, dials the server and verifies it answers.
// On any failure the adapter stays fully disconnected. The embedding
// resolver for this connection is built here and lives until Disconnect.
func (s *Store) Connect(ctx context.Context, profile vectorstore.ConnectionProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.api != nil {
		return vectorstore.ErrAlreadyConnected
	}
	if strings.TrimSpace(profile.Host) == "" {
		return &vectorstore.ConfigError{Backend: vectorstore.BackendQdrant, Field: "host"}
	}

	api, err := dial(profile)
	if err != nil {
		return err
	}

	start := time.Now()
	reply, err := api.HealthCheck(ctx)
	s.observe("connect", profile.Name, profile.Host, start, 0, err)
	if err != nil {
		_ = api.Close()
		return fmt.Errorf("qdrant: connect to %s failed: %w", profile.Host, translateError(err))
	}

	s.api = api
	s.profile = &profile
	s.collections = make(map[string]vectorstore.CollectionInfo)
	s.registered = make(map[string]vectorstore.CollectionInfo)
	s.resolver = embedding.NewResolver(profile.ID, s.overrides, s, s.log)
	s.generator = embedding.NewGenerator(s.resolver, s.observer)

	s.log.Info("connected to qdrant", nil, map[string]interface{}{
		"host":    profile.Host,
		"port":    profile.Port,
		"version": reply.GetVersion(),
	})
	return nil
}

// Disconnect closes the connection and drops the session caches and every
// cached embedding client. Idempotent.
func (s *Store) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.api == nil {
		return nil
	}
	s.resolver.ClearCache()
	if err := s.api.Close(); err != nil {
		s.log.Warn("closing qdrant client", err)
	}
	s.api = nil
	s.profile = nil
	s.collections = nil
	s.registered = nil
	s.resolver = nil
	s.generator = nil

	s.log.Info("disconnected from qdrant", nil)
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
func (s *Store) session() (*qdrant.Client, *embedding.Generator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.api == nil {
		return nil, nil, vectorstore.ErrNotConnected
	}
	return s.api, s.generator, nil
}

// DescriptorFor implements embedding.ServerConfigSource. The server stores
// no embedding configuration on a collection, so only collections
// registered through CreateCollection this session can declare one.
func (s *Store) DescriptorFor(ctx context.Context, collection string) (*embedding.Descriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if info, ok := s.registered[collection]; ok {
		return info.EmbeddingFunction, nil
	}
	return nil, nil
}

// ListCollections lists every collection with its live point count and
// vector configuration, describing collections concurrently. Metadata and
// embedding descriptors registered this session are merged in; the server
// has nowhere to hold them.
func (s *Store) ListCollections(ctx context.Context) ([]vectorstore.CollectionInfo, error) {
	api, _, err := s.session()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	names, err := api.ListCollections(ctx)
	if err != nil {
		err = translateError(err)
		s.observe("list_collections", "", "", start, 0, err)
		return nil, err
	}

	infos := make([]vectorstore.CollectionInfo, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(countConcurrency)
	for i, name := range names {
		g.Go(func() error {
			info, err := api.GetCollectionInfo(gctx, name)
			if err != nil {
				return fmt.Errorf("describing collection %q: %w", name, translateError(err))
			}
			infos[i] = collectionInfo(name, info)
			return nil
		})
	}
	err = g.Wait()
	s.observe("list_collections", "", "", start, int64(len(infos)), err)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	for i := range infos {
		if reg, ok := s.registered[infos[i].Name]; ok {
			if len(reg.Metadata) > 0 {
				merged := make(map[string]interface{}, len(infos[i].Metadata)+len(reg.Metadata))
				for k, v := range infos[i].Metadata {
					merged[k] = v
				}
				for k, v := range reg.Metadata {
					merged[k] = v
				}
				infos[i].Metadata = merged
			}
			infos[i].EmbeddingFunction = reg.EmbeddingFunction
		}
	}
	s.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
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

// CreateCollection creates a server-side collection. A dimension is
// required; the distance metric defaults to cosine. The requested metadata
// and embedding descriptor are held as a session registration so listings
// and the resolver can serve them.
func (s *Store) CreateCollection(ctx context.Context, spec vectorstore.CollectionSpec) (*vectorstore.CollectionInfo, error) {
	api, _, err := s.session()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(spec.Name) == "" {
		return nil, fmt.Errorf("qdrant: collection name is required")
	}
	if spec.Dimension <= 0 {
		return nil, fmt.Errorf("qdrant: collection %q needs a dimension", spec.Name)
	}
	distance, err := distanceFromSpec(spec.Distance)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	exists, err := api.CollectionExists(ctx, spec.Name)
	if err != nil {
		err = translateError(err)
		s.observe("create_collection", spec.Name, "", start, 0, err)
		return nil, err
	}
	if exists {
		s.observe("create_collection", spec.Name, "", start, 0, vectorstore.ErrCollectionExists)
		return nil, fmt.Errorf("%w: %q", vectorstore.ErrCollectionExists, spec.Name)
	}

	err = api.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: spec.Name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(spec.Dimension),
			Distance: distance,
		}),
	})
	if err != nil {
		err = translateError(err)
		s.observe("create_collection", spec.Name, "", start, 0, err)
		return nil, err
	}

	info := vectorstore.CollectionInfo{
		ID:                spec.Name,
		Name:              spec.Name,
		Metadata:          spec.Metadata,
		Dimension:         spec.Dimension,
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
	s.log.Info("created collection", nil, map[string]interface{}{
		"collection": spec.Name,
		"dimension":  spec.Dimension,
		"distance":   strings.ToLower(distance.String()),
	})
	return &info, nil
}

// DeleteCollection drops the collection and its session registration.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	api, _, err := s.session()
	if err != nil {
		return err
	}

	start := time.Now()
	if err := api.DeleteCollection(ctx, name); err != nil {
		err = translateError(err)
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

// CountDocuments reads the exact live point count, bypassing the session
// cache.
func (s *Store) CountDocuments(ctx context.Context, name string) (int64, error) {
	api, _, err := s.session()
	if err != nil {
		return 0, err
	}

	exact := true
	start := time.Now()
	count, err := api.Count(ctx, &qdrant.CountPoints{CollectionName: name, Exact: &exact})
	if err != nil {
		err = translateError(err)
		s.observe("count_documents", name, "", start, 0, err)
		return 0, err
	}
	s.observe("count_documents", name, "", start, int64(count), nil)
	return int64(count), nil
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

func collectionInfo(name string, info *qdrant.CollectionInfo) vectorstore.CollectionInfo {
	dimension, distance := vectorDetails(info)
	out := vectorstore.CollectionInfo{
		ID:        name,
		Name:      name,
		Count:     int64(info.GetPointsCount()),
		Dimension: dimension,
	}
	if distance != "" {
		out.Metadata = map[string]interface{}{"distance": distance}
	}
	return out
}

// vectorDetails digs the vector size and distance metric out of the nested
// collection configuration, tolerating missing pieces.
func vectorDetails(info *qdrant.CollectionInfo) (int, string) {
	cfg, ok := info.GetConfig().GetParams().GetVectorsConfig().GetConfig().(*qdrant.VectorsConfig_Params)
	if !ok || cfg.Params == nil {
		return 0, ""
	}
	return int(cfg.Params.GetSize()), strings.ToLower(cfg.Params.GetDistance().String())
}

func distanceFromSpec(name string) (qdrant.Distance, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cosine":
		return qdrant.Distance_Cosine, nil
	case "euclid", "euclidean", "l2":
		return qdrant.Distance_Euclid, nil
	case "dot", "ip":
		return qdrant.Distance_Dot, nil
	case "manhattan":
		return qdrant.Distance_Manhattan, nil
	default:
		return qdrant.Distance_UnknownDistance, fmt.Errorf("qdrant: unknown distance metric %q", name)
	}
}
