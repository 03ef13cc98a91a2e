package embedding

import (
	"sync"

	"github.com/vectordesk/core/v1/observability"
	"github.com/vectordesk/core/v1/provider"
)

//go:generate mockgen -source=setup.go -destination=mock_logger.go -package=embedding

// Logger captures the logging methods the resolver emits diagnostics on.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

type buildFunc func(name string, cfg provider.Config) (provider.EmbeddingClient, error)

// Resolver turns embedding function descriptors into constructed provider
// clients. Constructed clients are cached for the lifetime of the owning
// adapter instance and dropped on disconnect via ClearCache.
type Resolver struct {
	profileID string
	overrides OverrideSource
	server    ServerConfigSource
	log       Logger

	mu    sync.RWMutex
	cache map[string]provider.EmbeddingClient
	build buildFunc
}

// NewResolver constructs a resolver bound to one connection profile.
// overrides and server may be nil when the respective source does not exist,
// for example on backends that store no embedding configuration.
func NewResolver(profileID string, overrides OverrideSource, server ServerConfigSource, log Logger) *Resolver {
	return &Resolver{
		profileID: profileID,
		overrides: overrides,
		server:    server,
		log:       log,
		cache:     make(map[string]provider.EmbeddingClient),
		build:     provider.Build,
	}
}

// Generator is a thin façade over the Resolver that turns raw text into
// vectors for backends that require client-side embedding.
type Generator struct {
	resolver *Resolver
	observer observability.Observer
}

// NewGenerator constructs a generator over resolver. observer may be nil.
func NewGenerator(resolver *Resolver, observer observability.Observer) *Generator {
	return &Generator{resolver: resolver, observer: observer}
}
