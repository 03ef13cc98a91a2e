package qdrant

import (
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vectordesk/core/v1/vectorstore"
)

const (
	// defaultGRPCPort is used when the profile names no port.
	defaultGRPCPort = 6334

	// scrollPageSize is the page size for bulk reads.
	scrollPageSize = 256

	// countConcurrency caps the per-collection info fan-out when listing.
	countConcurrency = 8
)

// dial builds an SDK client for the profile. The SDK connects lazily, so a
// liveness check must follow. Compatibility between client and server
// versions is not enforced; profiles may point at any server version.
func dial(profile vectorstore.ConnectionProfile) (*qdrant.Client, error) {
	port := profile.Port
	if port == 0 {
		port = defaultGRPCPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   profile.Host,
		Port:                   port,
		APIKey:                 profile.APIKey,
		UseTLS:                 profile.UseTLS,
		SkipCompatibilityCheck: true,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: building client for %s:%d: %w", profile.Host, port, err)
	}
	return client, nil
}

// translateError maps gRPC status codes onto the shared sentinels so
// callers can branch without knowing the transport.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %s", vectorstore.ErrCollectionNotFound, status.Convert(err).Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", vectorstore.ErrCollectionExists, status.Convert(err).Message())
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", vectorstore.ErrUnauthorized, status.Convert(err).Message())
	default:
		return err
	}
}
