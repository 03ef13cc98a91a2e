package provider

import (
	"errors"
	"fmt"
)

// Errors returned by the provider package.
var (
	// ErrUnknownProvider indicates a provider id with no registered spec,
	// after alias normalization.
	ErrUnknownProvider = errors.New("provider: unknown provider")

	// ErrNoEmbeddings indicates the provider answered successfully but
	// returned no (or too few) vectors for the submitted batch.
	ErrNoEmbeddings = errors.New("provider: no embeddings returned")
)

// CredentialsError reports a missing credential for a provider. The EnvVar
// field names the environment variable slot that was consulted and found
// empty, after any per-request override.
type CredentialsError struct {
	Provider string
	EnvVar   string
}

func (e *CredentialsError) Error() string {
	return fmt.Sprintf("provider %s: credential environment variable %s is not set", e.Provider, e.EnvVar)
}

// IsCredentialsError checks if the error (or anything it wraps) is a
// missing-credential failure.
func IsCredentialsError(err error) bool {
	var ce *CredentialsError
	return errors.As(err, &ce)
}

// AsCredentialsError extracts the CredentialsError from an error chain.
func AsCredentialsError(err error) (*CredentialsError, bool) {
	var ce *CredentialsError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsUnknownProviderError checks if the error indicates an unregistered
// provider id.
func IsUnknownProviderError(err error) bool {
	return errors.Is(err, ErrUnknownProvider)
}
