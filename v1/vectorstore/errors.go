package vectorstore

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected guards every data operation on an adapter with no
	// live client.
	ErrNotConnected = errors.New("vectorstore: not connected")

	// ErrAlreadyConnected reports Connect on an adapter that already holds
	// a live client.
	ErrAlreadyConnected = errors.New("vectorstore: already connected")

	// ErrCollectionNotFound reports an operation against a collection the
	// backend does not know.
	ErrCollectionNotFound = errors.New("vectorstore: collection not found")

	// ErrCollectionExists reports creation of a collection that already
	// exists.
	ErrCollectionExists = errors.New("vectorstore: collection already exists")

	// ErrUnsupportedOperation reports an operation outside the adapter's
	// declared capabilities, such as cross-index copy on the namespace
	// backend.
	ErrUnsupportedOperation = errors.New("vectorstore: operation not supported by backend")

	// ErrUnauthorized reports a rejected credential during connect or a
	// data call.
	ErrUnauthorized = errors.New("vectorstore: unauthorized")
)

// ConfigError reports a connection profile missing a field the backend
// requires. Connect fails with it before any network call.
type ConfigError struct {
	Backend BackendKind
	Field   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("vectorstore: %s profile is missing required field %q", e.Backend, e.Field)
}

// IsNotConnectedError reports whether err means no live client exists.
func IsNotConnectedError(err error) bool {
	return errors.Is(err, ErrNotConnected)
}

// IsCollectionNotFoundError reports whether err means the collection does
// not exist.
func IsCollectionNotFoundError(err error) bool {
	return errors.Is(err, ErrCollectionNotFound)
}

// IsCollectionExistsError reports whether err means the collection already
// exists.
func IsCollectionExistsError(err error) bool {
	return errors.Is(err, ErrCollectionExists)
}

// IsUnsupportedOperationError reports whether err means the backend cannot
// perform the operation.
func IsUnsupportedOperationError(err error) bool {
	return errors.Is(err, ErrUnsupportedOperation)
}

// IsConfigError reports whether err is a profile validation failure and
// returns it when so.
func IsConfigError(err error) (*ConfigError, bool) {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr, true
	}
	return nil, false
}
