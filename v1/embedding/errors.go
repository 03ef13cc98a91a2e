package embedding

import "errors"

var (
	// ErrNoEmbeddingFunction reports that no usable embedding function is
	// configured for a collection: no source declares one, or the declared
	// function is legacy/unknown and cannot run client-side.
	ErrNoEmbeddingFunction = errors.New("embedding: no embedding function configured")

	// ErrNoInput reports an embed call with an empty text list.
	ErrNoInput = errors.New("embedding: no input texts")
)

// IsNoEmbeddingFunctionError reports whether err means a collection has no
// client-side-usable embedding function.
func IsNoEmbeddingFunctionError(err error) bool {
	return errors.Is(err, ErrNoEmbeddingFunction)
}
