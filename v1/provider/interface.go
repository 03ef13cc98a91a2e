package provider

import "context"

// EmbeddingClient is the capability every provider adapter exposes: turn a
// batch of texts into one vector per text, in input order.
//
// Implementations must submit the whole batch as a single provider call
// where the upstream API supports it, and must be safe for concurrent use.
type EmbeddingClient interface {
	// Embed returns one vector per input text, in the same order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Provider returns the canonical provider id, e.g. "openai".
	Provider() string

	// Model returns the model the client was constructed with.
	Model() string
}
