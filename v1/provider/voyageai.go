package provider

const defaultVoyageAIEndpoint = "https://api.voyageai.com/v1"

// Voyage AI serves embeddings through an OpenAI-compatible API.
func newVoyageAI(cfg Config) (EmbeddingClient, error) {
	return newOpenAICompat("voyageai", defaultVoyageAIEndpoint, cfg)
}
