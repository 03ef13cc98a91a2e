package provider

const defaultJinaEndpoint = "https://api.jina.ai/v1"

// Jina AI serves embeddings through an OpenAI-compatible API.
func newJina(cfg Config) (EmbeddingClient, error) {
	return newOpenAICompat("jina", defaultJinaEndpoint, cfg)
}
