package provider

import (
	"context"
	"fmt"
	"net/http"
)

const defaultOllamaEndpoint = "http://localhost:11434"

// ollamaClient talks to a local Ollama server, which needs no credential.
type ollamaClient struct {
	model    string
	endpoint string
	client   *http.Client
}

func newOllama(cfg Config) (EmbeddingClient, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultOllamaEndpoint
	}
	return &ollamaClient{
		model:    cfg.Model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: cfg.timeout()},
	}, nil
}

func (c *ollamaClient) Provider() string {
	return "ollama"
}

func (c *ollamaClient) Model() string {
	return c.model
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (c *ollamaClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	request := ollamaEmbedRequest{Model: c.model, Input: texts}

	var response ollamaEmbedResponse
	if err := postJSON(ctx, c.client, c.endpoint+"/api/embed", nil, request, &response); err != nil {
		return nil, err
	}
	if len(response.Embeddings) == 0 {
		return nil, ErrNoEmbeddings
	}
	if len(response.Embeddings) != len(texts) {
		return nil, fmt.Errorf("provider: ollama returned %d embeddings for %d inputs", len(response.Embeddings), len(texts))
	}
	return response.Embeddings, nil
}
