package provider

import (
	"context"
	"fmt"
	"net/http"
)

const defaultCohereEndpoint = "https://api.cohere.com/v1"

type cohereClient struct {
	model    string
	endpoint string
	apiKey   string
	client   *http.Client
}

func newCohere(cfg Config) (EmbeddingClient, error) {
	key, err := resolveAPIKey("cohere", cfg)
	if err != nil {
		return nil, err
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultCohereEndpoint
	}
	return &cohereClient{
		model:    cfg.Model,
		endpoint: endpoint,
		apiKey:   key,
		client:   &http.Client{Timeout: cfg.timeout()},
	}, nil
}

func (c *cohereClient) Provider() string {
	return "cohere"
}

func (c *cohereClient) Model() string {
	return c.model
}

type cohereEmbedRequest struct {
	Model     string   `json:"model"`
	Texts     []string `json:"texts"`
	InputType string   `json:"input_type"`
}

type cohereEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (c *cohereClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	request := cohereEmbedRequest{
		Model:     c.model,
		Texts:     texts,
		InputType: "search_document",
	}

	var response cohereEmbedResponse
	if err := postJSON(ctx, c.client, c.endpoint+"/embed", headers, request, &response); err != nil {
		return nil, err
	}
	if len(response.Embeddings) == 0 {
		return nil, ErrNoEmbeddings
	}
	if len(response.Embeddings) != len(texts) {
		return nil, fmt.Errorf("provider: cohere returned %d embeddings for %d inputs", len(response.Embeddings), len(texts))
	}
	return response.Embeddings, nil
}
