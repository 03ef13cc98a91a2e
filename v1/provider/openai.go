package provider

import (
	"context"
	"fmt"
	"net/http"
	"sort"
)

const defaultOpenAIEndpoint = "https://api.openai.com/v1"

// openAICompatClient speaks the OpenAI embeddings wire format. Jina and
// Voyage AI expose the same request and response shapes, so all three
// providers share this client and differ only in endpoint and credentials.
type openAICompatClient struct {
	provider string
	model    string
	endpoint string
	apiKey   string
	client   *http.Client
}

func newOpenAICompat(providerID, defaultEndpoint string, cfg Config) (EmbeddingClient, error) {
	key, err := resolveAPIKey(providerID, cfg)
	if err != nil {
		return nil, err
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &openAICompatClient{
		provider: providerID,
		model:    cfg.Model,
		endpoint: endpoint,
		apiKey:   key,
		client:   &http.Client{Timeout: cfg.timeout()},
	}, nil
}

func newOpenAI(cfg Config) (EmbeddingClient, error) {
	return newOpenAICompat("openai", defaultOpenAIEndpoint, cfg)
}

func (c *openAICompatClient) Provider() string {
	return c.provider
}

func (c *openAICompatClient) Model() string {
	return c.model
}

type openAIEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type openAIEmbedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (c *openAICompatClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	request := openAIEmbedRequest{Model: c.model, Input: texts}

	var response openAIEmbedResponse
	if err := postJSON(ctx, c.client, c.endpoint+"/embeddings", headers, request, &response); err != nil {
		return nil, err
	}
	if len(response.Data) == 0 {
		return nil, ErrNoEmbeddings
	}
	if len(response.Data) != len(texts) {
		return nil, fmt.Errorf("provider: %s returned %d embeddings for %d inputs", c.provider, len(response.Data), len(texts))
	}

	// The API may return items out of order; Index restores input order.
	sort.Slice(response.Data, func(i, j int) bool {
		return response.Data[i].Index < response.Data[j].Index
	})
	vectors := make([][]float32, len(response.Data))
	for i, item := range response.Data {
		vectors[i] = item.Embedding
	}
	return vectors, nil
}
