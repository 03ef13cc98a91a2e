package provider

import (
	"context"
	"fmt"
	"net/http"
)

const defaultHuggingFaceEndpoint = "https://api-inference.huggingface.co"

type huggingFaceClient struct {
	model    string
	endpoint string
	apiKey   string
	client   *http.Client
}

func newHuggingFace(cfg Config) (EmbeddingClient, error) {
	key, err := resolveAPIKey("huggingface", cfg)
	if err != nil {
		return nil, err
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultHuggingFaceEndpoint
	}
	return &huggingFaceClient{
		model:    cfg.Model,
		endpoint: endpoint,
		apiKey:   key,
		client:   &http.Client{Timeout: cfg.timeout()},
	}, nil
}

func (c *huggingFaceClient) Provider() string {
	return "huggingface"
}

func (c *huggingFaceClient) Model() string {
	return c.model
}

type huggingFaceEmbedRequest struct {
	Inputs []string `json:"inputs"`
}

// Embed calls the feature-extraction pipeline, which answers with a bare
// array of vectors rather than a wrapper object.
func (c *huggingFaceClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	url := c.endpoint + "/pipeline/feature-extraction/" + c.model

	var vectors [][]float32
	if err := postJSON(ctx, c.client, url, headers, huggingFaceEmbedRequest{Inputs: texts}, &vectors); err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, ErrNoEmbeddings
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("provider: huggingface returned %d embeddings for %d inputs", len(vectors), len(texts))
	}
	return vectors, nil
}
