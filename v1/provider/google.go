package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const defaultGoogleEndpoint = "https://generativelanguage.googleapis.com/v1beta"

type googleClient struct {
	model    string
	endpoint string
	apiKey   string
	client   *http.Client
}

func newGoogle(cfg Config) (EmbeddingClient, error) {
	key, err := resolveAPIKey("google", cfg)
	if err != nil {
		return nil, err
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultGoogleEndpoint
	}
	return &googleClient{
		model:    cfg.Model,
		endpoint: endpoint,
		apiKey:   key,
		client:   &http.Client{Timeout: cfg.timeout()},
	}, nil
}

func (c *googleClient) Provider() string {
	return "google"
}

func (c *googleClient) Model() string {
	return c.model
}

type googlePart struct {
	Text string `json:"text"`
}

type googleContent struct {
	Parts []googlePart `json:"parts"`
}

type googleEmbedItem struct {
	Model   string        `json:"model"`
	Content googleContent `json:"content"`
}

type googleEmbedRequest struct {
	Requests []googleEmbedItem `json:"requests"`
}

type googleEmbedResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

// Embed uses the batch endpoint so one call covers every input. The model is
// repeated per item in the "models/<name>" form the API expects.
func (c *googleClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	model := c.model
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}

	request := googleEmbedRequest{Requests: make([]googleEmbedItem, len(texts))}
	for i, text := range texts {
		request.Requests[i] = googleEmbedItem{
			Model:   model,
			Content: googleContent{Parts: []googlePart{{Text: text}}},
		}
	}

	endpoint := fmt.Sprintf("%s/%s:batchEmbedContents?key=%s", c.endpoint, model, url.QueryEscape(c.apiKey))

	var response googleEmbedResponse
	if err := postJSON(ctx, c.client, endpoint, nil, request, &response); err != nil {
		return nil, err
	}
	if len(response.Embeddings) == 0 {
		return nil, ErrNoEmbeddings
	}
	if len(response.Embeddings) != len(texts) {
		return nil, fmt.Errorf("provider: google returned %d embeddings for %d inputs", len(response.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(response.Embeddings))
	for i, item := range response.Embeddings {
		vectors[i] = item.Values
	}
	return vectors, nil
}
