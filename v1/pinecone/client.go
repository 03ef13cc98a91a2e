package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vectordesk/core/v1/vectorstore"
)

const (
	defaultControlPlane = "https://api.pinecone.io"
	requestTimeout      = 30 * time.Second

	// listPageSize is the id page size when walking a namespace.
	listPageSize = 100
)

// apiClient speaks the Pinecone REST API. Index discovery goes through the
// control plane; all vector operations go to the index host resolved (or
// configured) at connect time.
type apiClient struct {
	controlURL string
	hostURL    string
	apiKey     string
	http       *http.Client
}

func newAPIClient(controlURL, apiKey string) *apiClient {
	if controlURL == "" {
		controlURL = defaultControlPlane
	}
	return &apiClient{
		controlURL: strings.TrimRight(controlURL, "/"),
		apiKey:     apiKey,
		http:       &http.Client{Timeout: requestTimeout},
	}
}

// setHost pins the data-plane host, defaulting the scheme to https for the
// bare hostnames the control plane reports.
func (c *apiClient) setHost(host string) {
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	c.hostURL = strings.TrimRight(host, "/")
}

func (c *apiClient) do(ctx context.Context, method, rawURL string, body, out interface{}) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("pinecone: encoding request: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, payload)
	if err != nil {
		return fmt.Errorf("pinecone: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("pinecone: sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return statusError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("pinecone: decoding response: %w", err)
		}
	}
	return nil
}

// statusError maps API failures onto the shared error taxonomy, keeping the
// server's message in the chain.
func statusError(status int, body []byte) error {
	msg := serverMessage(body)
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", vectorstore.ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", vectorstore.ErrCollectionNotFound, msg)
	default:
		return fmt.Errorf("pinecone: server returned status %d: %s", status, msg)
	}
}

func serverMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error.Message != "" {
			return parsed.Error.Message
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return string(body)
}

// ── Wire types ──

type indexDescription struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Metric    string `json:"metric"`
	Host      string `json:"host"`
	Status    struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

type namespaceStats struct {
	VectorCount int64 `json:"vectorCount"`
}

type indexStats struct {
	Namespaces       map[string]namespaceStats `json:"namespaces"`
	Dimension        int                       `json:"dimension"`
	TotalVectorCount int64                     `json:"totalVectorCount"`
}

type vectorObject struct {
	ID       string                 `json:"id"`
	Values   []float32              `json:"values,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type upsertRequest struct {
	Vectors   []vectorObject `json:"vectors"`
	Namespace string         `json:"namespace,omitempty"`
}

type upsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

type updateRequest struct {
	ID          string                 `json:"id"`
	Values      []float32              `json:"values,omitempty"`
	SetMetadata map[string]interface{} `json:"setMetadata,omitempty"`
	Namespace   string                 `json:"namespace,omitempty"`
}

type queryRequest struct {
	Namespace       string                 `json:"namespace,omitempty"`
	TopK            int                    `json:"topK"`
	Vector          []float32              `json:"vector"`
	Filter          map[string]interface{} `json:"filter,omitempty"`
	IncludeValues   bool                   `json:"includeValues"`
	IncludeMetadata bool                   `json:"includeMetadata"`
}

type queryMatch struct {
	ID       string                 `json:"id"`
	Score    float64                `json:"score"`
	Values   []float32              `json:"values,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type queryResponse struct {
	Matches []queryMatch `json:"matches"`
}

type fetchResponse struct {
	Vectors map[string]vectorObject `json:"vectors"`
}

type deleteRequest struct {
	IDs       []string `json:"ids,omitempty"`
	DeleteAll bool     `json:"deleteAll,omitempty"`
	Namespace string   `json:"namespace,omitempty"`
}

type listResponse struct {
	Vectors []struct {
		ID string `json:"id"`
	} `json:"vectors"`
	Pagination *struct {
		Next string `json:"next"`
	} `json:"pagination"`
}

// ── Control plane ──

func (c *apiClient) describeIndex(ctx context.Context, name string) (*indexDescription, error) {
	var out indexDescription
	if err := c.do(ctx, http.MethodGet, c.controlURL+"/indexes/"+url.PathEscape(name), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Data plane ──

func (c *apiClient) describeStats(ctx context.Context) (*indexStats, error) {
	var out indexStats
	if err := c.do(ctx, http.MethodPost, c.hostURL+"/describe_index_stats", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) upsert(ctx context.Context, req upsertRequest) (int, error) {
	var out upsertResponse
	if err := c.do(ctx, http.MethodPost, c.hostURL+"/vectors/upsert", req, &out); err != nil {
		return 0, err
	}
	return out.UpsertedCount, nil
}

func (c *apiClient) update(ctx context.Context, req updateRequest) error {
	return c.do(ctx, http.MethodPost, c.hostURL+"/vectors/update", req, nil)
}

func (c *apiClient) query(ctx context.Context, req queryRequest) (*queryResponse, error) {
	var out queryResponse
	if err := c.do(ctx, http.MethodPost, c.hostURL+"/query", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) fetchVectors(ctx context.Context, namespace string, ids []string) (*fetchResponse, error) {
	params := url.Values{}
	for _, id := range ids {
		params.Add("ids", id)
	}
	if namespace != "" {
		params.Set("namespace", namespace)
	}

	var out fetchResponse
	if err := c.do(ctx, http.MethodGet, c.hostURL+"/vectors/fetch?"+params.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) deleteVectors(ctx context.Context, req deleteRequest) error {
	return c.do(ctx, http.MethodPost, c.hostURL+"/vectors/delete", req, nil)
}

func (c *apiClient) listVectors(ctx context.Context, namespace string, limit int, token string) (*listResponse, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if namespace != "" {
		params.Set("namespace", namespace)
	}
	if token != "" {
		params.Set("paginationToken", token)
	}

	var out listResponse
	if err := c.do(ctx, http.MethodGet, c.hostURL+"/vectors/list?"+params.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
