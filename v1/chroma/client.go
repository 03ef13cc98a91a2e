package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vectordesk/core/v1/vectorstore"
)

const (
	defaultTenant   = "default_tenant"
	defaultDatabase = "default_database"
	requestTimeout  = 30 * time.Second
)

// apiClient speaks the Chroma v2 REST API. Collection records live under
// the tenant/database scope; record operations address collections by id.
type apiClient struct {
	baseURL  string
	tenant   string
	database string
	apiKey   string
	http     *http.Client
}

func newAPIClient(url, tenant, database, apiKey string) *apiClient {
	return &apiClient{
		baseURL:  url + "/api/v2",
		tenant:   tenant,
		database: database,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: requestTimeout},
	}
}

func (c *apiClient) collectionsURL() string {
	return fmt.Sprintf("%s/tenants/%s/databases/%s/collections", c.baseURL, c.tenant, c.database)
}

func (c *apiClient) collectionURL(id, action string) string {
	if action == "" {
		return c.collectionsURL() + "/" + id
	}
	return c.collectionsURL() + "/" + id + "/" + action
}

// do sends one API call and decodes the response into out when non-nil.
func (c *apiClient) do(ctx context.Context, method, url string, body, out interface{}) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("chroma: encoding request: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return fmt.Errorf("chroma: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Chroma-Token", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("chroma: sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return statusError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("chroma: decoding response: %w", err)
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
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", vectorstore.ErrCollectionExists, msg)
	default:
		return fmt.Errorf("chroma: server returned status %d: %s", status, msg)
	}
}

func serverMessage(body []byte) string {
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return string(body)
}

// healthCheck verifies the server answers before the adapter reports
// itself connected.
func (c *apiClient) healthCheck(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, c.baseURL+"/healthcheck", nil, nil)
}

// ── Wire types ──

type collectionObject struct {
	ID                string                 `json:"id"`
	Name              string                 `json:"name"`
	Metadata          map[string]interface{} `json:"metadata"`
	Dimension         int                    `json:"dimension"`
	ConfigurationJSON map[string]interface{} `json:"configuration_json"`
}

type createCollectionRequest struct {
	Name          string                 `json:"name"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	Configuration map[string]interface{} `json:"configuration,omitempty"`
}

type addRequest struct {
	IDs        []string                 `json:"ids"`
	Documents  []string                 `json:"documents,omitempty"`
	Metadatas  []map[string]interface{} `json:"metadatas,omitempty"`
	Embeddings [][]float32              `json:"embeddings,omitempty"`
}

type deleteRequest struct {
	IDs []string `json:"ids"`
}

type getRequest struct {
	IDs     []string               `json:"ids,omitempty"`
	Where   map[string]interface{} `json:"where,omitempty"`
	Limit   int                    `json:"limit,omitempty"`
	Offset  int                    `json:"offset,omitempty"`
	Include []string               `json:"include,omitempty"`
}

// getResponse carries flat arrays; documents may hold nulls for records
// without text.
type getResponse struct {
	IDs        []string                 `json:"ids"`
	Documents  []*string                `json:"documents"`
	Metadatas  []map[string]interface{} `json:"metadatas"`
	Embeddings [][]float32              `json:"embeddings"`
}

type queryRequest struct {
	QueryTexts []string               `json:"query_texts"`
	NResults   int                    `json:"n_results"`
	Where      map[string]interface{} `json:"where,omitempty"`
	Include    []string               `json:"include,omitempty"`
}

// queryResponse nests one result list per query text.
type queryResponse struct {
	IDs        [][]string                 `json:"ids"`
	Documents  [][]*string                `json:"documents"`
	Metadatas  [][]map[string]interface{} `json:"metadatas"`
	Distances  [][]float64                `json:"distances"`
	Embeddings [][][]float32              `json:"embeddings"`
}

// ── Collection calls ──

func (c *apiClient) listCollections(ctx context.Context) ([]collectionObject, error) {
	var out []collectionObject
	if err := c.do(ctx, http.MethodGet, c.collectionsURL(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *apiClient) createCollection(ctx context.Context, req createCollectionRequest) (*collectionObject, error) {
	var out collectionObject
	if err := c.do(ctx, http.MethodPost, c.collectionsURL(), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) deleteCollection(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.collectionURL(id, ""), nil, nil)
}

func (c *apiClient) countRecords(ctx context.Context, id string) (int64, error) {
	var count int64
	if err := c.do(ctx, http.MethodGet, c.collectionURL(id, "count"), nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// ── Record calls ──

func (c *apiClient) addRecords(ctx context.Context, id string, req addRequest) error {
	return c.do(ctx, http.MethodPost, c.collectionURL(id, "add"), req, nil)
}

func (c *apiClient) updateRecords(ctx context.Context, id string, req addRequest) error {
	return c.do(ctx, http.MethodPost, c.collectionURL(id, "update"), req, nil)
}

func (c *apiClient) deleteRecords(ctx context.Context, id string, req deleteRequest) error {
	return c.do(ctx, http.MethodPost, c.collectionURL(id, "delete"), req, nil)
}

func (c *apiClient) getRecords(ctx context.Context, id string, req getRequest) (*getResponse, error) {
	var out getResponse
	if err := c.do(ctx, http.MethodPost, c.collectionURL(id, "get"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) queryRecords(ctx context.Context, id string, req queryRequest) (*queryResponse, error) {
	var out queryResponse
	if err := c.do(ctx, http.MethodPost, c.collectionURL(id, "query"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
