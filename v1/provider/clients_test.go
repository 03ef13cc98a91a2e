package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCohereEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embed" {
			t.Errorf("path = %s, want /embed", r.URL.Path)
		}

		var req cohereEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.InputType != "search_document" {
			t.Errorf("input_type = %q, want search_document", req.InputType)
		}

		json.NewEncoder(w).Encode(cohereEmbedResponse{
			Embeddings: [][]float32{{0.1, 0.2}},
		})
	}))
	defer server.Close()

	client, err := Build("cohere", Config{APIKey: "test-key", Endpoint: server.URL})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	vectors, err := client.Embed(context.Background(), []string{"text"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vectors) != 1 || vectors[0][1] != 0.2 {
		t.Errorf("unexpected vectors: %v", vectors)
	}
}

func TestGoogleEmbedBatch(t *testing.T) {
	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")

		var req googleEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Requests) != 2 {
			t.Fatalf("batch size = %d, want 2", len(req.Requests))
		}
		if !strings.HasPrefix(req.Requests[0].Model, "models/") {
			t.Errorf("item model = %q, want models/ prefix", req.Requests[0].Model)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"embeddings": []map[string]interface{}{
				{"values": []float32{0.1}},
				{"values": []float32{0.2}},
			},
		})
	}))
	defer server.Close()

	client, err := Build("google", Config{APIKey: "secret", Endpoint: server.URL})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	vectors, err := client.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vectors))
	}
	if !strings.HasSuffix(gotPath, ":batchEmbedContents") {
		t.Errorf("path = %q, want :batchEmbedContents suffix", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("key query parameter = %q, want secret", gotKey)
	}
}

func TestOllamaEmbedNoAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("path = %s, want /api/embed", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("unexpected Authorization header %q", auth)
		}
		json.NewEncoder(w).Encode(ollamaEmbedResponse{
			Embeddings: [][]float32{{1, 2, 3}},
		})
	}))
	defer server.Close()

	client, err := Build("ollama", Config{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	vectors, err := client.Embed(context.Background(), []string{"text"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vectors) != 1 || len(vectors[0]) != 3 {
		t.Errorf("unexpected vectors: %v", vectors)
	}
}

func TestHuggingFaceEmbedBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/pipeline/feature-extraction/") {
			t.Errorf("path = %s, want feature-extraction pipeline", r.URL.Path)
		}
		json.NewEncoder(w).Encode([][]float32{{0.5, 0.6}})
	}))
	defer server.Close()

	client, err := Build("huggingface", Config{APIKey: "test-key", Endpoint: server.URL})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	vectors, err := client.Embed(context.Background(), []string{"text"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vectors) != 1 || vectors[0][0] != 0.5 {
		t.Errorf("unexpected vectors: %v", vectors)
	}
}
