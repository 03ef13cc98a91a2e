package pinecone

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/vectordesk/core/v1/embedding"
	"github.com/vectordesk/core/v1/vectorstore"
)

// fakeEmbedder answers the local-model embed API with deterministic
// vectors, one provider call per request.
type fakeEmbedder struct {
	mu    sync.Mutex
	dim   int
	calls int
}

func newFakeEmbedder(t *testing.T, dim int) (*fakeEmbedder, *httptest.Server) {
	t.Helper()
	f := &fakeEmbedder{dim: dim}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("embedder path = %s", r.URL.Path)
		}
		var req struct {
			Input []string `json:"input"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		f.mu.Lock()
		f.calls++
		f.mu.Unlock()

		vectors := make([][]float32, len(req.Input))
		for i := range vectors {
			v := make([]float32, f.dim)
			v[0] = float32(i + 1)
			vectors[i] = v
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"embeddings": vectors})
	}))
	t.Cleanup(server.Close)
	return f, server
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func localDescriptor(url string) *embedding.Descriptor {
	return &embedding.Descriptor{
		Name: "ollama",
		Config: map[string]interface{}{
			"url":        url,
			"model_name": "nomic-embed-text",
		},
	}
}

func registerCollection(t *testing.T, store *Store, name string, d *embedding.Descriptor) {
	t.Helper()
	if _, err := store.CreateCollection(context.Background(), vectorstore.CollectionSpec{
		Name:              name,
		EmbeddingFunction: d,
	}); err != nil {
		t.Fatalf("CreateCollection(%s) failed: %v", name, err)
	}
}

func TestSearchSemanticEmbedsQueryClientSide(t *testing.T) {
	embedder, embedServer := newFakeEmbedder(t, 4)
	fake := &fakeIndex{
		queryResp: queryResponse{Matches: []queryMatch{
			{ID: "d1", Score: 0.91, Metadata: map[string]interface{}{
				vectorstore.DocumentTextKey: "dogs are loyal",
				"topic":                     "pets",
			}},
		}},
	}
	store := connectedStore(t, fake, nil)
	registerCollection(t, store, "kb", localDescriptor(embedServer.URL))

	records, err := store.SearchDocuments(context.Background(), vectorstore.SearchRequest{
		Collection: "kb",
		Query:      "dogs",
		Where:      map[string]interface{}{"topic": "pets"},
	}, nil)
	if err != nil {
		t.Fatalf("SearchDocuments failed: %v", err)
	}

	if embedder.callCount() != 1 {
		t.Errorf("embedder calls = %d, want 1", embedder.callCount())
	}

	fake.mu.Lock()
	query := fake.lastQuery
	fake.mu.Unlock()
	if query == nil {
		t.Fatal("query request not sent")
	}
	if len(query.Vector) != 4 {
		t.Errorf("query vector length = %d", len(query.Vector))
	}
	if query.TopK != vectorstore.DefaultSearchLimit {
		t.Errorf("TopK = %d, want %d", query.TopK, vectorstore.DefaultSearchLimit)
	}
	if query.Namespace != "kb" {
		t.Errorf("Namespace = %q", query.Namespace)
	}
	wantFilter := map[string]interface{}{"topic": map[string]interface{}{"$eq": "pets"}}
	if !reflect.DeepEqual(query.Filter, wantFilter) {
		t.Errorf("Filter = %v", query.Filter)
	}

	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}
	if records[0].Document != "dogs are loyal" {
		t.Errorf("Document = %q", records[0].Document)
	}
	if _, leaked := records[0].Metadata[vectorstore.DocumentTextKey]; leaked {
		t.Error("reserved text key leaked into returned metadata")
	}
	if records[0].Metadata["topic"] != "pets" {
		t.Errorf("Metadata = %v", records[0].Metadata)
	}
	if records[0].Distance == nil || *records[0].Distance != 0.91 {
		t.Errorf("Distance = %v", records[0].Distance)
	}
}

func TestSearchSemanticWithoutEmbeddingFunction(t *testing.T) {
	fake := &fakeIndex{namespaces: map[string]int64{"plain": 3}}
	store := connectedStore(t, fake, nil)

	_, err := store.SearchDocuments(context.Background(), vectorstore.SearchRequest{
		Collection: "plain",
		Query:      "anything",
	}, nil)
	if !embedding.IsNoEmbeddingFunctionError(err) {
		t.Fatalf("err = %v, want ErrNoEmbeddingFunction", err)
	}
}

func TestSearchSemanticOverrideDescriptor(t *testing.T) {
	embedder, embedServer := newFakeEmbedder(t, 4)
	fake := &fakeIndex{namespaces: map[string]int64{"plain": 3}}
	store := connectedStore(t, fake, nil)

	_, err := store.SearchDocuments(context.Background(), vectorstore.SearchRequest{
		Collection: "plain",
		Query:      "anything",
	}, localDescriptor(embedServer.URL))
	if err != nil {
		t.Fatalf("SearchDocuments with override failed: %v", err)
	}
	if embedder.callCount() != 1 {
		t.Errorf("embedder calls = %d, want 1", embedder.callCount())
	}
}

func TestSearchFetchPreservesRequestOrder(t *testing.T) {
	fake := &fakeIndex{
		namespaces: map[string]int64{"kb": 2},
		stored: map[string]map[string]vectorObject{
			"kb": {
				"a": {ID: "a", Values: []float32{1, 0}, Metadata: map[string]interface{}{
					vectorstore.DocumentTextKey: "first",
				}},
				"b": {ID: "b", Values: []float32{0, 1}, Metadata: map[string]interface{}{
					vectorstore.DocumentTextKey: "second",
				}},
			},
		},
	}
	store := connectedStore(t, fake, nil)

	records, err := store.SearchDocuments(context.Background(), vectorstore.SearchRequest{
		Collection: "kb",
		IDs:        []string{"b", "a", "missing"},
	}, nil)
	if err != nil {
		t.Fatalf("SearchDocuments failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (missing id skipped)", len(records))
	}
	if records[0].ID != "b" || records[1].ID != "a" {
		t.Errorf("order = %s, %s, want request order", records[0].ID, records[1].ID)
	}
	if records[0].Document != "second" {
		t.Errorf("Document = %q", records[0].Document)
	}
	if records[0].Embedding != nil {
		t.Error("vectors returned without being requested")
	}
}

func TestSearchListBrowsesWithProbe(t *testing.T) {
	fake := &fakeIndex{
		namespaces: map[string]int64{"kb": 5},
		queryResp: queryResponse{Matches: []queryMatch{
			{ID: "d1"}, {ID: "d2"}, {ID: "d3"},
		}},
	}
	store := connectedStore(t, fake, nil)

	records, err := store.SearchDocuments(context.Background(), vectorstore.SearchRequest{
		Collection: "kb",
		Limit:      2,
		Offset:     1,
	}, nil)
	if err != nil {
		t.Fatalf("SearchDocuments failed: %v", err)
	}

	fake.mu.Lock()
	query := fake.lastQuery
	fake.mu.Unlock()
	if query.TopK != 3 {
		t.Errorf("TopK = %d, want offset+limit", query.TopK)
	}
	wantProbe := []float32{1, 0, 0, 0}
	if !reflect.DeepEqual(query.Vector, wantProbe) {
		t.Errorf("probe vector = %v", query.Vector)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ID != "d2" {
		t.Errorf("records[0].ID = %s, want offset applied", records[0].ID)
	}
	if records[0].Distance != nil {
		t.Error("probe score reported as relevance")
	}
}

func TestCreateDocumentEmbedsText(t *testing.T) {
	embedder, embedServer := newFakeEmbedder(t, 4)
	fake := &fakeIndex{}
	store := connectedStore(t, fake, nil)
	registerCollection(t, store, "kb", localDescriptor(embedServer.URL))

	err := store.CreateDocument(context.Background(), "kb", vectorstore.DocumentRecord{
		Document: "hello",
		Metadata: map[string]interface{}{"a": 1},
	})
	if err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}

	if embedder.callCount() != 1 {
		t.Errorf("embedder calls = %d, want 1", embedder.callCount())
	}

	fake.mu.Lock()
	upsert := fake.lastUpsert
	fake.mu.Unlock()
	if upsert == nil || len(upsert.Vectors) != 1 {
		t.Fatalf("upsert = %+v", upsert)
	}
	vector := upsert.Vectors[0]
	if vector.ID == "" {
		t.Error("id not generated")
	}
	if len(vector.Values) != 4 {
		t.Errorf("values length = %d", len(vector.Values))
	}
	if vector.Metadata[vectorstore.DocumentTextKey] != "hello" {
		t.Errorf("text not smuggled into metadata: %v", vector.Metadata)
	}
}

func TestCreateDocumentUsesProvidedVector(t *testing.T) {
	fake := &fakeIndex{namespaces: map[string]int64{"plain": 1}}
	store := connectedStore(t, fake, nil)

	// No embedding function anywhere; an explicit vector must not try to
	// resolve one.
	err := store.CreateDocument(context.Background(), "plain", vectorstore.DocumentRecord{
		ID:        "v-1",
		Embedding: []float32{0.5, 0.5, 0, 0},
	})
	if err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}

	fake.mu.Lock()
	vector := fake.lastUpsert.Vectors[0]
	fake.mu.Unlock()
	if !reflect.DeepEqual(vector.Values, []float32{0.5, 0.5, 0, 0}) {
		t.Errorf("Values = %v", vector.Values)
	}
}

func TestDocumentRoundTripKeepsTextAndMetadata(t *testing.T) {
	_, embedServer := newFakeEmbedder(t, 4)
	fake := &fakeIndex{}
	store := connectedStore(t, fake, nil)
	registerCollection(t, store, "kb", localDescriptor(embedServer.URL))

	err := store.CreateDocument(context.Background(), "kb", vectorstore.DocumentRecord{
		ID:       "doc-1",
		Document: "hello",
		Metadata: map[string]interface{}{"a": 1},
	})
	if err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}

	records, err := store.SearchDocuments(context.Background(), vectorstore.SearchRequest{
		Collection: "kb",
		IDs:        []string{"doc-1"},
	}, nil)
	if err != nil {
		t.Fatalf("SearchDocuments failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}

	rec := records[0]
	if rec.Document != "hello" {
		t.Errorf("Document = %q, want round-tripped text", rec.Document)
	}
	if rec.Metadata["a"] != float64(1) {
		t.Errorf("Metadata = %v", rec.Metadata)
	}
	if _, leaked := rec.Metadata[vectorstore.DocumentTextKey]; leaked {
		t.Error("reserved text key leaked into returned metadata")
	}
}

func TestUpdateDocumentReembedsNewText(t *testing.T) {
	embedder, embedServer := newFakeEmbedder(t, 4)
	fake := &fakeIndex{}
	store := connectedStore(t, fake, nil)
	registerCollection(t, store, "kb", localDescriptor(embedServer.URL))

	err := store.UpdateDocument(context.Background(), "kb", vectorstore.DocumentRecord{
		ID:       "doc-1",
		Document: "revised text",
	})
	if err != nil {
		t.Fatalf("UpdateDocument failed: %v", err)
	}

	if embedder.callCount() != 1 {
		t.Errorf("embedder calls = %d, want re-embed on text change", embedder.callCount())
	}

	fake.mu.Lock()
	update := fake.lastUpdate
	fake.mu.Unlock()
	if update == nil || update.ID != "doc-1" {
		t.Fatalf("update = %+v", update)
	}
	if len(update.Values) != 4 {
		t.Errorf("Values length = %d, want new vector", len(update.Values))
	}
	if update.SetMetadata[vectorstore.DocumentTextKey] != "revised text" {
		t.Errorf("SetMetadata = %v", update.SetMetadata)
	}
}

func TestUpdateDocumentMetadataOnly(t *testing.T) {
	fake := &fakeIndex{namespaces: map[string]int64{"plain": 1}}
	store := connectedStore(t, fake, nil)

	err := store.UpdateDocument(context.Background(), "plain", vectorstore.DocumentRecord{
		ID:       "doc-1",
		Metadata: map[string]interface{}{"reviewed": true},
	})
	if err != nil {
		t.Fatalf("UpdateDocument failed: %v", err)
	}

	fake.mu.Lock()
	update := fake.lastUpdate
	fake.mu.Unlock()
	if update.Values != nil {
		t.Errorf("Values = %v, want none for metadata-only update", update.Values)
	}
	if update.SetMetadata["reviewed"] != true {
		t.Errorf("SetMetadata = %v", update.SetMetadata)
	}
}

func TestUpdateDocumentRequiresID(t *testing.T) {
	store := connectedStore(t, &fakeIndex{namespaces: map[string]int64{"plain": 1}}, nil)

	err := store.UpdateDocument(context.Background(), "plain", vectorstore.DocumentRecord{Document: "text"})
	if err == nil || !strings.Contains(err.Error(), "id is required") {
		t.Fatalf("err = %v, want id validation failure", err)
	}
}

func TestDeleteDocuments(t *testing.T) {
	fake := &fakeIndex{namespaces: map[string]int64{"kb": 3}}
	store := connectedStore(t, fake, nil)

	if err := store.DeleteDocuments(context.Background(), "kb", nil); err != nil {
		t.Fatalf("empty delete = %v, want nil", err)
	}
	fake.mu.Lock()
	sent := fake.lastDelete
	fake.mu.Unlock()
	if sent != nil {
		t.Errorf("empty delete reached the server: %+v", sent)
	}

	if err := store.DeleteDocuments(context.Background(), "kb", []string{"a", "b"}); err != nil {
		t.Fatalf("DeleteDocuments failed: %v", err)
	}
	fake.mu.Lock()
	sent = fake.lastDelete
	fake.mu.Unlock()
	if sent == nil || !reflect.DeepEqual(sent.IDs, []string{"a", "b"}) || sent.Namespace != "kb" {
		t.Errorf("delete request = %+v", sent)
	}
}

func TestCreateDocumentsBatchEmbedsPerChunk(t *testing.T) {
	embedder, embedServer := newFakeEmbedder(t, 4)
	fake := &fakeIndex{}
	store := connectedStore(t, fake, nil)
	registerCollection(t, store, "kb", localDescriptor(embedServer.URL))

	docs := make([]vectorstore.DocumentRecord, 250)
	for i := range docs {
		docs[i] = vectorstore.DocumentRecord{Document: fmt.Sprintf("doc %d", i)}
	}
	docs[130] = vectorstore.DocumentRecord{ID: "empty"}

	result, err := store.CreateDocumentsBatch(context.Background(), "kb", docs)
	if err != nil {
		t.Fatalf("CreateDocumentsBatch failed: %v", err)
	}

	if len(result.CreatedIDs) != 249 {
		t.Errorf("CreatedIDs = %d, want 249", len(result.CreatedIDs))
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "document 130") {
		t.Errorf("Errors = %v", result.Errors)
	}
	if embedder.callCount() != 3 {
		t.Errorf("embedder calls = %d, want one per chunk", embedder.callCount())
	}

	fake.mu.Lock()
	upserts := fake.upsertCalls
	fake.mu.Unlock()
	if upserts != 3 {
		t.Errorf("upsertCalls = %d, want 3 (100+100+49)", upserts)
	}
}

func TestCreateDocumentsBatchContinuesPastFailedChunk(t *testing.T) {
	_, embedServer := newFakeEmbedder(t, 4)
	fake := &fakeIndex{failUpsertCall: 2}
	store := connectedStore(t, fake, nil)
	registerCollection(t, store, "kb", localDescriptor(embedServer.URL))

	docs := make([]vectorstore.DocumentRecord, 250)
	for i := range docs {
		docs[i] = vectorstore.DocumentRecord{Document: fmt.Sprintf("doc %d", i)}
	}

	result, err := store.CreateDocumentsBatch(context.Background(), "kb", docs)
	if err != nil {
		t.Fatalf("CreateDocumentsBatch failed: %v", err)
	}

	if len(result.CreatedIDs) != 150 {
		t.Errorf("CreatedIDs = %d, want 150", len(result.CreatedIDs))
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "batch 2") {
		t.Errorf("Errors = %v", result.Errors)
	}

	fake.mu.Lock()
	upserts := fake.upsertCalls
	fake.mu.Unlock()
	if upserts != 3 {
		t.Errorf("upsertCalls = %d, want 3 (failure must not stop the batch)", upserts)
	}
}

func TestFetchAllDocumentsWalksIDPages(t *testing.T) {
	fake := &fakeIndex{
		namespaces: map[string]int64{"kb": 5},
		stored: map[string]map[string]vectorObject{
			"kb": {
				"a": {ID: "a", Values: []float32{1}, Metadata: map[string]interface{}{vectorstore.DocumentTextKey: "doc a"}},
				"b": {ID: "b", Values: []float32{2}},
				"c": {ID: "c", Values: []float32{3}},
				"d": {ID: "d", Values: []float32{4}},
				"e": {ID: "e", Values: []float32{5}},
			},
		},
		listPages: []listResponse{
			{
				Vectors: []struct {
					ID string `json:"id"`
				}{{ID: "a"}, {ID: "b"}, {ID: "c"}},
				Pagination: &struct {
					Next string `json:"next"`
				}{Next: "page-2"},
			},
			{
				Vectors: []struct {
					ID string `json:"id"`
				}{{ID: "d"}, {ID: "e"}},
			},
		},
	}
	store := connectedStore(t, fake, nil)

	records, err := store.FetchAllDocuments(context.Background(), "kb")
	if err != nil {
		t.Fatalf("FetchAllDocuments failed: %v", err)
	}

	if len(records) != 5 {
		t.Fatalf("got %d records, want 5", len(records))
	}
	if records[0].ID != "a" || records[0].Document != "doc a" {
		t.Errorf("records[0] = %+v", records[0])
	}
	if len(records[0].Embedding) != 1 {
		t.Error("vectors missing from full export")
	}

	fake.mu.Lock()
	listCalls := fake.listCalls
	fake.mu.Unlock()
	if listCalls != 2 {
		t.Errorf("listCalls = %d, want pagination followed", listCalls)
	}
}
