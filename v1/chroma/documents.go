package chroma

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vectordesk/core/v1/embedding"
	"github.com/vectordesk/core/v1/vectorstore"
)

// SearchDocuments runs one of the three search modes. The override
// descriptor has no effect on this backend: queries are embedded by the
// server from the collection's own configuration.
func (s *Store) SearchDocuments(ctx context.Context, req vectorstore.SearchRequest, override *embedding.Descriptor) ([]vectorstore.DocumentRecord, error) {
	api, err := s.client()
	if err != nil {
		return nil, err
	}
	if override != nil {
		s.log.Debug("embedding override ignored, this backend embeds server-side", nil, map[string]interface{}{
			"collection": req.Collection,
		})
	}

	id, err := s.resolveCollectionID(ctx, req.Collection)
	if err != nil {
		return nil, err
	}

	switch req.Mode() {
	case vectorstore.ModeSemantic:
		return s.searchSemantic(ctx, api, id, req)
	case vectorstore.ModeFetch:
		return s.fetchByID(ctx, api, id, req)
	default:
		return s.listRecords(ctx, api, id, req)
	}
}

func (s *Store) searchSemantic(ctx context.Context, api *apiClient, id string, req vectorstore.SearchRequest) ([]vectorstore.DocumentRecord, error) {
	include := []string{"documents", "metadatas", "distances"}
	if req.IncludeEmbeddings {
		include = append(include, "embeddings")
	}

	start := time.Now()
	resp, err := api.queryRecords(ctx, id, queryRequest{
		QueryTexts: []string{req.Query},
		NResults:   req.EffectiveLimit(),
		Where:      vectorstore.Normalize(req.Where),
		Include:    include,
	})
	if err != nil {
		s.observe("search", req.Collection, "semantic", start, 0, err)
		return nil, err
	}

	records := recordsFromQuery(resp)
	s.observe("search", req.Collection, "semantic", start, int64(len(records)), nil)
	return records, nil
}

func (s *Store) fetchByID(ctx context.Context, api *apiClient, id string, req vectorstore.SearchRequest) ([]vectorstore.DocumentRecord, error) {
	start := time.Now()
	resp, err := api.getRecords(ctx, id, getRequest{
		IDs:     req.IDs,
		Include: includeFields(req.IncludeEmbeddings),
	})
	if err != nil {
		s.observe("search", req.Collection, "fetch", start, 0, err)
		return nil, err
	}

	records := recordsFromGet(resp)
	s.observe("search", req.Collection, "fetch", start, int64(len(records)), nil)
	return records, nil
}

func (s *Store) listRecords(ctx context.Context, api *apiClient, id string, req vectorstore.SearchRequest) ([]vectorstore.DocumentRecord, error) {
	start := time.Now()
	resp, err := api.getRecords(ctx, id, getRequest{
		Where:   vectorstore.Normalize(req.Where),
		Limit:   req.EffectiveLimit(),
		Offset:  req.Offset,
		Include: includeFields(req.IncludeEmbeddings),
	})
	if err != nil {
		s.observe("search", req.Collection, "list", start, 0, err)
		return nil, err
	}

	records := recordsFromGet(resp)
	s.observe("search", req.Collection, "list", start, int64(len(records)), nil)
	return records, nil
}

// CreateDocument writes one document. Records need text or an explicit
// vector; with text only, the server computes the embedding.
func (s *Store) CreateDocument(ctx context.Context, collection string, doc vectorstore.DocumentRecord) error {
	api, err := s.client()
	if err != nil {
		return err
	}
	if doc.Document == "" && len(doc.Embedding) == 0 {
		return fmt.Errorf("chroma: document needs text or an embedding")
	}

	id, err := s.resolveCollectionID(ctx, collection)
	if err != nil {
		return err
	}

	req, _ := buildAddRequest([]vectorstore.DocumentRecord{doc})

	start := time.Now()
	err = api.addRecords(ctx, id, req)
	s.observe("create_document", collection, "", start, 1, err)
	return err
}

// UpdateDocument overwrites fields of an existing record by id.
func (s *Store) UpdateDocument(ctx context.Context, collection string, doc vectorstore.DocumentRecord) error {
	api, err := s.client()
	if err != nil {
		return err
	}
	if doc.ID == "" {
		return fmt.Errorf("chroma: document id is required for update")
	}

	id, err := s.resolveCollectionID(ctx, collection)
	if err != nil {
		return err
	}

	req := addRequest{IDs: []string{doc.ID}}
	if doc.Document != "" {
		req.Documents = []string{doc.Document}
	}
	if doc.Metadata != nil {
		req.Metadatas = []map[string]interface{}{doc.Metadata}
	}
	if len(doc.Embedding) > 0 {
		req.Embeddings = [][]float32{doc.Embedding}
	}

	start := time.Now()
	err = api.updateRecords(ctx, id, req)
	s.observe("update_document", collection, "", start, 1, err)
	return err
}

// DeleteDocuments removes records by id.
func (s *Store) DeleteDocuments(ctx context.Context, collection string, ids []string) error {
	api, err := s.client()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	id, err := s.resolveCollectionID(ctx, collection)
	if err != nil {
		return err
	}

	start := time.Now()
	err = api.deleteRecords(ctx, id, deleteRequest{IDs: ids})
	s.observe("delete_documents", collection, "", start, int64(len(ids)), err)
	return err
}

// CreateDocumentsBatch writes documents in fixed-size chunks. Invalid
// records and failed chunks each contribute an error entry while the rest
// of the batch proceeds.
func (s *Store) CreateDocumentsBatch(ctx context.Context, collection string, docs []vectorstore.DocumentRecord) (*vectorstore.BatchResult, error) {
	api, err := s.client()
	if err != nil {
		return nil, err
	}

	id, err := s.resolveCollectionID(ctx, collection)
	if err != nil {
		return nil, err
	}

	result := &vectorstore.BatchResult{}
	valid := make([]vectorstore.DocumentRecord, 0, len(docs))
	for i, doc := range docs {
		if doc.Document == "" && len(doc.Embedding) == 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("document %d: no text or embedding", i))
			continue
		}
		valid = append(valid, doc)
	}

	start := time.Now()
	for chunkIndex, chunk := range vectorstore.ChunkDocuments(valid, vectorstore.DefaultBatchSize) {
		req, ids := buildAddRequest(chunk)
		if err := api.addRecords(ctx, id, req); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("batch %d (%d documents): %v", chunkIndex+1, len(chunk), err))
			continue
		}
		result.CreatedIDs = append(result.CreatedIDs, ids...)
	}
	s.observe("create_documents_batch", collection, "", start, int64(len(result.CreatedIDs)), nil)

	return result, nil
}

// FetchAllDocuments bulk-reads the whole collection with text, metadata
// and vectors in one call.
func (s *Store) FetchAllDocuments(ctx context.Context, collection string) ([]vectorstore.DocumentRecord, error) {
	api, err := s.client()
	if err != nil {
		return nil, err
	}

	id, err := s.resolveCollectionID(ctx, collection)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := api.getRecords(ctx, id, getRequest{
		Include: []string{"documents", "metadatas", "embeddings"},
	})
	if err != nil {
		s.observe("fetch_all", collection, "", start, 0, err)
		return nil, err
	}

	records := recordsFromGet(resp)
	s.observe("fetch_all", collection, "", start, int64(len(records)), nil)
	return records, nil
}

// buildAddRequest assembles the wire arrays for a chunk, generating ids for
// records without one. Embeddings are sent only when every record in the
// chunk carries a vector; otherwise the server embeds from text.
func buildAddRequest(docs []vectorstore.DocumentRecord) (addRequest, []string) {
	req := addRequest{
		IDs:       make([]string, len(docs)),
		Documents: make([]string, len(docs)),
		Metadatas: make([]map[string]interface{}, len(docs)),
	}

	allVectors := true
	for _, doc := range docs {
		if len(doc.Embedding) == 0 {
			allVectors = false
			break
		}
	}
	if allVectors {
		req.Embeddings = make([][]float32, len(docs))
	}

	for i, doc := range docs {
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		req.IDs[i] = doc.ID
		req.Documents[i] = doc.Document
		req.Metadatas[i] = doc.Metadata
		if allVectors {
			req.Embeddings[i] = doc.Embedding
		}
	}
	return req, req.IDs
}

func includeFields(withEmbeddings bool) []string {
	include := []string{"documents", "metadatas"}
	if withEmbeddings {
		include = append(include, "embeddings")
	}
	return include
}

// recordsFromGet converts a flat get response.
func recordsFromGet(resp *getResponse) []vectorstore.DocumentRecord {
	records := make([]vectorstore.DocumentRecord, len(resp.IDs))
	for i, id := range resp.IDs {
		rec := vectorstore.DocumentRecord{ID: id}
		if i < len(resp.Documents) && resp.Documents[i] != nil {
			rec.Document = *resp.Documents[i]
		}
		if i < len(resp.Metadatas) {
			rec.Metadata = resp.Metadatas[i]
		}
		if i < len(resp.Embeddings) {
			rec.Embedding = resp.Embeddings[i]
		}
		records[i] = rec
	}
	return records
}

// recordsFromQuery converts the first row of a nested query response.
func recordsFromQuery(resp *queryResponse) []vectorstore.DocumentRecord {
	if len(resp.IDs) == 0 {
		return nil
	}

	ids := resp.IDs[0]
	records := make([]vectorstore.DocumentRecord, len(ids))
	for i, id := range ids {
		rec := vectorstore.DocumentRecord{ID: id}
		if len(resp.Documents) > 0 && i < len(resp.Documents[0]) && resp.Documents[0][i] != nil {
			rec.Document = *resp.Documents[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			rec.Metadata = resp.Metadatas[0][i]
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			distance := resp.Distances[0][i]
			rec.Distance = &distance
		}
		if len(resp.Embeddings) > 0 && i < len(resp.Embeddings[0]) {
			rec.Embedding = resp.Embeddings[0][i]
		}
		records[i] = rec
	}
	return records
}
