package pinecone

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vectordesk/core/v1/embedding"
	"github.com/vectordesk/core/v1/vectorstore"
)

// SearchDocuments runs one of the three search modes. Semantic queries are
// embedded client-side through the resolver; the override descriptor takes
// precedence for that embedding only.
func (s *Store) SearchDocuments(ctx context.Context, req vectorstore.SearchRequest, override *embedding.Descriptor) ([]vectorstore.DocumentRecord, error) {
	api, gen, err := s.session()
	if err != nil {
		return nil, err
	}
	if _, err := s.GetCollection(ctx, req.Collection); err != nil {
		return nil, err
	}

	namespace := toNamespace(req.Collection)
	switch req.Mode() {
	case vectorstore.ModeSemantic:
		return s.searchSemantic(ctx, api, gen, namespace, req, override)
	case vectorstore.ModeFetch:
		return s.fetchByID(ctx, api, namespace, req)
	default:
		return s.listRecords(ctx, api, namespace, req)
	}
}

func (s *Store) searchSemantic(ctx context.Context, api *apiClient, gen *embedding.Generator, namespace string, req vectorstore.SearchRequest, override *embedding.Descriptor) ([]vectorstore.DocumentRecord, error) {
	vector, err := gen.EmbedOne(ctx, req.Collection, req.Query, override)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := api.query(ctx, queryRequest{
		Namespace:       namespace,
		TopK:            req.EffectiveLimit(),
		Vector:          vector,
		Filter:          vectorstore.Normalize(req.Where),
		IncludeMetadata: true,
		IncludeValues:   req.IncludeEmbeddings,
	})
	if err != nil {
		s.observe("search", req.Collection, "semantic", start, 0, err)
		return nil, err
	}

	records := make([]vectorstore.DocumentRecord, len(resp.Matches))
	for i, match := range resp.Matches {
		records[i] = recordFromMatch(match, true, req.IncludeEmbeddings)
	}
	s.observe("search", req.Collection, "semantic", start, int64(len(records)), nil)
	return records, nil
}

func (s *Store) fetchByID(ctx context.Context, api *apiClient, namespace string, req vectorstore.SearchRequest) ([]vectorstore.DocumentRecord, error) {
	start := time.Now()
	resp, err := api.fetchVectors(ctx, namespace, req.IDs)
	if err != nil {
		s.observe("search", req.Collection, "fetch", start, 0, err)
		return nil, err
	}

	// The wire response is keyed by id; answer in request order and skip
	// ids the namespace does not hold.
	records := make([]vectorstore.DocumentRecord, 0, len(req.IDs))
	for _, id := range req.IDs {
		obj, ok := resp.Vectors[id]
		if !ok {
			continue
		}
		records = append(records, recordFromVector(obj, req.IncludeEmbeddings))
	}
	s.observe("search", req.Collection, "fetch", start, int64(len(records)), nil)
	return records, nil
}

// listRecords browses a namespace. The wire format paginates ids by token
// and only filters on query, so browsing runs a filtered query against a
// fixed probe vector, over-fetching by the offset and slicing locally.
// Probe scores are not relevance and are dropped.
func (s *Store) listRecords(ctx context.Context, api *apiClient, namespace string, req vectorstore.SearchRequest) ([]vectorstore.DocumentRecord, error) {
	dimension := s.indexDimension()
	if dimension <= 0 {
		return nil, fmt.Errorf("pinecone: index dimension unknown")
	}
	probe := make([]float32, dimension)
	probe[0] = 1

	start := time.Now()
	resp, err := api.query(ctx, queryRequest{
		Namespace:       namespace,
		TopK:            req.Offset + req.EffectiveLimit(),
		Vector:          probe,
		Filter:          vectorstore.Normalize(req.Where),
		IncludeMetadata: true,
		IncludeValues:   req.IncludeEmbeddings,
	})
	if err != nil {
		s.observe("search", req.Collection, "list", start, 0, err)
		return nil, err
	}

	matches := resp.Matches
	if req.Offset >= len(matches) {
		matches = nil
	} else {
		matches = matches[req.Offset:]
	}

	records := make([]vectorstore.DocumentRecord, len(matches))
	for i, match := range matches {
		records[i] = recordFromMatch(match, false, req.IncludeEmbeddings)
	}
	s.observe("search", req.Collection, "list", start, int64(len(records)), nil)
	return records, nil
}

// CreateDocument writes one document, embedding its text client-side when
// no vector is provided.
func (s *Store) CreateDocument(ctx context.Context, collection string, doc vectorstore.DocumentRecord) error {
	api, gen, err := s.session()
	if err != nil {
		return err
	}
	if doc.Document == "" && len(doc.Embedding) == 0 {
		return fmt.Errorf("pinecone: document needs text or an embedding")
	}
	if _, err := s.GetCollection(ctx, collection); err != nil {
		return err
	}

	vectors, _, err := s.vectorsForChunk(ctx, gen, collection, []vectorstore.DocumentRecord{doc})
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = api.upsert(ctx, upsertRequest{Vectors: vectors, Namespace: toNamespace(collection)})
	s.observe("create_document", collection, "", start, 1, err)
	return err
}

// UpdateDocument patches an existing record. New text without a new vector
// re-embeds client-side so the stored vector matches the stored text.
func (s *Store) UpdateDocument(ctx context.Context, collection string, doc vectorstore.DocumentRecord) error {
	api, gen, err := s.session()
	if err != nil {
		return err
	}
	if doc.ID == "" {
		return fmt.Errorf("pinecone: document id is required for update")
	}
	if _, err := s.GetCollection(ctx, collection); err != nil {
		return err
	}

	values := doc.Embedding
	if len(values) == 0 && doc.Document != "" {
		values, err = gen.EmbedOne(ctx, collection, doc.Document, nil)
		if err != nil {
			return err
		}
	}

	var metadata map[string]interface{}
	if doc.Metadata != nil || doc.Document != "" {
		metadata = sanitizeMetadata(vectorstore.InjectDocumentText(doc.Metadata, doc.Document))
	}
	if len(values) == 0 && metadata == nil {
		return fmt.Errorf("pinecone: update needs text, metadata or an embedding")
	}

	start := time.Now()
	err = api.update(ctx, updateRequest{
		ID:          doc.ID,
		Values:      values,
		SetMetadata: metadata,
		Namespace:   toNamespace(collection),
	})
	s.observe("update_document", collection, "", start, 1, err)
	return err
}

// DeleteDocuments removes records by id.
func (s *Store) DeleteDocuments(ctx context.Context, collection string, ids []string) error {
	api, _, err := s.session()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.GetCollection(ctx, collection); err != nil {
		return err
	}

	start := time.Now()
	err = api.deleteVectors(ctx, deleteRequest{IDs: ids, Namespace: toNamespace(collection)})
	s.observe("delete_documents", collection, "", start, int64(len(ids)), err)
	return err
}

// CreateDocumentsBatch writes documents in fixed-size chunks. Records
// without a vector are embedded client-side, one provider call per chunk.
// Invalid records and failed chunks each contribute an error entry while
// the rest of the batch proceeds.
func (s *Store) CreateDocumentsBatch(ctx context.Context, collection string, docs []vectorstore.DocumentRecord) (*vectorstore.BatchResult, error) {
	api, gen, err := s.session()
	if err != nil {
		return nil, err
	}
	if _, err := s.GetCollection(ctx, collection); err != nil {
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

	namespace := toNamespace(collection)
	start := time.Now()
	for chunkIndex, chunk := range vectorstore.ChunkDocuments(valid, vectorstore.DefaultBatchSize) {
		vectors, ids, err := s.vectorsForChunk(ctx, gen, collection, chunk)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("batch %d (%d documents): %v", chunkIndex+1, len(chunk), err))
			continue
		}
		if _, err := api.upsert(ctx, upsertRequest{Vectors: vectors, Namespace: namespace}); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("batch %d (%d documents): %v", chunkIndex+1, len(chunk), err))
			continue
		}
		result.CreatedIDs = append(result.CreatedIDs, ids...)
	}
	s.observe("create_documents_batch", collection, "", start, int64(len(result.CreatedIDs)), nil)

	return result, nil
}

// FetchAllDocuments walks every id page in the namespace and hydrates the
// records in fixed-size fetches, with text split back out of reserved
// metadata.
func (s *Store) FetchAllDocuments(ctx context.Context, collection string) ([]vectorstore.DocumentRecord, error) {
	api, _, err := s.session()
	if err != nil {
		return nil, err
	}
	if _, err := s.GetCollection(ctx, collection); err != nil {
		return nil, err
	}

	namespace := toNamespace(collection)
	start := time.Now()

	var ids []string
	token := ""
	for {
		page, err := api.listVectors(ctx, namespace, listPageSize, token)
		if err != nil {
			s.observe("fetch_all", collection, "", start, 0, err)
			return nil, err
		}
		for _, v := range page.Vectors {
			ids = append(ids, v.ID)
		}
		if page.Pagination == nil || page.Pagination.Next == "" {
			break
		}
		token = page.Pagination.Next
	}

	records := make([]vectorstore.DocumentRecord, 0, len(ids))
	for from := 0; from < len(ids); from += listPageSize {
		to := from + listPageSize
		if to > len(ids) {
			to = len(ids)
		}
		resp, err := api.fetchVectors(ctx, namespace, ids[from:to])
		if err != nil {
			s.observe("fetch_all", collection, "", start, int64(len(records)), err)
			return nil, err
		}
		for _, id := range ids[from:to] {
			obj, ok := resp.Vectors[id]
			if !ok {
				continue
			}
			records = append(records, recordFromVector(obj, true))
		}
	}

	s.observe("fetch_all", collection, "", start, int64(len(records)), nil)
	return records, nil
}

// vectorsForChunk turns documents into wire vectors, generating ids where
// missing and embedding every text without a vector in one provider call.
func (s *Store) vectorsForChunk(ctx context.Context, gen *embedding.Generator, collection string, docs []vectorstore.DocumentRecord) ([]vectorObject, []string, error) {
	missing := make([]int, 0, len(docs))
	texts := make([]string, 0, len(docs))
	for i, doc := range docs {
		if len(doc.Embedding) == 0 {
			missing = append(missing, i)
			texts = append(texts, doc.Document)
		}
	}

	embedded := make(map[int][]float32, len(missing))
	if len(texts) > 0 {
		vectors, err := gen.EmbedMany(ctx, collection, texts, nil)
		if err != nil {
			return nil, nil, err
		}
		for pos, docIndex := range missing {
			embedded[docIndex] = vectors[pos]
		}
	}

	objects := make([]vectorObject, len(docs))
	ids := make([]string, len(docs))
	for i, doc := range docs {
		id := doc.ID
		if id == "" {
			id = uuid.NewString()
		}
		values := doc.Embedding
		if len(values) == 0 {
			values = embedded[i]
		}
		objects[i] = vectorObject{
			ID:       id,
			Values:   values,
			Metadata: sanitizeMetadata(vectorstore.InjectDocumentText(doc.Metadata, doc.Document)),
		}
		ids[i] = id
	}
	return objects, ids, nil
}

func (s *Store) indexDimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimension
}

func recordFromVector(obj vectorObject, includeValues bool) vectorstore.DocumentRecord {
	text, metadata := vectorstore.ExtractDocumentText(obj.Metadata)
	rec := vectorstore.DocumentRecord{
		ID:       obj.ID,
		Document: text,
		Metadata: metadata,
	}
	if includeValues {
		rec.Embedding = obj.Values
	}
	return rec
}

func recordFromMatch(match queryMatch, withScore, includeValues bool) vectorstore.DocumentRecord {
	text, metadata := vectorstore.ExtractDocumentText(match.Metadata)
	rec := vectorstore.DocumentRecord{
		ID:       match.ID,
		Document: text,
		Metadata: metadata,
	}
	if withScore {
		score := match.Score
		rec.Distance = &score
	}
	if includeValues {
		rec.Embedding = match.Values
	}
	return rec
}
