package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"

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

	switch req.Mode() {
	case vectorstore.ModeSemantic:
		return s.searchSemantic(ctx, api, gen, req, override)
	case vectorstore.ModeFetch:
		return s.fetchByID(ctx, api, req)
	default:
		return s.listRecords(ctx, api, req)
	}
}

func (s *Store) searchSemantic(ctx context.Context, api *qdrant.Client, gen *embedding.Generator, req vectorstore.SearchRequest, override *embedding.Descriptor) ([]vectorstore.DocumentRecord, error) {
	vector, err := gen.EmbedOne(ctx, req.Collection, req.Query, override)
	if err != nil {
		return nil, err
	}
	filter, err := translateWhere(req.Where)
	if err != nil {
		return nil, err
	}

	limit := uint64(req.EffectiveLimit())
	start := time.Now()
	resp, err := api.Query(ctx, &qdrant.QueryPoints{
		CollectionName: req.Collection,
		Query:          qdrant.NewQuery(vector...),
		Filter:         filter,
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(req.IncludeEmbeddings),
	})
	if err != nil {
		err = translateError(err)
		s.observe("search", req.Collection, "semantic", start, 0, err)
		return nil, err
	}

	records := make([]vectorstore.DocumentRecord, len(resp))
	for i, point := range resp {
		records[i] = recordFromScored(point, true, req.IncludeEmbeddings)
	}
	s.observe("search", req.Collection, "semantic", start, int64(len(records)), nil)
	return records, nil
}

func (s *Store) fetchByID(ctx context.Context, api *qdrant.Client, req vectorstore.SearchRequest) ([]vectorstore.DocumentRecord, error) {
	pointIDs := make([]*qdrant.PointId, len(req.IDs))
	for i, id := range req.IDs {
		pointIDs[i] = pointID(id)
	}

	start := time.Now()
	resp, err := api.Get(ctx, &qdrant.GetPoints{
		CollectionName: req.Collection,
		Ids:            pointIDs,
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(req.IncludeEmbeddings),
	})
	if err != nil {
		err = translateError(err)
		s.observe("search", req.Collection, "fetch", start, 0, err)
		return nil, err
	}

	// Points come back in arbitrary order; answer in request order and
	// skip ids the collection does not hold.
	byID := make(map[string]vectorstore.DocumentRecord, len(resp))
	for _, point := range resp {
		record := recordFromRetrieved(point, req.IncludeEmbeddings)
		byID[record.ID] = record
	}
	records := make([]vectorstore.DocumentRecord, 0, len(req.IDs))
	for _, id := range req.IDs {
		if record, ok := byID[id]; ok {
			records = append(records, record)
		}
	}
	s.observe("search", req.Collection, "fetch", start, int64(len(records)), nil)
	return records, nil
}

// listRecords browses a collection in id order using a query without a
// query vector, which pages natively by limit and offset.
func (s *Store) listRecords(ctx context.Context, api *qdrant.Client, req vectorstore.SearchRequest) ([]vectorstore.DocumentRecord, error) {
	filter, err := translateWhere(req.Where)
	if err != nil {
		return nil, err
	}

	limit := uint64(req.EffectiveLimit())
	var offset *uint64
	if req.Offset > 0 {
		v := uint64(req.Offset)
		offset = &v
	}

	start := time.Now()
	resp, err := api.Query(ctx, &qdrant.QueryPoints{
		CollectionName: req.Collection,
		Filter:         filter,
		Limit:          &limit,
		Offset:         offset,
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(req.IncludeEmbeddings),
	})
	if err != nil {
		err = translateError(err)
		s.observe("search", req.Collection, "list", start, 0, err)
		return nil, err
	}

	records := make([]vectorstore.DocumentRecord, len(resp))
	for i, point := range resp {
		records[i] = recordFromScored(point, false, req.IncludeEmbeddings)
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
		return fmt.Errorf("qdrant: document needs text or an embedding")
	}
	if _, err := s.GetCollection(ctx, collection); err != nil {
		return err
	}

	points, _, err := s.pointsForChunk(ctx, gen, collection, []vectorstore.DocumentRecord{doc})
	if err != nil {
		return err
	}

	start := time.Now()
	err = upsertPoints(ctx, api, collection, points)
	s.observe("create_document", collection, "", start, 1, err)
	return err
}

// UpdateDocument patches an existing record. The vector and the payload are
// updated independently so untouched parts of the point survive; new text
// without a new vector re-embeds client-side so the stored vector matches
// the stored text.
func (s *Store) UpdateDocument(ctx context.Context, collection string, doc vectorstore.DocumentRecord) error {
	api, gen, err := s.session()
	if err != nil {
		return err
	}
	if doc.ID == "" {
		return fmt.Errorf("qdrant: document id is required for update")
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
	patchPayload := doc.Metadata != nil || doc.Document != ""
	if len(values) == 0 && !patchPayload {
		return fmt.Errorf("qdrant: update needs text, metadata or an embedding")
	}

	pid := pointID(doc.ID)
	start := time.Now()

	existing, err := api.Get(ctx, &qdrant.GetPoints{CollectionName: collection, Ids: []*qdrant.PointId{pid}})
	if err != nil {
		err = translateError(err)
		s.observe("update_document", collection, "", start, 0, err)
		return err
	}
	if len(existing) == 0 {
		err = fmt.Errorf("qdrant: document %q not found in %q", doc.ID, collection)
		s.observe("update_document", collection, "", start, 0, err)
		return err
	}

	wait := true
	if len(values) > 0 {
		_, err = api.UpdateVectors(ctx, &qdrant.UpdatePointVectors{
			CollectionName: collection,
			Points:         []*qdrant.PointVectors{{Id: pid, Vectors: qdrant.NewVectors(values...)}},
			Wait:           &wait,
		})
		if err != nil {
			err = translateError(err)
			s.observe("update_document", collection, "", start, 0, err)
			return err
		}
	}
	if patchPayload {
		metadata := vectorstore.InjectDocumentText(doc.Metadata, doc.Document)
		if !isNativeID(doc.ID) {
			metadata[IDKey] = doc.ID
		}
		_, err = api.SetPayload(ctx, &qdrant.SetPayloadPoints{
			CollectionName: collection,
			Payload:        qdrant.NewValueMap(metadata),
			PointsSelector: idSelector([]*qdrant.PointId{pid}),
			Wait:           &wait,
		})
		if err != nil {
			err = translateError(err)
			s.observe("update_document", collection, "", start, 0, err)
			return err
		}
	}

	s.observe("update_document", collection, "", start, 1, nil)
	return nil
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

	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = pointID(id)
	}

	wait := true
	start := time.Now()
	_, err = api.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points:         idSelector(pointIDs),
		Wait:           &wait,
	})
	err = translateError(err)
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

	start := time.Now()
	for chunkIndex, chunk := range vectorstore.ChunkDocuments(valid, vectorstore.DefaultBatchSize) {
		points, ids, err := s.pointsForChunk(ctx, gen, collection, chunk)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("batch %d (%d documents): %v", chunkIndex+1, len(chunk), err))
			continue
		}
		if err := upsertPoints(ctx, api, collection, points); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("batch %d (%d documents): %v", chunkIndex+1, len(chunk), err))
			continue
		}
		result.CreatedIDs = append(result.CreatedIDs, ids...)
	}
	s.observe("create_documents_batch", collection, "", start, int64(len(result.CreatedIDs)), nil)

	return result, nil
}

// FetchAllDocuments scrolls through every point in the collection with
// payloads and vectors, following the page cursor until the end.
func (s *Store) FetchAllDocuments(ctx context.Context, collection string) ([]vectorstore.DocumentRecord, error) {
	api, _, err := s.session()
	if err != nil {
		return nil, err
	}
	if _, err := s.GetCollection(ctx, collection); err != nil {
		return nil, err
	}

	points := api.GetPointsClient()
	limit := uint32(scrollPageSize)
	var offset *qdrant.PointId
	var records []vectorstore.DocumentRecord

	start := time.Now()
	for {
		resp, err := points.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: collection,
			Limit:          &limit,
			Offset:         offset,
			WithPayload:    qdrant.NewWithPayload(true),
			WithVectors:    qdrant.NewWithVectors(true),
		})
		if err != nil {
			err = translateError(err)
			s.observe("fetch_all", collection, "", start, int64(len(records)), err)
			return nil, err
		}
		for _, point := range resp.GetResult() {
			records = append(records, recordFromRetrieved(point, true))
		}
		offset = resp.GetNextPageOffset()
		if offset == nil || len(resp.GetResult()) == 0 {
			break
		}
	}

	s.observe("fetch_all", collection, "", start, int64(len(records)), nil)
	return records, nil
}

// pointsForChunk turns documents into wire points, generating ids where
// missing and embedding every text without a vector in one provider call.
func (s *Store) pointsForChunk(ctx context.Context, gen *embedding.Generator, collection string, docs []vectorstore.DocumentRecord) ([]*qdrant.PointStruct, []string, error) {
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

	points := make([]*qdrant.PointStruct, len(docs))
	ids := make([]string, len(docs))
	for i, doc := range docs {
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		values := doc.Embedding
		if len(values) == 0 {
			values = embedded[i]
		}
		points[i] = &qdrant.PointStruct{
			Id:      pointID(doc.ID),
			Vectors: qdrant.NewVectors(values...),
			Payload: buildPayload(doc),
		}
		ids[i] = doc.ID
	}
	return points, ids, nil
}

func upsertPoints(ctx context.Context, api *qdrant.Client, collection string, points []*qdrant.PointStruct) error {
	wait := true
	_, err := api.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
		Wait:           &wait,
	})
	return translateError(err)
}

func idSelector(ids []*qdrant.PointId) *qdrant.PointsSelector {
	return &qdrant.PointsSelector{
		PointsSelectorOneOf: &qdrant.PointsSelector_Points{
			Points: &qdrant.PointsIdsList{Ids: ids},
		},
	}
}
