package qdrant

import (
	"strconv"

	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/vectordesk/core/v1/vectorstore"
)

// IDKey is the reserved payload key that carries a document's original id
// when it is not a UUID. Point ids must be UUIDs or integers, so foreign
// ids are mapped onto a deterministic UUID and round-trip through the
// payload. It must never leak into metadata returned to callers.
const IDKey = "__id__"

// pointID maps a document id onto a point id. Canonical UUIDs pass through;
// anything else hashes to the same UUID on every call, so repeated writes
// of one document keep addressing one point.
func pointID(id string) *qdrant.PointId {
	if isNativeID(id) {
		return qdrant.NewID(id)
	}
	return qdrant.NewID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String())
}

func isNativeID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func pointIDString(id *qdrant.PointId) string {
	switch v := id.GetPointIdOptions().(type) {
	case *qdrant.PointId_Num:
		return strconv.FormatUint(v.Num, 10)
	case *qdrant.PointId_Uuid:
		return v.Uuid
	default:
		return ""
	}
}

// buildPayload assembles the wire payload for one document: caller metadata
// plus the reserved text and id keys.
func buildPayload(doc vectorstore.DocumentRecord) map[string]*qdrant.Value {
	metadata := vectorstore.InjectDocumentText(doc.Metadata, doc.Document)
	if !isNativeID(doc.ID) && doc.ID != "" {
		metadata[IDKey] = doc.ID
	}
	if len(metadata) == 0 {
		return nil
	}
	return qdrant.NewValueMap(metadata)
}

// payloadToMap converts a protobuf payload back to plain values.
func payloadToMap(payload map[string]*qdrant.Value) map[string]interface{} {
	if len(payload) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		out[k] = payloadValue(v)
	}
	return out
}

func payloadValue(v *qdrant.Value) interface{} {
	switch val := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_StructValue:
		return payloadToMap(val.StructValue.GetFields())
	case *qdrant.Value_ListValue:
		values := val.ListValue.GetValues()
		items := make([]interface{}, len(values))
		for i, item := range values {
			items[i] = payloadValue(item)
		}
		return items
	default:
		return nil
	}
}

// recordFromPayload rebuilds a document from a point's id and payload,
// splitting the reserved keys back out.
func recordFromPayload(id *qdrant.PointId, payload map[string]*qdrant.Value) vectorstore.DocumentRecord {
	text, metadata := vectorstore.ExtractDocumentText(payloadToMap(payload))

	recordID := pointIDString(id)
	if original, ok := metadata[IDKey].(string); ok {
		recordID = original
		delete(metadata, IDKey)
		if len(metadata) == 0 {
			metadata = nil
		}
	}

	return vectorstore.DocumentRecord{
		ID:       recordID,
		Document: text,
		Metadata: metadata,
	}
}

func recordFromScored(point *qdrant.ScoredPoint, withScore, includeVectors bool) vectorstore.DocumentRecord {
	record := recordFromPayload(point.GetId(), point.GetPayload())
	if withScore {
		score := float64(point.GetScore())
		record.Distance = &score
	}
	if includeVectors {
		record.Embedding = point.GetVectors().GetVector().GetData()
	}
	return record
}

func recordFromRetrieved(point *qdrant.RetrievedPoint, includeVectors bool) vectorstore.DocumentRecord {
	record := recordFromPayload(point.GetId(), point.GetPayload())
	if includeVectors {
		record.Embedding = point.GetVectors().GetVector().GetData()
	}
	return record
}
