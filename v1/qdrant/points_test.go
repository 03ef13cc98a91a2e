package qdrant

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/vectordesk/core/v1/vectorstore"
)

func TestPointID_NativeUUIDPassesThrough(t *testing.T) {
	native := uuid.NewString()
	if got := pointID(native).GetUuid(); got != native {
		t.Errorf("expected %s to pass through, got %s", native, got)
	}
}

func TestPointID_ForeignIDMapsDeterministically(t *testing.T) {
	first := pointID("alpha").GetUuid()
	second := pointID("alpha").GetUuid()
	if first != second {
		t.Errorf("expected stable mapping for alpha, got %s and %s", first, second)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Errorf("expected a canonical UUID, got %s: %v", first, err)
	}
	if other := pointID("beta").GetUuid(); other == first {
		t.Errorf("expected distinct ids to map to distinct points, both got %s", first)
	}
}

func TestPointID_LookalikeLengthStillHashes(t *testing.T) {
	lookalike := "abcdefghijklmnopqrstuvwxyz0123456789"
	if len(lookalike) != 36 {
		t.Fatalf("test id must be 36 characters, got %d", len(lookalike))
	}
	got := pointID(lookalike).GetUuid()
	if got == lookalike {
		t.Errorf("expected non-UUID id to hash, got it verbatim: %s", got)
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("expected a canonical UUID, got %s: %v", got, err)
	}
}

func TestPointIDString_Formats(t *testing.T) {
	if got := pointIDString(qdrant.NewIDNum(7)); got != "7" {
		t.Errorf("expected numeric id 7, got %q", got)
	}
	native := uuid.NewString()
	if got := pointIDString(qdrant.NewID(native)); got != native {
		t.Errorf("expected %s, got %q", native, got)
	}
	if got := pointIDString(nil); got != "" {
		t.Errorf("expected empty string for nil id, got %q", got)
	}
}

func TestBuildPayload_ReservedKeys(t *testing.T) {
	payload := buildPayload(vectorstore.DocumentRecord{
		ID:       "alpha",
		Document: "hello world",
		Metadata: map[string]interface{}{"lang": "en"},
	})
	if len(payload) != 3 {
		t.Fatalf("expected 3 payload keys, got %d", len(payload))
	}
	if got := payload[vectorstore.DocumentTextKey].GetStringValue(); got != "hello world" {
		t.Errorf("expected reserved text key to carry the document, got %q", got)
	}
	if got := payload[IDKey].GetStringValue(); got != "alpha" {
		t.Errorf("expected reserved id key to carry alpha, got %q", got)
	}
	if got := payload["lang"].GetStringValue(); got != "en" {
		t.Errorf("expected metadata to pass through, got %q", got)
	}
}

func TestBuildPayload_NativeIDNotSmuggled(t *testing.T) {
	payload := buildPayload(vectorstore.DocumentRecord{
		ID:       uuid.NewString(),
		Document: "text",
	})
	if _, ok := payload[IDKey]; ok {
		t.Error("expected no reserved id key for a native UUID id")
	}
}

func TestBuildPayload_EmptyDocument(t *testing.T) {
	payload := buildPayload(vectorstore.DocumentRecord{ID: uuid.NewString()})
	if payload != nil {
		t.Errorf("expected nil payload for a bare vector record, got %v", payload)
	}
}

func TestRecordRoundTrip_ForeignID(t *testing.T) {
	doc := vectorstore.DocumentRecord{
		ID:       "alpha",
		Document: "hello world",
		Metadata: map[string]interface{}{"lang": "en"},
	}

	record := recordFromPayload(pointID(doc.ID), buildPayload(doc))

	if record.ID != "alpha" {
		t.Errorf("expected original id alpha back, got %q", record.ID)
	}
	if record.Document != "hello world" {
		t.Errorf("expected document text back, got %q", record.Document)
	}
	if !reflect.DeepEqual(record.Metadata, map[string]interface{}{"lang": "en"}) {
		t.Errorf("expected clean metadata without reserved keys, got %v", record.Metadata)
	}
}

func TestRecordRoundTrip_TextOnly(t *testing.T) {
	doc := vectorstore.DocumentRecord{ID: "alpha", Document: "just text"}
	record := recordFromPayload(pointID(doc.ID), buildPayload(doc))
	if record.Document != "just text" {
		t.Errorf("expected text back, got %q", record.Document)
	}
	if record.Metadata != nil {
		t.Errorf("expected nil metadata once reserved keys are stripped, got %v", record.Metadata)
	}
}

func TestRecordFromPayload_ValueKinds(t *testing.T) {
	payload := qdrant.NewValueMap(map[string]interface{}{
		"count":  2,
		"ratio":  0.5,
		"flag":   true,
		"tags":   []interface{}{"a", "b"},
		"nested": map[string]interface{}{"k": "v"},
	})

	record := recordFromPayload(qdrant.NewIDNum(9), payload)

	if record.ID != "9" {
		t.Errorf("expected numeric point id as string, got %q", record.ID)
	}
	want := map[string]interface{}{
		"count":  int64(2),
		"ratio":  0.5,
		"flag":   true,
		"tags":   []interface{}{"a", "b"},
		"nested": map[string]interface{}{"k": "v"},
	}
	if !reflect.DeepEqual(record.Metadata, want) {
		t.Errorf("expected %v, got %v", want, record.Metadata)
	}
}

func TestRecordFromScored_Score(t *testing.T) {
	point := &qdrant.ScoredPoint{
		Id:      pointID("alpha"),
		Score:   0.875,
		Payload: buildPayload(vectorstore.DocumentRecord{ID: "alpha", Document: "text"}),
	}

	scored := recordFromScored(point, true, false)
	if scored.Distance == nil || *scored.Distance != 0.875 {
		t.Errorf("expected score 0.875, got %v", scored.Distance)
	}
	if scored.ID != "alpha" {
		t.Errorf("expected original id back, got %q", scored.ID)
	}

	listed := recordFromScored(point, false, true)
	if listed.Distance != nil {
		t.Errorf("expected no score on a listing, got %v", listed.Distance)
	}
	if listed.Embedding != nil {
		t.Errorf("expected no embedding when the point carries none, got %v", listed.Embedding)
	}
}
