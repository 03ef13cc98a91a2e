package vectorstore

import (
	"fmt"
	"testing"
)

func makeDocs(n int) []DocumentRecord {
	docs := make([]DocumentRecord, n)
	for i := range docs {
		docs[i] = DocumentRecord{ID: fmt.Sprintf("doc-%d", i)}
	}
	return docs
}

func TestChunkDocuments(t *testing.T) {
	chunks := ChunkDocuments(makeDocs(250), 100)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if len(chunks[0]) != 100 || len(chunks[1]) != 100 || len(chunks[2]) != 50 {
		t.Errorf("chunk sizes = %d/%d/%d, want 100/100/50",
			len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}
	if chunks[2][49].ID != "doc-249" {
		t.Errorf("last document = %s, want doc-249", chunks[2][49].ID)
	}
}

func TestChunkDocumentsExactMultiple(t *testing.T) {
	chunks := ChunkDocuments(makeDocs(200), 100)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
}

func TestChunkDocumentsEmpty(t *testing.T) {
	if chunks := ChunkDocuments(nil, 100); chunks != nil {
		t.Errorf("got %v chunks for empty input", chunks)
	}
}

func TestChunkDocumentsDefaultSize(t *testing.T) {
	chunks := ChunkDocuments(makeDocs(150), 0)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks with default size, want 2", len(chunks))
	}
	if len(chunks[0]) != DefaultBatchSize {
		t.Errorf("first chunk = %d, want DefaultBatchSize", len(chunks[0]))
	}
}

func TestInjectAndExtractDocumentText(t *testing.T) {
	metadata := map[string]interface{}{"a": 1}

	stored := InjectDocumentText(metadata, "hello")
	if stored[DocumentTextKey] != "hello" {
		t.Fatalf("reserved key not set: %v", stored)
	}
	if stored["a"] != 1 {
		t.Errorf("existing metadata lost: %v", stored)
	}
	if _, ok := metadata[DocumentTextKey]; ok {
		t.Error("input metadata was mutated")
	}

	text, clean := ExtractDocumentText(stored)
	if text != "hello" {
		t.Errorf("text = %q, want hello", text)
	}
	if _, ok := clean[DocumentTextKey]; ok {
		t.Error("reserved key leaked into returned metadata")
	}
	if clean["a"] != 1 {
		t.Errorf("metadata lost on extract: %v", clean)
	}
}

func TestInjectDocumentTextEmpty(t *testing.T) {
	stored := InjectDocumentText(map[string]interface{}{"a": 1}, "")
	if _, ok := stored[DocumentTextKey]; ok {
		t.Error("empty text stored a reserved key")
	}
}

func TestExtractDocumentTextNil(t *testing.T) {
	text, clean := ExtractDocumentText(nil)
	if text != "" || clean != nil {
		t.Errorf("nil metadata: text=%q clean=%v", text, clean)
	}
}
